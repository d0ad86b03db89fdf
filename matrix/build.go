package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single comparison when Builder.Timeout is zero.
const DefaultTimeout = time.Hour

// Comparator scores the similarity of two sequence files in
// [0, MaxSimilarity]. A failed comparison returns an error whose text is the
// reason recorded for the pair.
type Comparator interface {
	Compare(ctx context.Context, fileA, fileB string, timeout time.Duration) (float64, error)
}

// Item is one matrix row: the label shown for it and the file compared.
type Item struct {
	Label string
	Path  string
}

// Builder fills a Similarity matrix by comparing every unordered pair of
// items exactly once.
type Builder struct {
	// Workers is the number of comparisons run at once. Values below 2 run
	// the pairs one by one in ascending (i, j) order.
	Workers int
	Timeout time.Duration
	Logger  *slog.Logger
}

// Build compares all pairs of items. Every pair without a score is listed in
// the returned Failures and holds NaN in the matrix. When ctx is canceled the
// pairs not yet compared are recorded as canceled and ctx.Err() is returned
// together with the partial matrix, which is still symmetric with a full
// diagonal.
func (b Builder) Build(ctx context.Context, items []Item, c Comparator) (Similarity, Failures, error) {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	if err := CheckLabels(labels); err != nil {
		return Similarity{}, nil, err
	}

	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	s := Similarity{newLabeled(labels)}
	failures := make(Failures)
	var mu sync.Mutex

	fail := func(p Pair, reason string) {
		mu.Lock()
		failures[p] = reason
		mu.Unlock()
		s.m.SetSym(p.I, p.J, math.NaN())
	}

	compare := func(p Pair) {
		name := items[p.I].Label + "|" + items[p.J].Label
		if err := ctx.Err(); err != nil {
			fail(p, "canceled: not started")
			logger.Warn("ANI", "PROGRAM", "COMPARE", "PAIR", name, "STATUS", "CANCELED")
			return
		}

		logger.Info("ANI", "PROGRAM", "COMPARE", "PAIR", name, "STATUS", "STARTED")
		score, err := c.Compare(ctx, items[p.I].Path, items[p.J].Path, timeout)
		if err == nil && (math.IsNaN(score) || score < 0 || score > MaxSimilarity) {
			err = fmt.Errorf("score %v outside [0,%v]", score, MaxSimilarity)
		}
		if err != nil {
			reason := err.Error()
			if ctx.Err() != nil && !strings.HasPrefix(reason, "canceled") {
				reason = "canceled: " + reason
			}
			fail(p, reason)
			logger.Error("ANI", "PROGRAM", "COMPARE", "PAIR", name, "STATUS", fmt.Sprintf("FAILED - %s", reason))
			return
		}
		s.m.SetSym(p.I, p.J, score)
		logger.Info("ANI", "PROGRAM", "COMPARE", "PAIR", name, "STATUS", "COMPLETED", "SCORE", score)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			p := Pair{I: i, J: j}
			g.Go(func() error {
				compare(p)
				return nil
			})
		}
	}
	g.Wait()

	for i := range items {
		s.m.SetSym(i, i, MaxSimilarity)
	}
	return s, failures, ctx.Err()
}
