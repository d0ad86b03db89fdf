// Package pipeline runs one comparison of a set of assemblies: metrics,
// similarity matrix, distances and the neighbor-joining tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gmaffy/genome-compare/assembly"
	"github.com/gmaffy/genome-compare/cache"
	"github.com/gmaffy/genome-compare/matrix"
	"github.com/gmaffy/genome-compare/phylo"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Fingerprinter is implemented by comparators whose results depend on
// parameters. Results of comparators without it are never cached.
type Fingerprinter interface {
	Fingerprint() string
}

type Options struct {
	Files      []string
	Workers    int
	Timeout    time.Duration
	Fill       matrix.FillPolicy
	Comparator matrix.Comparator
	Cache      cache.Store[matrix.Similarity]
	Logger     *slog.Logger
}

// InputError records a file that could not be used.
type InputError struct {
	Path string
	Err  error
}

func (e InputError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e InputError) Unwrap() error { return e.Err }

var ErrDuplicateID = errors.New("another input has the same assembly id")

type Result struct {
	RunID string
	// Stats holds one entry per readable file, in input order.
	Stats       []assembly.Stats
	InputErrors []InputError
	// Excluded lists assemblies without sequence, which are left out of the
	// matrix.
	Excluded   []string
	Similarity matrix.Similarity
	Failures   matrix.Failures
	// Distance keeps unavailable entries; Filled is what the tree was built
	// from.
	Distance matrix.Distance
	Filled   matrix.Distance
	Tree     *phylo.Tree
	TreeErr  error
	CacheHit bool
}

// Run executes the whole analysis. Per-file and per-pair problems are
// recorded in the Result; an error is returned only when the run could not
// finish, for example when ctx is canceled, in which case the partial Result
// is returned with it.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Comparator == nil {
		return nil, errors.New("no comparator configured")
	}
	res := &Result{RunID: uuid.NewString()}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("RUN", res.RunID)
	logger.Info("GENOME COMPARE", "PROGRAM", "INITIALISE", "SAMPLE", "ALL", "STATUS", "STARTED")

	assemblies := loadAll(opts.Files, res, logger)
	res.Stats = lo.Map(assemblies, func(a assembly.Assembly, _ int) assembly.Stats { return a.Stats() })

	usable := lo.Filter(assemblies, func(a assembly.Assembly, _ int) bool { return !a.Empty() })
	res.Excluded = lo.FilterMap(assemblies, func(a assembly.Assembly, _ int) (string, bool) { return a.ID, a.Empty() })
	for _, id := range res.Excluded {
		logger.Warn("STATS", "PROGRAM", "LOAD", "SAMPLE", id, "STATUS", "EXCLUDED - no sequence")
	}
	items := lo.Map(usable, func(a assembly.Assembly, _ int) matrix.Item {
		return matrix.Item{Label: a.ID, Path: a.Path}
	})

	key := cacheKey(opts, items, logger)
	if key != "" {
		if s, ok := opts.Cache.Get(key); ok {
			res.Similarity, res.Failures, res.CacheHit = s, matrix.Failures{}, true
			logger.Info("ANI", "PROGRAM", "CACHE", "SAMPLE", "ALL", "STATUS", "COMPLETED")
		}
	}
	if !res.CacheHit {
		b := matrix.Builder{Workers: opts.Workers, Timeout: opts.Timeout, Logger: logger}
		s, failures, err := b.Build(ctx, items, opts.Comparator)
		res.Similarity, res.Failures = s, failures
		if err != nil {
			res.Distance = matrix.ToDistance(s)
			logger.Error("GENOME COMPARE", "PROGRAM", "MATRIX", "SAMPLE", "ALL", "STATUS", fmt.Sprintf("FAILED - %v", err))
			return res, err
		}
		if key != "" && len(failures) == 0 {
			opts.Cache.Put(key, s)
		}
	}

	res.Distance = matrix.ToDistance(res.Similarity)
	filled, err := matrix.Fill(res.Distance, opts.Fill)
	if err != nil {
		res.TreeErr = err
	} else {
		res.Filled = filled
		res.Tree, res.TreeErr = phylo.Build(filled.Sym(), filled.Labels())
	}
	if res.TreeErr != nil {
		logger.Warn("NJ", "PROGRAM", "TREE", "SAMPLE", "ALL", "STATUS", fmt.Sprintf("FAILED - %v", res.TreeErr))
	} else {
		logger.Info("NJ", "PROGRAM", "TREE", "SAMPLE", "ALL", "STATUS", "COMPLETED")
	}

	logger.Info("GENOME COMPARE", "PROGRAM", "RUN", "SAMPLE", "ALL", "STATUS", "COMPLETED")
	return res, nil
}

func loadAll(files []string, res *Result, logger *slog.Logger) []assembly.Assembly {
	var out []assembly.Assembly
	seen := map[string]string{}
	for _, path := range files {
		a, err := assembly.Load(path)
		if err == nil {
			if first, dup := seen[a.ID]; dup {
				err = fmt.Errorf("%w: %s (%s)", ErrDuplicateID, a.ID, first)
			}
		}
		if err != nil {
			res.InputErrors = append(res.InputErrors, InputError{Path: path, Err: err})
			logger.Error("STATS", "PROGRAM", "LOAD", "SAMPLE", path, "STATUS", fmt.Sprintf("FAILED - %v", err))
			continue
		}
		seen[a.ID] = path
		out = append(out, a)
		logger.Info("STATS", "PROGRAM", "LOAD", "SAMPLE", a.ID, "STATUS", "COMPLETED")
	}
	return out
}

func cacheKey(opts Options, items []matrix.Item, logger *slog.Logger) string {
	fp, ok := opts.Comparator.(Fingerprinter)
	if opts.Cache == nil || !ok || len(items) == 0 {
		return ""
	}
	paths := lo.Map(items, func(it matrix.Item, _ int) string { return it.Path })
	labels := lo.Map(items, func(it matrix.Item, _ int) string { return it.Label })
	key, err := cache.Fingerprint(paths, fp.Fingerprint()+"|"+strings.Join(labels, ","))
	if err != nil {
		logger.Warn("ANI", "PROGRAM", "CACHE", "SAMPLE", "ALL", "STATUS", fmt.Sprintf("SKIPPED - %v", err))
		return ""
	}
	return key
}
