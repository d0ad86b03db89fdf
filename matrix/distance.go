package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ToDistance converts similarity scores to distances d = 1 - s/100. An
// unavailable score stays unavailable.
func ToDistance(s Similarity) Distance {
	d := Distance{newLabeled(s.labels)}
	for i := 0; i < s.Len(); i++ {
		for j := i; j < s.Len(); j++ {
			v := s.At(i, j)
			if !math.IsNaN(v) {
				v = 1 - v/MaxSimilarity
			}
			d.m.SetSym(i, j, v)
		}
	}
	return d
}

// FillPolicy says what value replaces an unavailable distance before the
// matrix is handed to tree building.
type FillPolicy int

const (
	// FillNone leaves the matrix as is; Fill fails if anything is missing.
	FillNone FillPolicy = iota
	// FillZero treats unavailable pairs as identical.
	FillZero
	// FillMax uses the largest observed distance, or 1 when none is observed.
	FillMax
)

func (p FillPolicy) String() string {
	switch p {
	case FillNone:
		return "none"
	case FillZero:
		return "zero"
	case FillMax:
		return "max"
	}
	return fmt.Sprintf("FillPolicy(%d)", int(p))
}

// ParseFillPolicy reads "none", "zero" or "max".
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FillNone, nil
	case "zero":
		return FillZero, nil
	case "max":
		return FillMax, nil
	}
	return FillNone, fmt.Errorf("unknown fill policy %q (want none, zero or max)", s)
}

// Fill returns a copy of d with every unavailable entry replaced according
// to policy. With FillNone a matrix that has missing entries is rejected
// with ErrIncomplete.
func Fill(d Distance, policy FillPolicy) (Distance, error) {
	missing := d.Missing()
	if len(missing) == 0 {
		return d, nil
	}

	var v float64
	switch policy {
	case FillNone:
		return Distance{}, fmt.Errorf("%w: %d pairs unavailable", ErrIncomplete, len(missing))
	case FillZero:
		v = 0
	case FillMax:
		v = maxDefined(d)
	default:
		return Distance{}, fmt.Errorf("unknown fill policy %v", policy)
	}

	out := Distance{newLabeled(d.labels)}
	out.m.CopySym(d.m)
	for _, p := range missing {
		out.m.SetSym(p.I, p.J, v)
	}
	return out, nil
}

func maxDefined(d Distance) float64 {
	best := math.NaN()
	for i := 0; i < d.Len(); i++ {
		for j := i + 1; j < d.Len(); j++ {
			if v := d.At(i, j); !math.IsNaN(v) && (math.IsNaN(best) || v > best) {
				best = v
			}
		}
	}
	if math.IsNaN(best) {
		return 1
	}
	return best
}
