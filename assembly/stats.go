package assembly

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Stats holds the length, continuity and composition statistics of one
// assembly. Min, Max and Mean are contig lengths in bp.
type Stats struct {
	ID          string
	TotalLength int
	Contigs     int
	N50         int
	L90         int
	GC          float64
	Min         int
	Max         int
	Mean        float64
}

// GCRounded returns GC% rounded to two decimals for display.
func (s Stats) GCRounded() float64 {
	return math.Round(s.GC*100) / 100
}

// ComputeStats computes statistics for an ordered set of records.
func ComputeStats(id string, recs []Record) Stats {
	return New(id, "", recs).Stats()
}

// Stats recomputes the statistics of a. An assembly without contigs reports
// zero for every field.
func (a Assembly) Stats() Stats {
	s := Stats{ID: a.ID, TotalLength: a.total, Contigs: len(a.lengths)}
	if len(a.lengths) == 0 {
		return s
	}
	if a.total > 0 {
		s.GC = float64(a.gc) / float64(a.total) * 100
	}

	sorted := a.Lengths()
	slices.SortStableFunc(sorted, func(x, y int) int { return y - x })

	s.N50 = sorted[nIndex(sorted, a.total, 0.5)]
	s.L90 = nIndex(sorted, a.total, 0.9) + 1
	s.Max = sorted[0]
	s.Min = sorted[len(sorted)-1]

	lens := make([]float64, len(sorted))
	for i, l := range sorted {
		lens[i] = float64(l)
	}
	s.Mean = stat.Mean(lens, nil)
	return s
}

// nIndex returns the index of the first contig, largest first, at which the
// cumulative length reaches frac of total.
func nIndex(desc []int, total int, frac float64) int {
	target := float64(total) * frac
	cum := 0
	for i, l := range desc {
		cum += l
		if float64(cum) >= target {
			return i
		}
	}
	return len(desc) - 1
}
