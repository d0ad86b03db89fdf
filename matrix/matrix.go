// Package matrix holds the labeled similarity and distance matrices shared by
// the comparison and tree-building steps, and the builder that fills a
// similarity matrix from pairwise comparisons.
//
// Both matrix types are backed by a gonum SymDense, so M[i][j] == M[j][i]
// always holds. An unavailable entry is NaN.
package matrix

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MaxSimilarity is the similarity of an assembly with itself.
const MaxSimilarity = 100.0

var (
	ErrShape      = errors.New("matrix is not square or does not match its labels")
	ErrAsymmetric = errors.New("matrix is not symmetric")
	ErrDiagonal   = errors.New("matrix diagonal is not the identity value")
	ErrRange      = errors.New("matrix value out of range")
	ErrLabels     = errors.New("labels must be unique and non-empty")
	ErrIncomplete = errors.New("incomplete distance matrix")
)

// Pair is an unordered pair of matrix indices, stored with I < J.
type Pair struct {
	I, J int
}

// NewPair returns the pair {i, j} in canonical order.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// Failures maps each pair that has no score to the reason it has none.
type Failures map[Pair]string

// Sorted returns the failed pairs in ascending (I, J) order.
func (f Failures) Sorted() []Pair {
	pairs := make([]Pair, 0, len(f))
	for p := range f {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}

// Table is a labeled square matrix.
type Table interface {
	Labels() []string
	Len() int
	At(i, j int) float64
}

type labeled struct {
	labels []string
	m      *mat.SymDense
}

func newLabeled(labels []string) labeled {
	l := labeled{labels: append([]string(nil), labels...)}
	if len(labels) > 0 {
		l.m = mat.NewSymDense(len(labels), nil)
	}
	return l
}

func (l labeled) Labels() []string { return append([]string(nil), l.labels...) }

func (l labeled) Len() int { return len(l.labels) }

func (l labeled) At(i, j int) float64 { return l.m.At(i, j) }

// Defined reports whether entry (i, j) holds a value.
func (l labeled) Defined(i, j int) bool { return !math.IsNaN(l.m.At(i, j)) }

// Missing returns the pairs without a value in ascending order.
func (l labeled) Missing() []Pair {
	var out []Pair
	for i := 0; i < l.Len(); i++ {
		for j := i + 1; j < l.Len(); j++ {
			if !l.Defined(i, j) {
				out = append(out, Pair{I: i, J: j})
			}
		}
	}
	return out
}

// Complete reports whether every entry holds a value.
func (l labeled) Complete() bool { return len(l.Missing()) == 0 }

// Sym returns a copy of the values, or nil for an empty matrix.
func (l labeled) Sym() *mat.SymDense {
	if l.m == nil {
		return nil
	}
	c := mat.NewSymDense(l.Len(), nil)
	c.CopySym(l.m)
	return c
}

// Rows returns a copy of the values as a slice of rows.
func (l labeled) Rows() [][]float64 {
	rows := make([][]float64, l.Len())
	for i := range rows {
		rows[i] = make([]float64, l.Len())
		for j := range rows[i] {
			rows[i][j] = l.m.At(i, j)
		}
	}
	return rows
}

// Index returns the position of label, or -1.
func (l labeled) Index(label string) int {
	for i, s := range l.labels {
		if s == label {
			return i
		}
	}
	return -1
}

// Similarity is a labeled matrix of similarity scores in [0, MaxSimilarity]
// whose diagonal is MaxSimilarity.
type Similarity struct{ labeled }

// Distance is a labeled matrix of non-negative distances with a zero
// diagonal.
type Distance struct{ labeled }

// NewSimilarity validates rows and returns them as a Similarity. NaN marks an
// unavailable score.
func NewSimilarity(labels []string, rows [][]float64) (Similarity, error) {
	l, err := fromRows(labels, rows, MaxSimilarity, func(v float64) bool { return v >= 0 && v <= MaxSimilarity })
	if err != nil {
		return Similarity{}, err
	}
	return Similarity{l}, nil
}

// NewDistance validates rows and returns them as a Distance. NaN marks an
// unavailable distance.
func NewDistance(labels []string, rows [][]float64) (Distance, error) {
	l, err := fromRows(labels, rows, 0, func(v float64) bool { return !math.IsInf(v, 0) })
	if err != nil {
		return Distance{}, err
	}
	return Distance{l}, nil
}

func fromRows(labels []string, rows [][]float64, diag float64, valid func(float64) bool) (labeled, error) {
	if err := CheckLabels(labels); err != nil {
		return labeled{}, err
	}
	if err := CheckSymmetric(rows); err != nil {
		return labeled{}, err
	}
	if len(rows) != len(labels) {
		return labeled{}, fmt.Errorf("%w: %d labels for %d rows", ErrShape, len(labels), len(rows))
	}
	l := newLabeled(labels)
	for i := range rows {
		if rows[i][i] != diag {
			return labeled{}, fmt.Errorf("%w: entry (%d,%d) is %v, want %v", ErrDiagonal, i, i, rows[i][i], diag)
		}
		for j := i; j < len(rows); j++ {
			v := rows[i][j]
			if !math.IsNaN(v) && !valid(v) {
				return labeled{}, fmt.Errorf("%w: entry (%d,%d) is %v", ErrRange, i, j, v)
			}
			l.m.SetSym(i, j, v)
		}
	}
	return l, nil
}

// CheckLabels rejects empty or repeated labels.
func CheckLabels(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, s := range labels {
		if s == "" {
			return fmt.Errorf("%w: empty label", ErrLabels)
		}
		if seen[s] {
			return fmt.Errorf("%w: %q repeated", ErrLabels, s)
		}
		seen[s] = true
	}
	return nil
}

// CheckSymmetric reports ErrShape for a ragged or non-square matrix and
// ErrAsymmetric when rows[i][j] != rows[j][i]. Two NaN entries are equal.
func CheckSymmetric(rows [][]float64) error {
	for i, r := range rows {
		if len(r) != len(rows) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(r), len(rows))
		}
	}
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			a, b := rows[i][j], rows[j][i]
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				return fmt.Errorf("%w: (%d,%d)=%v but (%d,%d)=%v", ErrAsymmetric, i, j, a, j, i, b)
			}
		}
	}
	return nil
}
