package phylo

import (
	"errors"
	"fmt"
	"math"

	"github.com/gmaffy/genome-compare/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrTooFewLeaves = errors.New("not enough inputs")
	ErrIncomplete   = matrix.ErrIncomplete
	ErrLabelCount   = errors.New("label count does not match matrix size")
)

// Build joins the labeled distance matrix d into an unrooted binary tree by
// neighbor joining. Every entry of d must be finite; fill unavailable
// distances before calling. Labels must not contain Newick punctuation or
// whitespace (see SafeLabel). Negative branch lengths are kept as computed.
//
// At each step the active pair (i, j) with the smallest
// Q(i,j) = (n-2)·D(i,j) - r(i) - r(j) is joined, the first such pair in
// ascending (i, j) order winning ties. The last two active nodes are joined
// by a single edge.
func Build(d mat.Symmetric, labels []string) (*Tree, error) {
	n := len(labels)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d labels, need at least 3", ErrTooFewLeaves, n)
	}
	if d == nil || d.SymmetricDim() != n {
		size := 0
		if d != nil {
			size = d.SymmetricDim()
		}
		return nil, fmt.Errorf("%w: %d labels for a %dx%d matrix", ErrLabelCount, n, size, size)
	}
	if err := matrix.CheckLabels(labels); err != nil {
		return nil, err
	}
	for _, l := range labels {
		if l != SafeLabel(l) {
			return nil, fmt.Errorf("%w: %q", ErrLabelSyntax, l)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := d.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: no distance between %q and %q", ErrIncomplete, labels[i], labels[j])
			}
		}
	}

	// D is indexed by node: leaves 0..n-1, then internal nodes as created.
	size := 2*n - 2
	D := make([][]float64, size)
	for i := range D {
		D[i] = make([]float64, size)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				D[i][j] = d.At(i, j)
			}
		}
	}

	t := &Tree{names: append([]string(nil), labels...)}
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}
	r := make([]float64, size)
	next := n

	for len(active) > 2 {
		m := len(active)
		for _, i := range active {
			r[i] = 0
			for _, j := range active {
				if i != j {
					r[i] += D[i][j]
				}
			}
		}

		bi, bj := 0, 1
		best := math.Inf(1)
		for a := 0; a < m; a++ {
			for b := a + 1; b < m; b++ {
				i, j := active[a], active[b]
				if q := float64(m-2)*D[i][j] - r[i] - r[j]; q < best {
					best, bi, bj = q, a, b
				}
			}
		}
		i, j := active[bi], active[bj]

		u := next
		next++
		li := D[i][j]/2 + (r[i]-r[j])/(2*float64(m-2))
		lj := D[i][j] - li
		t.edges = append(t.edges, Edge{From: u, To: i, Length: li}, Edge{From: u, To: j, Length: lj})
		t.internal++

		rest := make([]int, 0, m-1)
		for _, k := range active {
			if k == i || k == j {
				continue
			}
			D[u][k] = (D[i][k] + D[j][k] - D[i][j]) / 2
			D[k][u] = D[u][k]
			rest = append(rest, k)
		}
		active = append(rest, u)
	}

	k, u := active[0], active[1]
	t.edges = append(t.edges, Edge{From: u, To: k, Length: D[u][k]})
	t.root = u
	return t, nil
}
