// Package phylo builds unrooted neighbor-joining trees from distance matrices
// and reads and writes them in Newick format.
package phylo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownLeaf = errors.New("no such leaf")
	ErrLabelSyntax = errors.New("label contains newick punctuation or whitespace")
)

const newickSpecial = " \t\r\n()[]':;,"

// SafeLabel replaces each character that would need quoting in Newick with
// an underscore. Labels already free of them are returned unchanged.
func SafeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(newickSpecial, r) {
			return '_'
		}
		return r
	}, s)
}

// Edge joins two nodes. From is the node nearer the root used for Newick
// output; the tree itself is unrooted.
type Edge struct {
	From, To int
	Length   float64
}

// Tree is an immutable phylogenetic tree. Nodes are numbered with the leaves
// first, in label order, followed by the internal nodes in creation order.
type Tree struct {
	names    []string
	internal int
	edges    []Edge
	root     int
}

// Leaves returns the leaf names in node order.
func (t *Tree) Leaves() []string { return append([]string(nil), t.names...) }

func (t *Tree) InternalCount() int { return t.internal }

func (t *Tree) NodeCount() int { return len(t.names) + t.internal }

// Edges returns a copy of the edge list.
func (t *Tree) Edges() []Edge { return append([]Edge(nil), t.edges...) }

// Root is the internal node Newick output starts from.
func (t *Tree) Root() int { return t.root }

// Name returns the label of a leaf, or "" for an internal node.
func (t *Tree) Name(node int) string {
	if node < len(t.names) {
		return t.names[node]
	}
	return ""
}

// IsLeaf reports whether node is a leaf.
func (t *Tree) IsLeaf(node int) bool { return node < len(t.names) }

// Children returns the edges leading away from node when the tree is hung
// from its root, in edge order.
func (t *Tree) Children(node int) []Edge {
	return t.orient()[node]
}

// orient lists, for every node, the edges to its children.
func (t *Tree) orient() [][]Edge {
	adj := t.adjacency()
	children := make([][]Edge, t.NodeCount())
	seen := make([]bool, t.NodeCount())
	seen[t.root] = true
	queue := []int{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range adj[n] {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			children[n] = append(children[n], e)
			queue = append(queue, e.To)
		}
	}
	return children
}

// Newick writes the tree with the root as a multifurcation, e.g.
// "(A:1,B:1,C:2);". Branch lengths are written exactly. Labels are written
// unquoted, which Build guarantees is safe.
func (t *Tree) Newick() string {
	children := t.orient()
	var b strings.Builder
	var write func(n int)
	write = func(n int) {
		if t.IsLeaf(n) {
			b.WriteString(t.names[n])
			return
		}
		b.WriteByte('(')
		for i, e := range children[n] {
			if i > 0 {
				b.WriteByte(',')
			}
			write(e.To)
			b.WriteByte(':')
			b.WriteString(strconv.FormatFloat(e.Length, 'f', -1, 64))
		}
		b.WriteByte(')')
	}
	write(t.root)
	b.WriteByte(';')
	return b.String()
}

// Clamped returns a copy of the tree with negative branch lengths set to 0.
func (t *Tree) Clamped() *Tree {
	c := &Tree{names: t.Leaves(), internal: t.internal, edges: t.Edges(), root: t.root}
	for i := range c.edges {
		if c.edges[i].Length < 0 {
			c.edges[i].Length = 0
		}
	}
	return c
}

// HasNegative reports whether any branch length is below zero.
func (t *Tree) HasNegative() bool {
	for _, e := range t.edges {
		if e.Length < 0 {
			return true
		}
	}
	return false
}

func (t *Tree) leaf(name string) (int, error) {
	for i, s := range t.names {
		if s == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownLeaf, name)
}

// distancesFrom sums branch lengths along the path from node to every other
// node.
func (t *Tree) distancesFrom(node int, adj [][]Edge) []float64 {
	dist := make([]float64, t.NodeCount())
	for i := range dist {
		dist[i] = math.NaN()
	}
	dist[node] = 0
	stack := []int{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range adj[n] {
			if !math.IsNaN(dist[e.To]) {
				continue
			}
			dist[e.To] = dist[n] + e.Length
			stack = append(stack, e.To)
		}
	}
	return dist
}

func (t *Tree) adjacency() [][]Edge {
	adj := make([][]Edge, t.NodeCount())
	for _, e := range t.edges {
		adj[e.From] = append(adj[e.From], e)
		adj[e.To] = append(adj[e.To], Edge{From: e.To, To: e.From, Length: e.Length})
	}
	return adj
}

// PathLength returns the sum of branch lengths between two leaves.
func (t *Tree) PathLength(a, b string) (float64, error) {
	i, err := t.leaf(a)
	if err != nil {
		return 0, err
	}
	j, err := t.leaf(b)
	if err != nil {
		return 0, err
	}
	return t.distancesFrom(i, t.adjacency())[j], nil
}

// Patristic returns the leaf-to-leaf path lengths in Leaves order.
func (t *Tree) Patristic() *mat.SymDense {
	n := len(t.names)
	adj := t.adjacency()
	p := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		dist := t.distancesFrom(i, adj)
		for j := i + 1; j < n; j++ {
			p.SetSym(i, j, dist[j])
		}
	}
	return p
}

// Splits returns the non-trivial bipartitions of the leaves induced by the
// internal edges. Each split is written as the sorted, comma separated names
// of the side that does not hold the smallest leaf name, and the result is
// sorted. Two trees over the same leaves have the same topology exactly when
// their splits are equal.
func (t *Tree) Splits() []string {
	if len(t.names) == 0 {
		return nil
	}
	children := t.orient()
	below := make([][]string, t.NodeCount())
	var collect func(n int) []string
	collect = func(n int) []string {
		if t.IsLeaf(n) {
			below[n] = []string{t.names[n]}
			return below[n]
		}
		for _, e := range children[n] {
			below[n] = append(below[n], collect(e.To)...)
		}
		return below[n]
	}
	collect(t.root)

	all := t.Leaves()
	sort.Strings(all)
	smallest := all[0]

	set := map[string]bool{}
	for _, e := range t.edges {
		child := e.From
		if isChild(children[e.From], e.To) {
			child = e.To
		}
		side := below[child]
		if len(side) < 2 || len(side) > len(all)-2 {
			continue
		}
		if contains(side, smallest) {
			side = complement(all, side)
		}
		s := append([]string(nil), side...)
		sort.Strings(s)
		set[strings.Join(s, ",")] = true
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func isChild(edges []Edge, node int) bool {
	for _, e := range edges {
		if e.To == node {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, s := range names {
		if s == name {
			return true
		}
	}
	return false
}

func complement(all, side []string) []string {
	in := make(map[string]bool, len(side))
	for _, s := range side {
		in[s] = true
	}
	var out []string
	for _, s := range all {
		if !in[s] {
			out = append(out, s)
		}
	}
	return out
}
