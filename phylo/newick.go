package phylo

import (
	"fmt"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
	"github.com/gmaffy/genome-compare/matrix"
)

// ParseNewick reads a Newick tree. Missing branch lengths read as 0.
func ParseNewick(s string) (*Tree, error) {
	gt, err := newick.NewParser(strings.NewReader(s)).Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing newick: %w", err)
	}
	return fromGotree(gt)
}

func fromGotree(gt *tree.Tree) (*Tree, error) {
	nodes := gt.Nodes()
	ids := make(map[*tree.Node]int, len(nodes))
	t := &Tree{}
	for _, n := range nodes {
		if n.Tip() {
			ids[n] = len(t.names)
			t.names = append(t.names, n.Name())
		}
	}
	for _, n := range nodes {
		if !n.Tip() {
			ids[n] = len(t.names) + t.internal
			t.internal++
		}
	}
	if err := matrix.CheckLabels(t.names); err != nil {
		return nil, err
	}
	if t.internal == 0 {
		return nil, fmt.Errorf("%w: tree has no internal node", ErrTooFewLeaves)
	}

	for _, e := range gt.Edges() {
		l := e.Length()
		if l == tree.NIL_LENGTH {
			l = 0
		}
		t.edges = append(t.edges, Edge{From: ids[e.Left()], To: ids[e.Right()], Length: l})
	}
	t.root = ids[gt.Root()]
	return t, nil
}
