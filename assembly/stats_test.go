package assembly

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsEqualContigs(t *testing.T) {
	var recs []Record
	for i := 0; i < 5; i++ {
		recs = append(recs, Record{ID: "c", Residues: strings.Repeat("ACGT", 25)})
	}

	s := ComputeStats("five", recs)

	assert.Equal(t, 500, s.TotalLength)
	assert.Equal(t, 5, s.Contigs)
	assert.Equal(t, 100, s.N50)
	assert.Equal(t, 5, s.L90)
	assert.InDelta(t, 50.0, s.GC, 1e-12)
	assert.Equal(t, 100, s.Min)
	assert.Equal(t, 100, s.Max)
	assert.InDelta(t, 100.0, s.Mean, 1e-12)
}

func TestComputeStatsNoSequences(t *testing.T) {
	s := ComputeStats("empty", nil)
	assert.Equal(t, Stats{ID: "empty"}, s)

	s = ComputeStats("blank", []Record{{ID: "x", Residues: ""}})
	assert.Equal(t, Stats{ID: "blank"}, s)
}

func TestComputeStatsN50L90(t *testing.T) {
	// total 1000: 400 reaches 40%, 400+300 reaches 70%, +200 reaches 90%
	recs := []Record{
		{ID: "a", Residues: strings.Repeat("A", 100)},
		{ID: "b", Residues: strings.Repeat("A", 300)},
		{ID: "c", Residues: strings.Repeat("A", 400)},
		{ID: "d", Residues: strings.Repeat("A", 200)},
	}

	s := ComputeStats("x", recs)

	assert.Equal(t, 1000, s.TotalLength)
	assert.Equal(t, 300, s.N50)
	assert.Equal(t, 3, s.L90)
	assert.Equal(t, 100, s.Min)
	assert.Equal(t, 400, s.Max)
	assert.InDelta(t, 250.0, s.Mean, 1e-12)
}

func TestComputeStatsSingleContigThreshold(t *testing.T) {
	// the first contig alone covers exactly half
	recs := []Record{
		{ID: "a", Residues: strings.Repeat("A", 50)},
		{ID: "b", Residues: strings.Repeat("A", 30)},
		{ID: "c", Residues: strings.Repeat("A", 20)},
	}

	s := ComputeStats("x", recs)

	assert.Equal(t, 50, s.N50)
	assert.Equal(t, 3, s.L90)
}

func TestComputeStatsGCCaseInsensitive(t *testing.T) {
	recs := []Record{
		{ID: "a", Residues: "ggccAATT"},
		{ID: "b", Residues: "GcNN"},
	}

	s := ComputeStats("x", recs)

	assert.Equal(t, 12, s.TotalLength)
	assert.InDelta(t, 6.0/12.0*100, s.GC, 1e-12)
	assert.Equal(t, 50.0, s.GCRounded())
}

func TestGCRounded(t *testing.T) {
	s := Stats{GC: 100.0 / 3.0}
	assert.Equal(t, 33.33, s.GCRounded())
}

func TestAssemblyAccessorsCopy(t *testing.T) {
	a := New("x", "x.fa", []Record{{ID: "a", Residues: "ACG"}, {ID: "b", Residues: "AT"}})

	l := a.Lengths()
	require.Equal(t, []int{3, 2}, l)
	l[0] = 99

	assert.Equal(t, []int{3, 2}, a.Lengths())
	assert.Equal(t, 5, a.Total())
	assert.Equal(t, 2, a.GCCount())
	assert.Equal(t, 2, a.Contigs())
	assert.False(t, a.Empty())
}

func TestStatsRecomputedFromAssembly(t *testing.T) {
	a := New("x", "", []Record{{ID: "a", Residues: "GGGG"}})
	first := a.Stats()
	second := a.Stats()
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, first.GC)
}
