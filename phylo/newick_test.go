package phylo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewickRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		want := randomTree(rng, 3+rng.Intn(10))

		got, err := ParseNewick(want.Newick())
		require.NoError(t, err)

		assert.ElementsMatch(t, want.Leaves(), got.Leaves())
		assert.Equal(t, want.Splits(), got.Splits())
		assertSameDistances(t, want, got, 1e-12)
	}
}

func TestParseNewick(t *testing.T) {
	tr, err := ParseNewick("((A:1,B:2):0.5,C:3,D:4);")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, tr.Leaves())
	assert.Equal(t, 2, tr.InternalCount())
	assert.Equal(t, []string{"C,D"}, tr.Splits())

	ac, err := tr.PathLength("A", "C")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, ac, 1e-12)
}

func TestParseNewickInvalid(t *testing.T) {
	_, err := ParseNewick("((A:1,B:2;")
	assert.Error(t, err)
}

func TestSafeLabel(t *testing.T) {
	assert.Equal(t, "E_coli", SafeLabel("E_coli"))
	assert.Equal(t, "E_coli", SafeLabel("E coli"))
	assert.Equal(t, "it_s", SafeLabel("it's"))
	assert.Equal(t, "x_1_", SafeLabel("x(1)"))
	assert.Equal(t, "B_2", SafeLabel("B:2"))
	assert.Equal(t, "a_b", SafeLabel("a,b"))
	assert.Equal(t, "s_1__x_", SafeLabel("s[1];x\t"))
}

func TestNewickRoundTripAwkwardNames(t *testing.T) {
	raw := []string{"x(1)", "B:2", "a,b", "E coli", "it's"}
	d := sym([][]float64{
		{0, 3, 4, 5, 6},
		{3, 0, 5, 6, 7},
		{4, 5, 0, 3, 4},
		{5, 6, 3, 0, 3},
		{6, 7, 4, 3, 0},
	})

	_, err := Build(d, raw)
	require.ErrorIs(t, err, ErrLabelSyntax)

	labels := make([]string, len(raw))
	for i, l := range raw {
		labels[i] = SafeLabel(l)
	}
	want, err := Build(d, labels)
	require.NoError(t, err)

	got, err := ParseNewick(want.Newick())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x_1_", "B_2", "a_b", "E_coli", "it_s"}, got.Leaves())
	assert.Equal(t, want.Splits(), got.Splits())
	assertSameDistances(t, want, got, 1e-12)
}
