package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gmaffy/genome-compare/cache"
	"github.com/gmaffy/genome-compare/matrix"
	"github.com/gmaffy/genome-compare/phylo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeANI scores pairs by file base name.
type fakeANI struct {
	mu     sync.Mutex
	scores map[string]float64
	calls  int
}

func (f *fakeANI) Compare(_ context.Context, a, b string, _ time.Duration) (float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	key := filepath.Base(a) + "|" + filepath.Base(b)
	if s, ok := f.scores[key]; ok {
		return s, nil
	}
	return 0, errors.New("malformed output: no ANI reported")
}

func (f *fakeANI) Fingerprint() string { return "fake" }

func writeFasta(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func threeGenomes(t *testing.T) (string, []string) {
	dir := t.TempDir()
	return dir, []string{
		writeFasta(t, dir, "a.fa", ">c1\nACGTACGTAC\n>c2\nGGCC\n"),
		writeFasta(t, dir, "b.fna", ">c1\nACGTACGTAA\n"),
		writeFasta(t, dir, "c.fasta", ">c1\nTTTTACGTAC\n>c2\nAT\n"),
	}
}

func fullScores() map[string]float64 {
	return map[string]float64{"a.fa|b.fna": 98, "a.fa|c.fasta": 97, "b.fna|c.fasta": 97}
}

func TestRun(t *testing.T) {
	_, files := threeGenomes(t)
	ani := &fakeANI{scores: fullScores()}

	res, err := Run(context.Background(), Options{Files: files, Workers: 2, Comparator: ani})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Stats, 3)
	assert.Equal(t, "a", res.Stats[0].ID)
	assert.Equal(t, 14, res.Stats[0].TotalLength)
	assert.Empty(t, res.InputErrors)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{"a", "b", "c"}, res.Similarity.Labels())
	assert.Equal(t, 3, ani.calls)

	require.NoError(t, res.TreeErr)
	require.NotNil(t, res.Tree)
	ab, err := res.Tree.PathLength("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.02, ab, 1e-12)
}

func TestRunRecordsInputErrors(t *testing.T) {
	dir, files := threeGenomes(t)
	files = append(files,
		filepath.Join(dir, "missing.fa"),
		writeFasta(t, dir, "empty.fa", ""),
		writeFasta(t, t.TempDir(), "a.fa", ">x\nAC\n"),
	)

	res, err := Run(context.Background(), Options{Files: files, Comparator: &fakeANI{scores: fullScores()}})
	require.NoError(t, err)

	require.Len(t, res.InputErrors, 2)
	assert.Equal(t, filepath.Join(dir, "missing.fa"), res.InputErrors[0].Path)
	assert.ErrorIs(t, res.InputErrors[1], ErrDuplicateID)
	assert.Equal(t, []string{"empty"}, res.Excluded)
	assert.Len(t, res.Stats, 4)
	assert.Equal(t, 3, res.Similarity.Len())
	assert.NoError(t, res.TreeErr)
}

func TestRunIncompleteMatrix(t *testing.T) {
	_, files := threeGenomes(t)
	scores := fullScores()
	delete(scores, "b.fna|c.fasta")

	res, err := Run(context.Background(), Options{Files: files, Comparator: &fakeANI{scores: scores}})
	require.NoError(t, err)

	assert.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.TreeErr, matrix.ErrIncomplete)
	assert.ErrorIs(t, res.TreeErr, phylo.ErrIncomplete)
	assert.Nil(t, res.Tree)
	assert.Equal(t, []matrix.Pair{{I: 1, J: 2}}, res.Distance.Missing())

	res, err = Run(context.Background(), Options{Files: files, Fill: matrix.FillMax, Comparator: &fakeANI{scores: scores}})
	require.NoError(t, err)
	require.NoError(t, res.TreeErr)
	assert.True(t, res.Filled.Complete())
	assert.False(t, res.Distance.Complete())
}

func TestRunTooFewForTree(t *testing.T) {
	_, files := threeGenomes(t)

	res, err := Run(context.Background(), Options{Files: files[:2], Comparator: &fakeANI{scores: fullScores()}})
	require.NoError(t, err)

	assert.ErrorIs(t, res.TreeErr, phylo.ErrTooFewLeaves)
	assert.Equal(t, 98.0, res.Similarity.At(0, 1))
}

func TestRunUsesCache(t *testing.T) {
	_, files := threeGenomes(t)
	store := cache.NewMemStore[matrix.Similarity]()
	ani := &fakeANI{scores: fullScores()}
	opts := Options{Files: files, Comparator: ani, Cache: store}

	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, store.Len())

	second, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 3, ani.calls)
	assert.Equal(t, first.Similarity.Rows(), second.Similarity.Rows())
	assert.NotEqual(t, first.RunID, second.RunID)

	store.Purge()
	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 6, ani.calls)
}

func TestRunDoesNotCacheFailures(t *testing.T) {
	_, files := threeGenomes(t)
	store := cache.NewMemStore[matrix.Similarity]()

	_, err := Run(context.Background(), Options{Files: files, Comparator: &fakeANI{}, Cache: store})
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestRunCanceled(t *testing.T) {
	_, files := threeGenomes(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, Options{Files: files, Comparator: &fakeANI{scores: fullScores()}})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Len(t, res.Failures, 3)
	for _, reason := range res.Failures {
		assert.True(t, strings.HasPrefix(reason, "canceled"))
	}
	assert.Equal(t, []string{"a", "b", "c"}, res.Distance.Labels())
	assert.Len(t, res.Distance.Missing(), 3)
	assert.Nil(t, res.Tree)
}

func TestRunNeedsComparator(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}
