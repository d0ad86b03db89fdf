package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gmaffy/genome-compare/pipeline"
	"github.com/gmaffy/genome-compare/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constANI float64

func (c constANI) Compare(context.Context, string, string, time.Duration) (float64, error) {
	return float64(c), nil
}

func TestWriteResults(t *testing.T) {
	in := t.TempDir()
	var files []string
	for _, name := range []string{"a.fa", "b.fa", "c.fa"} {
		p := filepath.Join(in, name)
		require.NoError(t, os.WriteFile(p, []byte(">x\nACGTTGCA\n"), 0644))
		files = append(files, p)
	}
	res, err := pipeline.Run(context.Background(), pipeline.Options{Files: files, Comparator: constANI(99)})
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, writeResults(out, res, true))

	for _, name := range []string{"stats.csv", "similarity.tsv", "distance.tsv", "failures.tsv", "report.html", "tree.nwk"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	nwk, err := os.ReadFile(filepath.Join(out, "tree.nwk"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(nwk)), ";"))
}

func TestWriteResultsCanceledRun(t *testing.T) {
	in := t.TempDir()
	var files []string
	for _, name := range []string{"a.fa", "b.fa", "c.fa"} {
		p := filepath.Join(in, name)
		require.NoError(t, os.WriteFile(p, []byte(">x\nACGTTGCA\n"), 0644))
		files = append(files, p)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := pipeline.Run(ctx, pipeline.Options{Files: files, Comparator: constANI(99)})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	require.Nil(t, res.Tree)

	out := t.TempDir()
	require.NoError(t, writeResults(out, res, false))
	assert.NotPanics(t, func() { printSummary(res) })

	_, err = os.Stat(filepath.Join(out, "tree.nwk"))
	assert.True(t, os.IsNotExist(err))
	dist, err := os.ReadFile(filepath.Join(out, "distance.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(dist)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "\ta\tb\tc", lines[0])
	assert.Equal(t, "a\t0\tNA\tNA", lines[1])
}

func TestInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.fna", "y.fa.gz", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, statsCmd.Flags().Set("dir", dir))
	defer statsCmd.Flags().Set("dir", "")

	cfg := utils.Config{Assemblies: []string{"/data/z.fa", filepath.Join(dir, "x.fna")}}
	files := inputFiles(statsCmd, []string{"/data/first.fa"}, cfg)

	assert.Equal(t, []string{
		"/data/first.fa",
		"/data/z.fa",
		filepath.Join(dir, "x.fna"),
		filepath.Join(dir, "y.fa.gz"),
	}, files)
}
