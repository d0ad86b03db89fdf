package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	content := `# genome-compare run
Assembly: /data/a.fna
Assembly: /data/b.fa.gz
InputDir: /data/more
OutputDir: /results
threads: 8
timeout: 600
fastANI: /opt/bin/fastANI
fragLen: 3000
minFraction: 0.2
fill: max
not a key value line
Unknown: ignored
`
	p := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))

	cfg, err := ReadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Assemblies:  []string{"/data/a.fna", "/data/b.fa.gz"},
		InputDir:    "/data/more",
		OutputDir:   "/results",
		Threads:     8,
		Timeout:     10 * time.Minute,
		FastANI:     "/opt/bin/fastANI",
		FragLen:     3000,
		MinFraction: 0.2,
		Fill:        "max",
	}, cfg)
}

func TestReadConfigBadNumber(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(p, []byte("threads: many\n"), 0644))

	_, err := ReadConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestCheckDeps(t *testing.T) {
	missing := CheckDeps("definitely-not-a-real-tool-xyz")
	assert.Equal(t, []string{"definitely-not-a-real-tool-xyz"}, missing)
}

func TestCreateResultsDir(t *testing.T) {
	out := t.TempDir()
	now := time.Date(2025, time.June, 18, 21, 11, 2, 0, time.UTC)

	dir, err := CreateResultsDir(out, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "genomeCompareResults", "18_06_2025_21_11_02"), dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
