package ani

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultBinary = "fastANI"

// FastANI compares two assemblies with the fastANI program. The zero value
// runs "fastANI" from PATH with the tool's own defaults.
type FastANI struct {
	Binary      string
	FragLen     int
	MinFraction float64
	Threads     int
	TempDir     string
	Runner      Runner
}

func (f *FastANI) binary() string {
	if f.Binary == "" {
		return DefaultBinary
	}
	return f.Binary
}

func (f *FastANI) runner() Runner {
	if f.Runner == nil {
		return ExecRunner{}
	}
	return f.Runner
}

// Args returns the command line used to compare query against reference,
// writing the result to out.
func (f *FastANI) Args(query, reference, out string) []string {
	args := []string{f.binary(), "-q", query, "-r", reference, "-o", out}
	if f.FragLen > 0 {
		args = append(args, "--fragLen", strconv.Itoa(f.FragLen))
	}
	if f.MinFraction > 0 {
		args = append(args, "--minFraction", strconv.FormatFloat(f.MinFraction, 'f', -1, 64))
	}
	if f.Threads > 1 {
		args = append(args, "-t", strconv.Itoa(f.Threads))
	}
	return args
}

// Compare runs fastANI on one pair and returns the ANI in [0,100].
func (f *FastANI) Compare(ctx context.Context, fileA, fileB string, timeout time.Duration) (float64, error) {
	dir, err := os.MkdirTemp(f.TempDir, "fastani-")
	if err != nil {
		return 0, newFailure(Exec, err, "could not create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "ani.txt")
	if _, err := f.runner().Invoke(ctx, f.Args(fileA, fileB, out), timeout); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return 0, newFailure(Malformed, err, "%s wrote no output file", f.binary())
	}
	return ParseOutput(data)
}

// Fingerprint identifies the parameters that change fastANI's result.
func (f *FastANI) Fingerprint() string {
	return fmt.Sprintf("fastani|%s|fragLen=%d|minFraction=%g", f.binary(), f.FragLen, f.MinFraction)
}

// ParseOutput reads the ANI column from fastANI's tab separated output
// (query, reference, ANI, mapped fragments, total fragments).
func ParseOutput(data []byte) (float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return 0, newFailure(Malformed, nil, "expected at least 3 columns, got %q", line)
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return 0, newFailure(Malformed, err, "ANI column %q is not a number", fields[2])
		}
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
			return 0, newFailure(Malformed, nil, "ANI %v outside [0,100]", score)
		}
		return score, nil
	}
	if err := sc.Err(); err != nil {
		return 0, newFailure(Malformed, err, "reading output: %v", err)
	}
	return 0, newFailure(Malformed, nil, "no ANI reported, identity may be below the detection limit")
}
