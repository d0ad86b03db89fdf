package assembly

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/edsrzf/mmap-go"
)

// Load parses a FASTA file (optionally gzipped) into an Assembly. Plain files
// are memory mapped.
func Load(path string) (Assembly, error) {
	f, err := os.Open(path)
	if err != nil {
		return Assembly{}, err
	}
	defer f.Close()

	var reader io.Reader
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Assembly{}, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	} else {
		info, err := f.Stat()
		if err != nil {
			return Assembly{}, err
		}
		if info.Size() == 0 {
			return Assembly{ID: IDFromPath(path), Path: path}, nil
		}
		mm, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return Assembly{}, fmt.Errorf("failed to map %s: %w", path, err)
		}
		defer mm.Unmap()
		reader = bytes.NewReader(mm)
	}

	a, err := Read(reader)
	if err != nil {
		return Assembly{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	a.ID = IDFromPath(path)
	a.Path = path
	return a, nil
}

// Read parses FASTA records from r. The returned Assembly has no ID or Path.
func Read(r io.Reader) (Assembly, error) {
	var a Assembly
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return Assembly{}, fmt.Errorf("unexpected sequence type %T", sc.Seq())
		}
		if len(s.Seq) == 0 {
			continue
		}
		a.lengths = append(a.lengths, len(s.Seq))
		a.total += len(s.Seq)
		a.gc += countGC(s.Seq)
	}
	if err := sc.Error(); err != nil {
		return Assembly{}, err
	}
	return a, nil
}

// FindFasta lists the FASTA files directly inside dir, sorted by name.
func FindFasta(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsFasta(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
