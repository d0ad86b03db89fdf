package assembly

import (
	"path/filepath"
	"strings"

	"github.com/gmaffy/genome-compare/phylo"
)

// Record is one sequence read from an input file.
type Record struct {
	ID       string
	Residues string
}

// Assembly is the parsed form of one input file. It is built once by New or
// Load and not modified afterwards.
type Assembly struct {
	ID   string
	Path string

	lengths []int
	total   int
	gc      int
}

// New builds an Assembly from records in file order. Records without residues
// are not contigs and are skipped.
func New(id, path string, recs []Record) Assembly {
	a := Assembly{ID: id, Path: path}
	for _, r := range recs {
		if len(r.Residues) == 0 {
			continue
		}
		a.lengths = append(a.lengths, len(r.Residues))
		a.total += len(r.Residues)
		a.gc += countGC([]byte(r.Residues))
	}
	return a
}

// Lengths returns a copy of the contig lengths in input order.
func (a Assembly) Lengths() []int {
	out := make([]int, len(a.lengths))
	copy(out, a.lengths)
	return out
}

func (a Assembly) Total() int { return a.total }

func (a Assembly) GCCount() int { return a.gc }

func (a Assembly) Contigs() int { return len(a.lengths) }

func (a Assembly) Empty() bool { return len(a.lengths) == 0 }

// countGC counts G and C residues in either case.
func countGC[L ~byte](s []L) int {
	n := 0
	for _, l := range s {
		switch l {
		case 'G', 'g', 'C', 'c':
			n++
		}
	}
	return n
}

var fastaExts = []string{".fasta", ".fa", ".fna"}

// IsFasta reports whether name has a FASTA extension, optionally gzipped.
func IsFasta(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	for _, ext := range fastaExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IDFromPath derives the assembly identifier from a file name: the base name
// with its last extension removed (a trailing .gz is removed first). The ID
// labels tree leaves, so Newick punctuation and whitespace become underscores.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), ".gz") {
		base = base[:len(base)-3]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return phylo.SafeLabel(base)
}
