package matrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// NA marks an unavailable entry in exported tables.
const NA = "NA"

// WriteTSV writes t as a tab separated table with a header row of labels and
// one labeled row per entry. Values use the shortest form that reads back to
// the same float64.
func WriteTSV(w io.Writer, t Table) error {
	labels := t.Labels()
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(append([]string{""}, labels...)); err != nil {
		return err
	}
	for i, l := range labels {
		row := make([]string, 0, len(labels)+1)
		row = append(row, l)
		for j := range labels {
			row = append(row, formatValue(t.At(i, j)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return NA
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadTSV reads a table written by WriteTSV. Row labels must repeat the
// header labels in the same order.
func ReadTSV(r io.Reader) ([]string, [][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty table", ErrShape)
		}
		return nil, nil, err
	}
	labels := header[1:]
	var rows [][]float64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		i := len(rows)
		if len(rec) != len(labels)+1 {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrShape, i+1, len(rec), len(labels)+1)
		}
		if i >= len(labels) || rec[0] != labels[i] {
			return nil, nil, fmt.Errorf("%w: row %d is labeled %q", ErrShape, i+1, rec[0])
		}
		row := make([]float64, len(labels))
		for j, s := range rec[1:] {
			if row[j], err = parseValue(s); err != nil {
				return nil, nil, fmt.Errorf("row %q column %q: %w", rec[0], labels[j], err)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) != len(labels) {
		return nil, nil, fmt.Errorf("%w: %d labels but %d rows", ErrShape, len(labels), len(rows))
	}
	return labels, rows, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == NA || s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadSimilarityTSV reads and validates an exported similarity matrix.
func ReadSimilarityTSV(r io.Reader) (Similarity, error) {
	labels, rows, err := ReadTSV(r)
	if err != nil {
		return Similarity{}, err
	}
	return NewSimilarity(labels, rows)
}

// ReadDistanceTSV reads and validates an exported distance matrix.
func ReadDistanceTSV(r io.Reader) (Distance, error) {
	labels, rows, err := ReadTSV(r)
	if err != nil {
		return Distance{}, err
	}
	return NewDistance(labels, rows)
}

// WriteFailures writes one row per failed pair, in ascending pair order.
func WriteFailures(w io.Writer, labels []string, f Failures) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"query", "reference", "reason"}); err != nil {
		return err
	}
	for _, p := range f.Sorted() {
		if p.I >= len(labels) || p.J >= len(labels) {
			return fmt.Errorf("%w: pair (%d,%d) outside %d labels", ErrShape, p.I, p.J, len(labels))
		}
		if err := cw.Write([]string{labels[p.I], labels[p.J], f[p]}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
