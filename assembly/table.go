package assembly

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
)

var statsHeader = []string{"File", "Total length", "Num contigs", "N50", "L90", "GC%", "Min", "Max", "Mean"}

type statsRow struct {
	File        string  `dataframe:"File"`
	TotalLength int     `dataframe:"Total length"`
	Contigs     int     `dataframe:"Num contigs"`
	N50         int     `dataframe:"N50"`
	L90         int     `dataframe:"L90"`
	GC          float64 `dataframe:"GC%"`
	Min         int     `dataframe:"Min"`
	Max         int     `dataframe:"Max"`
	Mean        float64 `dataframe:"Mean"`
}

// StatsFrame converts stats to a DataFrame, one row per assembly, with the
// percentages rounded for display.
func StatsFrame(stats []Stats) dataframe.DataFrame {
	rows := make([]statsRow, len(stats))
	for i, s := range stats {
		rows[i] = statsRow{
			File:        s.ID,
			TotalLength: s.TotalLength,
			Contigs:     s.Contigs,
			N50:         s.N50,
			L90:         s.L90,
			GC:          s.GCRounded(),
			Min:         s.Min,
			Max:         s.Max,
			Mean:        math.Round(s.Mean*100) / 100,
		}
	}
	return dataframe.LoadStructs(rows)
}

// WriteStatsTable writes stats as CSV with a header row.
func WriteStatsTable(w io.Writer, stats []Stats) error {
	if len(stats) == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(statsHeader); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	df := StatsFrame(stats)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}
