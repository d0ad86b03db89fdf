/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gmaffy/genome-compare/assembly"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [assembly.fa ...]",
	Short: "Assembly statistics (total length, contigs, N50, L90, GC%)",
	Long:  `Computes per-assembly statistics for FASTA files (.fasta, .fa, .fna, optionally gzipped) and writes them as CSV.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		files := inputFiles(cmd, args, cfg)
		if len(files) == 0 {
			log.Fatalf("No assemblies given: pass files, --dir or an Assembly/InputDir config entry")
		}

		outFile, oErr := cmd.Flags().GetString("output")
		if oErr != nil {
			log.Fatalf("Error getting output flag: %v", oErr)
		}

		var stats []assembly.Stats
		failed := 0
		for _, f := range files {
			a, err := assembly.Load(f)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", f, err)
				failed++
				continue
			}
			stats = append(stats, a.Stats())
		}

		write := func(w io.Writer) error { return assembly.WriteStatsTable(w, stats) }
		if outFile == "" {
			if err := write(os.Stdout); err != nil {
				log.Fatalf("Error writing stats: %v", err)
			}
		} else {
			if err := writeOutput(outFile, write); err != nil {
				log.Fatalf("Error writing stats: %v", err)
			}
			fmt.Printf("Wrote statistics for %d assemblies to %s\n", len(stats), outFile)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("dir", "d", "", "directory of assemblies")
	statsCmd.Flags().StringP("output", "o", "", "output CSV file (default stdout)")
}
