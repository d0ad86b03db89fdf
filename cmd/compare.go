/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gmaffy/genome-compare/ani"
	"github.com/gmaffy/genome-compare/assembly"
	"github.com/gmaffy/genome-compare/cache"
	"github.com/gmaffy/genome-compare/matrix"
	"github.com/gmaffy/genome-compare/pipeline"
	"github.com/gmaffy/genome-compare/report"
	"github.com/gmaffy/genome-compare/utils"
	"github.com/spf13/cobra"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [assembly.fa ...]",
	Short: "Statistics, ANI matrix and neighbor-joining tree for a set of assemblies",
	Long: `Runs fastANI on every pair of assemblies, converts the ANI matrix to distances
(1 - ANI/100) and builds a neighbor-joining tree. Results are written to a
timestamped directory under --output.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		files := inputFiles(cmd, args, cfg)
		if len(files) == 0 {
			log.Fatalf("No assemblies given: pass files, --dir or an Assembly/InputDir config entry")
		}

		flags := cmd.Flags()
		outDir, _ := flags.GetString("output")
		if !flags.Changed("output") && cfg.OutputDir != "" {
			outDir = cfg.OutputDir
		}
		threads, _ := flags.GetInt("threads")
		if !flags.Changed("threads") && cfg.Threads > 0 {
			threads = cfg.Threads
		}
		timeoutSecs, _ := flags.GetInt("timeout")
		timeout := time.Duration(timeoutSecs) * time.Second
		if !flags.Changed("timeout") && cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		binary, _ := flags.GetString("fastani")
		if !flags.Changed("fastani") && cfg.FastANI != "" {
			binary = cfg.FastANI
		}
		fillName, _ := flags.GetString("fill")
		if !flags.Changed("fill") && cfg.Fill != "" {
			fillName = cfg.Fill
		}
		fill, err := matrix.ParseFillPolicy(fillName)
		if err != nil {
			log.Fatalf("%v", err)
		}
		clamp, _ := flags.GetBool("clamp")

		fmt.Printf("Checking dependencies ...\n\n")
		if missing := utils.CheckDeps(binary); len(missing) > 0 {
			log.Fatalf("Dependency check failed: %v not found on PATH", missing)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		resultsDir, err := utils.CreateResultsDir(outDir, time.Now())
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Created results directory at %s ..\n\n", resultsDir)

		logger, logFile, err := utils.NewRunLogger(resultsDir, slog.LevelWarn)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Comparing %d assemblies with %s (%d workers) ...\n\n", len(files), binary, threads)
		res, runErr := pipeline.Run(ctx, pipeline.Options{
			Files:   files,
			Workers: threads,
			Timeout: timeout,
			Fill:    fill,
			Comparator: &ani.FastANI{
				Binary:      binary,
				FragLen:     cfg.FragLen,
				MinFraction: cfg.MinFraction,
			},
			Cache:  cache.NewMemStore[matrix.Similarity](),
			Logger: logger,
		})
		if res == nil {
			log.Fatalf("%v", runErr)
		}

		if err := writeResults(resultsDir, res, clamp); err != nil {
			log.Fatalf("%v", err)
		}
		printSummary(res)

		if runErr != nil {
			logFile.Close()
			log.Fatalf("Run stopped early: %v", runErr)
		}
	},
}

type output struct {
	name  string
	write func(io.Writer) error
}

func writeResults(dir string, res *pipeline.Result, clamp bool) error {
	labels := res.Similarity.Labels()
	outputs := []output{
		{"stats.csv", func(w io.Writer) error { return assembly.WriteStatsTable(w, res.Stats) }},
		{"similarity.tsv", func(w io.Writer) error { return matrix.WriteTSV(w, res.Similarity) }},
		{"distance.tsv", func(w io.Writer) error { return matrix.WriteTSV(w, res.Distance) }},
		{"failures.tsv", func(w io.Writer) error { return matrix.WriteFailures(w, labels, res.Failures) }},
		{"report.html", func(w io.Writer) error {
			return report.Render(w, report.Input{Stats: res.Stats, Similarity: res.Similarity, Tree: res.Tree})
		}},
	}
	if res.Tree != nil {
		tree := res.Tree
		if clamp {
			tree = tree.Clamped()
		}
		outputs = append(outputs, output{"tree.nwk", func(w io.Writer) error {
			_, err := fmt.Fprintln(w, tree.Newick())
			return err
		}})
	}

	for _, o := range outputs {
		if err := writeOutput(filepath.Join(dir, o.name), o.write); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(res *pipeline.Result) {
	fmt.Printf("Run %s\n", res.RunID)
	fmt.Printf("Assemblies read: %d, unreadable: %d, without sequence: %d\n", len(res.Stats), len(res.InputErrors), len(res.Excluded))
	for _, e := range res.InputErrors {
		fmt.Printf("  %v\n", e)
	}
	n := res.Similarity.Len()
	fmt.Printf("Pairs compared: %d, failed: %d\n", n*(n-1)/2, len(res.Failures))
	labels := res.Similarity.Labels()
	for _, p := range res.Failures.Sorted() {
		fmt.Printf("  %s vs %s: %s\n", labels[p.I], labels[p.J], res.Failures[p])
	}
	if res.TreeErr != nil {
		fmt.Printf("No tree: %v\n", res.TreeErr)
	} else if res.Tree != nil && res.Tree.HasNegative() {
		fmt.Printf("Tree has negative branch lengths (use --clamp to write them as 0)\n")
	}
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringP("dir", "d", "", "directory of assemblies")
	compareCmd.Flags().StringP("output", "o", ".", "output directory")
	compareCmd.Flags().IntP("threads", "t", 1, "number of fastANI runs at once")
	compareCmd.Flags().Int("timeout", 3600, "seconds allowed for one fastANI run")
	compareCmd.Flags().String("fastani", ani.DefaultBinary, "fastANI executable")
	compareCmd.Flags().String("fill", "none", "value for failed pairs before tree building: none, zero or max")
	compareCmd.Flags().Bool("clamp", false, "write negative branch lengths as 0")
}
