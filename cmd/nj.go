/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/genome-compare/matrix"
	"github.com/gmaffy/genome-compare/phylo"
	"github.com/spf13/cobra"
)

// njCmd represents the nj command
var njCmd = &cobra.Command{
	Use:   "nj",
	Short: "Neighbor-joining tree from an exported matrix",
	Long: `Builds a neighbor-joining tree from a distance.tsv (or, with --similarity, a
similarity.tsv) written by compare, without re-running fastANI.`,
	Run: func(cmd *cobra.Command, args []string) {
		matrixFile, mErr := cmd.Flags().GetString("matrix")
		if mErr != nil || matrixFile == "" {
			log.Fatalf("A matrix file is required (--matrix)")
		}
		isSimilarity, _ := cmd.Flags().GetBool("similarity")
		fillName, _ := cmd.Flags().GetString("fill")
		clamp, _ := cmd.Flags().GetBool("clamp")
		outFile, _ := cmd.Flags().GetString("output")

		fill, err := matrix.ParseFillPolicy(fillName)
		if err != nil {
			log.Fatalf("%v", err)
		}

		f, err := os.Open(matrixFile)
		if err != nil {
			log.Fatalf("Error opening matrix: %v", err)
		}
		defer f.Close()

		var d matrix.Distance
		if isSimilarity {
			s, err := matrix.ReadSimilarityTSV(f)
			if err != nil {
				log.Fatalf("Error reading %s: %v", matrixFile, err)
			}
			d = matrix.ToDistance(s)
		} else {
			d, err = matrix.ReadDistanceTSV(f)
			if err != nil {
				log.Fatalf("Error reading %s: %v", matrixFile, err)
			}
		}

		d, err = matrix.Fill(d, fill)
		if err != nil {
			log.Fatalf("%v (use --fill zero or --fill max)", err)
		}
		tree, err := phylo.Build(d.Sym(), d.Labels())
		if err != nil {
			log.Fatalf("Error building tree: %v", err)
		}
		if clamp {
			tree = tree.Clamped()
		}

		if outFile == "" {
			fmt.Println(tree.Newick())
			return
		}
		if err := os.WriteFile(outFile, []byte(tree.Newick()+"\n"), 0644); err != nil {
			log.Fatalf("Error writing tree: %v", err)
		}
		fmt.Printf("Wrote tree with %d leaves to %s\n", len(tree.Leaves()), outFile)
	},
}

func init() {
	rootCmd.AddCommand(njCmd)

	njCmd.Flags().StringP("matrix", "m", "", "matrix TSV written by compare")
	njCmd.Flags().Bool("similarity", false, "the matrix holds ANI similarities, not distances")
	njCmd.Flags().String("fill", "none", "value for missing entries: none, zero or max")
	njCmd.Flags().Bool("clamp", false, "write negative branch lengths as 0")
	njCmd.Flags().StringP("output", "o", "", "output Newick file (default stdout)")
}
