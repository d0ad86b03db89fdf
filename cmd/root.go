/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genome-compare",
	Short: "Assembly QC and whole-genome comparison",
	Long: `Assess and compare genome assemblies:
1.	Assembly statistics: (total length, contigs, N50, L90, GC%)
2.	All-pairs ANI similarity matrix: (fastANI)
3.	ANI distances and a neighbor-joining tree
4.	HTML report of the above
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
}
