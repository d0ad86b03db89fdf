/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gmaffy/genome-compare/utils"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <results dir | log file>",
	Short: "Summarise the run log of a compare run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logPath := args[0]
		if info, err := os.Stat(logPath); err == nil && info.IsDir() {
			logPath = filepath.Join(logPath, utils.LogFileName)
		}
		entries, err := utils.ParseLogFile(logPath)
		if err != nil {
			log.Fatalf("Error reading log file: %v", err)
		}
		pair, _ := cmd.Flags().GetString("pair")
		if pair != "" {
			fmt.Printf("%s completed: %v\n", pair, utils.StageHasCompleted(entries, "", "COMPARE", pair))
			return
		}

		counts := map[string]map[string]int{}
		for _, e := range entries {
			status, _, _ := strings.Cut(e.Status, " - ")
			if counts[e.Program] == nil {
				counts[e.Program] = map[string]int{}
			}
			counts[e.Program][status]++
		}
		programs := make([]string, 0, len(counts))
		for p := range counts {
			programs = append(programs, p)
		}
		sort.Strings(programs)

		fmt.Printf("PROGRAM\tSTARTED\tCOMPLETED\tFAILED\n")
		for _, p := range programs {
			c := counts[p]
			fmt.Printf("%s\t%d\t%d\t%d\n", p, c["STARTED"], c["COMPLETED"], c["FAILED"])
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().String("pair", "", "report whether one pair (\"queryID|refID\") completed")
}
