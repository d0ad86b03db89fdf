package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gmaffy/genome-compare/assembly"
	"github.com/gmaffy/genome-compare/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// readConfig returns the config file named by --config, or an empty Config.
func readConfig() utils.Config {
	if cfgFile == "" {
		return utils.Config{}
	}
	cfg, err := utils.ReadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return cfg
}

// inputFiles collects the assemblies named on the command line, in --dir and
// in the config file, dropping repeats.
func inputFiles(cmd *cobra.Command, args []string, cfg utils.Config) []string {
	files := append([]string{}, args...)
	files = append(files, cfg.Assemblies...)

	dirs := []string{cfg.InputDir}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		dirs = append(dirs, dir)
	}
	for _, dir := range lo.Compact(dirs) {
		found, err := assembly.FindFasta(dir)
		if err != nil {
			log.Fatalf("Error listing %s: %v", dir, err)
		}
		files = append(files, found...)
	}
	return lo.Uniq(files)
}

// writeOutput creates path and hands it to write.
func writeOutput(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
