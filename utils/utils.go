package utils

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Assemblies  []string
	InputDir    string
	OutputDir   string
	Threads     int
	Timeout     time.Duration
	FastANI     string
	FragLen     int
	MinFraction float64
	Fill        string
}

// ReadConfig reads "Key: value" lines. Unknown keys and lines without a
// colon are ignored; "Assembly" may be repeated.
func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		var perr error
		switch key {
		case "Assembly":
			cfg.Assemblies = append(cfg.Assemblies, value)
		case "InputDir":
			cfg.InputDir = value
		case "OutputDir":
			cfg.OutputDir = value
		case "threads":
			cfg.Threads, perr = strconv.Atoi(value)
		case "timeout":
			var secs int
			secs, perr = strconv.Atoi(value)
			cfg.Timeout = time.Duration(secs) * time.Second
		case "fastANI":
			cfg.FastANI = value
		case "fragLen":
			cfg.FragLen, perr = strconv.Atoi(value)
		case "minFraction":
			cfg.MinFraction, perr = strconv.ParseFloat(value, 64)
		case "fill":
			cfg.Fill = value
		}
		if perr != nil {
			return cfg, fmt.Errorf("%s line %d: bad value for %s: %w", configPath, lineNo, key, perr)
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

// CheckDeps looks up each program on PATH and returns the ones missing.
func CheckDeps(programs ...string) []string {
	var missing []string
	for _, p := range programs {
		if _, err := exec.LookPath(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}

// CreateResultsDir makes outputDir/genomeCompareResults/<timestamp> and
// returns its path.
func CreateResultsDir(outputDir string, now time.Time) (string, error) {
	baseDir := filepath.Join(outputDir, "genomeCompareResults")
	resultsDir := filepath.Join(baseDir, fmt.Sprintf("%02d_%02d_%04d_%02d_%02d_%02d", now.Day(), now.Month(), now.Year(), now.Hour(), now.Minute(), now.Second()))

	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}
	return resultsDir, nil
}
