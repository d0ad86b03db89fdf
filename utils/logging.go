package utils

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

const LogFileName = "genome-compare.log"

// NewRunLogger writes JSON records to outDir/genome-compare.log and, at
// consoleLevel and above, text records to stderr. Close the returned file
// when the run ends.
func NewRunLogger(outDir string, consoleLevel slog.Level) (*slog.Logger, io.Closer, error) {
	logFilePath := filepath.Join(outDir, LogFileName)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slogmulti.Fanout(
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: consoleLevel}),
	))
	return logger, logFile, nil
}

// LogEntry is one record of the run log.
type LogEntry struct {
	Timestamp string `json:"time"`
	Level     string `json:"level"`
	Tool      string `json:"msg"`
	RunID     string `json:"RUN"`
	Program   string `json:"PROGRAM"`
	Sample    string `json:"SAMPLE"`
	Pair      string `json:"PAIR"`
	Status    string `json:"STATUS"`
}

// ParseLogFile reads the JSON records of a run log, skipping lines that are
// not JSON objects.
func ParseLogFile(logFilePath string) ([]LogEntry, error) {
	f, err := os.Open(logFilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// StageHasCompleted reports whether the log holds a COMPLETED record for the
// program and subject (a SAMPLE or PAIR value) within the given run. An empty
// runID matches any run.
func StageHasCompleted(entries []LogEntry, runID, program, subject string) bool {
	for _, e := range entries {
		if runID != "" && e.RunID != runID {
			continue
		}
		if e.Program == program && (e.Sample == subject || e.Pair == subject) && e.Status == "COMPLETED" {
			return true
		}
	}
	return false
}
