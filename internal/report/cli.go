package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/okian/jumpboard/pkg/logger"
)

// SetupLogging sends log records to stderr and, when logFile is set, appends
// them to that file as well. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closer = file
	}

	if err := logger.InitWithWriter(w); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ShowHelp prints usage information for the compare tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `jumpboard compare
=================

Compares athletes on one jump metric and prints one row per event attempt.

Usage:
  go run ./cmd/compare -athletes 1,2 -from 2024-01-01 -to 2024-03-31 [options]

Options:
  -url string
        Base URL of the club backend (default from config, "http://localhost:8080")
  -token string
        Bearer token; use -login/-password instead to log in
  -login string
        Login to authenticate with
  -password string
        Password for -login
  -athletes string
        Comma separated athlete ids (required)
  -metric string
        jumpLength, totalPoints, speedTakeoff, gate, flightTime,
        stylePoints or windCompensation (default jumpLength)
  -from, -to string
        Date range, YYYY-MM-DD (required)
  -event int
        Restrict to one event
  -same-events
        Keep only events every athlete took part in
  -timeout duration
        Backend request timeout (default 10s)
  -output string
        Write the comparison as JSON to this file
  -log string
        Also append log output to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Jump length of two athletes over the winter
  go run ./cmd/compare -athletes 12,15 -from 2024-11-01 -to 2025-03-31

  # Total points at one event, saved for later
  go run ./cmd/compare -athletes 12,15,18 -metric totalPoints -event 40 \
      -from 2025-01-01 -to 2025-01-31 -output cup.json
`)
}
