package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/jumpboard/internal/config"
	"github.com/okian/jumpboard/internal/report"
)

// Default configuration constants.
const (
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	ctx := context.Background()
	defaults, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		baseURL    = flag.String("url", defaults.BackendURL, "Base URL of the club backend")
		token      = flag.String("token", defaults.BackendToken, "Bearer token")
		login      = flag.String("login", "", "Login to authenticate with")
		password   = flag.String("password", "", "Password for -login")
		athletes   = flag.String("athletes", "", "Comma separated athlete ids")
		metric     = flag.String("metric", defaults.DefaultMetric, "Metric to compare")
		from       = flag.String("from", "", "First day, YYYY-MM-DD")
		to         = flag.String("to", "", "Last day, YYYY-MM-DD")
		eventID    = flag.Int("event", 0, "Restrict to one event")
		sameEvents = flag.Bool("same-events", false, "Keep only events every athlete took part in")
		timeout    = flag.Duration("timeout", time.Duration(defaults.BackendTimeoutMS)*time.Millisecond, "Backend request timeout")
		outputFile = flag.String("output", "", "Write the comparison as JSON to this file")
		logFile    = flag.String("log", "", "Also append log output to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp(os.Stdout)
		return
	}

	closer, err := report.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	cfg := &report.Config{
		BackendURL:     *baseURL,
		Timeout:        *timeout,
		Token:          *token,
		Login:          *login,
		Password:       *password,
		Metric:         *metric,
		EventID:        *eventID,
		SameEventsOnly: *sameEvents,
		MaxAthletes:    defaults.MaxAthletes,
		OutputFile:     *outputFile,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}
	if cfg.AthleteIDs, err = report.ParseIDs(*athletes); err != nil {
		fail(err)
	}
	if cfg.From, err = report.ParseDate(*from); err != nil {
		fail(err)
	}
	if cfg.To, err = report.ParseDate(*to); err != nil {
		fail(err)
	}

	runCtx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if err := report.Run(runCtx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Compare failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

func fail(err error) {
	os.Stderr.WriteString(err.Error() + "\n")
	report.ShowHelp(os.Stderr)
	os.Exit(2)
}
