// Package report runs one athlete comparison from the command line: it logs
// in to the club backend, builds the comparison and prints it as a table.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/jumpboard/internal/adapters/backend"
	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/pkg/logger"
)

// Run executes one comparison and writes the table to out.
func Run(ctx context.Context, config *Config, out io.Writer) error {
	start := time.Now()
	log := logger.Get()

	log.Info(ctx, "starting comparison",
		logger.String("backendURL", config.BackendURL),
		logger.Any("athletes", config.AthleteIDs),
		logger.String("metric", config.Metric),
		logger.String("from", config.From.Format(dateLayout)),
		logger.String("to", config.To.Format(dateLayout)),
		logger.Int("eventID", config.EventID),
		logger.Bool("sameEventsOnly", config.SameEventsOnly))

	// Step 1: Connect and authenticate
	client, err := backend.New(config.BackendURL,
		backend.WithTimeout(config.Timeout),
		backend.WithTokenStore(backend.NewMemoryTokenStore(config.Token)),
		backend.WithLogger(log.Named("backend")),
	)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	if config.Token == "" && config.Login != "" {
		if _, err := client.Login(ctx, config.Login, config.Password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		log.Info(ctx, "logged in", logger.String("login", config.Login))
	}

	// Step 2: Build the comparison
	svc := service.New(client,
		service.WithLogger(log.Named("compare")),
		service.WithMaxAthletes(config.MaxAthletes),
		service.WithNotifier(service.NotifierFunc(func(_ context.Context, n service.Notification) {
			_, _ = fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
		})),
	)
	cmp, err := svc.Compare(ctx, service.CompareRequest{
		AthleteIDs:     config.AthleteIDs,
		EventID:        config.EventID,
		Metric:         comparison.Metric(config.Metric),
		From:           config.From,
		To:             config.To,
		SameEventsOnly: config.SameEventsOnly,
	})
	if err != nil {
		if msg := service.UserMessage(err); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return fmt.Errorf("comparison failed: %w", err)
	}

	// Step 3: Print it
	if err := RenderTable(out, cmp); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	// Step 4: Save it
	if config.OutputFile != "" {
		if err := saveComparison(ctx, config.OutputFile, cmp); err != nil {
			log.Warn(ctx, "failed to save comparison to file", logger.Error(err))
		}
	}

	log.Info(ctx, "comparison completed",
		logger.Int("athletes", len(cmp.Series)),
		logger.Int("slots", len(cmp.Rows)),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// saveComparison writes cmp as indented JSON to filename.
func saveComparison(ctx context.Context, filename string, cmp service.Comparison) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "comparison saved to file", logger.String("filename", filename))
	return nil
}
