// Package service provides the compare service behind the HTTP API and the
// compare CLI: it validates a request, fetches results from the club backend,
// groups them per athlete and builds the chart series.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/okian/jumpboard/internal/adapters/backend"
	"github.com/okian/jumpboard/internal/domain/access"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/internal/domain/model"
	"github.com/okian/jumpboard/pkg/logger"
	"github.com/okian/jumpboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMaxAthletes = 20
	dateLayout         = "2006-01-02"
)

// Backend is the part of the club backend the service reads from.
type Backend interface {
	Results(ctx context.Context, q backend.ResultQuery) ([]model.Result, error)
	User(ctx context.Context, id int) (model.Athlete, error)
}

// Notification is a message for the user, e.g. a toast.
type Notification struct {
	Level   string
	Message string
}

// Notifier delivers notifications to whatever surface shows them.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// CompareRequest selects what to compare.
type CompareRequest struct {
	// AthleteIDs are looked up unless Athletes already carries them.
	AthleteIDs []int
	// Athletes are athletes already resolved by the caller, e.g. picked in a
	// selector. They come first in the comparison.
	Athletes       []model.Athlete
	EventID        int
	Metric         comparison.Metric
	From           time.Time
	To             time.Time
	SameEventsOnly bool
}

// Comparison is the answer to a CompareRequest.
type Comparison struct {
	comparison.Chart
	From           string `json:"startDate"`
	To             string `json:"endDate"`
	EventID        int    `json:"eventId,omitempty"`
	SameEventsOnly bool   `json:"sameEventsOnly"`
	// Message is set when there is nothing to draw.
	Message string `json:"message,omitempty"`
}

// Service implements the API dependencies for the compare screen.
type Service struct {
	backend       Backend
	notifier      Notifier
	logger        logger.Logger
	maxAthletes   int
	defaultMetric comparison.Metric
	directory     Directory
	pageSize      int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets where fetch failures are reported.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMaxAthletes caps the number of athletes per comparison.
func WithMaxAthletes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAthletes = n
		}
	}
}

// WithDefaultMetric sets the metric used when a request names none.
func WithDefaultMetric(m comparison.Metric) Option {
	return func(s *Service) {
		if m != "" {
			s.defaultMetric = m
		}
	}
}

// New constructs a Service reading from b.
func New(b Backend, opts ...Option) *Service {
	s := &Service{
		backend:       b,
		notifier:      NotifierFunc(func(context.Context, Notification) {}),
		logger:        logger.Nop(),
		maxAthletes:   defaultMaxAthletes,
		defaultMetric: comparison.DefaultMetric,
		pageSize:      backend.AthletePageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare validates req, fetches the matching results and builds the chart.
// Fetch failures are reported through the notifier and returned.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (Comparison, error) {
	start := time.Now()

	ids, err := s.validate(req)
	if err != nil {
		metrics.RecordComparisonError(reason(err))
		return Comparison{}, err
	}
	metric := req.Metric
	if metric == "" {
		metric = s.defaultMetric
	}

	results, err := s.backend.Results(ctx, backend.ResultQuery{
		EventID:    req.EventID,
		AthleteIDs: ids,
		StartDate:  req.From,
		EndDate:    req.To,
	})
	if err != nil {
		return Comparison{}, s.fail(ctx, start, "fetch", fmt.Errorf("%w: %w", ErrFetchResults, err))
	}

	athletes, err := s.resolveAthletes(ctx, ids, req.Athletes, results)
	if err != nil {
		return Comparison{}, s.fail(ctx, start, "lookup", err)
	}

	grouped := comparison.Group(athletes, results, req.SameEventsOnly)
	chart := comparison.Build(athletes, grouped, metric)

	metrics.RecordComparison(len(chart.Rows), len(chart.Series))
	s.logger.Debug(ctx, "comparison built",
		logger.String("metric", string(metric)),
		logger.Int("athletes", len(athletes)),
		logger.Int("results", len(results)),
		logger.Int("slots", len(chart.Rows)),
		logger.Duration("took", time.Since(start)),
	)

	out := Comparison{
		Chart:          chart,
		From:           req.From.Format(dateLayout),
		To:             req.To.Format(dateLayout),
		EventID:        req.EventID,
		SameEventsOnly: req.SameEventsOnly,
	}
	if chart.Empty() {
		out.Message = MessageNoResults
	}
	return out, nil
}

// Metrics lists the plottable metrics.
func (s *Service) Metrics() []comparison.MetricInfo {
	return comparison.Metrics()
}

// Navigation lists the menu entries visible to a user with roles.
func (s *Service) Navigation(roles []string) []access.NavItem {
	return access.VisibleItems(roles)
}

// Authorize reports what the route guard decides for a user with roles.
func (s *Service) Authorize(route string, authenticated bool, roles []string) access.Decision {
	return access.Check(route, authenticated, roles)
}

// validate checks req and returns the distinct athlete ids in request order.
func (s *Service) validate(req CompareRequest) ([]int, error) {
	ids := make([]int, 0, len(req.Athletes)+len(req.AthleteIDs))
	for _, a := range req.Athletes {
		ids = append(ids, a.ID)
	}
	ids = lo.Uniq(append(ids, req.AthleteIDs...))

	switch {
	case len(ids) == 0:
		return nil, ErrNoAthletes
	case len(ids) > s.maxAthletes:
		return nil, fmt.Errorf("%w: %d, at most %d", ErrTooManyAthletes, len(ids), s.maxAthletes)
	case req.From.IsZero() || req.To.IsZero():
		return nil, ErrDateRange
	case req.From.After(req.To):
		return nil, fmt.Errorf("%w: %s is after %s", ErrDateRange,
			req.From.Format(dateLayout), req.To.Format(dateLayout))
	}
	return ids, nil
}

// resolveAthletes returns one athlete per id, in id order. Athletes given by
// the caller win, then athletes embedded in results, then backend lookups.
func (s *Service) resolveAthletes(
	ctx context.Context, ids []int, given []model.Athlete, results []model.Result,
) ([]model.Athlete, error) {
	known := make(map[int]model.Athlete, len(ids))
	for _, r := range results {
		if r.Athlete != nil {
			if _, ok := known[r.Athlete.ID]; !ok {
				known[r.Athlete.ID] = *r.Athlete
			}
		}
	}
	for _, a := range given {
		known[a.ID] = a
	}

	athletes := make([]model.Athlete, 0, len(ids))
	for _, id := range ids {
		a, ok := known[id]
		if !ok {
			fetched, err := s.backend.User(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("%w: athlete %d: %w", ErrAthleteLookup, id, err)
			}
			a = fetched
		}
		athletes = append(athletes, a)
	}
	return athletes, nil
}

func (s *Service) fail(ctx context.Context, start time.Time, kind string, err error) error {
	elapsed := float64(time.Since(start).Milliseconds())
	metrics.RecordComparisonError(kind)
	metrics.RecordErrorLatency("compare", kind, elapsed)
	s.logger.Error(ctx, "comparison failed", logger.String("stage", kind), logger.Error(err))
	s.notifier.Notify(ctx, Notification{Level: "error", Message: MessageFetchFailed})
	return err
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrNoAthletes):
		return "no_athletes"
	case errors.Is(err, ErrTooManyAthletes):
		return "too_many_athletes"
	case errors.Is(err, ErrDateRange):
		return "date_range"
	default:
		return "invalid"
	}
}
