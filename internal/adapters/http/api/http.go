// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/jumpboard/internal/adapters/backend"
	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/access"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Compare(ctx context.Context, req service.CompareRequest) (service.Comparison, error)
	Metrics() []comparison.MetricInfo
	Navigation(roles []string) []access.NavItem
	Authorize(route string, authenticated bool, roles []string) access.Decision
	Athletes(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Athlete], error)
	Events(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Event], error)
	Teams(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Team], error)
	Hills(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Hill], error)
	Profile(ctx context.Context) (service.Profile, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	compareHandler    *CompareHandler
	catalogHandler    *CatalogHandler
	navigationHandler *NavigationHandler
	selectorHandler   *SelectorHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		compareHandler:    NewCompareHandler(deps),
		catalogHandler:    NewCatalogHandler(deps),
		navigationHandler: NewNavigationHandler(deps),
		selectorHandler:   NewSelectorHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(BearerTokenMiddleware(MetricsMiddleware(h, endpoint))))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/compare", "compare", s.compareHandler.HandleCompare)
	route("/metrics/catalog", "metrics_catalog", s.catalogHandler.HandleCatalog)
	route("/navigation", "navigation", s.navigationHandler.HandleNavigation)
	route("/navigation/check", "navigation_check", s.navigationHandler.HandleCheck)
	route("/selectors/athletes", "selectors_athletes", s.selectorHandler.HandleAthletes)
	route("/selectors/events", "selectors_events", s.selectorHandler.HandleEvents)
	route("/selectors/teams", "selectors_teams", s.selectorHandler.HandleTeams)
	route("/selectors/hills", "selectors_hills", s.selectorHandler.HandleHills)
	route("/me", "profile", s.selectorHandler.HandleProfile)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrNoAthletes),
		errors.Is(err, service.ErrTooManyAthletes),
		errors.Is(err, service.ErrDateRange):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoDirectory):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, service.ErrFetchResults),
		errors.Is(err, service.ErrListing),
		errors.Is(err, service.ErrAthleteLookup),
		errors.Is(err, backend.ErrServer),
		errors.Is(err, backend.ErrTransport),
		errors.Is(err, backend.ErrDecode),
		errors.Is(err, backend.ErrUnexpectedStatus):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
