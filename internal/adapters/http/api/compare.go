package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/comparison"
)

const dateLayout = "2006-01-02"

// CompareDependencies defines the interface for comparison requests.
type CompareDependencies interface {
	Compare(ctx context.Context, req service.CompareRequest) (service.Comparison, error)
}

// CompareHandler handles compare requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompare handles GET /compare requests.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := parseCompareRequest(r.URL.Query())
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.Compare(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func parseCompareRequest(q url.Values) (service.CompareRequest, error) {
	var req service.CompareRequest

	ids, err := parseInts(q["athleteIds"])
	if err != nil {
		return req, fmt.Errorf("athleteIds: %w", err)
	}
	req.AthleteIDs = ids
	req.Metric = comparison.Metric(strings.TrimSpace(q.Get("metric")))

	if req.From, err = parseDate(q.Get("startDate")); err != nil {
		return req, fmt.Errorf("startDate: %w", err)
	}
	if req.To, err = parseDate(q.Get("endDate")); err != nil {
		return req, fmt.Errorf("endDate: %w", err)
	}

	if s := strings.TrimSpace(q.Get("eventId")); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id < 1 {
			return req, fmt.Errorf("eventId: invalid value %q", s)
		}
		req.EventID = id
	}
	if s := strings.TrimSpace(q.Get("sameEventsOnly")); s != "" {
		same, err := strconv.ParseBool(s)
		if err != nil {
			return req, fmt.Errorf("sameEventsOnly: invalid value %q", s)
		}
		req.SameEventsOnly = same
	}
	return req, nil
}

// parseInts accepts repeated parameters as well as comma separated lists.
func parseInts(raw []string) ([]int, error) {
	var out []int
	for _, v := range splitList(raw) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid id %q", v)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseDate reads an ISO date. An empty value yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
