package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/model"
)

// SelectorDependencies defines the interface for the paged selectors and the
// signed-in user's profile.
type SelectorDependencies interface {
	Athletes(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Athlete], error)
	Events(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Event], error)
	Teams(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Team], error)
	Hills(ctx context.Context, q service.SelectorQuery) (service.SelectorPage[model.Hill], error)
	Profile(ctx context.Context) (service.Profile, error)
}

// SelectorHandler handles selector and profile requests.
type SelectorHandler struct {
	deps SelectorDependencies
}

// NewSelectorHandler creates a new selector handler.
func NewSelectorHandler(deps SelectorDependencies) *SelectorHandler {
	return &SelectorHandler{deps: deps}
}

// HandleAthletes handles GET /selectors/athletes?search=&page=&exclude=&roleIds=&teamIds=.
func (h *SelectorHandler) HandleAthletes(w http.ResponseWriter, r *http.Request) {
	serveSelector(w, r, "api.selectors_athletes", h.deps.Athletes)
}

// HandleEvents handles GET /selectors/events?search=&page=&exclude=.
func (h *SelectorHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	serveSelector(w, r, "api.selectors_events", h.deps.Events)
}

// HandleTeams handles GET /selectors/teams?search=&page=&exclude=.
func (h *SelectorHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	serveSelector(w, r, "api.selectors_teams", h.deps.Teams)
}

// HandleHills handles GET /selectors/hills?search=&page=&exclude=.
func (h *SelectorHandler) HandleHills(w http.ResponseWriter, r *http.Request) {
	serveSelector(w, r, "api.selectors_hills", h.deps.Hills)
}

// HandleProfile handles GET /me.
func (h *SelectorHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	profile, err := h.deps.Profile(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func serveSelector[T any](
	w http.ResponseWriter, r *http.Request, op string,
	load func(context.Context, service.SelectorQuery) (service.SelectorPage[T], error),
) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseSelectorQuery(r.URL.Query())
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := load(r.Context(), q)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func parseSelectorQuery(q url.Values) (service.SelectorQuery, error) {
	out := service.SelectorQuery{Search: strings.TrimSpace(q.Get("search"))}

	if s := strings.TrimSpace(q.Get("page")); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 0 {
			return out, fmt.Errorf("page: invalid value %q", s)
		}
		out.Page = page
	}

	var err error
	if out.Exclude, err = parseInts(q["exclude"]); err != nil {
		return out, fmt.Errorf("exclude: %w", err)
	}
	if out.RoleIDs, err = parseInts(q["roleIds"]); err != nil {
		return out, fmt.Errorf("roleIds: %w", err)
	}
	if out.TeamIDs, err = parseInts(q["teamIds"]); err != nil {
		return out, fmt.Errorf("teamIds: %w", err)
	}
	return out, nil
}
