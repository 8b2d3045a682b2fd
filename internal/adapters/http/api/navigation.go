package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/jumpboard/internal/domain/access"
)

// NavigationDependencies defines the interface for role gated navigation.
type NavigationDependencies interface {
	Navigation(roles []string) []access.NavItem
	Authorize(route string, authenticated bool, roles []string) access.Decision
}

// NavigationHandler handles navigation requests.
type NavigationHandler struct {
	deps NavigationDependencies
}

// NewNavigationHandler creates a new navigation handler.
func NewNavigationHandler(deps NavigationDependencies) *NavigationHandler {
	return &NavigationHandler{deps: deps}
}

type navigationResponse struct {
	Items []access.NavItem `json:"items"`
}

type checkResponse struct {
	Route    string `json:"route"`
	Decision string `json:"decision"`
	Redirect string `json:"redirect,omitempty"`
}

// HandleNavigation handles GET /navigation?roles=... requests.
func (h *NavigationHandler) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	roles := splitList(r.URL.Query()["roles"])
	writeJSON(w, http.StatusOK, navigationResponse{Items: h.deps.Navigation(roles)})
}

// HandleCheck handles GET /navigation/check?route=...&authenticated=...&roles=...
// requests and reports what the route guard decides.
func (h *NavigationHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.navigation_check"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	route := strings.TrimSpace(q.Get("route"))
	if route == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	authenticated := true
	if s := q.Get("authenticated"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		authenticated = v
	}

	decision := h.deps.Authorize(route, authenticated, splitList(q["roles"]))
	writeJSON(w, http.StatusOK, checkResponse{
		Route:    route,
		Decision: decision.String(),
		Redirect: decision.Redirect(),
	})
}
