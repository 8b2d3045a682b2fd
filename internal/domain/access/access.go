// Package access derives what a signed-in user may see from their roles.
// It only hides navigation; the backend enforces authorization.
package access

import (
	"strings"

	"github.com/okian/jumpboard/internal/domain/model"
)

// Routes the guard treats specially.
const (
	// HomeRoute is where signed-in users land from an unknown route.
	HomeRoute = "/"

	// LoginRoute is where unauthenticated users are sent.
	LoginRoute = "/login"

	ChangePasswordRoute = "/change-password"
)

// publicRoutes open without a session.
var publicRoutes = map[string]struct{}{
	LoginRoute:          {},
	ChangePasswordRoute: {},
}

// NavItem is one sidebar entry. An empty Roles list means any signed-in user.
type NavItem struct {
	Route string   `json:"route"`
	Label string   `json:"label"`
	Roles []string `json:"roles"`
}

var navigation = []NavItem{
	{Route: "/", Label: "Kalendarz"},
	{Route: "/users", Label: "Użytkownicy", Roles: []string{model.RoleAdmin, model.RoleManager}},
	{Route: "/athletes", Label: "Zawodnicy", Roles: []string{model.RoleAdmin, model.RoleTrainer}},
	{Route: "/teams", Label: "Drużyny", Roles: []string{model.RoleAdmin, model.RoleManager}},
	{Route: "/my-teams", Label: "Moje Drużyny"},
	{Route: "/hills", Label: "Skocznie", Roles: []string{model.RoleAdmin, model.RoleOperate}},
	{Route: "/events", Label: "Wydarzenia", Roles: []string{model.RoleAdmin, model.RoleOperate}},
	{Route: "/my-events", Label: "Moje wydarzenia"},
	{Route: "/compare", Label: "Porównaj"},
	{Route: "/suggestion", Label: "Sugestia", Roles: []string{model.RoleAdmin, model.RoleTrainer}},
	{Route: "/injuries", Label: "Kontuzje", Roles: []string{model.RoleAdmin, model.RoleInjuryManager}},
}

// detailPrefixes are entity pages open to any signed-in user.
var detailPrefixes = []string{"/users/", "/teams/", "/hills/", "/events/"}

// Decision is the outcome of a route check.
type Decision int

// Route check outcomes.
const (
	Allow Decision = iota
	RedirectToLogin
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Redirect is where the client should go after decision d, or "" to stay.
// An unknown route falls back to the home page.
func (d Decision) Redirect() string {
	switch d {
	case RedirectToLogin:
		return LoginRoute
	case NotFound:
		return HomeRoute
	default:
		return ""
	}
}

// Navigation returns a copy of every nav item.
func Navigation() []NavItem {
	out := make([]NavItem, len(navigation))
	copy(out, navigation)
	return out
}

// Allowed reports whether roles satisfy item.
func (item NavItem) Allowed(roles []string) bool {
	if len(item.Roles) == 0 {
		return true
	}
	for _, want := range item.Roles {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

// VisibleItems filters the navigation down to what roles may open.
func VisibleItems(roles []string) []NavItem {
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if item.Allowed(roles) {
			out = append(out, item)
		}
	}
	return out
}

// Check decides whether a user may open route. authenticated is false when
// no token is held. Public routes are open to everyone.
func Check(route string, authenticated bool, roles []string) Decision {
	route = normalize(route)
	if _, ok := publicRoutes[route]; ok {
		return Allow
	}
	if !authenticated {
		return RedirectToLogin
	}
	for _, item := range navigation {
		if item.Route == route {
			if item.Allowed(roles) {
				return Allow
			}
			return Forbidden
		}
	}
	for _, prefix := range detailPrefixes {
		if id, ok := strings.CutPrefix(route, prefix); ok && id != "" && !strings.Contains(id, "/") {
			return Allow
		}
	}
	return NotFound
}

func normalize(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimSuffix(route, "/")
	}
	return route
}
