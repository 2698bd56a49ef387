// Package guard decides, from the current session alone, whether a route may
// be shown or where to redirect instead. It keeps no state of its own.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

const (
	RouteLogin      = "/login"
	RouteOnboarding = "/onboarding"
	RouteJobs       = "/jobs"
)

// Group is the access class of a route.
type Group int

const (
	GroupPublic Group = iota
	GroupOnboarding
	GroupProtected
)

var groups = map[string]Group{
	"/":                     GroupPublic,
	"/login":                GroupPublic,
	"/signup":               GroupPublic,
	"/auth/callback":        GroupPublic,
	"/privacy-policy":       GroupPublic,
	"/terms-and-conditions": GroupPublic,
	"/refund-policy":        GroupPublic,
	"/shipping-policy":      GroupPublic,
	"/contact":              GroupPublic,

	"/onboarding": GroupOnboarding,

	"/feed":      GroupProtected,
	"/jobs":      GroupProtected,
	"/matches":   GroupProtected,
	"/applied":   GroupProtected,
	"/bookmarks": GroupProtected,
	"/dashboard": GroupProtected,
}

// GroupOf classifies route. Unknown routes are protected.
func GroupOf(route string) Group {
	route = normalize(route)
	if g, ok := groups[route]; ok {
		return g
	}
	return GroupProtected
}

// State is the session's position in the access state machine.
type State int

const (
	Unauthenticated State = iota
	OnboardingPending
	Active
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case OnboardingPending:
		return "onboarding_pending"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

func StateOf(s models.Session) State {
	switch {
	case !s.IsAuthenticated():
		return Unauthenticated
	case s.User.Onboarding:
		return OnboardingPending
	default:
		return Active
	}
}

// Decision is the outcome of a navigation check. Redirect is empty when the
// route may be shown.
type Decision struct {
	Route    string
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Target is where the user ends up: the route itself or the redirect.
func (d Decision) Target() string {
	if d.Redirect != "" {
		return d.Redirect
	}
	return d.Route
}

// Decide evaluates route against s.
func Decide(route string, s models.Session) Decision {
	route = normalize(route)
	d := Decision{Route: route}

	state := StateOf(s)
	switch GroupOf(route) {
	case GroupOnboarding:
		switch state {
		case Unauthenticated:
			d.Redirect = RouteLogin
		case Active:
			d.Redirect = RouteJobs
		}
	case GroupProtected:
		switch state {
		case Unauthenticated:
			d.Redirect = RouteLogin
		case OnboardingPending:
			d.Redirect = RouteOnboarding
		}
	}
	return d
}

func normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}
