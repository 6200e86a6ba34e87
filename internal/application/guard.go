package application

import (
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
)

type NavigationMode string

const (
	NavigationPush    NavigationMode = "push"
	NavigationReplace NavigationMode = "replace"
)

// Decision is the guard's verdict for one navigation attempt. Redirects are
// always Replace so the refused destination never enters history.
type Decision struct {
	Allowed bool
	Target  domain.Route
	Mode    NavigationMode
}

func allow(route domain.Route) Decision {
	return Decision{Allowed: true, Target: route, Mode: NavigationPush}
}

func redirect(route domain.Route) Decision {
	return Decision{Allowed: false, Target: route, Mode: NavigationReplace}
}

// Authorize is evaluated on every navigation and every session change; it
// keeps no state. Unknown paths fail closed to the login page.
func Authorize(state domain.SessionState, path string) Decision {
	route, known := domain.ParseRoute(path)
	if !known {
		return redirect(domain.RouteLogin)
	}
	if route.Public() {
		return allow(route)
	}
	if !state.IsAuthenticated() {
		return redirect(domain.RouteLogin)
	}
	if route == domain.RouteRoot {
		return redirect(domain.RouteDashboard)
	}

	return allow(route)
}

// Navigator models the navigation surface: a current route plus a history
// stack, kept consistent with the guard as the session changes.
type Navigator struct {
	session *SessionStore

	mu      sync.Mutex
	history []domain.Route
	unsub   func()
}

func NewNavigator(session *SessionStore) *Navigator {
	n := &Navigator{session: session}
	n.unsub = session.Subscribe(n.onSessionChange)
	return n
}

func (n *Navigator) Close() {
	if n.unsub != nil {
		n.unsub()
	}
}

func (n *Navigator) Navigate(path string) Decision {
	decision := Authorize(n.session.State(), path)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.applyLocked(decision)

	return decision
}

// AfterLogin replaces the login page with the dashboard.
func (n *Navigator) AfterLogin() Decision {
	decision := Authorize(n.session.State(), string(domain.RouteDashboard))
	if decision.Allowed {
		decision.Mode = NavigationReplace
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.applyLocked(decision)

	return decision
}

// AfterSignup pushes the optional onboarding step.
func (n *Navigator) AfterSignup() Decision {
	return n.Navigate(string(domain.RouteChildInfo))
}

func (n *Navigator) Current() (domain.Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.history) == 0 {
		return "", false
	}
	return n.history[len(n.history)-1], true
}

func (n *Navigator) History() []domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]domain.Route(nil), n.history...)
}

func (n *Navigator) onSessionChange(state domain.SessionState) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.history) == 0 {
		return
	}
	current := n.history[len(n.history)-1]
	decision := Authorize(state, string(current))
	if decision.Allowed && decision.Target == current {
		return
	}
	n.applyLocked(redirect(decision.Target))
}

func (n *Navigator) applyLocked(decision Decision) {
	if decision.Mode == NavigationReplace && len(n.history) > 0 {
		n.history[len(n.history)-1] = decision.Target
		return
	}
	n.history = append(n.history, decision.Target)
}
