package domain

import (
	"net/url"
	"strings"
)

type Route string

const (
	RouteLogin          Route = "/login"
	RouteSignup         Route = "/signup"
	RouteChildInfo      Route = "/child-info"
	RouteRoot           Route = "/"
	RouteDashboard      Route = "/dashboard"
	RoutePerformance    Route = "/performance"
	RouteMessages       Route = "/messages"
	RouteSettings       Route = "/settings"
	RouteEditProfile    Route = "/edit-profile"
	RouteChangePassword Route = "/change-password"
)

var knownRoutes = map[Route]struct{}{
	RouteLogin:          {},
	RouteSignup:         {},
	RouteChildInfo:      {},
	RouteRoot:           {},
	RouteDashboard:      {},
	RoutePerformance:    {},
	RouteMessages:       {},
	RouteSettings:       {},
	RouteEditProfile:    {},
	RouteChangePassword: {},
}

func (r Route) Known() bool {
	_, ok := knownRoutes[r]
	return ok
}

func (r Route) Public() bool {
	return r == RouteLogin || r == RouteSignup
}

// ParseRoute normalizes a raw navigation target. The boolean reports whether
// the result is a registered route; absolute URLs and network-path
// references never are.
func ParseRoute(raw string) (Route, bool) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "//") {
		return Route(path), false
	}
	u, err := url.Parse(path)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return Route(path), false
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	route := Route(path)
	return route, route.Known()
}
