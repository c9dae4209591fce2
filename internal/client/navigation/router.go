package navigation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
)

const defaultMaxHops = 8

var ErrRedirectLoop = errors.New("too many redirects")

// Route is one entry of the route table. Public routes skip the guard;
// the rest require a signed-in user holding one of Roles.
type Route struct {
	Path   string
	Title  string
	Public bool
	Roles  []models.Role
}

// Routes is the front-end's route table. "/" is not listed: it always
// redirects to the caller's landing route.
var Routes = []Route{
	{Path: RouteLogin, Title: "Sign in", Public: true},
	{Path: RouteSignup, Title: "Create account", Public: true},
	{Path: RoutePatients, Title: "Doctor dashboard", Roles: []models.Role{models.RoleDoctor}},
	{Path: RouteRegisterPatient, Title: "Reception desk", Roles: []models.Role{models.RoleReceptionist}},
	{Path: RouteAdmin, Title: "Administration", Roles: []models.Role{models.RoleAdmin}},
}

// Resolution is where a navigation ended.
type Resolution struct {
	// Route is the view to render. It is zero when Outcome is Pending.
	Route Route
	// Path is the last path visited.
	Path    string
	Outcome Outcome
	// Trail lists every path visited, starting with the requested one.
	Trail []string
}

type Navigator struct {
	routes  map[string]Route
	maxHops int
}

func NewNavigator() *Navigator {
	n := &Navigator{routes: make(map[string]Route, len(Routes)), maxHops: defaultMaxHops}
	for _, r := range Routes {
		n.routes[r.Path] = r
	}
	return n
}

// Lookup returns the route registered for path.
func (n *Navigator) Lookup(path string) (Route, bool) {
	r, ok := n.routes[normalize(path)]
	return r, ok
}

// Resolve follows redirects from path until a view can be shown or the
// session is still loading. Unknown paths redirect to "/".
func (n *Navigator) Resolve(path string, st session.State) (Resolution, error) {
	res := Resolution{}
	path = normalize(path)

	for hop := 0; hop <= n.maxHops; hop++ {
		res.Path = path
		res.Trail = append(res.Trail, path)

		if path == RouteHome {
			if st.Loading {
				res.Outcome = Pending
				return res, nil
			}
			path = HomeRoute(st.User)
			continue
		}

		route, ok := n.routes[path]
		if !ok {
			path = RouteHome
			continue
		}
		if route.Public {
			res.Route = route
			res.Outcome = Authorized
			return res, nil
		}

		d := Guard(st, route.Roles...)
		switch d.Outcome {
		case Pending:
			res.Outcome = Pending
			return res, nil
		case Authorized:
			res.Route = route
			res.Outcome = Authorized
			return res, nil
		}
		path = d.Redirect
	}

	return res, fmt.Errorf("%w: %s", ErrRedirectLoop, strings.Join(res.Trail, " -> "))
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return RouteHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return RouteHome
		}
	}
	return path
}
