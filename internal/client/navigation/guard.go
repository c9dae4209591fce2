// Package navigation decides where a user may go: the route guard, the
// role-to-landing router and the route table of the front-end.
package navigation

import (
	"slices"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
)

const (
	RouteHome            = "/"
	RouteLogin           = "/login"
	RouteSignup          = "/signup"
	RoutePatients        = "/patients"
	RouteRegisterPatient = "/register-patient"
	RouteAdmin           = "/admin"
)

// Outcome is the verdict of Guard.
type Outcome int

const (
	// Pending means the session is still loading; render a placeholder
	// and decide again once it settles.
	Pending Outcome = iota
	Authorized
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Decision is an Outcome plus where to go instead, if anywhere.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Guard decides whether a view requiring one of roles may be shown.
// Loading wins over authentication, which wins over role. With no roles
// any signed-in user is authorized.
func Guard(st session.State, roles ...models.Role) Decision {
	switch {
	case st.Loading:
		return Decision{Outcome: Pending}
	case st.User == nil:
		return Decision{Outcome: Unauthenticated, Redirect: RouteLogin}
	case len(roles) > 0 && !slices.Contains(roles, st.User.Role):
		return Decision{Outcome: Forbidden, Redirect: RouteHome}
	}
	return Decision{Outcome: Authorized}
}

// HomeRoute is the landing route for u. Unknown roles and nil users land
// on the login view.
func HomeRoute(u *models.User) string {
	if u == nil {
		return RouteLogin
	}
	switch u.Role {
	case models.RoleAdmin:
		return RouteAdmin
	case models.RoleDoctor:
		return RoutePatients
	case models.RoleReceptionist:
		return RouteRegisterPatient
	}
	return RouteLogin
}
