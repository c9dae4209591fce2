package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medrecords/internal/client/navigation"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
)

// viewResources lists what each dashboard works with.
var viewResources = map[string]string{
	navigation.RoutePatients:        "patients, cases, prescriptions, appointments, doctors",
	navigation.RouteRegisterPatient: "patients, cases, appointments, doctors",
	navigation.RouteAdmin:           "users, admin-patients, patients, doctors, cases, appointments, prescriptions",
}

// Goto navigates to path, following guard and home redirects.
func (a *App) Goto(ctx context.Context, path string) error {
	res, err := a.nav.Resolve(path, a.session.State())
	if err != nil {
		a.log.Error(ctx, "navigation failed", "path", path, "error", err)
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	a.setRoute(res.Path)

	if res.Outcome == navigation.Pending {
		fmt.Fprintln(a.out, "Loading...")
		return nil
	}
	if len(res.Trail) > 1 {
		a.log.Debug(ctx, "redirected", "trail", res.Trail)
	}

	fmt.Fprintf(a.out, "%s (%s)\n", res.Route.Title, res.Path)
	if list, ok := viewResources[res.Path]; ok {
		fmt.Fprintln(a.out, "Resources:", list)
	}
	return nil
}

// authorize runs the guard for ops and acts on a refusal the way a
// protected view would. It reports whether the command may proceed.
func (a *App) authorize(ctx context.Context, ops resourceOps) bool {
	st := a.session.State()
	d := navigation.Guard(st, ops.roles...)

	switch d.Outcome {
	case navigation.Authorized:
		return true
	case navigation.Pending:
		fmt.Fprintln(a.out, "Loading...")
	case navigation.Unauthenticated:
		fmt.Fprintln(a.out, "Please log in first")
		a.setRoute(d.Redirect)
	case navigation.Forbidden:
		fmt.Fprintf(a.out, "Access to %s denied for role %s\n", ops.name, roleOf(st))
		_ = a.Goto(ctx, d.Redirect)
	}
	return false
}

func roleOf(st session.State) string {
	if st.User == nil {
		return ""
	}
	return string(st.User.Role)
}
