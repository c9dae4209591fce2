package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/client/client"
	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/navigation"
	"github.com/dmitrijs2005/medrecords/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errInvalidRole = errors.New("role must be one of ADMIN, DOCTOR, RECEPTIONIST")

// Signup collects the account fields, including the role-specific ones,
// and registers the account. It never signs anybody in: on success the
// user is sent to the login view.
func (a *App) Signup(ctx context.Context) error {
	req, err := a.readSignup()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	u, err := a.session.Signup(ctx, req)
	if err != nil {
		a.fail(ctx, err, "Signup failed")
		return err
	}

	fmt.Fprintf(a.out, "Account %s created, you can now log in\n", u.Username)
	a.setRoute(navigation.RouteLogin)
	return nil
}

func (a *App) readSignup() (models.SignupRequest, error) {
	var req models.SignupRequest
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter username", &req.Username},
		{"Enter email", &req.Email},
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return req, err
		}
		*p.dst = v
	}

	role, err := getSimpleText(a.reader, "Enter role (ADMIN, DOCTOR, RECEPTIONIST)", a.out)
	if err != nil {
		return req, err
	}
	req.Role = models.Role(strings.ToUpper(role))
	if !req.Role.Known() {
		return req, errInvalidRole
	}

	switch req.Role {
	case models.RoleDoctor:
		if req.Specialty, err = getSimpleText(a.reader, "Enter specialty", a.out); err != nil {
			return req, err
		}
		if req.LicenseNumber, err = getSimpleText(a.reader, "Enter license number", a.out); err != nil {
			return req, err
		}
	case models.RoleReceptionist:
		if req.DeskNumber, err = getSimpleText(a.reader, "Enter desk number (optional)", a.out); err != nil {
			return req, err
		}
	}
	return req, nil
}

// Login prompts for credentials, signs in and navigates to the landing
// view for the user's role. The last username is remembered locally and
// offered as the default next time.
func (a *App) Login(ctx context.Context) error {
	last := a.lastUsername(ctx)
	prompt := "Enter username"
	if last != "" {
		prompt += fmt.Sprintf(" [%s]", last)
	}

	username, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if username == "" {
		username = last
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	data, err := a.session.Login(ctx, models.LoginRequest{Username: username, Password: string(password)})
	if err != nil {
		a.fail(ctx, err, "Login failed")
		return err
	}

	a.rememberUsername(ctx, username)
	fmt.Fprintf(a.out, "Welcome, %s\n", data.User.DisplayName())
	return a.Goto(ctx, navigation.RouteHome)
}

// Logout signs out locally even when the service cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if out := a.session.Logout(ctx); out.Ignored() {
		a.log.Warn(ctx, "service was not notified of logout", "error", out.Err)
	}
	a.setRoute(navigation.RouteLogin)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// savedAtStore is implemented by stores that track when the pair was
// written.
type savedAtStore interface {
	SavedAt(ctx context.Context) (time.Time, bool)
}

func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	switch {
	case st.Loading:
		fmt.Fprintln(a.out, "Loading...")
		return nil
	case st.User == nil:
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "%s (%s), role %s, home %s\n", u.DisplayName(), u.Username, u.Role, navigation.HomeRoute(u))
	if s, ok := a.store.(savedAtStore); ok {
		if at, ok := s.SavedAt(ctx); ok {
			fmt.Fprintf(a.out, "Credentials refreshed at %s\n", at.Local().Format(time.DateTime))
		}
	}
	return nil
}

// fail prints err inline. An authentication failure that left no
// credentials behind means the session is over, so the identity is
// dropped as well.
func (a *App) fail(ctx context.Context, err error, fallback string) {
	a.log.Debug(ctx, "command failed", "error", err)
	fmt.Fprintln(a.out, "Error:", client.ErrorMessage(err, fallback))

	if !errors.Is(err, client.ErrUnauthorized) || !a.isLoggedIn() {
		return
	}
	if _, ok := a.store.Get(ctx); ok {
		return
	}
	a.session.Logout(ctx)
	a.setRoute(navigation.RouteLogin)
	fmt.Fprintln(a.out, "Session expired, please log in again")
}

func (a *App) lastUsername(ctx context.Context) string {
	if a.meta == nil {
		return ""
	}
	v, err := a.meta.Get(ctx, common.LastUsernameStorageKey)
	if err != nil {
		a.log.Debug(ctx, "failed to read last username", "error", err)
		return ""
	}
	return string(v)
}

func (a *App) rememberUsername(ctx context.Context, username string) {
	if a.meta == nil {
		return
	}
	if err := a.meta.Set(ctx, common.LastUsernameStorageKey, []byte(username)); err != nil {
		a.log.Warn(ctx, "failed to remember username", "error", err)
	}
}
