package navigation

import (
	"testing"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		state     session.State
		wantPath  string
		wantOut   Outcome
		wantTrail []string
	}{
		{
			name:      "doctor lands on patients",
			path:      "/",
			state:     session.State{User: user(models.RoleDoctor)},
			wantPath:  RoutePatients,
			wantOut:   Authorized,
			wantTrail: []string{"/", RoutePatients},
		},
		{
			name:      "anonymous home goes to login",
			path:      "/",
			state:     session.State{},
			wantPath:  RouteLogin,
			wantOut:   Authorized,
			wantTrail: []string{"/", RouteLogin},
		},
		{
			name:      "home waits while loading",
			path:      "/",
			state:     session.State{Loading: true},
			wantPath:  RouteHome,
			wantOut:   Pending,
			wantTrail: []string{"/"},
		},
		{
			name:      "protected view waits while loading",
			path:      "/admin",
			state:     session.State{Loading: true},
			wantPath:  RouteAdmin,
			wantOut:   Pending,
			wantTrail: []string{RouteAdmin},
		},
		{
			name:      "anonymous protected view goes to login",
			path:      "/patients",
			state:     session.State{},
			wantPath:  RouteLogin,
			wantOut:   Authorized,
			wantTrail: []string{RoutePatients, RouteLogin},
		},
		{
			name:      "wrong role bounces through home",
			path:      "/admin",
			state:     session.State{User: user(models.RoleReceptionist)},
			wantPath:  RouteRegisterPatient,
			wantOut:   Authorized,
			wantTrail: []string{RouteAdmin, RouteHome, RouteRegisterPatient},
		},
		{
			name:      "unknown role ends on login",
			path:      "/patients",
			state:     session.State{User: user("NURSE")},
			wantPath:  RouteLogin,
			wantOut:   Authorized,
			wantTrail: []string{RoutePatients, RouteHome, RouteLogin},
		},
		{
			name:      "unknown path goes home",
			path:      "/nowhere",
			state:     session.State{User: user(models.RoleAdmin)},
			wantPath:  RouteAdmin,
			wantOut:   Authorized,
			wantTrail: []string{"/nowhere", RouteHome, RouteAdmin},
		},
		{
			name:      "signup is public",
			path:      "signup/",
			state:     session.State{Loading: true},
			wantPath:  RouteSignup,
			wantOut:   Authorized,
			wantTrail: []string{RouteSignup},
		},
	}

	n := NewNavigator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.Resolve(tt.path, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, res.Path)
			assert.Equal(t, tt.wantOut, res.Outcome)
			assert.Equal(t, tt.wantTrail, res.Trail)
			if tt.wantOut == Authorized {
				assert.Equal(t, tt.wantPath, res.Route.Path)
			}
		})
	}
}

func TestResolve_RedirectLoopIsBounded(t *testing.T) {
	n := &Navigator{
		routes: map[string]Route{
			"/a": {Path: "/a", Roles: []models.Role{models.RoleAdmin}},
		},
		maxHops: 4,
	}
	// /patients is missing here, so a doctor cycles between it and home
	_, err := n.Resolve("/a", session.State{User: user(models.RoleDoctor)})
	require.ErrorIs(t, err, ErrRedirectLoop)
}

func TestLookup(t *testing.T) {
	n := NewNavigator()

	r, ok := n.Lookup("/register-patient/")
	require.True(t, ok)
	assert.Equal(t, []models.Role{models.RoleReceptionist}, r.Roles)

	_, ok = n.Lookup("/")
	assert.False(t, ok)
}
