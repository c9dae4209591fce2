package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
)

const (
	signupPath = "auth/signup/"
	loginPath  = "auth/login/"
	logoutPath = "auth/logout/"
	mePath     = "auth/me/"
)

// Signup registers a staff account. The response carries no credentials.
func (g *Gateway) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	var u models.User
	if err := g.Do(ctx, http.MethodPost, signupPath, nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *Gateway) Login(ctx context.Context, req models.LoginRequest) (*models.SessionData, error) {
	var data models.SessionData
	if err := g.Do(ctx, http.MethodPost, loginPath, nil, req, &data); err != nil {
		return nil, err
	}
	if data.Access == "" {
		return nil, ErrEmptyAccessToken
	}
	return &data, nil
}

// Logout asks the service to revoke refresh.
func (g *Gateway) Logout(ctx context.Context, refresh string) error {
	return g.Do(ctx, http.MethodPost, logoutPath, nil, models.RefreshRequest{Refresh: refresh}, nil)
}

// Me returns the profile behind the stored access credential.
func (g *Gateway) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := g.Do(ctx, http.MethodGet, mePath, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
