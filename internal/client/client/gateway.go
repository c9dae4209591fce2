package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/tokens"
	"github.com/dmitrijs2005/medrecords/internal/common"
	"github.com/dmitrijs2005/medrecords/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const refreshPath = "auth/token/refresh/"

// Options tune a Gateway. The zero value is usable.
type Options struct {
	// HTTPClient defaults to a plain &http.Client{}.
	HTTPClient *http.Client
	// Timeout bounds each HTTP round-trip; 0 keeps the transport default.
	Timeout time.Duration
	// CoalesceRefresh makes concurrent 401s sharing a refresh credential
	// wait on one refresh call instead of each issuing their own.
	CoalesceRefresh bool
	Logger          logging.Logger
}

// Gateway sends authenticated JSON requests to the records service.
type Gateway struct {
	baseURL  *url.URL
	http     *http.Client
	store    tokens.Store
	log      logging.Logger
	timeout  time.Duration
	coalesce bool

	refreshGroup singleflight.Group
	newRequestID func() string
}

// NewGateway builds a Gateway for baseURL. Relative paths such as
// "auth/me/" resolve under it, so baseURL should end with a slash.
func NewGateway(baseURL string, store tokens.Store, opts Options) (*Gateway, error) {
	u, err := url.Parse(common.EnsureTrailingSlash(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Gateway{
		baseURL:      u,
		http:         httpClient,
		store:        store,
		log:          log.With("component", "gateway"),
		timeout:      opts.Timeout,
		coalesce:     opts.CoalesceRefresh,
		newRequestID: uuid.NewString,
	}, nil
}

// call is one logical request. Its body is kept as bytes so it can be
// replayed after a refresh.
type call struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

// attempt counts refresh-retries consumed by a single call. It is created
// fresh per Do and never shared between calls.
type attempt struct {
	retries int
}

// Do sends in (JSON-encoded, may be nil) to path and decodes a 2xx body
// into out (may be nil).
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	c := call{method: method, path: path, query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		c.body = b
	}

	pair, _ := g.store.Get(ctx)
	return g.roundTrip(ctx, c, &attempt{}, pair.Access, out)
}

func (g *Gateway) roundTrip(ctx context.Context, c call, att *attempt, access string, out any) error {
	status, body, err := g.send(ctx, c, access)
	if err != nil {
		return err
	}

	if status >= 200 && status < 300 {
		return decodeBody(c, body, out)
	}

	apiErr := newAPIError(status, body)
	if status != http.StatusUnauthorized || att.retries > 0 {
		return apiErr
	}
	att.retries++

	pair, ok := g.store.Get(ctx)
	if !ok || pair.Refresh == "" {
		return apiErr
	}

	next, err := g.refresh(ctx, pair)
	if err != nil && ctx.Err() != nil {
		// The caller gave up; the stored pair may still be good.
		return err
	}
	if err != nil {
		g.log.Warn(ctx, "token refresh failed, clearing credentials", "path", c.path, "error", err)
		if cErr := g.store.Clear(ctx); cErr != nil {
			g.log.Error(ctx, "failed to clear credentials", "error", cErr)
		}
		return apiErr
	}

	return g.roundTrip(ctx, c, att, next.Access, out)
}

// refresh exchanges pair.Refresh for a new access credential and stores
// the new pair.
//
// A coalesced refresh is detached from the cancellation of whichever caller
// started it, so one abandoned call cannot fail the others waiting on it.
// It stays bounded by the gateway timeout.
func (g *Gateway) refresh(ctx context.Context, pair models.CredentialPair) (models.CredentialPair, error) {
	if !g.coalesce {
		return g.refreshOnce(ctx, pair)
	}

	shared := context.WithoutCancel(ctx)
	ch := g.refreshGroup.DoChan(pair.Refresh, func() (any, error) {
		return g.refreshOnce(shared, pair)
	})

	select {
	case <-ctx.Done():
		return models.CredentialPair{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.CredentialPair{}, res.Err
		}
		if res.Shared {
			g.log.Debug(ctx, "joined in-flight token refresh")
		}
		return res.Val.(models.CredentialPair), nil
	}
}

func (g *Gateway) refreshOnce(ctx context.Context, pair models.CredentialPair) (models.CredentialPair, error) {
	body, err := json.Marshal(models.RefreshRequest{Refresh: pair.Refresh})
	if err != nil {
		return models.CredentialPair{}, err
	}

	// Sent without a bearer header and outside roundTrip, so a failing
	// refresh can never trigger another refresh.
	status, respBody, err := g.send(ctx, call{method: http.MethodPost, path: refreshPath, body: body}, "")
	if err != nil {
		return models.CredentialPair{}, err
	}
	if status < 200 || status >= 300 {
		return models.CredentialPair{}, newAPIError(status, respBody)
	}

	var resp models.RefreshResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return models.CredentialPair{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if resp.Access == "" {
		return models.CredentialPair{}, ErrEmptyAccessToken
	}

	next := models.CredentialPair{Access: resp.Access, Refresh: pair.Refresh}
	if resp.Refresh != "" {
		next.Refresh = resp.Refresh
	}
	if err := g.store.Set(ctx, next); err != nil {
		g.log.Error(ctx, "failed to persist refreshed credentials", "error", err)
	}
	g.log.Info(ctx, "access token refreshed")
	return next, nil
}

// send performs one HTTP round-trip and returns the status and full body.
// Transport failures wrap ErrUnavailable.
func (g *Gateway) send(ctx context.Context, c call, access string) (int, []byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var reader io.Reader
	if c.body != nil {
		reader = bytes.NewReader(c.body)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, g.resolve(c), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", c.method, c.path, err)
	}

	requestID := g.newRequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if access != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerValue(access))
	}

	log := g.log.With("request_id", requestID, "method", c.method, "path", c.path)

	resp, err := g.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, c.method, c.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return 0, nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, c.method, c.path, err)
	}

	log.Debug(ctx, "request completed", "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}

func (g *Gateway) resolve(c call) string {
	u := g.baseURL.ResolveReference(&url.URL{Path: c.path})
	if len(c.query) > 0 {
		u.RawQuery = c.query.Encode()
	}
	return u.String()
}

func decodeBody(c call, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", c.method, c.path, err)
	}
	return nil
}
