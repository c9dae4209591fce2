package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	invalidTokenDetail   = "Given token not valid for any token type"
	invalidRefreshDetail = "Token is invalid or expired"
)

type recorded struct {
	Method    string
	Path      string
	RawQuery  string
	Auth      string
	RequestID string
	Body      []byte
}

// fakeService is an in-process stand-in for the records service. It mints
// signed JWTs so expired credentials are rejected the way the real service
// rejects them.
type fakeService struct {
	t      *testing.T
	srv    *httptest.Server
	secret []byte

	mu       sync.Mutex
	requests []recorded
	revoked  map[string]bool

	refreshCalls atomic.Int32
	unauthorized atomic.Int32

	// Set before issuing requests.
	refreshStatus int           // non-zero forces the refresh endpoint to fail
	refreshEmpty  bool          // refresh answers 200 without an access credential
	rotate        bool          // refresh issues a new refresh credential
	refreshGate   chan struct{} // refresh blocks until closed
	logoutStatus  int
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	fs := &fakeService{t: t, secret: []byte("fake-service-secret"), revoked: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", fs.login)
	mux.HandleFunc("POST /api/auth/signup/", fs.signup)
	mux.HandleFunc("POST /api/auth/token/refresh/", fs.refresh)
	mux.HandleFunc("POST /api/auth/logout/", fs.logout)
	mux.HandleFunc("GET /api/auth/me/", fs.authed(fs.me))
	mux.HandleFunc("GET /api/patients/", fs.authed(fs.listPatients))
	mux.HandleFunc("POST /api/patients/", fs.authed(fs.createPatient))
	mux.HandleFunc("GET /api/patients/{id}/", fs.authed(fs.getPatient))
	mux.HandleFunc("PATCH /api/patients/{id}/", fs.authed(fs.updatePatient))
	mux.HandleFunc("DELETE /api/patients/{id}/", fs.authed(fs.deletePatient))
	mux.HandleFunc("GET /api/cases/", fs.authed(func(w http.ResponseWriter, _ *http.Request, _ string) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
	}))
	mux.HandleFunc("GET /api/always-unauthorized/", func(w http.ResponseWriter, _ *http.Request) {
		fs.unauthorized.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": invalidTokenDetail})
	})

	fs.srv = httptest.NewServer(fs.record(mux))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeService) baseURL() string {
	return fs.srv.URL + "/api/"
}

func (fs *fakeService) mint(typ, sub string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": sub,
		"typ": typ,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(fs.secret)
}

// issue mints a pair for the test goroutine. A negative accessTTL yields an
// already expired access credential.
func (fs *fakeService) issue(accessTTL time.Duration) models.CredentialPair {
	access, err := fs.mint("access", "doc1", accessTTL)
	require.NoError(fs.t, err)
	refresh, err := fs.mint("refresh", "doc1", time.Hour)
	require.NoError(fs.t, err)
	return models.CredentialPair{Access: access, Refresh: refresh}
}

func (fs *fakeService) verify(token, typ string) (string, bool) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return fs.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != typ {
		return "", false
	}

	fs.mu.Lock()
	revoked := fs.revoked[token]
	fs.mu.Unlock()
	if revoked {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", false
	}
	return sub, true
}

func (fs *fakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		fs.mu.Lock()
		fs.requests = append(fs.requests, recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			RawQuery:  r.URL.RawQuery,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		fs.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (fs *fakeService) requestsTo(path string) []recorded {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []recorded
	for _, r := range fs.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (fs *fakeService) authed(h func(w http.ResponseWriter, r *http.Request, sub string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		sub, valid := fs.verify(token, "access")
		if !ok || !valid {
			fs.unauthorized.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": invalidTokenDetail,
				"code":   "token_not_valid",
			})
			return
		}
		h(w, r, sub)
	}
}

func (fs *fakeService) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.Username != "doc1" || req.Password != "pw" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Invalid username or password."},
		})
		return
	}

	access, err := fs.mint("access", req.Username, time.Minute)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	refresh, err := fs.mint("refresh", req.Username, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.SessionData{Access: access, Refresh: refresh, User: doctorUser()})
}

func (fs *fakeService) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.Role == models.RoleDoctor && req.LicenseNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"license_number": {"License number is required for doctors."},
		})
		return
	}
	writeJSON(w, http.StatusCreated, models.User{
		ID:        7,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
}

func (fs *fakeService) refresh(w http.ResponseWriter, r *http.Request) {
	fs.refreshCalls.Add(1)
	if fs.refreshGate != nil {
		<-fs.refreshGate
	}
	if fs.refreshStatus != 0 {
		writeJSON(w, fs.refreshStatus, map[string]string{"detail": invalidRefreshDetail, "code": "token_not_valid"})
		return
	}
	if fs.refreshEmpty {
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, "malformed body")
		return
	}
	sub, ok := fs.verify(req.Refresh, "refresh")
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": invalidRefreshDetail, "code": "token_not_valid"})
		return
	}

	var resp models.RefreshResponse
	var err error
	if resp.Access, err = fs.mint("access", sub, time.Minute); err != nil {
		writeJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	if fs.rotate {
		if resp.Refresh, err = fs.mint("refresh", sub, time.Hour); err != nil {
			writeJSON(w, http.StatusInternalServerError, err.Error())
			return
		}
		fs.mu.Lock()
		fs.revoked[req.Refresh] = true
		fs.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (fs *fakeService) logout(w http.ResponseWriter, r *http.Request) {
	if fs.logoutStatus != 0 {
		writeJSON(w, fs.logoutStatus, map[string]string{"detail": "Invalid refresh token."})
		return
	}
	var req models.RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	fs.mu.Lock()
	fs.revoked[req.Refresh] = true
	fs.mu.Unlock()
	w.WriteHeader(http.StatusResetContent)
}

func (fs *fakeService) me(w http.ResponseWriter, _ *http.Request, _ string) {
	writeJSON(w, http.StatusOK, doctorUser())
}

func (fs *fakeService) listPatients(w http.ResponseWriter, _ *http.Request, _ string) {
	writeJSON(w, http.StatusOK, []models.Patient{adaPatient()})
}

func (fs *fakeService) getPatient(w http.ResponseWriter, r *http.Request, _ string) {
	if r.PathValue("id") != "1" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Patient matches the given query."})
		return
	}
	writeJSON(w, http.StatusOK, adaPatient())
}

func (fs *fakeService) createPatient(w http.ResponseWriter, r *http.Request, _ string) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	if _, ok := payload["first_name"]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"first_name": {"This field is required."}})
		return
	}
	p := adaPatient()
	p.ID = 2
	p.FirstName, _ = payload["first_name"].(string)
	writeJSON(w, http.StatusCreated, p)
}

func (fs *fakeService) updatePatient(w http.ResponseWriter, r *http.Request, _ string) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	p := adaPatient()
	if v, ok := payload["last_name"].(string); ok {
		p.LastName = v
	}
	writeJSON(w, http.StatusOK, p)
}

func (fs *fakeService) deletePatient(w http.ResponseWriter, _ *http.Request, _ string) {
	w.WriteHeader(http.StatusNoContent)
}

func doctorUser() models.User {
	return models.User{ID: 3, Username: "doc1", FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor}
}

func adaPatient() models.Patient {
	return models.Patient{ID: 1, FirstName: "Ada", LastName: "Lovelace", DateOfBirth: "1815-12-10", AttendingDoctor: 3}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
