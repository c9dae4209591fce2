// Package session holds the process-wide authenticated identity.
//
// A Session is created once at startup and handed to everything that needs
// to know who is signed in. Init resolves an existing identity from stored
// credentials; Login and Logout replace it. Identity is only ever replaced
// as a whole, and subscribers are told every time it changes.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/tokens"
	"github.com/dmitrijs2005/medrecords/internal/logging"
)

// AuthAPI is the part of the records service the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.SessionData, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Logout(ctx context.Context, refresh string) error
	Me(ctx context.Context) (*models.User, error)
}

// State is a consistent snapshot of the session.
type State struct {
	// User is nil while nobody is signed in.
	User *models.User
	// Loading stays true until Init has settled.
	Loading bool
}

func (s State) Authenticated() bool {
	return s.User != nil
}

// Outcome reports a failure the session already handled. A non-nil Err
// has been logged and did not change the result of the operation.
type Outcome struct {
	Err error
}

// Ignored reports whether a failure was swallowed.
func (o Outcome) Ignored() bool {
	return o.Err != nil
}

type Session struct {
	api   AuthAPI
	store tokens.Store
	log   logging.Logger

	mu      sync.RWMutex
	user    *models.User
	loading bool
	// generation advances on every Login and Logout so a slow Init cannot
	// overwrite an identity set after it started.
	generation uint64

	initOnce    sync.Once
	initOutcome Outcome

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int
	closed  bool
}

func New(api AuthAPI, store tokens.Store, log logging.Logger) *Session {
	return &Session{
		api:     api,
		store:   store,
		log:     log.With("component", "session"),
		loading: true,
		subs:    make(map[int]func(State)),
	}
}

// Init fetches the profile behind the stored credentials. It runs once;
// later calls return the first result. A failure leaves nobody signed in
// and comes back as an ignored Outcome.
func (s *Session) Init(ctx context.Context) Outcome {
	s.initOnce.Do(func() {
		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		u, err := s.api.Me(ctx)

		s.mu.Lock()
		if s.generation == gen {
			s.user = cloneUser(u)
			if err != nil {
				s.user = nil
			}
		}
		s.loading = false
		st := s.snapshotLocked()
		s.mu.Unlock()

		if err != nil {
			s.log.Info(ctx, "no active session", "error", err)
			s.initOutcome = Outcome{Err: err}
		} else {
			s.log.Info(ctx, "session restored", "username", u.Username, "role", u.Role)
		}
		s.notify(st)
	})
	return s.initOutcome
}

// Login authenticates, stores the issued pair and makes the returned user
// the current identity. Errors are returned unchanged and leave the
// session as it was.
func (s *Session) Login(ctx context.Context, req models.LoginRequest) (*models.SessionData, error) {
	data, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, data.Credentials()); err != nil {
		s.log.Error(ctx, "failed to persist credentials", "error", err)
	}
	s.setUser(&data.User)
	s.log.Info(ctx, "signed in", "username", data.User.Username, "role", data.User.Role)
	return data, nil
}

// Logout asks the service to revoke the refresh credential, if there is
// one, then forgets the credentials and the identity. A failed revoke is
// returned as an ignored Outcome; local state is cleared regardless.
func (s *Session) Logout(ctx context.Context) Outcome {
	var out Outcome
	if pair, ok := s.store.Get(ctx); ok && pair.Refresh != "" {
		if err := s.api.Logout(ctx, pair.Refresh); err != nil {
			s.log.Warn(ctx, "logout notification failed", "error", err)
			out.Err = err
		}
	}

	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	s.setUser(nil)
	s.log.Info(ctx, "signed out")
	return out
}

// Signup registers an account. It does not sign anybody in.
func (s *Session) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return s.api.Signup(ctx, req)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called with the new state after every
// identity change. The returned func removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Close drops all subscribers. The session stays readable.
func (s *Session) Close() {
	s.subsMu.Lock()
	s.closed = true
	clear(s.subs)
	s.subsMu.Unlock()
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	s.user = cloneUser(u)
	s.generation++
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
}

func (s *Session) snapshotLocked() State {
	return State{User: cloneUser(s.user), Loading: s.loading}
}

func (s *Session) notify(st State) {
	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
