package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/navigation"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
	"github.com/dmitrijs2005/medrecords/internal/client/tokens"
	"github.com/dmitrijs2005/medrecords/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

type fakeAuth struct {
	mu sync.Mutex

	loginReq  models.LoginRequest
	loginData *models.SessionData
	loginErr  error

	signupReq models.SignupRequest
	signupErr error

	me    *models.User
	meErr error

	logoutCalls []string
	logoutErr   error
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	d := *f.loginData
	return &d, nil
}

func (f *fakeAuth) Signup(_ context.Context, req models.SignupRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signupReq = req
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: 9, Username: req.Username, Role: req.Role}, nil
}

func (f *fakeAuth) Logout(_ context.Context, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls = append(f.logoutCalls, refresh)
	return f.logoutErr
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := *f.me
	return &u, nil
}

type fakeResource struct {
	listQuery url.Values
	listOut   any
	listErr   error

	getID  int64
	getOut any
	getErr error

	payload   map[string]any
	createErr error
	updateID  int64
	updateErr error

	deleted   []int64
	deleteErr error
}

func (f *fakeResource) ops(name string, roles ...models.Role) resourceOps {
	return resourceOps{
		name:    name,
		roles:   roles,
		columns: []string{"id", "first_name", "last_name"},
		list: func(_ context.Context, q url.Values) (any, error) {
			f.listQuery = q
			return f.listOut, f.listErr
		},
		get: func(_ context.Context, id int64) (any, error) {
			f.getID = id
			return f.getOut, f.getErr
		},
		create: func(_ context.Context, p map[string]any) (any, error) {
			f.payload = p
			return p, f.createErr
		},
		update: func(_ context.Context, id int64, p map[string]any) (any, error) {
			f.updateID, f.payload = id, p
			return p, f.updateErr
		},
		remove: func(_ context.Context, id int64) error {
			f.deleted = append(f.deleted, id)
			return f.deleteErr
		},
	}
}

var doc1 = models.User{ID: 3, Username: "doc1", FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor}

func doctorLogin() *models.SessionData {
	return &models.SessionData{Access: "A1", Refresh: "R1", User: doc1}
}

type testApp struct {
	*App
	auth  *fakeAuth
	store *tokens.MemoryStore
	out   *bytes.Buffer
}

// newTestApp builds an App whose session has already settled with no user.
func newTestApp(t *testing.T, auth *fakeAuth, resources map[string]resourceOps, input ...string) *testApp {
	t.Helper()
	ta := newLoadingApp(t, auth, resources, input...)
	ta.session.Init(context.Background())
	return ta
}

// newLoadingApp builds an App whose session has not been initialised yet.
func newLoadingApp(t *testing.T, auth *fakeAuth, resources map[string]resourceOps, input ...string) *testApp {
	t.Helper()
	if auth.me == nil && auth.meErr == nil {
		auth.meErr = io.EOF
	}

	store := tokens.NewMemoryStore()
	sess := session.New(auth, store, logging.NewNop())
	out := &bytes.Buffer{}

	a := &App{
		session:   sess,
		store:     store,
		nav:       navigation.NewNavigator(),
		resources: resources,
		log:       logging.NewNop(),
		reader:    readerFromLines(input...),
		out:       out,
		route:     navigation.RouteHome,
	}
	a.unsubscribe = sess.Subscribe(a.onSessionChange)
	t.Cleanup(a.unsubscribe)

	return &testApp{App: a, auth: auth, store: store, out: out}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func (ta *testApp) loginAsDoctor(t *testing.T) {
	t.Helper()
	ta.auth.loginData = doctorLogin()
	_, err := ta.session.Login(context.Background(), models.LoginRequest{Username: "doc1", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	ta.out.Reset()
}
