package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/medrecords/internal/client/client"
	"github.com/dmitrijs2005/medrecords/internal/client/config"
	"github.com/dmitrijs2005/medrecords/internal/client/navigation"
	"github.com/dmitrijs2005/medrecords/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medrecords/internal/client/session"
	"github.com/dmitrijs2005/medrecords/internal/client/tokens"
	"github.com/dmitrijs2005/medrecords/internal/logging"
)

type App struct {
	config    *config.Config
	session   *session.Session
	store     tokens.Store
	meta      metadata.Repository
	nav       *navigation.Navigator
	resources map[string]resourceOps
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	mu          sync.Mutex
	route       string
	unsubscribe func()
}

// NewApp wires the REPL to an already constructed session. meta may be nil
// when no local database is in use.
func NewApp(c *config.Config, sess *session.Session, records *client.Records, store tokens.Store, meta metadata.Repository, log logging.Logger) *App {
	a := &App{
		config:    c,
		session:   sess,
		store:     store,
		meta:      meta,
		nav:       navigation.NewNavigator(),
		resources: resourceRegistry(records),
		log:       log.With("component", "cli"),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		route:     navigation.RouteHome,
	}
	a.unsubscribe = sess.Subscribe(a.onSessionChange)
	return a
}

// Run resolves the stored session in the background and blocks in the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.unsubscribe()

	fmt.Fprintln(a.out, "Welcome to medrecords CLI (type 'help' for commands)")

	go func() {
		if out := a.session.Init(ctx); out.Ignored() {
			a.log.Debug(ctx, "starting without a session", "error", out.Err)
		}
	}()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

func (a *App) setRoute(path string) {
	a.mu.Lock()
	a.route = path
	a.mu.Unlock()
}

// onSessionChange re-runs the guard for the current view so the prompt
// follows identity changes made elsewhere, such as the background Init.
func (a *App) onSessionChange(st session.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.nav.Resolve(a.route, st)
	if err != nil || res.Outcome == navigation.Pending {
		return
	}
	a.route = res.Path
}

func (a *App) getStatus() string {
	st := a.session.State()
	route := a.currentRoute()

	switch {
	case st.Loading:
		return fmt.Sprintf("(loading %s)", route)
	case st.User == nil:
		return fmt.Sprintf("(guest %s)", route)
	}
	return fmt.Sprintf("(%s %s %s)", st.User.Username, st.User.Role, route)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}
