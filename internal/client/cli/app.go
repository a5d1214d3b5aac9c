package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/uncovr/uncovr/internal/client/api"
	"github.com/uncovr/uncovr/internal/client/config"
	"github.com/uncovr/uncovr/internal/client/session"
	"github.com/uncovr/uncovr/internal/client/tokenstore"

	_ "modernc.org/sqlite"
)

// App wires the CLI together: local credential storage, the API client,
// and the session manager, plus the interactive input loop.
type App struct {
	config  *config.Config
	tokens  *tokenstore.Store
	api     api.Client
	session *session.Manager
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	tokens, err := tokenstore.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing credential storage: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, tokens)

	app := &App{
		config: c,
		tokens: tokens,
		api:    apiClient,
		reader: bufio.NewReader(os.Stdin),
	}
	app.session = session.NewManager(apiClient, tokens, app)

	return app, nil
}

// Replace implements session.Navigator. The CLI has no real screens to
// switch; the signal is surfaced as a status line.
func (a *App) Replace(route session.Route) {
	switch route {
	case session.RouteMain:
		log.Println("Signed in")
	case session.RouteLogin:
		log.Println("Signed out")
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.tokens.Close() }()

	// Re-validate any persisted session before showing the prompt.
	a.session.Check(ctx)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return "(" + u.Email + ")"
	}
	return ""
}
