// Package session owns the single authenticated-user value for the whole
// application and the operations that are allowed to mutate it.
package session

import (
	"context"
	"fmt"
	"log"

	"github.com/uncovr/uncovr/internal/client/api"
	"github.com/uncovr/uncovr/internal/client/tokenstore"
)

// Status is the session state machine:
// Unknown (startup) → Checking → {Authenticated | Unauthenticated}.
type Status string

const (
	StatusUnknown         Status = "unknown"
	StatusChecking        Status = "checking"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Route identifies the screen the UI should switch to after a session
// transition.
type Route string

const (
	RouteLogin Route = "login"
	RouteMain  Route = "main"
)

// Navigator receives navigation signals. The CLI points it at its own
// screen switching; tests record the calls.
type Navigator interface {
	Replace(route Route)
}

// Manager mediates all authentication operations against the remote API and
// holds the one in-memory user the rest of the application reads.
//
// Manager does not serialize concurrent operations: calls are expected to
// arrive from a single UI-driven flow, and overlapping calls resolve as
// last-write-wins on the user/token state. Callers needing stronger
// guarantees should avoid issuing overlapping operations.
type Manager struct {
	api    api.Client
	tokens *tokenstore.Store
	nav    Navigator

	status  Status
	user    *api.User
	loading bool
}

func NewManager(client api.Client, tokens *tokenstore.Store, nav Navigator) *Manager {
	return &Manager{
		api:    client,
		tokens: tokens,
		nav:    nav,
		status: StatusUnknown,
	}
}

// Status returns the current session state.
func (m *Manager) Status() Status { return m.status }

// User returns the authenticated user, or nil. Callers must treat the value
// as read-only; all mutations go through Manager operations.
func (m *Manager) User() *api.User { return m.user }

// IsAuthenticated reports whether a user is currently signed in.
func (m *Manager) IsAuthenticated() bool { return m.user != nil }

// IsLoading reports whether a session operation is in flight.
func (m *Manager) IsLoading() bool { return m.loading }

// Check re-validates the persisted session at startup. A missing or expired
// token means unauthenticated; a present token is confirmed by fetching the
// current user, and any failure there (network, unauthorized, parse) kills
// the local session. Check itself never returns an error.
func (m *Manager) Check(ctx context.Context) {
	m.status = StatusChecking
	m.loading = true
	defer func() { m.loading = false }()

	if _, ok := m.tokens.Get(ctx); !ok {
		m.user = nil
		m.status = StatusUnauthenticated
		return
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		log.Printf("auth check failed: %v", err)
		m.tokens.Clear(ctx)
		m.user = nil
		m.status = StatusUnauthenticated
		return
	}

	m.user = user
	m.status = StatusAuthenticated
}

// Login authenticates with the remote API, persists the returned token, and
// switches to the main screen. On failure the previous state is left as-is
// and the error propagates for display.
func (m *Manager) Login(ctx context.Context, creds api.LoginRequest) error {
	m.loading = true
	defer func() { m.loading = false }()

	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		return err
	}

	return m.establish(ctx, resp)
}

// Register creates an account and signs in, symmetric to Login.
func (m *Manager) Register(ctx context.Context, userData api.RegisterRequest) error {
	m.loading = true
	defer func() { m.loading = false }()

	resp, err := m.api.Register(ctx, userData)
	if err != nil {
		return err
	}

	return m.establish(ctx, resp)
}

func (m *Manager) establish(ctx context.Context, resp *api.AuthResponse) error {
	if err := m.tokens.Set(ctx, resp.Token); err != nil {
		// A token we cannot persist would strand the user in a
		// logged-in-but-tokenless state on the next start.
		return fmt.Errorf("could not complete sign-in: %w", err)
	}

	user := resp.User
	m.user = &user
	m.status = StatusAuthenticated
	m.nav.Replace(RouteMain)
	return nil
}

// Logout signs out. The remote call is best-effort: its failure is logged,
// never surfaced, and the local session is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.loading = true
	defer func() { m.loading = false }()

	if err := m.api.Logout(ctx); err != nil {
		log.Printf("logout request failed: %v", err)
	}

	m.tokens.Clear(ctx)
	m.user = nil
	m.status = StatusUnauthenticated
	m.nav.Replace(RouteLogin)
}

// UpdateProfile sends the partial update and replaces the in-memory user
// with the server's returned representation. The server is the source of
// truth; nothing is merged locally.
func (m *Manager) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) error {
	user, err := m.api.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	m.user = user
	return nil
}

// ChangePassword rotates the password. The user record itself is unchanged.
// Field-level validation (non-empty, confirmation match, minimum length) is
// the UI boundary's job, not enforced here.
func (m *Manager) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	return m.api.ChangePassword(ctx, req)
}

// RefreshUser re-fetches the current user. Inability to re-validate identity
// is treated as being logged out: the failure path is identical to Logout.
func (m *Manager) RefreshUser(ctx context.Context) {
	user, err := m.api.Me(ctx)
	if err != nil {
		log.Printf("failed to refresh user data: %v", err)
		m.Logout(ctx)
		return
	}
	m.user = user
}
