// Package session owns the authenticated session: the bearer token, the
// identity it resolves to, and the restore/login/logout lifecycle. It is an
// explicit application-root-owned object, not ambient global state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"spendbook/internal/core"
	"spendbook/internal/storage"
)

// TokenStore persists the token across restarts. *storage.StateStore
// satisfies it.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the slice of the API the session needs: minting tokens
// and resolving the current user.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (accessToken string, err error)
	CurrentUser(ctx context.Context) (core.User, error)
}

// Manager holds the current session. All methods are safe for concurrent
// use; the HTTP handlers call in from the server's goroutines.
type Manager struct {
	store TokenStore
	auth  Authenticator

	mu      sync.RWMutex
	token   string
	user    *core.User
	loading bool
}

// NewManager returns a manager in the loading state. Call AttachAuth once
// the API client exists (the client needs the manager as its token source,
// so the two are wired in two steps), then Restore.
func NewManager(store TokenStore) *Manager {
	return &Manager{store: store, loading: true}
}

// AttachAuth wires the authenticator. Must happen before Restore or Login.
func (m *Manager) AttachAuth(auth Authenticator) {
	m.auth = auth
}

// Token returns the current bearer token, or "" when logged out.
// It implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the resolved identity, or nil when logged out.
func (m *Manager) User() *core.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Active reports whether a session is established.
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.user != nil
}

// Loading reports whether the initial restore is still in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Restore re-establishes a session from the persisted token, if any. A token
// that no longer resolves to a user is cleared rather than kept: a stale
// token must not leave the app stuck behind a loading state. The loading
// flag drops once restore finishes either way. Only storage errors are
// returned; auth failures are handled here.
func (m *Manager) Restore(ctx context.Context) error {
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	token, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("read persisted token: %w", err)
	}
	if token == "" {
		slog.InfoContext(ctx, "No persisted session")
		return nil
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.auth.CurrentUser(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Session restore failed, clearing token", "error", err)
		if delErr := m.store.Delete(ctx, storage.KeyToken); delErr != nil {
			slog.ErrorContext(ctx, "Failed to clear persisted token", "error", delErr)
		}
		m.mu.Lock()
		m.token = ""
		m.user = nil
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	slog.InfoContext(ctx, "Session restored", "username", user.Username)
	return nil
}

// Login exchanges credentials for a token, persists it, and resolves the
// user. The token is persisted before the user lookup, mirroring the
// backend's contract: a failed lookup propagates to the caller with the
// token already stored.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	slog.InfoContext(ctx, "Logged in", "username", user.Username)
	return nil
}

// Logout clears the persisted token and the in-memory state. The backend is
// not told; token invalidation is purely local.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Delete(ctx, storage.KeyToken); err != nil {
		slog.ErrorContext(ctx, "Failed to delete persisted token", "error", err)
	}
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
	slog.InfoContext(ctx, "Logged out")
}
