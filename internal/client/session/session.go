// Package session owns the authenticated session: the bearer and refresh
// tokens, the current user, and their durable copy in storage.
//
// A Manager is constructed once at startup (Load), mutated on login, refresh
// and logout, and torn down by Expire when a refresh fails. Expire notifies
// every hook registered with OnExpire so the application can drop back to
// its unauthenticated entry point.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/storage"
	"github.com/dmitrijs2005/medscribe/internal/common"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// Session is a point-in-time copy of the manager state.
type Session struct {
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	User            *models.User
}

// Manager holds the session in memory and mirrors it to storage. Storage is
// written first, so memory never reports a state that was not persisted.
type Manager struct {
	repo   storage.Repository
	logger logging.Logger

	mu      sync.RWMutex
	access  string
	refresh string
	user    *models.User
	hooks   []func(reason error)
}

// NewManager returns an empty manager; call Load to restore a saved session.
func NewManager(repo storage.Repository, logger logging.Logger) *Manager {
	return &Manager{repo: repo, logger: logger}
}

// Load seeds the in-memory session from storage.
func (m *Manager) Load(ctx context.Context) error {
	access, err := m.repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}
	refresh, err := m.repo.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return fmt.Errorf("load refresh token: %w", err)
	}

	m.mu.Lock()
	m.access = string(access)
	m.refresh = string(refresh)
	m.user = nil
	m.mu.Unlock()

	m.logger.Debug(ctx, "session loaded", "authenticated", len(access) > 0)
	return nil
}

// Start records a fresh login. Both tokens are persisted atomically before
// the in-memory state changes.
func (m *Manager) Start(ctx context.Context, access, refresh string, user *models.User) error {
	if access == "" {
		return fmt.Errorf("%w: empty access token", common.ErrorValidation)
	}

	err := m.repo.Update(ctx, func(ctx context.Context, r storage.Repository) error {
		if err := r.Set(ctx, common.AccessTokenKey, []byte(access)); err != nil {
			return err
		}
		if refresh == "" {
			return r.Delete(ctx, common.RefreshTokenKey)
		}
		return r.Set(ctx, common.RefreshTokenKey, []byte(refresh))
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.access, m.refresh, m.user = access, refresh, user
	m.mu.Unlock()
	return nil
}

// SetAccessToken replaces the bearer token after a successful refresh.
func (m *Manager) SetAccessToken(ctx context.Context, access string) error {
	if access == "" {
		return fmt.Errorf("%w: empty access token", common.ErrorValidation)
	}
	if err := m.repo.Set(ctx, common.AccessTokenKey, []byte(access)); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}

	m.mu.Lock()
	m.access = access
	m.mu.Unlock()
	return nil
}

// SetUser records the profile of the logged-in user. It is not persisted.
func (m *Manager) SetUser(u *models.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

// IsAuthenticated reports whether an access token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Session{
		AccessToken:     m.access,
		RefreshToken:    m.refresh,
		IsAuthenticated: m.access != "",
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Clear ends the session locally (logout). Memory is reset even when the
// storage purge fails; the storage error is still returned. The purge does
// not observe ctx cancellation so durable tokens never outlive the memory
// copy.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.access, m.refresh, m.user = "", "", nil
	m.mu.Unlock()

	err := m.repo.Update(context.WithoutCancel(ctx), func(ctx context.Context, r storage.Repository) error {
		if err := r.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return r.Delete(ctx, common.RefreshTokenKey)
	})
	if err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	return nil
}

// Expire clears the session after an unrecoverable refresh failure and
// fires the hard-logout hooks.
func (m *Manager) Expire(ctx context.Context, reason error) error {
	err := m.Clear(ctx)

	if reason == nil {
		reason = common.ErrSessionExpired
	} else if !errors.Is(reason, common.ErrSessionExpired) {
		reason = fmt.Errorf("%w: %w", common.ErrSessionExpired, reason)
	}
	m.logger.Warn(ctx, "session expired", "reason", reason.Error())

	m.mu.RLock()
	hooks := append([]func(error){}, m.hooks...)
	m.mu.RUnlock()

	for _, h := range hooks {
		h(reason)
	}
	return err
}

// OnExpire registers fn to run on every Expire.
func (m *Manager) OnExpire(fn func(reason error)) {
	m.mu.Lock()
	m.hooks = append(m.hooks, fn)
	m.mu.Unlock()
}
