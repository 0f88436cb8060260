package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/client/session"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// SessionExpiredMessage is shown when a failed refresh ends the session.
const SessionExpiredMessage = "Session expired. Please log in again."

// AuthState is the session snapshot plus the status of the last auth action.
type AuthState struct {
	session.Session
	Status
}

// Auth fronts the session manager. The tokens themselves live in the
// manager; the slice only tracks request status.
type Auth struct {
	base
	svc  services.AuthService
	sess *session.Manager
}

func newAuth(svc services.AuthService, sess *session.Manager, n Notifier, l logging.Logger) *Auth {
	a := &Auth{base: newBase("auth", n, l), svc: svc, sess: sess}
	sess.OnExpire(a.hardLogout)
	return a
}

// State returns the current auth state.
func (a *Auth) State() AuthState {
	return AuthState{Session: a.sess.Snapshot(), Status: a.Status()}
}

// Login authenticates and persists both tokens.
func (a *Auth) Login(ctx context.Context, creds models.Credentials) Result[*models.User] {
	return action(ctx, &a.base, op[*models.User]{
		name:     "login",
		fallback: "Login failed",
		success:  "Login successful!",
		call: func(ctx context.Context) (*models.User, error) {
			resp, err := a.svc.Login(ctx, creds)
			if err != nil {
				return nil, err
			}
			user := resp.User
			if err := a.sess.Start(ctx, resp.Access, resp.Refresh, &user); err != nil {
				return nil, err
			}
			return &user, nil
		},
	})
}

// Logout tells the server and drops the local session whatever it answers.
func (a *Auth) Logout(ctx context.Context) Result[struct{}] {
	return action(ctx, &a.base, op[struct{}]{
		name:     "logout",
		fallback: "Logout failed",
		success:  "Logged out successfully",
		call: func(ctx context.Context) (struct{}, error) {
			a.svc.Logout(ctx)
			return struct{}{}, a.sess.Clear(ctx)
		},
	})
}

// FetchCurrentUser loads the profile of the logged-in user.
func (a *Auth) FetchCurrentUser(ctx context.Context) Result[*models.User] {
	return action(ctx, &a.base, op[*models.User]{
		name:     "current_user",
		fallback: "Failed to fetch user",
		quiet:    true,
		call: func(ctx context.Context) (*models.User, error) {
			return a.svc.CurrentUser(ctx)
		},
		apply: func(u *models.User) { a.sess.SetUser(u) },
		fail:  func(error) { a.sess.SetUser(nil) },
	})
}

// hardLogout runs when a token refresh failed and the session was purged.
func (a *Auth) hardLogout(reason error) {
	a.mu.Lock()
	a.seq++
	a.status = Status{Error: SessionExpiredMessage}
	a.mu.Unlock()

	ctx := context.Background()
	a.logger.Warn(ctx, "hard logout", "reason", reason)
	a.notifier.Notify(ctx, LevelError, SessionExpiredMessage)
}
