package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/session"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// Login authenticates with the username given as argument (or prompted)
// and a password read from the terminal. Success and failure are reported
// by the store notifier.
func (a *App) Login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.store.Auth.Login(ctx, models.Credentials{Username: username, Password: string(password)})
	return nil
}

// Logout ends the session locally even if the server call fails.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.store.Auth.Logout(ctx)
	return nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context, _ []string) error {
	var in models.Registration
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter username", &in.Username},
		{"Enter email", &in.Email},
		{"Enter first name", &in.FirstName},
		{"Enter last name", &in.LastName},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	if in.Username == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	u, err := a.svc.Auth.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s (id %d). You can log in now.\n", u.Username, u.ID)
	return nil
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	fmt.Fprintln(a.out, "Current password")
	current, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	fmt.Fprintln(a.out, "New password")
	next, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	fmt.Fprintln(a.out, "Repeat new password")
	again, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)
	if string(next) != string(again) {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	if err := a.svc.Auth.ChangePassword(ctx, models.PasswordChange{
		CurrentPassword: string(current),
		NewPassword:     string(next),
	}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// WhoAmI prints the current user and what the access token says about
// its own lifetime.
func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	s := a.sess.Snapshot()
	if s.User == nil {
		a.store.Auth.FetchCurrentUser(ctx)
		s = a.sess.Snapshot()
	}
	if s.User != nil {
		u := s.User
		fmt.Fprintf(a.out, "%s <%s> id=%d", u.Username, orDash(u.Email), u.ID)
		if name := u.FirstName + " " + u.LastName; name != " " {
			fmt.Fprintf(a.out, " %s", name)
		}
		if u.IsStaff {
			fmt.Fprint(a.out, " [staff]")
		}
		fmt.Fprintln(a.out)
	} else {
		fmt.Fprintln(a.out, "user profile unavailable")
	}

	claims, err := a.sess.Claims()
	switch {
	case errors.Is(err, session.ErrOpaqueToken):
		fmt.Fprintln(a.out, "access token: opaque")
	case err != nil:
		return err
	default:
		if left := claims.ExpiresIn(time.Now()); left > 0 {
			fmt.Fprintf(a.out, "access token expires in %s\n", left.Round(time.Second))
		} else if claims.ExpiresAt != nil {
			fmt.Fprintln(a.out, "access token expired; it will be refreshed on the next request")
		}
	}
	return nil
}
