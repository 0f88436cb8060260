package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

const (
	LoginPath          = "/auth/login/"
	LogoutPath         = "/auth/logout/"
	CurrentUserPath    = "/auth/user/"
	ChangePasswordPath = "/auth/change-password/"
	RegisterPath       = "/auth/register/"
)

// AuthService covers account and token endpoints.
//
// Login and RefreshToken never take part in the automatic refresh protocol
// and are sent without a bearer token. Logout never fails: the local session
// is dropped by the caller regardless of what the server says.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Logout(ctx context.Context)
	RefreshToken(ctx context.Context, refresh string) (*models.RefreshResponse, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	ChangePassword(ctx context.Context, in models.PasswordChange) error
	Register(ctx context.Context, in models.Registration) (*models.User, error)
}

type authService struct {
	d Doer
}

// NewAuthService returns an AuthService over d.
func NewAuthService(d Doer) AuthService {
	return &authService{d: d}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	return call[models.LoginResponse](ctx, s.d, &api.Request{
		Method:    http.MethodPost,
		Path:      LoginPath,
		Body:      creds,
		NoRefresh: true,
		Anonymous: true,
	})
}

func (s *authService) Logout(ctx context.Context) {
	_ = exec(ctx, s.d, &api.Request{Method: http.MethodPost, Path: LogoutPath, NoRefresh: true})
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*models.RefreshResponse, error) {
	return call[models.RefreshResponse](ctx, s.d, &api.Request{
		Method:    http.MethodPost,
		Path:      api.RefreshPath,
		Body:      models.RefreshRequest{Refresh: refresh},
		NoRefresh: true,
		Anonymous: true,
	})
}

func (s *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return call[models.User](ctx, s.d, &api.Request{Method: http.MethodGet, Path: CurrentUserPath})
}

func (s *authService) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	return exec(ctx, s.d, &api.Request{Method: http.MethodPost, Path: ChangePasswordPath, Body: in})
}

func (s *authService) Register(ctx context.Context, in models.Registration) (*models.User, error) {
	return call[models.User](ctx, s.d, &api.Request{
		Method:    http.MethodPost,
		Path:      RegisterPath,
		Body:      in,
		NoRefresh: true,
		Anonymous: true,
	})
}
