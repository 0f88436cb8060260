package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/medscribe/internal/common"
)

var ErrOpaqueToken = errors.New("access token is not a JWT")

// Claims is what the client can learn from its own access token. The
// signature is not verified: the backend remains the only authority, this
// is for display only.
type Claims struct {
	jwt.RegisteredClaims
	UserID    json.Number `json:"user_id,omitempty"`
	TokenType string      `json:"token_type,omitempty"`
}

// ExpiresIn reports the remaining lifetime; zero when the token has no exp
// claim, negative when it already expired.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// Claims decodes the current access token without verifying it.
func (m *Manager) Claims() (*Claims, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	return ParseClaims(token)
}

func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpaqueToken, err)
	}
	return claims, nil
}
