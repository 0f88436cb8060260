// Package common contains constants and sentinel errors shared by the
// MedScribe client packages.
package common

const (
	// AccessTokenKey and RefreshTokenKey are the fixed keys the session
	// tokens are persisted under in durable client storage.
	AccessTokenKey  = "access"
	RefreshTokenKey = "refresh"

	// AuthorizationHeader carries the bearer token on outbound requests.
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// RequestIDHeader is stamped on every outbound request.
	RequestIDHeader = "X-Request-ID"

	// APIURLEnv overrides the backend base URL.
	APIURLEnv = "MEDSCRIBE_API_URL"
)
