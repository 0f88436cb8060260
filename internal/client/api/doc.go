// Package api is the HTTP core of the MedScribe client.
//
// Client.Do builds a request against the configured base URL, stamps an
// X-Request-ID, attaches the current bearer token and sends it. On a 401 it
// refreshes the access token once through POST /auth/token/refresh/ and
// resends the original request once. If the refresh cannot be performed the
// session is expired, which fires its hard-logout hooks, and the original
// failure is returned to the caller.
//
// # Errors
//
// Non-2xx responses are *HTTPError; errors.Is(err, ErrUnauthorized) matches
// 401 and 403. Transport failures wrap ErrUnavailable. Bodies that do not
// match their schema are *DecodeError.
package api
