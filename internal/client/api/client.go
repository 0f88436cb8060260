package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/medscribe/internal/client/metrics"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// RefreshPath is the token refresh endpoint relative to the base URL.
const RefreshPath = "/auth/token/refresh/"

// Session is the token holder the client reads from and writes back to.
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(ctx context.Context, access string) error
	Expire(ctx context.Context, reason error) error
}

// Client sends requests to the MedScribe API on behalf of a session.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
	logger  logging.Logger
	metrics *metrics.Collector
	newID   func() string

	refreshes singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger used for request and refresh events.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables request and refresh metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for baseURL (e.g. http://localhost:8000/api).
// Requests carry the session's access token and refresh it on 401.
func New(baseURL string, sess Session, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: sess,
		logger:  logging.Nop(),
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends req. A 401 answer triggers one refresh of the access token and
// one resend of the same request; a failed refresh expires the session and
// the first 401 is returned, marked with common.ErrSessionExpired.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, ctype, err := req.encode()
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, req, body, ctype)
	if err == nil || req.NoRefresh || StatusCode(err) != http.StatusUnauthorized {
		return resp, err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w (%w)", err, common.ErrSessionExpired)
	}

	return c.send(ctx, req, body, ctype)
}

// refresh obtains a new access token. Concurrent callers share one call.
// The shared call ignores the caller's cancellation: a caller that gives up
// only stops waiting for it.
func (c *Client) refresh(ctx context.Context) error {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		return nil, c.doRefresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (c *Client) doRefresh(ctx context.Context) error {
	token := c.session.RefreshToken()
	if token == "" {
		c.metrics.ObserveRefresh(metrics.RefreshNoToken)
		return c.expire(ctx, ErrNoRefreshToken)
	}

	resp, err := c.Do(ctx, &Request{
		Method:    http.MethodPost,
		Path:      RefreshPath,
		Body:      models.RefreshRequest{Refresh: token},
		NoRefresh: true,
		Anonymous: true,
	})
	if err != nil {
		outcome := metrics.RefreshFailed
		if StatusCode(err) != 0 {
			outcome = metrics.RefreshRejected
		}
		c.metrics.ObserveRefresh(outcome)
		return c.expire(ctx, err)
	}

	var out models.RefreshResponse
	if err := DecodeJSON(resp, RefreshPath, &out); err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshRejected)
		return c.expire(ctx, err)
	}

	if err := c.session.SetAccessToken(ctx, out.Access); err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshFailed)
		return c.expire(ctx, err)
	}

	c.metrics.ObserveRefresh(metrics.RefreshOK)
	c.logger.Info(ctx, "access token refreshed")
	return nil
}

func (c *Client) expire(ctx context.Context, reason error) error {
	if err := c.session.Expire(ctx, reason); err != nil {
		c.logger.Error(ctx, "failed to purge session", "error", err)
	}
	return reason
}

func (c *Client) send(ctx context.Context, req *Request, body []byte, ctype string) (*Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	u := resolve(c.baseURL, req.Path, req.Query)
	hreq, err := http.NewRequestWithContext(ctx, req.Method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if req.Header != nil {
		hreq.Header = req.Header.Clone()
	}
	switch {
	case req.Upload != nil:
		hreq.Header.Set("Content-Type", ctype)
	case ctype != "" && hreq.Header.Get("Content-Type") == "":
		hreq.Header.Set("Content-Type", ctype)
	}
	if hreq.Header.Get("Accept") == "" {
		hreq.Header.Set("Accept", "application/json")
	}
	if hreq.Header.Get(common.RequestIDHeader) == "" {
		hreq.Header.Set(common.RequestIDHeader, c.newID())
	}
	if !req.Anonymous {
		if token := c.session.AccessToken(); token != "" {
			hreq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	log := c.logger.With("method", req.Method, "path", req.Path,
		"request_id", hreq.Header.Get(common.RequestIDHeader))

	done := c.metrics.Track()
	start := time.Now()
	hresp, err := c.http.Do(hreq)
	elapsed := time.Since(start)
	done()

	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, elapsed)
		log.Warn(ctx, "request failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	c.metrics.ObserveRequest(req.Method, hresp.StatusCode, elapsed)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", hresp.StatusCode, "duration", elapsed)

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: hresp.StatusCode,
			Status:     hresp.Status,
			Body:       data,
		}
	}

	return &Response{StatusCode: hresp.StatusCode, Header: hresp.Header, Body: data}, nil
}

// IsSessionExpired reports whether err ended the session.
func IsSessionExpired(err error) bool {
	return errors.Is(err, common.ErrSessionExpired)
}
