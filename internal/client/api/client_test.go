package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medscribe/internal/client/metrics"
	"github.com/dmitrijs2005/medscribe/internal/client/session"
	"github.com/dmitrijs2005/medscribe/internal/client/storage"
	"github.com/dmitrijs2005/medscribe/internal/common"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// backend is a stub API that accepts a single valid bearer token.
type backend struct {
	mu         sync.Mutex
	validToken string
	nextToken  string
	refreshErr int
	// refreshDelay stalls the refresh handler.
	refreshDelay time.Duration

	refreshCalls  atomic.Int32
	patientsCalls atomic.Int32
	authHeaders   []string
	refreshAuth   []string
}

func (b *backend) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/token/refresh/", b.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/api/patients/", b.handlePatients).Methods(http.MethodGet)
	r.HandleFunc("/api/always401/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	r.HandleFunc("/api/boom/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
	})
	return r
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
	b.mu.Unlock()
}

func (b *backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	b.mu.Lock()
	b.refreshAuth = append(b.refreshAuth, r.Header.Get("Authorization"))
	b.mu.Unlock()

	if b.refreshDelay > 0 {
		time.Sleep(b.refreshDelay)
	}
	if b.refreshErr != 0 {
		writeJSON(w, b.refreshErr, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Refresh != "R1" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "bad refresh"})
		return
	}
	b.mu.Lock()
	b.validToken = b.nextToken
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access": b.nextToken})
}

func (b *backend) handlePatients(w http.ResponseWriter, r *http.Request) {
	b.patientsCalls.Add(1)
	b.record(r)
	b.mu.Lock()
	valid := "Bearer " + b.validToken
	b.mu.Unlock()
	if r.Header.Get("Authorization") != valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
		return
	}
	writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "first_name": "John", "last_name": "Doe"}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	backend *backend
	server  *httptest.Server
	session *session.Manager
	repo    *storage.MemoryRepository
	metrics *metrics.Collector
	client  *Client
	expired []error
}

func newFixture(t *testing.T, access, refresh string) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{backend: &backend{validToken: "A1", nextToken: "A2"}}
	f.server = httptest.NewServer(f.backend.router())
	t.Cleanup(f.server.Close)

	f.repo = storage.NewMemoryRepository()
	f.session = session.NewManager(f.repo, logging.Nop())
	if access != "" {
		require.NoError(t, f.session.Start(ctx, access, refresh, nil))
	}
	f.session.OnExpire(func(r error) { f.expired = append(f.expired, r) })

	f.metrics = metrics.NewCollector(prometheus.NewRegistry())
	f.client = New(f.server.URL+"/api", f.session, WithMetrics(f.metrics), WithLogger(logging.Nop()))
	return f
}

func get(path string) *Request {
	return &Request{Method: http.MethodGet, Path: path}
}

func TestDo_AttachesBearer(t *testing.T) {
	f := newFixture(t, "A1", "R1")

	resp, err := f.client.Do(context.Background(), get("/patients/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer A1"}, f.backend.authHeaders)
	assert.Zero(t, f.backend.refreshCalls.Load())
}

func TestDo_AutomaticHeaderWinsOverManual(t *testing.T) {
	f := newFixture(t, "A1", "R1")

	req := get("/patients/")
	req.Header = http.Header{"Authorization": []string{"Bearer forged"}}
	_, err := f.client.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer A1"}, f.backend.authHeaders)
	assert.Equal(t, "Bearer forged", req.Header.Get("Authorization"), "caller header untouched")
}

func TestDo_ManualHeaderKeptWithoutSession(t *testing.T) {
	f := newFixture(t, "", "")

	req := get("/patients/")
	req.Header = http.Header{"Authorization": []string{"Bearer A1"}}
	_, err := f.client.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer A1"}, f.backend.authHeaders)
}

func TestDo_RefreshesOnceAndRetries(t *testing.T) {
	f := newFixture(t, "A0", "R1")

	resp, err := f.client.Do(context.Background(), get("/patients/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 1, f.backend.refreshCalls.Load())
	assert.EqualValues(t, 2, f.backend.patientsCalls.Load())
	assert.Equal(t, []string{"Bearer A0", "Bearer A2"}, f.backend.authHeaders)
	assert.Equal(t, []string{""}, f.backend.refreshAuth, "refresh is sent without the stale bearer")

	assert.Equal(t, "A2", f.session.AccessToken())
	assert.Equal(t, "R1", f.session.RefreshToken())
	stored, err := f.repo.Get(context.Background(), common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "A2", string(stored))
	assert.Empty(t, f.expired)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RefreshTotal.WithLabelValues(metrics.RefreshOK)))
}

func TestDo_SecondUnauthorizedIsPropagated(t *testing.T) {
	f := newFixture(t, "A1", "R1")

	_, err := f.client.Do(context.Background(), get("/always401/"))
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, IsSessionExpired(err))

	assert.EqualValues(t, 1, f.backend.refreshCalls.Load())
	assert.Len(t, f.backend.authHeaders, 2, "exactly one retry")
	assert.True(t, f.session.IsAuthenticated())
}

func TestDo_RefreshFailureClearsSession(t *testing.T) {
	f := newFixture(t, "A0", "R1")
	f.backend.refreshErr = http.StatusUnauthorized

	_, err := f.client.Do(context.Background(), get("/patients/"))
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "/patients/", he.Path, "the original failure is returned")
	assert.True(t, IsSessionExpired(err))

	assert.Equal(t, session.Session{}, f.session.Snapshot())
	all, err := f.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	require.Len(t, f.expired, 1)
	assert.EqualValues(t, 1, f.backend.patientsCalls.Load(), "no retry after failed refresh")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RefreshTotal.WithLabelValues(metrics.RefreshRejected)))
}

func TestDo_MissingRefreshTokenClearsSession(t *testing.T) {
	f := newFixture(t, "A0", "")

	_, err := f.client.Do(context.Background(), get("/patients/"))
	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Zero(t, f.backend.refreshCalls.Load())
	assert.False(t, f.session.IsAuthenticated())
	require.Len(t, f.expired, 1)
	assert.ErrorIs(t, f.expired[0], ErrNoRefreshToken)
}

func TestDo_NoRefreshSkipsProtocol(t *testing.T) {
	f := newFixture(t, "A0", "R1")

	req := get("/patients/")
	req.NoRefresh = true
	_, err := f.client.Do(context.Background(), req)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.backend.refreshCalls.Load())
	assert.True(t, f.session.IsAuthenticated())
}

func TestDo_ServerErrorPropagatesUnchanged(t *testing.T) {
	f := newFixture(t, "A1", "R1")

	_, err := f.client.Do(context.Background(), get("/boom/"))
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Equal(t, "database down", he.Message())
	assert.Zero(t, f.backend.refreshCalls.Load())
}

func TestDo_ConcurrentUnauthorizedShareRefresh(t *testing.T) {
	f := newFixture(t, "A0", "R1")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.Do(context.Background(), get("/patients/"))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, f.backend.refreshCalls.Load(), int32(len(errs)))
	assert.Equal(t, "A2", f.session.AccessToken())
}

func TestDo_CallerTimeoutDuringRefreshKeepsSession(t *testing.T) {
	f := newFixture(t, "A0", "R1")
	f.backend.refreshDelay = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.client.Do(ctx, get("/patients/"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsSessionExpired(err))

	require.Eventually(t, func() bool { return f.session.AccessToken() == "A2" },
		2*time.Second, 10*time.Millisecond, "refresh completes for the next caller")
	assert.Equal(t, "R1", f.session.RefreshToken())

	stored, err := f.repo.Get(context.Background(), common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "A2", string(stored))
	assert.Empty(t, f.expired)
	assert.EqualValues(t, 1, f.backend.patientsCalls.Load(), "no retry for the caller that gave up")
}

func TestDo_TransportFailure(t *testing.T) {
	f := newFixture(t, "A1", "R1")
	f.server.Close()

	_, err := f.client.Do(context.Background(), get("/patients/"))
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RequestsTotal.WithLabelValues("GET", "0")))
}

func TestDo_CanceledContext(t *testing.T) {
	f := newFixture(t, "A1", "R1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.Do(ctx, get("/patients/"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDo_StampsRequestID(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(common.RequestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, session.NewManager(storage.NewMemoryRepository(), logging.Nop()))
	c.newID = func() string { return "req-1" }

	_, err := c.Do(context.Background(), get("/ping/"))
	require.NoError(t, err)

	req := get("/ping/")
	req.Header = http.Header{common.RequestIDHeader: []string{"caller-id"}}
	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"req-1", "caller-id"}, ids)
}

func TestDo_JSONAndRawBodies(t *testing.T) {
	type seen struct{ ctype, body string }
	var got []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, seen{r.Header.Get("Content-Type"), string(b)})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, session.NewManager(storage.NewMemoryRepository(), logging.Nop()))

	_, err := c.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/x/", Body: map[string]int{"a": 1}})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), &Request{
		Method: http.MethodPost, Path: "/x/", Body: []byte("plain text"),
		Header: http.Header{"Content-Type": []string{"text/plain"}},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "application/json", got[0].ctype)
	assert.JSONEq(t, `{"a":1}`, got[0].body)
	assert.Equal(t, seen{"text/plain", "plain text"}, got[1])
}

func TestDo_UploadMergesBodyAndDropsContentType(t *testing.T) {
	var (
		calls  int
		ctype  string
		fields = map[string]string{}
		file   string
		fname  string
	)
	r := mux.NewRouter()
	r.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	r.HandleFunc("/encounters/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctype = r.Header.Get("Content-Type")
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		fh := r.MultipartForm.File["audio_file"][0]
		fname = fh.Filename
		fr, err := fh.Open()
		if !assert.NoError(t, err) {
			return
		}
		b, _ := io.ReadAll(fr)
		file = string(b)
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sess := session.NewManager(storage.NewMemoryRepository(), logging.Nop())
	require.NoError(t, sess.Start(context.Background(), "A1", "R1", nil))
	c := New(srv.URL, sess)

	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/encounters/",
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   map[string]any{"patient": 1, "chief_complaint": "cough", "notes": nil, "vitals": map[string]int{"hr": 80}},
		Upload: &Upload{Field: "audio_file", FileName: "visit.wav", Content: strings.NewReader("RIFF....")},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, calls)

	assert.True(t, strings.HasPrefix(ctype, "multipart/form-data; boundary="), ctype)
	assert.Equal(t, "visit.wav", fname)
	assert.Equal(t, "RIFF....", file, "upload body is replayed on retry")
	assert.Equal(t, map[string]string{
		"patient":         "1",
		"chief_complaint": "cough",
		"vitals":          `{"hr":80}`,
	}, fields)
}

func TestDo_UploadRejectsNonObjectBody(t *testing.T) {
	c := New("http://127.0.0.1:1", session.NewManager(storage.NewMemoryRepository(), logging.Nop()))
	_, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost, Path: "/x/", Body: []int{1, 2},
		Upload: &Upload{Field: "f", FileName: "a", Content: strings.NewReader("x")},
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name, base, path, want string
		q                      map[string][]string
	}{
		{name: "joins slashes", base: "http://h/api/", path: "/patients/", want: "http://h/api/patients/"},
		{name: "no leading slash", base: "http://h/api", path: "patients/", want: "http://h/api/patients/"},
		{name: "query", base: "http://h/api", path: "/encounters/", q: map[string][]string{"page": {"2"}}, want: "http://h/api/encounters/?page=2"},
		{name: "absolute path", base: "http://h/api", path: "https://other/x?a=1", q: map[string][]string{"b": {"2"}}, want: "https://other/x?a=1&b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(tt.base, tt.path, tt.q))
		})
	}
}
