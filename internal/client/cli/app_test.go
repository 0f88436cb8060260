package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medscribe/internal/client/config"
	"github.com/dmitrijs2005/medscribe/internal/client/export"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/storage"
	"github.com/dmitrijs2005/medscribe/internal/common"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testApp struct {
	*App
	out  *bytes.Buffer
	repo *storage.MemoryRepository
	dir  string
}

// newTestApp wires an App against a stub backend. Saved tokens, if any,
// are written before the session is loaded.
func newTestApp(t *testing.T, r *mux.Router, input string, tokens map[string]string) *testApp {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	repo := storage.NewMemoryRepository()
	for k, v := range tokens {
		require.NoError(t, repo.Set(context.Background(), k, []byte(v)))
	}

	dir := t.TempDir()
	sink, err := export.NewFileSink(dir)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL + "/api"
	cfg.RequestTimeout = 5 * time.Second

	a, err := build(context.Background(), cfg, repo, sink, logging.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a.out = out
	a.reader = bufio.NewReader(strings.NewReader(input))
	return &testApp{App: a, out: out, repo: repo, dir: dir}
}

func (ta *testApp) run(t *testing.T, line string) error {
	t.Helper()
	parts := strings.Fields(line)
	for _, c := range ta.commands() {
		if c.name == parts[0] {
			return c.run(context.Background(), parts[1:])
		}
	}
	t.Fatalf("no command %q", parts[0])
	return nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func loginRoute(r *mux.Router) {
	r.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, req *http.Request) {
		var c models.Credentials
		_ = json.NewDecoder(req.Body).Decode(&c)
		if c.Username != "admin" || c.Password != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access": "A1", "refresh": "R1",
			"user": map[string]any{"id": 1, "username": "admin"},
		})
	}).Methods(http.MethodPost)
}

var savedSession = map[string]string{common.AccessTokenKey: "A1", common.RefreshTokenKey: "R1"}

func TestLogin(t *testing.T) {
	r := mux.NewRouter()
	loginRoute(r)
	stubPassword(t, "admin123")

	ta := newTestApp(t, r, "admin\n", nil)
	assert.False(t, ta.isLoggedIn())
	assert.Equal(t, "", ta.getStatus())

	require.NoError(t, ta.run(t, "login"))
	assert.Contains(t, ta.out.String(), "[success] Login successful!")
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, " (admin)", ta.getStatus())

	v, err := ta.repo.Get(context.Background(), common.RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "R1", string(v))
}

func TestLogin_WrongPassword(t *testing.T) {
	r := mux.NewRouter()
	loginRoute(r)
	stubPassword(t, "nope")

	ta := newTestApp(t, r, "", nil)
	require.NoError(t, ta.run(t, "login admin"))
	assert.Contains(t, ta.out.String(), "[error] No active account found with the given credentials")
	assert.False(t, ta.isLoggedIn())
}

func TestSavedSessionIsRestored(t *testing.T) {
	ta := newTestApp(t, mux.NewRouter(), "", savedSession)
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, " (authenticated)", ta.getStatus())
}

func TestPatients(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/patients/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer A1", req.Header.Get("Authorization"))
		assert.Equal(t, "Doe", req.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, map[string]any{
			"count": 2,
			"results": []map[string]any{
				{"id": 1, "first_name": "John", "last_name": "Doe", "date_of_birth": "1990-01-01", "gender": "male"},
				{"id": 2, "first_name": "Jane", "last_name": "Doe", "date_of_birth": "1992-02-02", "gender": "female"},
			},
		})
	}).Methods(http.MethodGet)

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "patients Doe"))

	out := ta.out.String()
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "2 of 2 patients")
}

func TestHardLogoutDropsToAnonymousCommands(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/patients/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})
	r.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted"})
	})

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "patients"))

	assert.Contains(t, ta.out.String(), "[error] Session expired. Please log in again.")
	assert.False(t, ta.isLoggedIn())
	v, err := ta.repo.Get(context.Background(), common.AccessTokenKey)
	require.NoError(t, err)
	assert.Nil(t, v)

	lines := capturePrintln(t)
	runREPL(context.Background(), ta.App, ta.getStatus, bufio.NewReader(strings.NewReader("patients\n")))
	assert.Contains(t, strings.Join(*lines, "\n"), "Please log in first")
}

func TestDownloadSavesToSink(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/encounters/3/download/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "docx", req.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		_, _ = w.Write([]byte("DOCX"))
	}).Methods(http.MethodGet)

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "download 3 docx"))
	assert.Contains(t, ta.out.String(), "Saved soap-note-3.docx (4 bytes)")

	matches, err := filepath.Glob(filepath.Join(ta.dir, export.KindSOAP, "*", "*", "*", "*.docx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "DOCX", string(data))
}

func TestDownload_InvalidFormatMakesNoCall(t *testing.T) {
	ta := newTestApp(t, mux.NewRouter(), "", savedSession)
	err := ta.run(t, "download 3 txt")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestEditPatient(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/patients/5/", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		assert.Equal(t, map[string]any{"phone": "555-0100", "gender": "other"}, body)
		writeJSON(w, http.StatusOK, map[string]any{"id": 5, "first_name": "Sam", "last_name": "Roe", "gender": "other", "phone": "555-0100"})
	}).Methods(http.MethodPatch)

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "patient-edit 5 phone=555-0100 gender=other"))
	assert.Contains(t, ta.out.String(), "[success] Patient updated successfully")
	assert.Contains(t, ta.out.String(), "555-0100")

	require.ErrorIs(t, ta.run(t, "patient-edit 5 shoe=9"), common.ErrorValidation)
	require.ErrorIs(t, ta.run(t, "patient-edit 5"), common.ErrorValidation)
	require.ErrorIs(t, ta.run(t, "patient-edit x phone=1"), common.ErrorValidation)
}

func TestUploadCreatesEncounter(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/encounters/", func(w http.ResponseWriter, req *http.Request) {
		if !assert.NoError(t, req.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "7", req.FormValue("patient"))
		assert.Equal(t, "chest pain", req.FormValue("chief_complaint"))
		f, hdr, err := req.FormFile("audio_file")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "visit.wav", hdr.Filename)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "patient": 7, "status": "pending"})
	}).Methods(http.MethodPost)

	ta := newTestApp(t, r, "", savedSession)
	audio := filepath.Join(t.TempDir(), "visit.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o600))

	require.NoError(t, ta.run(t, "upload 7 "+audio+" chest pain"))
	assert.Contains(t, ta.out.String(), "Created encounter #11 (pending)")
	assert.Equal(t, 1, ta.store.Encounters.State().Total)
}

func TestEncountersPagination(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/encounters/", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "5", q.Get("page_size"))
		assert.Equal(t, "cough", q.Get("search"))
		writeJSON(w, http.StatusOK, map[string]any{"count": 12, "results": []map[string]any{
			{"id": 11, "patient": 1, "status": "completed", "chief_complaint": "cough"},
		}})
	}).Methods(http.MethodGet)

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "encounters page=3 size=5 cough"))
	assert.Contains(t, ta.out.String(), "page 3 of 3, 12 encounters")

	require.ErrorIs(t, ta.run(t, "encounters page=x"), common.ErrorValidation)
}

func TestRequestCommand(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/patients/", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		assert.Equal(t, "John", body["first_name"])
		writeJSON(w, http.StatusBadRequest, map[string]any{"gender": []string{"required"}})
	}).Methods(http.MethodPost)

	// headers: default, body: empty (template), file: none
	ta := newTestApp(t, r, "\n\n\n", savedSession)
	require.NoError(t, ta.run(t, "request post /patients/"))

	out := ta.out.String()
	assert.Contains(t, out, "Status: 400 Bad Request")
	assert.Contains(t, out, `"gender": [`)
}

func TestRequestCommand_InvalidHeaders(t *testing.T) {
	ta := newTestApp(t, mux.NewRouter(), "not json\n", savedSession)
	err := ta.run(t, "request GET /patients/")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestWhoAmI(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/user/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "admin", "email": "admin@example.org", "is_staff": true})
	}).Methods(http.MethodGet)

	ta := newTestApp(t, r, "", map[string]string{common.AccessTokenKey: signed, common.RefreshTokenKey: "R1"})
	require.NoError(t, ta.run(t, "whoami"))

	out := ta.out.String()
	assert.Contains(t, out, "admin <admin@example.org> id=1 [staff]")
	assert.Contains(t, out, "access token expires in")
}

func TestMetricsCommand(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/checklist/templates/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Intake", "items": []any{}}})
	}).Methods(http.MethodGet)

	ta := newTestApp(t, r, "", savedSession)
	require.NoError(t, ta.run(t, "templates"))
	assert.Contains(t, ta.out.String(), "Intake")

	ta.out.Reset()
	require.NoError(t, ta.run(t, "metrics"))
	assert.Contains(t, ta.out.String(), `medscribe_api_requests_total{method="GET",status="200"} 1`)
}

func TestAssignments(t *testing.T) {
	kv, err := assignments([]string{"a=1", "b=", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "", "c": "x=y"}, kv)

	_, err = assignments([]string{"=1"})
	require.ErrorIs(t, err, common.ErrorValidation)
	_, err = assignments([]string{"novalue"})
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestHelpListsEveryCommandOnce(t *testing.T) {
	a := &App{}
	seen := map[string]bool{}
	for _, c := range a.commands() {
		assert.False(t, seen[c.name], c.name)
		seen[c.name] = true
		assert.True(t, strings.HasPrefix(c.usage, c.name), c.name)
	}
	anon := helpText(a.commands(), false)
	assert.NotContains(t, anon, "patients")
	assert.Contains(t, anon, "login [username]")
}
