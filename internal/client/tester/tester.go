// Package tester sends ad-hoc requests through the authenticated client and
// reports the raw outcome. It backs the CLI "request" command.
package tester

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// UploadField is the multipart field files are sent under.
const UploadField = "audio_file"

var ErrInvalidHeaders = fmt.Errorf("%w: invalid headers JSON", common.ErrorValidation)

// DefaultHeaders is the header template offered to the user.
const DefaultHeaders = "{\n  \"Content-Type\": \"application/json\"\n}"

type Doer interface {
	Do(ctx context.Context, req *api.Request) (*api.Response, error)
}

type File struct {
	Name    string
	Content io.Reader
}

// Input is one ad-hoc request as typed by the user.
type Input struct {
	Method  string
	Path    string
	Headers string // JSON object
	Body    string
	File    *File
}

// Outcome is what the server answered. Status 0 means no response arrived.
type Outcome struct {
	Status int
	Body   string
}

func (o *Outcome) OK() bool { return o.Status >= 200 && o.Status <= 299 }

// Tester runs ad-hoc requests through the regular client, so they carry
// the session token and take part in refresh.
type Tester struct {
	d Doer
}

func New(d Doer) *Tester {
	return &Tester{d: d}
}

// Run validates the input, sends it and returns the outcome. Only input
// errors are returned as errors; HTTP and transport failures are outcomes.
func (t *Tester) Run(ctx context.Context, in Input) (*Outcome, error) {
	req, err := Build(in)
	if err != nil {
		return nil, err
	}

	resp, err := t.d.Do(ctx, req)
	if err != nil {
		var he *api.HTTPError
		if errors.As(err, &he) {
			return &Outcome{Status: he.StatusCode, Body: pretty(he.Body)}, nil
		}
		b, _ := json.Marshal(map[string]string{"error": err.Error()})
		return &Outcome{Body: pretty(b)}, nil
	}
	return &Outcome{Status: resp.StatusCode, Body: pretty(resp.Body)}, nil
}

// Build turns user input into an API request without sending it.
func Build(in Input) (*api.Request, error) {
	header, err := parseHeaders(in.Headers)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}
	req := &api.Request{Method: method, Path: strings.TrimSpace(in.Path), Header: header}
	if method == http.MethodGet {
		return req, nil
	}

	body := strings.TrimSpace(in.Body)
	switch {
	case in.File != nil:
		req.Upload = &api.Upload{Field: UploadField, FileName: in.File.Name, Content: in.File.Content}
		if isJSONObject(body) {
			req.Body = json.RawMessage(body)
		}
		header.Del("Content-Type")
	case body == "":
	case json.Valid([]byte(body)):
		req.Body = json.RawMessage(body)
	default:
		req.Body = []byte(in.Body)
		if header.Get("Content-Type") == "" || header.Get("Content-Type") == "application/json" {
			header.Set("Content-Type", "text/plain; charset=utf-8")
		}
	}
	return req, nil
}

func parseHeaders(s string) (http.Header, error) {
	h := http.Header{}
	if strings.TrimSpace(s) == "" {
		return h, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil, ErrInvalidHeaders
	}
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			h.Set(k, t)
		case nil:
		default:
			b, _ := json.Marshal(t)
			h.Set(k, string(b))
		}
	}
	return h, nil
}

func isJSONObject(s string) bool {
	var m map[string]any
	return json.Unmarshal([]byte(s), &m) == nil && m != nil
}

func pretty(b []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return string(b)
	}
	return out.String()
}
