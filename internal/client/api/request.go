package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

// Request describes one call against the API.
//
// Body is JSON-encoded, except that a []byte body is sent verbatim with the
// caller's Content-Type. When Upload is set the request becomes
// multipart/form-data: the file part plus one text part per top-level key
// of Body.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
	Upload *Upload

	// NoRefresh disables the 401 refresh-and-retry protocol.
	NoRefresh bool
	// Anonymous suppresses the bearer token.
	Anonymous bool
}

// Upload turns a request into multipart/form-data. A nil Content sends the
// body's fields without a file part.
type Upload struct {
	Field    string
	FileName string
	Content  io.Reader
}

// Response is a successful (2xx) answer with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Artifact converts a binary response into a downloadable file. fallback is
// used when the server sends no Content-Disposition filename.
func (r *Response) Artifact(fallback string) *models.Artifact {
	name := fallback
	if cd := r.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	return &models.Artifact{
		FileName:    name,
		ContentType: r.Header.Get("Content-Type"),
		Data:        r.Body,
	}
}

// encode renders the request body once so that a retry can resend it.
func (r *Request) encode() ([]byte, string, error) {
	if r.Upload != nil {
		return r.encodeMultipart()
	}

	switch b := r.Body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

func (r *Request) encodeMultipart() ([]byte, string, error) {
	fields, err := formFields(r.Body)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if r.Upload.Content != nil {
		field := r.Upload.Field
		if field == "" {
			field = "file"
		}
		part, err := w.CreateFormFile(field, r.Upload.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, r.Upload.Content); err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// formFields flattens body into form values through its JSON form. Null
// values are skipped; non-string scalars keep their JSON spelling.
func formFields(body any) (map[string]string, error) {
	out := map[string]string{}
	if body == nil {
		return out, nil
	}

	var data []byte
	switch b := body.(type) {
	case []byte:
		data = b
	default:
		var err error
		if data, err = json.Marshal(b); err != nil {
			return nil, fmt.Errorf("encode form fields: %w", err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("form fields must be a JSON object: %w", err)
	}

	for k, v := range obj {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		default:
			enc, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("encode form field %s: %w", k, err)
			}
			out[k] = string(enc)
		}
	}
	return out, nil
}

func resolve(base, path string, q url.Values) string {
	var u string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		u = path
	} else {
		u = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	if len(q) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + q.Encode()
}
