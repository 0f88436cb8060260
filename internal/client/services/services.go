// Package services maps MedScribe API operations onto typed Go calls.
//
// Every method issues exactly one request through a Doer (normally
// *api.Client) and decodes the answer into a models type. Services keep no
// state: session bookkeeping lives in the store and session packages.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// Doer sends one API request.
type Doer interface {
	Do(ctx context.Context, req *api.Request) (*api.Response, error)
}

// Services bundles one instance of every domain service.
type Services struct {
	Auth       AuthService
	Patients   PatientService
	Encounters EncounterService
	Checklist  ChecklistService
	Analytics  AnalyticsService
}

// New builds every domain service over d.
func New(d Doer) *Services {
	return &Services{
		Auth:       NewAuthService(d),
		Patients:   NewPatientService(d),
		Encounters: NewEncounterService(d),
		Checklist:  NewChecklistService(d),
		Analytics:  NewAnalyticsService(d),
	}
}

// call sends req and decodes the JSON answer into a fresh T.
func call[T any](ctx context.Context, d Doer, req *api.Request) (*T, error) {
	resp, err := d.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := api.DecodeJSON(resp, req.Path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// exec sends req and discards the body.
func exec(ctx context.Context, d Doer, req *api.Request) error {
	_, err := d.Do(ctx, req)
	return err
}

func download(ctx context.Context, d Doer, req *api.Request, fallback string) (*models.Artifact, error) {
	req.Header = map[string][]string{"Accept": {"*/*"}}
	resp, err := d.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Artifact(fallback), nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func invalidParam(name string, v any) error {
	return fmt.Errorf("%w: unsupported %s %q", common.ErrorValidation, name, v)
}

func setIfNotEmpty(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
