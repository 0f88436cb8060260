package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

// PatientService maps the /patients/ endpoints.
type PatientService interface {
	List(ctx context.Context, search string) (*models.Page[models.Patient], error)
	Get(ctx context.Context, id int64) (*models.Patient, error)
	Create(ctx context.Context, in models.PatientInput) (*models.Patient, error)
	Update(ctx context.Context, id int64, patch models.PatientPatch) (*models.Patient, error)
	Delete(ctx context.Context, id int64) error
	Encounters(ctx context.Context, id int64) ([]models.Encounter, error)
	Search(ctx context.Context, q string) (*models.Page[models.Patient], error)
	Export(ctx context.Context, id int64) (*models.Artifact, error)
}

type patientService struct {
	d Doer
}

// NewPatientService returns a PatientService over d.
func NewPatientService(d Doer) PatientService {
	return &patientService{d: d}
}

func (s *patientService) List(ctx context.Context, search string) (*models.Page[models.Patient], error) {
	q := url.Values{}
	setIfNotEmpty(q, "search", search)
	return call[models.Page[models.Patient]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/patients/", Query: q})
}

func (s *patientService) Get(ctx context.Context, id int64) (*models.Patient, error) {
	return call[models.Patient](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/patients/%d/", id)})
}

func (s *patientService) Create(ctx context.Context, in models.PatientInput) (*models.Patient, error) {
	return call[models.Patient](ctx, s.d, &api.Request{Method: http.MethodPost, Path: "/patients/", Body: in})
}

func (s *patientService) Update(ctx context.Context, id int64, patch models.PatientPatch) (*models.Patient, error) {
	return call[models.Patient](ctx, s.d, &api.Request{Method: http.MethodPatch, Path: idPath("/patients/%d/", id), Body: patch})
}

func (s *patientService) Delete(ctx context.Context, id int64) error {
	return exec(ctx, s.d, &api.Request{Method: http.MethodDelete, Path: idPath("/patients/%d/", id)})
}

func (s *patientService) Encounters(ctx context.Context, id int64) ([]models.Encounter, error) {
	l, err := call[models.List[models.Encounter]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/patients/%d/encounters/", id)})
	if err != nil {
		return nil, err
	}
	return *l, nil
}

func (s *patientService) Search(ctx context.Context, q string) (*models.Page[models.Patient], error) {
	return call[models.Page[models.Patient]](ctx, s.d, &api.Request{
		Method: http.MethodGet,
		Path:   "/patients/search/",
		Query:  url.Values{"q": {q}},
	})
}

func (s *patientService) Export(ctx context.Context, id int64) (*models.Artifact, error) {
	return download(ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/patients/%d/export/", id)},
		fmt.Sprintf("patient-%d.json", id))
}
