package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	// AudioField is the multipart field carrying the recording.
	AudioField = "audio_file"
)

// EncounterService maps the /encounters/ endpoints, including audio upload
// and SOAP note downloads.
type EncounterService interface {
	List(ctx context.Context, q models.EncounterQuery) (*models.Page[models.Encounter], error)
	Get(ctx context.Context, id int64) (*models.Encounter, error)
	Create(ctx context.Context, in models.NewEncounter) (*models.Encounter, error)
	Update(ctx context.Context, id int64, patch models.EncounterPatch) (*models.Encounter, error)
	Delete(ctx context.Context, id int64) error
	Process(ctx context.Context, id int64) (*models.Encounter, error)
	GenerateSOAP(ctx context.Context, id int64) (*models.Encounter, error)
	Download(ctx context.Context, id int64, format models.DocumentFormat) (*models.Artifact, error)
	Transcription(ctx context.Context, id int64) (*models.Transcription, error)
	UpdateTranscription(ctx context.Context, id int64, text string) (*models.Encounter, error)
	Search(ctx context.Context, q string) (*models.Page[models.Encounter], error)
}

type encounterService struct {
	d Doer
}

// NewEncounterService returns an EncounterService over d.
func NewEncounterService(d Doer) EncounterService {
	return &encounterService{d: d}
}

// List fetches one page. Zero Page or PageSize fall back to 1 and 10.
func (s *encounterService) List(ctx context.Context, eq models.EncounterQuery) (*models.Page[models.Encounter], error) {
	page, size := eq.Page, eq.PageSize
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	q := url.Values{"page": {itoa(page)}, "page_size": {itoa(size)}}
	setIfNotEmpty(q, "search", eq.Search)
	return call[models.Page[models.Encounter]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/encounters/", Query: q})
}

func (s *encounterService) Get(ctx context.Context, id int64) (*models.Encounter, error) {
	return call[models.Encounter](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/encounters/%d/", id)})
}

// Create uploads the recording as multipart form data. Without audio the
// fields are sent as plain JSON.
func (s *encounterService) Create(ctx context.Context, in models.NewEncounter) (*models.Encounter, error) {
	fields := map[string]any{"patient": in.PatientID}
	if in.ChiefComplaint != "" {
		fields["chief_complaint"] = in.ChiefComplaint
	}
	if in.Notes != "" {
		fields["notes"] = in.Notes
	}

	// Always multipart; the audio part is omitted when there is no recording.
	up := &api.Upload{Field: AudioField}
	if in.Audio != nil {
		up.FileName = in.AudioFileName
		if up.FileName == "" {
			up.FileName = "recording.wav"
		}
		up.Content = in.Audio
	}
	return call[models.Encounter](ctx, s.d, &api.Request{Method: http.MethodPost, Path: "/encounters/", Body: fields, Upload: up})
}

func (s *encounterService) Update(ctx context.Context, id int64, patch models.EncounterPatch) (*models.Encounter, error) {
	return call[models.Encounter](ctx, s.d, &api.Request{Method: http.MethodPatch, Path: idPath("/encounters/%d/", id), Body: patch})
}

func (s *encounterService) Delete(ctx context.Context, id int64) error {
	return exec(ctx, s.d, &api.Request{Method: http.MethodDelete, Path: idPath("/encounters/%d/", id)})
}

func (s *encounterService) Process(ctx context.Context, id int64) (*models.Encounter, error) {
	return call[models.Encounter](ctx, s.d, &api.Request{Method: http.MethodPost, Path: idPath("/encounters/%d/process/", id)})
}

func (s *encounterService) GenerateSOAP(ctx context.Context, id int64) (*models.Encounter, error) {
	return call[models.Encounter](ctx, s.d, &api.Request{Method: http.MethodPost, Path: idPath("/encounters/%d/generate-soap/", id)})
}

func (s *encounterService) Download(ctx context.Context, id int64, format models.DocumentFormat) (*models.Artifact, error) {
	if format == "" {
		format = models.DocumentPDF
	}
	if !format.Valid() {
		return nil, invalidParam("format", format)
	}
	return download(ctx, s.d, &api.Request{
		Method: http.MethodGet,
		Path:   idPath("/encounters/%d/download/", id),
		Query:  url.Values{"format": {string(format)}},
	}, fmt.Sprintf("soap-note-%d.%s", id, format))
}

func (s *encounterService) Transcription(ctx context.Context, id int64) (*models.Transcription, error) {
	return call[models.Transcription](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/encounters/%d/transcription/", id)})
}

func (s *encounterService) UpdateTranscription(ctx context.Context, id int64, text string) (*models.Encounter, error) {
	return call[models.Encounter](ctx, s.d, &api.Request{
		Method: http.MethodPatch,
		Path:   idPath("/encounters/%d/transcription/", id),
		Body:   models.Transcription{Transcription: text},
	})
}

func (s *encounterService) Search(ctx context.Context, q string) (*models.Page[models.Encounter], error) {
	return call[models.Page[models.Encounter]](ctx, s.d, &api.Request{
		Method: http.MethodGet,
		Path:   "/encounters/search/",
		Query:  url.Values{"q": {q}},
	})
}
