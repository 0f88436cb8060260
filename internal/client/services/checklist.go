package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

// ChecklistService maps the /checklist/ template and item endpoints.
type ChecklistService interface {
	Templates(ctx context.Context) ([]models.ChecklistTemplate, error)
	Template(ctx context.Context, id int64) (*models.ChecklistTemplate, error)
	CreateTemplate(ctx context.Context, in models.TemplateInput) (*models.ChecklistTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, patch models.TemplatePatch) (*models.ChecklistTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
	Duplicate(ctx context.Context, id int64) (*models.ChecklistTemplate, error)
	Items(ctx context.Context, templateID int64) ([]models.ChecklistItem, error)
	CreateItem(ctx context.Context, templateID int64, in models.ItemInput) (*models.ChecklistItem, error)
	UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.ChecklistItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

type checklistService struct {
	d Doer
}

func NewChecklistService(d Doer) ChecklistService {
	return &checklistService{d: d}
}

func (s *checklistService) Templates(ctx context.Context) ([]models.ChecklistTemplate, error) {
	l, err := call[models.List[models.ChecklistTemplate]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/checklist/templates/"})
	if err != nil {
		return nil, err
	}
	return *l, nil
}

func (s *checklistService) Template(ctx context.Context, id int64) (*models.ChecklistTemplate, error) {
	return call[models.ChecklistTemplate](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/checklist/templates/%d/", id)})
}

func (s *checklistService) CreateTemplate(ctx context.Context, in models.TemplateInput) (*models.ChecklistTemplate, error) {
	return call[models.ChecklistTemplate](ctx, s.d, &api.Request{Method: http.MethodPost, Path: "/checklist/templates/", Body: in})
}

func (s *checklistService) UpdateTemplate(ctx context.Context, id int64, patch models.TemplatePatch) (*models.ChecklistTemplate, error) {
	return call[models.ChecklistTemplate](ctx, s.d, &api.Request{Method: http.MethodPatch, Path: idPath("/checklist/templates/%d/", id), Body: patch})
}

func (s *checklistService) DeleteTemplate(ctx context.Context, id int64) error {
	return exec(ctx, s.d, &api.Request{Method: http.MethodDelete, Path: idPath("/checklist/templates/%d/", id)})
}

func (s *checklistService) Duplicate(ctx context.Context, id int64) (*models.ChecklistTemplate, error) {
	return call[models.ChecklistTemplate](ctx, s.d, &api.Request{Method: http.MethodPost, Path: idPath("/checklist/templates/%d/duplicate/", id)})
}

func (s *checklistService) Items(ctx context.Context, templateID int64) ([]models.ChecklistItem, error) {
	l, err := call[models.List[models.ChecklistItem]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: idPath("/checklist/templates/%d/items/", templateID)})
	if err != nil {
		return nil, err
	}
	return *l, nil
}

func (s *checklistService) CreateItem(ctx context.Context, templateID int64, in models.ItemInput) (*models.ChecklistItem, error) {
	return call[models.ChecklistItem](ctx, s.d, &api.Request{Method: http.MethodPost, Path: idPath("/checklist/templates/%d/items/", templateID), Body: in})
}

func (s *checklistService) UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.ChecklistItem, error) {
	return call[models.ChecklistItem](ctx, s.d, &api.Request{Method: http.MethodPatch, Path: idPath("/checklist/items/%d/", id), Body: patch})
}

func (s *checklistService) DeleteItem(ctx context.Context, id int64) error {
	return exec(ctx, s.d, &api.Request{Method: http.MethodDelete, Path: idPath("/checklist/items/%d/", id)})
}
