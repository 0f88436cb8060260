package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

// DefaultComplaintLimit caps the chief-complaint ranking.
const DefaultComplaintLimit = 10

// AnalyticsService maps the read-only /analytics/ endpoints and the export.
type AnalyticsService interface {
	Dashboard(ctx context.Context, r models.DateRange) (*models.Dashboard, error)
	Encounters(ctx context.Context, r models.DateRange, groupBy models.GroupBy) (*models.EncounterStats, error)
	Patients(ctx context.Context) (*models.PatientStats, error)
	Processing(ctx context.Context) (*models.ProcessingStats, error)
	ChiefComplaints(ctx context.Context, limit int) ([]models.ComplaintCount, error)
	UserActivity(ctx context.Context) ([]models.UserActivity, error)
	Export(ctx context.Context, r models.DateRange, format models.ExportFormat) (*models.Artifact, error)
}

type analyticsService struct {
	d Doer
}

func NewAnalyticsService(d Doer) AnalyticsService {
	return &analyticsService{d: d}
}

func rangeQuery(r models.DateRange) url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "startDate", r.StartDate)
	setIfNotEmpty(q, "endDate", r.EndDate)
	return q
}

func (s *analyticsService) Dashboard(ctx context.Context, r models.DateRange) (*models.Dashboard, error) {
	return call[models.Dashboard](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/dashboard/", Query: rangeQuery(r)})
}

func (s *analyticsService) Encounters(ctx context.Context, r models.DateRange, groupBy models.GroupBy) (*models.EncounterStats, error) {
	q := rangeQuery(r)
	if groupBy != "" {
		if !groupBy.Valid() {
			return nil, invalidParam("groupBy", groupBy)
		}
		q.Set("groupBy", string(groupBy))
	}
	return call[models.EncounterStats](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/encounters/", Query: q})
}

func (s *analyticsService) Patients(ctx context.Context) (*models.PatientStats, error) {
	return call[models.PatientStats](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/patients/"})
}

func (s *analyticsService) Processing(ctx context.Context) (*models.ProcessingStats, error) {
	return call[models.ProcessingStats](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/processing/"})
}

func (s *analyticsService) ChiefComplaints(ctx context.Context, limit int) ([]models.ComplaintCount, error) {
	if limit <= 0 {
		limit = DefaultComplaintLimit
	}
	l, err := call[models.List[models.ComplaintCount]](ctx, s.d, &api.Request{
		Method: http.MethodGet,
		Path:   "/analytics/chief-complaints/",
		Query:  url.Values{"limit": {itoa(limit)}},
	})
	if err != nil {
		return nil, err
	}
	return *l, nil
}

func (s *analyticsService) UserActivity(ctx context.Context) ([]models.UserActivity, error) {
	l, err := call[models.List[models.UserActivity]](ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/user-activity/"})
	if err != nil {
		return nil, err
	}
	return *l, nil
}

func (s *analyticsService) Export(ctx context.Context, r models.DateRange, format models.ExportFormat) (*models.Artifact, error) {
	if !format.Valid() {
		return nil, invalidParam("format", format)
	}
	q := rangeQuery(r)
	q.Set("format", string(format))
	return download(ctx, s.d, &api.Request{Method: http.MethodGet, Path: "/analytics/export/", Query: q},
		fmt.Sprintf("analytics.%s", format))
}
