package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// AnalyticsState holds the last dashboard and its status.
type AnalyticsState struct {
	Data *models.Dashboard
	Status
}

// Analytics caches the dashboard. Its failures are not announced.
type Analytics struct {
	base
	svc  services.AnalyticsService
	data *models.Dashboard
}

func newAnalytics(svc services.AnalyticsService, n Notifier, l logging.Logger) *Analytics {
	return &Analytics{base: newBase("analytics", n, l), svc: svc}
}

func (a *Analytics) State() AnalyticsState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AnalyticsState{Data: clone(a.data), Status: a.status}
}

// Fetch loads the dashboard. Failures are recorded but not announced.
func (a *Analytics) Fetch(ctx context.Context, r models.DateRange) Result[*models.Dashboard] {
	return action(ctx, &a.base, op[*models.Dashboard]{
		name:     "fetch",
		fallback: "Failed to fetch analytics",
		list:     true,
		quiet:    true,
		call: func(ctx context.Context) (*models.Dashboard, error) {
			return a.svc.Dashboard(ctx, r)
		},
		apply: func(d *models.Dashboard) { a.data = clone(d) },
	})
}
