package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/export"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

func dateRange(args []string) models.DateRange {
	var r models.DateRange
	if len(args) > 0 {
		r.StartDate = args[0]
	}
	if len(args) > 1 {
		r.EndDate = args[1]
	}
	return r
}

func (a *App) Analytics(ctx context.Context, args []string) error {
	r := a.store.Analytics.Fetch(ctx, dateRange(args))
	if r.Err != nil {
		// The dashboard fetch is quiet; report here instead.
		return fmt.Errorf("%s: %w", a.store.Analytics.State().Error, r.Err)
	}
	d, ok := value(r)
	if !ok || d == nil {
		return nil
	}

	a.table("METRIC\tVALUE", [][]string{
		{"patients", fmt.Sprint(d.TotalPatients)},
		{"encounters", fmt.Sprint(d.TotalEncounters)},
		{"today", fmt.Sprint(d.EncountersToday)},
		{"this week", fmt.Sprint(d.EncountersThisWeek)},
		{"this month", fmt.Sprint(d.EncountersThisMonth)},
		{"avg processing (s)", fmt.Sprintf("%.1f", d.AverageProcessingTime)},
	})
	s := d.EncountersByStatus
	fmt.Fprintf(a.out, "status: pending %d, processing %d, completed %d, failed %d\n",
		s.Pending, s.Processing, s.Completed, s.Failed)
	if len(d.MostCommonComplaints) > 0 {
		fmt.Fprintln(a.out, "Most common complaints:")
		for _, c := range d.MostCommonComplaints {
			fmt.Fprintf(a.out, "  %-30s %d\n", c.Complaint, c.Count)
		}
	}
	return nil
}

func (a *App) ExportAnalytics(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("analytics-export <csv|xlsx|pdf> [start-date [end-date]]")
	}
	format := models.ExportFormat(strings.ToLower(args[0]))
	art, err := a.svc.Analytics.Export(ctx, dateRange(args[1:]), format)
	if err != nil {
		return err
	}
	return a.save(ctx, export.KindAnalytics, art)
}
