package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// EncountersState is a copy of the encounters slice, pagination included.
type EncountersState struct {
	Encounters []models.Encounter
	Current    *models.Encounter
	Total      int
	Page       int
	PageSize   int
	Status
}

// Encounters tracks a page of encounters and the selected encounter.
// Page and page size are client-side settings; fetches do not change them.
type Encounters struct {
	base
	svc      services.EncounterService
	list     Collection[models.Encounter]
	current  *models.Encounter
	page     int
	pageSize int
}

func newEncounters(svc services.EncounterService, n Notifier, l logging.Logger) *Encounters {
	return &Encounters{
		base:     newBase("encounters", n, l),
		svc:      svc,
		page:     services.DefaultPage,
		pageSize: services.DefaultPageSize,
	}
}

// State returns a copy safe to read without locking.
func (e *Encounters) State() EncountersState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EncountersState{
		Encounters: e.list.Items(),
		Current:    clone(e.current),
		Total:      e.list.Total(),
		Page:       e.page,
		PageSize:   e.pageSize,
		Status:     e.status,
	}
}

// SetPage and SetPageSize only record view state; the caller fetches.
func (e *Encounters) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.mu.Lock()
	e.page = page
	e.mu.Unlock()
}

func (e *Encounters) SetPageSize(size int) {
	if size < 1 {
		size = services.DefaultPageSize
	}
	e.mu.Lock()
	e.pageSize = size
	e.mu.Unlock()
}

// Query builds a list query from the current pagination.
func (e *Encounters) Query(search string) models.EncounterQuery {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.EncounterQuery{Page: e.page, PageSize: e.pageSize, Search: search}
}

// Fetch replaces the list and total with one page from the server.
func (e *Encounters) Fetch(ctx context.Context, q models.EncounterQuery) Result[*models.Page[models.Encounter]] {
	return action(ctx, &e.base, op[*models.Page[models.Encounter]]{
		name:     "fetch",
		fallback: "Failed to fetch encounters",
		list:     true,
		call: func(ctx context.Context) (*models.Page[models.Encounter], error) {
			return e.svc.List(ctx, q)
		},
		apply: func(pg *models.Page[models.Encounter]) { e.list.Replace(pg.Results, pg.Count) },
	})
}

func (e *Encounters) FetchByID(ctx context.Context, id int64) Result[*models.Encounter] {
	return action(ctx, &e.base, op[*models.Encounter]{
		name:     "fetch_by_id",
		fallback: "Failed to fetch encounter",
		call: func(ctx context.Context) (*models.Encounter, error) {
			return e.svc.Get(ctx, id)
		},
		apply: func(v *models.Encounter) { e.current = clone(v) },
	})
}

// Create uploads a new encounter and prepends it to the list.
func (e *Encounters) Create(ctx context.Context, in models.NewEncounter) Result[*models.Encounter] {
	return action(ctx, &e.base, op[*models.Encounter]{
		name:     "create",
		fallback: "Failed to create encounter",
		success:  "Encounter created successfully",
		call: func(ctx context.Context) (*models.Encounter, error) {
			return e.svc.Create(ctx, in)
		},
		apply: func(v *models.Encounter) { e.list.Prepend(*v) },
	})
}

func (e *Encounters) Update(ctx context.Context, id int64, patch models.EncounterPatch) Result[*models.Encounter] {
	return e.replace(ctx, "update", "Failed to update encounter", "Encounter updated successfully",
		func(ctx context.Context) (*models.Encounter, error) { return e.svc.Update(ctx, id, patch) })
}

func (e *Encounters) Process(ctx context.Context, id int64) Result[*models.Encounter] {
	return e.replace(ctx, "process", "Failed to process audio", "Audio processing started",
		func(ctx context.Context) (*models.Encounter, error) { return e.svc.Process(ctx, id) })
}

func (e *Encounters) GenerateSOAP(ctx context.Context, id int64) Result[*models.Encounter] {
	return e.replace(ctx, "generate_soap", "Failed to generate SOAP note", "SOAP note generated",
		func(ctx context.Context) (*models.Encounter, error) { return e.svc.GenerateSOAP(ctx, id) })
}

func (e *Encounters) UpdateTranscription(ctx context.Context, id int64, text string) Result[*models.Encounter] {
	return e.replace(ctx, "update_transcription", "Failed to update transcription", "Transcription updated",
		func(ctx context.Context) (*models.Encounter, error) { return e.svc.UpdateTranscription(ctx, id, text) })
}

// replace runs an action whose answer is the new state of one encounter.
func (e *Encounters) replace(ctx context.Context, name, fallback, success string,
	call func(ctx context.Context) (*models.Encounter, error)) Result[*models.Encounter] {
	return action(ctx, &e.base, op[*models.Encounter]{
		name:     name,
		fallback: fallback,
		success:  success,
		call:     call,
		apply: func(v *models.Encounter) {
			e.list.Update(*v)
			if e.current != nil && e.current.ID == v.ID {
				e.current = clone(v)
			}
		},
	})
}

// Delete removes id from the list. The total drops only when id was listed.
func (e *Encounters) Delete(ctx context.Context, id int64) Result[int64] {
	return action(ctx, &e.base, op[int64]{
		name:     "delete",
		fallback: "Failed to delete encounter",
		success:  "Encounter deleted successfully",
		call: func(ctx context.Context) (int64, error) {
			return id, e.svc.Delete(ctx, id)
		},
		apply: func(id int64) { e.list.Remove(id) },
	})
}

func (e *Encounters) ClearCurrent() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}
