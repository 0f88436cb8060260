package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// PatientsState is a copy of the patients slice.
type PatientsState struct {
	Patients []models.Patient
	Current  *models.Patient
	Total    int
	Status
}

// Patients tracks the patient list, its total and the selected patient.
type Patients struct {
	base
	svc     services.PatientService
	list    Collection[models.Patient]
	current *models.Patient
}

func newPatients(svc services.PatientService, n Notifier, l logging.Logger) *Patients {
	return &Patients{base: newBase("patients", n, l), svc: svc}
}

// State returns a copy safe to read without locking.
func (p *Patients) State() PatientsState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PatientsState{
		Patients: p.list.Items(),
		Current:  clone(p.current),
		Total:    p.list.Total(),
		Status:   p.status,
	}
}

// Fetch replaces the list and total with the server's answer for search.
func (p *Patients) Fetch(ctx context.Context, search string) Result[*models.Page[models.Patient]] {
	return action(ctx, &p.base, op[*models.Page[models.Patient]]{
		name:     "fetch",
		fallback: "Failed to fetch patients",
		list:     true,
		call: func(ctx context.Context) (*models.Page[models.Patient], error) {
			return p.svc.List(ctx, search)
		},
		apply: func(pg *models.Page[models.Patient]) { p.list.Replace(pg.Results, pg.Count) },
	})
}

func (p *Patients) FetchByID(ctx context.Context, id int64) Result[*models.Patient] {
	return action(ctx, &p.base, op[*models.Patient]{
		name:     "fetch_by_id",
		fallback: "Failed to fetch patient",
		call: func(ctx context.Context) (*models.Patient, error) {
			return p.svc.Get(ctx, id)
		},
		apply: func(v *models.Patient) { p.current = clone(v) },
	})
}

// Create adds the new patient in front of the list and bumps the total.
func (p *Patients) Create(ctx context.Context, in models.PatientInput) Result[*models.Patient] {
	return action(ctx, &p.base, op[*models.Patient]{
		name:     "create",
		fallback: "Failed to create patient",
		success:  "Patient created successfully",
		call: func(ctx context.Context) (*models.Patient, error) {
			return p.svc.Create(ctx, in)
		},
		apply: func(v *models.Patient) { p.list.Prepend(*v) },
	})
}

func (p *Patients) Update(ctx context.Context, id int64, patch models.PatientPatch) Result[*models.Patient] {
	return action(ctx, &p.base, op[*models.Patient]{
		name:     "update",
		fallback: "Failed to update patient",
		success:  "Patient updated successfully",
		call: func(ctx context.Context) (*models.Patient, error) {
			return p.svc.Update(ctx, id, patch)
		},
		apply: func(v *models.Patient) {
			p.list.Update(*v)
			if p.current != nil && p.current.ID == v.ID {
				p.current = clone(v)
			}
		},
	})
}

// Delete removes id from the list. The total drops only when id was listed.
func (p *Patients) Delete(ctx context.Context, id int64) Result[int64] {
	return action(ctx, &p.base, op[int64]{
		name:     "delete",
		fallback: "Failed to delete patient",
		success:  "Patient deleted successfully",
		call: func(ctx context.Context) (int64, error) {
			return id, p.svc.Delete(ctx, id)
		},
		apply: func(id int64) { p.list.Remove(id) },
	})
}

func (p *Patients) ClearCurrent() {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
