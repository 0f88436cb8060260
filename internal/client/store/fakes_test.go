package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
)

// recorder collects notifications.
type recorder struct {
	mu   sync.Mutex
	msgs []note
}

type note struct {
	level Level
	msg   string
}

func (r *recorder) Notify(_ context.Context, level Level, msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, note{level, msg})
	r.mu.Unlock()
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.msgs...)
}

// Unimplemented methods come from the embedded nil interface and panic if
// a test reaches them.
type fakePatients struct {
	services.PatientService

	listFn   func(ctx context.Context, search string) (*models.Page[models.Patient], error)
	createFn func(ctx context.Context, in models.PatientInput) (*models.Patient, error)
	updateFn func(ctx context.Context, id int64, p models.PatientPatch) (*models.Patient, error)
	getFn    func(ctx context.Context, id int64) (*models.Patient, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakePatients) List(ctx context.Context, search string) (*models.Page[models.Patient], error) {
	return f.listFn(ctx, search)
}
func (f *fakePatients) Get(ctx context.Context, id int64) (*models.Patient, error) {
	return f.getFn(ctx, id)
}
func (f *fakePatients) Create(ctx context.Context, in models.PatientInput) (*models.Patient, error) {
	return f.createFn(ctx, in)
}
func (f *fakePatients) Update(ctx context.Context, id int64, p models.PatientPatch) (*models.Patient, error) {
	return f.updateFn(ctx, id, p)
}
func (f *fakePatients) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeEncounters struct {
	services.EncounterService

	listFn    func(ctx context.Context, q models.EncounterQuery) (*models.Page[models.Encounter], error)
	processFn func(ctx context.Context, id int64) (*models.Encounter, error)
	createFn  func(ctx context.Context, in models.NewEncounter) (*models.Encounter, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (f *fakeEncounters) Create(ctx context.Context, in models.NewEncounter) (*models.Encounter, error) {
	return f.createFn(ctx, in)
}
func (f *fakeEncounters) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeEncounters) List(ctx context.Context, q models.EncounterQuery) (*models.Page[models.Encounter], error) {
	return f.listFn(ctx, q)
}
func (f *fakeEncounters) Process(ctx context.Context, id int64) (*models.Encounter, error) {
	return f.processFn(ctx, id)
}

type fakeChecklist struct {
	services.ChecklistService

	templatesFn  func(ctx context.Context) ([]models.ChecklistTemplate, error)
	templateFn   func(ctx context.Context, id int64) (*models.ChecklistTemplate, error)
	createFn     func(ctx context.Context, in models.TemplateInput) (*models.ChecklistTemplate, error)
	updateItemFn func(ctx context.Context, id int64, p models.ItemPatch) (*models.ChecklistItem, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (f *fakeChecklist) DeleteTemplate(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeChecklist) Templates(ctx context.Context) ([]models.ChecklistTemplate, error) {
	return f.templatesFn(ctx)
}
func (f *fakeChecklist) Template(ctx context.Context, id int64) (*models.ChecklistTemplate, error) {
	return f.templateFn(ctx, id)
}
func (f *fakeChecklist) CreateTemplate(ctx context.Context, in models.TemplateInput) (*models.ChecklistTemplate, error) {
	return f.createFn(ctx, in)
}
func (f *fakeChecklist) UpdateItem(ctx context.Context, id int64, p models.ItemPatch) (*models.ChecklistItem, error) {
	return f.updateItemFn(ctx, id, p)
}

type fakeAnalytics struct {
	services.AnalyticsService

	dashboardFn func(ctx context.Context, r models.DateRange) (*models.Dashboard, error)
}

func (f *fakeAnalytics) Dashboard(ctx context.Context, r models.DateRange) (*models.Dashboard, error) {
	return f.dashboardFn(ctx, r)
}

func patient(id int64, first string) models.Patient {
	return models.Patient{ID: id, FirstName: first, LastName: "Doe"}
}

func encounter(id int64) models.Encounter {
	return models.Encounter{ID: id, Patient: 1, Status: models.EncounterPending}
}
