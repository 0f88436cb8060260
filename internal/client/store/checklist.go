package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// ChecklistState is a copy of the checklist slice.
type ChecklistState struct {
	Templates []models.ChecklistTemplate
	Total     int
	Current   *models.ChecklistTemplate
	// Items belong to Current.
	Items []models.ChecklistItem
	Status
}

// Checklist tracks templates, the selected template and its items.
type Checklist struct {
	base
	svc       services.ChecklistService
	templates Collection[models.ChecklistTemplate]
	current   *models.ChecklistTemplate
	items     Collection[models.ChecklistItem]
}

func newChecklist(svc services.ChecklistService, n Notifier, l logging.Logger) *Checklist {
	return &Checklist{base: newBase("checklist", n, l), svc: svc}
}

// State returns a copy safe to read without locking.
func (c *Checklist) State() ChecklistState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ChecklistState{
		Templates: c.templates.Items(),
		Total:     c.templates.Total(),
		Current:   clone(c.current),
		Items:     c.items.Items(),
		Status:    c.status,
	}
}

func (c *Checklist) FetchTemplates(ctx context.Context) Result[[]models.ChecklistTemplate] {
	return action(ctx, &c.base, op[[]models.ChecklistTemplate]{
		name:     "fetch_templates",
		fallback: "Failed to fetch templates",
		list:     true,
		call:     c.svc.Templates,
		apply:    func(ts []models.ChecklistTemplate) { c.templates.Replace(ts, len(ts)) },
	})
}

func (c *Checklist) FetchTemplate(ctx context.Context, id int64) Result[*models.ChecklistTemplate] {
	return action(ctx, &c.base, op[*models.ChecklistTemplate]{
		name:     "fetch_template",
		fallback: "Failed to fetch template",
		call: func(ctx context.Context) (*models.ChecklistTemplate, error) {
			return c.svc.Template(ctx, id)
		},
		apply: func(t *models.ChecklistTemplate) {
			c.current = clone(t)
			c.items.Replace(t.Items, len(t.Items))
		},
	})
}

// CreateTemplate prepends the new template and bumps the total.
func (c *Checklist) CreateTemplate(ctx context.Context, in models.TemplateInput) Result[*models.ChecklistTemplate] {
	return action(ctx, &c.base, op[*models.ChecklistTemplate]{
		name:     "create_template",
		fallback: "Failed to create template",
		success:  "Template created successfully",
		call: func(ctx context.Context) (*models.ChecklistTemplate, error) {
			return c.svc.CreateTemplate(ctx, in)
		},
		apply: func(t *models.ChecklistTemplate) { c.templates.Prepend(*t) },
	})
}

func (c *Checklist) Duplicate(ctx context.Context, id int64) Result[*models.ChecklistTemplate] {
	return action(ctx, &c.base, op[*models.ChecklistTemplate]{
		name:     "duplicate_template",
		fallback: "Failed to duplicate template",
		success:  "Template duplicated successfully",
		call: func(ctx context.Context) (*models.ChecklistTemplate, error) {
			return c.svc.Duplicate(ctx, id)
		},
		apply: func(t *models.ChecklistTemplate) { c.templates.Prepend(*t) },
	})
}

func (c *Checklist) UpdateTemplate(ctx context.Context, id int64, patch models.TemplatePatch) Result[*models.ChecklistTemplate] {
	return action(ctx, &c.base, op[*models.ChecklistTemplate]{
		name:     "update_template",
		fallback: "Failed to update template",
		success:  "Template updated successfully",
		call: func(ctx context.Context) (*models.ChecklistTemplate, error) {
			return c.svc.UpdateTemplate(ctx, id, patch)
		},
		apply: func(t *models.ChecklistTemplate) {
			c.templates.Update(*t)
			if c.current != nil && c.current.ID == t.ID {
				c.current = clone(t)
			}
		},
	})
}

// DeleteTemplate removes id. The total drops only when id was listed.
func (c *Checklist) DeleteTemplate(ctx context.Context, id int64) Result[int64] {
	return action(ctx, &c.base, op[int64]{
		name:     "delete_template",
		fallback: "Failed to delete template",
		success:  "Template deleted successfully",
		call: func(ctx context.Context) (int64, error) {
			return id, c.svc.DeleteTemplate(ctx, id)
		},
		apply: func(id int64) { c.templates.Remove(id) },
	})
}

func (c *Checklist) CreateItem(ctx context.Context, templateID int64, in models.ItemInput) Result[*models.ChecklistItem] {
	return action(ctx, &c.base, op[*models.ChecklistItem]{
		name:     "create_item",
		fallback: "Failed to create item",
		success:  "Item added",
		call: func(ctx context.Context) (*models.ChecklistItem, error) {
			return c.svc.CreateItem(ctx, templateID, in)
		},
		apply: func(it *models.ChecklistItem) {
			if c.current != nil && c.current.ID == templateID {
				c.items.Prepend(*it)
			}
		},
	})
}

// ToggleItem flips the completion flag of one item of the current template.
func (c *Checklist) ToggleItem(ctx context.Context, id int64) Result[*models.ChecklistItem] {
	c.mu.RLock()
	it, ok := c.items.Get(id)
	c.mu.RUnlock()
	done := !(ok && it.Completed)

	return action(ctx, &c.base, op[*models.ChecklistItem]{
		name:     "toggle_item",
		fallback: "Failed to update item",
		call: func(ctx context.Context) (*models.ChecklistItem, error) {
			return c.svc.UpdateItem(ctx, id, models.ItemPatch{Completed: &done})
		},
		apply: func(it *models.ChecklistItem) { c.items.Update(*it) },
	})
}

func (c *Checklist) DeleteItem(ctx context.Context, id int64) Result[int64] {
	return action(ctx, &c.base, op[int64]{
		name:     "delete_item",
		fallback: "Failed to delete item",
		success:  "Item deleted",
		call: func(ctx context.Context) (int64, error) {
			return id, c.svc.DeleteItem(ctx, id)
		},
		apply: func(id int64) { c.items.Remove(id) },
	})
}

func (c *Checklist) ClearCurrent() {
	c.mu.Lock()
	c.current = nil
	c.items = Collection[models.ChecklistItem]{}
	c.mu.Unlock()
}
