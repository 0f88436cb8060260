package models

import "time"

type ChecklistItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i ChecklistItem) Key() int64 { return i.ID }

func (i ChecklistItem) Validate() error {
	return validateID("checklist item", i.ID)
}

type ChecklistTemplate struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []ChecklistItem `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t ChecklistTemplate) Key() int64 { return t.ID }

func (t ChecklistTemplate) Validate() error {
	if err := validateID("checklist template", t.ID); err != nil {
		return err
	}
	if t.Name == "" {
		return invalid("checklist template %d has no name", t.ID)
	}
	return List[ChecklistItem](t.Items).Validate()
}

type TemplateInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Items       []ItemInput `json:"items,omitempty"`
}

type TemplatePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Completed   bool   `json:"completed"`
}

type ItemPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
