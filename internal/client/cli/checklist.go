package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

func (a *App) Templates(ctx context.Context, _ []string) error {
	templates, ok := value(a.store.Checklist.FetchTemplates(ctx))
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{id(t.ID), t.Name, fmt.Sprint(len(t.Items)), orDash(t.Description)})
	}
	a.table("ID\tNAME\tITEMS\tDESCRIPTION", rows)
	return nil
}

func (a *App) Template(ctx context.Context, args []string) error {
	tid, err := argID(args, "template <id>")
	if err != nil {
		return err
	}
	if _, ok := value(a.store.Checklist.FetchTemplate(ctx, tid)); ok {
		a.printTemplate()
	}
	return nil
}

// printTemplate shows the current template with its items.
func (a *App) printTemplate() {
	st := a.store.Checklist.State()
	if st.Current == nil {
		return
	}
	fmt.Fprintf(a.out, "#%d %s\n", st.Current.ID, st.Current.Name)
	if st.Current.Description != "" {
		fmt.Fprintln(a.out, st.Current.Description)
	}
	rows := make([][]string, 0, len(st.Items))
	for _, it := range st.Items {
		mark := "[ ]"
		if it.Completed {
			mark = "[x]"
		}
		rows = append(rows, []string{mark, id(it.ID), orDash(it.Category), it.Title})
	}
	a.table("\tID\tCATEGORY\tTITLE", rows)
}

func (a *App) AddTemplate(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Template name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: template name is required", common.ErrorValidation)
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	if t, ok := value(a.store.Checklist.CreateTemplate(ctx, models.TemplateInput{Name: name, Description: desc})); ok {
		fmt.Fprintf(a.out, "Created template #%d\n", t.ID)
	}
	return nil
}

func (a *App) DuplicateTemplate(ctx context.Context, args []string) error {
	tid, err := argID(args, "template-dup <id>")
	if err != nil {
		return err
	}
	if t, ok := value(a.store.Checklist.Duplicate(ctx, tid)); ok {
		fmt.Fprintf(a.out, "Created template #%d %s\n", t.ID, t.Name)
	}
	return nil
}

func (a *App) DeleteTemplate(ctx context.Context, args []string) error {
	tid, err := argID(args, "template-rm <id>")
	if err != nil {
		return err
	}
	a.store.Checklist.DeleteTemplate(ctx, tid)
	return nil
}

func (a *App) AddItem(ctx context.Context, args []string) error {
	tid, err := argID(args, "item-add <template-id>")
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Item title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: item title is required", common.ErrorValidation)
	}
	category, err := getDefaultText(a.reader, "Category", "general", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	in := models.ItemInput{Title: title, Category: category, Description: desc}
	if it, ok := value(a.store.Checklist.CreateItem(ctx, tid, in)); ok {
		fmt.Fprintf(a.out, "Added item #%d\n", it.ID)
	}
	return nil
}

func (a *App) ToggleItem(ctx context.Context, args []string) error {
	iid, err := argID(args, "toggle <item-id>")
	if err != nil {
		return err
	}
	if it, ok := value(a.store.Checklist.ToggleItem(ctx, iid)); ok {
		state := "open"
		if it.Completed {
			state = "done"
		}
		fmt.Fprintf(a.out, "Item #%d is %s\n", it.ID, state)
	}
	return nil
}

func (a *App) DeleteItem(ctx context.Context, args []string) error {
	iid, err := argID(args, "item-rm <item-id>")
	if err != nil {
		return err
	}
	a.store.Checklist.DeleteItem(ctx, iid)
	return nil
}
