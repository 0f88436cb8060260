package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/export"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

func (a *App) Patients(ctx context.Context, args []string) error {
	page, ok := value(a.store.Patients.Fetch(ctx, strings.Join(args, " ")))
	if !ok {
		return nil
	}

	rows := make([][]string, 0, len(page.Results))
	for _, p := range page.Results {
		rows = append(rows, []string{id(p.ID), p.FullName(), p.DateOfBirth, orDash(string(p.Gender)), orDash(p.MedicalRecordNumber)})
	}
	a.table("ID\tNAME\tBORN\tGENDER\tMRN", rows)
	fmt.Fprintf(a.out, "%d of %d patients\n", len(rows), a.store.Patients.State().Total)
	return nil
}

func (a *App) Patient(ctx context.Context, args []string) error {
	pid, err := argID(args, "patient <id>")
	if err != nil {
		return err
	}
	p, ok := value(a.store.Patients.FetchByID(ctx, pid))
	if !ok {
		return nil
	}
	a.printPatient(p)

	encounters, err := a.svc.Patients.Encounters(ctx, pid)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Encounters: %d\n", len(encounters))
	for _, e := range encounters {
		fmt.Fprintf(a.out, "  #%d %s %s %s\n", e.ID, e.EncounterDate, e.Status, e.ChiefComplaint)
	}
	return nil
}

func (a *App) printPatient(p *models.Patient) {
	fmt.Fprintf(a.out, "#%d %s\n", p.ID, p.FullName())
	a.table("", [][]string{
		{"born", orDash(p.DateOfBirth)},
		{"gender", orDash(string(p.Gender))},
		{"email", orDash(p.Email)},
		{"phone", orDash(p.Phone)},
		{"address", orDash(p.Address)},
		{"mrn", orDash(p.MedicalRecordNumber)},
	})
}

func (a *App) AddPatient(ctx context.Context, _ []string) error {
	var in models.PatientInput
	var gender string
	prompts := []struct {
		label string
		dst   *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Date of birth (YYYY-MM-DD)", &in.DateOfBirth},
		{"Gender (male/female/other)", &gender},
		{"Email (optional)", &in.Email},
		{"Phone (optional)", &in.Phone},
		{"Address (optional)", &in.Address},
		{"Medical record number (optional)", &in.MedicalRecordNumber},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	in.Gender = models.Gender(strings.ToLower(gender))
	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", common.ErrorValidation)
	}
	if !in.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", common.ErrorValidation, gender)
	}

	if p, ok := value(a.store.Patients.Create(ctx, in)); ok {
		fmt.Fprintf(a.out, "Created patient #%d\n", p.ID)
	}
	return nil
}

// patientPatch maps command-line assignments onto a PATCH body.
func patientPatch(kv map[string]string) (models.PatientPatch, error) {
	var p models.PatientPatch
	for k, v := range kv {
		switch k {
		case "first_name":
			p.FirstName = &v
		case "last_name":
			p.LastName = &v
		case "date_of_birth", "dob":
			p.DateOfBirth = &v
		case "gender":
			g := models.Gender(strings.ToLower(v))
			if !g.Valid() {
				return p, fmt.Errorf("%w: unknown gender %q", common.ErrorValidation, v)
			}
			p.Gender = &g
		case "email":
			p.Email = &v
		case "phone":
			p.Phone = &v
		case "address":
			p.Address = &v
		case "mrn", "medical_record_number":
			p.MedicalRecordNumber = &v
		default:
			return p, fmt.Errorf("%w: unknown patient field %q", common.ErrorValidation, k)
		}
	}
	return p, nil
}

func (a *App) EditPatient(ctx context.Context, args []string) error {
	const u = "patient-edit <id> field=value..."
	pid, err := argID(args, u)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(u)
	}
	kv, err := assignments(args[1:])
	if err != nil {
		return err
	}
	patch, err := patientPatch(kv)
	if err != nil {
		return err
	}

	if p, ok := value(a.store.Patients.Update(ctx, pid, patch)); ok {
		a.printPatient(p)
	}
	return nil
}

func (a *App) DeletePatient(ctx context.Context, args []string) error {
	pid, err := argID(args, "patient-rm <id>")
	if err != nil {
		return err
	}
	a.store.Patients.Delete(ctx, pid)
	return nil
}

func (a *App) ExportPatient(ctx context.Context, args []string) error {
	pid, err := argID(args, "patient-export <id>")
	if err != nil {
		return err
	}
	art, err := a.svc.Patients.Export(ctx, pid)
	if err != nil {
		return err
	}
	return a.save(ctx, export.KindPatient, art)
}

func (a *App) save(ctx context.Context, kind string, art *models.Artifact) error {
	loc, err := a.exporter.Save(ctx, kind, art)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes) to %s\n", orDash(art.FileName), len(art.Data), loc)
	return nil
}
