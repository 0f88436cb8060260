package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/export"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// Encounters lists one page. page= and size= arguments change the
// remembered pagination; everything else is the search text.
func (a *App) Encounters(ctx context.Context, args []string) error {
	var search []string
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || (k != "page" && k != "size") {
			search = append(search, arg)
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", common.ErrorValidation, k)
		}
		if k == "page" {
			a.store.Encounters.SetPage(n)
		} else {
			a.store.Encounters.SetPageSize(n)
		}
	}

	q := a.store.Encounters.Query(strings.Join(search, " "))
	page, ok := value(a.store.Encounters.Fetch(ctx, q))
	if !ok {
		return nil
	}

	rows := make([][]string, 0, len(page.Results))
	for _, e := range page.Results {
		rows = append(rows, []string{id(e.ID), orDash(e.PatientName), e.EncounterDate, string(e.Status), orDash(e.ChiefComplaint)})
	}
	a.table("ID\tPATIENT\tDATE\tSTATUS\tCOMPLAINT", rows)

	st := a.store.Encounters.State()
	pages := (st.Total + st.PageSize - 1) / st.PageSize
	fmt.Fprintf(a.out, "page %d of %d, %d encounters\n", st.Page, max(pages, 1), st.Total)
	return nil
}

func (a *App) Encounter(ctx context.Context, args []string) error {
	eid, err := argID(args, "encounter <id>")
	if err != nil {
		return err
	}
	if e, ok := value(a.store.Encounters.FetchByID(ctx, eid)); ok {
		a.printEncounter(e)
	}
	return nil
}

func (a *App) printEncounter(e *models.Encounter) {
	fmt.Fprintf(a.out, "#%d %s, patient %d %s\n", e.ID, e.Status, e.Patient, e.PatientName)
	a.table("", [][]string{
		{"date", orDash(e.EncounterDate)},
		{"complaint", orDash(e.ChiefComplaint)},
		{"audio", orDash(e.AudioFile)},
	})
	if e.Transcription != "" {
		fmt.Fprintf(a.out, "\nTranscription:\n%s\n", e.Transcription)
	}
	if e.SOAPNote != "" {
		fmt.Fprintf(a.out, "\nSOAP note:\n%s\n", e.SOAPNote)
	}
}

// Upload creates an encounter from a local audio recording.
func (a *App) Upload(ctx context.Context, args []string) error {
	const u = "upload <patient-id> <audio-file> [chief complaint]"
	pid, err := argID(args, u)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(u)
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	in := models.NewEncounter{
		PatientID:      pid,
		ChiefComplaint: strings.Join(args[2:], " "),
		AudioFileName:  filepath.Base(args[1]),
		Audio:          f,
	}
	if e, ok := value(a.store.Encounters.Create(ctx, in)); ok {
		fmt.Fprintf(a.out, "Created encounter #%d (%s)\n", e.ID, e.Status)
	}
	return nil
}

func encounterPatch(kv map[string]string) (models.EncounterPatch, error) {
	var p models.EncounterPatch
	for k, v := range kv {
		switch k {
		case "chief_complaint", "complaint":
			p.ChiefComplaint = &v
		case "encounter_date", "date":
			p.EncounterDate = &v
		case "status":
			s := models.EncounterStatus(v)
			if !s.Valid() {
				return p, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, v)
			}
			p.Status = &s
		default:
			return p, fmt.Errorf("%w: unknown encounter field %q", common.ErrorValidation, k)
		}
	}
	return p, nil
}

func (a *App) EditEncounter(ctx context.Context, args []string) error {
	const u = "encounter-edit <id> field=value..."
	eid, err := argID(args, u)
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
	patch, err := encounterPatch(kv)
	if err != nil {
		return err
	}
	if e, ok := value(a.store.Encounters.Update(ctx, eid, patch)); ok {
		a.printEncounter(e)
	}
	return nil
}

func (a *App) DeleteEncounter(ctx context.Context, args []string) error {
	eid, err := argID(args, "encounter-rm <id>")
	if err != nil {
		return err
	}
	a.store.Encounters.Delete(ctx, eid)
	return nil
}

func (a *App) Process(ctx context.Context, args []string) error {
	eid, err := argID(args, "process <id>")
	if err != nil {
		return err
	}
	if e, ok := value(a.store.Encounters.Process(ctx, eid)); ok {
		fmt.Fprintf(a.out, "Encounter #%d is %s\n", e.ID, e.Status)
	}
	return nil
}

func (a *App) GenerateSOAP(ctx context.Context, args []string) error {
	eid, err := argID(args, "soap <id>")
	if err != nil {
		return err
	}
	if e, ok := value(a.store.Encounters.GenerateSOAP(ctx, eid)); ok && e.SOAPNote != "" {
		fmt.Fprintln(a.out, e.SOAPNote)
	}
	return nil
}

func (a *App) Transcript(ctx context.Context, args []string) error {
	eid, err := argID(args, "transcript <id>")
	if err != nil {
		return err
	}
	t, err := a.svc.Encounters.Transcription(ctx, eid)
	if err != nil {
		return err
	}
	if t.Transcription == "" {
		fmt.Fprintln(a.out, "No transcription yet")
		return nil
	}
	fmt.Fprintln(a.out, t.Transcription)
	return nil
}

func (a *App) EditTranscript(ctx context.Context, args []string) error {
	eid, err := argID(args, "transcript-edit <id>")
	if err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Enter the corrected transcription", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("%w: transcription is empty", common.ErrorValidation)
	}
	a.store.Encounters.UpdateTranscription(ctx, eid, text)
	return nil
}

// Download fetches the SOAP document and stores it in the export sink.
func (a *App) Download(ctx context.Context, args []string) error {
	eid, err := argID(args, "download <id> [pdf|docx]")
	if err != nil {
		return err
	}
	format := models.DocumentPDF
	if len(args) > 1 {
		format = models.DocumentFormat(strings.ToLower(args[1]))
	}
	art, err := a.svc.Encounters.Download(ctx, eid, format)
	if err != nil {
		return err
	}
	return a.save(ctx, export.KindSOAP, art)
}
