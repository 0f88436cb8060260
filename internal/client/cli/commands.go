package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/medscribe/internal/client/store"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// Prompt helpers are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getDefaultText = GetDefaultText
	getMultiline   = GetMultiline
	getPassword    = GetPassword
)

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login [username]", run: a.Login},
		{name: "register", usage: "register", run: a.Register},
		{name: "request", usage: "request", run: a.Request},
		{name: "endpoints", usage: "endpoints", run: a.Endpoints},
		{name: "metrics", usage: "metrics", run: a.Metrics},

		{name: "logout", usage: "logout", auth: true, run: a.Logout},
		{name: "whoami", usage: "whoami", auth: true, run: a.WhoAmI},
		{name: "passwd", usage: "passwd", auth: true, run: a.ChangePassword},

		{name: "patients", usage: "patients [search]", auth: true, run: a.Patients},
		{name: "patient", usage: "patient <id>", auth: true, run: a.Patient},
		{name: "patient-add", usage: "patient-add", auth: true, run: a.AddPatient},
		{name: "patient-edit", usage: "patient-edit <id> field=value...", auth: true, run: a.EditPatient},
		{name: "patient-rm", usage: "patient-rm <id>", auth: true, run: a.DeletePatient},
		{name: "patient-export", usage: "patient-export <id>", auth: true, run: a.ExportPatient},

		{name: "encounters", usage: "encounters [page=N] [size=N] [search]", auth: true, run: a.Encounters},
		{name: "encounter", usage: "encounter <id>", auth: true, run: a.Encounter},
		{name: "upload", usage: "upload <patient-id> <audio-file> [chief complaint]", auth: true, run: a.Upload},
		{name: "encounter-edit", usage: "encounter-edit <id> field=value...", auth: true, run: a.EditEncounter},
		{name: "encounter-rm", usage: "encounter-rm <id>", auth: true, run: a.DeleteEncounter},
		{name: "process", usage: "process <id>", auth: true, run: a.Process},
		{name: "soap", usage: "soap <id>", auth: true, run: a.GenerateSOAP},
		{name: "transcript", usage: "transcript <id>", auth: true, run: a.Transcript},
		{name: "transcript-edit", usage: "transcript-edit <id>", auth: true, run: a.EditTranscript},
		{name: "download", usage: "download <id> [pdf|docx]", auth: true, run: a.Download},

		{name: "templates", usage: "templates", auth: true, run: a.Templates},
		{name: "template", usage: "template <id>", auth: true, run: a.Template},
		{name: "template-add", usage: "template-add", auth: true, run: a.AddTemplate},
		{name: "template-dup", usage: "template-dup <id>", auth: true, run: a.DuplicateTemplate},
		{name: "template-rm", usage: "template-rm <id>", auth: true, run: a.DeleteTemplate},
		{name: "item-add", usage: "item-add <template-id>", auth: true, run: a.AddItem},
		{name: "toggle", usage: "toggle <item-id>", auth: true, run: a.ToggleItem},
		{name: "item-rm", usage: "item-rm <item-id>", auth: true, run: a.DeleteItem},

		{name: "analytics", usage: "analytics [start-date [end-date]]", auth: true, run: a.Analytics},
		{name: "analytics-export", usage: "analytics-export <csv|xlsx|pdf> [start-date [end-date]]", auth: true, run: a.ExportAnalytics},
	}
}

func usage(u string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrorValidation, u)
}

// argID parses args[0] as a positive record ID.
func argID(args []string, u string) (int64, error) {
	if len(args) == 0 {
		return 0, usage(u)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, args[0])
	}
	return id, nil
}

// assignments splits "field=value" arguments. Values may not contain
// spaces; use the interactive commands for free text.
func assignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected field=value, got %q", common.ErrorValidation, arg)
		}
		out[k] = v
	}
	return out, nil
}

// value unwraps a store result. Failures were already announced by the
// notifier, and stale results are superseded by a newer call.
func value[T any](r store.Result[T]) (T, bool) {
	return r.Value, r.OK() && !r.Stale
}

func (a *App) table(header string, rows [][]string) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func id(v int64) string { return strconv.FormatInt(v, 10) }
