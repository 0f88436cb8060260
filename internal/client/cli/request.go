package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/medscribe/internal/client/tester"
	"github.com/dmitrijs2005/medscribe/internal/common"
)

// Request runs an ad-hoc API call. Method and path may be given as
// arguments; everything else is prompted for.
func (a *App) Request(ctx context.Context, args []string) error {
	in := tester.Input{}
	var err error

	if len(args) > 0 {
		in.Method = strings.ToUpper(args[0])
	} else if in.Method, err = getDefaultText(a.reader, "Method", http.MethodGet, a.out); err != nil {
		return err
	}
	in.Method = strings.ToUpper(in.Method)

	if len(args) > 1 {
		in.Path = args[1]
	} else if in.Path, err = getSimpleText(a.reader, "Path (e.g. /patients/)", a.out); err != nil {
		return err
	}
	if in.Path == "" {
		return fmt.Errorf("%w: path is required", common.ErrorValidation)
	}

	if in.Headers, err = getDefaultText(a.reader, "Headers (JSON object)", compactJSON(tester.DefaultHeaders), a.out); err != nil {
		return err
	}

	if in.Method != http.MethodGet {
		def := tester.DefaultBody(in.Method, in.Path)
		prompt := "Body"
		if def != "" {
			prompt = "Body (empty for the template)\n" + def
		}
		if in.Body, err = getMultiline(a.reader, prompt, a.out); err != nil {
			return err
		}
		if in.Body == "" {
			in.Body = def
		}

		path, err := getSimpleText(a.reader, "File to upload (optional)", a.out)
		if err != nil {
			return err
		}
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			in.File = &tester.File{Name: filepath.Base(path), Content: f}
		}
	}

	out, err := a.tester.Run(ctx, in)
	if err != nil {
		return err
	}
	if out.Status == 0 {
		fmt.Fprintln(a.out, "Status: no response")
	} else {
		fmt.Fprintf(a.out, "Status: %d %s\n", out.Status, http.StatusText(out.Status))
	}
	if out.Body != "" {
		fmt.Fprintln(a.out, out.Body)
	}
	return nil
}

func compactJSON(s string) string {
	var b bytes.Buffer
	if err := json.Compact(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// Endpoints prints the request catalog.
func (a *App) Endpoints(context.Context, []string) error {
	rows := make([][]string, 0, len(tester.Catalog))
	for _, e := range tester.Catalog {
		rows = append(rows, []string{e.Category, e.Method, e.Path, e.Description})
	}
	a.table("CATEGORY\tMETHOD\tPATH\tDESCRIPTION", rows)
	return nil
}

// Metrics dumps the client's Prometheus metrics in text format.
func (a *App) Metrics(context.Context, []string) error {
	return a.metrics.WriteText(a.out)
}
