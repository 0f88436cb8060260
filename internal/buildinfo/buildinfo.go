// Package buildinfo holds version data stamped in at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/medscribe/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/dmitrijs2005/medscribe/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dmitrijs2005/medscribe/internal/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
