// Package console exports unified records to the terminal. It exists for
// eyeballing mapper output while developing a mapping script.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/openartmap/artcat/ingest/types"
	"github.com/openartmap/artcat/plugin"
	"github.com/openartmap/artcat/version"
)

// Exporter pretty-prints records instead of delivering them anywhere
type Exporter struct {
	mu  sync.Mutex
	out io.Writer
}

// New builds a console exporter writing to stdout
func New() *Exporter {
	return &Exporter{out: os.Stdout}
}

// NewWithWriter builds a console exporter writing to w (used by tests)
func NewWithWriter(w io.Writer) *Exporter {
	return &Exporter{out: w}
}

// Metadata implements plugin.Exporter
func (e *Exporter) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "console",
		Version:     version.Version,
		Description: "Print records to the terminal without exporting",
		APIVersion:  ">=1.0.0 <2.0.0",
	}
}

// Configure implements plugin.Exporter; the console needs no setup
func (e *Exporter) Configure(ctx context.Context) error {
	return nil
}

// Validate accepts every record; the console is for inspection
func (e *Exporter) Validate(rec *types.UnifiedImportRecord) types.ValidationResult {
	return types.Valid()
}

// Export prints one record
func (e *Exporter) Export(ctx context.Context, rec *types.UnifiedImportRecord) (types.ExportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", pterm.Cyan(rec.SourceID), pterm.Bold.Sprint(rec.Title))
	fmt.Fprintf(&b, "  location: %.6f, %.6f\n", rec.Lat, rec.Lon)
	if len(rec.Artists) > 0 {
		fmt.Fprintf(&b, "  artists:  %s\n", strings.Join(rec.Artists, ", "))
	}
	if rec.Tags.Len() > 0 {
		fmt.Fprintf(&b, "  tags:\n")
		rec.Tags.Each(func(key, value string) {
			fmt.Fprintf(&b, "    %s = %s\n", key, value)
		})
	}
	if rec.Description != "" {
		fmt.Fprintf(&b, "  description: %s\n", summarize(rec.Description))
	}
	if len(rec.PhotoURLs) > 0 {
		fmt.Fprintf(&b, "  photos:   %d\n", len(rec.PhotoURLs))
	}
	fmt.Fprintln(e.out, b.String())

	return types.ExportResult{Success: true}, nil
}

// summarize collapses a markdown description to its first line, truncated
func summarize(desc string) string {
	line := desc
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > 120 {
		line = line[:117] + "..."
	}
	return line
}
