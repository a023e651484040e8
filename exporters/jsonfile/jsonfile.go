// Package jsonfile exports unified records to a local newline-delimited JSON
// file. Useful for inspecting what a run would send before pointing it at a
// live catalog, and for feeding downstream tooling.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/types"
	"github.com/openartmap/artcat/plugin"
	"github.com/openartmap/artcat/version"
)

// Exporter appends one JSON line per exported record
type Exporter struct {
	path   string
	logger *zap.SugaredLogger

	mu   sync.Mutex
	file *os.File
}

// New builds a jsonfile exporter writing to path
func New(path string, logger *zap.SugaredLogger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// Metadata implements plugin.Exporter
func (e *Exporter) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "jsonfile",
		Version:     version.Version,
		Description: "Write records to a newline-delimited JSON file",
		APIVersion:  ">=1.0.0 <2.0.0",
	}
}

// Configure opens the output file, truncating any previous run's output
func (e *Exporter) Configure(ctx context.Context) error {
	if e.path == "" {
		return errors.NewConfigurationError("jsonfile exporter requires --output")
	}
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return errors.WrapConfiguration(err, "creating output directory")
		}
	}
	file, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.DefaultFilePermissions)
	if err != nil {
		return errors.WrapConfiguration(err, "opening output file")
	}
	e.file = file
	return nil
}

// Validate accepts any record with usable coordinates
func (e *Exporter) Validate(rec *types.UnifiedImportRecord) types.ValidationResult {
	if !types.ValidCoordinates(rec.Lat, rec.Lon) {
		return types.Invalid("coordinates are missing or out of range")
	}
	return types.Valid()
}

// Export writes one record as a JSON line
func (e *Exporter) Export(ctx context.Context, rec *types.UnifiedImportRecord) (types.ExportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return types.ExportResult{}, errors.New("exporter is not configured")
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return types.ExportResult{}, errors.Wrap(err, "encoding record")
	}
	if _, err := e.file.Write(append(line, '\n')); err != nil {
		return types.ExportResult{}, errors.Wrapf(errors.ErrExport, "writing record: %v", err)
	}

	return types.ExportResult{Success: true, CreatedID: "file-" + uuid.NewString()}, nil
}

// Close flushes and closes the output file
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}
