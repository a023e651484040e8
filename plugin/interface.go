// Package plugin defines the importer and exporter contracts and the registry
// that binds named plugins to an import run. Registries are created per
// invocation; plugins carry no state between runs.
package plugin

import (
	"context"
	"encoding/json"

	"github.com/openartmap/artcat/ingest/types"
)

// Metadata describes a plugin to the registry and to the plugins listing
type Metadata struct {
	// Name is the identifier used on the command line (e.g. "vancouver")
	Name string `json:"name"`

	// Version is the plugin's own semver version
	Version string `json:"version"`

	Description string `json:"description"`

	// APIVersion is a semver constraint naming the plugin API versions the
	// plugin supports (e.g. ">=1.0.0 <2.0.0"). The registry rejects plugins
	// whose constraint does not admit the running API version.
	APIVersion string `json:"api_version"`
}

// Importer turns raw source records into unified import records.
// Implementations must be safe for concurrent calls; the pipeline invokes
// them from multiple workers.
type Importer interface {
	Metadata() Metadata

	// Fetch retrieves raw source records. Implementations honor ctx for
	// network reads.
	Fetch(ctx context.Context) ([]json.RawMessage, error)

	// GenerateImportID derives the stable source identifier for one raw
	// record. The same raw record always yields the same id.
	GenerateImportID(raw json.RawMessage) (string, error)

	// ValidateData checks one raw record before mapping
	ValidateData(raw json.RawMessage) types.ValidationResult

	// MapData converts one raw record into the unified form
	MapData(raw json.RawMessage) (*types.UnifiedImportRecord, error)
}

// Exporter delivers unified records to a destination
type Exporter interface {
	Metadata() Metadata

	// Configure prepares the exporter for a run. Called once before any Export.
	Configure(ctx context.Context) error

	// Validate checks that a record is exportable to this destination
	Validate(rec *types.UnifiedImportRecord) types.ValidationResult

	// Export delivers one record. A returned error means the exporter itself
	// failed; per-record rejection is reported through ExportResult.
	Export(ctx context.Context, rec *types.UnifiedImportRecord) (types.ExportResult, error)
}
