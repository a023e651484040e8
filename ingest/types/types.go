// Package types defines the canonical data model shared by importers,
// the pipeline, the duplicate detector, and exporters.
package types

import (
	"encoding/json"
)

// Status is the terminal outcome of one processed source record
type Status string

const (
	StatusCreated          Status = "created"
	StatusSkippedDuplicate Status = "skipped_duplicate"
	StatusValidationFailed Status = "validation_failed"
	StatusExportFailed     Status = "export_failed"
)

// UnifiedImportRecord is the canonical, source-independent representation of
// one importable artwork. Importers produce it, the pipeline never mutates it
// after mapping, and exporters consume it.
type UnifiedImportRecord struct {
	// SourceID is stable per source record; re-running an import against the
	// same source yields the same SourceID.
	SourceID string `json:"source_id"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"` // markdown, may be assembled from several source fields

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Tags preserves mapping-rule order; keys are unique.
	Tags *Tags `json:"tags,omitempty"`

	Artists   []string `json:"artists,omitempty"`
	PhotoURLs []string `json:"photo_urls,omitempty"`

	// Raw is the original source payload, retained for audit only.
	Raw json.RawMessage `json:"-"`

	// MappingWarnings carries non-fatal issues raised while mapping. They end
	// up on the record's report row and never fail the record.
	MappingWarnings []string `json:"-"`
}

// ValidCoordinates reports whether (lat, lon) is a usable artwork position:
// within range and not the (0,0) null-island placeholder many datasets emit.
func ValidCoordinates(lat, lon float64) bool {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	if lat == 0 && lon == 0 {
		return false
	}
	return true
}

// ValidationResult is the outcome of an importer's ValidateData call
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Invalid builds a failed ValidationResult from the given problems
func Invalid(problems ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: problems}
}

// Valid returns a passing ValidationResult
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// ExportResult is the outcome of an exporter's Export call
type ExportResult struct {
	Success   bool   `json:"success"`
	CreatedID string `json:"created_id,omitempty"` // destination id of the created artwork
	Error     string `json:"error,omitempty"`      // server-provided message on failure
}
