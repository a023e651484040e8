// Package report accumulates per-record import outcomes and writes the final
// run report as JSON. A Tracker is safe for concurrent use by pipeline workers.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/dedupe"
	"github.com/openartmap/artcat/ingest/types"
)

// Record is the report entry for one processed source record
type Record struct {
	SourceID          string            `json:"source_id"`
	Status            types.Status      `json:"status"`
	Title             string            `json:"title,omitempty"`
	CreatedID         string            `json:"created_id,omitempty"`
	DuplicateOf       string            `json:"duplicate_of,omitempty"`
	DuplicateScore    float64           `json:"duplicate_score,omitempty"`
	DuplicateSignals  []string          `json:"duplicate_signals,omitempty"`
	ValidationErrors  []string          `json:"validation_errors,omitempty"`
	ExportError       string            `json:"export_error,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
	PhotoWarnings     []string          `json:"photo_warnings,omitempty"`
	DurationSeconds   float64           `json:"duration_seconds,omitempty"`
	ProcessedAt       time.Time         `json:"processed_at"`
}

// Created builds the entry for a successfully imported record
func Created(sourceID, title, createdID string, warnings []string) Record {
	return Record{
		SourceID: sourceID, Status: types.StatusCreated,
		Title: title, CreatedID: createdID, Warnings: warnings,
	}
}

// SkippedDuplicate builds the entry for a record matched to an existing artwork
func SkippedDuplicate(sourceID, title string, dup dedupe.Candidate, warnings []string) Record {
	return Record{
		SourceID: sourceID, Status: types.StatusSkippedDuplicate,
		Title:            title,
		DuplicateOf:      dup.ExistingArtworkID,
		DuplicateScore:   dup.Score,
		DuplicateSignals: dup.Signals,
		Warnings:         warnings,
	}
}

// ValidationFailed builds the entry for a record rejected during validation
// or mapping
func ValidationFailed(sourceID string, problems []string) Record {
	return Record{
		SourceID: sourceID, Status: types.StatusValidationFailed,
		ValidationErrors: problems,
	}
}

// ExportFailed builds the entry for a record the exporter could not deliver
func ExportFailed(sourceID, title, exportErr string, warnings []string) Record {
	return Record{
		SourceID: sourceID, Status: types.StatusExportFailed,
		Title: title, ExportError: exportErr, Warnings: warnings,
	}
}

// WithPhotoWarnings returns a copy of the entry carrying photo check warnings.
// Photo problems are kept apart from mapping warnings so report consumers can
// audit them separately.
func (r Record) WithPhotoWarnings(warnings []string) Record {
	r.PhotoWarnings = warnings
	return r
}

// Metadata identifies one import run
type Metadata struct {
	RunID      string    `json:"run_id"`
	Importer   string    `json:"importer"`
	Exporter   string    `json:"exporter"`
	DryRun     bool      `json:"dry_run,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Summary aggregates the run's outcomes
type Summary struct {
	Total             int     `json:"total"`
	Created           int     `json:"created"`
	SkippedDuplicates int     `json:"skipped_duplicates"`
	ValidationFailed  int     `json:"validation_failed"`
	ExportFailed      int     `json:"export_failed"`
	DurationSeconds   float64 `json:"duration_seconds"`
	RecordsPerSecond  float64 `json:"records_per_second"`
}

// Report is the complete output of one import run
type Report struct {
	Metadata Metadata `json:"metadata"`
	Summary  Summary  `json:"summary"`
	Records  []Record `json:"records"`
}

// Tracker collects records during a run and produces the final Report.
// Finalize may be called once; further Adds after Finalize are rejected.
type Tracker struct {
	mu        sync.Mutex
	meta      Metadata
	records   []Record
	finalized bool
}

// NewTracker starts tracking a run for the given importer/exporter pair
func NewTracker(importer, exporter string, dryRun bool) *Tracker {
	return &Tracker{
		meta: Metadata{
			RunID:     uuid.NewString(),
			Importer:  importer,
			Exporter:  exporter,
			DryRun:    dryRun,
			StartedAt: time.Now().UTC(),
		},
	}
}

// RunID returns the run's unique identifier
func (t *Tracker) RunID() string {
	return t.meta.RunID
}

// Add appends one record outcome to the report
func (t *Tracker) Add(rec Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return errors.New("report already finalized")
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}
	t.records = append(t.records, rec)
	return nil
}

// Finalize closes the tracker and computes the summary. It returns an error
// if called twice.
func (t *Tracker) Finalize() (*Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return nil, errors.New("report already finalized")
	}
	t.finalized = true
	t.meta.FinishedAt = time.Now().UTC()

	summary := Summary{Total: len(t.records)}
	for _, rec := range t.records {
		switch rec.Status {
		case types.StatusCreated:
			summary.Created++
		case types.StatusSkippedDuplicate:
			summary.SkippedDuplicates++
		case types.StatusValidationFailed:
			summary.ValidationFailed++
		case types.StatusExportFailed:
			summary.ExportFailed++
		}
	}

	duration := t.meta.FinishedAt.Sub(t.meta.StartedAt)
	summary.DurationSeconds = duration.Seconds()
	if duration > 0 {
		summary.RecordsPerSecond = float64(summary.Total) / duration.Seconds()
	}

	records := make([]Record, len(t.records))
	copy(records, t.records)

	return &Report{Metadata: t.meta, Summary: summary, Records: records}, nil
}

// Write stores the report as indented JSON under dir, named by the run's
// start time and plugin pair. It returns the written path.
func Write(r *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return "", errors.Wrap(err, "creating report directory")
	}

	name := r.Metadata.StartedAt.Format("20060102-150405") +
		"-" + r.Metadata.Importer + "-" + r.Metadata.Exporter + ".json"
	path := filepath.Join(dir, name)
	if err := WriteTo(r, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTo stores the report as indented JSON at an explicit path
func WriteTo(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	if err := os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return nil
}
