// Package pipeline orchestrates one import run: fetch raw records from the
// importer, then for each record validate, map, check for duplicates, and
// export, collecting every outcome in the report tracker.
//
// Records are processed by a bounded worker pool (default size 1). Workers
// check for cancellation between records, never mid-record, so an in-flight
// record always reaches a terminal status and the report never contains a
// half-processed row.
package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openartmap/artcat/catalog"
	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/dedupe"
	"github.com/openartmap/artcat/ingest/photos"
	"github.com/openartmap/artcat/ingest/report"
	"github.com/openartmap/artcat/plugin"
)

// Options tunes one run
type Options struct {
	// Workers is the worker pool size, clamped to [1, config.MaxWorkers]
	Workers int

	// Offset and Limit window the fetched record list. Limit 0 means no limit.
	Offset int
	Limit  int

	// DryRun runs every stage except the exporter's create call
	DryRun bool

	// NearbyRadiusMeters bounds the duplicate-candidate query
	NearbyRadiusMeters float64
}

// Pipeline wires one importer, one exporter, and the shared collaborators
type Pipeline struct {
	importer plugin.Importer
	exporter plugin.Exporter
	detector *dedupe.Detector
	nearby   catalog.NearbyProvider
	photos   *photos.Checker // nil disables photo verification
	tracker  *report.Tracker
	opts     Options
	logger   *zap.SugaredLogger
}

// New builds a pipeline. photoChecker may be nil to skip photo verification.
func New(
	importer plugin.Importer,
	exporter plugin.Exporter,
	detector *dedupe.Detector,
	nearby catalog.NearbyProvider,
	photoChecker *photos.Checker,
	tracker *report.Tracker,
	opts Options,
	logger *zap.SugaredLogger,
) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > config.MaxWorkers {
		opts.Workers = config.MaxWorkers
	}
	return &Pipeline{
		importer: importer,
		exporter: exporter,
		detector: detector,
		nearby:   nearby,
		photos:   photoChecker,
		tracker:  tracker,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes the import and returns the finalized report. A non-nil error
// means the run could not start (fetch or exporter configuration failed);
// per-record failures are reported, not returned.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	records, err := p.importer.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	records = window(records, p.opts.Offset, p.opts.Limit)

	if !p.opts.DryRun {
		if err := p.exporter.Configure(ctx); err != nil {
			return nil, err
		}
	}

	if p.logger != nil {
		p.logger.Infow("Starting import run",
			"importer", p.importer.Metadata().Name,
			"exporter", p.exporter.Metadata().Name,
			"records", len(records),
			"workers", p.opts.Workers,
			"dry_run", p.opts.DryRun)
	}

	jobs := make(chan json.RawMessage)
	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				p.processOne(ctx, raw)
			}
		}()
	}

feed:
	for _, raw := range records {
		// Cancellation is honored between records only
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- raw:
		}
	}
	close(jobs)
	wg.Wait()

	return p.tracker.Finalize()
}

// processOne walks a single record through the four stages. Every path ends
// in exactly one tracker entry.
func (p *Pipeline) processOne(ctx context.Context, raw json.RawMessage) {
	start := time.Now()
	add := func(rec report.Record) {
		rec.DurationSeconds = time.Since(start).Seconds()
		if err := p.tracker.Add(rec); err != nil && p.logger != nil {
			p.logger.Errorw("Dropping report record", "source_id", rec.SourceID, "error", err)
		}
	}

	sourceID, err := p.importer.GenerateImportID(raw)
	if err != nil {
		add(report.ValidationFailed("", []string{err.Error()}))
		return
	}

	if result := p.importer.ValidateData(raw); !result.Valid {
		add(report.ValidationFailed(sourceID, result.Errors))
		return
	}

	rec, err := p.importer.MapData(raw)
	if err != nil {
		add(report.ValidationFailed(sourceID, []string{err.Error()}))
		return
	}
	warnings := rec.MappingWarnings

	candidates, err := p.nearby.Nearby(ctx, rec.Lat, rec.Lon, p.opts.NearbyRadiusMeters)
	if err != nil {
		msg := errors.Wrap(err, "duplicate check failed").Error()
		add(report.ExportFailed(sourceID, rec.Title, msg, warnings))
		return
	}
	if dup := p.detector.Duplicate(rec, rec.Title, rec.Tags, candidates); dup != nil {
		add(report.SkippedDuplicate(sourceID, rec.Title, *dup, warnings))
		return
	}

	var photoWarnings []string
	if p.photos != nil && len(rec.PhotoURLs) > 0 {
		photoWarnings = p.photos.Verify(ctx, rec.PhotoURLs)
	}

	if p.opts.DryRun {
		add(report.Created(sourceID, rec.Title, "", warnings).WithPhotoWarnings(photoWarnings))
		return
	}

	if result := p.exporter.Validate(rec); !result.Valid {
		entry := report.ValidationFailed(sourceID, result.Errors)
		entry.Title = rec.Title
		entry.Warnings = warnings
		add(entry.WithPhotoWarnings(photoWarnings))
		return
	}

	exported, err := p.exporter.Export(ctx, rec)
	switch {
	case err != nil:
		add(report.ExportFailed(sourceID, rec.Title, err.Error(), warnings).
			WithPhotoWarnings(photoWarnings))
	case !exported.Success:
		add(report.ExportFailed(sourceID, rec.Title, exported.Error, warnings).
			WithPhotoWarnings(photoWarnings))
	default:
		add(report.Created(sourceID, rec.Title, exported.CreatedID, warnings).
			WithPhotoWarnings(photoWarnings))
	}
}

// window slices records to [offset, offset+limit)
func window(records []json.RawMessage, offset, limit int) []json.RawMessage {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
