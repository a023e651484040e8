// Package api exports unified records to the catalog's write API. Requests
// are rate limited so a bulk import cannot overwhelm the destination.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/types"
	"github.com/openartmap/artcat/plugin"
	"github.com/openartmap/artcat/version"
)

const maxErrorBodyBytes = 4096

// Exporter posts records to the catalog write API
type Exporter struct {
	baseURL     string
	token       string
	autoApprove bool
	http        *http.Client
	limiter     *rate.Limiter
	logger      *zap.SugaredLogger
}

// New builds an API exporter from catalog configuration. With autoApprove
// the created artworks bypass the destination's moderation queue.
func New(cfg config.CatalogConfig, autoApprove bool, logger *zap.SugaredLogger) *Exporter {
	// Zero means unlimited; a literal 0 req/min limiter would hand out one
	// burst token and then block every later Wait forever.
	perSecond := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		perSecond = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}
	return &Exporter{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		token:       cfg.Token,
		autoApprove: autoApprove,
		http:        &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:     rate.NewLimiter(perSecond, 1),
		logger:      logger,
	}
}

// Metadata implements plugin.Exporter
func (e *Exporter) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "api",
		Version:     version.Version,
		Description: "Create artworks through the catalog write API",
		APIVersion:  ">=1.0.0 <2.0.0",
	}
}

// Configure checks that the exporter can reach the catalog
func (e *Exporter) Configure(ctx context.Context) error {
	if e.baseURL == "" {
		return errors.NewConfigurationError("catalog base URL is not set")
	}
	if e.token == "" {
		return errors.NewConfigurationError(
			"catalog API token is not set (set catalog.token or ARTCAT_CATALOG_TOKEN)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/health", nil)
	if err != nil {
		return errors.Wrap(err, "building health request")
	}
	resp, err := e.http.Do(req)
	if err != nil {
		return errors.WrapConfiguration(err, "catalog is unreachable")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.NewConfigurationError("catalog health check returned %d", resp.StatusCode)
	}
	return nil
}

// Validate checks that a record carries what the write API requires
func (e *Exporter) Validate(rec *types.UnifiedImportRecord) types.ValidationResult {
	var problems []string
	if rec.Title == "" {
		problems = append(problems, "title is required")
	}
	if !types.ValidCoordinates(rec.Lat, rec.Lon) {
		problems = append(problems, "coordinates are missing or out of range")
	}
	if len(problems) > 0 {
		return types.Invalid(problems...)
	}
	return types.Valid()
}

type createRequest struct {
	*types.UnifiedImportRecord
	Approved bool `json:"approved,omitempty"`
}

type createResponse struct {
	ID string `json:"id"`
}

// Export posts one record. A 4xx response is reported as a per-record
// failure; network errors and 5xx responses fail the exporter itself.
func (e *Exporter) Export(ctx context.Context, rec *types.UnifiedImportRecord) (types.ExportResult, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return types.ExportResult{}, errors.Wrap(err, "rate limiter interrupted")
	}

	payload, err := json.Marshal(createRequest{UnifiedImportRecord: rec, Approved: e.autoApprove})
	if err != nil {
		return types.ExportResult{}, errors.Wrap(err, "encoding record")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/artworks", bytes.NewReader(payload))
	if err != nil {
		return types.ExportResult{}, errors.Wrap(err, "building create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.http.Do(req)
	if err != nil {
		return types.ExportResult{}, errors.Wrapf(errors.ErrExport, "creating artwork: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var created createResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return types.ExportResult{}, errors.Wrap(err, "decoding create response")
		}
		if e.logger != nil {
			e.logger.Debugw("Artwork created", "source_id", rec.SourceID, "created_id", created.ID)
		}
		return types.ExportResult{Success: true, CreatedID: created.ID}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return types.ExportResult{
			Success: false,
			Error:   strings.TrimSpace(string(body)),
		}, nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return types.ExportResult{}, errors.Wrapf(errors.ErrExport,
			"catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
