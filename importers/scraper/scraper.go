// Package scraper imports documents produced by the upstream web scrapers.
// Scraped documents share one canonical shape regardless of which site they
// came from: url, title, lat/lon, description, artists, photos, and a flat
// properties object holding site-specific extras.
package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/mapper"
	"github.com/openartmap/artcat/ingest/types"
	"github.com/openartmap/artcat/plugin"
	"github.com/openartmap/artcat/version"
)

// idHashLength is how many hex characters of the URL hash form the source id
const idHashLength = 12

// Importer reads scraped artwork documents from a local file
type Importer struct {
	inputPath string
	rules     []mapper.Rule
	logger    *zap.SugaredLogger
}

// New builds a scraper importer. rules override the default mapping when
// non-nil.
func New(inputPath string, rules []mapper.Rule, logger *zap.SugaredLogger) *Importer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Importer{inputPath: inputPath, rules: rules, logger: logger}
}

// DefaultRules maps the canonical scraped-document fields
func DefaultRules() []mapper.Rule {
	return []mapper.Rule{
		{SourcePath: "title", TargetField: mapper.TargetTitle},
		{SourcePath: "description", TargetField: mapper.TargetDescription},
		{SourcePath: "properties.type", TargetField: "tag:artwork_type"},
		{SourcePath: "properties.material", TargetField: "tag:material"},
		{SourcePath: "properties.year", TargetField: "tag:start_date"},
		{SourcePath: "url", TargetField: "tag:website"},
	}
}

// Metadata implements plugin.Importer
func (i *Importer) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "scraper",
		Version:     version.Version,
		Description: "Canonical documents produced by the upstream web scrapers",
		APIVersion:  ">=1.0.0 <2.0.0",
	}
}

// Fetch reads the scraped-document file, a JSON array
func (i *Importer) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(i.inputPath)
	if err != nil {
		return nil, errors.WrapConfiguration(err, "reading input file")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapConfiguration(err, "input is not a JSON array")
	}
	return records, nil
}

// GenerateImportID hashes the document's source URL. The same page scraped
// twice yields the same id.
func (i *Importer) GenerateImportID(raw json.RawMessage) (string, error) {
	var doc struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", errors.Wrap(err, "parsing document")
	}
	if doc.URL == "" {
		return "", errors.New("document has no url")
	}
	sum := sha256.Sum256([]byte(doc.URL))
	return "scraped-" + hex.EncodeToString(sum[:])[:idHashLength], nil
}

// ValidateData checks the fields the pipeline cannot proceed without
func (i *Importer) ValidateData(raw json.RawMessage) types.ValidationResult {
	var doc struct {
		URL   string   `json:"url"`
		Title string   `json:"title"`
		Lat   *float64 `json:"lat"`
		Lon   *float64 `json:"lon"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.Invalid(fmt.Sprintf("document is not valid JSON: %v", err))
	}

	var problems []string
	if doc.URL == "" {
		problems = append(problems, "url is missing")
	}
	if doc.Title == "" {
		problems = append(problems, "title is missing")
	}
	if doc.Lat == nil || doc.Lon == nil {
		problems = append(problems, "lat/lon is missing")
	} else if !types.ValidCoordinates(*doc.Lat, *doc.Lon) {
		problems = append(problems, "lat/lon is out of range")
	}

	if len(problems) > 0 {
		return types.Invalid(problems...)
	}
	return types.Valid()
}

// MapData converts one scraped document to the unified form
func (i *Importer) MapData(raw json.RawMessage) (*types.UnifiedImportRecord, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing document")
	}

	sourceID, err := i.GenerateImportID(raw)
	if err != nil {
		return nil, err
	}

	mapped := mapper.Apply(doc, i.rules)

	rec := &types.UnifiedImportRecord{
		SourceID:        sourceID,
		Title:           mapped.Title,
		Description:     mapped.Description,
		Tags:            mapped.Tags,
		Raw:             raw,
		MappingWarnings: mapped.Warnings,
	}

	rec.Lat, _ = doc["lat"].(float64)
	rec.Lon, _ = doc["lon"].(float64)

	if artists, ok := doc["artists"].([]interface{}); ok {
		for _, artist := range artists {
			if name, ok := artist.(string); ok && name != "" {
				rec.Artists = append(rec.Artists, name)
			}
		}
	}
	if photos, ok := doc["photos"].([]interface{}); ok {
		for _, photo := range photos {
			if photoURL, ok := photo.(string); ok && photoURL != "" {
				rec.PhotoURLs = append(rec.PhotoURLs, photoURL)
			}
		}
	}

	return rec, nil
}
