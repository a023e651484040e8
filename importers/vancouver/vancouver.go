// Package vancouver imports the City of Vancouver public-art open-data
// export. The dataset is a JSON array of registry entries; field names
// follow the city's open-data portal.
package vancouver

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

// Importer reads Vancouver registry entries from a local export file
type Importer struct {
	inputPath string
	rules     []mapper.Rule
	logger    *zap.SugaredLogger
}

// New builds a Vancouver importer. rules override the default mapping when
// non-nil.
func New(inputPath string, rules []mapper.Rule, logger *zap.SugaredLogger) *Importer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Importer{inputPath: inputPath, rules: rules, logger: logger}
}

// DefaultRules maps the registry's field names onto the unified record
func DefaultRules() []mapper.Rule {
	return []mapper.Rule{
		{SourcePath: "title_of_work", TargetField: mapper.TargetTitle},
		{SourcePath: "descriptionofwork", TargetField: mapper.TargetDescription},
		{SourcePath: "artistprojectstatement", TargetField: mapper.TargetDescription,
			Operation: mapper.OpAppend, Template: "Artist statement"},
		{SourcePath: "type", TargetField: "tag:artwork_type"},
		{SourcePath: "primarymaterial", TargetField: "tag:material"},
		{SourcePath: "yearofinstallation", TargetField: "tag:start_date"},
		{SourcePath: "sitename", TargetField: "tag:site_name"},
		{SourcePath: "siteaddress", TargetField: "tag:site_address"},
	}
}

// Metadata implements plugin.Importer
func (i *Importer) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "vancouver",
		Version:     version.Version,
		Description: "City of Vancouver public art registry export",
		APIVersion:  ">=1.0.0 <2.0.0",
	}
}

// Fetch reads the export file. Both a bare JSON array and the portal's
// {"records": [...]} wrapper are accepted.
func (i *Importer) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(i.inputPath)
	if err != nil {
		return nil, errors.WrapConfiguration(err, "reading input file")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Records == nil {
		return nil, errors.NewConfigurationError(
			"input %s is neither a JSON array nor a records wrapper", i.inputPath)
	}
	return wrapped.Records, nil
}

const idHashLength = 12

// GenerateImportID derives the stable source id from the registry number.
// Entries without one fall back to a digest of the title and location, the
// stablest identity the export offers.
func (i *Importer) GenerateImportID(raw json.RawMessage) (string, error) {
	var entry struct {
		RegistryID  interface{} `json:"registryid"`
		TitleOfWork string      `json:"title_of_work"`
		GeoPoint    *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geo_point_2d"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", errors.Wrap(err, "parsing record")
	}
	switch id := entry.RegistryID.(type) {
	case nil:
		if entry.TitleOfWork == "" || entry.GeoPoint == nil {
			return "", errors.New("record has no registryid and no title/location to derive an id from")
		}
		sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%.6f|%.6f",
			entry.TitleOfWork, entry.GeoPoint.Lat, entry.GeoPoint.Lon)))
		return "vancouver-" + hex.EncodeToString(sum[:])[:idHashLength], nil
	case string:
		return "vancouver-" + id, nil
	case float64:
		return fmt.Sprintf("vancouver-%d", int64(id)), nil
	default:
		return "", errors.Newf("registryid has unsupported type %T", entry.RegistryID)
	}
}

// ValidateData checks the fields the pipeline cannot proceed without
func (i *Importer) ValidateData(raw json.RawMessage) types.ValidationResult {
	var entry struct {
		TitleOfWork string `json:"title_of_work"`
		GeoPoint    *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geo_point_2d"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return types.Invalid(fmt.Sprintf("record is not valid JSON: %v", err))
	}

	var problems []string
	if entry.TitleOfWork == "" {
		problems = append(problems, "title_of_work is missing")
	}
	if entry.GeoPoint == nil {
		problems = append(problems, "geo_point_2d is missing")
	} else if !types.ValidCoordinates(entry.GeoPoint.Lat, entry.GeoPoint.Lon) {
		problems = append(problems, "geo_point_2d is out of range")
	}

	if len(problems) > 0 {
		return types.Invalid(problems...)
	}
	return types.Valid()
}

// MapData converts one registry entry to the unified form
func (i *Importer) MapData(raw json.RawMessage) (*types.UnifiedImportRecord, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing record")
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

	if point, ok := doc["geo_point_2d"].(map[string]interface{}); ok {
		rec.Lat, _ = point["lat"].(float64)
		rec.Lon, _ = point["lon"].(float64)
	}
	if artists, ok := doc["artists"].([]interface{}); ok {
		for _, artist := range artists {
			if name, ok := artist.(string); ok && name != "" {
				rec.Artists = append(rec.Artists, name)
			}
		}
	}
	if photo, ok := doc["photourl"].(map[string]interface{}); ok {
		if photoURL, ok := photo["url"].(string); ok && photoURL != "" {
			rec.PhotoURLs = append(rec.PhotoURLs, photoURL)
		}
	}

	return rec, nil
}
