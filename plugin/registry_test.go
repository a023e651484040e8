package plugin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/types"
)

type fakeImporter struct{ meta Metadata }

func (f *fakeImporter) Metadata() Metadata { return f.meta }
func (f *fakeImporter) Fetch(context.Context) ([]json.RawMessage, error) {
	return nil, nil
}
func (f *fakeImporter) GenerateImportID(json.RawMessage) (string, error) { return "id", nil }
func (f *fakeImporter) ValidateData(json.RawMessage) types.ValidationResult {
	return types.Valid()
}
func (f *fakeImporter) MapData(json.RawMessage) (*types.UnifiedImportRecord, error) {
	return &types.UnifiedImportRecord{}, nil
}

type fakeExporter struct{ meta Metadata }

func (f *fakeExporter) Metadata() Metadata              { return f.meta }
func (f *fakeExporter) Configure(context.Context) error { return nil }
func (f *fakeExporter) Validate(*types.UnifiedImportRecord) types.ValidationResult {
	return types.Valid()
}
func (f *fakeExporter) Export(context.Context, *types.UnifiedImportRecord) (types.ExportResult, error) {
	return types.ExportResult{Success: true}, nil
}

func validMeta(name string) Metadata {
	return Metadata{Name: name, Version: "0.1.0", APIVersion: ">=1.0.0 <2.0.0"}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterImporter(&fakeImporter{meta: validMeta("vancouver")}))
	require.NoError(t, reg.RegisterExporter(&fakeExporter{meta: validMeta("api")}))

	imp, err := reg.Importer("vancouver")
	require.NoError(t, err)
	assert.Equal(t, "vancouver", imp.Metadata().Name)

	exp, err := reg.Exporter("api")
	require.NoError(t, err)
	assert.Equal(t, "api", exp.Metadata().Name)
}

func TestUnknownPluginListsAvailable(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterImporter(&fakeImporter{meta: validMeta("vancouver")}))
	require.NoError(t, reg.RegisterImporter(&fakeImporter{meta: validMeta("scraper")}))

	_, err := reg.Importer("seattle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPluginNotFound))
	// Names appear sorted in the message
	assert.Contains(t, err.Error(), "scraper, vancouver")
}

func TestDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterImporter(&fakeImporter{meta: validMeta("vancouver")}))

	err := reg.RegisterImporter(&fakeImporter{meta: validMeta("vancouver")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicatePlugin))
}

func TestMetadataValidation(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
	}{
		{"empty name", Metadata{APIVersion: ">=1.0.0"}},
		{"missing api constraint", Metadata{Name: "x"}},
		{"malformed constraint", Metadata{Name: "x", APIVersion: "not-a-constraint"}},
		{"incompatible api", Metadata{Name: "x", APIVersion: ">=2.0.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().RegisterImporter(&fakeImporter{meta: tt.meta})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidPlugin))
		})
	}
}

func TestPluginErrorsAreConfigurationErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Importer("missing")
	assert.True(t, errors.IsConfiguration(err))
}

func TestMetadataListing(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterExporter(&fakeExporter{meta: validMeta("jsonfile")}))
	require.NoError(t, reg.RegisterExporter(&fakeExporter{meta: validMeta("api")}))
	require.NoError(t, reg.RegisterExporter(&fakeExporter{meta: validMeta("console")}))

	metas := reg.ExporterMetadata()
	require.Len(t, metas, 3)
	assert.Equal(t, "api", metas[0].Name)
	assert.Equal(t, "console", metas[1].Name)
	assert.Equal(t, "jsonfile", metas[2].Name)
}
