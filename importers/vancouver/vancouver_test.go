package vancouver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openartmap/artcat/errors"
)

const soloEntry = `{
	"registryid": 42,
	"title_of_work": "Solo",
	"type": "Sculpture",
	"primarymaterial": "bronze",
	"yearofinstallation": "1986",
	"sitename": "Devonian Harbour Park",
	"descriptionofwork": "A bronze figure balancing on a rail.",
	"artistprojectstatement": "The work explores stillness in motion.",
	"artists": ["103"],
	"photourl": {"url": "https://example.com/solo.jpg"},
	"geo_point_2d": {"lat": 49.293313, "lon": -123.133965}
}`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFetchArray(t *testing.T) {
	path := writeInput(t, "["+soloEntry+"]")
	records, err := New(path, nil, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchRecordsWrapper(t *testing.T) {
	path := writeInput(t, `{"records": [`+soloEntry+`]}`)
	records, err := New(path, nil, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.json"), nil, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestFetchMalformedInput(t *testing.T) {
	path := writeInput(t, `{"fields": "not a dataset"}`)
	_, err := New(path, nil, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestGenerateImportID(t *testing.T) {
	imp := New("", nil, nil)

	id, err := imp.GenerateImportID(json.RawMessage(soloEntry))
	require.NoError(t, err)
	assert.Equal(t, "vancouver-42", id)

	// Stable across calls
	again, err := imp.GenerateImportID(json.RawMessage(soloEntry))
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// String registry ids work too
	id, err = imp.GenerateImportID(json.RawMessage(`{"registryid": "XR-9"}`))
	require.NoError(t, err)
	assert.Equal(t, "vancouver-XR-9", id)

	// No registryid and nothing to derive one from
	_, err = imp.GenerateImportID(json.RawMessage(`{"title_of_work": "Solo"}`))
	require.Error(t, err)
}

func TestGenerateImportIDFallback(t *testing.T) {
	imp := New("", nil, nil)
	entry := `{"title_of_work": "Solo", "geo_point_2d": {"lat": 49.293313, "lon": -123.133965}}`

	id, err := imp.GenerateImportID(json.RawMessage(entry))
	require.NoError(t, err)
	assert.Regexp(t, `^vancouver-[0-9a-f]{12}$`, id)

	// The digest is stable across calls and whitespace changes
	again, err := imp.GenerateImportID(json.RawMessage(
		`{"geo_point_2d": {"lon": -123.133965, "lat": 49.293313}, "title_of_work": "Solo"}`))
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// A different location is a different artwork
	other, err := imp.GenerateImportID(json.RawMessage(
		`{"title_of_work": "Solo", "geo_point_2d": {"lat": 49.28, "lon": -123.12}}`))
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestValidateData(t *testing.T) {
	imp := New("", nil, nil)

	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"complete entry", soloEntry, true},
		{"missing registryid still imports", `{"title_of_work": "Solo", "geo_point_2d": {"lat": 49.2, "lon": -123.1}}`, true},
		{"missing title", `{"registryid": 1, "geo_point_2d": {"lat": 49.2, "lon": -123.1}}`, false},
		{"missing location", `{"registryid": 1, "title_of_work": "Solo"}`, false},
		{"null island", `{"registryid": 1, "title_of_work": "Solo", "geo_point_2d": {"lat": 0, "lon": 0}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, imp.ValidateData(json.RawMessage(tt.raw)).Valid)
		})
	}
}

func TestMapDataDefaultRules(t *testing.T) {
	rec, err := New("", nil, nil).MapData(json.RawMessage(soloEntry))
	require.NoError(t, err)

	assert.Equal(t, "vancouver-42", rec.SourceID)
	assert.Equal(t, "Solo", rec.Title)
	assert.Contains(t, rec.Description, "A bronze figure balancing on a rail.")
	assert.Contains(t, rec.Description, "Artist statement")
	assert.Contains(t, rec.Description, "The work explores stillness in motion.")
	assert.InDelta(t, 49.293313, rec.Lat, 1e-9)
	assert.InDelta(t, -123.133965, rec.Lon, 1e-9)
	assert.Equal(t, []string{"103"}, rec.Artists)
	assert.Equal(t, []string{"https://example.com/solo.jpg"}, rec.PhotoURLs)

	material, ok := rec.Tags.Get("material")
	require.True(t, ok)
	assert.Equal(t, "bronze", material)
	year, ok := rec.Tags.Get("start_date")
	require.True(t, ok)
	assert.Equal(t, "1986", year)
}

func TestMapDataWarnsOnMissingFields(t *testing.T) {
	rec, err := New("", nil, nil).MapData(json.RawMessage(
		`{"registryid": 7, "title_of_work": "Bare", "geo_point_2d": {"lat": 49.2, "lon": -123.1}}`))
	require.NoError(t, err)

	assert.Equal(t, "Bare", rec.Title)
	// Rules for absent fields warn instead of failing
	assert.NotEmpty(t, rec.MappingWarnings)
}
