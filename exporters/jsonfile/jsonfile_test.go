package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/ingest/types"
)

func TestExportWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	exp := New(path, nil)
	ctx := context.Background()

	require.NoError(t, exp.Configure(ctx))

	records := []*types.UnifiedImportRecord{
		{SourceID: "van-1", Title: "Solo", Lat: 49.293313, Lon: -123.133965},
		{SourceID: "van-2", Title: "Inukshuk", Lat: 49.2921, Lon: -123.1345},
	}
	for _, rec := range records {
		result, err := exp.Export(ctx, rec)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.CreatedID)
	}
	require.NoError(t, exp.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var titles []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec types.UnifiedImportRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		titles = append(titles, rec.Title)
	}
	assert.Equal(t, []string{"Solo", "Inukshuk"}, titles)
}

func TestConfigureTruncatesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("stale line\n"), 0644))

	exp := New(path, nil)
	require.NoError(t, exp.Configure(context.Background()))
	require.NoError(t, exp.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestConfigureRequiresPath(t *testing.T) {
	err := New("", nil).Configure(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestExportBeforeConfigure(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "out.ndjson"), nil).Export(
		context.Background(), &types.UnifiedImportRecord{})
	require.Error(t, err)
}

func TestValidateRejectsBadCoordinates(t *testing.T) {
	exp := New("out.ndjson", nil)
	assert.False(t, exp.Validate(&types.UnifiedImportRecord{Lat: 0, Lon: 0}).Valid)
	assert.True(t, exp.Validate(&types.UnifiedImportRecord{Lat: 49.29, Lon: -123.13}).Valid)
}
