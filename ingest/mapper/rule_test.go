package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openartmap/artcat/errors"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		wantLen int
		wantErr bool
	}{
		{"$.photourl.url", 2, false},
		{"$.artists[0]", 2, false},
		{"title_of_work", 1, false},
		{`$["field with spaces"].value`, 2, false},
		{"$.a[2].b[0]", 4, false},
		{"$", 0, true},
		{"$.", 0, true},
		{"$.a[", 0, true},
		{"$.a[-1]", 0, true},
		{"$.a[x]", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			segs, err := parsePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, segs, tt.wantLen)
		})
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"title target", Rule{SourcePath: "$.a", TargetField: TargetTitle}, false},
		{"description target", Rule{SourcePath: "$.a", TargetField: TargetDescription, Operation: OpAppend}, false},
		{"tag target", Rule{SourcePath: "$.a", TargetField: "tag:material"}, false},
		{"arbitrary tag key is preserved", Rule{SourcePath: "$.a", TargetField: "tag:nonstandard_key"}, false},
		{"empty source path", Rule{TargetField: TargetTitle}, true},
		{"unknown target", Rule{SourcePath: "$.a", TargetField: "artwork.artist"}, true},
		{"empty tag key", Rule{SourcePath: "$.a", TargetField: "tag:"}, true},
		{"bad operation", Rule{SourcePath: "$.a", TargetField: TargetTitle, Operation: "merge"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.json")
	script := `[
		{"source_path": "$.title_of_work", "target_field": "artwork.title", "operation": "assign"},
		{"source_path": "$.type", "target_field": "tag:artwork_type"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))

	rules, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, TargetTitle, rules[0].TargetField)
	assert.Equal(t, OpAssign, rules[0].op())
	assert.Equal(t, OpAssign, rules[1].op(), "missing operation defaults to assign")
}

func TestLoadScriptErrorsAreConfiguration(t *testing.T) {
	t.Run("unreadable file", func(t *testing.T) {
		_, err := LoadScript(filepath.Join(t.TempDir(), "missing.json"))
		assert.True(t, errors.IsConfiguration(err))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := LoadScript(path)
		assert.True(t, errors.IsConfiguration(err))
	})

	t.Run("invalid rule", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.json")
		script := `[{"source_path": "$.a", "target_field": "bogus"}]`
		require.NoError(t, os.WriteFile(path, []byte(script), 0644))
		_, err := LoadScript(path)
		assert.True(t, errors.IsConfiguration(err))
		assert.Contains(t, err.Error(), "rule 0")
	})
}
