package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestApplyAssign(t *testing.T) {
	raw := decode(t, `{
		"title_of_work": "Solo",
		"type": "Sculpture",
		"artists": ["103"],
		"photourl": {"url": "https://example.org/solo.jpg"}
	}`)

	rules := []Rule{
		{SourcePath: "$.title_of_work", TargetField: TargetTitle, Operation: OpAssign},
		{SourcePath: "$.type", TargetField: "tag:artwork_type", Operation: OpAssign},
		{SourcePath: "$.photourl.url", TargetField: "tag:image", Operation: OpAssign},
	}

	result := Apply(raw, rules)

	assert.Equal(t, "Solo", result.Title)
	assert.Empty(t, result.Warnings)

	v, ok := result.Tags.Get("artwork_type")
	require.True(t, ok)
	assert.Equal(t, "Sculpture", v)

	v, ok = result.Tags.Get("image")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/solo.jpg", v)
}

func TestApplyLaterAssignWins(t *testing.T) {
	raw := decode(t, `{"a": "first", "b": "second"}`)

	rules := []Rule{
		{SourcePath: "$.a", TargetField: TargetTitle},
		{SourcePath: "$.b", TargetField: TargetTitle},
	}

	result := Apply(raw, rules)
	assert.Equal(t, "second", result.Title)
}

func TestApplyAppendJoinsWithBlankLine(t *testing.T) {
	raw := decode(t, `{
		"descriptionofwork": "A lone figure.",
		"artistprojectstatement": "About solitude."
	}`)

	rules := []Rule{
		{SourcePath: "$.descriptionofwork", TargetField: TargetDescription, Operation: OpAppend},
		{SourcePath: "$.artistprojectstatement", TargetField: TargetDescription, Operation: OpAppend,
			Template: "### Artist statement"},
	}

	result := Apply(raw, rules)
	assert.Equal(t, "A lone figure.\n\n### Artist statement\n\nAbout solitude.", result.Description)
}

func TestApplyAssignResetsAppendBuffer(t *testing.T) {
	raw := decode(t, `{"a": "one", "b": "two", "c": "three"}`)

	rules := []Rule{
		{SourcePath: "$.a", TargetField: TargetDescription, Operation: OpAppend},
		{SourcePath: "$.b", TargetField: TargetDescription, Operation: OpAssign},
		{SourcePath: "$.c", TargetField: TargetDescription, Operation: OpAppend},
	}

	result := Apply(raw, rules)
	assert.Equal(t, "two\n\nthree", result.Description)
}

func TestApplyMissingPathWarnsAndSkips(t *testing.T) {
	raw := decode(t, `{"present": "yes"}`)

	rules := []Rule{
		{SourcePath: "$.present", TargetField: TargetTitle},
		{SourcePath: "$.absent", TargetField: "tag:material"},
	}

	result := Apply(raw, rules)

	assert.Equal(t, "yes", result.Title)
	_, ok := result.Tags.Get("material")
	assert.False(t, ok, "mapper must never invent tag keys")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "$.absent")
}

func TestApplyTemplatePlaceholder(t *testing.T) {
	raw := decode(t, `{"sitename": "Drake & Hornby"}`)

	rules := []Rule{
		{SourcePath: "$.sitename", TargetField: TargetDescription,
			Template: "Located at {{value}}."},
	}

	result := Apply(raw, rules)
	assert.Equal(t, "Located at Drake & Hornby.", result.Description)
}

func TestApplyStringifiesNonScalars(t *testing.T) {
	raw := decode(t, `{
		"artists": ["alice", "bob"],
		"count": 3,
		"ratio": 0.5,
		"flag": true,
		"nested": {"k": "v"}
	}`)

	tests := []struct {
		path string
		want string
	}{
		{"$.artists", "alice, bob"},
		{"$.count", "3"},
		{"$.ratio", "0.5"},
		{"$.flag", "true"},
		{"$.nested", `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := Apply(raw, []Rule{{SourcePath: tt.path, TargetField: TargetTitle}})
			assert.Equal(t, tt.want, result.Title)
		})
	}
}

func TestApplyArrayIndex(t *testing.T) {
	raw := decode(t, `{"artists": ["alice", "bob"]}`)

	result := Apply(raw, []Rule{{SourcePath: "$.artists[1]", TargetField: TargetTitle}})
	assert.Equal(t, "bob", result.Title)

	result = Apply(raw, []Rule{{SourcePath: "$.artists[5]", TargetField: TargetTitle}})
	assert.Empty(t, result.Title)
	assert.Len(t, result.Warnings, 1)
}

// Mapping must be idempotent: the same input and rules always produce byte
// identical output, including tag order.
func TestApplyIdempotent(t *testing.T) {
	raw := decode(t, `{
		"title_of_work": "Solo",
		"type": "Sculpture",
		"neighbourhood": "West End",
		"descriptionofwork": "A lone figure."
	}`)

	rules := []Rule{
		{SourcePath: "$.title_of_work", TargetField: TargetTitle},
		{SourcePath: "$.descriptionofwork", TargetField: TargetDescription, Operation: OpAppend},
		{SourcePath: "$.type", TargetField: "tag:artwork_type"},
		{SourcePath: "$.neighbourhood", TargetField: "tag:neighbourhood"},
	}

	first := Apply(raw, rules)
	second := Apply(raw, rules)

	firstJSON, err := json.Marshal(first.Tags)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Tags)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, string(firstJSON), string(secondJSON))
	assert.Equal(t, first.Warnings, second.Warnings)
}
