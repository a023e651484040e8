// Package mapper applies declarative field-mapping rules to raw source
// records. Mapping is a pure function: same raw record and rules in, byte
// identical output out, every time. All randomness (map iteration, wall
// clock) is kept out on purpose so that re-runs are diffable.
package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/openartmap/artcat/ingest/types"
)

// valuePlaceholder marks the insertion point inside a rule template
const valuePlaceholder = "{{value}}"

// Result is the mapped portion of a UnifiedImportRecord plus any non-fatal
// warnings produced while evaluating the rules.
type Result struct {
	Title       string
	Description string
	Tags        *types.Tags
	Warnings    []string
}

// Apply evaluates rules against a raw source record in declaration order.
//
// A rule whose source path does not resolve is skipped with a warning; it
// never fails the record. Assign rules overwrite the target (and discard any
// values appended so far); append rules accumulate, joined with a blank line.
func Apply(raw map[string]interface{}, rules []Rule) Result {
	result := Result{Tags: types.NewTags()}

	// Append buffers per target, in rule order
	buffers := map[string][]string{}

	for i, rule := range rules {
		segs, err := parsePath(rule.SourcePath)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule %d: invalid path %q: %v", i, rule.SourcePath, err))
			continue
		}

		value, ok := evalPath(raw, segs)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule %d: path %q did not resolve, skipping %s", i, rule.SourcePath, rule.TargetField))
			continue
		}

		text := applyTemplate(rule.Template, stringify(value))

		switch rule.op() {
		case OpAssign:
			buffers[rule.TargetField] = []string{text}
		case OpAppend:
			buffers[rule.TargetField] = append(buffers[rule.TargetField], text)
		}
	}

	// Flush buffers. Tag targets are written in rule order so the Tags
	// insertion order matches the script.
	for _, rule := range rules {
		parts, ok := buffers[rule.TargetField]
		if !ok {
			continue
		}
		delete(buffers, rule.TargetField)

		joined := strings.Join(parts, "\n\n")
		switch {
		case rule.TargetField == TargetTitle:
			result.Title = joined
		case rule.TargetField == TargetDescription:
			result.Description = joined
		default:
			if key, isTag := rule.TagKey(); isTag {
				result.Tags.Set(key, joined)
			}
		}
	}

	return result
}

// applyTemplate wraps value in the rule template. A template without the
// placeholder becomes a heading the value sits under.
func applyTemplate(template, value string) string {
	if template == "" {
		return value
	}
	if strings.Contains(template, valuePlaceholder) {
		return strings.ReplaceAll(template, valuePlaceholder, value)
	}
	return template + "\n\n" + value
}

// stringify renders an extracted JSON value as text. Scalars render plainly;
// arrays of scalars join with ", "; anything deeper falls back to compact
// JSON so no information is silently dropped.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// encoding/json decodes all numbers to float64; render integers
		// without a trailing ".0"
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ", ")
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
