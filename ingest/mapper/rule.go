package mapper

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/openartmap/artcat/errors"
)

// Operation selects how a rule writes into its target field
type Operation string

const (
	// OpAssign overwrites the target; the last assign in rule order wins.
	OpAssign Operation = "assign"
	// OpAppend accumulates values in rule order, joined with a blank line.
	OpAppend Operation = "append"
)

// Target field prefixes understood by the mapper
const (
	TargetTitle       = "artwork.title"
	TargetDescription = "artwork.description"
	tagTargetPrefix   = "tag:"
)

// Rule is one declarative mapping instruction: extract the value at
// SourcePath from the raw source record and write it to TargetField.
type Rule struct {
	SourcePath  string    `json:"source_path"`
	TargetField string    `json:"target_field"`
	Operation   Operation `json:"operation,omitempty"` // empty means assign
	// Template wraps the extracted value. "{{value}}" marks the insertion
	// point; a template without the placeholder is treated as a heading the
	// value is placed under.
	Template string `json:"template,omitempty"`
}

// TagKey returns the tag key addressed by the rule's target, if any
func (r Rule) TagKey() (string, bool) {
	if strings.HasPrefix(r.TargetField, tagTargetPrefix) {
		return r.TargetField[len(tagTargetPrefix):], true
	}
	return "", false
}

// op normalizes the rule's operation, defaulting to assign
func (r Rule) op() Operation {
	if r.Operation == "" {
		return OpAssign
	}
	return r.Operation
}

// Validate checks the rule is structurally sound
func (r Rule) Validate() error {
	if strings.TrimSpace(r.SourcePath) == "" {
		return errors.New("rule source_path cannot be empty")
	}
	if _, err := parsePath(r.SourcePath); err != nil {
		return errors.Wrap(err, "rule source_path")
	}

	switch {
	case r.TargetField == TargetTitle, r.TargetField == TargetDescription:
	case strings.HasPrefix(r.TargetField, tagTargetPrefix):
		if key, _ := r.TagKey(); strings.TrimSpace(key) == "" {
			return errors.Newf("rule target %q has an empty tag key", r.TargetField)
		}
	default:
		return errors.Newf("rule target must be %s, %s, or tag:<key>, got %q",
			TargetTitle, TargetDescription, r.TargetField)
	}

	switch r.op() {
	case OpAssign, OpAppend:
	default:
		return errors.Newf("rule operation must be %q or %q, got %q", OpAssign, OpAppend, r.Operation)
	}

	return nil
}

// LoadScript reads a mapping script: a JSON array of rules, evaluated in
// declaration order. A malformed script is a configuration error and aborts
// the run before any record is processed.
func LoadScript(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfiguration(err, "reading mapping script")
	}
	return ParseScript(data)
}

// ParseScript parses and validates mapping-script JSON
func ParseScript(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, errors.WrapConfiguration(err, "parsing mapping script")
	}

	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, errors.WrapConfiguration(err, errors.Newf("mapping script rule %d", i).Error())
		}
	}

	return rules, nil
}
