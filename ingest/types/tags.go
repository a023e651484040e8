package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Tags is an insertion-ordered string map. Mapping rules write tags in rule
// order and the mapper must be byte-deterministic, so a plain Go map (random
// iteration order) is not usable here.
type Tags struct {
	keys   []string
	values map[string]string
}

// NewTags returns an empty tag set
func NewTags() *Tags {
	return &Tags{values: make(map[string]string)}
}

// Set assigns value to key, preserving the key's original insertion position
// if it already exists.
func (t *Tags) Set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key and whether it exists
func (t *Tags) Get(key string) (string, bool) {
	if t == nil || t.values == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of tags
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the tag keys in insertion order
func (t *Tags) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Each calls fn for every tag in insertion order
func (t *Tags) Each(fn func(key, value string)) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		fn(k, t.values[k])
	}
}

// Map returns a plain map copy of the tags (order lost)
func (t *Tags) Map() map[string]string {
	out := make(map[string]string, t.Len())
	t.Each(func(k, v string) { out[k] = v })
	return out
}

// MarshalJSON encodes the tags as a JSON object in insertion order
func (t *Tags) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the tag set. Key order follows the
// document order of the object.
func (t *Tags) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tags must be a JSON object, got %v", tok)
	}

	t.keys = nil
	t.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		t.Set(key, value)
	}

	_, err = dec.Token() // consume closing brace
	return err
}

// SortedKeys returns the tag keys sorted lexicographically. Used where stable
// output matters more than rule order (e.g. console rendering).
func (t *Tags) SortedKeys() []string {
	out := t.Keys()
	sort.Strings(out)
	return out
}
