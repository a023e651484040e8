package mapper

import (
	"strconv"
	"strings"

	"github.com/openartmap/artcat/errors"
)

// pathSegment is one step of a parsed source path: either an object key or an
// array index.
type pathSegment struct {
	key   string
	index int
	isKey bool
}

// parsePath parses a dot/bracket JSON path such as
//
//	$.photourl.url
//	$.artists[0]
//	$["field with spaces"].value
//
// The leading "$" is optional. Wildcards, filters, and recursive descent are
// not supported; mapping scripts only ever address one value.
func parsePath(path string) ([]pathSegment, error) {
	s := strings.TrimSpace(path)
	s = strings.TrimPrefix(s, "$")

	var segs []pathSegment
	for len(s) > 0 {
		switch {
		case s[0] == '.':
			s = s[1:]
			end := strings.IndexAny(s, ".[")
			if end == -1 {
				end = len(s)
			}
			if end == 0 {
				return nil, errors.Newf("empty segment in path %q", path)
			}
			segs = append(segs, pathSegment{key: s[:end], isKey: true})
			s = s[end:]

		case s[0] == '[':
			close := strings.IndexByte(s, ']')
			if close == -1 {
				return nil, errors.Newf("unterminated bracket in path %q", path)
			}
			inner := s[1:close]
			s = s[close+1:]

			if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') {
				if inner[len(inner)-1] != inner[0] {
					return nil, errors.Newf("unterminated quote in path %q", path)
				}
				segs = append(segs, pathSegment{key: inner[1 : len(inner)-1], isKey: true})
				continue
			}

			idx, err := strconv.Atoi(inner)
			if err != nil || idx < 0 {
				return nil, errors.Newf("invalid array index %q in path %q", inner, path)
			}
			segs = append(segs, pathSegment{index: idx})

		default:
			// Bare first segment without a leading dot ("title_of_work")
			end := strings.IndexAny(s, ".[")
			if end == -1 {
				end = len(s)
			}
			segs = append(segs, pathSegment{key: s[:end], isKey: true})
			s = s[end:]
		}
	}

	if len(segs) == 0 {
		return nil, errors.Newf("empty path %q", path)
	}
	return segs, nil
}

// evalPath resolves a parsed path against a decoded JSON document.
// Returns (nil, false) when any step is missing or mistyped; resolution never
// fails hard because missing source fields are an expected condition.
func evalPath(doc interface{}, segs []pathSegment) (interface{}, bool) {
	current := doc
	for _, seg := range segs {
		if seg.isKey {
			obj, ok := current.(map[string]interface{})
			if !ok {
				return nil, false
			}
			current, ok = obj[seg.key]
			if !ok {
				return nil, false
			}
		} else {
			arr, ok := current.([]interface{})
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			current = arr[seg.index]
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
