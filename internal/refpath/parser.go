package refpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex parses a single segment of a path, e.g. `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[(\d+)\])?$`)

// charsetRegex matches strings built only from the characters a reference may contain.
var charsetRegex = regexp.MustCompile(`^@?[A-Za-z0-9_.\[\]]+$`)

// LooksLikeReference reports whether raw only contains characters that may
// appear in a reference: identifier characters, `.`, `[` and `]`, with an
// optional leading `@`.
func LooksLikeReference(raw string) bool {
	return charsetRegex.MatchString(raw)
}

// Parse creates a new Path by parsing its string representation.
func Parse(raw string) (*Path, error) {
	raw = strings.TrimPrefix(raw, "@")
	if raw == "" {
		return nil, fmt.Errorf("reference cannot be empty")
	}

	p := &Path{}
	for _, segmentStr := range strings.Split(raw, ".") {
		if segmentStr == "" {
			return nil, fmt.Errorf("reference %q contains empty segment", raw)
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return nil, fmt.Errorf("invalid reference segment format: %q", segmentStr)
		}

		segment := NewSegment(matches[1])
		if matches[2] != "" {
			// The regex admits only digits, so Atoi fails only when the
			// index does not fit in an int.
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("index of segment %q is out of range: %w", segmentStr, err)
			}
			segment.Index = index
		}
		p.Segments = append(p.Segments, segment)
	}

	return p, nil
}

// nameRegex matches a plain identifier: the form every entity name must take
// so that it can appear as a path segment.
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name can be used as a path segment.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}
