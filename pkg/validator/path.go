package validator

import (
	"strconv"
	"strings"
)

// Paths address values inside a JSON-like tree: $ is the root, $.field an
// object field, $.field[3] an array element. All instructions route
// through extractValueAtPath, so absence handling lives in exactly one
// place.

// extractValueAtPath descends from root along the path. The second result
// is false when any step is absent: a missing object field, an
// out-of-range index, or a descent into a value of the wrong shape.
// Absence is not an error; reporting it is the job of the instruction
// responsible for the check (CheckRequired, ValidateType).
func extractValueAtPath(root any, path string) (any, bool) {
	if path == "$" {
		return root, true
	}
	if !strings.HasPrefix(path, "$") {
		return nil, false
	}

	current := root
	rest := path[1:]
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := segmentEnd(rest)
			field := rest[:end]
			rest = rest[end:]
			obj, ok := asObject(current)
			if !ok {
				return nil, false
			}
			current, ok = obj[field]
			if !ok {
				return nil, false
			}
		case '[':
			closing := strings.IndexByte(rest, ']')
			if closing < 0 {
				return nil, false
			}
			index, err := strconv.Atoi(rest[1:closing])
			if err != nil || index < 0 {
				return nil, false
			}
			rest = rest[closing+1:]
			arr, ok := asArray(current)
			if !ok || index >= len(arr) {
				return nil, false
			}
			current = arr[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// segmentEnd returns the length of the field name starting at the head of
// s, ending at the next '.' or '['.
func segmentEnd(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '[' {
			return i
		}
	}
	return len(s)
}

// rebasePath rewrites a path compiled relative to a nested value onto its
// absolute location: the leading $ is replaced with base. rebasePath("$",
// "$.tags[1]") is "$.tags[1]"; rebasePath("$.id", "$.owner") is
// "$.owner.id".
func rebasePath(path, base string) string {
	if path == "$" {
		return base
	}
	return base + strings.TrimPrefix(path, "$")
}

// splitFieldPath splits a field path into its container path and field
// name: "$.owner.id" becomes ("$.owner", "id"). It is used to derive where
// a required-field check must look.
func splitFieldPath(path string) (container, field string) {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return "$", path
	}
	return path[:idx], path[idx+1:]
}
