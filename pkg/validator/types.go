package validator

import (
	"encoding/json"
	"math"
	"strings"
)

// ValueType is the compiled representation of a slot range, reduced to the
// shapes a JSON-like value tree can actually take. Date, DateTime, and Uri
// ranges are represented as strings in the data tree and type-check as
// strings.
type ValueType string

const (
	TypeString   ValueType = "string"
	TypeInteger  ValueType = "integer"
	TypeFloat    ValueType = "float"
	TypeBoolean  ValueType = "boolean"
	TypeDate     ValueType = "date"
	TypeDateTime ValueType = "datetime"
	TypeUri      ValueType = "uri"
	TypeObject   ValueType = "object"
	TypeArray    ValueType = "array"
	TypeAny      ValueType = "any"
)

// primitiveType maps a primitive range name to its value type. The bool
// result is false for names that are not primitives (classes, enums,
// named types, or dangling references).
func primitiveType(rangeName string) (ValueType, bool) {
	switch strings.ToLower(rangeName) {
	case "string", "str", "text":
		return TypeString, true
	case "integer", "int":
		return TypeInteger, true
	case "float", "double", "decimal":
		return TypeFloat, true
	case "boolean", "bool":
		return TypeBoolean, true
	case "date":
		return TypeDate, true
	case "datetime":
		return TypeDateTime, true
	case "uri", "url", "uriorcurie":
		return TypeUri, true
	case "any":
		return TypeAny, true
	default:
		return "", false
	}
}

// kindOf classifies a decoded JSON value. encoding/json decodes every
// number to float64, so whole-valued floats classify as Integer; the
// executor widens Integer to Float where a float is expected.
func kindOf(v any) ValueType {
	switch val := v.(type) {
	case nil:
		return TypeAny
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return TypeInteger
		}
		return TypeFloat
	case float32:
		return kindOf(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return TypeInteger
		}
		return TypeFloat
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	default:
		return TypeAny
	}
}

// matchesType reports whether a value of the given kind satisfies the
// expected type. String-represented ranges (Date, DateTime, Uri) accept
// strings; Float accepts Integer; Any accepts everything.
func matchesType(expected, actual ValueType) bool {
	switch expected {
	case TypeAny:
		return true
	case TypeDate, TypeDateTime, TypeUri:
		return actual == TypeString
	case TypeFloat:
		return actual == TypeFloat || actual == TypeInteger
	default:
		return actual == expected
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}
