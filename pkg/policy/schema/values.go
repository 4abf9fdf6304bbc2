package schema

import (
	"encoding/json"
	"time"
)

// ValueType is a type accepted by TypeOf.
type ValueType int

const (
	TypeAny ValueType = iota
	TypeString
	TypeBool
	TypeInteger
	TypeInstant
	TypeMap
	TypeList
)

// String returns the type name used in error messages.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "integer"
	case TypeInstant:
		return "instant"
	case TypeMap:
		return "mapping"
	case TypeList:
		return "list"
	default:
		return "any"
	}
}

// Matches reports whether value is of type t.
func (t ValueType) Matches(value any) bool {
	switch t {
	case TypeAny:
		return value != nil
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBool:
		_, ok := value.(bool)
		return ok
	case TypeInteger:
		_, ok := AsInt(value)
		return ok
	case TypeInstant:
		_, ok := value.(time.Time)
		return ok
	case TypeMap:
		_, ok := AsMap(value)
		return ok
	case TypeList:
		_, ok := AsList(value)
		return ok
	}
	return false
}

// Wirer is implemented by model entities. Enforcers check such values through
// their wire form.
type Wirer interface {
	Wire() map[string]any
}

// AsMap returns value as a mapping.
func AsMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, v != nil
	case Wirer:
		return v.Wire(), true
	}
	return nil, false
}

// AsList returns value as a list.
func AsList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	}
	return nil, false
}

// AsInt returns value as an integer. Decoded JSON numbers are accepted when
// they hold an integral value.
func AsInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

// Clone returns a deep copy of mappings and lists. Other values are returned
// unchanged.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string{}, v...)
	}
	return value
}
