package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies an enforcer variant.
type Kind int

const (
	KindAny Kind = iota
	KindOneOf
	KindType
	KindListOf
	KindValuesOf
	KindSchema
	KindInContext
	KindForbidden
	KindAllOf
)

// String returns the enforcer kind name.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindOneOf:
		return "one-of"
	case KindType:
		return "type"
	case KindListOf:
		return "list-of"
	case KindValuesOf:
		return "values-of"
	case KindSchema:
		return "schema"
	case KindInContext:
		return "in-context"
	case KindForbidden:
		return "forbidden"
	case KindAllOf:
		return "all-of"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Enforcer tests the validity of a single value. The zero value accepts
// anything.
type Enforcer struct {
	kind      Kind
	options   []string
	valueType ValueType
	elems     []Enforcer
	schema    *Schema
	field     string
	reason    string
}

// Any returns an enforcer that accepts every value.
func Any() Enforcer {
	return Enforcer{kind: KindAny}
}

// OneOf returns an enforcer that accepts strings from options.
func OneOf(options ...string) Enforcer {
	return Enforcer{kind: KindOneOf, options: append([]string(nil), options...)}
}

// TypeOf returns an enforcer that accepts values of type t.
func TypeOf(t ValueType) Enforcer {
	return Enforcer{kind: KindType, valueType: t}
}

// ListOf returns an enforcer that accepts lists whose elements all satisfy elem.
func ListOf(elem Enforcer) Enforcer {
	return Enforcer{kind: KindListOf, elems: []Enforcer{elem}}
}

// ValuesOf returns an enforcer that accepts mappings whose values all satisfy elem.
func ValuesOf(elem Enforcer) Enforcer {
	return Enforcer{kind: KindValuesOf, elems: []Enforcer{elem}}
}

// Matches returns an enforcer that accepts mappings satisfying s.
// Defaults of s are injected into the checked mapping.
func Matches(s *Schema) Enforcer {
	return Enforcer{kind: KindSchema, schema: s}
}

// InContext returns an enforcer that accepts a string naming an entry of the
// context's field collection (a key of a mapping or an element of a list).
func InContext(field string) Enforcer {
	return Enforcer{kind: KindInContext, field: field}
}

// Forbidden returns an enforcer that rejects every value. It disables a field
// on a schema variant; reason is reported to writers.
func Forbidden(reason string) Enforcer {
	return Enforcer{kind: KindForbidden, reason: reason}
}

// AllOf returns an enforcer that accepts values satisfying every enforcer.
func AllOf(enforcers ...Enforcer) Enforcer {
	return Enforcer{kind: KindAllOf, elems: append([]Enforcer(nil), enforcers...)}
}

// Kind returns the enforcer variant.
func (e Enforcer) Kind() Kind {
	return e.kind
}

// Reason returns the rejection reason of a Forbidden enforcer.
func (e Enforcer) Reason() string {
	return e.reason
}

// Check reports whether value is valid. ctx is the enclosing document and
// may be nil.
func (e Enforcer) Check(value any, ctx map[string]any) bool {
	return e.Validate(value, ctx) == nil
}

// Validate returns nil if value is valid, or an error describing why not.
func (e Enforcer) Validate(value any, ctx map[string]any) error {
	switch e.kind {
	case KindAny:
		return nil

	case KindOneOf:
		s, ok := value.(string)
		if ok {
			for _, opt := range e.options {
				if s == opt {
					return nil
				}
			}
		}
		return fmt.Errorf("value %v is not one of %s", value, strings.Join(e.options, ", "))

	case KindType:
		if !e.valueType.Matches(value) {
			return fmt.Errorf("value %v is not of type %s", value, e.valueType)
		}
		return nil

	case KindListOf:
		items, ok := AsList(value)
		if !ok {
			return fmt.Errorf("value %v is not a list", value)
		}
		for i, item := range items {
			if err := e.elems[0].Validate(item, ctx); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	case KindValuesOf:
		m, ok := AsMap(value)
		if !ok {
			return fmt.Errorf("value %v is not a mapping", value)
		}
		for _, key := range sortedKeys(m) {
			if err := e.elems[0].Validate(m[key], ctx); err != nil {
				return fmt.Errorf("entry %q: %w", key, err)
			}
		}
		return nil

	case KindSchema:
		m, ok := AsMap(value)
		if !ok {
			return fmt.Errorf("value %v is not a mapping", value)
		}
		_, err := Check(m, e.schema, ctx, true)
		return err

	case KindInContext:
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("reference %v is not a string", value)
		}
		if !contains(ctx[e.field], name) {
			return fmt.Errorf("%q is not defined in %s", name, e.field)
		}
		return nil

	case KindForbidden:
		reason := e.reason
		if reason == "" {
			reason = "field is not permitted"
		}
		return fmt.Errorf("%s", reason)

	case KindAllOf:
		for _, elem := range e.elems {
			if err := elem.Validate(value, ctx); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unknown enforcer kind %s", e.kind)
}

// contains reports whether collection has an entry named name.
func contains(collection any, name string) bool {
	switch c := collection.(type) {
	case map[string]any:
		_, ok := c[name]
		return ok
	case []string:
		for _, item := range c {
			if item == name {
				return true
			}
		}
	case []any:
		for _, item := range c {
			if s, ok := item.(string); ok && s == name {
				return true
			}
		}
	case Wirer:
		_, ok := c.Wire()[name]
		return ok
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
