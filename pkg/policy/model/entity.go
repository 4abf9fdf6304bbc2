package model

import (
	"fmt"
	"log/slog"
	"sort"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
	"starttls-hq/everywhere/pkg/policy/schema"
)

// Kind identifies the entity type.
type Kind string

const (
	KindPolicy      Kind = "policy"
	KindPolicyAlias Kind = "policy-alias"
	KindPinset      Kind = "pinset"
	KindConfig      Kind = "config"
)

// Entity is an attribute store validated by a schema. It is embedded by the
// concrete entity types, which route writes through their own Set so that
// references can be checked against the enclosing document.
type Entity struct {
	kind   Kind
	schema *schema.Schema
	data   map[string]any
}

func newEntity(kind Kind, s *schema.Schema) Entity {
	return Entity{
		kind:   kind,
		schema: s,
		data:   make(map[string]any),
	}
}

// Kind returns the entity type.
func (e *Entity) Kind() Kind {
	return e.kind
}

// Schema returns the schema validating this entity.
func (e *Entity) Schema() *schema.Schema {
	return e.schema
}

// Get returns a copy of the field's value. Fields forbidden on this entity
// always read as absent.
func (e *Entity) Get(field string) (any, bool) {
	if f, ok := e.schema.Lookup(field); ok && f.Enforce.Kind() == schema.KindForbidden {
		return nil, false
	}
	value, ok := e.data[field]
	if !ok {
		return nil, false
	}
	return schema.Clone(value), true
}

// Has reports whether the field is set.
func (e *Entity) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Wire returns the attribute mapping with nested entities converted to their
// own wire form. The result shares no state with the entity.
func (e *Entity) Wire() map[string]any {
	out := make(map[string]any, len(e.data))
	for k, v := range e.data {
		out[k] = wireValue(v)
	}
	return out
}

// set validates value with the field's enforcer and stores a copy of it.
// Fields the schema does not declare are stored unvalidated.
func (e *Entity) set(field string, value any, ctx map[string]any) error {
	if f, ok := e.schema.Lookup(field); ok {
		if err := f.Enforce.Validate(value, ctx); err != nil {
			return schema.FieldError(f, value, err)
		}
	}
	e.data[field] = schema.Clone(value)
	return nil
}

func (e *Entity) getString(field string) string {
	v, _ := e.data[field].(string)
	return v
}

func (e *Entity) getBool(field string) bool {
	v, _ := e.data[field].(bool)
	return v
}

func (e *Entity) getStrings(field string) []string {
	items, ok := schema.AsList(e.data[field])
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// settable is implemented by every concrete entity.
type settable interface {
	entity() *Entity
	Set(field string, value any) error
}

// load applies every field of m, declared fields first in schema order, then
// runs the required/default pass.
func load(e settable, m map[string]any) error {
	base := e.entity()
	for _, f := range base.schema.Fields() {
		if value, ok := m[f.Name]; ok {
			if err := e.Set(f.Name, value); err != nil {
				return err
			}
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if !base.schema.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := e.Set(k, m[k]); err != nil {
			return err
		}
	}

	return applyDefaults(e)
}

// applyDefaults injects defaults for absent fields and fails on absent
// required fields.
func applyDefaults(e settable) error {
	base := e.entity()
	for _, f := range base.schema.Fields() {
		if _, ok := base.data[f.Name]; ok {
			continue
		}
		switch {
		case f.HasDefault:
			if err := e.Set(f.Name, schema.Clone(f.Default)); err != nil {
				return err
			}
		case f.Required:
			return policyErrors.MissingField(f.Name)
		}
	}
	return nil
}

// combine fills fresh from older and newer. Without merge, fields come only
// from newer. With merge, fields newer leaves unset keep the older value and
// container fields set on both sides are extended.
// missingOperand is returned when an entity is combined with nil.
func missingOperand(kind Kind) *policyErrors.Error {
	return &policyErrors.Error{
		Type:    policyErrors.ErrorTypeTypeMismatch,
		Message: fmt.Sprintf("attempting to combine a %s with nothing", kind),
	}
}

func combine(older, newer, fresh settable, merge bool) error {
	oldBase, newBase := older.entity(), newer.entity()
	if oldBase.kind != newBase.kind {
		return &policyErrors.Error{
			Type:    policyErrors.ErrorTypeTypeMismatch,
			Message: fmt.Sprintf("attempting to combine a %s with a %s", oldBase.kind, newBase.kind),
		}
	}

	slog.Debug("combining entities", "kind", oldBase.kind, "merge", merge)

	for _, f := range oldBase.schema.Fields() {
		newValue, newOK := newBase.Get(f.Name)
		oldValue, oldOK := oldBase.Get(f.Name)

		switch {
		case newOK:
			if merge && oldOK {
				newValue = extend(oldValue, newValue)
			}
			if err := fresh.Set(f.Name, newValue); err != nil {
				return err
			}
		case merge && oldOK:
			if err := fresh.Set(f.Name, oldValue); err != nil {
				return err
			}
		}
	}
	return nil
}

// extend appends list values and overlays mapping values. Other values are
// replaced by newer.
func extend(older, newer any) any {
	if oldMap, ok := older.(map[string]any); ok {
		if newMap, ok := newer.(map[string]any); ok {
			out := make(map[string]any, len(oldMap)+len(newMap))
			for k, v := range oldMap {
				out[k] = v
			}
			for k, v := range newMap {
				out[k] = v
			}
			return out
		}
	}

	oldList, oldOK := schema.AsList(older)
	newList, newOK := schema.AsList(newer)
	if oldOK && newOK {
		out := make([]any, 0, len(oldList)+len(newList))
		out = append(out, oldList...)
		return append(out, newList...)
	}

	return newer
}

func wireValue(value any) any {
	switch v := value.(type) {
	case schema.Wirer:
		return v.Wire()
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = wireValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = wireValue(item)
		}
		return out
	}
	return schema.Clone(value)
}

// names returns a context collection holding the keys of m.
func names[T any](m map[string]T) map[string]any {
	out := make(map[string]any, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
