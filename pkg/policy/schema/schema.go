package schema

// Field describes one field of an entity schema.
type Field struct {
	Name       string
	Enforce    Enforcer
	Default    any
	HasDefault bool
	Required   bool
}

// Optional declares a field with no default that may be absent.
func Optional(name string, enforce Enforcer) Field {
	return Field{Name: name, Enforce: enforce}
}

// Required declares a field that must be present.
func Required(name string, enforce Enforcer) Field {
	return Field{Name: name, Enforce: enforce, Required: true}
}

// WithDefault declares a field whose absence is filled with def.
func WithDefault(name string, enforce Enforcer, def any) Field {
	return Field{Name: name, Enforce: enforce, Default: def, HasDefault: true}
}

// Schema is an ordered, immutable set of fields.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New creates a schema. Field order is preserved: Check and the model apply
// fields in declaration order, so fields that others refer to come first.
func New(name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		f.Default = Clone(f.Default)
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema declares the field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Derive returns a copy of s named name, with the given fields replacing
// same-named fields. The receiver is not modified.
func (s *Schema) Derive(name string, replacements ...Field) *Schema {
	fields := s.Fields()
	for _, r := range replacements {
		if i, ok := s.index[r.Name]; ok {
			fields[i] = r
		} else {
			fields = append(fields, r)
		}
	}
	return New(name, fields...)
}
