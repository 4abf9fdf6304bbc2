package model

// Pinset is a named collection of certificate pin material.
type Pinset struct {
	Entity
}

// NewPinset creates a pinset from its wire mapping.
func NewPinset(data map[string]any) (*Pinset, error) {
	p := &Pinset{Entity: newEntity(KindPinset, pinsetSchema)}
	if err := load(p, data); err != nil {
		return nil, err
	}
	return p, nil
}

// Load applies the fields of data.
func (p *Pinset) Load(data map[string]any) error {
	return load(p, data)
}

func (p *Pinset) entity() *Entity {
	return &p.Entity
}

// Set validates and stores a field.
func (p *Pinset) Set(field string, value any) error {
	return p.set(field, value, nil)
}

// StaticSPKIHashes returns the pinned SPKI hashes.
func (p *Pinset) StaticSPKIHashes() []string {
	return p.getStrings(FieldStaticSPKIHashes)
}

// Update returns a new pinset holding only other's fields.
func (p *Pinset) Update(other *Pinset) (*Pinset, error) {
	return p.combine(other, false)
}

// Merge returns a new pinset where other's fields override p's.
func (p *Pinset) Merge(other *Pinset) (*Pinset, error) {
	return p.combine(other, true)
}

func (p *Pinset) combine(other *Pinset, merge bool) (*Pinset, error) {
	if other == nil {
		return nil, missingOperand(KindPinset)
	}
	fresh := &Pinset{Entity: newEntity(KindPinset, pinsetSchema)}
	if err := combine(p, other, fresh, merge); err != nil {
		return nil, err
	}
	return fresh, nil
}
