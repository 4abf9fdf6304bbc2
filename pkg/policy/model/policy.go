package model

// References holds the sibling collections a policy may name.
type References struct {
	Pinsets map[string]*Pinset
	Aliases map[string]*Policy
}

func (r References) context() map[string]any {
	return map[string]any{
		FieldPinsets:       names(r.Pinsets),
		FieldPolicyAliases: names(r.Aliases),
	}
}

// Policy is the transport security policy of one mail domain, or a named
// alias target when created with NewPolicyAlias.
type Policy struct {
	Entity
	refs References
}

// NewPolicy creates a policy from its wire mapping. The pin and policy-alias
// fields must name entries of refs.
func NewPolicy(data map[string]any, refs References) (*Policy, error) {
	p := newPolicy(KindPolicy, refs)
	if err := load(p, data); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPolicyAlias creates an alias target. Its policy-alias field is forbidden.
func NewPolicyAlias(data map[string]any, pinsets map[string]*Pinset) (*Policy, error) {
	p := newPolicy(KindPolicyAlias, References{Pinsets: pinsets})
	if err := load(p, data); err != nil {
		return nil, err
	}
	return p, nil
}

func newPolicy(kind Kind, refs References) *Policy {
	s := PolicySchema(kind == KindPolicy)
	return &Policy{Entity: newEntity(kind, s), refs: refs}
}

// Load applies the fields of data.
func (p *Policy) Load(data map[string]any) error {
	return load(p, data)
}

func (p *Policy) entity() *Entity {
	return &p.Entity
}

// Set validates and stores a field. References are checked against the
// collections the policy was created with.
func (p *Policy) Set(field string, value any) error {
	return p.set(field, value, p.refs.context())
}

// IsAliasTarget reports whether the policy is a policy-alias entry.
func (p *Policy) IsAliasTarget() bool {
	return p.kind == KindPolicyAlias
}

// MinTLSVersion returns the minimum accepted TLS version.
func (p *Policy) MinTLSVersion() string {
	return p.getString(FieldMinTLSVersion)
}

// Mode returns the enforcement mode.
func (p *Policy) Mode() string {
	return p.getString(FieldMode)
}

// MXs returns the accepted mail exchanger patterns in document order.
func (p *Policy) MXs() []string {
	return p.getStrings(FieldMXs)
}

// TLSReport returns the reporting endpoint, if any.
func (p *Policy) TLSReport() string {
	return p.getString(FieldTLSReport)
}

// Pin returns the name of the referenced pinset, if any.
func (p *Policy) Pin() string {
	return p.getString(FieldPin)
}

// PinSet returns the referenced pinset.
func (p *Policy) PinSet() (*Pinset, bool) {
	name := p.Pin()
	if name == "" {
		return nil, false
	}
	ps, ok := p.refs.Pinsets[name]
	return ps, ok
}

// MTASTS reports whether the domain publishes MTA-STS.
func (p *Policy) MTASTS() bool {
	return p.getBool(FieldMTASTS)
}

// PolicyAlias returns the name of the aliased policy. Alias targets always
// return an empty string.
func (p *Policy) PolicyAlias() string {
	v, ok := p.Get(FieldPolicyAlias)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Resolve returns the effective policy: the alias target when the policy
// carries a policy-alias, otherwise the policy itself.
func (p *Policy) Resolve() *Policy {
	if name := p.PolicyAlias(); name != "" {
		if target, ok := p.refs.Aliases[name]; ok {
			return target
		}
	}
	return p
}

// Update returns a new policy holding only other's fields.
func (p *Policy) Update(other *Policy) (*Policy, error) {
	return p.combine(other, false)
}

// Merge returns a new policy where other's fields override p's and list
// fields set on both are concatenated.
func (p *Policy) Merge(other *Policy) (*Policy, error) {
	return p.combine(other, true)
}

func (p *Policy) combine(other *Policy, merge bool) (*Policy, error) {
	if other == nil {
		return nil, missingOperand(p.kind)
	}
	fresh := newPolicy(other.kind, mergeRefs(p.refs, other.refs))
	if err := combine(p, other, fresh, merge); err != nil {
		return nil, err
	}
	return fresh, nil
}

func mergeRefs(older, newer References) References {
	out := References{
		Pinsets: make(map[string]*Pinset, len(older.Pinsets)+len(newer.Pinsets)),
		Aliases: make(map[string]*Policy, len(older.Aliases)+len(newer.Aliases)),
	}
	for k, v := range older.Pinsets {
		out.Pinsets[k] = v
	}
	for k, v := range newer.Pinsets {
		out.Pinsets[k] = v
	}
	for k, v := range older.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range newer.Aliases {
		out.Aliases[k] = v
	}
	return out
}
