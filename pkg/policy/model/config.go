package model

import (
	"fmt"
	"sort"
	"time"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
	"starttls-hq/everywhere/pkg/policy/instant"
	"starttls-hq/everywhere/pkg/policy/schema"
)

// Config is a complete policy document: metadata plus the pinsets,
// policy aliases and per-domain policies it defines.
type Config struct {
	Entity
}

// EmptyConfig returns a config with no fields set. Fields are assigned with
// Set; pinsets and policy-aliases must be set before the policies that
// reference them.
func EmptyConfig() *Config {
	return &Config{Entity: newEntity(KindConfig, configSchema)}
}

// NewConfig creates a config from its wire mapping. Instants may be given as
// epoch seconds, text or time.Time values.
func NewConfig(data map[string]any) (*Config, error) {
	c := EmptyConfig()
	if err := load(c, data); err != nil {
		return nil, err
	}
	return c, nil
}

// Load applies the fields of data, then injects defaults and checks required
// fields.
func (c *Config) Load(data map[string]any) error {
	return load(c, data)
}

func (c *Config) entity() *Entity {
	return &c.Entity
}

// Set validates and stores a field. Nested collections are rebuilt as typed
// entities bound to the document's current pinsets and policy-aliases.
func (c *Config) Set(field string, value any) error {
	var err error
	switch field {
	case FieldTimestamp, FieldExpires:
		value, err = instant.Parse(value)
	case FieldPinsets:
		value, err = c.buildPinsets(value)
	case FieldPolicyAliases:
		value, err = c.buildAliases(value)
	case FieldPolicies:
		value, err = c.buildPolicies(value)
	}
	if err != nil {
		return err
	}
	return c.set(field, value, c.data)
}

func (c *Config) buildPinsets(value any) (any, error) {
	raw, ok := schema.AsMap(value)
	if !ok {
		return nil, policyErrors.InvalidValue(FieldPinsets, value)
	}
	out := make(map[string]any, len(raw))
	for name, v := range raw {
		m, ok := schema.AsMap(v)
		if !ok {
			return nil, policyErrors.InvalidValue(FieldPinsets, v)
		}
		ps, err := NewPinset(m)
		if err != nil {
			return nil, policyErrors.Annotate(err, fmt.Sprintf("invalid pinset %q", name))
		}
		out[name] = ps
	}
	return out, nil
}

func (c *Config) buildAliases(value any) (any, error) {
	raw, ok := schema.AsMap(value)
	if !ok {
		return nil, policyErrors.InvalidValue(FieldPolicyAliases, value)
	}
	pinsets := c.Pinsets()
	out := make(map[string]any, len(raw))
	for name, v := range raw {
		m, ok := schema.AsMap(v)
		if !ok {
			return nil, policyErrors.InvalidValue(FieldPolicyAliases, v)
		}
		p, err := NewPolicyAlias(m, pinsets)
		if err != nil {
			return nil, policyErrors.Annotate(err, fmt.Sprintf("invalid policy alias %q", name))
		}
		out[name] = p
	}
	return out, nil
}

func (c *Config) buildPolicies(value any) (any, error) {
	raw, ok := schema.AsMap(value)
	if !ok {
		return nil, policyErrors.InvalidValue(FieldPolicies, value)
	}
	refs := References{Pinsets: c.Pinsets(), Aliases: c.PolicyAliases()}
	out := make(map[string]any, len(raw))
	for domain, v := range raw {
		m, ok := schema.AsMap(v)
		if !ok {
			return nil, policyErrors.InvalidValue(FieldPolicies, v)
		}
		p, err := NewPolicy(m, refs)
		if err != nil {
			return nil, policyErrors.Annotate(err, fmt.Sprintf("invalid policy for %q", domain))
		}
		out[domain] = p
	}
	return out, nil
}

// Author returns the document author, if any.
func (c *Config) Author() string {
	return c.getString(FieldAuthor)
}

// Timestamp returns the issuance instant.
func (c *Config) Timestamp() time.Time {
	t, _ := c.data[FieldTimestamp].(time.Time)
	return t
}

// Expires returns the expiry instant.
func (c *Config) Expires() time.Time {
	t, _ := c.data[FieldExpires].(time.Time)
	return t
}

// Expired reports whether the document has expired at now.
func (c *Config) Expired(now time.Time) bool {
	exp := c.Expires()
	return !exp.IsZero() && now.After(exp)
}

// Pinsets returns the pinsets by name.
func (c *Config) Pinsets() map[string]*Pinset {
	return entities[*Pinset](c.data[FieldPinsets])
}

// PolicyAliases returns the alias targets by name.
func (c *Config) PolicyAliases() map[string]*Policy {
	return entities[*Policy](c.data[FieldPolicyAliases])
}

// Policies returns the unresolved policies by domain.
func (c *Config) Policies() map[string]*Policy {
	return entities[*Policy](c.data[FieldPolicies])
}

// Domains returns the domains with a policy, sorted.
func (c *Config) Domains() []string {
	policies := c.Policies()
	domains := make([]string, 0, len(policies))
	for d := range policies {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// Len returns the number of domains with a policy.
func (c *Config) Len() int {
	return len(c.Policies())
}

// GetPolicyFor returns the effective policy of domain, following its
// policy-alias one level.
func (c *Config) GetPolicyFor(domain string) (*Policy, error) {
	p, ok := c.Policies()[domain]
	if !ok {
		return nil, &policyErrors.Error{
			Type:    policyErrors.ErrorTypeUnknownDomain,
			Field:   FieldPolicies,
			Value:   domain,
			Message: fmt.Sprintf("unknown domain %q", domain),
		}
	}
	if name := p.PolicyAlias(); name != "" {
		target, ok := c.PolicyAliases()[name]
		if !ok {
			return nil, policyErrors.New(policyErrors.ErrorTypeInvalidValue,
				"policy for %q names undefined alias %q", domain, name)
		}
		return target, nil
	}
	return p, nil
}

// Resolved returns the effective policy of every domain.
func (c *Config) Resolved() (map[string]*Policy, error) {
	out := make(map[string]*Policy, c.Len())
	for _, domain := range c.Domains() {
		p, err := c.GetPolicyFor(domain)
		if err != nil {
			return nil, err
		}
		out[domain] = p
	}
	return out, nil
}

// Validate checks the wire form of the document against the config schema.
func (c *Config) Validate() error {
	_, err := schema.Check(c.Wire(), configSchema, nil, true)
	return err
}

// Update returns a new config holding only other's fields.
func (c *Config) Update(other *Config) (*Config, error) {
	return c.combine(other, false)
}

// Merge returns a new config where other's fields override c's. Collections
// set on both documents are combined entry by entry, with other's entries
// winning.
func (c *Config) Merge(other *Config) (*Config, error) {
	return c.combine(other, true)
}

func (c *Config) combine(other *Config, merge bool) (*Config, error) {
	if other == nil {
		return nil, missingOperand(KindConfig)
	}
	fresh := EmptyConfig()
	if err := combine(c, other, fresh, merge); err != nil {
		return nil, err
	}
	return fresh, nil
}

func entities[T any](value any) map[string]T {
	m, _ := value.(map[string]any)
	out := make(map[string]T, len(m))
	for k, v := range m {
		if e, ok := v.(T); ok {
			out[k] = e
		}
	}
	return out
}
