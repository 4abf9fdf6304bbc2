package model

import (
	"starttls-hq/everywhere/pkg/policy/schema"
)

// Policy field names.
const (
	FieldMinTLSVersion = "min-tls-version"
	FieldMode          = "mode"
	FieldMXs           = "mxs"
	FieldTLSReport     = "tls-report"
	FieldPin           = "pin"
	FieldMTASTS        = "mta-sts"
	FieldPolicyAlias   = "policy-alias"
)

// Pinset field names.
const (
	FieldStaticSPKIHashes = "static-spki-hashes"
)

// Config field names.
const (
	FieldAuthor        = "author"
	FieldTimestamp     = "timestamp"
	FieldExpires       = "expires"
	FieldPinsets       = "pinsets"
	FieldPolicyAliases = "policy-aliases"
	FieldPolicies      = "policies"
)

// Enforcement modes.
const (
	ModeTesting = "testing"
	ModeEnforce = "enforce"
)

// DefaultMinTLSVersion is the minimum TLS version of a policy that sets none.
const DefaultMinTLSVersion = "TLSv1.2"

var (
	// TLSVersions lists the accepted values of min-tls-version.
	TLSVersions = []string{"TLSv1", "TLSv1.1", "TLSv1.2", "TLSv1.3"}

	// EnforceModes lists the accepted values of mode.
	EnforceModes = []string{ModeTesting, ModeEnforce}
)

const aliasForbidden = "aliasing not permitted on an alias target"

var (
	policySchema = schema.New("policy",
		schema.WithDefault(FieldMinTLSVersion, schema.OneOf(TLSVersions...), DefaultMinTLSVersion),
		schema.WithDefault(FieldMode, schema.OneOf(EnforceModes...), ModeTesting),
		schema.WithDefault(FieldMXs, schema.ListOf(schema.TypeOf(schema.TypeString)), []any{}),
		schema.Optional(FieldTLSReport, schema.TypeOf(schema.TypeString)),
		schema.Optional(FieldPin, schema.AllOf(schema.TypeOf(schema.TypeString), schema.InContext(FieldPinsets))),
		schema.Optional(FieldMTASTS, schema.TypeOf(schema.TypeBool)),
		schema.Optional(FieldPolicyAlias, schema.AllOf(schema.TypeOf(schema.TypeString), schema.InContext(FieldPolicyAliases))),
	)

	policyAliasSchema = policySchema.Derive("policy-alias",
		schema.Optional(FieldPolicyAlias, schema.Forbidden(aliasForbidden)),
	)

	pinsetSchema = schema.New("pinset",
		schema.Optional(FieldStaticSPKIHashes, schema.ListOf(schema.TypeOf(schema.TypeString))),
	)

	// Field order matters: policies reference pinsets and policy-aliases.
	configSchema = schema.New("config",
		schema.Optional(FieldAuthor, schema.TypeOf(schema.TypeString)),
		schema.Required(FieldTimestamp, schema.TypeOf(schema.TypeInstant)),
		schema.Required(FieldExpires, schema.TypeOf(schema.TypeInstant)),
		schema.Optional(FieldPinsets, schema.ValuesOf(schema.Matches(pinsetSchema))),
		schema.Optional(FieldPolicyAliases, schema.ValuesOf(schema.Matches(policyAliasSchema))),
		schema.Optional(FieldPolicies, schema.ValuesOf(schema.Matches(policySchema))),
	)
)

// PolicySchema returns the schema of a policy. With aliasingAllowed unset it
// returns the alias-target variant, whose policy-alias field is forbidden.
func PolicySchema(aliasingAllowed bool) *schema.Schema {
	if aliasingAllowed {
		return policySchema
	}
	return policyAliasSchema
}

// PinsetSchema returns the schema of a pinset.
func PinsetSchema() *schema.Schema {
	return pinsetSchema
}

// ConfigSchema returns the schema of a top-level policy document.
func ConfigSchema() *schema.Schema {
	return configSchema
}
