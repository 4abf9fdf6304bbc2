// Package schema implements declarative validation of untyped documents.
//
// A Schema is an ordered, immutable table of fields. Each field carries an
// Enforcer, an optional default and a required flag. Check walks a document
// (a map[string]any as produced by a JSON or YAML decoder) against a schema:
//
//   - absent fields receive a copy of their default, or fail if required
//   - present fields are passed to their enforcer
//   - fields the schema does not mention are left untouched
//
// Enforcers form a closed set of kinds (membership, type match, list,
// mapping values, nested schema, sibling reference, forbidden and a
// conjunction of those). Each one receives an optional context, the enclosing
// top-level document, so that a policy's "pin" can be checked against the
// document's "pinsets".
//
// # Basic Usage
//
//	pinsets := schema.New("pinset",
//	    schema.Optional("static-spki-hashes", schema.ListOf(schema.TypeOf(schema.TypeString))),
//	)
//	ok, err := schema.Check(doc, pinsets, nil, true)
//
// With strict set to false, Check never returns an error and reports the
// outcome through its boolean result instead.
package schema
