// Package model implements the typed, schema-backed policy document.
//
// Every entity (Policy, Policy-Alias, Pinset, Config) is an Entity: an
// attribute store whose writes are checked by the entity's schema before they
// are stored. Typed accessors such as Policy.Mode or Config.Timestamp read
// from the same store.
//
// # Reference Integrity
//
// A Policy may name a pinset ("pin") or another policy ("policy-alias").
// Both must exist in the enclosing Config, and they are checked when the
// policy is assigned, not when it is looked up. Config therefore applies its
// fields in schema order: pinsets and policy-aliases before policies.
//
//	cfg := model.NewConfig()
//	cfg.Set("pinsets", map[string]any{"eff": map[string]any{"static-spki-hashes": []any{"..."}}})
//	cfg.Set("policies", map[string]any{"eff.org": map[string]any{"pin": "eff"}})
//
// # Combination
//
// Update and Merge combine two entities of the same kind into a fresh one.
// Update takes every field from the newer entity and drops what it leaves
// unset; Merge keeps old values the newer entity leaves unset and extends
// container fields (lists are appended, mappings overlaid). Neither mutates
// its operands.
package model
