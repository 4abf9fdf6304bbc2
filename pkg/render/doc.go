// Package render turns a policy document into MTA configuration.
//
// Each supported MTA has a Generator registered by name. Generators are
// pure: they produce the configuration text and the manual steps needed to
// install it, and leave writing to WriteFile.
package render
