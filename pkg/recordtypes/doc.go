// Package recordtypes declares the built-in record types: their
// schemas, templates and re-dispatch rules.
//
// Each declaration is plain data over the schema engine; nothing in
// here touches tags directly except the re-dispatch hooks, which read
// flag bits to pick a variant. Register adds the code-declared types
// to a registry; the mechanical table record types live in embedded
// YAML and load through registry.LoadDecls.
package recordtypes
