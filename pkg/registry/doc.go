// Package registry maps record type identifiers to their schemas,
// templates and release-specific overrides.
//
// Wrap binds a loaded record to its declaration, re-dispatching generic
// types into their specific variants once at load time. Create
// synthesizes a new record from the type's canonical template, assigns
// a handle from the document's allocator and applies constructor
// attributes. Unknown types fall back to a preserve-all declaration so
// a document never loses records it does not understand.
package registry
