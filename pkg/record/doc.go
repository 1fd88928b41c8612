// Package record provides the dynamic attribute surface of one record: a
// Namespace binds a classified tag set to its schema and exposes
// get/set/has/delete by logical attribute name.
//
// The namespace owns no state of its own; the tag set is always the
// single source of truth. Release handling is not a namespace concern,
// the in-memory model is release-agnostic and filtering happens at
// export time.
package record
