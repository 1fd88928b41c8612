// Package export serializes a classified record back into a flat tag
// sequence for a target release.
//
// Export is where release handling lives: subclass markers are emitted
// only for releases that use them, attributes introduced after the
// target release are silently dropped, and optional attributes equal to
// their schema default are suppressed. A record type that does not
// exist at the target release is the only release error.
//
//	exp, err := export.New()
//	if err != nil { ... }
//	seq, err := exp.Export(set, sch, version.R2000)
package export
