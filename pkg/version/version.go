// Package version provides DXF release identifiers, ordering and the
// release capability manifest.
package version

import (
	"fmt"
	"strings"
)

// Release identifies one format revision by its internal name ("AC1015").
// Releases are ordered; "minimum release" comparisons are well defined.
type Release string

// Known releases, oldest first.
const (
	R2_5  Release = "AC1002"
	R2_6  Release = "AC1003"
	R9    Release = "AC1004"
	R10   Release = "AC1006"
	R12   Release = "AC1009"
	R13   Release = "AC1012"
	R14   Release = "AC1014"
	R2000 Release = "AC1015"
	R2004 Release = "AC1018"
	R2007 Release = "AC1021"
	R2010 Release = "AC1024"
	R2013 Release = "AC1027"
	R2018 Release = "AC1032"
)

// Latest is the newest release implemented by this library.
const Latest = R2018

// ordinals assigns each release its position in the revision history.
var ordinals = map[Release]int{
	R2_5: 0, R2_6: 1, R9: 2, R10: 3, R12: 4, R13: 5, R14: 6,
	R2000: 7, R2004: 8, R2007: 9, R2010: 10, R2013: 11, R2018: 12,
}

// acadNames maps the common release names to internal names.
var acadNames = map[string]Release{
	"R2.5": R2_5, "R2.6": R2_6, "R9": R9, "R10": R10, "R12": R12,
	"R13": R13, "R14": R14, "R2000": R2000, "R2004": R2004,
	"R2007": R2007, "R2010": R2010, "R2013": R2013, "R2018": R2018,
}

// Parse accepts an internal name ("AC1015") or a common release name
// ("R2000") and returns the Release.
func Parse(s string) (Release, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	r := Release(s)
	if _, ok := ordinals[r]; ok {
		return r, nil
	}
	if r, ok := acadNames[s]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown release %q", s)
}

// Valid reports whether r is a known release.
func (r Release) Valid() bool {
	_, ok := ordinals[r]
	return ok
}

// Ordinal returns the release's position in the revision history.
// Unknown releases sort before everything.
func (r Release) Ordinal() int {
	if n, ok := ordinals[r]; ok {
		return n
	}
	return -1
}

// Compare returns -1, 0 or +1 ordering r against other.
func (r Release) Compare(other Release) int {
	a, b := r.Ordinal(), other.Ordinal()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r is other or newer.
func (r Release) AtLeast(other Release) bool {
	return r.Compare(other) >= 0
}

// HasSubclassMarkers reports whether the release uses explicit subclass
// markers. Revisions before R13 write every record as one flat group.
func (r Release) HasSubclassMarkers() bool {
	return r.AtLeast(R13)
}

// String returns the internal name.
func (r Release) String() string { return string(r) }
