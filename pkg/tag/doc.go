// Package tag implements the flat tag value model of the DXF format.
//
// A tag is one (group code, value) pair. The group code selects the value
// kind: distinct numeric ranges denote string, integer, floating point,
// boolean, binary chunk, handle and point values. Three consecutive tags
// whose codes differ by +10/+20 from a shared base code represent one 2D
// or 3D point and are coalesced into a single tag by Compile.
//
// The package also provides the classifier, which groups one record's tag
// sequence into named subclasses plus side channels for application
// defined data, extended data (XDATA) and embedded objects.
//
// # Usage
//
//	seq, err := tag.Compile([]tag.RawTag{
//	    {Code: 0, Value: "LINE"},
//	    {Code: 5, Value: "FE"},
//	    {Code: 100, Value: "AcDbEntity"},
//	    {Code: 8, Value: "0"},
//	    {Code: 100, Value: "AcDbLine"},
//	    {Code: 10, Value: "1.0"}, {Code: 20, Value: "2.0"}, {Code: 30, Value: "0.0"},
//	})
//	if err != nil { ... }
//	set, err := tag.Classify(seq)
package tag
