// Package schema declares the structural contract of a record type: the
// static mapping from logical attribute names to (subclass position,
// group code, value kind, default, optionality, minimum release).
//
// Schemas are composed from shared base subclasses plus type-specific
// subclasses and compiled once at registry initialization; compiled
// schemas are immutable and safe for concurrent reads.
//
//	acdbCircle := schema.NewSubclass("AcDbCircle",
//	    schema.Attr{Name: "center", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
//	    schema.Attr{Name: "radius", Code: 40, Kind: schema.Float, Default: 1.0},
//	    schema.Attr{Name: "thickness", Code: 39, Kind: schema.Float, Default: 0.0, Optional: true},
//	)
//	sch := schema.MustCompile(Base(), Entity(), acdbCircle)
package schema
