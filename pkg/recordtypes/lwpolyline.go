package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// lwpolylineCount derives the vertex count from the packed vertex tags.
// The count tag must always equal the number of stored vertices, so it
// is computed, never stored.
func lwpolylineCount(set *tag.ClassifiedTagSet) (any, error) {
	idx := set.SubclassByName("AcDbPolyline", 0)
	if idx < 0 {
		idx = 0
	}
	return int64(len(set.Subclasses[idx].Tags.FindAll(10))), nil
}

func lwpolylineDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbPolyline",
			schema.Attr{Name: "count", Code: 90, Kind: schema.Integer, Compute: lwpolylineCount},
			schema.Attr{Name: "flags", Code: 70, Kind: schema.Integer, Default: int64(0), Optional: true},
			schema.Attr{Name: "const_width", Code: 43, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "elevation", Code: 38, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "thickness", Code: 39, Kind: schema.Float, Default: 0.0, Optional: true},
		),
	)
	return registry.Decl{
		Type:     "LWPOLYLINE",
		Schema:   sch,
		Template: registry.Template("LWPOLYLINE", sch),
	}
}
