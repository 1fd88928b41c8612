package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

func pointDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbPoint",
			schema.Attr{Name: "location", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "angle", Code: 50, Kind: schema.Float, Default: 0.0, Optional: true},
		),
	)
	return registry.Decl{
		Type:     "POINT",
		Schema:   sch,
		Template: registry.Template("POINT", sch),
	}
}

func solidDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbTrace",
			schema.Attr{Name: "vtx0", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "vtx1", Code: 11, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "vtx2", Code: 12, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "vtx3", Code: 13, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
		),
	)
	return registry.Decl{
		Type:     "SOLID",
		Schema:   sch,
		Template: registry.Template("SOLID", sch),
	}
}
