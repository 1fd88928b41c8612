package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

func lineDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbLine",
			schema.Attr{Name: "start", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "end", Code: 11, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "thickness", Code: 39, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "extrusion", Code: 210, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 1), Optional: true},
		),
	)
	return registry.Decl{
		Type:     "LINE",
		Schema:   sch,
		Template: registry.Template("LINE", sch),
	}
}
