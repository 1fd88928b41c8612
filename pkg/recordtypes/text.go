package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// TEXT is the one built-in type that repeats a subclass name: the
// vertical alignment lives in a second AcDbText group after the first.
func textDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbText",
			schema.Attr{Name: "insert", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "height", Code: 40, Kind: schema.Float, Default: 1.0},
			schema.Attr{Name: "text", Code: 1, Kind: schema.String, Default: ""},
			schema.Attr{Name: "rotation", Code: 50, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "style", Code: 7, Kind: schema.String, Default: "Standard", Optional: true},
			schema.Attr{Name: "halign", Code: 72, Kind: schema.Integer, Default: int64(0), Optional: true},
		),
		schema.NewSubclass("AcDbText",
			schema.Attr{Name: "valign", Code: 73, Kind: schema.Integer, Default: int64(0), Optional: true},
		),
	)
	return registry.Decl{
		Type:     "TEXT",
		Schema:   sch,
		Template: registry.Template("TEXT", sch),
	}
}
