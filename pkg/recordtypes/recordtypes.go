package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
	"github.com/cadwire/cadwire-go/pkg/version"
)

// baseDef is the unnamed base group shared by every record type.
func baseDef() schema.SubclassDef {
	return schema.NewSubclass("",
		schema.Attr{Name: "handle", Code: tag.CodeHandle, Kind: schema.HandleRef},
		schema.Attr{Name: "owner", Code: tag.CodeOwner, Kind: schema.HandleRef, Optional: true, Default: tag.NullHandle},
	)
}

// entityDef is the AcDbEntity subclass shared by all graphical records.
func entityDef() schema.SubclassDef {
	return schema.NewSubclass("AcDbEntity",
		schema.Attr{Name: "layer", Code: 8, Kind: schema.String, Default: "0"},
		schema.Attr{Name: "linetype", Code: 6, Kind: schema.String, Default: "BYLAYER", Optional: true},
		schema.Attr{Name: "color", Code: 62, Kind: schema.Integer, Default: int64(256), Optional: true},
		schema.Attr{Name: "lineweight", Code: 370, Kind: schema.Integer, Default: int64(-1), Optional: true, Since: version.R2000},
		schema.Attr{Name: "transparency", Code: 440, Kind: schema.Integer, Default: int64(0), Optional: true, Since: version.R2004},
	)
}

// Register adds every code-declared record type to the registry.
func Register(r *registry.Registry) error {
	decls := []registry.Decl{
		lineDecl(),
		circleDecl(),
		textDecl(),
		pointDecl(),
		solidDecl(),
		lwpolylineDecl(),
		vertexDecl(),
		seqendDecl(),
	}
	decls = append(decls, polylineDecls()...)
	for _, d := range decls {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
