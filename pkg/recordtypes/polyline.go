package recordtypes

import (
	"github.com/cadwire/cadwire-go/pkg/registry"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// POLYLINE flag bits (code 70).
const (
	polyClosed   = 1
	poly3D       = 8
	polyMesh     = 16
	polyFaceMesh = 64
)

// polylineFlags reads the flags tag wherever it sits; legacy records
// carry it in the flat base group, modern ones in the data subclass.
func polylineFlags(set *tag.ClassifiedTagSet) int64 {
	for i := range set.Subclasses {
		for _, t := range set.Subclasses[i].Tags {
			if t.Code == 70 {
				if n, ok := t.Value.(int64); ok {
					return n
				}
			}
		}
	}
	return 0
}

// redispatchPolyline picks the specific variant from the flag bits,
// resolved once at load time.
func redispatchPolyline(set *tag.ClassifiedTagSet) string {
	flags := polylineFlags(set)
	switch {
	case flags&poly3D != 0:
		return "POLYLINE_3D"
	case flags&polyFaceMesh != 0:
		return "POLYFACE"
	case flags&polyMesh != 0:
		return "POLYMESH"
	default:
		return ""
	}
}

func polylineCommon() []schema.Attr {
	return []schema.Attr{
		{Name: "elevation", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0), Optional: true},
		{Name: "flags", Code: 70, Kind: schema.Integer, Default: int64(0), Optional: true},
		{Name: "start_width", Code: 40, Kind: schema.Float, Default: 0.0, Optional: true},
		{Name: "end_width", Code: 41, Kind: schema.Float, Default: 0.0, Optional: true},
		{Name: "extrusion", Code: 210, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 1), Optional: true},
	}
}

func polylineDecls() []registry.Decl {
	poly2d := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDb2dPolyline", polylineCommon()...),
	)
	poly3d := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDb3dPolyline", polylineCommon()...),
	)
	mesh := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbPolygonMesh", append(polylineCommon(),
			schema.Attr{Name: "mcount", Code: 71, Kind: schema.Integer, Default: int64(0)},
			schema.Attr{Name: "ncount", Code: 72, Kind: schema.Integer, Default: int64(0)},
			schema.Attr{Name: "m_density", Code: 73, Kind: schema.Integer, Default: int64(0), Optional: true},
			schema.Attr{Name: "n_density", Code: 74, Kind: schema.Integer, Default: int64(0), Optional: true},
		)...),
	)
	face := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbPolyFaceMesh", append(polylineCommon(),
			schema.Attr{Name: "vertex_count", Code: 71, Kind: schema.Integer, Default: int64(0)},
			schema.Attr{Name: "face_count", Code: 72, Kind: schema.Integer, Default: int64(0)},
		)...),
	)

	return []registry.Decl{
		{
			Type:       "POLYLINE",
			Schema:     poly2d,
			Template:   registry.Template("POLYLINE", poly2d),
			Redispatch: redispatchPolyline,
		},
		{Type: "POLYLINE_3D", Schema: poly3d},
		{Type: "POLYMESH", Schema: mesh},
		{Type: "POLYFACE", Schema: face},
	}
}

func vertexDecl() registry.Decl {
	sch := schema.MustCompile(
		baseDef(),
		entityDef(),
		schema.NewSubclass("AcDbVertex"),
		schema.NewSubclass("AcDb2dVertex",
			schema.Attr{Name: "location", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "start_width", Code: 40, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "end_width", Code: 41, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "bulge", Code: 42, Kind: schema.Float, Default: 0.0, Optional: true},
			schema.Attr{Name: "flags", Code: 70, Kind: schema.Integer, Default: int64(0), Optional: true},
			schema.Attr{Name: "tangent", Code: 50, Kind: schema.Float, Default: 0.0, Optional: true},
		),
	)
	return registry.Decl{
		Type:     "VERTEX",
		Schema:   sch,
		Template: registry.Template("VERTEX", sch),
	}
}

func seqendDecl() registry.Decl {
	sch := schema.MustCompile(baseDef(), entityDef())
	return registry.Decl{
		Type:     "SEQEND",
		Schema:   sch,
		Template: registry.Template("SEQEND", sch),
	}
}
