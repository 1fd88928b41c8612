package registry

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
	"github.com/cadwire/cadwire-go/pkg/version"
)

//go:embed decls/*.yaml
var declFS embed.FS

// Supplemental record types are declared in embedded YAML rather than
// code. These are the mechanical table-record declarations; everything
// with behavior (templates with geometry, re-dispatch) stays in code.

type yamlAttr struct {
	Name     string `yaml:"name"`
	Code     int    `yaml:"code"`
	Kind     string `yaml:"kind"`
	Default  any    `yaml:"default"`
	Optional bool   `yaml:"optional"`
	Since    string `yaml:"since"`
}

type yamlSubclass struct {
	Name  string     `yaml:"name"`
	Attrs []yamlAttr `yaml:"attrs"`
}

type yamlType struct {
	Name       string         `yaml:"name"`
	Subclasses []yamlSubclass `yaml:"subclasses"`
}

type declFile struct {
	Description string     `yaml:"description"`
	Types       []yamlType `yaml:"types"`
}

var yamlKinds = map[string]schema.Kind{
	"string":  schema.String,
	"integer": schema.Integer,
	"float":   schema.Float,
	"bool":    schema.Bool,
	"point2d": schema.Point2D,
	"point3d": schema.Point3D,
	"handle":  schema.HandleRef,
	"binary":  schema.Binary,
}

// LoadDecls registers the embedded supplemental type declarations.
func LoadDecls(r *Registry) error {
	entries, err := fs.Glob(declFS, "decls/*.yaml")
	if err != nil {
		return err
	}
	for _, path := range entries {
		data, err := declFS.ReadFile(path)
		if err != nil {
			return err
		}
		var file declFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, yt := range file.Types {
			d, err := buildDecl(yt)
			if err != nil {
				return fmt.Errorf("%s: type %s: %w", path, yt.Name, err)
			}
			if err := r.Register(*d); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildDecl(yt yamlType) (*Decl, error) {
	if yt.Name == "" {
		return nil, fmt.Errorf("declaration needs a name")
	}
	defs := make([]schema.SubclassDef, 0, len(yt.Subclasses))
	for _, ys := range yt.Subclasses {
		attrs := make([]schema.Attr, 0, len(ys.Attrs))
		for _, ya := range ys.Attrs {
			a, err := buildAttr(ya)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, a)
		}
		defs = append(defs, schema.NewSubclass(ys.Name, attrs...))
	}
	sch, err := schema.Compile(defs...)
	if err != nil {
		return nil, err
	}
	return &Decl{
		Type:     yt.Name,
		Schema:   sch,
		Template: Template(yt.Name, sch),
	}, nil
}

func buildAttr(ya yamlAttr) (schema.Attr, error) {
	kind, ok := yamlKinds[ya.Kind]
	if !ok {
		return schema.Attr{}, fmt.Errorf("attribute %q: unknown kind %q", ya.Name, ya.Kind)
	}
	a := schema.Attr{
		Name:     ya.Name,
		Code:     ya.Code,
		Kind:     kind,
		Optional: ya.Optional,
	}
	if ya.Since != "" {
		rel, err := version.Parse(ya.Since)
		if err != nil {
			return schema.Attr{}, fmt.Errorf("attribute %q: %w", ya.Name, err)
		}
		a.Since = rel
	}
	if ya.Default != nil {
		def, err := normalizeDefault(kind, ya.Default)
		if err != nil {
			return schema.Attr{}, fmt.Errorf("attribute %q: %w", ya.Name, err)
		}
		a.Default = def
	}
	return a, nil
}

// normalizeDefault converts the YAML decoded value into the stored
// representation of the attribute kind.
func normalizeDefault(kind schema.Kind, v any) (any, error) {
	switch kind {
	case schema.Integer:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		}
	case schema.Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case schema.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case schema.String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.HandleRef:
		if s, ok := v.(string); ok && tag.ValidHandle(s) {
			return tag.Handle(s), nil
		}
	case schema.Point2D, schema.Point3D:
		if raw, ok := v.([]any); ok {
			comps := make([]float64, 0, len(raw))
			for _, c := range raw {
				switch n := c.(type) {
				case float64:
					comps = append(comps, n)
				case int:
					comps = append(comps, float64(n))
				default:
					return nil, fmt.Errorf("bad point component %v", c)
				}
			}
			switch len(comps) {
			case 2:
				return tag.NewPoint2D(comps[0], comps[1]), nil
			case 3:
				return tag.NewPoint3D(comps[0], comps[1], comps[2]), nil
			}
		}
	}
	return nil, fmt.Errorf("default %v does not fit kind %s", v, kind)
}
