package schema

import (
	"errors"
	"fmt"

	"github.com/cadwire/cadwire-go/pkg/tag"
	"github.com/cadwire/cadwire-go/pkg/version"
)

// Schema errors.
var (
	ErrUnknownAttr = errors.New("unknown attribute")
)

// Kind is the declared value kind of an attribute.
type Kind uint8

const (
	String Kind = iota
	Integer
	Float
	Bool
	Point2D
	Point3D
	HandleRef
	Binary
)

// String returns the kind name.
func (k Kind) String() string {
	names := []string{
		"string", "integer", "float", "bool", "point2d", "point3d", "handle", "binary",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "string"
}

// ComputeFunc derives a read-only attribute value from the record's tag
// set, e.g. a count that must always equal the length of some other
// packed structure.
type ComputeFunc func(set *tag.ClassifiedTagSet) (any, error)

// Attr declares one attribute of a record type.
type Attr struct {
	// Name is the logical attribute name.
	Name string

	// Code is the group code carrying the attribute.
	Code int

	// Kind is the declared value kind.
	Kind Kind

	// Default is returned by reads when the tag is absent. Optional
	// attributes must declare a default; it doubles as the export
	// suppression reference.
	Default any

	// Optional attributes are omitted on export when equal to Default.
	Optional bool

	// Since is the minimum release supporting the attribute. The zero
	// value means the attribute exists in every release.
	Since version.Release

	// Compute makes the attribute read-only and derived: reads invoke
	// the function, writes fail. Computed attributes never touch tags.
	Compute ComputeFunc
}

// IsComputed reports whether the attribute is derived and read-only.
func (a *Attr) IsComputed() bool { return a.Compute != nil }

// SubclassDef is a subclass name plus its ordered attribute declarations.
// The declaration order is the canonical write order for new records.
type SubclassDef struct {
	Name  string
	Attrs []Attr
}

// NewSubclass builds a subclass definition.
func NewSubclass(name string, attrs ...Attr) SubclassDef {
	return SubclassDef{Name: name, Attrs: attrs}
}

type resolved struct {
	pos  int
	attr *Attr
}

// Schema is the compiled, immutable attribute table of one record type:
// an ordered sequence of subclass definitions plus the derived
// name-to-(subclass position, attribute) lookup.
type Schema struct {
	defs   []SubclassDef
	byName map[string]resolved
}

// Compile builds a schema from subclass definitions. The first
// definition is the unnamed base group; composition preserves the exact
// subclass order, which older readers validate strictly.
//
// Compile fails fast on structural mistakes: a named leading subclass,
// duplicate attribute names, optional attributes without a default, or
// computed attributes carrying default/optional declarations.
func Compile(defs ...SubclassDef) (*Schema, error) {
	if len(defs) == 0 {
		return nil, errors.New("schema needs at least the base subclass")
	}
	if defs[0].Name != "" {
		return nil, fmt.Errorf("leading subclass must be unnamed, got %q", defs[0].Name)
	}

	s := &Schema{
		defs:   make([]SubclassDef, len(defs)),
		byName: make(map[string]resolved),
	}
	copy(s.defs, defs)

	for pos := range s.defs {
		def := &s.defs[pos]
		for i := range def.Attrs {
			a := &def.Attrs[i]
			if a.Name == "" {
				return nil, fmt.Errorf("subclass %q: attribute %d has no name", def.Name, i)
			}
			if _, dup := s.byName[a.Name]; dup {
				return nil, fmt.Errorf("duplicate attribute name %q", a.Name)
			}
			if a.IsComputed() {
				if a.Optional || a.Default != nil {
					return nil, fmt.Errorf("computed attribute %q cannot be optional or carry a default", a.Name)
				}
			} else if a.Optional && a.Default == nil {
				return nil, fmt.Errorf("optional attribute %q needs an explicit default", a.Name)
			}
			if a.Since != "" && !a.Since.Valid() {
				return nil, fmt.Errorf("attribute %q: unknown release %q", a.Name, a.Since)
			}
			s.byName[a.Name] = resolved{pos: pos, attr: a}
		}
	}
	return s, nil
}

// MustCompile is Compile for statically known declarations; it panics on
// error.
func MustCompile(defs ...SubclassDef) *Schema {
	s, err := Compile(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Resolve returns the subclass position and declaration of a logical
// attribute name.
func (s *Schema) Resolve(name string) (int, *Attr, error) {
	r, ok := s.byName[name]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownAttr, name)
	}
	return r.pos, r.attr, nil
}

// Has reports whether the schema declares the attribute.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// SubclassIndex returns the position of the first subclass named name at
// or after start, or -1. Record types may legitimately repeat a subclass
// name across their variants; callers walk occurrences by raising start.
func (s *Schema) SubclassIndex(name string, start int) int {
	for i := start; i < len(s.defs); i++ {
		if s.defs[i].Name == name {
			return i
		}
	}
	return -1
}

// Occurrences returns how many subclasses carry the given name.
func (s *Schema) Occurrences(name string) int {
	n := 0
	for _, def := range s.defs {
		if def.Name == name {
			n++
		}
	}
	return n
}

// Subclasses returns the ordered subclass definitions.
func (s *Schema) Subclasses() []SubclassDef { return s.defs }

// Len returns the number of subclass definitions.
func (s *Schema) Len() int { return len(s.defs) }

// CodeAttrs returns the declarations in subclass pos carrying the given
// group code, in declaration order. More than one attribute may share a
// code where a record repeats a base code (e.g. four corner points).
func (s *Schema) CodeAttrs(pos, code int) []*Attr {
	if pos < 0 || pos >= len(s.defs) {
		return nil
	}
	var out []*Attr
	def := &s.defs[pos]
	for i := range def.Attrs {
		if def.Attrs[i].Code == code {
			out = append(out, &def.Attrs[i])
		}
	}
	return out
}
