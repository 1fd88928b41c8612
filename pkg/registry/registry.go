package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cadwire/cadwire-go/pkg/handle"
	"github.com/cadwire/cadwire-go/pkg/record"
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
	"github.com/cadwire/cadwire-go/pkg/version"
)

// Registry errors.
var (
	ErrDuplicateType = errors.New("record type already registered")
	ErrNoTemplate    = errors.New("record type has no template")
)

// RedispatchFunc inspects a freshly classified record and returns the
// more specific variant type it should be wrapped as, or "" to keep the
// declared type. The classification rule belongs to the record type;
// the registry only invokes it, once, at load time.
type RedispatchFunc func(set *tag.ClassifiedTagSet) string

// Override substitutes schema and template for a release range. Older
// and newer format revisions can define different subclass layouts for
// the same type identifier.
type Override struct {
	// From and Until bound the range, inclusive. A zero Until leaves
	// the range open-ended.
	From  version.Release
	Until version.Release

	Schema   *schema.Schema
	Template tag.Sequence
}

func (o *Override) matches(r version.Release) bool {
	if !r.AtLeast(o.From) {
		return false
	}
	return o.Until == "" || o.Until.AtLeast(r)
}

// Decl declares one record type.
type Decl struct {
	// Type is the record type identifier, e.g. "CIRCLE".
	Type string

	// Schema is the compiled attribute table.
	Schema *schema.Schema

	// Template is the canonical minimal tag sequence for new records,
	// in schema declaration order. Types that are never created (only
	// loaded) may omit it.
	Template tag.Sequence

	// Redispatch, if set, runs once when a loaded record is wrapped.
	Redispatch RedispatchFunc

	// Overrides substitute schema/template per release range.
	Overrides []Override
}

// Record is one bound record: its classified tags, the governing schema
// and the namespace for attribute access.
type Record struct {
	Type   string
	Set    *tag.ClassifiedTagSet
	Schema *schema.Schema
	NS     *record.Namespace
}

// genericSchema governs records of unknown type: base handle and owner
// only, everything else passes through untouched.
var genericSchema = schema.MustCompile(
	schema.NewSubclass("",
		schema.Attr{Name: "handle", Code: tag.CodeHandle, Kind: schema.HandleRef},
		schema.Attr{Name: "owner", Code: tag.CodeOwner, Kind: schema.HandleRef, Optional: true, Default: tag.NullHandle},
	),
)

// Registry holds the record type declarations of one process. Safe for
// concurrent reads after registration.
type Registry struct {
	mu    sync.RWMutex
	decls map[string]*Decl
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{decls: make(map[string]*Decl)}
}

// Register adds a declaration. Duplicate type identifiers fail.
func (r *Registry) Register(d Decl) error {
	if d.Type == "" {
		return errors.New("declaration needs a type identifier")
	}
	if d.Schema == nil {
		return fmt.Errorf("type %s: declaration needs a schema", d.Type)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.decls[d.Type]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateType, d.Type)
	}
	r.decls[d.Type] = &d
	return nil
}

// MustRegister is Register for statically known declarations.
func (r *Registry) MustRegister(d Decl) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Known reports whether the type is registered.
func (r *Registry) Known(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decls[typ]
	return ok
}

func (r *Registry) lookup(typ string) *Decl {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.decls[typ]
}

// resolve picks the schema and template for a release, honoring
// overrides.
func (d *Decl) resolve(release version.Release) (*schema.Schema, tag.Sequence) {
	for i := range d.Overrides {
		if d.Overrides[i].matches(release) {
			o := &d.Overrides[i]
			sch, tpl := o.Schema, o.Template
			if sch == nil {
				sch = d.Schema
			}
			if tpl == nil {
				tpl = d.Template
			}
			return sch, tpl
		}
	}
	return d.Schema, d.Template
}

// Wrap binds a loaded record to its declaration. The type's re-dispatch
// hook runs once; when it names a more specific registered variant, the
// record is wrapped as that variant. Unknown types fall back to the
// generic preserve-all declaration.
func (r *Registry) Wrap(set *tag.ClassifiedTagSet, release version.Release) (*Record, error) {
	typ := set.Type()
	d := r.lookup(typ)
	if d == nil {
		slog.Debug("wrapping unknown record type generically", "type", typ)
		return &Record{
			Type:   typ,
			Set:    set,
			Schema: genericSchema,
			NS:     record.New(set, genericSchema),
		}, nil
	}

	if d.Redispatch != nil {
		if variant := d.Redispatch(set); variant != "" && variant != typ {
			if vd := r.lookup(variant); vd != nil {
				typ, d = variant, vd
			} else {
				slog.Debug("re-dispatch named an unregistered variant", "type", typ, "variant", variant)
			}
		}
	}

	sch, _ := d.resolve(release)
	if err := checkSubclassRepeats(set, sch); err != nil {
		return nil, err
	}
	return &Record{Type: typ, Set: set, Schema: sch, NS: record.New(set, sch)}, nil
}

// checkSubclassRepeats fails when a subclass name recurs more often
// than the schema declares it. Names the schema never declares pass
// through; they belong to extension dictionaries this library does not
// interpret.
func checkSubclassRepeats(set *tag.ClassifiedTagSet, sch *schema.Schema) error {
	seen := make(map[string]int)
	for _, sub := range set.Subclasses {
		if sub.Name == "" {
			continue
		}
		seen[sub.Name]++
	}
	for name, n := range seen {
		declared := sch.Occurrences(name)
		if declared > 0 && n > declared {
			return fmt.Errorf("%w: subclass %s occurs %d times, schema declares %d",
				tag.ErrClassification, name, n, declared)
		}
	}
	return nil
}

// Create synthesizes a new record from the type's canonical template at
// the given release, assigns a handle from the allocator and applies
// the constructor attributes through a fresh namespace.
func (r *Registry) Create(typ string, attribs map[string]any, alloc *handle.Allocator, release version.Release) (*Record, error) {
	d := r.lookup(typ)
	if d == nil {
		return nil, fmt.Errorf("unknown record type %s", typ)
	}
	sch, tpl := d.resolve(release)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, typ)
	}

	set, err := tag.Classify(tpl.Clone())
	if err != nil {
		return nil, fmt.Errorf("type %s: broken template: %w", typ, err)
	}
	assignHandle(set, alloc.Next())

	rec := &Record{Type: typ, Set: set, Schema: sch, NS: record.New(set, sch)}
	if err := rec.NS.Update(attribs); err != nil {
		return nil, err
	}
	return rec, nil
}

// assignHandle writes the fresh handle into the base subclass,
// replacing the template placeholder. DIMSTYLE table entries store
// their handle under code 105.
func assignHandle(set *tag.ClassifiedTagSet, h tag.Handle) {
	code := tag.CodeHandle
	if set.Type() == "DIMSTYLE" {
		code = tag.CodeDimstyleHandle
	}
	base := set.Base()
	if idx := base.Tags.FindFirst(code); idx >= 0 {
		base.Tags[idx] = tag.Tag{Code: code, Value: h}
		return
	}
	// no placeholder: insert right after the type tag
	t := tag.Tag{Code: code, Value: h}
	if len(base.Tags) > 0 && base.Tags[0].Code == tag.CodeType {
		base.Tags = append(base.Tags[:1], append(tag.Sequence{t}, base.Tags[1:]...)...)
		return
	}
	base.Tags = append(tag.Sequence{t}, base.Tags...)
}
