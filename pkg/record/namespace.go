package record

import (
	"errors"
	"fmt"

	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// Namespace errors.
var (
	ErrAbsentAttr   = errors.New("attribute not present")
	ErrReadOnlyAttr = errors.New("attribute is read-only")
	ErrInvalidValue = errors.New("invalid attribute value")
)

// Namespace is the read/write surface over one classified record. It
// holds only references; all values live in the tag set.
type Namespace struct {
	set    *tag.ClassifiedTagSet
	schema *schema.Schema
	events map[string]func(any)
}

// New binds a tag set to its schema.
func New(set *tag.ClassifiedTagSet, sch *schema.Schema) *Namespace {
	return &Namespace{set: set, schema: sch}
}

// TagSet returns the underlying classified tag set.
func (ns *Namespace) TagSet() *tag.ClassifiedTagSet { return ns.set }

// Schema returns the bound schema.
func (ns *Namespace) Schema() *schema.Schema { return ns.schema }

// OnSet registers a setter event for an attribute name. The handler runs
// after every successful Set of that attribute, e.g. to propagate a
// layer change to dependent sub-records.
func (ns *Namespace) OnSet(name string, fn func(value any)) {
	if ns.events == nil {
		ns.events = make(map[string]func(any))
	}
	ns.events[name] = fn
}

// target returns the subclass holding the attribute at schema position
// pos. Records loaded from pre-modern streams carry a single flat group;
// all attributes resolve into it.
func (ns *Namespace) target(pos int) (*tag.Subclass, error) {
	if len(ns.set.Subclasses) == 1 {
		return &ns.set.Subclasses[0], nil
	}
	if pos < 0 || pos >= len(ns.set.Subclasses) {
		return nil, fmt.Errorf("%w: record has no subclass at position %d", ErrAbsentAttr, pos)
	}
	return &ns.set.Subclasses[pos], nil
}

// locate returns the subclass and tag index of the attribute, or -1 when
// the tag is physically absent. Where several attributes of one subclass
// share a group code, the k-th declaration pairs with the k-th tag
// occurrence; positions are stable.
func (ns *Namespace) locate(pos int, attr *schema.Attr) (*tag.Subclass, int, error) {
	sub, err := ns.target(pos)
	if err != nil {
		return nil, -1, err
	}
	k := 0
	for _, a := range ns.schema.CodeAttrs(pos, attr.Code) {
		if a == attr {
			break
		}
		k++
	}
	idxs := sub.Tags.FindAll(attr.Code)
	if k < len(idxs) {
		return sub, idxs[k], nil
	}
	return sub, -1, nil
}

// Get returns the stored attribute value, or the schema default, or an
// absent-attribute error when neither exists. Computed attributes invoke
// their registered compute function.
func (ns *Namespace) Get(name string) (any, error) {
	return ns.get(name, nil, false)
}

// GetOr returns the stored value, or the caller's fallback, or the
// schema default, in that order.
func (ns *Namespace) GetOr(name string, fallback any) (any, error) {
	return ns.get(name, fallback, true)
}

func (ns *Namespace) get(name string, fallback any, haveFallback bool) (any, error) {
	pos, attr, err := ns.schema.Resolve(name)
	if err != nil {
		return nil, err
	}
	if attr.IsComputed() {
		return attr.Compute(ns.set)
	}
	sub, idx, err := ns.locate(pos, attr)
	if err == nil && idx >= 0 {
		return coerceRead(attr, sub.Tags[idx].Value)
	}
	if haveFallback && fallback != nil {
		return fallback, nil
	}
	if attr.Default != nil {
		return attr.Default, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAbsentAttr, name)
}

// Set writes the attribute value. An existing tag is replaced in place,
// preserving its position; a missing tag is appended at the end of the
// target subclass. Computed attributes reject writes.
func (ns *Namespace) Set(name string, value any) error {
	pos, attr, err := ns.schema.Resolve(name)
	if err != nil {
		return err
	}
	if attr.IsComputed() {
		return fmt.Errorf("%w: %q", ErrReadOnlyAttr, name)
	}
	coerced, err := coerceWrite(attr, value)
	if err != nil {
		return err
	}
	sub, idx, err := ns.locate(pos, attr)
	if err != nil {
		return err
	}
	t := tag.Tag{Code: attr.Code, Value: coerced}
	if idx >= 0 {
		sub.Tags[idx] = t
	} else {
		sub.Tags = append(sub.Tags, t)
	}
	if fn, ok := ns.events[name]; ok {
		fn(coerced)
	}
	return nil
}

// Has reports whether the attribute's tag is physically present,
// independent of any default.
func (ns *Namespace) Has(name string) bool {
	pos, attr, err := ns.schema.Resolve(name)
	if err != nil || attr.IsComputed() {
		return false
	}
	_, idx, err := ns.locate(pos, attr)
	return err == nil && idx >= 0
}

// Delete removes the attribute's tag if present. Deleting an absent
// attribute is a no-op, not an error; unknown names still fail.
func (ns *Namespace) Delete(name string) error {
	pos, attr, err := ns.schema.Resolve(name)
	if err != nil {
		return err
	}
	if attr.IsComputed() {
		return fmt.Errorf("%w: %q", ErrReadOnlyAttr, name)
	}
	sub, idx, err := ns.locate(pos, attr)
	if err != nil || idx < 0 {
		return nil
	}
	sub.Tags = append(sub.Tags[:idx], sub.Tags[idx+1:]...)
	return nil
}

// Update applies a map of attribute values; the first failure aborts.
func (ns *Namespace) Update(attribs map[string]any) error {
	for name, value := range attribs {
		if err := ns.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Typed convenience accessors over Get.

// String returns the attribute as a string.
func (ns *Namespace) String(name string) (string, error) {
	v, err := ns.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrInvalidValue, name)
	}
	return s, nil
}

// Int returns the attribute as an int64.
func (ns *Namespace) Int(name string) (int64, error) {
	v, err := ns.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, name)
	}
	return n, nil
}

// Float returns the attribute as a float64.
func (ns *Namespace) Float(name string) (float64, error) {
	v, err := ns.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := asFloat64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a float", ErrInvalidValue, name)
	}
	return f, nil
}

// Bool returns the attribute as a bool.
func (ns *Namespace) Bool(name string) (bool, error) {
	v, err := ns.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, name)
	}
	return b, nil
}

// Point returns the attribute as a point.
func (ns *Namespace) Point(name string) (tag.Point, error) {
	v, err := ns.Get(name)
	if err != nil {
		return tag.Point{}, err
	}
	p, ok := v.(tag.Point)
	if !ok {
		return tag.Point{}, fmt.Errorf("%w: %q is not a point", ErrInvalidValue, name)
	}
	return p, nil
}

// Handle returns the attribute as a handle reference.
func (ns *Namespace) Handle(name string) (tag.Handle, error) {
	v, err := ns.Get(name)
	if err != nil {
		return "", err
	}
	h, ok := v.(tag.Handle)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a handle", ErrInvalidValue, name)
	}
	return h, nil
}
