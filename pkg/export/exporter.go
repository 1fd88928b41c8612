package export

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
	"github.com/cadwire/cadwire-go/pkg/version"
)

// Export errors.
var (
	ErrUnsupportedRelease = errors.New("record type unsupported at release")
)

// Exporter serializes classified records for a target release. One
// exporter serves a whole document; it is safe for concurrent use.
type Exporter struct {
	manifest *version.Manifest

	// forceOptional writes optional attributes even when equal to
	// their default. Some readers want every tag spelled out.
	forceOptional bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// ForceOptional disables suppression of optional attributes equal to
// their schema default.
func ForceOptional() Option {
	return func(e *Exporter) { e.forceOptional = true }
}

// New returns an exporter backed by the embedded release manifest.
func New(opts ...Option) (*Exporter, error) {
	m, err := version.LoadManifest()
	if err != nil {
		return nil, err
	}
	e := &Exporter{manifest: m}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export serializes the record and returns the flat tag sequence. Point
// tags stay coalesced; the byte level writer expands them.
func (e *Exporter) Export(set *tag.ClassifiedTagSet, sch *schema.Schema, release version.Release) (tag.Sequence, error) {
	var c Collector
	if err := e.ExportTo(&c, set, sch, release); err != nil {
		return nil, err
	}
	return c.Tags, nil
}

// ExportTo serializes the record into w.
//
// The base subclass is written first, without a marker, with app data
// blocks re-expanded at their original positions. Named subclasses
// follow in stored order, each opened by a (100, name) marker; for
// releases that predate markers the structure collapses into one flat
// group. Embedded objects and extended data blocks close the record in
// their loaded relative order.
//
// Attributes equal to their default are suppressed when optional;
// attributes newer than the target release are suppressed silently.
// Only an unsupported record type is a release error.
func (e *Exporter) ExportTo(w Writer, set *tag.ClassifiedTagSet, sch *schema.Schema, release version.Release) error {
	typ := set.Type()
	if typ != "" && !e.manifest.SupportsType(typ, release) {
		min, _ := e.manifest.MinRelease(typ)
		return fmt.Errorf("%w: %s needs %s, target is %s", ErrUnsupportedRelease, typ, min, release)
	}

	markers := release.HasSubclassMarkers()

	for i := range set.Subclasses {
		sub := &set.Subclasses[i]
		if markers && sub.Name != "" {
			if err := w.WriteTag(tag.Tag{Code: tag.CodeSubclassMarker, Value: sub.Name}); err != nil {
				return err
			}
		}
		if err := e.exportSubclass(w, set, sch, i, release); err != nil {
			return err
		}
	}

	if !set.Link.IsNull() {
		if err := w.WriteTag(tag.Tag{Code: tag.CodeLink, Value: set.Link}); err != nil {
			return err
		}
	}

	if len(set.EmbeddedObjects) > 0 && !markers {
		// embedded objects cannot exist in pre-modern streams
		slog.Debug("dropped embedded object on export to legacy release",
			"type", typ, "release", release)
	} else {
		for _, block := range set.EmbeddedObjects {
			if err := writeBlock(w, block); err != nil {
				return err
			}
		}
	}

	for _, block := range set.XData {
		if err := writeBlock(w, block); err != nil {
			return err
		}
	}
	return nil
}

// exportSubclass writes one subclass, filtering attribute tags and
// re-expanding app data placeholders.
func (e *Exporter) exportSubclass(w Writer, set *tag.ClassifiedTagSet, sch *schema.Schema, pos int, release version.Release) error {
	sub := &set.Subclasses[pos]

	// records loaded from pre-modern streams carry one flat group; the
	// schema's subclass positions do not apply, attrs match by code alone
	flat := len(set.Subclasses) == 1 && sch != nil && sch.Len() > 1

	occ := make(map[int]int)
	for _, t := range sub.Tags {
		if t.Code == tag.CodeAppData {
			if ref, ok := t.Value.(tag.AppDataRef); ok {
				if err := writeBlock(w, set.AppData[ref]); err != nil {
					return err
				}
				continue
			}
		}

		attr := e.attrFor(sch, pos, t.Code, occ, flat)
		if attr != nil {
			if attr.Since != "" && !release.AtLeast(attr.Since) {
				continue
			}
			if attr.Optional && !e.forceOptional && valuesEqual(t.Value, attr.Default) {
				continue
			}
			if attr.Kind == schema.Point2D {
				if p, ok := t.Value.(tag.Point); ok && p.HasZ {
					t = tag.Tag{Code: t.Code, Value: tag.NewPoint2D(p.X, p.Y)}
				}
			}
		}
		if err := w.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

// attrFor resolves the declaration governing the next occurrence of a
// code, or nil for undeclared tags, which are written through verbatim.
func (e *Exporter) attrFor(sch *schema.Schema, pos, code int, occ map[int]int, flat bool) *schema.Attr {
	if sch == nil {
		return nil
	}
	var attrs []*schema.Attr
	if flat {
		for p := 0; p < sch.Len(); p++ {
			attrs = append(attrs, sch.CodeAttrs(p, code)...)
		}
	} else {
		attrs = sch.CodeAttrs(pos, code)
	}
	if len(attrs) == 0 {
		return nil
	}
	k := occ[code]
	occ[code] = k + 1
	if k < len(attrs) {
		return attrs[k]
	}
	return nil
}

func writeBlock(w Writer, block tag.Sequence) error {
	for _, t := range block {
		if err := w.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

// valuesEqual compares a stored tag value against a schema default.
// Integers and floats compare numerically across representations.
func valuesEqual(a, b any) bool {
	if b == nil {
		return false
	}
	af, aok := floatOf(a)
	bf, bok := floatOf(b)
	if aok && bok {
		return af == bf
	}
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && string(av) == string(bv)
	case tag.Handle:
		if bv, ok := b.(tag.Handle); ok {
			return av == bv
		}
		bv, ok := b.(string)
		return ok && string(av) == bv
	default:
		return a == b
	}
}

func floatOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
