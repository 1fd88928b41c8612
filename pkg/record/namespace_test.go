package record

import (
	"errors"
	"testing"

	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

func circleSchema() *schema.Schema {
	return schema.MustCompile(
		schema.NewSubclass("",
			schema.Attr{Name: "handle", Code: 5, Kind: schema.HandleRef},
			schema.Attr{Name: "owner", Code: 330, Kind: schema.HandleRef},
		),
		schema.NewSubclass("AcDbEntity",
			schema.Attr{Name: "layer", Code: 8, Kind: schema.String, Default: "0"},
			schema.Attr{Name: "color", Code: 62, Kind: schema.Integer, Default: int64(256), Optional: true},
		),
		schema.NewSubclass("AcDbCircle",
			schema.Attr{Name: "center", Code: 10, Kind: schema.Point3D, Default: tag.NewPoint3D(0, 0, 0)},
			schema.Attr{Name: "radius", Code: 40, Kind: schema.Float, Default: 1.0},
			schema.Attr{Name: "thickness", Code: 39, Kind: schema.Float, Default: 0.0, Optional: true},
		),
	)
}

func circleSet(t *testing.T) *tag.ClassifiedTagSet {
	t.Helper()
	set, err := tag.Classify(tag.Sequence{
		{Code: 0, Value: "CIRCLE"},
		{Code: 5, Value: tag.Handle("FE")},
		{Code: 100, Value: "AcDbEntity"},
		{Code: 8, Value: "walls"},
		{Code: 100, Value: "AcDbCircle"},
		{Code: 10, Value: tag.NewPoint3D(1, 2, 3)},
		{Code: 40, Value: 2.5},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	return set
}

func TestNamespaceGet(t *testing.T) {
	ns := New(circleSet(t), circleSchema())

	t.Run("Stored", func(t *testing.T) {
		v, err := ns.Float("radius")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != 2.5 {
			t.Errorf("expected 2.5, got %v", v)
		}
	})

	t.Run("Default", func(t *testing.T) {
		v, err := ns.Float("thickness")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != 0.0 {
			t.Errorf("expected default 0.0, got %v", v)
		}
	})

	t.Run("Fallback", func(t *testing.T) {
		v, err := ns.GetOr("color", int64(7))
		if err != nil {
			t.Fatalf("GetOr failed: %v", err)
		}
		if v != int64(7) {
			t.Errorf("fallback beats schema default: expected 7, got %v", v)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ns.Get("bogus")
		if !errors.Is(err, schema.ErrUnknownAttr) {
			t.Errorf("expected ErrUnknownAttr, got %v", err)
		}
	})

	t.Run("AbsentNoDefault", func(t *testing.T) {
		_, err := ns.Get("owner")
		if !errors.Is(err, ErrAbsentAttr) {
			t.Errorf("expected ErrAbsentAttr, got %v", err)
		}
	})
}

func TestNamespaceSet(t *testing.T) {
	t.Run("ReplaceInPlace", func(t *testing.T) {
		set := circleSet(t)
		ns := New(set, circleSchema())
		// radius is the second tag of subclass 2; it must stay there
		if err := ns.Set("radius", 9.0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		sub := set.Subclasses[2]
		if sub.Tags[1].Code != 40 || sub.Tags[1].Value != 9.0 {
			t.Errorf("tag not replaced in place: %v", sub.Tags)
		}
		if len(sub.Tags) != 2 {
			t.Errorf("expected 2 tags, got %d", len(sub.Tags))
		}
	})

	t.Run("AppendNew", func(t *testing.T) {
		set := circleSet(t)
		ns := New(set, circleSchema())
		if err := ns.Set("thickness", 0.5); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		sub := set.Subclasses[2]
		last := sub.Tags[len(sub.Tags)-1]
		if last.Code != 39 || last.Value != 0.5 {
			t.Errorf("new tag must be appended at subclass end: %v", sub.Tags)
		}
	})

	t.Run("WriteThenRead", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		if err := ns.Set("center", tag.NewPoint3D(7, 8, 9)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		p, err := ns.Point("center")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if p != tag.NewPoint3D(7, 8, 9) {
			t.Errorf("expected (7,8,9), got %v", p)
		}
	})

	t.Run("CoerceIntToFloat", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		if err := ns.Set("radius", 3); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, err := ns.Float("radius")
		if err != nil || v != 3.0 {
			t.Errorf("expected 3.0, got %v (%v)", v, err)
		}
	})

	t.Run("CoerceFloatToIntTruncates", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		if err := ns.Set("color", 7.9); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, err := ns.Int("color")
		if err != nil || v != 7 {
			t.Errorf("expected 7, got %v (%v)", v, err)
		}
	})

	t.Run("RejectWrongType", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		err := ns.Set("radius", "not a number")
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("expected ErrInvalidValue, got %v", err)
		}
	})

	t.Run("RejectLineBreaks", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		err := ns.Set("layer", "a\nb")
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("expected ErrInvalidValue, got %v", err)
		}
	})

	t.Run("SetterEvent", func(t *testing.T) {
		ns := New(circleSet(t), circleSchema())
		var got any
		ns.OnSet("layer", func(v any) { got = v })
		if err := ns.Set("layer", "roof"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if got != "roof" {
			t.Errorf("setter event not fired, got %v", got)
		}
	})
}

func TestNamespaceHasDelete(t *testing.T) {
	set := circleSet(t)
	ns := New(set, circleSchema())

	if !ns.Has("radius") {
		t.Error("radius is physically present")
	}
	if ns.Has("thickness") {
		t.Error("thickness has a default but no tag; Has must be false")
	}

	if err := ns.Delete("radius"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ns.Has("radius") {
		t.Error("radius must be gone after Delete")
	}
	// default still applies after deletion
	v, err := ns.Float("radius")
	if err != nil || v != 1.0 {
		t.Errorf("expected schema default 1.0, got %v (%v)", v, err)
	}

	t.Run("DeleteAbsentIsNoop", func(t *testing.T) {
		if err := ns.Delete("thickness"); err != nil {
			t.Errorf("deleting an absent attribute must not fail: %v", err)
		}
	})

	t.Run("DeleteUnknownFails", func(t *testing.T) {
		if err := ns.Delete("bogus"); !errors.Is(err, schema.ErrUnknownAttr) {
			t.Errorf("expected ErrUnknownAttr, got %v", err)
		}
	})
}

func TestComputedAttr(t *testing.T) {
	sch := schema.MustCompile(
		schema.NewSubclass("",
			schema.Attr{Name: "handle", Code: 5, Kind: schema.HandleRef},
		),
		schema.NewSubclass("AcDbPolyline",
			schema.Attr{Name: "count", Code: 90, Kind: schema.Integer,
				Compute: func(set *tag.ClassifiedTagSet) (any, error) {
					sub := &set.Subclasses[1]
					return int64(len(sub.Tags.FindAll(10))), nil
				}},
			schema.Attr{Name: "vertex", Code: 10, Kind: schema.Point2D, Default: tag.NewPoint2D(0, 0)},
		),
	)
	set, err := tag.Classify(tag.Sequence{
		{Code: 0, Value: "LWPOLYLINE"},
		{Code: 100, Value: "AcDbPolyline"},
		{Code: 10, Value: tag.NewPoint2D(0, 0)},
		{Code: 10, Value: tag.NewPoint2D(1, 0)},
		{Code: 10, Value: tag.NewPoint2D(1, 1)},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	ns := New(set, sch)

	v, err := ns.Int("count")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 3 {
		t.Errorf("expected computed count 3, got %v", v)
	}

	if err := ns.Set("count", 5); !errors.Is(err, ErrReadOnlyAttr) {
		t.Errorf("expected ErrReadOnlyAttr, got %v", err)
	}
	if ns.Has("count") {
		t.Error("computed attributes are never physically present")
	}
}

func TestMultiOccurrenceCodes(t *testing.T) {
	// four vertex positions sharing one coordinate base code
	sch := schema.MustCompile(
		schema.NewSubclass("",
			schema.Attr{Name: "handle", Code: 5, Kind: schema.HandleRef},
		),
		schema.NewSubclass("AcDbQuad",
			schema.Attr{Name: "vtx0", Code: 10, Kind: schema.Point2D, Default: tag.NewPoint2D(0, 0)},
			schema.Attr{Name: "vtx1", Code: 10, Kind: schema.Point2D, Default: tag.NewPoint2D(0, 0)},
			schema.Attr{Name: "vtx2", Code: 10, Kind: schema.Point2D, Default: tag.NewPoint2D(0, 0)},
			schema.Attr{Name: "vtx3", Code: 10, Kind: schema.Point2D, Default: tag.NewPoint2D(0, 0)},
		),
	)
	set, err := tag.Classify(tag.Sequence{
		{Code: 0, Value: "QUAD"},
		{Code: 100, Value: "AcDbQuad"},
		{Code: 10, Value: tag.NewPoint2D(0, 0)},
		{Code: 10, Value: tag.NewPoint2D(1, 0)},
		{Code: 10, Value: tag.NewPoint2D(1, 1)},
		{Code: 10, Value: tag.NewPoint2D(0, 1)},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	ns := New(set, sch)

	p, err := ns.Point("vtx2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p != tag.NewPoint2D(1, 1) {
		t.Errorf("expected (1,1), got %v", p)
	}

	// modifying the third occurrence must keep its position
	if err := ns.Set("vtx2", tag.NewPoint2D(9, 9)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	sub := set.Subclasses[1]
	if sub.Tags[2].Value != tag.NewPoint2D(9, 9) {
		t.Errorf("third occurrence not updated in place: %v", sub.Tags)
	}
	if sub.Tags[1].Value != tag.NewPoint2D(1, 0) || sub.Tags[3].Value != tag.NewPoint2D(0, 1) {
		t.Errorf("other occurrences disturbed: %v", sub.Tags)
	}
}

func TestFlatLegacyRecord(t *testing.T) {
	// records loaded from pre-modern streams have one flat group; all
	// attributes resolve into it regardless of schema position
	set, err := tag.Classify(tag.Sequence{
		{Code: 0, Value: "CIRCLE"},
		{Code: 8, Value: "walls"},
		{Code: 10, Value: tag.NewPoint3D(1, 2, 0)},
		{Code: 40, Value: 2.0},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	ns := New(set, circleSchema())

	v, err := ns.Float("radius")
	if err != nil || v != 2.0 {
		t.Errorf("expected 2.0, got %v (%v)", v, err)
	}
	layer, err := ns.String("layer")
	if err != nil || layer != "walls" {
		t.Errorf("expected walls, got %q (%v)", layer, err)
	}

	if err := ns.Set("radius", 4.0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if set.Subclasses[0].Tags[3].Value != 4.0 {
		t.Errorf("flat record must be updated in place: %v", set.Subclasses[0].Tags)
	}
}
