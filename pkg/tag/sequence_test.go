package tag

import (
	"errors"
	"testing"
)

func TestCompile(t *testing.T) {
	t.Run("Coalesce3DPoint", func(t *testing.T) {
		seq, err := Compile([]RawTag{
			{Code: 0, Value: "LINE"},
			{Code: 10, Value: "1.0"},
			{Code: 20, Value: "2.0"},
			{Code: 30, Value: "3.0"},
			{Code: 40, Value: "0.5"},
		})
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(seq) != 3 {
			t.Fatalf("expected 3 tags, got %d", len(seq))
		}
		p, ok := seq[1].Value.(Point)
		if !ok || !p.HasZ || p.X != 1 || p.Y != 2 || p.Z != 3 {
			t.Errorf("unexpected point value: %v", seq[1].Value)
		}
	})

	t.Run("Coalesce2DPoint", func(t *testing.T) {
		seq, err := Compile([]RawTag{
			{Code: 10, Value: "1.0"},
			{Code: 20, Value: "2.0"},
			{Code: 70, Value: "1"},
		})
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		p := seq[0].Value.(Point)
		if p.HasZ {
			t.Errorf("expected 2D point, got %v", p)
		}
	})

	t.Run("MissingYComponent", func(t *testing.T) {
		_, err := Compile([]RawTag{
			{Code: 10, Value: "1.0"},
			{Code: 40, Value: "2.0"},
		})
		if !errors.Is(err, ErrMalformedTag) {
			t.Errorf("expected ErrMalformedTag, got %v", err)
		}
	})

	t.Run("RepeatedPointCodes", func(t *testing.T) {
		// SOLID repeats its corner codes; each coalesces independently.
		seq, err := Compile([]RawTag{
			{Code: 10, Value: "0"}, {Code: 20, Value: "0"},
			{Code: 11, Value: "1"}, {Code: 21, Value: "0"},
			{Code: 12, Value: "1"}, {Code: 22, Value: "1"},
			{Code: 13, Value: "0"}, {Code: 23, Value: "1"},
		})
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(seq) != 4 {
			t.Fatalf("expected 4 point tags, got %d", len(seq))
		}
		for i, want := range []int{10, 11, 12, 13} {
			if seq[i].Code != want {
				t.Errorf("tag %d: expected code %d, got %d", i, want, seq[i].Code)
			}
		}
	})

	t.Run("CodeOutOfRange", func(t *testing.T) {
		_, err := Compile([]RawTag{{Code: 2000, Value: "x"}})
		if !errors.Is(err, ErrMalformedTag) {
			t.Errorf("expected ErrMalformedTag, got %v", err)
		}
	})
}

func TestSequenceExpand(t *testing.T) {
	seq := Sequence{
		{Code: 0, Value: "POINT"},
		{Code: 10, Value: NewPoint3D(1, 2, 3)},
	}
	flat := seq.Expand()
	want := []int{0, 10, 20, 30}
	if len(flat) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(flat))
	}
	for i, code := range want {
		if flat[i].Code != code {
			t.Errorf("tag %d: expected code %d, got %d", i, code, flat[i].Code)
		}
	}
}

func TestSequenceType(t *testing.T) {
	seq := Sequence{{Code: 0, Value: "CIRCLE"}}
	name, ok := seq.Type()
	if !ok || name != "CIRCLE" {
		t.Errorf("expected CIRCLE, got %q (%v)", name, ok)
	}

	if _, ok := (Sequence{{Code: 8, Value: "0"}}).Type(); ok {
		t.Error("sequence without leading type tag should report no type")
	}
}
