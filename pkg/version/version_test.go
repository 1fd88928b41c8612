package version

import (
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Release
		ok   bool
	}{
		{"AC1015", R2000, true},
		{"ac1009", R12, true},
		{"R2000", R2000, true},
		{"r12", R12, true},
		{" R2018 ", R2018, true},
		{"AC9999", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("Parse(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("Parse(%q) should fail", c.in)
		}
	}
}

func TestOrdering(t *testing.T) {
	if !R2000.AtLeast(R12) {
		t.Error("R2000 must be at least R12")
	}
	if R12.AtLeast(R2000) {
		t.Error("R12 must not be at least R2000")
	}
	if R12.Compare(R12) != 0 {
		t.Error("a release must compare equal to itself")
	}
	if R2_5.Compare(R2018) != -1 {
		t.Error("oldest release must sort first")
	}
}

func TestHasSubclassMarkers(t *testing.T) {
	for _, r := range []Release{R2_5, R9, R10, R12} {
		if r.HasSubclassMarkers() {
			t.Errorf("%s must not use subclass markers", r)
		}
	}
	for _, r := range []Release{R13, R2000, R2018} {
		if !r.HasSubclassMarkers() {
			t.Errorf("%s must use subclass markers", r)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}

	t.Run("GatedType", func(t *testing.T) {
		if m.SupportsType("LWPOLYLINE", R12) {
			t.Error("LWPOLYLINE must not exist at R12")
		}
		if !m.SupportsType("LWPOLYLINE", R2000) {
			t.Error("LWPOLYLINE must exist at R2000")
		}
	})

	t.Run("UnlistedType", func(t *testing.T) {
		if !m.SupportsType("LINE", R2_5) {
			t.Error("unlisted types are available everywhere")
		}
	})

	t.Run("Cached", func(t *testing.T) {
		again, err := LoadManifest()
		if err != nil {
			t.Fatalf("LoadManifest failed: %v", err)
		}
		if again != m {
			t.Error("manifest must be cached")
		}
	})

	t.Run("GatedTypesSorted", func(t *testing.T) {
		types := m.GatedTypes()
		if len(types) == 0 {
			t.Fatal("expected gated types")
		}
		for i := 1; i < len(types); i++ {
			if types[i-1] > types[i] {
				t.Errorf("types not sorted: %s > %s", types[i-1], types[i])
			}
		}
	})
}
