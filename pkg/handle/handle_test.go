package handle

import (
	"sync"
	"testing"

	"github.com/cadwire/cadwire-go/pkg/tag"
)

func TestNext(t *testing.T) {
	a := NewAllocator()
	h1 := a.Next()
	h2 := a.Next()
	if h1 == h2 {
		t.Errorf("handles must be unique, got %s twice", h1)
	}
	if h1 != "100" {
		t.Errorf("first handle starts above the reserved range, got %s", h1)
	}
	if !tag.ValidHandle(string(h1)) || !tag.ValidHandle(string(h2)) {
		t.Errorf("handles must be valid hex: %s, %s", h1, h2)
	}
}

func TestReserve(t *testing.T) {
	a := NewAllocator()
	if err := a.Reserve("1FF0"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if h := a.Next(); h != "1FF1" {
		t.Errorf("allocation must continue above reserved handles, got %s", h)
	}

	// reserving below the watermark changes nothing
	if err := a.Reserve("10"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if h := a.Next(); h != "1FF2" {
		t.Errorf("expected 1FF2, got %s", h)
	}

	if err := a.Reserve("not-hex"); err == nil {
		t.Error("invalid handles must be rejected")
	}
}

func TestConcurrentAllocation(t *testing.T) {
	a := NewAllocator()
	const n = 64
	out := make(chan tag.Handle, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- a.Next()
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[tag.Handle]bool)
	for h := range out {
		if seen[h] {
			t.Fatalf("duplicate handle %s", h)
		}
		seen[h] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d unique handles, got %d", n, len(seen))
	}
}
