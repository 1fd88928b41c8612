// Package handle provides the document-scoped handle allocator. Every
// document carries its own allocator; there is no process-wide counter,
// so two documents never contend or interleave handle ranges.
package handle

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cadwire/cadwire-go/pkg/tag"
)

// firstHandle leaves room below for the fixed handles of document
// infrastructure records.
const firstHandle = 0x100

// Allocator hands out unique record handles for one document. Safe for
// concurrent use; allocation never reuses a value.
type Allocator struct {
	mu   sync.Mutex
	next uint64
}

// NewAllocator returns an allocator starting above the reserved range.
func NewAllocator() *Allocator {
	return &Allocator{next: firstHandle}
}

// Next returns a fresh handle in uppercase hex.
func (a *Allocator) Next() tag.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := tag.Handle(strings.ToUpper(strconv.FormatUint(a.next, 16)))
	a.next++
	return h
}

// Reserve raises the allocator above h so future allocations never
// collide with it. Loaders call this for every handle found in an
// existing document; unparsable handles are rejected.
func (a *Allocator) Reserve(h tag.Handle) error {
	if !tag.ValidHandle(string(h)) {
		return fmt.Errorf("cannot reserve invalid handle %q", h)
	}
	n, err := strconv.ParseUint(string(h), 16, 64)
	if err != nil {
		return fmt.Errorf("cannot reserve handle %q: %w", h, err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if n >= a.next {
		a.next = n + 1
	}
	return nil
}
