// Package chain stores legacy linked sub-records in a flat arena keyed
// by handle. Pre-modern record layouts chain dependent sub-records (a
// polyline's vertices, an insert's attributes) through inline next
// references terminated by a sentinel record; the arena turns
// traversal, insertion and removal into plain index operations with no
// aliasing between records.
package chain

import (
	"errors"
	"fmt"

	"github.com/cadwire/cadwire-go/pkg/tag"
)

// Arena errors.
var (
	ErrUnknownHandle = errors.New("unknown handle")
	ErrCycle         = errors.New("chain contains a cycle")
)

type node struct {
	set  *tag.ClassifiedTagSet
	next tag.Handle
}

// Arena is a flat store of chained records. Not safe for concurrent
// mutation; callers serialize access per document.
type Arena struct {
	nodes map[tag.Handle]*node
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{nodes: make(map[tag.Handle]*node)}
}

// Len returns the number of stored records.
func (a *Arena) Len() int { return len(a.nodes) }

// Put stores a record under its handle. The next reference is seeded
// from the record's preserved link value.
func (a *Arena) Put(h tag.Handle, set *tag.ClassifiedTagSet) {
	a.nodes[h] = &node{set: set, next: set.Link}
}

// Get returns the stored record.
func (a *Arena) Get(h tag.Handle) (*tag.ClassifiedTagSet, bool) {
	n, ok := a.nodes[h]
	if !ok {
		return nil, false
	}
	return n.set, true
}

// Next returns the handle of the record following h.
func (a *Arena) Next(h tag.Handle) (tag.Handle, error) {
	n, ok := a.nodes[h]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return n.next, nil
}

// Link points h at next, replacing its previous next reference.
func (a *Arena) Link(h, next tag.Handle) error {
	n, ok := a.nodes[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	n.next = next
	return nil
}

// Walk visits the chain starting at start until a null next reference
// or a handle missing from the arena. The callback may stop the walk
// by returning an error.
func (a *Arena) Walk(start tag.Handle, fn func(h tag.Handle, set *tag.ClassifiedTagSet) error) error {
	seen := make(map[tag.Handle]bool)
	for h := start; !h.IsNull(); {
		if seen[h] {
			return fmt.Errorf("%w: at %s", ErrCycle, h)
		}
		seen[h] = true
		n, ok := a.nodes[h]
		if !ok {
			return nil
		}
		if err := fn(h, n.set); err != nil {
			return err
		}
		h = n.next
	}
	return nil
}

// InsertAfter stores set under h and splices it into the chain behind
// prev.
func (a *Arena) InsertAfter(prev, h tag.Handle, set *tag.ClassifiedTagSet) error {
	p, ok := a.nodes[prev]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, prev)
	}
	a.nodes[h] = &node{set: set, next: p.next}
	p.next = h
	return nil
}

// Remove deletes h and relinks any record pointing at it to h's
// successor.
func (a *Arena) Remove(h tag.Handle) error {
	n, ok := a.nodes[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	for _, other := range a.nodes {
		if other.next == h {
			other.next = n.next
		}
	}
	delete(a.nodes, h)
	return nil
}
