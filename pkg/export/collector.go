package export

import (
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// Writer receives exported tags one at a time. The byte/text level
// emitter implements it; Collector implements it for in-memory use.
type Writer interface {
	WriteTag(t tag.Tag) error
}

// Collector is an in-memory tag sink. Point tags arrive coalesced;
// callers needing the flat component form expand afterwards.
type Collector struct {
	Tags tag.Sequence
}

// WriteTag appends the tag.
func (c *Collector) WriteTag(t tag.Tag) error {
	c.Tags = append(c.Tags, t)
	return nil
}

// Reset drops all collected tags.
func (c *Collector) Reset() { c.Tags = c.Tags[:0] }
