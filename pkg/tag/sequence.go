package tag

import (
	"fmt"
)

// RawTag is one tokenized (code, raw string value) pair as produced by
// the byte/text level reader. Compile turns raw tags into typed tags.
type RawTag struct {
	Code  int
	Value string
}

// Sequence is an ordered sequence of typed tags for a single record.
// Codes may legitimately repeat; order is significant and preserved.
type Sequence []Tag

// Compile casts raw tags to their typed values and coalesces consecutive
// x/y(/z) component tags into single point tags. A point code followed by
// anything other than its y component is a malformed-tag error.
func Compile(raw []RawTag) (Sequence, error) {
	seq := make(Sequence, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		r := raw[i]
		if r.Code < 0 || r.Code > MaxGroupCode {
			if r.Code == CodeLink {
				// internal link reference, carried verbatim
				seq = append(seq, Tag{Code: CodeLink, Value: Handle(r.Value)})
				continue
			}
			return nil, fmt.Errorf("%w: group code %d out of range", ErrMalformedTag, r.Code)
		}
		t, err := New(r.Code, r.Value)
		if err != nil {
			return nil, err
		}
		if !IsPointCode(r.Code) {
			seq = append(seq, t)
			continue
		}

		// coalesce point components: y is required, z is optional
		x := t.Value.(float64)
		if i+1 >= len(raw) || raw[i+1].Code != r.Code+10 {
			return nil, fmt.Errorf("%w: point code %d missing y component", ErrMalformedTag, r.Code)
		}
		yTag, err := New(raw[i+1].Code, raw[i+1].Value)
		if err != nil {
			return nil, err
		}
		y := yTag.Value.(float64)
		i++

		if i+1 < len(raw) && raw[i+1].Code == r.Code+20 {
			zTag, err := New(raw[i+1].Code, raw[i+1].Value)
			if err != nil {
				return nil, err
			}
			i++
			seq = append(seq, Tag{Code: r.Code, Value: NewPoint3D(x, y, zTag.Value.(float64))})
		} else {
			seq = append(seq, Tag{Code: r.Code, Value: NewPoint2D(x, y)})
		}
	}
	return seq, nil
}

// Expand returns the sequence with all point tags expanded into their
// flat x/y(/z) component tags, the form the byte level writer consumes.
func (s Sequence) Expand() Sequence {
	out := make(Sequence, 0, len(s))
	for _, t := range s {
		out = append(out, t.Expand()...)
	}
	return out
}

// Clone returns a copy of the sequence. Tag values are immutable, so a
// shallow tag copy is sufficient; binary chunks are duplicated to keep
// clones independent.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	for i, t := range s {
		if b, ok := t.Value.([]byte); ok {
			dup := make([]byte, len(b))
			copy(dup, b)
			t.Value = dup
		}
		out[i] = t
	}
	return out
}

// FindFirst returns the index of the first tag with the given code, or -1.
func (s Sequence) FindFirst(code int) int {
	for i, t := range s {
		if t.Code == code {
			return i
		}
	}
	return -1
}

// FindAll returns the indices of all tags with the given code.
func (s Sequence) FindAll(code int) []int {
	var out []int
	for i, t := range s {
		if t.Code == code {
			out = append(out, i)
		}
	}
	return out
}

// Type returns the record type carried by the leading (0, TYPE) tag.
func (s Sequence) Type() (string, bool) {
	if len(s) > 0 && s[0].Code == CodeType {
		if name, ok := s[0].Value.(string); ok {
			return name, true
		}
	}
	return "", false
}

// Equal reports whether two sequences are tag-wise identical.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
