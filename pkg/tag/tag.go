package tag

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tag errors.
var (
	ErrMalformedTag = errors.New("malformed tag")
)

// Handle is an opaque per-record identifier used for cross references
// (ownership, chaining). Handles are upper-case hex strings.
type Handle string

// NullHandle marks the absence of a reference.
const NullHandle Handle = "0"

// IsNull reports whether the handle is empty or the null reference.
func (h Handle) IsNull() bool { return h == "" || h == NullHandle }

// ValidHandle reports whether s parses as a hex handle.
func ValidHandle(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 64)
	return err == nil
}

// Point is a coalesced 2D or 3D point value.
type Point struct {
	X, Y, Z float64
	// HasZ distinguishes 3D points from 2D points; Z is zero for 2D.
	HasZ bool
}

// NewPoint2D returns a 2D point value.
func NewPoint2D(x, y float64) Point { return Point{X: x, Y: y} }

// NewPoint3D returns a 3D point value.
func NewPoint3D(x, y, z float64) Point { return Point{X: x, Y: y, Z: z, HasZ: true} }

// Components returns the point components in x, y(, z) order.
func (p Point) Components() []float64 {
	if p.HasZ {
		return []float64{p.X, p.Y, p.Z}
	}
	return []float64{p.X, p.Y}
}

func (p Point) String() string {
	if p.HasZ {
		return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Tag is one immutable (group code, typed value) pair. The value is one
// of: string, int64, float64, bool, Handle, Point or []byte.
type Tag struct {
	Code  int
	Value any
}

// New builds a typed tag from a raw string value, applying the type
// required by the group code. Returns a malformed-tag error when the
// value does not parse for the code's kind.
func New(code int, raw string) (Tag, error) {
	switch KindOf(code) {
	case KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: code %d: invalid integer %q", ErrMalformedTag, code, raw)
		}
		return Tag{Code: code, Value: v}, nil
	case KindFloat, KindPoint:
		// A bare point code carries the x component until coalescing.
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: code %d: invalid float %q", ErrMalformedTag, code, raw)
		}
		return Tag{Code: code, Value: v}, nil
	case KindBool:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: code %d: invalid bool %q", ErrMalformedTag, code, raw)
		}
		return Tag{Code: code, Value: v != 0}, nil
	case KindBinary:
		data, err := hex.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return Tag{}, fmt.Errorf("%w: code %d: invalid binary chunk", ErrMalformedTag, code)
		}
		return Tag{Code: code, Value: data}, nil
	case KindHandle, KindRef:
		s := strings.TrimSpace(raw)
		if !ValidHandle(s) {
			return Tag{}, fmt.Errorf("%w: code %d: invalid handle %q", ErrMalformedTag, code, raw)
		}
		return Tag{Code: code, Value: Handle(strings.ToUpper(s))}, nil
	default:
		return Tag{Code: code, Value: raw}, nil
	}
}

// Make builds a tag from an already typed value, coercing it to the
// representation required by the group code.
func Make(code int, value any) (Tag, error) {
	switch KindOf(code) {
	case KindInteger:
		v, ok := toInt64(value)
		if !ok {
			return Tag{}, fmt.Errorf("%w: code %d: expected integer, got %T", ErrMalformedTag, code, value)
		}
		return Tag{Code: code, Value: v}, nil
	case KindFloat:
		v, ok := toFloat64(value)
		if !ok {
			return Tag{}, fmt.Errorf("%w: code %d: expected float, got %T", ErrMalformedTag, code, value)
		}
		return Tag{Code: code, Value: v}, nil
	case KindPoint:
		switch p := value.(type) {
		case Point:
			return Tag{Code: code, Value: p}, nil
		case []float64:
			switch len(p) {
			case 2:
				return Tag{Code: code, Value: NewPoint2D(p[0], p[1])}, nil
			case 3:
				return Tag{Code: code, Value: NewPoint3D(p[0], p[1], p[2])}, nil
			}
			return Tag{}, fmt.Errorf("%w: code %d: point needs 2 or 3 components", ErrMalformedTag, code)
		default:
			// x component only, not yet coalesced
			if v, ok := toFloat64(value); ok {
				return Tag{Code: code, Value: v}, nil
			}
			return Tag{}, fmt.Errorf("%w: code %d: expected point, got %T", ErrMalformedTag, code, value)
		}
	case KindBool:
		switch v := value.(type) {
		case bool:
			return Tag{Code: code, Value: v}, nil
		default:
			if n, ok := toInt64(value); ok {
				return Tag{Code: code, Value: n != 0}, nil
			}
			return Tag{}, fmt.Errorf("%w: code %d: expected bool, got %T", ErrMalformedTag, code, value)
		}
	case KindBinary:
		switch v := value.(type) {
		case []byte:
			return Tag{Code: code, Value: v}, nil
		case string:
			return New(code, v)
		}
		return Tag{}, fmt.Errorf("%w: code %d: expected binary chunk, got %T", ErrMalformedTag, code, value)
	case KindHandle, KindRef:
		switch v := value.(type) {
		case Handle:
			return Tag{Code: code, Value: v}, nil
		case string:
			return New(code, v)
		}
		return Tag{}, fmt.Errorf("%w: code %d: expected handle, got %T", ErrMalformedTag, code, value)
	default:
		switch v := value.(type) {
		case string:
			return Tag{Code: code, Value: v}, nil
		default:
			return Tag{Code: code, Value: fmt.Sprint(v)}, nil
		}
	}
}

// MustMake is Make for statically known declarations; it panics on error.
func MustMake(code int, value any) Tag {
	t, err := Make(code, value)
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the value kind of the tag's group code.
func (t Tag) Kind() Kind { return KindOf(t.Code) }

// IsPoint reports whether the tag carries a coalesced point value.
func (t Tag) IsPoint() bool {
	_, ok := t.Value.(Point)
	return ok
}

// Expand returns the tag as flat (code, float) component tags. Point tags
// expand to x, y(, z) tags with codes base, base+10(, base+20); all other
// tags expand to themselves.
func (t Tag) Expand() []Tag {
	p, ok := t.Value.(Point)
	if !ok {
		return []Tag{t}
	}
	out := []Tag{
		{Code: t.Code, Value: p.X},
		{Code: t.Code + 10, Value: p.Y},
	}
	if p.HasZ {
		out = append(out, Tag{Code: t.Code + 20, Value: p.Z})
	}
	return out
}

func (t Tag) String() string {
	return fmt.Sprintf("(%d, %v)", t.Code, t.Value)
}

// Equal reports whether two tags have the same code and value.
func (t Tag) Equal(other Tag) bool {
	if t.Code != other.Code {
		return false
	}
	if a, ok := t.Value.([]byte); ok {
		b, ok := other.Value.([]byte)
		return ok && string(a) == string(b)
	}
	return t.Value == other.Value
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
