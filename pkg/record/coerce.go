package record

import (
	"fmt"
	"strings"

	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// coerceWrite converts a caller value into the stored representation of
// the attribute's declared kind. Floats written to integer attributes
// truncate toward zero; integers written to float attributes widen.
func coerceWrite(attr *schema.Attr, value any) (any, error) {
	switch attr.Kind {
	case schema.Integer:
		n, ok := asInt64(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q expects an integer, got %T", ErrInvalidValue, attr.Name, value)
		}
		return n, nil
	case schema.Float:
		f, ok := asFloat64(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q expects a float, got %T", ErrInvalidValue, attr.Name, value)
		}
		return f, nil
	case schema.Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		default:
			if n, ok := asInt64(value); ok {
				return n != 0, nil
			}
		}
		return nil, fmt.Errorf("%w: %q expects a bool, got %T", ErrInvalidValue, attr.Name, value)
	case schema.Point2D, schema.Point3D:
		p, err := asPoint(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, attr.Name, err)
		}
		if attr.Kind == schema.Point3D && !p.HasZ {
			p = tag.NewPoint3D(p.X, p.Y, 0)
		}
		return p, nil
	case schema.HandleRef:
		switch v := value.(type) {
		case tag.Handle:
			return v, nil
		case string:
			if !tag.ValidHandle(v) {
				return nil, fmt.Errorf("%w: %q: invalid handle %q", ErrInvalidValue, attr.Name, v)
			}
			return tag.Handle(strings.ToUpper(v)), nil
		}
		return nil, fmt.Errorf("%w: %q expects a handle, got %T", ErrInvalidValue, attr.Name, value)
	case schema.Binary:
		if b, ok := value.([]byte); ok {
			return b, nil
		}
		return nil, fmt.Errorf("%w: %q expects a binary chunk, got %T", ErrInvalidValue, attr.Name, value)
	default: // schema.String
		if s, ok := value.(string); ok {
			if strings.ContainsAny(s, "\n\r") {
				return nil, fmt.Errorf("%w: %q: line breaks are not allowed", ErrInvalidValue, attr.Name)
			}
			return s, nil
		}
		return nil, fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, attr.Name, value)
	}
}

// coerceRead normalizes a stored tag value to the attribute's declared
// kind. Loaded streams may carry an integer where the schema declares a
// float and vice versa.
func coerceRead(attr *schema.Attr, value any) (any, error) {
	switch attr.Kind {
	case schema.Integer:
		if n, ok := asInt64(value); ok {
			return n, nil
		}
	case schema.Float:
		if f, ok := asFloat64(value); ok {
			return f, nil
		}
	case schema.Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		default:
			if n, ok := asInt64(value); ok {
				return n != 0, nil
			}
		}
	case schema.Point2D, schema.Point3D:
		if p, ok := value.(tag.Point); ok {
			return p, nil
		}
	case schema.HandleRef:
		if h, ok := value.(tag.Handle); ok {
			return h, nil
		}
		if s, ok := value.(string); ok && tag.ValidHandle(s) {
			return tag.Handle(strings.ToUpper(s)), nil
		}
	case schema.Binary:
		if b, ok := value.([]byte); ok {
			return b, nil
		}
	default:
		if s, ok := value.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q holds %T, expected %s", ErrInvalidValue, attr.Name, value, attr.Kind)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
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
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
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

func asPoint(v any) (tag.Point, error) {
	switch p := v.(type) {
	case tag.Point:
		return p, nil
	case []float64:
		switch len(p) {
		case 2:
			return tag.NewPoint2D(p[0], p[1]), nil
		case 3:
			return tag.NewPoint3D(p[0], p[1], p[2]), nil
		}
		return tag.Point{}, fmt.Errorf("point needs 2 or 3 components, got %d", len(p))
	default:
		return tag.Point{}, fmt.Errorf("expected a point, got %T", v)
	}
}
