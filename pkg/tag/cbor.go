package tag

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder mode for tag streams.
// Configured for deterministic encoding so fixture files are stable.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for tag streams.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tag CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tag CBOR decoder mode: %v", err))
	}
}

// wireTag is the CBOR form of one tag: the group code plus the value in
// its wire representation. Points travel as float arrays, handles as
// strings; the group code re-types the value on decode.
type wireTag struct {
	_     struct{} `cbor:",toarray"`
	Code  int
	Value any
}

// EncodeSequence encodes a tag sequence to deterministic CBOR bytes.
func EncodeSequence(seq Sequence) ([]byte, error) {
	return encMode.Marshal(toWire(seq))
}

// DecodeSequence decodes CBOR bytes into a typed tag sequence.
func DecodeSequence(data []byte) (Sequence, error) {
	var wire []wireTag
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding tag sequence: %w", err)
	}
	return fromWire(wire)
}

// NewEncoder creates a CBOR encoder for tag streams that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for tag streams that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

func toWire(seq Sequence) []wireTag {
	wire := make([]wireTag, len(seq))
	for i, t := range seq {
		var v any
		switch val := t.Value.(type) {
		case Point:
			v = val.Components()
		case Handle:
			v = string(val)
		case AppDataRef:
			v = int64(val)
		default:
			v = val
		}
		wire[i] = wireTag{Code: t.Code, Value: v}
	}
	return wire
}

func fromWire(wire []wireTag) (Sequence, error) {
	seq := make(Sequence, 0, len(wire))
	for _, w := range wire {
		if w.Code == CodeLink {
			if s, ok := w.Value.(string); ok {
				seq = append(seq, Tag{Code: CodeLink, Value: Handle(s)})
				continue
			}
		}
		if w.Code == CodeAppData {
			// app data placeholders survive CBOR as integers
			if n, ok := toInt64(w.Value); ok {
				seq = append(seq, Tag{Code: CodeAppData, Value: AppDataRef(n)})
				continue
			}
		}
		if arr, ok := w.Value.([]any); ok && IsPointCode(w.Code) {
			comps := make([]float64, 0, len(arr))
			for _, c := range arr {
				f, ok := toFloat64(c)
				if !ok {
					return nil, fmt.Errorf("%w: code %d: bad point component %T", ErrMalformedTag, w.Code, c)
				}
				comps = append(comps, f)
			}
			t, err := Make(w.Code, comps)
			if err != nil {
				return nil, err
			}
			seq = append(seq, t)
			continue
		}
		t, err := Make(w.Code, w.Value)
		if err != nil {
			return nil, err
		}
		seq = append(seq, t)
	}
	return seq, nil
}
