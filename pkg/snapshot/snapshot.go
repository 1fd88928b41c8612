// Package snapshot persists classified records as deterministic CBOR.
// Snapshots serve fixture files and caches: the same record always
// encodes to the same bytes, so snapshots diff cleanly.
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/cadwire/cadwire-go/pkg/tag"
)

var encMode cbor.EncMode
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
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// Tag sequences nest as pre-encoded byte strings so the tag package
// keeps sole ownership of the tag wire form.

type wireSubclass struct {
	_    struct{} `cbor:",toarray"`
	Name string
	Tags []byte
}

type wireSet struct {
	_          struct{} `cbor:",toarray"`
	Subclasses []wireSubclass
	AppData    [][]byte
	XData      [][]byte
	Embedded   [][]byte
	Link       string
}

// EncodeTagSet encodes a classified record to deterministic CBOR.
func EncodeTagSet(set *tag.ClassifiedTagSet) ([]byte, error) {
	w := wireSet{Link: string(set.Link)}

	w.Subclasses = make([]wireSubclass, len(set.Subclasses))
	for i, sub := range set.Subclasses {
		data, err := tag.EncodeSequence(sub.Tags)
		if err != nil {
			return nil, fmt.Errorf("subclass %q: %w", sub.Name, err)
		}
		w.Subclasses[i] = wireSubclass{Name: sub.Name, Tags: data}
	}

	encodeBlocks := func(blocks []tag.Sequence) ([][]byte, error) {
		if blocks == nil {
			return nil, nil
		}
		out := make([][]byte, len(blocks))
		for i, b := range blocks {
			data, err := tag.EncodeSequence(b)
			if err != nil {
				return nil, err
			}
			out[i] = data
		}
		return out, nil
	}

	var err error
	if w.AppData, err = encodeBlocks(set.AppData); err != nil {
		return nil, err
	}
	if w.XData, err = encodeBlocks(set.XData); err != nil {
		return nil, err
	}
	if w.Embedded, err = encodeBlocks(set.EmbeddedObjects); err != nil {
		return nil, err
	}

	return encMode.Marshal(w)
}

// DecodeTagSet decodes snapshot bytes back into a classified record.
func DecodeTagSet(data []byte) (*tag.ClassifiedTagSet, error) {
	var w wireSet
	if err := decMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	set := &tag.ClassifiedTagSet{Link: tag.Handle(w.Link)}

	set.Subclasses = make([]tag.Subclass, len(w.Subclasses))
	for i, ws := range w.Subclasses {
		seq, err := tag.DecodeSequence(ws.Tags)
		if err != nil {
			return nil, fmt.Errorf("subclass %q: %w", ws.Name, err)
		}
		set.Subclasses[i] = tag.Subclass{Name: ws.Name, Tags: seq}
	}

	decodeBlocks := func(blocks [][]byte) ([]tag.Sequence, error) {
		if blocks == nil {
			return nil, nil
		}
		out := make([]tag.Sequence, len(blocks))
		for i, b := range blocks {
			seq, err := tag.DecodeSequence(b)
			if err != nil {
				return nil, err
			}
			out[i] = seq
		}
		return out, nil
	}

	var err error
	if set.AppData, err = decodeBlocks(w.AppData); err != nil {
		return nil, err
	}
	if set.XData, err = decodeBlocks(w.XData); err != nil {
		return nil, err
	}
	if set.EmbeddedObjects, err = decodeBlocks(w.Embedded); err != nil {
		return nil, err
	}
	return set, nil
}
