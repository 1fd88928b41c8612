package tag

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Classification errors.
var (
	ErrClassification = errors.New("classification error")
)

// AppDataRef is the placeholder value left in the base subclass where an
// application defined data block was lifted out; it indexes AppData.
type AppDataRef int

// Subclass is a named, ordered group of tags within one record. The
// leading group of a record has no name.
type Subclass struct {
	Name string
	Tags Sequence
}

// ClassifiedTagSet is one record's tags grouped into subclasses plus the
// side channels for application defined data, extended data (XDATA) and
// embedded objects. Subclass 0 is always the unnamed base group carrying
// the record type, handle and owner tags.
type ClassifiedTagSet struct {
	Subclasses []Subclass

	// AppData blocks in encounter order, including their opening
	// (102, "{NAME") and closing (102, "}") marker tags. The base
	// subclass holds an AppDataRef placeholder at the original position.
	AppData []Sequence

	// XData blocks in encounter order, each starting with its
	// (1001, appid) tag. The same appid may recur; blocks accumulate.
	XData []Sequence

	// EmbeddedObjects in encounter order, each starting with the
	// (101, "Embedded Object") marker tag.
	EmbeddedObjects []Sequence

	// Link is the legacy chain reference: the handle of the next
	// logically linked record in pre-modern layouts. Preserved verbatim,
	// never interpreted here.
	Link Handle
}

// classifyConfig holds classification options.
type classifyConfig struct {
	legacy bool
}

// Option configures Classify.
type Option func(*classifyConfig)

// Legacy enables pre-modern (R12 and older) handling: subclass markers
// are flattened into the base group and embedded objects are dropped.
func Legacy() Option {
	return func(c *classifyConfig) { c.legacy = true }
}

func isAppDataMarker(t Tag) bool {
	if t.Code != CodeAppData {
		return false
	}
	s, ok := t.Value.(string)
	return ok && strings.HasPrefix(s, "{")
}

func isEmbeddedObjectMarker(t Tag) bool {
	return t.Code == CodeEmbeddedObject && t.Value == EmbeddedObjectStr
}

// endOfGroup reports whether t terminates the current subclass: a
// subclass marker, an embedded object marker or an XDATA marker.
func endOfGroup(t Tag) bool {
	switch t.Code {
	case CodeSubclassMarker, CodeXDataMarker:
		return true
	case CodeEmbeddedObject:
		return isEmbeddedObjectMarker(t)
	default:
		return false
	}
}

// Classify groups one record's tag sequence into a ClassifiedTagSet.
// Everything before the first subclass marker is the unnamed base group.
// Application defined data may only appear in the base group; extended
// data blocks terminate the subclass structure; embedded objects sit
// between the last subclass and the first XDATA block.
func Classify(seq Sequence, opts ...Option) (*ClassifiedTagSet, error) {
	var cfg classifyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	set := &ClassifiedTagSet{}
	i := 0
	n := len(seq)

	// base group: may contain app data blocks and the legacy link tag
	base := Subclass{}
	for i < n && !endOfGroup(seq[i]) {
		t := seq[i]
		switch {
		case t.Code == CodeLink:
			set.Link = t.Value.(Handle)
			i++
		case isAppDataMarker(t):
			block, next, err := collectAppData(seq, i)
			if err != nil {
				return nil, err
			}
			base.Tags = append(base.Tags, Tag{Code: CodeAppData, Value: AppDataRef(len(set.AppData))})
			set.AppData = append(set.AppData, block)
			i = next
		default:
			base.Tags = append(base.Tags, t)
			i++
		}
	}
	set.Subclasses = append(set.Subclasses, base)

	// named subclasses
	for i < n && seq[i].Code == CodeSubclassMarker {
		name, ok := seq[i].Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: subclass marker without a name", ErrClassification)
		}
		sub := Subclass{Name: name}
		i++
		for i < n && !endOfGroup(seq[i]) {
			sub.Tags = append(sub.Tags, seq[i])
			i++
		}
		set.Subclasses = append(set.Subclasses, sub)
	}

	// embedded objects
	for i < n && isEmbeddedObjectMarker(seq[i]) {
		block := Sequence{seq[i]}
		i++
		for i < n && !isEmbeddedObjectMarker(seq[i]) && seq[i].Code != CodeXDataMarker {
			block = append(block, seq[i])
			i++
		}
		set.EmbeddedObjects = append(set.EmbeddedObjects, block)
	}

	// extended data, always last
	for i < n && seq[i].Code == CodeXDataMarker {
		block := Sequence{seq[i]}
		i++
		for i < n && seq[i].Code != CodeXDataMarker {
			if !IsXDataCode(seq[i].Code) {
				return nil, fmt.Errorf("%w: tag %s inside extended data block", ErrClassification, seq[i])
			}
			block = append(block, seq[i])
			i++
		}
		set.XData = append(set.XData, block)
	}

	if i < n {
		return nil, fmt.Errorf("%w: unexpected tag %s at end of record", ErrClassification, seq[i])
	}

	if cfg.legacy {
		set.legacyRepair()
	}
	return set, nil
}

// collectAppData consumes an application defined data block starting at
// index i. The block runs to the matching closing (102, "}") tag, which
// must be present.
func collectAppData(seq Sequence, i int) (Sequence, int, error) {
	open := seq[i]
	name := open.Value.(string)
	closing := []string{"}", name[1:] + "}"}
	block := Sequence{open}
	i++
	for i < len(seq) {
		t := seq[i]
		block = append(block, t)
		i++
		if t.Code == CodeAppData {
			if s, ok := t.Value.(string); ok && (s == closing[0] || s == closing[1]) {
				return block, i, nil
			}
		}
	}
	return nil, i, fmt.Errorf("%w: missing closing (102, \"}\") tag for app data %q", ErrClassification, name)
}

// legacyRepair flattens subclass structure for pre-modern records.
// Subclass markers in old streams are technically invalid but occur in
// the wild; their content is merged into the base group. Embedded
// objects cannot exist in old streams and are dropped.
func (s *ClassifiedTagSet) legacyRepair() {
	if len(s.Subclasses) > 1 {
		base := s.Subclasses[0]
		for _, sub := range s.Subclasses[1:] {
			base.Tags = append(base.Tags, sub.Tags...)
		}
		s.Subclasses = []Subclass{base}
		slog.Debug("flattened subclass markers in legacy record", "type", s.Type())
	}
	if len(s.EmbeddedObjects) > 0 {
		s.EmbeddedObjects = nil
		slog.Debug("dropped embedded object from legacy record", "type", s.Type())
	}
	if len(s.AppData) > 0 {
		slog.Debug("found application defined data in legacy record", "type", s.Type())
	}
}

// Base returns the unnamed base subclass.
func (s *ClassifiedTagSet) Base() *Subclass { return &s.Subclasses[0] }

// Type returns the record type from the leading (0, TYPE) tag of the
// base subclass, or "" if absent.
func (s *ClassifiedTagSet) Type() string {
	name, _ := s.Base().Tags.Type()
	return name
}

// Handle returns the record handle from the base subclass. DIMSTYLE
// table entries store their handle under code 105 instead of 5.
func (s *ClassifiedTagSet) Handle() (Handle, bool) {
	code := CodeHandle
	if s.Type() == "DIMSTYLE" {
		code = CodeDimstyleHandle
	}
	for _, t := range s.Base().Tags {
		if t.Code == code {
			if h, ok := t.Value.(Handle); ok {
				return h, true
			}
		}
	}
	return "", false
}

// SubclassByName returns the index of the first subclass named name at
// or after start, or -1.
func (s *ClassifiedTagSet) SubclassByName(name string, start int) int {
	for i := start; i < len(s.Subclasses); i++ {
		if s.Subclasses[i].Name == name {
			return i
		}
	}
	return -1
}

// GetXData returns the first extended data block for appid, or nil.
func (s *ClassifiedTagSet) GetXData(appid string) Sequence {
	for _, block := range s.XData {
		if len(block) > 0 && block[0].Value == appid {
			return block
		}
	}
	return nil
}

// XDataBlocks returns all extended data blocks for appid in encounter
// order. Repeated appids are legal and kept as separate blocks.
func (s *ClassifiedTagSet) XDataBlocks(appid string) []Sequence {
	var out []Sequence
	for _, block := range s.XData {
		if len(block) > 0 && block[0].Value == appid {
			out = append(out, block)
		}
	}
	return out
}

// AppDataBlock returns the application defined data block for appid
// (including markers), or nil.
func (s *ClassifiedTagSet) AppDataBlock(appid string) Sequence {
	for _, block := range s.AppData {
		if len(block) > 0 && block[0].Value == appid {
			return block
		}
	}
	return nil
}

// Clone returns a deep copy of the tag set.
func (s *ClassifiedTagSet) Clone() *ClassifiedTagSet {
	out := &ClassifiedTagSet{Link: s.Link}
	out.Subclasses = make([]Subclass, len(s.Subclasses))
	for i, sub := range s.Subclasses {
		out.Subclasses[i] = Subclass{Name: sub.Name, Tags: sub.Tags.Clone()}
	}
	cloneBlocks := func(blocks []Sequence) []Sequence {
		if blocks == nil {
			return nil
		}
		dup := make([]Sequence, len(blocks))
		for i, b := range blocks {
			dup[i] = b.Clone()
		}
		return dup
	}
	out.AppData = cloneBlocks(s.AppData)
	out.XData = cloneBlocks(s.XData)
	out.EmbeddedObjects = cloneBlocks(s.EmbeddedObjects)
	return out
}
