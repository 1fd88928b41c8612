package tag

// Reserved structural group codes.
const (
	// CodeType is the record type tag (0, "LINE").
	CodeType = 0

	// CodeHandle is the regular handle code.
	CodeHandle = 5

	// CodeDimstyleHandle is the handle code used by DIMSTYLE table entries.
	CodeDimstyleHandle = 105

	// CodeSubclassMarker opens a new named subclass (100, "AcDbLine").
	CodeSubclassMarker = 100

	// CodeEmbeddedObject opens an embedded object block when the value
	// is EmbeddedObjectStr; any other value is ordinary data.
	CodeEmbeddedObject = 101

	// CodeAppData opens an application defined data block when the value
	// starts with "{"; the block runs to the matching (102, "}").
	CodeAppData = 102

	// CodeOwner is the owner handle reference.
	CodeOwner = 330

	// CodeXDataMarker opens an extended data block (1001, appid).
	CodeXDataMarker = 1001

	// CodeLink is an internal code carrying the legacy chain reference:
	// the handle of the next logically linked record. Group codes below
	// zero never appear in files, they are reserved for internal use.
	CodeLink = -2
)

// EmbeddedObjectStr is the marker value of an embedded object block.
const EmbeddedObjectStr = "Embedded Object"

// MaxGroupCode is the highest group code defined by the format.
const MaxGroupCode = 1071

// Kind is the value kind selected by a group code.
type Kind uint8

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindBinary
	KindHandle
	KindRef
	KindPoint
)

// String returns the kind name.
func (k Kind) String() string {
	names := []string{
		"string", "integer", "float", "bool", "binary", "handle", "ref", "point",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "string"
}

type codeRange struct {
	lo, hi int // inclusive
	kind   Kind
}

// Group code ranges from the DXF reference. Point codes and handle codes
// are checked first, the remaining ranges resolve integer, float, bool
// and binary values; everything unlisted is a string.
var kindRanges = []codeRange{
	{10, 59, KindFloat},
	{60, 79, KindInteger},
	{90, 99, KindInteger},
	{105, 105, KindHandle},
	{110, 149, KindFloat},
	{160, 169, KindInteger},
	{170, 179, KindInteger},
	{210, 239, KindFloat},
	{270, 289, KindInteger},
	{290, 299, KindBool},
	{310, 319, KindBinary},
	{320, 369, KindRef},
	{370, 389, KindInteger},
	{390, 399, KindRef},
	{400, 409, KindInteger},
	{420, 459, KindInteger},
	{460, 469, KindFloat},
	{470, 479, KindString},
	{480, 481, KindRef},
	{1004, 1004, KindBinary},
	{1005, 1005, KindRef},
	{1010, 1059, KindFloat},
	{1060, 1070, KindInteger},
	{1071, 1071, KindInteger},
}

var pointCodes = map[int]bool{
	10: true, 11: true, 12: true, 13: true, 14: true,
	15: true, 16: true, 17: true, 18: true,
	110: true, 111: true, 112: true,
	210: true, 211: true, 212: true, 213: true,
	1010: true, 1011: true, 1012: true, 1013: true,
}

// KindOf returns the value kind for a group code.
func KindOf(code int) Kind {
	if pointCodes[code] {
		return KindPoint
	}
	if code == CodeHandle {
		return KindHandle
	}
	for _, r := range kindRanges {
		if code >= r.lo && code <= r.hi {
			return r.kind
		}
	}
	return KindString
}

// IsPointCode reports whether code starts a 2D/3D point (x component).
func IsPointCode(code int) bool { return pointCodes[code] }

// IsBinaryCode reports whether code carries a binary chunk.
func IsBinaryCode(code int) bool {
	return (code >= 310 && code <= 319) || code == 1004
}

// IsXDataCode reports whether code belongs to the extended data range.
func IsXDataCode(code int) bool { return code >= 1000 && code <= MaxGroupCode }

// XCodeFor maps a regular group code to the extended data code that
// carries the same value kind. Collaborators building XDATA from regular
// attribute codes use this mapping.
func XCodeFor(code int) int {
	switch KindOf(code) {
	case KindHandle, KindRef:
		return 1005
	case KindBinary:
		return 1004
	case KindInteger, KindBool:
		return 1070
	case KindFloat:
		return 1040
	case KindPoint:
		return 1010
	default:
		return 1000
	}
}
