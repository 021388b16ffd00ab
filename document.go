package pdf

import (
	"strconv"

	"github.com/soutade/pdfinc/internal/types"
)

// Object is a single "id gen obj ... endobj" body. Dict and Data mirror
// the original parser's split between an object's dictionary (for
// dictionary- and stream-bodied objects) and its free-standing values
// (for objects whose body is a bare array, number, name, ...).
type Object struct {
	ObjectID         int
	GenerationNumber int
	Offset           int64 // byte offset of the "id" token, as parsed; 0 for objects created in memory

	Dict   *types.Dictionary
	Data   []types.Value
	Stream *types.Stream

	// IndirectOffset is the optional integer some malformed or
	// specially constructed objects carry directly in their body
	// (e.g. "1 0 obj\n   16\nendobj"). When non-zero, Serialize emits
	// it as the object's whole body instead of a dictionary or data.
	IndirectOffset int64

	IsNew bool // true for objects added after parsing, written by incremental update
	Used  bool // true for objects an xref table marked 'n', false for 'f'
}

// NewObject constructs an in-memory object not yet present in any
// document; it is marked IsNew so a subsequent incremental write emits
// it.
func NewObject(objectID, generationNumber int) *Object {
	return &Object{ObjectID: objectID, GenerationNumber: generationNumber, IsNew: true, Used: true}
}

// Equal reports whether two objects share identity: the same
// (ObjectID, GenerationNumber) pair, exactly as the original parser's
// Object::operator== compares.
func (o *Object) Equal(other *Object) bool {
	return o.ObjectID == other.ObjectID && o.GenerationNumber == other.GenerationNumber
}

// IsIndirect reports whether this object carries the optional indirect
// offset placeholder in its body.
func (o *Object) IsIndirect() bool { return o.IndirectOffset != 0 }

// Clone deep-copies an object's dictionary and data, marking the result
// IsNew (matching the original's copy constructor, which always treats
// a copy as freshly created).
func (o *Object) Clone() *Object {
	res := &Object{
		ObjectID:         o.ObjectID,
		GenerationNumber: o.GenerationNumber,
		IndirectOffset:   o.IndirectOffset,
		IsNew:            true,
		Used:             o.Used,
	}
	if o.Dict != nil {
		res.Dict = o.Dict.Clone().(*types.Dictionary)
	}
	if o.Stream != nil {
		res.Stream = o.Stream.Clone().(*types.Stream)
	}
	res.Data = make([]types.Value, len(o.Data))
	for i, v := range o.Data {
		res.Data[i] = v.Clone()
	}
	return res
}

// Serialize renders "id gen obj\n...body...\nendobj\n", matching
// uPDFParser.cpp's Object::str(): the dictionary or stream (if any) comes
// first, followed by any free-standing Data values, which are always
// concatenated rather than treated as mutually exclusive with a
// dictionary.
func (o *Object) Serialize() string {
	res := strconv.Itoa(o.ObjectID) + " " + strconv.Itoa(o.GenerationNumber) + " obj\n"
	if o.IsIndirect() {
		res += "   " + strconv.FormatInt(o.IndirectOffset, 10) + "\n"
		res += "endobj\n"
		return res
	}

	needLineReturn := false
	switch {
	case o.Stream != nil:
		res += o.Stream.Serialize()
	case o.Dict != nil && !o.Dict.Empty():
		res += o.Dict.Serialize()
	case len(o.Data) == 0:
		res += "<<>>\n"
	default:
		needLineReturn = true
	}

	for _, v := range o.Data {
		s := v.Serialize()
		res += s
		if len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
			needLineReturn = false
		}
	}
	if needLineReturn {
		res += "\n"
	}

	res += "endobj\n"
	return res
}

// XRefEntry is one fixed-width "offset generation n|f" record of a
// classic cross-reference table, with ObjectID counted from its
// subsection's start id. Subsection headers produce no entry; see
// parseXref for the exact-length-10 heuristic that tells the two apart
// while reading.
type XRefEntry struct {
	ObjectID         int
	Offset           int64
	GenerationNumber int
	Used             bool
	Object           *Object
}

// Document is a parsed PDF file: its ordered object list, trailer, and
// the bookkeeping needed to write a full rewrite or an incremental
// update.
type Document struct {
	VersionMajor int
	VersionMinor int

	Objects []*Object
	Trailer *Object

	XRefTable        []XRefEntry
	XRefOffset       int64 // offset of the last-seen xref section, else the first startxref offset read; -1 if neither
	XRefStreamObject *Object

	source []byte // full parsed byte content, kept for stream views and incremental copy
}

// NewDocument returns an empty document at the default PDF version.
func NewDocument() *Document {
	return &Document{VersionMajor: 1, VersionMinor: 6, XRefOffset: -1, Trailer: &Object{Dict: types.NewDictionary()}}
}

// AddObject appends obj to the document's object list. No uniqueness
// check is performed, matching uPDFParser.cpp's Parser::addObject.
func (d *Document) AddObject(obj *Object) {
	d.Objects = append(d.Objects, obj)
}

// RemoveObject deletes the first object matching obj's identity, if
// any.
func (d *Document) RemoveObject(obj *Object) {
	for i, o := range d.Objects {
		if o.Equal(obj) {
			d.Objects = append(d.Objects[:i], d.Objects[i+1:]...)
			return
		}
	}
}

// GetObject returns the object with the given identity, or nil. This is
// a linear scan, not a map lookup: object ids need not be dense or
// sorted (objects can be appended with any id during an incremental
// update), so the scan mirrors uPDFParser.cpp's Parser::getObject
// rather than indexing by id.
func (d *Document) GetObject(objectID, generationNumber int) *Object {
	for _, o := range d.Objects {
		if o.ObjectID == objectID && o.GenerationNumber == generationNumber {
			return o
		}
	}
	return nil
}
