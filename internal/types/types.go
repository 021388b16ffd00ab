// Package types implements the tagged-variant value model of a PDF
// document: the handful of primitive kinds a PDF object graph is built
// from, each able to serialize itself back to PDF syntax and clone
// itself for container copies.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which concrete variant a Value holds.
type Kind int

const (
	NullKind Kind = iota
	BooleanKind
	IntegerKind
	RealKind
	NameKind
	StringKind
	HexaStringKind
	ReferenceKind
	ArrayKind
	DictionaryKind
	StreamKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case BooleanKind:
		return "Boolean"
	case IntegerKind:
		return "Integer"
	case RealKind:
		return "Real"
	case NameKind:
		return "Name"
	case StringKind:
		return "String"
	case HexaStringKind:
		return "HexaString"
	case ReferenceKind:
		return "Reference"
	case ArrayKind:
		return "Array"
	case DictionaryKind:
		return "Dictionary"
	case StreamKind:
		return "Stream"
	default:
		return "Unknown"
	}
}

// A Value is a single PDF value. Every variant knows how to serialize
// itself back to PDF syntax and how to produce a deep copy of itself;
// containers (Array, Dictionary) store an inserted value as given, so a
// caller that still holds it elsewhere clones it before inserting.
type Value interface {
	Kind() Kind
	Serialize() string
	Clone() Value
}

// Null is the singleton PDF null value.
type Null struct{}

func (Null) Kind() Kind        { return NullKind }
func (Null) Serialize() string { return "null" }
func (Null) Clone() Value      { return Null{} }

// Boolean is a PDF true/false value.
type Boolean struct {
	Val bool
}

func NewBoolean(v bool) Boolean { return Boolean{Val: v} }

func (b Boolean) Kind() Kind { return BooleanKind }
func (b Boolean) Serialize() string {
	if b.Val {
		return " true"
	}
	return " false"
}
func (b Boolean) Clone() Value { return b }

// Integer is a PDF integer. Signed records whether the source spelled
// an explicit '+'/'-' sign, which is preserved on re-serialization.
type Integer struct {
	Val    int64
	Signed bool
}

func NewInteger(v int64, signed bool) Integer { return Integer{Val: v, Signed: signed} }

func (i Integer) Kind() Kind { return IntegerKind }
func (i Integer) Serialize() string {
	sign := ""
	if i.Signed && i.Val >= 0 {
		sign = "+"
	}
	return " " + sign + strconv.FormatInt(i.Val, 10)
}
func (i Integer) Clone() Value { return i }

// Real is a PDF floating point number, with the same sign-preservation
// rule as Integer.
type Real struct {
	Val    float64
	Signed bool
}

func NewReal(v float64, signed bool) Real { return Real{Val: v, Signed: signed} }

func (r Real) Kind() Kind { return RealKind }
func (r Real) Serialize() string {
	sign := ""
	if r.Signed && r.Val >= 0 {
		sign = "+"
	}
	// strconv/fmt never emit locale commas, unlike the std::to_string
	// this mirrors, so no decimal-separator fixup is needed here.
	return " " + sign + strconv.FormatFloat(r.Val, 'f', 6, 64)
}
func (r Real) Clone() Value { return r }

// Name is a slash-prefixed identifier. Raw retains the leading slash;
// Value strips it.
type Name struct {
	Raw string // includes leading '/'
}

func NewName(value string) Name { return Name{Raw: "/" + value} }

func (n Name) Kind() Kind        { return NameKind }
func (n Name) Value() string     { return strings.TrimPrefix(n.Raw, "/") }
func (n Name) Serialize() string { return n.Raw }
func (n Name) Clone() Value      { return n }

// String is a PDF literal string, '(' ... ')'. Body is the raw bytes as
// they appeared between the parentheses: backslash escapes are NOT
// resolved on parse, matching the byte-for-byte round-trip invariant;
// use Unescaped for the decoded text.
type String struct {
	Body string
}

func NewString(body string) String { return String{Body: body} }

func (s String) Kind() Kind { return StringKind }
func (s String) Serialize() string {
	var b strings.Builder
	b.WriteByte('(')
	prev := byte(0)
	for i := 0; i < len(s.Body); i++ {
		c := s.Body[i]
		if (c == '(' || c == ')') && prev != '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		prev = c
	}
	b.WriteByte(')')
	return b.String()
}
func (s String) Clone() Value { return s }

// Unescaped resolves \\, \(, \), \n and \r in the raw body.
func (s String) Unescaped() string {
	res := strings.ReplaceAll(s.Body, `\\`, `\`)
	res = strings.ReplaceAll(res, `\(`, "(")
	res = strings.ReplaceAll(res, `\)`, ")")
	res = strings.ReplaceAll(res, `\n`, "\n")
	res = strings.ReplaceAll(res, `\r`, "\r")
	return res
}

// HexaString is a PDF hex string, '<' ... '>'. Body holds the raw hex
// digits (not decoded to bytes) as they appeared between the angle
// brackets.
type HexaString struct {
	Body string
}

func NewHexaString(body string) HexaString { return HexaString{Body: body} }

func (h HexaString) Kind() Kind        { return HexaStringKind }
func (h HexaString) Serialize() string { return "<" + h.Body + ">" }
func (h HexaString) Clone() Value      { return h }

// Reference denotes an indirect object by identity: "id gen R".
type Reference struct {
	ObjectID         int
	GenerationNumber int
}

func NewReference(id, gen int) Reference { return Reference{ObjectID: id, GenerationNumber: gen} }

func (r Reference) Kind() Kind { return ReferenceKind }
func (r Reference) Serialize() string {
	return fmt.Sprintf(" %d %d R", r.ObjectID, r.GenerationNumber)
}
func (r Reference) Clone() Value { return r }

// Array is an ordered sequence of Values.
type Array struct {
	Items []Value
}

func NewArray(items ...Value) *Array { return &Array{Items: items} }

func (a *Array) Kind() Kind     { return ArrayKind }
func (a *Array) Append(v Value) { a.Items = append(a.Items, v) }
func (a *Array) Len() int       { return len(a.Items) }
func (a *Array) At(i int) Value { return a.Items[i] }

func (a *Array) Serialize() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, v := range a.Items {
		s := v.Serialize()
		switch v.Kind() {
		case IntegerKind, RealKind, ReferenceKind:
			// These already carry a leading space; drop it if it
			// would land at position 1 (first element).
			if b.Len() > 1 {
				b.WriteString(s)
			} else {
				b.WriteString(strings.TrimPrefix(s, " "))
			}
		default:
			if b.Len() > 1 {
				b.WriteByte(' ')
			}
			b.WriteString(s)
		}
	}
	if b.Len() == 1 {
		b.WriteByte(' ')
	}
	b.WriteByte(']')
	return b.String()
}

func (a *Array) Clone() Value {
	res := &Array{Items: make([]Value, len(a.Items))}
	for i, v := range a.Items {
		res.Items[i] = v.Clone()
	}
	return res
}

// Dictionary maps a Name's stripped string value to a Value. Keys are
// unique; serialization always visits keys in sorted order so output is
// deterministic, matching the ordered std::map the original parser used.
type Dictionary struct {
	entries map[string]Value
}

func NewDictionary() *Dictionary { return &Dictionary{entries: make(map[string]Value)} }

func (d *Dictionary) Kind() Kind { return DictionaryKind }

func (d *Dictionary) ensure() {
	if d.entries == nil {
		d.entries = make(map[string]Value)
	}
}

// Set inserts or overwrites the value for key. A nil value represents a
// dictionary slot bound to PDF null (as produced when a ">>" is found
// where a value was expected).
func (d *Dictionary) Set(key string, v Value) {
	d.ensure()
	d.entries[key] = v
}

// Get returns the value for key and whether key is present.
func (d *Dictionary) Get(key string) (Value, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Has reports whether key is present in the dictionary.
func (d *Dictionary) Has(key string) bool {
	_, ok := d.entries[key]
	return ok
}

// Delete removes key, if present. No error if it is absent.
func (d *Dictionary) Delete(key string) {
	delete(d.entries, key)
}

// Replace overwrites the value stored at key if, and only if, key is
// already present; it is a no-op otherwise. Mirrors the original
// parser's Dictionary::replace.
func (d *Dictionary) Replace(key string, v Value) {
	if !d.Has(key) {
		return
	}
	d.Set(key, v)
}

// Empty reports whether the dictionary has no entries.
func (d *Dictionary) Empty() bool { return len(d.entries) == 0 }

// Keys returns the dictionary's keys in sorted order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dictionary) Serialize() string {
	var b strings.Builder
	b.WriteString("<<")
	for _, k := range d.Keys() {
		b.WriteByte('/')
		b.WriteString(k)
		if v := d.entries[k]; v != nil {
			b.WriteString(v.Serialize())
		}
	}
	b.WriteString(">>\n")
	return b.String()
}

func (d *Dictionary) Clone() Value {
	res := NewDictionary()
	for k, v := range d.entries {
		if v == nil {
			res.entries[k] = nil
			continue
		}
		res.entries[k] = v.Clone()
	}
	return res
}

// Stream is a dictionary followed by a raw byte payload. The payload is
// either an owned buffer or a (start, end) byte range view into the
// original source; Data promotes a view to an owned copy on first
// access.
type Stream struct {
	Dict *Dictionary

	owned  []byte
	source []byte // backing bytes for a view stream; nil once owned
	start  int64
	end    int64
}

// NewStreamView constructs a Stream whose payload is the byte range
// [start, end) of source, read lazily.
func NewStreamView(dict *Dictionary, source []byte, start, end int64) *Stream {
	return &Stream{Dict: dict, source: source, start: start, end: end}
}

// NewStreamData constructs a Stream with an owned payload, setting
// /Length to its size.
func NewStreamData(dict *Dictionary, data []byte) *Stream {
	s := &Stream{Dict: dict, owned: data}
	dict.Set("Length", NewInteger(int64(len(data)), false))
	return s
}

func (s *Stream) Kind() Kind { return StreamKind }

// Data returns the stream payload, reading it from the source range on
// first access if this Stream is still a view.
func (s *Stream) Data() []byte {
	if s.owned != nil {
		return s.owned
	}
	if s.source == nil {
		return nil
	}
	s.owned = append([]byte(nil), s.source[s.start:s.end]...)
	s.source = nil
	return s.owned
}

// SetData replaces the stream payload with an owned buffer and updates
// /Length to match its size.
func (s *Stream) SetData(data []byte) {
	s.owned = data
	s.source = nil
	s.Dict.Delete("Length")
	s.Dict.Set("Length", NewInteger(int64(len(data)), false))
}

func (s *Stream) Serialize() string {
	var b strings.Builder
	b.WriteString(s.Dict.Serialize())
	b.WriteString("stream\n")
	b.Write(s.Data())
	b.WriteString("\nendstream\n")
	return b.String()
}

func (s *Stream) Clone() Value {
	res := &Stream{Dict: s.Dict.Clone().(*Dictionary)}
	if s.owned != nil {
		data := make([]byte, len(s.owned))
		copy(data, s.owned)
		res.owned = data
	} else {
		res.source = s.source
		res.start = s.start
		res.end = s.end
	}
	return res
}
