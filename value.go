package pdf

import "github.com/soutade/pdfinc/internal/types"

// Value is a read-only view of a types.Value bound to the Document it
// came from, so that References can be followed without the caller
// having to thread a Document through every accessor by hand. The zero
// Value (a nil underlying types.Value) behaves like a PDF null for
// every accessor, so traversal code does not need to check ok at every
// step.
type Value struct {
	raw types.Value
	d   *Document
}

// NewValue wraps raw as a Value bound to doc, for resolving References
// reached while walking it.
func NewValue(doc *Document, raw types.Value) Value {
	return Value{raw: raw, d: doc}
}

// Kind reports the Value's kind, or NullKind if the Value is empty.
func (v Value) Kind() types.Kind {
	if v.raw == nil {
		return types.NullKind
	}
	return v.raw.Kind()
}

// Resolve follows a Reference to the Object it names, wrapping its
// dictionary, stream, or first data value as a Value. Non-Reference
// values resolve to themselves.
func (v Value) Resolve() Value {
	ref, ok := v.raw.(types.Reference)
	if !ok {
		return v
	}
	obj := v.d.GetObject(ref.ObjectID, ref.GenerationNumber)
	if obj == nil {
		return Value{d: v.d}
	}
	if obj.Stream != nil {
		return NewValue(v.d, obj.Stream)
	}
	if obj.Dict != nil {
		return NewValue(v.d, obj.Dict)
	}
	if len(obj.Data) > 0 {
		return NewValue(v.d, obj.Data[0])
	}
	return Value{d: v.d}
}

// Bool returns the boolean value, or false if the Value is not a
// Boolean.
func (v Value) Bool() bool {
	b, ok := v.raw.(types.Boolean)
	return ok && b.Val
}

// Int64 returns the integer value, or 0 if the Value is not an Integer.
func (v Value) Int64() int64 {
	i, ok := v.raw.(types.Integer)
	if !ok {
		return 0
	}
	return i.Val
}

// Float64 returns the numeric value as a float64, accepting either an
// Integer or a Real; 0 for any other kind.
func (v Value) Float64() float64 {
	switch r := v.raw.(type) {
	case types.Real:
		return r.Val
	case types.Integer:
		return float64(r.Val)
	}
	return 0
}

// RawString returns the literal string's raw, unescaped-on-disk body,
// or "" if the Value is not a String.
func (v Value) RawString() string {
	s, ok := v.raw.(types.String)
	if !ok {
		return ""
	}
	return s.Body
}

// Text returns the literal string's body with backslash escapes
// resolved, or "" if the Value is not a String.
func (v Value) Text() string {
	s, ok := v.raw.(types.String)
	if !ok {
		return ""
	}
	return s.Unescaped()
}

// Name returns the name's text without its leading slash, or "" if the
// Value is not a Name.
func (v Value) Name() string {
	n, ok := v.raw.(types.Name)
	if !ok {
		return ""
	}
	return n.Value()
}

// Key looks up key in a Dictionary (or a Stream's dictionary), resolves
// it, and returns it. It returns an empty Value for any other kind or a
// missing key.
func (v Value) Key(key string) Value {
	var dict *types.Dictionary
	switch r := v.raw.(type) {
	case *types.Dictionary:
		dict = r
	case *types.Stream:
		dict = r.Dict
	}
	if dict == nil {
		return Value{d: v.d}
	}
	val, ok := dict.Get(key)
	if !ok || val == nil {
		return Value{d: v.d}
	}
	return NewValue(v.d, val).Resolve()
}

// Keys returns the sorted keys of a Dictionary (or a Stream's
// dictionary), or nil for any other kind.
func (v Value) Keys() []string {
	switch r := v.raw.(type) {
	case *types.Dictionary:
		return r.Keys()
	case *types.Stream:
		return r.Dict.Keys()
	}
	return nil
}

// Len returns an Array's length, or 0 for any other kind.
func (v Value) Len() int {
	a, ok := v.raw.(*types.Array)
	if !ok {
		return 0
	}
	return a.Len()
}

// Index returns the resolved i'th element of an Array, or an empty
// Value if out of range or the Value is not an Array.
func (v Value) Index(i int) Value {
	a, ok := v.raw.(*types.Array)
	if !ok || i < 0 || i >= a.Len() {
		return Value{d: v.d}
	}
	return NewValue(v.d, a.At(i)).Resolve()
}

// StreamData returns the stream payload, or nil if the Value is not a
// Stream.
func (v Value) StreamData() []byte {
	s, ok := v.raw.(*types.Stream)
	if !ok {
		return nil
	}
	return s.Data()
}

// String renders the Value back to PDF syntax.
func (v Value) String() string {
	if v.raw == nil {
		return "null"
	}
	return v.raw.Serialize()
}
