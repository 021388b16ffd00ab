package pdf

import (
	"testing"

	"github.com/soutade/pdfinc/internal/types"
)

func TestObjectEqualByIdentity(t *testing.T) {
	a := NewObject(3, 0)
	b := NewObject(3, 0)
	c := NewObject(3, 1)
	if !a.Equal(b) {
		t.Fatalf("objects with same (id, gen) should be Equal")
	}
	if a.Equal(c) {
		t.Fatalf("objects with different generation should not be Equal")
	}
}

func TestDocumentGetObjectScansById(t *testing.T) {
	d := NewDocument()
	d.AddObject(NewObject(10, 0))
	d.AddObject(NewObject(1, 0))
	d.AddObject(NewObject(1, 1))

	if got := d.GetObject(1, 0); got == nil || got.ObjectID != 1 || got.GenerationNumber != 0 {
		t.Fatalf("GetObject(1,0) = %v, want object 1 0", got)
	}
	if got := d.GetObject(1, 1); got == nil || got.GenerationNumber != 1 {
		t.Fatalf("GetObject(1,1) = %v, want object 1 1", got)
	}
	if got := d.GetObject(99, 0); got != nil {
		t.Fatalf("GetObject(99,0) = %v, want nil", got)
	}
}

func TestDocumentRemoveObject(t *testing.T) {
	d := NewDocument()
	obj := NewObject(5, 0)
	d.AddObject(obj)
	d.RemoveObject(NewObject(5, 0))
	if d.GetObject(5, 0) != nil {
		t.Fatalf("object still present after RemoveObject")
	}
}

func TestObjectCloneMarksNew(t *testing.T) {
	obj := NewObject(1, 0)
	obj.IsNew = false
	obj.Dict = types.NewDictionary()
	obj.Dict.Set("A", types.NewInteger(1, false))

	clone := obj.Clone()
	if !clone.IsNew {
		t.Fatalf("Clone() should always mark the result IsNew")
	}
	clone.Dict.Set("A", types.NewInteger(2, false))
	v, _ := obj.Dict.Get("A")
	if v.(types.Integer).Val != 1 {
		t.Fatalf("Clone shares dictionary state with the original")
	}
}

func TestObjectSerializeSimpleDict(t *testing.T) {
	obj := &Object{ObjectID: 1, GenerationNumber: 0, Dict: types.NewDictionary()}
	obj.Dict.Set("Type", types.NewName("Catalog"))
	got := obj.Serialize()
	want := "1 0 obj\n<</Type/Catalog>>\nendobj\n"
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}
