package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/soutade/pdfinc/internal/types"
)

func TestWriteFullRewriteRoundTrip(t *testing.T) {
	doc := NewDocument()
	dict := types.NewDictionary()
	dict.Set("Type", types.NewName("Catalog"))
	obj := &Object{ObjectID: 1, GenerationNumber: 0, Dict: dict, Used: true}
	doc.AddObject(obj)
	doc.Trailer.Dict.Set("Root", types.NewReference(1, 0))

	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reparsed, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("re-parsing written file failed: %v", err)
	}
	if reparsed.GetObject(1, 0) == nil {
		t.Fatalf("written object 1 0 not found after re-parse")
	}
	if !reparsed.Trailer.Dict.Has("Root") {
		t.Fatalf("written trailer missing /Root after re-parse")
	}
}

func TestWriteHeaderMarkerBytesAreRaw(t *testing.T) {
	doc := NewDocument()
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := []byte{0xE2, 0xE3, 0xCF, 0xD3}
	if !bytes.Contains(data, want) {
		t.Fatalf("raw marker bytes %v not found in header %q", want, data[:20])
	}
}

const incrementalBaseFixture = "%PDF-1.6\n" +
	"1 0 obj\n<</Type/Catalog>>\nendobj\n" +
	"xref\n0 2\n0000000000 65535 f \n0000000009 00000 n \n" +
	"trailer\n<</Size 2/Root 1 0 R>>\nstartxref\n9\n%%EOF"

func TestWriteIncrementalAppendsOnlyNewObjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte(incrementalBaseFixture), 0644); err != nil {
		t.Fatalf("setup WriteFile failed: %v", err)
	}

	doc, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, obj := range doc.Objects {
		obj.IsNew = false
	}

	newDict := types.NewDictionary()
	newDict.Set("Type", types.NewName("Pages"))
	newObj := NewObject(2, 0)
	newObj.Dict = newDict
	doc.AddObject(newObj)

	if err := doc.WriteIncremental(path); err != nil {
		t.Fatalf("WriteIncremental failed: %v", err)
	}

	reparsed, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("re-parsing incrementally updated file failed: %v", err)
	}
	if reparsed.GetObject(1, 0) == nil {
		t.Fatalf("original object 1 0 lost after incremental update")
	}
	if reparsed.GetObject(2, 0) == nil {
		t.Fatalf("appended object 2 0 not found after incremental update")
	}
	if !reparsed.Trailer.Dict.Has("Prev") {
		t.Fatalf("expected a Prev-chained trailer after incremental update")
	}
}

func TestWriteIncrementalNoNewObjectsIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte(incrementalBaseFixture), 0644); err != nil {
		t.Fatalf("setup WriteFile failed: %v", err)
	}

	doc, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, obj := range doc.Objects {
		obj.IsNew = false
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := doc.WriteIncremental(path); err != nil {
		t.Fatalf("WriteIncremental failed: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("WriteIncremental with no new objects should leave the file untouched")
	}
}
