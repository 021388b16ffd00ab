package pdf

import (
	"fmt"
	"strings"
	"testing"
)

// minimalPDF builds a tiny but complete single-object PDF with a
// classic xref table and trailer, suitable as a base fixture for the
// parser tests below.
func minimalPDF() string {
	header := "%PDF-1.6\n"
	obj1 := "1 0 obj\n<</Type/Catalog>>\nendobj\n"
	offset1 := len(header)
	xrefOffset := len(header) + len(obj1)
	xref := "xref\n0 2\n" +
		"0000000000 65535 f \n" +
		fmt.Sprintf("%010d 00000 n \n", offset1) +
		"trailer\n<</Size 2/Root 1 0 R>>\nstartxref\n" +
		fmt.Sprintf("%d\n%%%%EOF", xrefOffset)
	return header + obj1 + xref
}

func TestParseHeaderVersion(t *testing.T) {
	doc, err := Parse([]byte(minimalPDF()), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.VersionMajor != 1 || doc.VersionMinor != 6 {
		t.Fatalf("version = %d.%d, want 1.6", doc.VersionMajor, doc.VersionMinor)
	}
}

func TestParseObjectsAndTrailer(t *testing.T) {
	doc, err := Parse([]byte(minimalPDF()), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := doc.GetObject(1, 0)
	if obj == nil {
		t.Fatalf("object 1 0 not found")
	}
	if !obj.Dict.Has("Type") {
		t.Fatalf("object 1 0 missing /Type")
	}
	if !doc.Trailer.Dict.Has("Root") {
		t.Fatalf("trailer missing /Root")
	}
}

func TestParseXRefLinksUsedFlag(t *testing.T) {
	doc, err := Parse([]byte(minimalPDF()), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := doc.GetObject(1, 0)
	if !obj.Used {
		t.Fatalf("object 1 0 should be marked used by the xref table")
	}
}

func TestParseTrailerWithoutStartxrefTolerated(t *testing.T) {
	data := "%PDF-1.6\n" +
		"1 0 obj\n<</Type/Catalog>>\nendobj\n" +
		"xref\n0 0\n" +
		"trailer\n<</Size 2/Root 1 0 R>>\n" +
		"2 0 obj\n<</Foo true>>\nendobj\n"
	doc, err := Parse([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.GetObject(2, 0) == nil {
		t.Fatalf("object after a startxref-less trailer should still be parsed")
	}
	if !doc.Trailer.Dict.Has("Root") {
		t.Fatalf("trailer contents should still be captured")
	}
}

func TestParseToleratesOneStrayLine(t *testing.T) {
	data := "%PDF-1.6\n" +
		"some stray garbage line\n" +
		"1 0 obj\n<</Type/Catalog>>\nendobj\n"
	doc, err := Parse([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Parse failed on single stray line: %v", err)
	}
	if doc.GetObject(1, 0) == nil {
		t.Fatalf("object after tolerated stray line should still be parsed")
	}
}

func TestParseTrailerRepairFromXRefObject(t *testing.T) {
	data := "%PDF-1.6\n" +
		"5 0 obj\n<</Type/XRef/Root 9 0 R/Size 6>>\nendobj\n" +
		"xref\n0 0\n" +
		"trailer\n<<>>\n"
	doc, err := Parse([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	v, ok := doc.Trailer.Dict.Get("Root")
	if !ok {
		t.Fatalf("trailer should be repaired with /Root from the /XRef object")
	}
	if v.Serialize() != " 9 0 R" {
		t.Fatalf("repaired Root = %q, want \" 9 0 R\"", v.Serialize())
	}
}

func TestParseTrailerRepairNeverOverwrites(t *testing.T) {
	data := "%PDF-1.6\n" +
		"5 0 obj\n<</Type/XRef/Root 9 0 R>>\nendobj\n" +
		"xref\n0 0\n" +
		"trailer\n<</Root 1 0 R>>\n"
	doc, err := Parse([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	v, _ := doc.Trailer.Dict.Get("Root")
	if v.Serialize() != " 1 0 R" {
		t.Fatalf("repair overwrote existing trailer key: Root = %q", v.Serialize())
	}
}

func TestParseMalformedHeaderFails(t *testing.T) {
	_, err := Parse([]byte("not a pdf file"), Options{})
	if err == nil {
		t.Fatalf("expected an error for a missing %%PDF- header")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Code != InvalidHeader {
		t.Fatalf("err = %v, want *Error{Code: InvalidHeader}", err)
	}
}

func TestParseIndirectOffsetPlaceholder(t *testing.T) {
	data := "%PDF-1.6\n1 0 obj\n   16\nendobj\n"
	doc, err := Parse([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := doc.GetObject(1, 0)
	if obj == nil || !obj.IsIndirect() || obj.IndirectOffset != 16 {
		t.Fatalf("object 1 0 = %+v, want IndirectOffset 16", obj)
	}
}

func TestParseRoundTripPreservesObjectText(t *testing.T) {
	src := minimalPDF()
	doc, err := Parse([]byte(src), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := doc.GetObject(1, 0)
	got := obj.Serialize()
	if !strings.Contains(got, "/Type/Catalog") {
		t.Fatalf("Serialize() = %q, want it to contain /Type/Catalog", got)
	}
}
