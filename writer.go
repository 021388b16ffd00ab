package pdf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/soutade/pdfinc/internal/types"
)

// xrefRecord is one fixed-width "offset generation flag" line plus the
// "id count" subsection header that precedes it. Every object written
// by this package gets its own one-entry subsection, matching
// uPDFParser.cpp's writer rather than coalescing runs of consecutive
// ids into a single subsection header.
func xrefRecord(objectID int, offset int64, generationNumber int, used bool) string {
	flag := "f"
	if used {
		flag = "n"
	}
	return fmt.Sprintf("%d 1\n%010d %05d %s\r\n", objectID, offset, generationNumber, flag)
}

// Write performs a full rewrite of the document to path: a fresh
// header, every object in document order, a classic xref table
// covering all of them, and a trailer with Size set to the highest
// object id plus one.
func (d *Document) Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &Error{Code: UnableToOpenFile, Message: err.Error()}
	}
	defer f.Close()

	w := &countingWriter{f: f}

	if err := w.writeString(fmt.Sprintf("%%PDF-%d.%d\r%%", d.VersionMajor, d.VersionMinor)); err != nil {
		return err
	}
	// Written as raw bytes rather than through Sprintf's %c: %c formats a
	// code point and UTF-8-encodes it, so 0xE2 would come out as the two
	// bytes C3 A2 instead of the single byte E2.
	if err := w.writeBytes([]byte{0xE2, 0xE3, 0xCF, 0xD3}); err != nil {
		return err
	}
	if err := w.writeString("\r\n"); err != nil {
		return err
	}

	xrefBody := "xref\n0 1\n0000000000 65535 f\r\n"
	maxID := 0
	var xrefStmOffset int64

	for _, obj := range d.Objects {
		curOffset := w.offset
		if err := w.writeString(obj.Serialize()); err != nil {
			return err
		}
		xrefBody += xrefRecord(obj.ObjectID, curOffset, obj.GenerationNumber, obj.Used)
		if obj.ObjectID > maxID {
			maxID = obj.ObjectID
		}

		if isXRefStreamObject(obj) {
			if obj.Dict.Has("Prev") && xrefStmOffset != 0 {
				obj.Dict.Delete("Prev")
				obj.Dict.Set("Prev", types.NewInteger(xrefStmOffset, false))
			}
			xrefStmOffset = curOffset
		}
	}

	newXRefOffset := w.offset
	if err := w.writeString(xrefBody); err != nil {
		return err
	}

	trailer := d.trailerDict()
	trailer.Delete("Prev")
	trailer.Delete("Size")
	trailer.Set("Size", types.NewInteger(int64(maxID+1), false))
	trailer.Delete("XRefStm")
	if xrefStmOffset != 0 {
		trailer.Set("XRefStm", types.NewInteger(xrefStmOffset, false))
	}

	if err := w.writeString("trailer\n" + trailer.Serialize()); err != nil {
		return err
	}
	if err := w.writeString("startxref\n" + strconv.FormatInt(newXRefOffset, 10) + "\n%%EOF"); err != nil {
		return err
	}
	return nil
}

// WriteIncremental appends only the objects marked IsNew to path,
// chaining the new xref section to the document's original one via
// /Prev. If path does not yet exist, the document's original source
// bytes are copied into it first. If there are no new objects, the
// file is left exactly as copied (or untouched, if it already existed)
// and no xref/trailer is written at all.
func (d *Document) WriteIncremental(path string) error {
	_, statErr := os.Stat(path)
	needsCopy := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return &Error{Code: UnableToOpenFile, Message: err.Error()}
	}
	defer f.Close()

	if needsCopy {
		if _, err := f.Write(d.source); err != nil {
			return &Error{Code: IOError, Message: err.Error()}
		}
	}

	info, err := f.Stat()
	if err != nil {
		return &Error{Code: IOError, Message: err.Error()}
	}
	newCount := 0
	for _, obj := range d.Objects {
		if obj.IsNew {
			newCount++
		}
	}
	if newCount == 0 {
		return nil
	}

	w := &countingWriter{f: f, offset: info.Size()}

	if err := w.writeString("\r"); err != nil {
		return err
	}

	xrefBody := "xref\n"
	maxID := 0

	for _, obj := range d.Objects {
		if obj.ObjectID > maxID {
			maxID = obj.ObjectID
		}
		if !obj.IsNew {
			continue
		}
		curOffset := w.offset
		if err := w.writeString(obj.Serialize()); err != nil {
			return err
		}
		xrefBody += xrefRecord(obj.ObjectID, curOffset, obj.GenerationNumber, obj.Used)
	}

	newXRefOffset := w.offset
	if err := w.writeString(xrefBody); err != nil {
		return err
	}

	trailer := d.trailerDict()
	trailer.Delete("Prev")
	if d.XRefOffset >= 0 {
		trailer.Set("Prev", types.NewInteger(d.XRefOffset, false))
	}
	trailer.Delete("Size")
	trailer.Set("Size", types.NewInteger(int64(maxID+1), false))

	if err := w.writeString("trailer\n" + trailer.Serialize()); err != nil {
		return err
	}
	if err := w.writeString("startxref\n" + strconv.FormatInt(newXRefOffset, 10) + "\n%%EOF"); err != nil {
		return err
	}
	return nil
}

func (d *Document) trailerDict() *types.Dictionary {
	if d.Trailer == nil {
		d.Trailer = &Object{Dict: types.NewDictionary()}
	}
	if d.Trailer.Dict == nil {
		d.Trailer.Dict = types.NewDictionary()
	}
	return d.Trailer.Dict
}

func isXRefStreamObject(obj *Object) bool {
	if obj.Dict == nil {
		return false
	}
	v, ok := obj.Dict.Get("Type")
	if !ok {
		return false
	}
	name, ok := v.(types.Name)
	return ok && name.Raw == "/XRef"
}

// countingWriter tracks the byte offset every write lands at, needed to
// record each object's position in the xref table as it is emitted.
type countingWriter struct {
	f      *os.File
	offset int64
}

func (w *countingWriter) writeString(s string) error {
	n, err := w.f.WriteString(s)
	w.offset += int64(n)
	if err != nil {
		return &Error{Code: IOError, Message: err.Error(), Offset: w.offset}
	}
	return nil
}

func (w *countingWriter) writeBytes(b []byte) error {
	n, err := w.f.Write(b)
	w.offset += int64(n)
	if err != nil {
		return &Error{Code: IOError, Message: err.Error(), Offset: w.offset}
	}
	return nil
}
