// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdf implements parsing and incremental rewriting of PDF
// files.
//
// # Overview
//
// A PDF file is a header line, a sequence of indirect objects ("id gen
// obj ... endobj"), one or more classic cross-reference sections, and a
// trailer dictionary pointing at the document's catalog. This package
// exposes that structure directly as a Document: an ordered list of
// Objects, each carrying a dictionary, a stream payload, or a list of
// free-standing values, plus the Trailer and the cross-reference
// entries the parser read.
//
// Every value inside an object's body is one of the Kinds in
// internal/types: Null, Boolean, Integer, Real, Name, String,
// HexaString, Reference, Array, Dictionary or Stream. Strings and names
// keep their raw on-disk bytes rather than an interpreted form, so that
// Document.Write reproduces their bytes for anything that was not itself
// modified. The layout around them is regenerated on write: whitespace,
// dictionary key order (sorted) and number formatting may differ from
// the source.
//
// Parsing tolerates a handful of real-world deviations from strict PDF
// syntax (a missing stream /Length, a stray non-token line right after
// the header, a trailer with no startxref, a glued-on %%EOF) rather
// than failing outright; each tolerance, when Options.Trace is set, is
// logged at slog.Debug so callers can audit how "clean" an input file
// actually was.
//
// Writing supports both a full rewrite (Document.Write) and an
// incremental update (Document.WriteIncremental) that appends only the
// objects created since the document was parsed, chaining its new
// cross-reference section to the original file's via /Prev — the
// append-only update mechanism PDF viewers use to record edits without
// rewriting the whole file.
package pdf

import "os"

// Open reads and parses the PDF file named by path.
func Open(path string, options Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: UnableToOpenFile, Message: err.Error()}
	}
	return Parse(data, options)
}
