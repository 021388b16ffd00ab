package pdf

import (
	"log/slog"
	"strconv"

	"github.com/soutade/pdfinc/internal/types"
)

// parser holds the state threaded through a single parse of one file:
// the byte buffer, the document being built, and the tracing switch
// from Options.
type parser struct {
	b       *buffer
	doc     *Document
	options Options
}

// Options configures Parse and Open. The zero value is the default PDF
// version (1.6) with tracing disabled.
type Options struct {
	VersionMajor int
	VersionMinor int
	Trace        bool
}

func (o Options) versionOrDefault() (int, int) {
	if o.VersionMajor == 0 && o.VersionMinor == 0 {
		return 1, 6
	}
	return o.VersionMajor, o.VersionMinor
}

func (p *parser) trace(msg string, args ...any) {
	if p.options.Trace {
		slog.Debug(msg, args...)
	}
}

// Parse reads a complete PDF file from data and returns the resulting
// Document.
func Parse(data []byte, options Options) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				doc = nil
				return
			}
			panic(r)
		}
	}()

	p := &parser{b: newBuffer(data), options: options}
	p.doc = NewDocument()
	p.doc.source = data
	major, minor := options.versionOrDefault()
	p.doc.VersionMajor, p.doc.VersionMinor = major, minor

	p.parseHeader()
	p.parseBody()
	p.linkXRefTable()
	p.repairTrailer()

	return p.doc, nil
}

// parseHeader reads the mandatory "%PDF-x.y" signature and records the
// version it names, then discards the remainder of the header line.
func (p *parser) parseHeader() {
	const sig = "%PDF-"
	for i := 0; i < len(sig); i++ {
		c, ok := p.b.readByte()
		if !ok || c != sig[i] {
			p.b.errorf(InvalidHeader, "missing %%PDF- signature")
		}
	}
	majorC, ok := p.b.readByte()
	if !ok || majorC < '0' || majorC > '9' {
		p.b.errorf(InvalidHeader, "invalid major version")
	}
	dot, ok := p.b.readByte()
	if !ok || dot != '.' {
		p.b.errorf(InvalidHeader, "missing '.' in version")
	}
	minorC, ok := p.b.readByte()
	if !ok || minorC < '0' || minorC > '9' {
		p.b.errorf(InvalidHeader, "invalid minor version")
	}
	p.doc.VersionMajor = int(majorC - '0')
	p.doc.VersionMinor = int(minorC - '0')
	p.b.finishLine()
}

// parseBody drives the main read loop: every top-level construct in a
// PDF body is introduced by its first token, dispatched here. A single
// token that matches none of xref/object/startxref is tolerated once,
// immediately after the header, by skipping to the end of its line;
// any later occurrence is a hard error.
func (p *parser) parseBody() {
	toleratedOnce := false
	first := true
	for {
		tok, ok := p.b.nextToken(false)
		if !ok {
			return
		}
		switch {
		case tok == "xref":
			p.doc.XRefOffset = p.b.tokenStart
			p.parseXref()
		case len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9':
			p.parseObject(tok)
		case tok == "startxref":
			p.parseStartXref()
		default:
			if first && !toleratedOnce {
				toleratedOnce = true
				p.trace("skipping stray line after header", "token", tok)
				p.b.finishLine()
			} else {
				p.b.errorf(InvalidLine, "unexpected token %q", tok)
			}
		}
		first = false
	}
}

// parseObject reads "gen obj ... endobj" given the already-read object
// id token. The offset of the object's first byte is recorded before
// any of its body is parsed, and the Object is appended to the
// document immediately so a later parse error still leaves it in the
// object list.
func (p *parser) parseObject(idTok string) {
	offset := p.b.tokenStart

	objectID, err := strconv.Atoi(idTok)
	if err != nil {
		p.b.errorf(InvalidObject, "invalid object id %q", idTok)
	}

	genTok, ok := p.b.nextToken(false)
	if !ok {
		p.b.errorf(InvalidObject, "missing generation number")
	}
	generationNumber, err := strconv.Atoi(genTok)
	if err != nil {
		p.b.errorf(InvalidObject, "invalid generation number %q", genTok)
	}

	objTok, ok := p.b.nextToken(false)
	if !ok || objTok != "obj" {
		p.b.errorf(InvalidObject, "missing 'obj' keyword")
	}

	obj := &Object{ObjectID: objectID, GenerationNumber: generationNumber, Offset: offset, Used: true}
	p.doc.AddObject(obj)

	for {
		tok, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated object %d %d", objectID, generationNumber)
		}
		if tok == "endobj" {
			break
		}
		switch {
		case tok == "<<":
			dict := p.parseDictionary()
			obj.Dict = dict
			if streamTok, ok := p.b.nextToken(false); ok && streamTok == "stream" {
				obj.Stream = p.parseStream(dict)
			} else if ok {
				p.b.seek(p.b.tokenStart)
			}
		case len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9':
			v, ok2 := tokenToValue(tok, false, false)
			if !ok2 || v.Kind() != types.IntegerKind {
				p.b.errorf(InvalidObject, "invalid indirect offset %q", tok)
			}
			obj.IndirectOffset = v.(types.Integer).Val
		default:
			obj.Data = append(obj.Data, p.parseType(tok))
		}
	}

	if obj.Dict != nil {
		if v, ok := obj.Dict.Get("Type"); ok {
			if name, ok := v.(types.Name); ok && name.Raw == "/XRef" {
				p.doc.XRefStreamObject = obj
			}
		}
	}
}

// parseXref reads a classic cross-reference section: a sequence of
// subsections, each a "first count" header followed by count
// fixed-width records, terminated by "trailer". Subsection-start tokens
// and fixed-width records are told apart purely by the first token's
// length being exactly 10, matching the original parser's heuristic
// exactly (including its failure mode on a coincidentally 10-digit
// first object id).
func (p *parser) parseXref() {
	curID := 0
	for {
		tok1, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated xref section")
		}
		if tok1 == "trailer" {
			p.parseTrailer()
			return
		}
		tok2, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated xref section")
		}
		if len(tok1) == 10 {
			offset, err := strconv.ParseInt(tok1, 10, 64)
			if err != nil {
				p.b.errorf(InvalidTrailer, "invalid xref offset %q", tok1)
			}
			gen, err := strconv.Atoi(tok2)
			if err != nil {
				p.b.errorf(InvalidTrailer, "invalid xref generation %q", tok2)
			}
			flagTok, ok := p.b.nextToken(false)
			if !ok {
				p.b.errorf(TruncatedFile, "unterminated xref record")
			}
			used := flagTok == "n"
			p.doc.XRefTable = append(p.doc.XRefTable, XRefEntry{
				ObjectID:         curID,
				Offset:           offset,
				GenerationNumber: gen,
				Used:             used,
			})
			curID++
		} else {
			id, err := strconv.Atoi(tok1)
			if err != nil {
				p.b.errorf(InvalidTrailer, "invalid xref subsection id %q", tok1)
			}
			curID = id
			// tok2 is the subsection's entry count; it has no other
			// use here since records are read until "trailer".
		}
	}
}

// parseTrailer reads "<< ... >>" into the document trailer. If the
// dictionary is not followed by "startxref", this is tolerated as a
// trailer fragment without its own xref pointer (e.g. a multi-xref
// document where only the first trailer carries startxref): the cursor
// is rewound past the dictionary and parsing resumes at the body loop.
func (p *parser) parseTrailer() {
	openTok, ok := p.b.nextToken(false)
	if !ok || openTok != "<<" {
		p.b.errorf(InvalidTrailer, "expected '<<' starting trailer")
	}
	dict := p.parseDictionary()

	saved := p.b.offset()
	nextTok, ok := p.b.nextToken(false)
	if ok && nextTok == "startxref" {
		p.mergeTrailer(dict)
		p.parseStartXrefBody()
		return
	}
	p.trace("trailer without startxref", "offset", saved)
	p.b.seek(saved)
	p.mergeTrailer(dict)
}

// mergeTrailer folds dict's entries into the document's running
// trailer object, overwriting any key already present. A file is
// parsed top to bottom, oldest section first, so the trailer belonging
// to the most recent incremental update is merged in last and wins,
// exactly as repeated calls to the original parser's
// Dictionary::addData do for its single running trailer object.
func (p *parser) mergeTrailer(dict *types.Dictionary) {
	if p.doc.Trailer == nil || p.doc.Trailer.Dict == nil {
		p.doc.Trailer = &Object{Dict: types.NewDictionary()}
	}
	for _, k := range dict.Keys() {
		v, _ := dict.Get(k)
		p.doc.Trailer.Dict.Set(k, v)
	}
}

// parseStartXref reads the mandatory xref-offset token after
// "startxref" and the "%%EOF" footer that follows it.
func (p *parser) parseStartXref() {
	p.parseStartXrefBody()
}

func (p *parser) parseStartXrefBody() {
	offsetTok, ok := p.b.nextToken(false)
	if !ok {
		p.b.errorf(InvalidFooter, "missing startxref offset")
	}
	offset, err := strconv.ParseInt(offsetTok, 10, 64)
	if err != nil {
		p.b.errorf(InvalidFooter, "invalid startxref offset %q", offsetTok)
	}
	if p.doc.XRefOffset < 0 {
		p.doc.XRefOffset = offset
	}

	footerTok, ok := p.b.nextToken(true)
	if !ok || len(footerTok) < 5 || footerTok[:5] != "%%EOF" {
		p.b.errorf(InvalidFooter, "missing %%%%EOF")
	}
	if len(footerTok) > 5 {
		p.trace("over-long %%EOF token, re-seating cursor", "token", footerTok)
		p.b.seek(p.b.tokenStart + 5)
	}
}

// linkXRefTable resolves each xref entry's object pointer against the
// document's object list and propagates the entry's used/free flag
// onto the resolved Object.
func (p *parser) linkXRefTable() {
	for i := range p.doc.XRefTable {
		entry := &p.doc.XRefTable[i]
		obj := p.doc.GetObject(entry.ObjectID, entry.GenerationNumber)
		if obj == nil {
			continue
		}
		entry.Object = obj
		obj.Used = entry.Used
	}
}

// repairTrailer fills any of Root/Info/Encrypt/ID missing from the
// trailer from the last-seen /XRef-typed object, never overwriting a
// key the trailer already has.
func (p *parser) repairTrailer() {
	if p.doc.XRefStreamObject == nil || p.doc.XRefStreamObject.Dict == nil {
		return
	}
	if p.doc.Trailer == nil {
		p.doc.Trailer = &Object{Dict: types.NewDictionary()}
	}
	if p.doc.Trailer.Dict == nil {
		p.doc.Trailer.Dict = types.NewDictionary()
	}
	for _, key := range []string{"Root", "Info", "Encrypt", "ID"} {
		if p.doc.Trailer.Dict.Has(key) {
			continue
		}
		if v, ok := p.doc.XRefStreamObject.Dict.Get(key); ok {
			p.doc.Trailer.Dict.Set(key, v.Clone())
		}
	}
}
