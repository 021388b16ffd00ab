package pdf

// Reading of raw PDF tokens from a byte stream. Unlike a typed lexer,
// nextToken never classifies what it returns: it hands back the raw
// text of the next token and leaves interpretation (number vs.
// reference, name vs. keyword, ...) to the value parser.

const (
	startDelims = "<>[]()"
	hardDelims  = " \t\r\n<>[]()/%"
)

// A buffer holds the full byte content of a PDF file (or update
// fragment) being parsed, plus a read cursor. The whole file is held in
// memory rather than streamed, since stream payloads are served as byte
// range views into this same slice (see internal/types.Stream).
type buffer struct {
	data       []byte
	pos        int64
	tokenStart int64 // offset of the first byte of the most recently read token
}

func newBuffer(data []byte) *buffer {
	return &buffer{data: data}
}

func (b *buffer) offset() int64 { return b.pos }

func (b *buffer) atEOF() bool { return b.pos >= int64(len(b.data)) }

func (b *buffer) readByte() (byte, bool) {
	if b.atEOF() {
		return 0, false
	}
	c := b.data[b.pos]
	b.pos++
	return c, true
}

func (b *buffer) peekByte() (byte, bool) {
	if b.atEOF() {
		return 0, false
	}
	return b.data[b.pos], true
}

func (b *buffer) unreadByte() {
	if b.pos > 0 {
		b.pos--
	}
}

func (b *buffer) seek(offset int64) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(b.data)) {
		offset = int64(len(b.data))
	}
	b.pos = offset
}

// errorf panics with a *Error carrying the current offset; it is
// recovered at the top of every exported Parse call.
func (b *buffer) errorf(code Code, format string, args ...any) {
	panic(newError(code, b.offset(), format, args...))
}

func isSpaceOrNUL(c byte) bool {
	switch c {
	case '\x00', '\t', '\n', '\r', ' ':
		return true
	}
	return false
}

// isWhitespace reports the whitespace set without NUL: a NUL reached
// leading a token is skipped, but one reached mid-token is appended to
// it rather than ending it, so the two cases need separate tests.
func isWhitespace(c byte) bool {
	switch c {
	case '\t', '\n', '\r', ' ':
		return true
	}
	return false
}

func isHardDelim(c byte) bool {
	for i := 0; i < len(hardDelims); i++ {
		if hardDelims[i] == c {
			return true
		}
	}
	return false
}

func isStartDelim(c byte) bool {
	for i := 0; i < len(startDelims); i++ {
		if startDelims[i] == c {
			return true
		}
	}
	return false
}

// finishLine discards bytes up to and including the next line
// terminator, or to EOF if none remains.
func (b *buffer) finishLine() {
	for {
		c, ok := b.readByte()
		if !ok {
			return
		}
		if c == '\n' {
			return
		}
		if c == '\r' {
			if c2, ok := b.peekByte(); ok && c2 == '\n' {
				b.readByte()
			}
			return
		}
	}
}

// nextToken returns the next raw token in the stream. Leading
// whitespace and NUL bytes are skipped; '%' begins a comment that is
// discarded to end of line unless readComment is set, in which case the
// comment text (including the leading '%', excluding the line
// terminator) is returned as the token. "<<" and ">>" are recognized as
// two-byte tokens; every other byte in startDelims is its own one-byte
// token. ok is false only at end of file with no token produced.
func (b *buffer) nextToken(readComment bool) (tok string, ok bool) {
	for {
		c, hasNext := b.peekByte()
		if !hasNext {
			return "", false
		}
		if isSpaceOrNUL(c) {
			b.readByte()
			continue
		}
		if c == '%' {
			if readComment {
				b.tokenStart = b.offset()
				b.readByte()
				buf := []byte{c}
				for {
					c2, hasNext := b.peekByte()
					if !hasNext || c2 == '\r' || c2 == '\n' {
						break
					}
					b.readByte()
					buf = append(buf, c2)
				}
				return string(buf), true
			}
			b.finishLine()
			continue
		}
		break
	}

	b.tokenStart = b.offset()
	c, _ := b.readByte()

	if c == '<' {
		if c2, hasNext := b.peekByte(); hasNext && c2 == '<' {
			b.readByte()
			return "<<", true
		}
		return "<", true
	}
	if c == '>' {
		if c2, hasNext := b.peekByte(); hasNext && c2 == '>' {
			b.readByte()
			return ">>", true
		}
		return ">", true
	}
	if isStartDelim(c) {
		return string(c), true
	}

	buf := []byte{c}
	for {
		c2, hasNext := b.peekByte()
		if !hasNext || isWhitespace(c2) || isHardDelim(c2) {
			break
		}
		b.readByte()
		buf = append(buf, c2)
	}
	return string(buf), true
}
