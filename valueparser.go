package pdf

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/soutade/pdfinc/internal/types"
)

// tokenToValue turns a raw number-shaped token into an Integer or Real,
// applying an optional sign consumed separately by the caller. A token
// containing '.' is real; a leading '.' is treated as "0.".
func tokenToValue(tok string, signed bool, negative bool) (types.Value, bool) {
	if strings.Contains(tok, ".") {
		t := tok
		if strings.HasPrefix(t, ".") {
			t = "0" + t
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, false
		}
		if negative {
			f = -f
		}
		return types.NewReal(f, signed), true
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, false
	}
	if negative {
		i = -i
	}
	return types.NewInteger(i, signed), true
}

// parseType dispatches on a just-read token and produces the Value it
// introduces, recursing into the tokenizer as needed for compound
// values (dictionaries, arrays, strings).
func (p *parser) parseType(tok string) types.Value {
	switch {
	case tok == "<<":
		return p.parseDictionary()
	case tok == "[":
		return p.parseArray()
	case tok == "(":
		return p.parseLiteralString()
	case tok == "<":
		return p.parseHexaString()
	case tok == "stream":
		p.b.errorf(InvalidStream, "stream value encountered outside object body")
		return nil
	case len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9':
		return p.parseNumberOrReference(tok)
	case len(tok) > 0 && tok[0] == '/':
		return p.parseName(tok)
	case len(tok) > 0 && (tok[0] == '+' || tok[0] == '-'):
		return p.parseSignedNumber(tok)
	case len(tok) > 0 && (tok[0] == '0' || tok[0] == '.'):
		return p.parseNumber(tok)
	case tok == "true":
		return types.NewBoolean(true)
	case tok == "false":
		return types.NewBoolean(false)
	case tok == "null":
		return types.Null{}
	}
	p.b.errorf(InvalidToken, "unexpected token %q", tok)
	return nil
}

func (p *parser) parseSignedNumber(tok string) types.Value {
	negative := tok[0] == '-'
	v, ok := tokenToValue(tok[1:], true, negative)
	if !ok {
		p.b.errorf(InvalidNumber, "invalid number %q", tok)
	}
	return v
}

func (p *parser) parseNumber(tok string) types.Value {
	v, ok := tokenToValue(tok, false, false)
	if !ok {
		p.b.errorf(InvalidNumber, "invalid number %q", tok)
	}
	return v
}

// parseNumberOrReference reads an unsigned integer-looking token and
// tentatively looks two tokens ahead for "<gen> R"; if that fails to
// materialize, the lookahead is rewound and a plain number is returned.
func (p *parser) parseNumberOrReference(tok string) types.Value {
	v, ok := tokenToValue(tok, false, false)
	if !ok {
		p.b.errorf(InvalidNumber, "invalid number %q", tok)
	}
	if v.Kind() == types.RealKind {
		return v
	}

	saved := p.b.offset()
	tok2, ok2 := p.b.nextToken(false)
	if !ok2 {
		p.b.seek(saved)
		return v
	}
	genVal, ok3 := tokenToValue(tok2, false, false)
	if !ok3 || genVal.Kind() != types.IntegerKind {
		p.b.seek(saved)
		return v
	}
	tok3, ok4 := p.b.nextToken(false)
	if !ok4 || tok3 != "R" {
		p.b.seek(saved)
		return v
	}
	return types.NewReference(int(v.(types.Integer).Val), int(genVal.(types.Integer).Val))
}

func (p *parser) parseName(tok string) types.Value {
	if len(tok) == 0 || tok[0] != '/' {
		p.b.errorf(InvalidName, "invalid name %q", tok)
	}
	return types.Name{Raw: tok}
}

// parseLiteralString reads the raw bytes of a "(" ... ")" literal,
// tracking escape state only enough to find the balanced closing paren;
// no escape interpretation happens here (see types.String.Unescaped).
func (p *parser) parseLiteralString() types.Value {
	var buf []byte
	depth := 1
	escaped := false
	for {
		c, ok := p.b.readByte()
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated string")
		}
		if escaped {
			buf = append(buf, c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			buf = append(buf, c)
			escaped = true
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return types.NewString(string(buf))
			}
		}
		buf = append(buf, c)
	}
}

// parseHexaString reads raw hex digits up to the closing '>', with no
// whitespace skipping between digits.
func (p *parser) parseHexaString() types.Value {
	var buf []byte
	for {
		c, ok := p.b.readByte()
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated hex string")
		}
		if c == '>' {
			break
		}
		buf = append(buf, c)
	}
	if len(buf)%2 != 0 {
		p.b.errorf(InvalidHexaString, "odd length hex string %q", string(buf))
	}
	return types.NewHexaString(string(buf))
}

func (p *parser) parseArray() types.Value {
	arr := types.NewArray()
	for {
		tok, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated array")
		}
		if tok == "]" {
			return arr
		}
		arr.Append(p.parseType(tok))
	}
}

// parseDictionary reads key/value pairs until ">>". A value token of
// ">>" where a value was expected binds the preceding key to Null and
// ends the dictionary immediately.
func (p *parser) parseDictionary() *types.Dictionary {
	dict := types.NewDictionary()
	for {
		keyTok, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated dictionary")
		}
		if keyTok == ">>" {
			return dict
		}
		key := p.parseName(keyTok).(types.Name).Value()

		valTok, ok := p.b.nextToken(false)
		if !ok {
			p.b.errorf(TruncatedFile, "unterminated dictionary")
		}
		if valTok == ">>" {
			dict.Set(key, nil)
			return dict
		}
		dict.Set(key, p.parseType(valTok))
	}
}

const streamRecoveryChunk = 4096

// parseStream reads a stream's raw payload following its dictionary.
// If /Length names an integer and the bytes at dict-declared-length
// offset are immediately followed by "endstream", that fast path is
// used; otherwise the parser falls back to scanning forward for the
// literal "endstream" and trims the EOL that precedes it.
func (p *parser) parseStream(dict *types.Dictionary) *types.Stream {
	// "stream" is always followed by a line terminator that is not
	// part of the payload: consume it here, since nextToken stops
	// right after the keyword without eating it.
	if c, ok := p.b.readByte(); ok {
		switch c {
		case '\r':
			if c2, ok2 := p.b.peekByte(); ok2 && c2 == '\n' {
				p.b.readByte()
			}
		case '\n':
			// consumed
		default:
			p.b.unreadByte()
		}
	}

	start := p.b.offset()

	lengthVal, _ := dict.Get("Length")
	if lengthInt, ok := lengthVal.(types.Integer); ok {
		end := start + lengthInt.Val
		if end >= 0 && end <= int64(len(p.b.data)) {
			p.b.seek(end)
			tok, ok := p.b.nextToken(false)
			if ok && tok == "endstream" {
				return types.NewStreamView(dict, p.b.data, start, end)
			}
		}
		p.b.seek(start)
	}

	p.trace("stream /Length missing or wrong, scanning for endstream", "offset", start)
	end := p.scanForEndstream(start)
	return types.NewStreamView(dict, p.b.data, start, end)
}

// scanForEndstream searches forward in streamRecoveryChunk-byte windows
// for the literal "endstream", then trims a trailing "\n" and/or "\r"
// immediately preceding it (checked independently, in that order) to
// find the true end of stream data. It leaves the cursor positioned just
// after "endstream\n", or just after "endstream" when no "\n" follows it.
func (p *parser) scanForEndstream(start int64) int64 {
	needle := []byte("endstream")
	data := p.b.data
	searchFrom := start
	for {
		window := searchFrom + streamRecoveryChunk
		if window > int64(len(data)) {
			window = int64(len(data))
		}
		idx := bytes.Index(data[searchFrom:window], needle)
		if idx >= 0 {
			foundAt := searchFrom + int64(idx)
			end := foundAt
			if end > start && data[end-1] == '\n' {
				end--
			}
			if end > start && data[end-1] == '\r' {
				end--
			}
			cursor := foundAt + int64(len(needle))
			if cursor < int64(len(data)) && data[cursor] == '\n' {
				cursor++
			}
			p.b.seek(cursor)
			return end
		}
		if window >= int64(len(data)) {
			p.b.errorf(InvalidStream, "endstream not found")
		}
		// overlap by len(needle)-1 so a needle split across the
		// window boundary is not missed
		searchFrom = window - int64(len(needle)) + 1
	}
}
