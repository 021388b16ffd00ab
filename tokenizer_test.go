package pdf

import "testing"

func readAllTokens(t *testing.T, data string) []string {
	t.Helper()
	b := newBuffer([]byte(data))
	var toks []string
	for {
		tok, ok := b.nextToken(false)
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestNextTokenSkipsWhitespaceAndComments(t *testing.T) {
	toks := readAllTokens(t, "  1 0 obj\n% a comment\n<< /Foo 1 >>\nendobj")
	want := []string{"1", "0", "obj", "<<", "/Foo", "1", ">>", "endobj"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(toks), toks, len(want), want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, toks[i], want[i])
		}
	}
}

func TestNextTokenCommentCaptured(t *testing.T) {
	b := newBuffer([]byte("%%EOF1234\n0 0 obj"))
	tok, ok := b.nextToken(true)
	if !ok || tok != "%%EOF1234" {
		t.Fatalf("nextToken(true) = %q, %v, want %%EOF1234, true", tok, ok)
	}
	tok2, ok2 := b.nextToken(false)
	if !ok2 || tok2 != "0" {
		t.Fatalf("token after comment = %q, %v, want 0, true", tok2, ok2)
	}
}

func TestNextTokenSingleCharDelims(t *testing.T) {
	toks := readAllTokens(t, "[1 2]")
	want := []string{"[", "1", "2", "]"}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, toks[i], want[i])
		}
	}
}

func TestNextTokenAngleBrackets(t *testing.T) {
	toks := readAllTokens(t, "<</A<</B 1>>>>")
	want := []string{"<<", "/A", "<<", "/B", "1", ">>", ">>"}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
}

func TestNextTokenMidTokenNULIsAppended(t *testing.T) {
	b := newBuffer([]byte("ab\x00cd ef"))
	tok, ok := b.nextToken(false)
	if !ok || tok != "ab\x00cd" {
		t.Fatalf("nextToken = %q, %v, want %q, true", tok, ok, "ab\x00cd")
	}
	tok2, ok2 := b.nextToken(false)
	if !ok2 || tok2 != "ef" {
		t.Fatalf("next token = %q, %v, want ef, true", tok2, ok2)
	}
}

func TestFinishLine(t *testing.T) {
	b := newBuffer([]byte("garbage line\nnext"))
	b.finishLine()
	tok, ok := b.nextToken(false)
	if !ok || tok != "next" {
		t.Fatalf("nextToken after finishLine = %q, %v, want next, true", tok, ok)
	}
}
