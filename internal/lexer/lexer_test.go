package lexer

import (
	"testing"

	"github.com/nailuj29/language/internal/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	src := `+ - * / % & | ( ) { } [ ] , . ; = < <= > >= == != !`
	l := New(src)
	tokens := l.Tokenize()

	want := []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.AND, token.OR, token.PAREN_LEFT, token.PAREN_RIGHT,
		token.BRACE_LEFT, token.BRACE_RIGHT, token.BRACKET_LEFT, token.BRACKET_RIGHT,
		token.COMMA, token.DOT, token.SEMICOLON, token.EQUALS,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.NOT, token.EOF,
	}

	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPercentDoesNotFallThroughToLess(t *testing.T) {
	// Regression test for the known source bug described in spec §9:
	// '%' must never fall through into '<' handling.
	l := New("5 % 2 < 3")
	tokens := l.Tokenize()
	got := kinds(tokens)
	want := []token.Kind{token.NUMBER, token.PERCENT, token.NUMBER, token.LESS, token.NUMBER, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestKeywords(t *testing.T) {
	src := "fn var if else while for loop return nil true false break continue import NaN infinity in"
	l := New(src)
	tokens := l.Tokenize()
	want := []token.Kind{
		token.FN, token.VAR, token.IF, token.ELSE, token.WHILE, token.FOR,
		token.LOOP, token.RETURN, token.NIL, token.TRUE, token.FALSE,
		token.BREAK, token.CONTINUE, token.IMPORT, token.NAN, token.INFINITY, token.IN,
		token.EOF,
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumberLiteral(t *testing.T) {
	l := New("42 3.14")
	tokens := l.Tokenize()
	if tokens[0].Literal.(float64) != 42 {
		t.Errorf("got %v, want 42", tokens[0].Literal)
	}
	if tokens[1].Literal.(float64) != 3.14 {
		t.Errorf("got %v, want 3.14", tokens[1].Literal)
	}
}

func TestStringLiteralEscapeAndDelimiters(t *testing.T) {
	l := New(`"hello\nworld" 'single'`)
	tokens := l.Tokenize()
	if tokens[0].Literal.(string) != "hello\nworld" {
		t.Errorf("got %q", tokens[0].Literal)
	}
	if tokens[1].Literal.(string) != "single" {
		t.Errorf("got %q", tokens[1].Literal)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := New(`"oops`)
	tokens := l.Tokenize()
	if tokens[0].Kind != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tokens[0].Kind)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}

func TestLiteralNewlineInStringIsLexError(t *testing.T) {
	l := New("\"oops\nmore\"")
	l.Tokenize()
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}

func TestNestedBlockComments(t *testing.T) {
	l := New("/* outer /* inner */ still in comment */ 42")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	if tokens[0].Kind != token.NUMBER {
		t.Fatalf("got %s, want NUMBER", tokens[0].Kind)
	}
}

func TestUnterminatedBlockCommentIsLexError(t *testing.T) {
	l := New("/* never closes")
	l.Tokenize()
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}

func TestLineComment(t *testing.T) {
	l := New("1 // comment to EOL\n2")
	tokens := l.Tokenize()
	if tokens[0].Literal.(float64) != 1 || tokens[1].Literal.(float64) != 2 {
		t.Fatalf("got %v", tokens)
	}
}

func TestInvalidCharacterIsLexError(t *testing.T) {
	l := New("@")
	tokens := l.Tokenize()
	if tokens[0].Kind != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tokens[0].Kind)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}

func TestTabAdvancesColumnByThree(t *testing.T) {
	l := New("\tx")
	tokens := l.Tokenize()
	if tokens[0].Pos.Column != 4 {
		t.Errorf("column = %d, want 4", tokens[0].Pos.Column)
	}
}

func TestNewlineResetsLineAndColumn(t *testing.T) {
	l := New("x\ny")
	tokens := l.Tokenize()
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("first token pos = %+v", tokens[0].Pos)
	}
	if tokens[1].Pos.Line != 2 || tokens[1].Pos.Column != 1 {
		t.Errorf("second token pos = %+v", tokens[1].Pos)
	}
}

func TestTokenLexemeMatchesSource(t *testing.T) {
	src := "var count = 10;"
	l := New(src)
	tokens := l.Tokenize()
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			continue
		}
		if idx := indexOf(src, tok.Lexeme); idx == -1 {
			t.Errorf("lexeme %q not found verbatim in source", tok.Lexeme)
		}
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
