package diag_test

import (
	"strings"
	"testing"

	"github.com/nailuj29/language/internal/diag"
	"github.com/nailuj29/language/internal/token"
)

func TestErrorStringIncludesPosition(t *testing.T) {
	err := diag.New(diag.Runtime, token.Position{Line: 3, Column: 5}, "Undefined variable %q", "x")
	got := err.Error()
	for _, want := range []string{"Runtime error", "Undefined variable \"x\"", "line 3", "column 5"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestFormatPointsAtTheOffendingColumn(t *testing.T) {
	source := "var x = 1;\nvar y = ;\nprint(y);"
	err := diag.New(diag.Parse, token.Position{Line: 2, Column: 9}, "Expect expression")

	out := diag.Format(err, "test.scr", source)

	wantLines := []string{
		"Parse error in test.scr:2:9",
		"var x = 1;",
		"var y = ;",
		"Expect expression",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, out)
		}
	}

	// The caret line has 7 gutter spaces + (column-1) tildes + a caret.
	caretLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "^") {
			caretLine = line
			break
		}
	}
	if caretLine == "" {
		t.Fatal("no caret line found in output")
	}
	wantCaret := strings.Repeat(" ", 7) + strings.Repeat("~", 8) + "^"
	if caretLine != wantCaret {
		t.Errorf("caret line = %q, want %q", caretLine, wantCaret)
	}
}

func TestFormatWithoutFileUsesInlineBanner(t *testing.T) {
	err := diag.New(diag.Lex, token.Position{Line: 1, Column: 1}, "Unexpected character '@'")
	out := diag.Format(err, "", "@")
	if !strings.Contains(out, "Lex error at line 1, column 1") {
		t.Errorf("Format() = %q", out)
	}
}

func TestNewAtCarriesToken(t *testing.T) {
	tok := token.Token{Kind: token.IDENTIFIER, Lexeme: "x", Pos: token.Position{Line: 1, Column: 1}}
	err := diag.NewAt(diag.Runtime, tok, "Undefined variable %q", tok.Lexeme)
	if err.Token == nil {
		t.Fatal("expected Token to be set")
	}
	if err.Token.Lexeme != "x" {
		t.Errorf("Token.Lexeme = %q, want %q", err.Token.Lexeme, "x")
	}
}
