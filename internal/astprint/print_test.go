package astprint_test

import (
	"strings"
	"testing"

	"github.com/nailuj29/language/internal/astprint"
	"github.com/nailuj29/language/internal/lexer"
	"github.com/nailuj29/language/internal/parser"
)

func parse(t *testing.T, src string) *parser.Parser {
	t.Helper()
	l := lexer.New(src)
	return parser.New(l.Tokenize())
}

func TestDumpVarStmtAndBinary(t *testing.T) {
	p := parse(t, "var x = 1 + 2;")
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}

	out := astprint.Dump(prog)
	for _, want := range []string{"Program", "VarStmt x", "Binary +", "Literal 1", "Literal 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q, got:\n%s", want, out)
		}
	}
}

func TestDumpNestedBlocksAndCalls(t *testing.T) {
	p := parse(t, `
		fn add(a, b) { return a + b; }
		if add(1, 2) == 3 {
			print("ok");
		}
	`)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}

	out := astprint.Dump(prog)
	for _, want := range []string{"IfStmt", "Call (2 args)", "Block", "ExpressionStmt"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q, got:\n%s", want, out)
		}
	}
}
