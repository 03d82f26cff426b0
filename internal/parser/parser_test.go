package parser

import (
	"testing"

	"github.com/nailuj29/language/internal/ast"
	"github.com/nailuj29/language/internal/lexer"
)

func testParser(t *testing.T, input string) *Parser {
	t.Helper()
	l := lexer.New(input)
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	return New(tokens)
}

func checkNoParseErrors(t *testing.T, p *Parser) {
	t.Helper()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
}

func TestVarDeclarationWithoutInitializer(t *testing.T) {
	p := testParser(t, "var x;")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	stmt, ok := prog.Statements[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarStmt", prog.Statements[0])
	}
	if stmt.Name.Lexeme != "x" {
		t.Errorf("name = %q, want x", stmt.Name.Lexeme)
	}
	if stmt.Initializer != nil {
		t.Errorf("initializer = %v, want nil", stmt.Initializer)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	p := testParser(t, "var x = 1 + 2 * 3;")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	stmt := prog.Statements[0].(*ast.VarStmt)
	bin, ok := stmt.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("initializer is %T, want *ast.Binary", stmt.Initializer)
	}
	if bin.Op.Lexeme != "+" {
		t.Fatalf("top operator = %q, want +", bin.Op.Lexeme)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op.Lexeme != "*" {
		t.Fatalf("right side is not a '*' binary: %#v", bin.Right)
	}
}

func TestFunctionDeclarationLowersToVarOfFnLiteral(t *testing.T) {
	p := testParser(t, "fn add(a, b) { return a + b; }")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	stmt, ok := prog.Statements[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarStmt", prog.Statements[0])
	}
	lit, ok := stmt.Initializer.(*ast.Literal)
	if !ok {
		t.Fatalf("initializer is %T, want *ast.Literal", stmt.Initializer)
	}
	fn, ok := lit.Value.(*ast.FnLiteral)
	if !ok {
		t.Fatalf("literal value is %T, want *ast.FnLiteral", lit.Value)
	}
	if len(fn.Params) != 2 || fn.Params[0].Lexeme != "a" || fn.Params[1].Lexeme != "b" {
		t.Errorf("params = %v", fn.Params)
	}
}

func TestLoopDesugarsToWhileTrue(t *testing.T) {
	p := testParser(t, "loop { break; }")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	ws, ok := prog.Statements[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.WhileStmt", prog.Statements[0])
	}
	lit, ok := ws.Condition.(*ast.Literal)
	if !ok || lit.Value != true {
		t.Fatalf("condition = %#v, want Literal(true)", ws.Condition)
	}
}

func TestIfAlwaysMaterializesElseBlock(t *testing.T) {
	p := testParser(t, "if true { print(1); }")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	ifs := prog.Statements[0].(*ast.IfStmt)
	if ifs.Else == nil {
		t.Fatal("else block is nil, want a non-nil empty block")
	}
	if len(ifs.Else.Statements) != 0 {
		t.Errorf("else block has %d statements, want 0", len(ifs.Else.Statements))
	}
}

// TestCStyleForDesugaring checks the §4.2 desugaring:
//
//	Block([ init_stmt,
//	        While(condition, Block(body ++ [Expression(increment)])) ])
func TestCStyleForDesugaring(t *testing.T) {
	p := testParser(t, "for var i = 0; i < 10; i = i + 1 { print(i); }")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	outer, ok := prog.Statements[0].(*ast.Block)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Block", prog.Statements[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("outer block has %d statements, want 2", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.VarStmt); !ok {
		t.Fatalf("first statement is %T, want *ast.VarStmt", outer.Statements[0])
	}
	while, ok := outer.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second statement is %T, want *ast.WhileStmt", outer.Statements[1])
	}
	// body ++ [Expression(increment)]: original print(i) plus the
	// appended increment expression statement.
	if len(while.Body.Statements) != 2 {
		t.Fatalf("while body has %d statements, want 2", len(while.Body.Statements))
	}
	if _, ok := while.Body.Statements[1].(*ast.ExpressionStmt); !ok {
		t.Fatalf("last body statement is %T, want *ast.ExpressionStmt (increment)", while.Body.Statements[1])
	}
}

// TestForInDesugaring checks the §4.2 sentinel-based desugaring.
func TestForInDesugaring(t *testing.T) {
	p := testParser(t, "for var v in xs { print(v); }")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	outer, ok := prog.Statements[0].(*ast.Block)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Block", prog.Statements[0])
	}
	if len(outer.Statements) != 3 {
		t.Fatalf("outer block has %d statements, want 3 (iter, iterable, while)", len(outer.Statements))
	}

	iterDecl := outer.Statements[0].(*ast.VarStmt)
	if iterDecl.Name.Lexeme != "__iter__" {
		t.Errorf("first sentinel = %q, want __iter__", iterDecl.Name.Lexeme)
	}
	iterableDecl := outer.Statements[1].(*ast.VarStmt)
	if iterableDecl.Name.Lexeme != "__iterable__" {
		t.Errorf("second sentinel = %q, want __iterable__", iterableDecl.Name.Lexeme)
	}

	while := outer.Statements[2].(*ast.WhileStmt)
	cond := while.Condition.(*ast.Binary)
	if cond.Op.Lexeme != "<" {
		t.Errorf("condition operator = %q, want <", cond.Op.Lexeme)
	}
	call, ok := cond.Right.(*ast.Call)
	if !ok {
		t.Fatalf("condition right side is %T, want *ast.Call", cond.Right)
	}
	callee := call.Callee.(*ast.GetVar)
	if callee.Name.Lexeme != "len" {
		t.Errorf("condition calls %q, want len", callee.Name.Lexeme)
	}

	loopVarDecl := while.Body.Statements[0].(*ast.VarStmt)
	if loopVarDecl.Name.Lexeme != "v" {
		t.Errorf("loop variable = %q, want v", loopVarDecl.Name.Lexeme)
	}
	if _, ok := while.Body.Statements[1].(*ast.ExpressionStmt); !ok {
		t.Fatalf("user body statement missing: got %T", while.Body.Statements[1])
	}
	if _, ok := while.Body.Statements[2].(*ast.ExpressionStmt); !ok {
		t.Fatalf("last statement is %T, want *ast.ExpressionStmt (increment)", while.Body.Statements[2])
	}
}

func TestIndexAssignmentProducesAssignIndex(t *testing.T) {
	p := testParser(t, "xs[1] = 99;")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	assign, ok := stmt.Expr.(*ast.AssignIndex)
	if !ok {
		t.Fatalf("expression is %T, want *ast.AssignIndex", stmt.Expr)
	}
	if assign.Name.Lexeme != "xs" {
		t.Errorf("name = %q, want xs", assign.Name.Lexeme)
	}
}

func TestModuleAccessAndCall(t *testing.T) {
	p := testParser(t, "math.sqrt(4);")
	prog := p.Parse()
	checkNoParseErrors(t, p)

	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	call, ok := stmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Call", stmt.Expr)
	}
	access, ok := call.Callee.(*ast.ImportAccess)
	if !ok {
		t.Fatalf("callee is %T, want *ast.ImportAccess", call.Callee)
	}
	if access.Module.Lexeme != "math" || access.Member.Lexeme != "sqrt" {
		t.Errorf("access = %s.%s, want math.sqrt", access.Module.Lexeme, access.Member.Lexeme)
	}
}

func TestMissingSemicolonIsParseError(t *testing.T) {
	p := testParser(t, "var x = 1")
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for missing ';'")
	}
}

func TestRoundTripStringIgnoresPositions(t *testing.T) {
	// Invariant from spec §8: re-parsing the pretty-printed form of an
	// AST yields an equivalent AST (ignoring position tokens).
	p1 := testParser(t, "var x = 1 + 2 * 3;")
	prog1 := p1.Parse()
	checkNoParseErrors(t, p1)

	printed := prog1.String()

	l2 := lexer.New(printed)
	p2 := New(l2.Tokenize())
	prog2 := p2.Parse()
	checkNoParseErrors(t, p2)

	v1 := prog1.Statements[0].(*ast.VarStmt)
	v2 := prog2.Statements[0].(*ast.VarStmt)
	if v1.Name.Lexeme != v2.Name.Lexeme {
		t.Errorf("names differ: %q vs %q", v1.Name.Lexeme, v2.Name.Lexeme)
	}
	b1, ok1 := v1.Initializer.(*ast.Binary)
	b2, ok2 := v2.Initializer.(*ast.Binary)
	if !ok1 || !ok2 || b1.Op.Lexeme != b2.Op.Lexeme {
		t.Errorf("round-tripped initializer shape differs: %#v vs %#v", v1.Initializer, v2.Initializer)
	}
}
