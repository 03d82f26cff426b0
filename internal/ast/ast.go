// Package ast defines the two tagged sum types the parser emits and the
// evaluator walks: Expression and Statement. Each is a small closed set
// of concrete node types behind an interface with an unexported marker
// method, dispatched by type switch rather than by a visitor interface —
// see SPEC_FULL.md Part D for why this replaces the teacher's
// accept(visitor) pattern.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/nailuj29/language/internal/token"
)

// Expression is any node that produces a value.
type Expression interface {
	exprNode()
	String() string
}

// Statement is any node that performs an action.
type Statement interface {
	stmtNode()
	String() string
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Literal holds an already-evaluated constant: a number, boolean,
// string, null, or a function value synthesized while lowering `fn`.
type Literal struct {
	Value any // float64 | bool | string | nil | *FnLiteral
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case *FnLiteral:
		return v.String()
	default:
		return "<literal>"
	}
}

// FnLiteral is the function-value payload a Literal carries once the
// parser lowers a `fn` declaration or expression.
type FnLiteral struct {
	Name   token.Token // may be the zero Token for anonymous functions
	Params []token.Token
	Body   *Block
}

func (f *FnLiteral) String() string {
	var sb strings.Builder
	sb.WriteString("fn ")
	sb.WriteString(f.Name.Lexeme)
	sb.WriteString("(")
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Lexeme
	}
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") ")
	sb.WriteString(f.Body.String())
	return sb.String()
}

// GetVar reads the value bound to Name in the current environment chain.
type GetVar struct {
	Name token.Token
}

func (*GetVar) exprNode()       {}
func (g *GetVar) String() string { return g.Name.Lexeme }

// Assign evaluates Right and writes it to the first scope in the chain
// that already declares Name. Its value as an expression is always nil
// (spec §9 preserves this rather than "fixing" it to the assigned value).
type Assign struct {
	Name  token.Token
	Right Expression
}

func (*Assign) exprNode() {}
func (a *Assign) String() string {
	return a.Name.Lexeme + " = " + a.Right.String()
}

// AssignIndex mutates the list bound to Name at Index, storing NewValue.
type AssignIndex struct {
	Name     token.Token
	Index    Expression
	NewValue Expression
}

func (*AssignIndex) exprNode() {}
func (a *AssignIndex) String() string {
	return a.Name.Lexeme + "[" + a.Index.String() + "] = " + a.NewValue.String()
}

// Binary applies Op to Left and Right.
type Binary struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (*Binary) exprNode() {}
func (b *Binary) String() string {
	return b.Left.String() + " " + b.Op.Lexeme + " " + b.Right.String()
}

// Unary applies a prefix Op to Operand.
type Unary struct {
	Op      token.Token
	Operand Expression
}

func (*Unary) exprNode() {}
func (u *Unary) String() string {
	return u.Op.Lexeme + u.Operand.String()
}

// Grouping is a parenthesized expression, kept distinct purely so the
// AST pretty-printer can round-trip source faithfully.
type Grouping struct {
	Inner Expression
}

func (*Grouping) exprNode() {}
func (g *Grouping) String() string {
	return "(" + g.Inner.String() + ")"
}

// Call invokes Callee (syntactically restricted to a GetVar or
// ImportAccess) with Args.
type Call struct {
	Callee Expression // *GetVar or *ImportAccess
	Args   []Expression
	Paren  token.Token
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Index reads Indexee[Idx].
type Index struct {
	Idx     Expression
	Indexee Expression
	Bracket token.Token
}

func (*Index) exprNode() {}
func (i *Index) String() string {
	return i.Indexee.String() + "[" + i.Idx.String() + "]"
}

// List is a literal list expression.
type List struct {
	Items []Expression
}

func (*List) exprNode() {}
func (l *List) String() string {
	var sb bytes.Buffer
	sb.WriteString("[")
	items := make([]string, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.String()
	}
	sb.WriteString(strings.Join(items, ", "))
	sb.WriteString("]")
	return sb.String()
}

// ImportAccess evaluates `module.member`.
type ImportAccess struct {
	Module token.Token
	Member token.Token
}

func (*ImportAccess) exprNode() {}
func (i *ImportAccess) String() string {
	return i.Module.Lexeme + "." + i.Member.Lexeme
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Block introduces a new nested scope around Statements.
type Block struct {
	Statements []Statement
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString("  ")
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStmt evaluates Expr and discards the result.
type ExpressionStmt struct {
	Expr Expression
}

func (*ExpressionStmt) stmtNode() {}
func (e *ExpressionStmt) String() string {
	return e.Expr.String() + ";"
}

// VarStmt declares Name in the current scope, optionally initializing
// it. A nil Initializer leaves the slot at null.
type VarStmt struct {
	Name        token.Token
	Initializer Expression
}

func (*VarStmt) stmtNode() {}
func (v *VarStmt) String() string {
	if v.Initializer == nil {
		return "var " + v.Name.Lexeme + ";"
	}
	return "var " + v.Name.Lexeme + " = " + v.Initializer.String() + ";"
}

// IfStmt runs Then or Else depending on Condition's truthiness. Else is
// always a (possibly empty) *Block — never nil — so the evaluator need
// not special-case its absence.
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      *Block
	Keyword   token.Token
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	s := "if " + i.Condition.String() + " " + i.Then.String()
	if len(i.Else.Statements) > 0 {
		s += " else " + i.Else.String()
	}
	return s
}

// WhileStmt repeats Body while Condition is truthy.
type WhileStmt struct {
	Condition Expression
	Body      *Block
	Keyword   token.Token
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return "while " + w.Condition.String() + " " + w.Body.String()
}

// ReturnStmt unwinds the current call frame with Value (or null if
// Value is nil).
type ReturnStmt struct {
	Keyword token.Token
	Value   Expression
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// BreakStmt unwinds the innermost enclosing loop.
type BreakStmt struct {
	Keyword token.Token
}

func (*BreakStmt) stmtNode()     {}
func (*BreakStmt) String() string { return "break;" }

// ContinueStmt skips to the next iteration of the innermost enclosing loop.
type ContinueStmt struct {
	Keyword token.Token
}

func (*ContinueStmt) stmtNode()     {}
func (*ContinueStmt) String() string { return "continue;" }

// ImportStmt loads and binds a sibling module (or built-in module)
// under ModuleName.
type ImportStmt struct {
	ModuleName token.Token
}

func (*ImportStmt) stmtNode() {}
func (i *ImportStmt) String() string {
	return "import " + i.ModuleName.Lexeme + ";"
}

// Program is the root node: the flat list of top-level statements the
// parser produces from an entire source file.
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
