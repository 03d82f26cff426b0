// Package parser implements the recursive-descent parser described by
// the language spec: token sequence in, list of top-level statements
// out, with syntactic desugaring of `for` and `for-in` loops performed
// inline as each construct is recognized.
package parser

import (
	"math"

	"github.com/nailuj29/language/internal/ast"
	"github.com/nailuj29/language/internal/diag"
	"github.com/nailuj29/language/internal/token"
)

// Parser walks a flat token slice with a cursor, emitting an
// *ast.Program or a list of parse errors.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []*diag.Error
}

// New creates a Parser over a complete token stream (as produced by
// lexer.Lexer.Tokenize, always EOF-terminated).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Errors returns every parse error accumulated while parsing.
func (p *Parser) Errors() []*diag.Error {
	return p.errors
}

// Parse consumes the entire token stream and returns the top-level
// program. On the first unrecoverable syntax error it stops and
// returns whatever statements were parsed so far alongside the error.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt == nil {
			break
		}
		prog.Statements = append(prog.Statements, stmt)
		if len(p.errors) > 0 {
			break
		}
	}
	return prog
}

// ---------------------------------------------------------------------
// Token stream helpers
// ---------------------------------------------------------------------

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) isAtEnd() bool         { return p.peek().Kind == token.EOF }

func (p *Parser) checkAt(offset int, kind token.Kind) bool {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return false
	}
	return p.tokens[idx].Kind == kind
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	err := diag.NewAt(diag.Parse, p.peek(), "%s (got %s %q)", message, p.peek().Kind, p.peek().Lexeme)
	p.errors = append(p.errors, err)
	// Return the offending token without advancing past it; callers
	// should stop building this statement once an error is recorded.
	return p.peek()
}

func (p *Parser) fail(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, diag.NewAt(diag.Parse, tok, format, args...))
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) declaration() ast.Statement {
	if p.check(token.FN) && p.checkAt(1, token.IDENTIFIER) {
		return p.functionDeclaration()
	}
	return p.statement()
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.check(token.BRACE_LEFT):
		p.advance()
		return p.block()
	case p.match(token.BREAK):
		kw := p.previous()
		p.consume(token.SEMICOLON, "Expect ';' after 'break'")
		return &ast.BreakStmt{Keyword: kw}
	case p.match(token.CONTINUE):
		kw := p.previous()
		p.consume(token.SEMICOLON, "Expect ';' after 'continue'")
		return &ast.ContinueStmt{Keyword: kw}
	case p.check(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.IMPORT):
		return p.importStatement()
	case p.match(token.LOOP):
		return p.loopStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.expressionStatement()
	}
}

// block parses the body of a `{ ... }` construct. The opening brace
// must already have been consumed by the caller.
func (p *Parser) block() *ast.Block {
	b := &ast.Block{}
	for !p.check(token.BRACE_RIGHT) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt == nil {
			break
		}
		b.Statements = append(b.Statements, stmt)
	}
	p.consume(token.BRACE_RIGHT, "Expect '}' to close block")
	return b
}

func (p *Parser) requireBlock() *ast.Block {
	p.consume(token.BRACE_LEFT, "Expect '{' to open block")
	return p.block()
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect variable name")
	var init ast.Expression
	if p.match(token.EQUALS) {
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration")
	return &ast.VarStmt{Name: name, Initializer: init}
}

func (p *Parser) functionDeclaration() ast.Statement {
	p.advance() // 'fn'
	name := p.consume(token.IDENTIFIER, "Expect function name")
	p.consume(token.PAREN_LEFT, "Expect '(' after function name")

	var params []token.Token
	if !p.check(token.PAREN_RIGHT) {
		for {
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name"))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.PAREN_RIGHT, "Expect ')' after parameters")
	body := p.requireBlock()

	fn := &ast.FnLiteral{Name: name, Params: params, Body: body}
	return &ast.VarStmt{Name: name, Initializer: &ast.Literal{Value: fn}}
}

func (p *Parser) ifStatement() ast.Statement {
	kw := p.previous()
	condition := p.expression()
	then := p.requireBlock()
	elseBlock := &ast.Block{}
	if p.match(token.ELSE) {
		elseBlock = p.requireBlock()
	}
	return &ast.IfStmt{Condition: condition, Then: then, Else: elseBlock, Keyword: kw}
}

func (p *Parser) whileStatement() ast.Statement {
	kw := p.previous()
	condition := p.expression()
	body := p.requireBlock()
	return &ast.WhileStmt{Condition: condition, Body: body, Keyword: kw}
}

func (p *Parser) loopStatement() ast.Statement {
	kw := p.previous()
	body := p.requireBlock()
	return &ast.WhileStmt{Condition: &ast.Literal{Value: true}, Body: body, Keyword: kw}
}

func (p *Parser) returnStatement() ast.Statement {
	kw := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value")
	return &ast.ReturnStmt{Keyword: kw, Value: value}
}

func (p *Parser) importStatement() ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect module name after 'import'")
	p.consume(token.SEMICOLON, "Expect ';' after import statement")
	return &ast.ImportStmt{ModuleName: name}
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression")
	return &ast.ExpressionStmt{Expr: expr}
}

// forStatement recognizes the two surface forms of `for` and desugars
// each into plain Block/While trees, matching spec §4.2 exactly.
func (p *Parser) forStatement() ast.Statement {
	forKw := p.advance() // 'for'

	// Three-token lookahead for `for var IDENT in`.
	if p.check(token.VAR) && p.checkAt(1, token.IDENTIFIER) && p.checkAt(2, token.IN) {
		return p.forInStatement(forKw)
	}
	return p.cStyleForStatement(forKw)
}

// cStyleForStatement lowers:
//
//	for init_stmt condition; increment { body }
//
// into:
//
//	Block([ init_stmt,
//	        While(condition, Block(body ++ [Expression(increment)])) ])
func (p *Parser) cStyleForStatement(forKw token.Token) ast.Statement {
	initStmt := p.statement() // typically a var declaration; consumes its own ';'
	condition := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after for-loop condition")
	increment := p.expression()
	body := p.requireBlock()

	body.Statements = append(body.Statements, &ast.ExpressionStmt{Expr: increment})
	loop := &ast.WhileStmt{Condition: condition, Body: body, Keyword: forKw}
	return &ast.Block{Statements: []ast.Statement{initStmt, loop}}
}

// forInStatement lowers:
//
//	for var IDENT in iterable { body }
//
// into the sentinel-based desugaring of spec §4.2. `__iter__` and
// `__iterable__` are literal sentinel names; user code using the same
// names will collide with the loop machinery — a documented limitation
// (spec §9), not a bug fixed here.
func (p *Parser) forInStatement(forKw token.Token) ast.Statement {
	p.advance() // 'var'
	loopVar := p.advance()
	p.advance() // 'in'
	iterable := p.expression()
	body := p.requireBlock()

	iterTok := token.Token{Kind: token.IDENTIFIER, Lexeme: "__iter__", Pos: forKw.Pos}
	iterableTok := token.Token{Kind: token.IDENTIFIER, Lexeme: "__iterable__", Pos: forKw.Pos}
	lenTok := token.Token{Kind: token.IDENTIFIER, Lexeme: "len", Pos: forKw.Pos}
	ltTok := token.Token{Kind: token.LESS, Lexeme: "<", Pos: forKw.Pos}
	plusTok := token.Token{Kind: token.PLUS, Lexeme: "+", Pos: forKw.Pos}

	condition := &ast.Binary{
		Left: &ast.GetVar{Name: iterTok},
		Op:   ltTok,
		Right: &ast.Call{
			Callee: &ast.GetVar{Name: lenTok},
			Args:   []ast.Expression{&ast.GetVar{Name: iterableTok}},
			Paren:  forKw,
		},
	}

	innerBody := &ast.Block{}
	innerBody.Statements = append(innerBody.Statements, &ast.VarStmt{
		Name: loopVar,
		Initializer: &ast.Index{
			Idx:     &ast.GetVar{Name: iterTok},
			Indexee: &ast.GetVar{Name: iterableTok},
			Bracket: forKw,
		},
	})
	innerBody.Statements = append(innerBody.Statements, body.Statements...)
	innerBody.Statements = append(innerBody.Statements, &ast.ExpressionStmt{
		Expr: &ast.Assign{
			Name: iterTok,
			Right: &ast.Binary{
				Left:  &ast.GetVar{Name: iterTok},
				Op:    plusTok,
				Right: &ast.Literal{Value: float64(1)},
			},
		},
	})

	loop := &ast.WhileStmt{Condition: condition, Body: innerBody, Keyword: forKw}

	return &ast.Block{Statements: []ast.Statement{
		&ast.VarStmt{Name: iterTok, Initializer: &ast.Literal{Value: float64(0)}},
		&ast.VarStmt{Name: iterableTok, Initializer: iterable},
		loop,
	}}
}

// ---------------------------------------------------------------------
// Expressions — lowest to highest precedence, all left-associative
// except unary.
// ---------------------------------------------------------------------

func (p *Parser) expression() ast.Expression {
	return p.or()
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.NOT_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.additive()
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right := p.additive()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) additive() ast.Expression {
	expr := p.multiplicative()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.multiplicative()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) multiplicative() ast.Expression {
	expr := p.unary()
	for p.match(token.STAR, token.SLASH, token.PERCENT) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.NOT, token.MINUS) {
		op := p.previous()
		operand := p.unary()
		return &ast.Unary{Op: op, Operand: operand}
	}
	return p.postfix()
}

// postfix handles indexing, optionally followed by `= e` when the
// indexee is a bare identifier, producing AssignIndex (spec §4.2).
func (p *Parser) postfix() ast.Expression {
	expr := p.primary()
	for p.check(token.BRACKET_LEFT) {
		bracket := p.advance()
		idx := p.expression()
		p.consume(token.BRACKET_RIGHT, "Expect ']' after index expression")

		if p.match(token.EQUALS) {
			name, ok := expr.(*ast.GetVar)
			if !ok {
				p.fail(bracket, "Can only assign to an index of a named list")
				value := p.expression()
				_ = value
				continue
			}
			value := p.expression()
			expr = &ast.AssignIndex{Name: name.Name, Index: idx, NewValue: value}
			continue
		}
		expr = &ast.Index{Idx: idx, Indexee: expr, Bracket: bracket}
	}
	return expr
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.NUMBER):
		return &ast.Literal{Value: p.previous().Literal.(float64)}
	case p.match(token.STRING):
		return &ast.Literal{Value: p.previous().Literal.(string)}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.match(token.NAN):
		return &ast.Literal{Value: math.NaN()}
	case p.match(token.INFINITY):
		return &ast.Literal{Value: math.Inf(1)}
	case p.match(token.PAREN_LEFT):
		inner := p.expression()
		p.consume(token.PAREN_RIGHT, "Expect ')' after expression")
		return &ast.Grouping{Inner: inner}
	case p.match(token.BRACKET_LEFT):
		return p.listLiteral()
	case p.match(token.IDENTIFIER):
		return p.identifierExpression()
	}

	tok := p.peek()
	p.fail(tok, "Expect expression, got %s %q", tok.Kind, tok.Lexeme)
	p.advance()
	return &ast.Literal{Value: nil}
}

func (p *Parser) listLiteral() ast.Expression {
	list := &ast.List{}
	if !p.check(token.BRACKET_RIGHT) {
		for {
			list.Items = append(list.Items, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.BRACKET_RIGHT, "Expect ']' after list literal")
	return list
}

// identifierExpression handles every trailing form an identifier can
// take: plain variable read, `= e` assignment, `.name` module access
// (optionally itself called), or `(args)` call.
func (p *Parser) identifierExpression() ast.Expression {
	name := p.previous()

	if p.match(token.EQUALS) {
		right := p.expression()
		return &ast.Assign{Name: name, Right: right}
	}

	if p.match(token.DOT) {
		member := p.consume(token.IDENTIFIER, "Expect member name after '.'")
		access := &ast.ImportAccess{Module: name, Member: member}
		if p.check(token.PAREN_LEFT) {
			return p.finishCall(access)
		}
		return access
	}

	getVar := &ast.GetVar{Name: name}
	if p.check(token.PAREN_LEFT) {
		return p.finishCall(getVar)
	}
	return getVar
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	paren := p.advance() // '('
	var args []ast.Expression
	if !p.check(token.PAREN_RIGHT) {
		for {
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.PAREN_RIGHT, "Expect ')' after arguments")
	return &ast.Call{Callee: callee, Args: args, Paren: paren}
}
