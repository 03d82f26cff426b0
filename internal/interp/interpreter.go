// Package interp implements the tree-walking evaluator: it walks the
// AST the parser produced, manipulates lexically scoped environments,
// and invokes callables, per spec §4.3.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/nailuj29/language/internal/ast"
	"github.com/nailuj29/language/internal/diag"
	"github.com/nailuj29/language/internal/lexer"
	"github.com/nailuj29/language/internal/parser"
	"github.com/nailuj29/language/internal/runtime"
	"github.com/nailuj29/language/internal/token"
)

// outcomeKind distinguishes a plain evaluation result from the three
// non-local control transfers the language defines. Spec §9's REDESIGN
// FLAG calls for exactly this: a single internal sum type propagated
// as the evaluator's result instead of host-language exceptions.
type outcomeKind int

const (
	outNormal outcomeKind = iota
	outReturn
	outBreak
	outContinue
)

type outcome struct {
	kind  outcomeKind
	value runtime.Value
}

var normalOutcome = outcome{kind: outNormal}

// Interpreter holds one evaluation's entire mutable state: the current
// environment, the process-instance-local globals it is chained to,
// and the modules this instance has imported so far. Each nested
// import gets a brand new Interpreter with its own fresh globals and
// import table (spec §9: "process-wide globals... constructed once at
// interpreter-instance start", not as real process-global state), but
// shares the same stdout/stdin so `print`/`input` observe one shared
// stream across nested modules (spec §5).
type Interpreter struct {
	globals *runtime.Environment
	env     *runtime.Environment
	imports map[string]*runtime.Environment

	stdout  io.Writer
	stdin   *bufio.Reader
	baseDir string

	trace    bool
	traceOut io.Writer
}

// New creates an Interpreter rooted at baseDir (used to resolve
// sibling `.scr` imports per spec §4.4/§6), writing to stdout and
// reading `input()` tokens from stdin.
func New(baseDir string, stdout io.Writer, stdin *bufio.Reader) *Interpreter {
	it := &Interpreter{
		globals: runtime.NewEnvironment(),
		imports: make(map[string]*runtime.Environment),
		stdout:  stdout,
		stdin:   stdin,
		baseDir: baseDir,
		traceOut: os.Stderr,
	}
	it.env = runtime.NewEnclosed(it.globals)
	registerCoreBuiltins(it)
	return it
}

// SetTrace enables or disables `--trace` execution logging to stderr.
func (it *Interpreter) SetTrace(on bool) { it.trace = on }

// Globals exposes the top-level environment an imported module leaves
// behind, for `module.member` access by the importer.
func (it *Interpreter) Globals() *runtime.Environment { return it.env }

// Run executes every top-level statement of prog in order. A Return,
// Break, or Continue that escapes all the way to the top level is
// simply discarded for Return (matching "return value of the last
// statement [is] discarded" in spec §2) and converted to a runtime
// error for Break/Continue escaping their loop (spec §4.3, §7).
func (it *Interpreter) Run(prog *ast.Program) *diag.Error {
	out, err := it.execStatements(prog.Statements)
	if err != nil {
		return err
	}
	switch out.kind {
	case outBreak:
		return diag.New(diag.Runtime, token.Position{}, "Can't break outside a loop")
	case outContinue:
		return diag.New(diag.Runtime, token.Position{}, "Can't continue outside a loop")
	default:
		return nil
	}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (it *Interpreter) execStatements(stmts []ast.Statement) (outcome, *diag.Error) {
	for _, s := range stmts {
		out, err := it.execStmt(s)
		if err != nil {
			return outcome{}, err
		}
		if out.kind != outNormal {
			return out, nil
		}
	}
	return normalOutcome, nil
}

func (it *Interpreter) execStmt(s ast.Statement) (outcome, *diag.Error) {
	if it.trace {
		fmt.Fprintf(it.traceOut, "trace: %T %s\n", s, s.String())
	}
	switch node := s.(type) {
	case *ast.Block:
		return it.execBlock(node)
	case *ast.ExpressionStmt:
		if _, err := it.evalExpr(node.Expr); err != nil {
			return outcome{}, err
		}
		return normalOutcome, nil
	case *ast.VarStmt:
		return it.execVar(node)
	case *ast.IfStmt:
		return it.execIf(node)
	case *ast.WhileStmt:
		return it.execWhile(node)
	case *ast.ReturnStmt:
		return it.execReturn(node)
	case *ast.BreakStmt:
		return outcome{kind: outBreak}, nil
	case *ast.ContinueStmt:
		return outcome{kind: outContinue}, nil
	case *ast.ImportStmt:
		return it.execImport(node)
	default:
		return outcome{}, diag.New(diag.Runtime, token.Position{}, "Unhandled statement %T", s)
	}
}

// execBlock pushes a new environment, runs every statement, and pops
// the scope on every exit path — including when a control-flow
// outcome or an error is propagating (spec §4.3, invariant in §8).
func (it *Interpreter) execBlock(b *ast.Block) (outcome, *diag.Error) {
	previous := it.env
	it.env = runtime.NewEnclosed(previous)
	defer func() { it.env = previous }()
	return it.execStatements(b.Statements)
}

func (it *Interpreter) execVar(v *ast.VarStmt) (outcome, *diag.Error) {
	it.env.Declare(v.Name.Lexeme)
	if v.Initializer == nil {
		return normalOutcome, nil
	}
	value, err := it.evalExpr(v.Initializer)
	if err != nil {
		return outcome{}, err
	}
	_ = it.env.Set(v.Name.Lexeme, value)
	return normalOutcome, nil
}

func (it *Interpreter) execIf(node *ast.IfStmt) (outcome, *diag.Error) {
	cond, err := it.evalExpr(node.Condition)
	if err != nil {
		return outcome{}, err
	}
	if runtime.Truthy(cond) {
		return it.execBlock(node.Then)
	}
	return it.execBlock(node.Else)
}

func (it *Interpreter) execWhile(node *ast.WhileStmt) (outcome, *diag.Error) {
	for {
		cond, err := it.evalExpr(node.Condition)
		if err != nil {
			return outcome{}, err
		}
		if !runtime.Truthy(cond) {
			return normalOutcome, nil
		}

		out, err := it.execBlock(node.Body)
		if err != nil {
			return outcome{}, err
		}
		switch out.kind {
		case outBreak:
			return normalOutcome, nil
		case outReturn:
			return out, nil
		case outContinue, outNormal:
			// fall through to re-check the condition
		}
	}
}

func (it *Interpreter) execReturn(node *ast.ReturnStmt) (outcome, *diag.Error) {
	if node.Value == nil {
		return outcome{kind: outReturn, value: nil}, nil
	}
	value, err := it.evalExpr(node.Value)
	if err != nil {
		return outcome{}, err
	}
	return outcome{kind: outReturn, value: value}, nil
}

// ---------------------------------------------------------------------
// Function calls
// ---------------------------------------------------------------------

// CallFunction implements runtime.InvokeContext: it creates a new call
// frame parented to globals — NOT to the definition-site environment,
// since functions in this language are not closures over anything but
// globals and imports (spec §4.5, §9) — binds parameters and the
// function's own name (enabling recursion), and executes the body.
func (it *Interpreter) CallFunction(fn *runtime.Fn, args []runtime.Value) (runtime.Value, error) {
	callEnv := runtime.NewEnclosed(it.globals)
	for i, param := range fn.Params {
		callEnv.DeclareWith(param, args[i])
	}
	if fn.Name != "" {
		callEnv.DeclareWith(fn.Name, fn)
	}

	previous := it.env
	it.env = callEnv
	defer func() { it.env = previous }()

	body, ok := fn.Body.(*ast.Block)
	if !ok {
		return nil, diag.New(diag.Runtime, token.Position{}, "Function %q has no body", fn.Name)
	}
	out, err := it.execStatements(body.Statements)
	if err != nil {
		return nil, err
	}
	if out.kind == outReturn {
		return out.value, nil
	}
	return nil, nil
}

// applyCall is the single currying/over-application decision point
// described in spec §4.5: exact arity invokes, too many arguments is a
// runtime error, and too few produces a CurriedFn.
func (it *Interpreter) applyCall(callable runtime.Callable, args []runtime.Value, paren token.Token) (runtime.Value, *diag.Error) {
	arity := callable.Arity()
	switch {
	case len(args) > arity:
		return nil, diag.NewAt(diag.Runtime, paren, "Incorrect argument count: %s expects %d argument(s), got %d", callable.Describe(), arity, len(args))
	case len(args) == arity:
		value, err := callable.Invoke(it, args, paren)
		if err != nil {
			if de, ok := err.(*diag.Error); ok {
				return nil, de
			}
			return nil, diag.NewAt(diag.Runtime, paren, "%s", err.Error())
		}
		return value, nil
	default:
		bound := make([]runtime.Value, len(args))
		copy(bound, args)
		return &runtime.CurriedFn{Parent: callable, Bound: bound}, nil
	}
}

// ---------------------------------------------------------------------
// Imports (spec §4.4)
// ---------------------------------------------------------------------

func (it *Interpreter) execImport(node *ast.ImportStmt) (outcome, *diag.Error) {
	name := node.ModuleName.Lexeme

	path := filepath.Join(it.baseDir, name+".scr")
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		if builtin, ok := builtinModules[name]; ok {
			it.imports[name] = builtin(it)
			return normalOutcome, nil
		}
		return outcome{}, diag.NewAt(diag.Runtime, node.ModuleName, "Could not find import %q", name)
	}

	child := New(it.baseDir, it.stdout, it.stdin)
	child.trace = it.trace
	l := lexer.New(string(content))
	tokens := l.Tokenize()
	if len(l.Errors()) > 0 {
		return outcome{}, l.Errors()[0]
	}
	p := parser.New(tokens)
	prog := p.Parse()
	if len(p.Errors()) > 0 {
		return outcome{}, p.Errors()[0]
	}
	if err := child.Run(prog); err != nil {
		return outcome{}, err
	}

	it.imports[name] = child.Globals()
	return normalOutcome, nil
}

// ---------------------------------------------------------------------
// Expressions (spec §4.3)
// ---------------------------------------------------------------------

func (it *Interpreter) evalExpr(e ast.Expression) (runtime.Value, *diag.Error) {
	switch node := e.(type) {
	case *ast.Literal:
		return it.evalLiteral(node)
	case *ast.GetVar:
		v, err := it.env.Get(node.Name.Lexeme)
		if err != nil {
			return nil, diag.NewAt(diag.Runtime, node.Name, "Undefined variable %q", node.Name.Lexeme)
		}
		return v, nil
	case *ast.Assign:
		return it.evalAssign(node)
	case *ast.AssignIndex:
		return it.evalAssignIndex(node)
	case *ast.Binary:
		return it.evalBinary(node)
	case *ast.Unary:
		return it.evalUnary(node)
	case *ast.Grouping:
		return it.evalExpr(node.Inner)
	case *ast.Call:
		return it.evalCall(node)
	case *ast.Index:
		return it.evalIndex(node)
	case *ast.List:
		return it.evalList(node)
	case *ast.ImportAccess:
		return it.evalImportAccess(node)
	default:
		return nil, diag.New(diag.Runtime, token.Position{}, "Unhandled expression %T", e)
	}
}

func (it *Interpreter) evalLiteral(node *ast.Literal) (runtime.Value, *diag.Error) {
	if fnLit, ok := node.Value.(*ast.FnLiteral); ok {
		params := make([]string, len(fnLit.Params))
		for i, p := range fnLit.Params {
			params[i] = p.Lexeme
		}
		return &runtime.Fn{Name: fnLit.Name.Lexeme, Params: params, Body: fnLit.Body}, nil
	}
	return node.Value, nil
}

// evalAssign evaluates Right and assigns it, but — per spec §9 — the
// expression's own value is always nil, not the assigned value.
func (it *Interpreter) evalAssign(node *ast.Assign) (runtime.Value, *diag.Error) {
	value, err := it.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	if setErr := it.env.Set(node.Name.Lexeme, value); setErr != nil {
		return nil, diag.NewAt(diag.Runtime, node.Name, "Undefined variable %q", node.Name.Lexeme)
	}
	return nil, nil
}

func (it *Interpreter) evalAssignIndex(node *ast.AssignIndex) (runtime.Value, *diag.Error) {
	current, getErr := it.env.Get(node.Name.Lexeme)
	if getErr != nil {
		return nil, diag.NewAt(diag.Runtime, node.Name, "Undefined variable %q", node.Name.Lexeme)
	}
	list, ok := current.(*runtime.List)
	if !ok {
		return nil, diag.NewAt(diag.Runtime, node.Name, "Cannot index a non-iterable")
	}

	idxVal, err := it.evalExpr(node.Index)
	if err != nil {
		return nil, err
	}
	idx, derr := it.requireIndex(idxVal, node.Name)
	if derr != nil {
		return nil, derr
	}

	newValue, err := it.evalExpr(node.NewValue)
	if err != nil {
		return nil, err
	}

	if idx < 0 || idx >= len(list.Items) {
		return nil, diag.NewAt(diag.Runtime, node.Name, "Index %d out of bounds (length %d)", idx, len(list.Items))
	}
	list.Items[idx] = newValue
	return list, nil
}

func (it *Interpreter) evalBinary(node *ast.Binary) (runtime.Value, *diag.Error) {
	left, err := it.evalExpr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	return it.applyBinaryOp(node.Op, left, right)
}

func (it *Interpreter) applyBinaryOp(op token.Token, left, right runtime.Value) (runtime.Value, *diag.Error) {
	switch op.Kind {
	case token.PLUS:
		return it.evalPlus(op, left, right)
	case token.MINUS:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l - r, nil
	case token.STAR:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l * r, nil
	case token.SLASH:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l / r, nil // IEEE-754 semantics: no zero-division error
	case token.PERCENT:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return math.Mod(l, r), nil
	case token.LESS:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l < r, nil
	case token.LESS_EQUAL:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l <= r, nil
	case token.GREATER:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l > r, nil
	case token.GREATER_EQUAL:
		l, r, derr := it.requireNumbers(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l >= r, nil
	case token.EQUAL_EQUAL:
		return runtime.Equal(left, right), nil
	case token.NOT_EQUAL:
		return !runtime.Equal(left, right), nil
	case token.AND:
		l, r, derr := it.requireBooleans(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l && r, nil
	case token.OR:
		l, r, derr := it.requireBooleans(op, left, right)
		if derr != nil {
			return nil, derr
		}
		return l || r, nil
	default:
		return nil, diag.NewAt(diag.Runtime, op, "Unknown binary operator %q", op.Lexeme)
	}
}

// evalPlus implements the four type-closed forms of `+` (spec §4.3,
// §8): number+number, string+any, any+string, list+list.
func (it *Interpreter) evalPlus(op token.Token, left, right runtime.Value) (runtime.Value, *diag.Error) {
	if ln, ok := left.(float64); ok {
		if rn, ok := right.(float64); ok {
			return ln + rn, nil
		}
	}
	if ll, ok := left.(*runtime.List); ok {
		if rl, ok := right.(*runtime.List); ok {
			combined := make([]runtime.Value, 0, len(ll.Items)+len(rl.Items))
			combined = append(combined, ll.Items...)
			combined = append(combined, rl.Items...)
			return runtime.NewList(combined), nil
		}
	}
	_, leftIsString := left.(string)
	_, rightIsString := right.(string)
	if leftIsString || rightIsString {
		return runtime.Stringify(left) + runtime.Stringify(right), nil
	}
	return nil, diag.NewAt(diag.Runtime, op, "Operator '+' is not defined for these operand types")
}

func (it *Interpreter) requireNumbers(op token.Token, left, right runtime.Value) (float64, float64, *diag.Error) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, diag.NewAt(diag.Runtime, op, "Operator %q requires two numbers", op.Lexeme)
	}
	return l, r, nil
}

func (it *Interpreter) requireBooleans(op token.Token, left, right runtime.Value) (bool, bool, *diag.Error) {
	l, lok := left.(bool)
	r, rok := right.(bool)
	if !lok || !rok {
		return false, false, diag.NewAt(diag.Runtime, op, "Operator %q requires two booleans", op.Lexeme)
	}
	return l, r, nil
}

func (it *Interpreter) evalUnary(node *ast.Unary) (runtime.Value, *diag.Error) {
	operand, err := it.evalExpr(node.Operand)
	if err != nil {
		return nil, err
	}
	switch node.Op.Kind {
	case token.MINUS:
		n, ok := operand.(float64)
		if !ok {
			return nil, diag.NewAt(diag.Runtime, node.Op, "Unary '-' requires a number")
		}
		return -n, nil
	case token.NOT:
		b, ok := operand.(bool)
		if !ok {
			return nil, diag.NewAt(diag.Runtime, node.Op, "Unary '!' requires a boolean")
		}
		return !b, nil
	default:
		return nil, diag.NewAt(diag.Runtime, node.Op, "Unknown unary operator %q", node.Op.Lexeme)
	}
}

func (it *Interpreter) evalCall(node *ast.Call) (runtime.Value, *diag.Error) {
	calleeVal, err := it.evalExpr(node.Callee)
	if err != nil {
		return nil, err
	}
	callable, ok := calleeVal.(runtime.Callable)
	if !ok {
		return nil, diag.NewAt(diag.Runtime, node.Paren, "Value is not callable")
	}

	args := make([]runtime.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := it.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return it.applyCall(callable, args, node.Paren)
}

func (it *Interpreter) evalIndex(node *ast.Index) (runtime.Value, *diag.Error) {
	idxVal, err := it.evalExpr(node.Idx)
	if err != nil {
		return nil, err
	}
	idx, derr := it.requireIndex(idxVal, node.Bracket)
	if derr != nil {
		return nil, derr
	}

	indexeeVal, err := it.evalExpr(node.Indexee)
	if err != nil {
		return nil, err
	}
	list, ok := indexeeVal.(*runtime.List)
	if !ok {
		return nil, diag.NewAt(diag.Runtime, node.Bracket, "Cannot index a non-iterable")
	}
	if idx < 0 || idx >= len(list.Items) {
		return nil, diag.NewAt(diag.Runtime, node.Bracket, "Index %d out of bounds (length %d)", idx, len(list.Items))
	}
	return list.Items[idx], nil
}

func (it *Interpreter) requireIndex(v runtime.Value, tok token.Token) (int, *diag.Error) {
	n, ok := v.(float64)
	if !ok {
		return 0, diag.NewAt(diag.Runtime, tok, "Index must be a number")
	}
	return int(n), nil
}

func (it *Interpreter) evalList(node *ast.List) (runtime.Value, *diag.Error) {
	items := make([]runtime.Value, len(node.Items))
	for i, e := range node.Items {
		v, err := it.evalExpr(e)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return runtime.NewList(items), nil
}

func (it *Interpreter) evalImportAccess(node *ast.ImportAccess) (runtime.Value, *diag.Error) {
	module, ok := it.imports[node.Module.Lexeme]
	if !ok {
		return nil, diag.NewAt(diag.Runtime, node.Module, "Undefined or un-imported module %q", node.Module.Lexeme)
	}
	value, err := module.Get(node.Member.Lexeme)
	if err != nil {
		return nil, diag.NewAt(diag.Runtime, node.Member, "Undefined member %q on module %q", node.Member.Lexeme, node.Module.Lexeme)
	}
	return value, nil
}
