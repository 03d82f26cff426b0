// Package runtime defines the value universe the evaluator manipulates
// — the dynamically-typed values environments hold and callables
// operate on — independent of the AST and the evaluator itself so that
// both the interpreter and its built-in natives can depend on it.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nailuj29/language/internal/token"
)

// Value is the closed dynamic-typing universe: nil, bool, float64,
// string, *List, or a Callable.
type Value any

// List is a mutable, reference-semantics sequence. Every copy of a
// *List shares the same backing Items slice header's owner, so
// assignment and argument passing alias storage exactly as spec §9
// requires ("preserve this under a shared-ownership discipline
// appropriate to the target language").
type List struct {
	Items []Value
}

func NewList(items []Value) *List {
	return &List{Items: items}
}

// Callable is the uniform contract shared by user-defined functions,
// curried partial applications, and built-in natives (spec §4.5).
type Callable interface {
	Arity() int
	// Invoke runs the callable with exactly Arity() arguments. Callers
	// are responsible for the currying/over-application policy in
	// §4.5 — Invoke itself never curries.
	Invoke(ctx InvokeContext, args []Value, paren token.Token) (Value, error)
	// Describe returns a short human-readable name for diagnostics.
	Describe() string
}

// InvokeContext is the minimal surface a Callable needs from the
// interpreter to run its body: executing a function body requires
// running statements against an environment, which only the
// interpreter package knows how to do. This indirection breaks the
// import cycle between runtime (values) and interp (evaluation).
type InvokeContext interface {
	CallFunction(fn *Fn, args []Value) (Value, error)
}

// Fn is a user-defined function: immutable parameter names, a body
// (opaque here — *ast.Block, stored as `any` to avoid an import cycle
// with the ast package), and its own name token enabling recursion.
// Functions are NOT closures over their lexical definition site — call
// frames parent only to globals and imports (spec §4.5, §9).
type Fn struct {
	Name   string
	Params []string
	Body   any // *ast.Block
}

func (f *Fn) Arity() int { return len(f.Params) }

func (f *Fn) Invoke(ctx InvokeContext, args []Value, _ token.Token) (Value, error) {
	return ctx.CallFunction(f, args)
}

func (f *Fn) Describe() string {
	if f.Name == "" {
		return "<anonymous function>"
	}
	return "<fn " + f.Name + ">"
}

// CurriedFn wraps a parent Callable plus already-bound leading
// arguments. Its arity is the parent's arity minus the bound count.
type CurriedFn struct {
	Parent Callable
	Bound  []Value
}

func (c *CurriedFn) Arity() int { return c.Parent.Arity() - len(c.Bound) }

func (c *CurriedFn) Invoke(ctx InvokeContext, args []Value, paren token.Token) (Value, error) {
	all := make([]Value, 0, len(c.Bound)+len(args))
	all = append(all, c.Bound...)
	all = append(all, args...)
	return c.Parent.Invoke(ctx, all, paren)
}

func (c *CurriedFn) Describe() string {
	return "<curried " + c.Parent.Describe() + ">"
}

// Native is a host-provided callable with fixed arity.
type Native struct {
	Name    string
	NumArgs int
	Fn      func(ctx InvokeContext, args []Value) (Value, error)
}

func (n *Native) Arity() int { return n.NumArgs }

func (n *Native) Invoke(ctx InvokeContext, args []Value, _ token.Token) (Value, error) {
	return n.Fn(ctx, args)
}

func (n *Native) Describe() string {
	return "<native " + n.Name + ">"
}

// Truthy implements the language's truthiness rule (spec §4.3): nil is
// false, booleans are themselves, everything else — including 0, "",
// and empty lists — is true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}

// Stringify renders v the way `print` and string-concatenating `+` do:
// integral doubles print without a fractional part, lists print as
// "[a, b, c]", nil prints as "nil", and callables via their Describe.
func Stringify(v Value) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) && !isInfOrNaN(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case *List:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = Stringify(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Callable:
		return t.Describe()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func isInfOrNaN(f float64) bool {
	return f != f || f > 1.7976931348623157e+308 || f < -1.7976931348623157e+308
}

// Equal implements the null-aware structural equality spec §4.3 uses
// for `==`/`!=`: nil equals nil, values of different dynamic types are
// never equal, and lists compare element-wise.
func Equal(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
