package interp

import (
	"fmt"

	"github.com/nailuj29/language/internal/runtime"
)

// registerCoreBuiltins populates a fresh interpreter instance's
// globals with the always-available natives and constants (spec
// §4.5): print, printRaw, input, len, and VERSION. Built fresh per
// Interpreter instance rather than once per process, so nested
// import-driven interpreters each get their own world (spec §9).
func registerCoreBuiltins(it *Interpreter) {
	g := it.globals

	g.DeclareWith("print", &runtime.Native{
		Name: "print", NumArgs: 1,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			fmt.Fprintln(it.stdout, runtime.Stringify(args[0]))
			return nil, nil
		},
	})

	g.DeclareWith("printRaw", &runtime.Native{
		Name: "printRaw", NumArgs: 1,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			fmt.Fprint(it.stdout, runtime.Stringify(args[0]))
			return nil, nil
		},
	})

	g.DeclareWith("input", &runtime.Native{
		Name: "input", NumArgs: 0,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			var word string
			if _, err := fmt.Fscan(it.stdin, &word); err != nil {
				return "", nil
			}
			return word, nil
		},
	})

	g.DeclareWith("len", &runtime.Native{
		Name: "len", NumArgs: 1,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			switch v := args[0].(type) {
			case *runtime.List:
				return float64(len(v.Items)), nil
			case string:
				return float64(len(v)), nil
			default:
				return nil, fmt.Errorf("len() requires a list or a string")
			}
		},
	})

	g.DeclareWith("VERSION", "0.0.1")
}

// builtinModules are the built-in import targets resolved when no
// sibling `NAME.scr` file exists (spec §4.4).
var builtinModules = map[string]func(it *Interpreter) *runtime.Environment{
	"os":   buildOSModule,
	"io":   buildIOModule,
	"math": buildMathModule,
}
