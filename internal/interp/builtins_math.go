package interp

import (
	"fmt"
	"math"

	"github.com/nailuj29/language/internal/runtime"
)

// buildMathModule constructs the built-in `math` module (spec §4.5):
// the pi/e constants and the sqrt/pow/exp/sin/cos/tan/log functions,
// each a thin wrapper over the standard library's math package.
func buildMathModule(it *Interpreter) *runtime.Environment {
	env := runtime.NewEnvironment()
	env.DeclareWith("pi", math.Pi)
	env.DeclareWith("e", math.E)

	unary := func(name string, fn func(float64) float64) {
		env.DeclareWith(name, &runtime.Native{
			Name: "math." + name, NumArgs: 1,
			Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
				x, ok := args[0].(float64)
				if !ok {
					return nil, fmt.Errorf("math.%s requires a number", name)
				}
				return fn(x), nil
			},
		})
	}

	unary("sqrt", math.Sqrt)
	unary("exp", math.Exp)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)

	env.DeclareWith("pow", &runtime.Native{
		Name: "math.pow", NumArgs: 2,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			x, xok := args[0].(float64)
			y, yok := args[1].(float64)
			if !xok || !yok {
				return nil, fmt.Errorf("math.pow requires two numbers")
			}
			return math.Pow(x, y), nil
		},
	})

	return env
}
