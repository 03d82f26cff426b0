package interp

import (
	"fmt"
	"os"

	"github.com/nailuj29/language/internal/runtime"
)

// buildIOModule constructs the built-in `io` module (spec §4.5):
// truncating `write`, appending `append`, and `read`. Each call opens,
// uses, and closes its file — no handle is kept open across calls
// (spec §5: "files are opened, accessed, and closed per call in io.*").
func buildIOModule(it *Interpreter) *runtime.Environment {
	env := runtime.NewEnvironment()

	env.DeclareWith("write", &runtime.Native{
		Name: "io.write", NumArgs: 2,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			path, contents, err := stringArgs2(args)
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
				return nil, fmt.Errorf("io.write: %w", err)
			}
			return nil, nil
		},
	})

	env.DeclareWith("append", &runtime.Native{
		Name: "io.append", NumArgs: 2,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			path, contents, err := stringArgs2(args)
			if err != nil {
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("io.append: %w", err)
			}
			defer f.Close()
			if _, err := f.WriteString(contents); err != nil {
				return nil, fmt.Errorf("io.append: %w", err)
			}
			return nil, nil
		},
	})

	env.DeclareWith("read", &runtime.Native{
		Name: "io.read", NumArgs: 1,
		Fn: func(ctx runtime.InvokeContext, args []runtime.Value) (runtime.Value, error) {
			path, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("io.read: path must be a string")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("io.read: %w", err)
			}
			return string(data), nil
		},
	})

	return env
}

func stringArgs2(args []runtime.Value) (string, string, error) {
	path, ok := args[0].(string)
	if !ok {
		return "", "", fmt.Errorf("path must be a string")
	}
	contents, ok := args[1].(string)
	if !ok {
		return "", "", fmt.Errorf("contents must be a string")
	}
	return path, contents, nil
}
