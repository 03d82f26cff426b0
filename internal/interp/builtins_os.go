package interp

import (
	stdruntime "runtime"

	"github.com/nailuj29/language/internal/runtime"
)

// buildOSModule constructs the built-in `os` module (spec §4.5): a
// single `name` constant giving the host OS name.
func buildOSModule(it *Interpreter) *runtime.Environment {
	env := runtime.NewEnvironment()
	env.DeclareWith("name", stdruntime.GOOS)
	return env
}
