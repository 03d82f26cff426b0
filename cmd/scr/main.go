// Command scr is the driver for the scripting language implemented by
// this module: lex/parse/run subcommands over the internal lexer,
// parser, and interpreter packages.
package main

import (
	"fmt"
	"os"

	"github.com/nailuj29/language/cmd/scr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
