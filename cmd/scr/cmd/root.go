package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags (-ldflags "-X ...Version=...").
	Version   = "0.0.1-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "scr [file]",
	Short: "Run programs in the scr scripting language",
	Long: `scr is a tree-walking interpreter for a small dynamically-typed
scripting language: C-like expression syntax, lexical scoping,
automatic currying of under-applied calls, and a tiny module system.

Running "scr <file>" with no subcommand lexes, parses, and evaluates
the file directly — it is shorthand for "scr run <file>".`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runScript,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{printf "%%s " .Name}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// The flags below are shared with runCmd so that a bare
	// "scr file.scr --trace" works the same as "scr run file.scr --trace".
	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before executing")
	rootCmd.Flags().BoolVar(&traceExec, "trace", false, "trace statement execution to stderr")
}
