package cmd

import (
	"fmt"
	"os"

	"github.com/nailuj29/language/internal/astprint"
	"github.com/nailuj29/language/internal/diag"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a program and print its AST",
	Long: `Parse a program and print either its reconstructed source form or,
with --dump-ast, an indented tree of every node.

Examples:
  scr parse script.scr
  scr parse --dump-ast -e 'print(1 + 2 * 3);'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the full AST as an indented tree")
}

func runParse(_ *cobra.Command, args []string) error {
	source, _, filename, err := readProgramInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	prog, perr := lexAndParse(source)
	if perr != nil {
		fmt.Fprintln(os.Stderr, diag.Format(perr, filename, source))
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		fmt.Print(astprint.Dump(prog))
	} else {
		fmt.Print(prog.String())
	}
	return nil
}
