package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nailuj29/language/internal/ast"
	"github.com/nailuj29/language/internal/astprint"
	"github.com/nailuj29/language/internal/diag"
	"github.com/nailuj29/language/internal/interp"
	"github.com/nailuj29/language/internal/lexer"
	"github.com/nailuj29/language/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr  string
	dumpAST   bool
	traceExec bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Lex, parse, and evaluate a program",
	Long: `Execute a program from a file or an inline expression.

Examples:
  scr run script.scr
  scr run -e 'print(1 + 2);'
  scr run --dump-ast --trace script.scr`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before executing")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "trace statement execution to stderr")
}

func runScript(_ *cobra.Command, args []string) error {
	source, baseDir, filename, err := readProgramInput(evalExpr, args)
	if err != nil {
		return err
	}

	prog, perr := lexAndParse(source)
	if perr != nil {
		fmt.Fprintln(os.Stderr, diag.Format(perr, filename, source))
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		fmt.Println(astprint.Dump(prog))
	}

	it := interp.New(baseDir, os.Stdout, bufio.NewReader(os.Stdin))
	it.SetTrace(traceExec)

	if runErr := it.Run(prog); runErr != nil {
		fmt.Fprintln(os.Stderr, diag.Format(runErr, filename, source))
		return fmt.Errorf("execution failed")
	}
	return nil
}

// readProgramInput resolves the "-e <code>" / "<file>" / neither
// branches shared by run, lex, and parse.
func readProgramInput(inline string, args []string) (source, baseDir, filename string, err error) {
	if inline != "" {
		return inline, ".", "<eval>", nil
	}
	if len(args) == 1 {
		filename = args[0]
		content, readErr := os.ReadFile(filename)
		if readErr != nil {
			return "", "", "", fmt.Errorf("failed to read %s: %w", filename, readErr)
		}
		return string(content), filepath.Dir(filename), filename, nil
	}
	return "", "", "", fmt.Errorf("provide a file path or use -e for inline code")
}

func lexAndParse(source string) (*ast.Program, *diag.Error) {
	l := lexer.New(source)
	tokens := l.Tokenize()
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	p := parser.New(tokens)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return prog, nil
}
