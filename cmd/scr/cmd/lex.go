package cmd

import (
	"fmt"
	"os"

	"github.com/nailuj29/language/internal/diag"
	"github.com/nailuj29/language/internal/lexer"
	"github.com/nailuj29/language/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a program and print the resulting tokens",
	Long: `Tokenize a program and print one line per token, useful for
debugging the lexer.

Examples:
  scr lex script.scr
  scr lex -e 'var x = 42;' --show-pos`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show each token's line:column")
}

func lexScript(_ *cobra.Command, args []string) error {
	source, _, filename, err := readProgramInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	tokens := l.Tokenize()

	for _, tok := range tokens {
		printToken(tok)
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, diag.Format(e, filename, source))
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	if showPos {
		fmt.Printf("%-14s %-12q @%d:%d\n", tok.Kind, tok.Lexeme, tok.Pos.Line, tok.Pos.Column)
		return
	}
	fmt.Printf("%-14s %q\n", tok.Kind, tok.Lexeme)
}
