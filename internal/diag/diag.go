// Package diag renders lexer, parser, and runtime errors as
// human-readable diagnostics with source context.
//
// This is the "human-readable error printer" the language spec treats
// as an external collaborator: the core (lexer/parser/evaluator) only
// ever produces an *Error value, never formats one. Only the CLI
// driver calls Format.
package diag

import (
	"fmt"
	"strings"

	"github.com/nailuj29/language/internal/token"
)

// Kind distinguishes the three error categories the language defines.
type Kind int

const (
	Lex Kind = iota
	Parse
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "Lex error"
	case Parse:
		return "Parse error"
	case Runtime:
		return "Runtime error"
	default:
		return "error"
	}
}

// Error is the single error type threaded through lexing, parsing, and
// evaluation. Pos locates the offending lexeme; Token, when present, is
// the representative token the parser or evaluator was looking at.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Token   *token.Token
}

func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func NewAt(kind Kind, tok token.Token, format string, args ...any) *Error {
	t := tok
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: tok.Pos, Token: &t}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Kind, e.Message, e.Pos.Line, e.Pos.Column)
}

// Format renders the full diagnostic banner described by the language
// spec: a banner line, the previous source line (if any), the
// offending line, a tilde-caret pointer, the message, and the
// following source line (if any).
func Format(err *Error, file, source string) string {
	var sb strings.Builder

	if file != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", err.Kind, file, err.Pos.Line, err.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d, column %d\n", err.Kind, err.Pos.Line, err.Pos.Column)
	}

	lines := strings.Split(source, "\n")
	lineIdx := err.Pos.Line - 1

	if lineIdx-1 >= 0 && lineIdx-1 < len(lines) {
		fmt.Fprintf(&sb, "%4d | %s\n", err.Pos.Line-1, lines[lineIdx-1])
	}

	if lineIdx >= 0 && lineIdx < len(lines) {
		offending := lines[lineIdx]
		fmt.Fprintf(&sb, "%4d | %s\n", err.Pos.Line, offending)

		col := err.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", 7))
		sb.WriteString(strings.Repeat("~", col-1))
		sb.WriteString("^")
		sb.WriteString("\n")
	}

	sb.WriteString(err.Message)

	if lineIdx+1 >= 0 && lineIdx+1 < len(lines) {
		fmt.Fprintf(&sb, "\n%4d | %s", err.Pos.Line+1, lines[lineIdx+1])
	}
	return sb.String()
}
