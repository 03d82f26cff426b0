// Package astprint renders a parsed program as an indented tree, the
// debugging aid behind `scr parse --dump-ast`. It is a thin external
// collaborator over internal/ast (spec §1 scopes pretty-printing out of
// the evaluator itself) in the spirit of the teacher's pkg/printer:
// one case per concrete node type, dispatched by type switch
// rather than a visitor interface, matching internal/ast's own choice
// of sum type over accept(visitor).
package astprint

import (
	"fmt"
	"strings"

	"github.com/nailuj29/language/internal/ast"
)

// Dump renders prog as an indented tree, one node per line.
func Dump(prog *ast.Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, s := range prog.Statements {
		dumpStmt(&sb, s, 1)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(sb *strings.Builder, s ast.Statement, depth int) {
	switch node := s.(type) {
	case *ast.Block:
		indent(sb, depth)
		sb.WriteString("Block\n")
		for _, inner := range node.Statements {
			dumpStmt(sb, inner, depth+1)
		}
	case *ast.ExpressionStmt:
		indent(sb, depth)
		sb.WriteString("ExpressionStmt\n")
		dumpExpr(sb, node.Expr, depth+1)
	case *ast.VarStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "VarStmt %s\n", node.Name.Lexeme)
		if node.Initializer != nil {
			dumpExpr(sb, node.Initializer, depth+1)
		}
	case *ast.IfStmt:
		indent(sb, depth)
		sb.WriteString("IfStmt\n")
		dumpExpr(sb, node.Condition, depth+1)
		dumpStmt(sb, node.Then, depth+1)
		if len(node.Else.Statements) > 0 {
			dumpStmt(sb, node.Else, depth+1)
		}
	case *ast.WhileStmt:
		indent(sb, depth)
		sb.WriteString("WhileStmt\n")
		dumpExpr(sb, node.Condition, depth+1)
		dumpStmt(sb, node.Body, depth+1)
	case *ast.ReturnStmt:
		indent(sb, depth)
		sb.WriteString("ReturnStmt\n")
		if node.Value != nil {
			dumpExpr(sb, node.Value, depth+1)
		}
	case *ast.BreakStmt:
		indent(sb, depth)
		sb.WriteString("BreakStmt\n")
	case *ast.ContinueStmt:
		indent(sb, depth)
		sb.WriteString("ContinueStmt\n")
	case *ast.ImportStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "ImportStmt %s\n", node.ModuleName.Lexeme)
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "<unknown statement %T>\n", s)
	}
}

func dumpExpr(sb *strings.Builder, e ast.Expression, depth int) {
	switch node := e.(type) {
	case *ast.Literal:
		if fn, ok := node.Value.(*ast.FnLiteral); ok {
			indent(sb, depth)
			names := make([]string, len(fn.Params))
			for i, p := range fn.Params {
				names[i] = p.Lexeme
			}
			fmt.Fprintf(sb, "FnLiteral %s(%s)\n", fn.Name.Lexeme, strings.Join(names, ", "))
			dumpStmt(sb, fn.Body, depth+1)
			return
		}
		indent(sb, depth)
		fmt.Fprintf(sb, "Literal %s\n", node.String())
	case *ast.GetVar:
		indent(sb, depth)
		fmt.Fprintf(sb, "GetVar %s\n", node.Name.Lexeme)
	case *ast.Assign:
		indent(sb, depth)
		fmt.Fprintf(sb, "Assign %s\n", node.Name.Lexeme)
		dumpExpr(sb, node.Right, depth+1)
	case *ast.AssignIndex:
		indent(sb, depth)
		fmt.Fprintf(sb, "AssignIndex %s\n", node.Name.Lexeme)
		dumpExpr(sb, node.Index, depth+1)
		dumpExpr(sb, node.NewValue, depth+1)
	case *ast.Binary:
		indent(sb, depth)
		fmt.Fprintf(sb, "Binary %s\n", node.Op.Lexeme)
		dumpExpr(sb, node.Left, depth+1)
		dumpExpr(sb, node.Right, depth+1)
	case *ast.Unary:
		indent(sb, depth)
		fmt.Fprintf(sb, "Unary %s\n", node.Op.Lexeme)
		dumpExpr(sb, node.Operand, depth+1)
	case *ast.Grouping:
		indent(sb, depth)
		sb.WriteString("Grouping\n")
		dumpExpr(sb, node.Inner, depth+1)
	case *ast.Call:
		indent(sb, depth)
		fmt.Fprintf(sb, "Call (%d args)\n", len(node.Args))
		dumpExpr(sb, node.Callee, depth+1)
		for _, a := range node.Args {
			dumpExpr(sb, a, depth+1)
		}
	case *ast.Index:
		indent(sb, depth)
		sb.WriteString("Index\n")
		dumpExpr(sb, node.Indexee, depth+1)
		dumpExpr(sb, node.Idx, depth+1)
	case *ast.List:
		indent(sb, depth)
		fmt.Fprintf(sb, "List (%d items)\n", len(node.Items))
		for _, item := range node.Items {
			dumpExpr(sb, item, depth+1)
		}
	case *ast.ImportAccess:
		indent(sb, depth)
		fmt.Fprintf(sb, "ImportAccess %s.%s\n", node.Module.Lexeme, node.Member.Lexeme)
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "<unknown expression %T>\n", e)
	}
}
