// Package format renders a parsed compilation unit back to oaf source
// text with deterministic indentation and spacing (spec.md §6
// `--format <file>`: "deterministic indentation and spacing; stable
// across runs"). It prints from the AST rather than re-flowing the
// original token stream, so formatting is idempotent by construction —
// formatting already-formatted output reproduces it exactly.
package format

import (
	"fmt"
	"strings"

	"github.com/oaflang/oaf/internal/ast"
)

const indentUnit = "\t"

// Source formats unit as oaf source text.
func Source(unit *ast.CompilationUnit) string {
	var sb strings.Builder
	for i, s := range unit.Statements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeStmt(&sb, s, 0)
	}
	return sb.String()
}

func writeIndent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
}

func writeStmt(sb *strings.Builder, s ast.Stmt, depth int) {
	writeIndent(sb, depth)
	switch n := s.(type) {
	case *ast.VarDecl:
		if n.Mutable {
			sb.WriteString("flux ")
		}
		if n.DeclaredType != nil {
			sb.WriteString(n.DeclaredType.String())
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%s = %s;\n", n.Name, writeExpr(n.Value))
	case *ast.Assign:
		fmt.Fprintf(sb, "%s %s %s;\n", n.Name, n.Op, writeExpr(n.Value))
	case *ast.IfStmt:
		fmt.Fprintf(sb, "if %s => {\n", writeExpr(n.Cond))
		writeBody(sb, n.Body, depth+1)
		writeIndent(sb, depth)
		sb.WriteString("}\n")
	case *ast.LoopStmt:
		fmt.Fprintf(sb, "loop %s => {\n", writeExpr(n.Cond))
		writeBody(sb, n.Body, depth+1)
		writeIndent(sb, depth)
		sb.WriteString("}\n")
	case *ast.BreakStmt:
		sb.WriteString("break;\n")
	case *ast.ContinueStmt:
		sb.WriteString("continue;\n")
	case *ast.ReturnStmt:
		if n.Value == nil {
			sb.WriteString("return;\n")
			return
		}
		fmt.Fprintf(sb, "return %s;\n", writeExpr(n.Value))
	case *ast.ExprStmt:
		fmt.Fprintf(sb, "%s;\n", writeExpr(n.X))
	case *ast.TypeDecl:
		writeTypeDecl(sb, n)
	default:
		fmt.Fprintf(sb, "/* unknown statement %T */\n", s)
	}
}

func writeBody(sb *strings.Builder, body []ast.Stmt, depth int) {
	for _, s := range body {
		writeStmt(sb, s, depth)
	}
}

func writeTypeDecl(sb *strings.Builder, n *ast.TypeDecl) {
	kind := "struct"
	switch n.Kind {
	case ast.KindClass:
		kind = "class"
	case ast.KindEnum:
		kind = "enum"
	}
	sb.WriteString(kind)
	sb.WriteByte(' ')
	sb.WriteString(n.Name)
	if len(n.TypeParams) > 0 {
		fmt.Fprintf(sb, "<%s>", strings.Join(n.TypeParams, ", "))
	}
	sb.WriteByte(' ')
	switch n.Kind {
	case ast.KindEnum:
		parts := make([]string, len(n.Variants))
		for i, v := range n.Variants {
			if v.Payload != nil {
				parts[i] = fmt.Sprintf("%s(%s)", v.Name, v.Payload.String())
			} else {
				parts[i] = v.Name
			}
		}
		fmt.Fprintf(sb, "=> %s;\n", strings.Join(parts, ", "))
	default:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
		}
		fmt.Fprintf(sb, "[%s];\n", strings.Join(parts, ", "))
	}
}

// writeExpr renders e with the minimum parenthesization needed to
// reproduce its parse given the grammar's precedence table
// (internal/parser/parser_expr.go).
func writeExpr(e ast.Expr) string {
	return writeExprPrec(e, 0)
}

func writeExprPrec(e ast.Expr, parentPrec int) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%g", n.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", n.Value)
	case *ast.CharLit:
		return fmt.Sprintf("%q", n.Value)
	case *ast.Ident:
		return n.Name
	case *ast.Unary:
		return unaryOpSymbol(n.Op) + writeExprPrec(n.X, 100)
	case *ast.Binary:
		prec := binaryPrecedence(n.Op)
		text := fmt.Sprintf("%s %s %s", writeExprPrec(n.Left, prec), binaryOpSymbol(n.Op), writeExprPrec(n.Right, prec+1))
		if prec < parentPrec {
			return "(" + text + ")"
		}
		return text
	case *ast.Cast:
		return fmt.Sprintf("(%s)%s", n.Target.String(), writeExprPrec(n.X, 100))
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = writeExpr(a)
		}
		return fmt.Sprintf("%s(%s)", writeExpr(n.Callee), strings.Join(args, ", "))
	case *ast.Member:
		return fmt.Sprintf("%s.%s", writeExprPrec(n.Receiver, 100), n.Name)
	case *ast.TypeRefExpr:
		return n.Ref.String()
	default:
		return fmt.Sprintf("/* unknown expr %T */", e)
	}
}

func binaryPrecedence(op ast.BinaryOp) int {
	switch op {
	case ast.BinOr:
		return 1
	case ast.BinAnd:
		return 2
	case ast.BinEq, ast.BinNeq:
		return 3
	case ast.BinLt, ast.BinGt, ast.BinLte, ast.BinGte:
		return 4
	case ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor, ast.BinNand, ast.BinNor, ast.BinXnor:
		return 5
	case ast.BinShl, ast.BinShr, ast.BinUshl, ast.BinUshr:
		return 6
	case ast.BinAdd, ast.BinSub:
		return 7
	case ast.BinMul, ast.BinDiv, ast.BinMod:
		return 8
	default:
		return 0
	}
}

func binaryOpSymbol(op ast.BinaryOp) string {
	symbols := map[ast.BinaryOp]string{
		ast.BinOr: "||", ast.BinAnd: "&&",
		ast.BinEq: "==", ast.BinNeq: "!=",
		ast.BinLt: "<", ast.BinGt: ">", ast.BinLte: "<=", ast.BinGte: ">=",
		ast.BinBitAnd: "&", ast.BinBitOr: "|", ast.BinBitXor: "^",
		ast.BinNand: "!&", ast.BinNor: "!|", ast.BinXnor: "^&",
		ast.BinShl: "<<", ast.BinShr: ">>", ast.BinUshl: "<<<", ast.BinUshr: ">>>",
		ast.BinAdd: "+", ast.BinSub: "-", ast.BinMul: "*", ast.BinDiv: "/", ast.BinMod: "%",
	}
	if s, ok := symbols[op]; ok {
		return s
	}
	return "?"
}

func unaryOpSymbol(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNeg:
		return "-"
	case ast.UnaryNot:
		return "!"
	case ast.UnaryBitNot:
		return "~"
	default:
		return "?"
	}
}
