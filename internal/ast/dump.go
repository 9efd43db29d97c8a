package ast

import (
	"fmt"
	"strings"
)

// Dump renders unit as an indented, parenthesized listing of its
// statement and expression tree — the `--ast` CLI debug flag's output
// (spec.md §6). Grounded on ir.Dump's texture (one node per line,
// offset/indent-prefixed) for the sibling debug dump over IR.
func Dump(unit *CompilationUnit) string {
	var sb strings.Builder
	for _, s := range unit.Statements {
		dumpStmt(&sb, s, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	switch n := s.(type) {
	case *VarDecl:
		indent(sb, depth)
		mut := ""
		if n.Mutable {
			mut = "flux "
		}
		fmt.Fprintf(sb, "(var %s%s =\n", mut, n.Name)
		dumpExpr(sb, n.Value, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *Assign:
		indent(sb, depth)
		fmt.Fprintf(sb, "(assign %s %s\n", n.Name, n.Op)
		dumpExpr(sb, n.Value, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *IfStmt:
		indent(sb, depth)
		sb.WriteString("(if\n")
		dumpExpr(sb, n.Cond, depth+1)
		dumpBody(sb, n.Body, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *LoopStmt:
		indent(sb, depth)
		sb.WriteString("(loop\n")
		dumpExpr(sb, n.Cond, depth+1)
		dumpBody(sb, n.Body, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *BreakStmt:
		indent(sb, depth)
		sb.WriteString("(break)\n")
	case *ContinueStmt:
		indent(sb, depth)
		sb.WriteString("(continue)\n")
	case *ReturnStmt:
		indent(sb, depth)
		if n.Value == nil {
			sb.WriteString("(return)\n")
			return
		}
		sb.WriteString("(return\n")
		dumpExpr(sb, n.Value, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *ExprStmt:
		indent(sb, depth)
		sb.WriteString("(expr_stmt\n")
		dumpExpr(sb, n.X, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *TypeDecl:
		indent(sb, depth)
		fmt.Fprintf(sb, "(type_decl %s %s)\n", typeDeclKindName(n.Kind), n.Name)
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "(unknown_stmt %T)\n", s)
	}
}

func dumpBody(sb *strings.Builder, body []Stmt, depth int) {
	for _, s := range body {
		dumpStmt(sb, s, depth)
	}
}

func dumpExpr(sb *strings.Builder, e Expr, depth int) {
	indent(sb, depth)
	switch n := e.(type) {
	case *IntLit:
		fmt.Fprintf(sb, "%d\n", n.Value)
	case *FloatLit:
		fmt.Fprintf(sb, "%g\n", n.Value)
	case *BoolLit:
		fmt.Fprintf(sb, "%t\n", n.Value)
	case *StringLit:
		fmt.Fprintf(sb, "%q\n", n.Value)
	case *CharLit:
		fmt.Fprintf(sb, "%q\n", n.Value)
	case *Ident:
		fmt.Fprintf(sb, "%s\n", n.Name)
	case *Unary:
		fmt.Fprintf(sb, "(%s\n", unaryOpName(n.Op))
		dumpExpr(sb, n.X, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *Binary:
		fmt.Fprintf(sb, "(%s\n", binaryOpName(n.Op))
		dumpExpr(sb, n.Left, depth+1)
		dumpExpr(sb, n.Right, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *Cast:
		fmt.Fprintf(sb, "(cast %s\n", n.Target.String())
		dumpExpr(sb, n.X, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *Call:
		sb.WriteString("(call\n")
		dumpExpr(sb, n.Callee, depth+1)
		for _, a := range n.Args {
			dumpExpr(sb, a, depth+1)
		}
		indent(sb, depth)
		sb.WriteString(")\n")
	case *Member:
		fmt.Fprintf(sb, "(member %s\n", n.Name)
		dumpExpr(sb, n.Receiver, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case *TypeRefExpr:
		fmt.Fprintf(sb, "(type_ref %s)\n", n.Ref.String())
	default:
		fmt.Fprintf(sb, "(unknown_expr %T)\n", e)
	}
}

func typeDeclKindName(k TypeDeclKind) string {
	switch k {
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

func unaryOpName(op UnaryOp) string {
	switch op {
	case UnaryNeg:
		return "neg"
	case UnaryNot:
		return "not"
	case UnaryBitNot:
		return "bitnot"
	default:
		return "unknown"
	}
}

func binaryOpName(op BinaryOp) string {
	names := map[BinaryOp]string{
		BinOr: "or", BinAnd: "and", BinEq: "eq", BinNeq: "neq",
		BinLt: "lt", BinGt: "gt", BinLte: "lte", BinGte: "gte",
		BinBitAnd: "bitand", BinBitOr: "bitor", BinBitXor: "bitxor",
		BinNand: "nand", BinNor: "nor", BinXnor: "xnor",
		BinShl: "shl", BinShr: "shr", BinUshl: "ushl", BinUshr: "ushr",
		BinAdd: "add", BinSub: "sub", BinMul: "mul", BinDiv: "div", BinMod: "mod",
	}
	if name, ok := names[op]; ok {
		return name
	}
	return "unknown"
}
