package parser

import (
	"strconv"

	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/lexer"
)

// Precedence levels, lowest to highest, matching spec.md §4.3:
// logical-or, logical-and, equality, relational, bitwise, shift,
// additive, multiplicative, unary, cast, primary.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precBitwise
	precShift
	precAdditive
	precMultiplicative
)

type binInfo struct {
	prec int
	op   ast.BinaryOp
}

var binOps = map[lexer.Kind]binInfo{
	lexer.OROR:  {precOr, ast.BinOr},
	lexer.ANDAND: {precAnd, ast.BinAnd},
	lexer.EQ:    {precEquality, ast.BinEq},
	lexer.NEQ:   {precEquality, ast.BinNeq},
	lexer.LT:    {precRelational, ast.BinLt},
	lexer.GT:    {precRelational, ast.BinGt},
	lexer.LTE:   {precRelational, ast.BinLte},
	lexer.GTE:   {precRelational, ast.BinGte},
	lexer.AMP:   {precBitwise, ast.BinBitAnd},
	lexer.PIPE:  {precBitwise, ast.BinBitOr},
	lexer.CARET: {precBitwise, ast.BinBitXor},
	lexer.NAND:  {precBitwise, ast.BinNand},
	lexer.NOR:   {precBitwise, ast.BinNor},
	lexer.XNOR:  {precBitwise, ast.BinXnor},
	lexer.SHL:   {precShift, ast.BinShl},
	lexer.SHR:   {precShift, ast.BinShr},
	lexer.USHL:  {precShift, ast.BinUshl},
	lexer.USHR:  {precShift, ast.BinUshr},
	lexer.PLUS:  {precAdditive, ast.BinAdd},
	lexer.MINUS: {precAdditive, ast.BinSub},
	lexer.STAR:  {precMultiplicative, ast.BinMul},
	lexer.SLASH: {precMultiplicative, ast.BinDiv},
	lexer.PCT:   {precMultiplicative, ast.BinMod},
}

// parseExpr implements precedence climbing: parseUnary produces the
// left operand, then binary operators bind successively tighter
// operands on their right (left-associative).
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		info, ok := binOps[p.cur().Kind]
		if !ok || info.prec < minPrec {
			break
		}
		pos := left.Position()
		p.advance()
		right := p.parseExpr(info.prec + 1)
		left = &ast.Binary{ExprBase: ast.MakeExprBase(pos), Op: info.op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.pos0()
	switch p.cur().Kind {
	case lexer.MINUS:
		p.advance()
		return &ast.Unary{ExprBase: ast.MakeExprBase(pos), Op: ast.UnaryNeg, X: p.parseUnary()}
	case lexer.BANG:
		p.advance()
		return &ast.Unary{ExprBase: ast.MakeExprBase(pos), Op: ast.UnaryNot, X: p.parseUnary()}
	case lexer.TILDE:
		p.advance()
		return &ast.Unary{ExprBase: ast.MakeExprBase(pos), Op: ast.UnaryBitNot, X: p.parseUnary()}
	}
	return p.parseCastOrPrimary()
}

// parseCastOrPrimary disambiguates a parenthesized expression from an
// explicit cast "(T)expr": a cast requires a type name, a closing
// paren, and then another expression-starting token (spec.md §4.3).
func (p *Parser) parseCastOrPrimary() ast.Expr {
	if !p.curIs(lexer.LPAREN) {
		return p.parsePrimary()
	}
	save := p.pos
	pos := p.pos0()
	p.advance() // '('

	if p.curIs(lexer.IDENT) {
		if ref, ok := p.tryParseTypeRef(); ok && p.curIs(lexer.RPAREN) {
			if startsExpr(p.peekAt(1).Kind) {
				p.advance() // ')'
				x := p.parseUnary()
				return &ast.Cast{ExprBase: ast.MakeExprBase(pos), Target: ref, X: x}
			}
		}
	}

	p.pos = save
	p.advance() // '('
	x := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	return x
}

func startsExpr(k lexer.Kind) bool {
	switch k {
	case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR,
		lexer.LPAREN, lexer.MINUS, lexer.BANG, lexer.TILDE:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos0()
	var x ast.Expr

	switch p.cur().Kind {
	case lexer.INT:
		text := p.advance().Text
		v, _ := strconv.ParseInt(text, 10, 64)
		x = &ast.IntLit{ExprBase: ast.MakeExprBase(pos), Value: v}
	case lexer.FLOAT:
		text := p.advance().Text
		v, _ := strconv.ParseFloat(text, 64)
		x = &ast.FloatLit{ExprBase: ast.MakeExprBase(pos), Value: v}
	case lexer.STRING:
		x = &ast.StringLit{ExprBase: ast.MakeExprBase(pos), Value: p.advance().Text}
	case lexer.CHAR:
		text := p.advance().Text
		var r rune
		for _, rr := range text {
			r = rr
			break
		}
		x = &ast.CharLit{ExprBase: ast.MakeExprBase(pos), Value: r}
	case lexer.LPAREN:
		p.advance()
		x = p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
	case lexer.IDENT:
		switch p.cur().Text {
		case "true":
			p.advance()
			x = &ast.BoolLit{ExprBase: ast.MakeExprBase(pos), Value: true}
		case "false":
			p.advance()
			x = &ast.BoolLit{ExprBase: ast.MakeExprBase(pos), Value: false}
		default:
			x = p.parseIdentOrGeneric(pos)
		}
	default:
		p.errorHere("unexpected token %s %q", p.cur().Kind, p.cur().Text)
		p.resync()
		return &ast.Ident{ExprBase: ast.MakeExprBase(pos), Name: ""}
	}

	return p.parsePostfix(x)
}

// parseIdentOrGeneric handles a bare identifier, optionally followed by
// a generic argument list used as a constructor reference, e.g.
// "Box<int>(1)" (spec.md §3, "generic type references"). If the "<...>"
// isn't immediately followed by '(', it's left for the relational
// operator parser to consume instead.
func (p *Parser) parseIdentOrGeneric(pos diag.Position) ast.Expr {
	if p.peekAt(1).Kind == lexer.LT {
		save := p.pos
		if ref, ok := p.tryParseTypeRef(); ok && p.curIs(lexer.LPAREN) {
			return &ast.TypeRefExpr{ExprBase: ast.MakeExprBase(pos), Ref: ref}
		}
		p.pos = save
	}
	name := p.advance().Text
	return &ast.Ident{ExprBase: ast.MakeExprBase(pos), Name: name}
}

// parsePostfix chains call and member-access suffixes onto x.
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.cur().Kind {
		case lexer.LPAREN:
			pos := x.Position()
			p.advance()
			var args []ast.Expr
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				args = append(args, p.parseExpr(precLowest))
				if p.curIs(lexer.COMMA) {
					p.advance()
					continue
				}
				break
			}
			p.expect(lexer.RPAREN)
			x = &ast.Call{ExprBase: ast.MakeExprBase(pos), Callee: x, Args: args}
		case lexer.DOT:
			pos := x.Position()
			p.advance()
			name := p.expect(lexer.IDENT).Text
			x = &ast.Member{ExprBase: ast.MakeExprBase(pos), Receiver: x, Name: name}
		default:
			return x
		}
	}
}
