// Package parser implements a recursive-descent parser that turns an
// oaf token stream into an AST compilation unit (spec.md §4.3). The
// parser never panics: on an unexpected token it emits a PAR001
// diagnostic and resynchronizes at the next ';', '}', or EOF.
package parser

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/lexer"
)

// Parser buffers the full token stream up front so that type-led
// declarations ("Box<T> name = expr;") can be disambiguated from plain
// assignments and relational expressions via bounded backtracking
// lookahead, without the lexer itself needing to support rewinding.
type Parser struct {
	toks []lexer.Token
	pos  int
	bag  *diag.Bag
}

// New buffers every token from l (which has already been constructed
// over normalized source) and returns a ready-to-use Parser.
func New(l *lexer.Lexer, bag *diag.Bag) *Parser {
	p := &Parser{bag: bag}
	for {
		t := l.NextToken()
		p.toks = append(p.toks, t)
		if t.Kind == lexer.EOF {
			break
		}
	}
	return p
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) curIsKeyword(text string) bool {
	return p.cur().Kind == lexer.IDENT && p.cur().Text == text
}

func (p *Parser) pos0() diag.Position {
	t := p.cur()
	return diag.Position{Line: t.Line, Column: t.Column, Length: t.Len()}
}

// expect consumes the current token if it matches k, else records a
// PAR001 diagnostic and resynchronizes.
func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if p.curIs(k) {
		return p.advance()
	}
	p.errorHere("expected %s, found %s %q", k, p.cur().Kind, p.cur().Text)
	return p.cur()
}

// expectSemicolon allows an empty ';' terminator without diagnostics
// and resynchronizes if it's missing (spec.md §4.3).
func (p *Parser) expectSemicolon() {
	if p.curIs(lexer.SEMICOLON) {
		p.advance()
		return
	}
	p.errorHere("expected ';', found %s %q", p.cur().Kind, p.cur().Text)
	p.resync()
}

// Parse parses a full compilation unit: a sequence of statements until
// EOF (spec.md §4.3).
func (p *Parser) Parse() *ast.CompilationUnit {
	unit := &ast.CompilationUnit{}
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			unit.Statements = append(unit.Statements, stmt)
		}
	}
	return unit
}

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.curIsKeyword("flux"):
		return p.parseFluxDecl()
	case p.curIsKeyword("loop"):
		return p.parseLoop()
	case p.curIsKeyword("if"):
		return p.parseIf()
	case p.curIsKeyword("break"):
		pos := p.pos0()
		p.advance()
		p.expectSemicolon()
		return &ast.BreakStmt{Base: ast.MakeBase(pos)}
	case p.curIsKeyword("continue"):
		pos := p.pos0()
		p.advance()
		p.expectSemicolon()
		return &ast.ContinueStmt{Base: ast.MakeBase(pos)}
	case p.curIsKeyword("return"):
		return p.parseReturn()
	case p.curIsKeyword("struct"), p.curIsKeyword("class"):
		return p.parseStructOrClass()
	case p.curIsKeyword("enum"):
		return p.parseEnum()
	}

	if decl, ok := p.tryParseTypeLedDecl(false); ok {
		return decl
	}
	return p.parseAssignOrExprStmt()
}

func (p *Parser) parseFluxDecl() ast.Stmt {
	pos := p.pos0()
	p.advance() // 'flux'
	if decl, ok := p.tryParseTypeLedDecl(true); ok {
		return decl
	}
	name := p.expect(lexer.IDENT).Text
	p.expect(lexer.ASSIGN)
	value := p.parseExpr(precLowest)
	p.expectSemicolon()
	return &ast.VarDecl{Base: ast.MakeBase(pos), Name: name, Mutable: true, Value: value}
}

// tryParseTypeLedDecl attempts "[TypeRef] IDENT = expr;" starting at
// the current position. It backtracks cleanly if the pattern doesn't
// match, so callers can fall through to assignment/expression parsing.
func (p *Parser) tryParseTypeLedDecl(mutable bool) (*ast.VarDecl, bool) {
	save := p.pos
	if !p.curIs(lexer.IDENT) {
		return nil, false
	}
	pos := p.pos0()
	ref, ok := p.tryParseTypeRef()
	if !ok || !p.curIs(lexer.IDENT) {
		p.pos = save
		return nil, false
	}
	name := p.advance().Text
	if !p.curIs(lexer.ASSIGN) {
		p.pos = save
		return nil, false
	}
	p.advance()
	value := p.parseExpr(precLowest)
	p.expectSemicolon()
	return &ast.VarDecl{Base: ast.MakeBase(pos), Name: name, Mutable: mutable, DeclaredType: ref, Value: value}, true
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.pos0()
	p.advance()
	var value ast.Expr
	if !p.curIs(lexer.SEMICOLON) {
		value = p.parseExpr(precLowest)
	}
	p.expectSemicolon()
	return &ast.ReturnStmt{Base: ast.MakeBase(pos), Value: value}
}

func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	pos := p.pos0()
	if p.curIs(lexer.IDENT) && !lexer.IsKeyword(p.cur().Text) && isAssignOp(p.peekAt(1).Kind) {
		name := p.advance().Text
		op := assignOpFor(p.advance().Kind)
		value := p.parseExpr(precLowest)
		p.expectSemicolon()
		return &ast.Assign{Base: ast.MakeBase(pos), Name: name, Op: op, Value: value}
	}
	x := p.parseExpr(precLowest)
	p.expectSemicolon()
	return &ast.ExprStmt{Base: ast.MakeBase(pos), X: x}
}

func isAssignOp(k lexer.Kind) bool {
	switch k {
	case lexer.ASSIGN, lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ:
		return true
	}
	return false
}

func assignOpFor(k lexer.Kind) ast.AssignOp {
	switch k {
	case lexer.PLUSEQ:
		return ast.OpAddAssign
	case lexer.MINUSEQ:
		return ast.OpSubAssign
	case lexer.STAREQ:
		return ast.OpMulAssign
	case lexer.SLASHEQ:
		return ast.OpDivAssign
	default:
		return ast.OpAssign
	}
}

// parseBlockOrStatement parses either a "{ ... }" block or a single
// statement, used after the fat-arrow in `if`/`loop` bodies
// (spec.md §4.3).
func (p *Parser) parseBlockOrStatement() []ast.Stmt {
	if p.curIs(lexer.LBRACE) {
		p.advance()
		var stmts []ast.Stmt
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			if p.curIs(lexer.SEMICOLON) {
				p.advance()
				continue
			}
			if s := p.parseStatement(); s != nil {
				stmts = append(stmts, s)
			}
		}
		p.expect(lexer.RBRACE)
		return stmts
	}
	if s := p.parseStatement(); s != nil {
		return []ast.Stmt{s}
	}
	return nil
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.pos0()
	p.advance() // 'if'
	cond := p.parseExpr(precLowest)
	p.expect(lexer.FARROW)
	body := p.parseBlockOrStatement()
	return &ast.IfStmt{Base: ast.MakeBase(pos), Cond: cond, Body: body}
}

func (p *Parser) parseLoop() ast.Stmt {
	pos := p.pos0()
	p.advance() // 'loop'
	cond := p.parseExpr(precLowest)
	p.expect(lexer.FARROW)
	body := p.parseBlockOrStatement()
	return &ast.LoopStmt{Base: ast.MakeBase(pos), Cond: cond, Body: body}
}
