package parser

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/lexer"
)

// tryParseTypeRef parses "Name" or "Name<Arg, ...>" at the current
// position, backtracking to the saved position on failure. A bare '<'
// that turns out not to close with '>' is assumed to be the relational
// operator and is left for the expression parser.
func (p *Parser) tryParseTypeRef() (*ast.TypeRef, bool) {
	save := p.pos
	if !p.curIs(lexer.IDENT) {
		return nil, false
	}
	pos := p.pos0()
	name := p.advance().Text

	ref := &ast.TypeRef{Base: ast.MakeBase(pos), Name: name}
	if p.curIs(lexer.LT) {
		p.advance()
		for {
			arg, ok := p.tryParseTypeRef()
			if !ok {
				p.pos = save
				return nil, false
			}
			ref.Args = append(ref.Args, arg)
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if !p.curIs(lexer.GT) {
			p.pos = save
			return nil, false
		}
		p.advance()
	}
	return ref, true
}
