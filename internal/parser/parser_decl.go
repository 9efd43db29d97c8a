package parser

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/lexer"
)

// parseTypeParams parses an optional "<A, B, ...>" generic parameter
// list of bare identifiers.
func (p *Parser) parseTypeParams() []string {
	if !p.curIs(lexer.LT) {
		return nil
	}
	p.advance()
	var params []string
	for {
		params = append(params, p.expect(lexer.IDENT).Text)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.GT)
	return params
}

// parseStructOrClass parses "struct Name<params> [field: Type, ...];"
// or the "class" variant of the same grammar (spec.md §4.3).
func (p *Parser) parseStructOrClass() ast.Stmt {
	pos := p.pos0()
	kind := ast.KindStruct
	if p.cur().Text == "class" {
		kind = ast.KindClass
	}
	p.advance() // 'struct' | 'class'

	name := p.expect(lexer.IDENT).Text
	typeParams := p.parseTypeParams()

	var fields []ast.FieldDecl
	p.expect(lexer.LBRACKET)
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		fname := p.expect(lexer.IDENT).Text
		p.expect(lexer.COLON)
		ftype, ok := p.tryParseTypeRef()
		if !ok {
			p.errorHere("expected field type after ':'")
			p.resync()
			break
		}
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ftype})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	p.expectSemicolon()

	return &ast.TypeDecl{
		Base:       ast.MakeBase(pos),
		Kind:       kind,
		Name:       name,
		TypeParams: typeParams,
		Fields:     fields,
	}
}

// parseEnum parses "enum Name<params> => Variant, Variant(Payload), ...;"
// (spec.md §4.3).
func (p *Parser) parseEnum() ast.Stmt {
	pos := p.pos0()
	p.advance() // 'enum'

	name := p.expect(lexer.IDENT).Text
	typeParams := p.parseTypeParams()
	p.expect(lexer.FARROW)

	var variants []ast.VariantDecl
	for {
		vname := p.expect(lexer.IDENT).Text
		var payload *ast.TypeRef
		if p.curIs(lexer.LPAREN) {
			p.advance()
			ref, ok := p.tryParseTypeRef()
			if !ok {
				p.errorHere("expected payload type in enum variant")
				p.resync()
				break
			}
			payload = ref
			p.expect(lexer.RPAREN)
		}
		variants = append(variants, ast.VariantDecl{Name: vname, Payload: payload})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expectSemicolon()

	return &ast.TypeDecl{
		Base:       ast.MakeBase(pos),
		Kind:       ast.KindEnum,
		Name:       name,
		TypeParams: typeParams,
		Variants:   variants,
	}
}
