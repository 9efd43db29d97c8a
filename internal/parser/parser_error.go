package parser

import (
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/lexer"
)

// errorHere records a PAR001 diagnostic at the current token's position
// (spec.md §4.3, "Error recovery").
func (p *Parser) errorHere(format string, args ...any) {
	p.bag.Addf(diag.PAR001, diag.Error, p.pos0(), format, args...)
}

// resync skips tokens until the next ';', '}', or EOF, so a single
// malformed statement never derails the rest of the parse
// (spec.md §4.3, "Error recovery"). The parser never panics.
func (p *Parser) resync() {
	for {
		switch p.cur().Kind {
		case lexer.SEMICOLON:
			p.advance()
			return
		case lexer.RBRACE, lexer.EOF:
			return
		}
		p.advance()
	}
}
