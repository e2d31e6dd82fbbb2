// Package parser implements a recursive descent parser for C
package parser

import (
	"fmt"

	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
)

// Diagnostic is a single syntax error, surfaced with its source location
// one kind ("syntax-error") with a message
// payload, never thrown across the API boundary.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

// Parser parses C source code into a Cabs AST.
type Parser struct {
	tv     *tokenView
	pos    int
	scope  *Scope
	errors []Diagnostic
}

// mark is a saved cursor position, the single backtrack primitive used
// by labelled-statement disambiguation.
type mark int

// New creates a new Parser for the given lexer. predeclaredTypedefs seeds
// the global scope frame with typedef names known before parsing begins
// (e.g. __builtin_va_list).
func New(l *lexer.Lexer, predeclaredTypedefs []string) *Parser {
	return &Parser{
		tv:    newTokenView(l),
		scope: newScope(predeclaredTypedefs),
	}
}

// Errors returns the diagnostics accumulated during the parse.
func (p *Parser) Errors() []Diagnostic {
	return p.errors
}

func (p *Parser) addError(msg string) {
	tok := p.cur()
	p.errors = append(p.errors, Diagnostic{Line: tok.Line, Column: tok.Column, Message: msg})
}

func (p *Parser) cur() lexer.Token {
	return p.peek(0)
}

// peek returns the token k positions ahead of the cursor (k == 0 is the
// current token). Peeking past the end returns a synthetic EOF token.
func (p *Parser) peek(k int) lexer.Token {
	return p.tv.at(p.pos + k)
}

func (p *Parser) curIs(t lexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	p.pos++
	return tok
}

// match advances and returns true if the current token is t, else it is
// a no-op that returns false.
func (p *Parser) match(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	return false
}

// consume is match plus a diagnostic on mismatch.
func (p *Parser) consume(t lexer.TokenType) bool {
	if p.match(t) {
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.cur().Type))
	return false
}

func (p *Parser) save() mark {
	return mark(p.pos)
}

func (p *Parser) restore(m mark) {
	p.pos = int(m)
}

// ParseProgram parses a complete translation unit, accumulating
// diagnostics rather than stopping at the first error: on a parse
// failure it resynchronises to the next statement/declaration boundary
// and continues with the next external declaration.
func (p *Parser) ParseProgram() *cabs.Program {
	prog := &cabs.Program{}
	for !p.curIs(lexer.TokenEOF) {
		startPos := p.pos
		errCount := len(p.errors)
		def := p.parseExternalDeclaration()
		if def != nil {
			prog.Definitions = append(prog.Definitions, def)
		}
		if p.pos == startPos {
			p.synchronize()
		} else if len(p.errors) > errCount {
			if prev := p.peek(-1).Type; prev != lexer.TokenSemicolon && prev != lexer.TokenRBrace {
				p.synchronize()
			}
		}
	}
	return prog
}

// synchronize discards tokens up to and including the next ';' or '}',
// the nearest statement/declaration boundary.
func (p *Parser) synchronize() {
	for !p.curIs(lexer.TokenEOF) {
		tok := p.advance()
		if tok.Type == lexer.TokenSemicolon || tok.Type == lexer.TokenRBrace {
			return
		}
	}
}
