package parser

import (
	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
)

// parseBlock parses a compound-statement: a brace-enclosed
// sequence of block items, each either a local declaration or a
// statement, parsed in its own scope frame.
func (p *Parser) parseBlock() *cabs.Block {
	p.consume(lexer.TokenLBrace)
	p.scope.push()
	block := &cabs.Block{}
	for !p.curIs(lexer.TokenRBrace) && !p.curIs(lexer.TokenEOF) {
		block.Items = append(block.Items, p.parseBlockItem())
	}
	p.scope.pop()
	p.consume(lexer.TokenRBrace)
	return block
}

// parseBlockItem dispatches on whether the current token could start a
// declaration-specifiers list.
func (p *Parser) parseBlockItem() cabs.Stmt {
	if p.isDeclarationSpecifierStart() {
		return p.parseDeclarationTail(p.parseDeclSpecifiers())
	}
	return p.parseStatement()
}

// parseStatement dispatches on the current token, including the
// speculative labelled-statement lookahead: `ident :` cannot be told apart
// from the start of an expression statement without scanning past the
// identifier, so a labelled statement is tried first and backtracked out
// of if the colon isn't there.
func (p *Parser) parseStatement() cabs.Stmt {
	if stmt, ok := p.tryParseLabelled(); ok {
		return stmt
	}
	switch p.cur().Type {
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenDo:
		return p.parseDoWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenSwitch:
		return p.parseSwitch()
	case lexer.TokenCase:
		return p.parseCase()
	case lexer.TokenDefault:
		return p.parseDefault()
	case lexer.TokenGoto:
		return p.parseGoto()
	case lexer.TokenContinue:
		p.advance()
		p.consume(lexer.TokenSemicolon)
		return cabs.Continue{}
	case lexer.TokenBreak:
		p.advance()
		p.consume(lexer.TokenSemicolon)
		return cabs.Break{}
	case lexer.TokenReturn:
		return p.parseReturn()
	default:
		return p.parseComputation()
	}
}

// tryParseLabelled speculatively parses `identifier : statement`,
// restoring the cursor and reporting false if what follows the identifier
// isn't a colon.
func (p *Parser) tryParseLabelled() (cabs.Stmt, bool) {
	if !p.curIs(lexer.TokenIdent) {
		return nil, false
	}
	m := p.save()
	name := p.cur().Literal
	p.advance()
	if !p.match(lexer.TokenColon) {
		p.restore(m)
		return nil, false
	}
	return cabs.Labelled{Name: name, Stmt: p.parseStatement()}, true
}

func (p *Parser) parseIf() cabs.Stmt {
	p.advance() // consume 'if'
	p.consume(lexer.TokenLParen)
	cond := p.parseExpr()
	p.consume(lexer.TokenRParen)
	then := p.parseStatement()
	stmt := cabs.If{Cond: cond, Then: then}
	if p.match(lexer.TokenElse) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhile() cabs.Stmt {
	p.advance() // consume 'while'
	p.consume(lexer.TokenLParen)
	cond := p.parseExpr()
	p.consume(lexer.TokenRParen)
	return cabs.While{Cond: cond, Body: p.parseStatement()}
}

func (p *Parser) parseDoWhile() cabs.Stmt {
	p.advance() // consume 'do'
	body := p.parseStatement()
	p.consume(lexer.TokenWhile)
	p.consume(lexer.TokenLParen)
	cond := p.parseExpr()
	p.consume(lexer.TokenRParen)
	p.consume(lexer.TokenSemicolon)
	return cabs.DoWhile{Body: body, Cond: cond}
}

// parseFor parses a for-statement, whose init clause may be a
// declaration or an expression and spans its own scope frame so that a
// variable declared in the init clause is visible to cond/post/body.
func (p *Parser) parseFor() cabs.Stmt {
	p.advance() // consume 'for'
	p.consume(lexer.TokenLParen)
	p.scope.push()
	defer p.scope.pop()

	stmt := cabs.For{}
	switch {
	case p.curIs(lexer.TokenSemicolon):
		p.advance()
	case p.isDeclarationSpecifierStart():
		decl := p.parseDeclarationTail(p.parseDeclSpecifiers())
		stmt.Init = decl
	default:
		stmt.Init = p.parseExpr()
		p.consume(lexer.TokenSemicolon)
	}

	if !p.curIs(lexer.TokenSemicolon) {
		stmt.Cond = p.parseExpr()
	}
	p.consume(lexer.TokenSemicolon)

	if !p.curIs(lexer.TokenRParen) {
		stmt.Post = p.parseExpr()
	}
	p.consume(lexer.TokenRParen)

	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseSwitch() cabs.Stmt {
	p.advance() // consume 'switch'
	p.consume(lexer.TokenLParen)
	expr := p.parseExpr()
	p.consume(lexer.TokenRParen)
	return cabs.Switch{Expr: expr, Body: p.parseStatement()}
}

func (p *Parser) parseCase() cabs.Stmt {
	p.advance() // consume 'case'
	expr := p.parseConditionalExpr()
	p.consume(lexer.TokenColon)
	return cabs.Case{Expr: expr, Stmt: p.parseStatement()}
}

func (p *Parser) parseDefault() cabs.Stmt {
	p.advance() // consume 'default'
	p.consume(lexer.TokenColon)
	return cabs.Default{Stmt: p.parseStatement()}
}

func (p *Parser) parseGoto() cabs.Stmt {
	p.advance() // consume 'goto'
	name := p.cur().Literal
	p.consume(lexer.TokenIdent)
	p.consume(lexer.TokenSemicolon)
	return cabs.Goto{Name: name}
}

func (p *Parser) parseReturn() cabs.Stmt {
	p.advance() // consume 'return'
	ret := cabs.Return{}
	if !p.curIs(lexer.TokenSemicolon) {
		ret.Expr = p.parseExpr()
	}
	p.consume(lexer.TokenSemicolon)
	return ret
}

// parseComputation parses an expression statement, or the empty statement
// `;` when no expression precedes the semicolon.
func (p *Parser) parseComputation() cabs.Stmt {
	if p.match(lexer.TokenSemicolon) {
		return cabs.Computation{}
	}
	expr := p.parseExpr()
	p.consume(lexer.TokenSemicolon)
	return cabs.Computation{Expr: expr}
}
