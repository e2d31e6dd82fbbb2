package parser

import (
	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
)

// parseInitializer parses a brace-enclosed initializer list, or
// a plain assignment-expression.
func (p *Parser) parseInitializer() cabs.Initializer {
	if p.curIs(lexer.TokenLBrace) {
		return cabs.ListInit{Items: p.parseInitializerItemList()}
	}
	return cabs.SingleInit{Expr: p.parseAssignExpr()}
}

// parseInitializerItemList parses the brace-enclosed, comma-separated
// (with an optional trailing comma) list of initializer items shared by
// brace initializers and compound literals.
func (p *Parser) parseInitializerItemList() []cabs.InitItem {
	p.consume(lexer.TokenLBrace)
	var items []cabs.InitItem
	for !p.curIs(lexer.TokenRBrace) && !p.curIs(lexer.TokenEOF) {
		items = append(items, p.parseInitItem())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRBrace)
	return items
}

// parseInitItem implements the designated-initializer grammar: a
// (possibly empty) chain of `[expr]` and `.name` designators, each of
// which may nest inside the other (`.a[2].b = ...`), followed by `=` when
// any designator was present, then the designated initializer itself.
func (p *Parser) parseInitItem() cabs.InitItem {
	var designators []cabs.Designator
loop:
	for {
		switch {
		case p.curIs(lexer.TokenLBracket):
			p.advance()
			idx := p.parseConditionalExpr()
			p.consume(lexer.TokenRBracket)
			designators = append(designators, cabs.ArrayDesignator{Index: idx})
		case p.curIs(lexer.TokenDot):
			p.advance()
			name := p.cur().Literal
			p.consume(lexer.TokenIdent)
			designators = append(designators, cabs.MemberDesignator{Name: name})
		default:
			break loop
		}
	}
	if len(designators) > 0 {
		p.consume(lexer.TokenAssign)
	}
	return cabs.InitItem{Designators: designators, Init: p.parseInitializer()}
}
