package parser

import "github.com/cparse/cparse/pkg/lexer"

// FIRST-set tables used for the predictive dispatch in declaration-specifier
// parsing, parameter disambiguation, and block-item dispatch. Factored into
// reusable predicates since the same First-set logic is needed at a
// half-dozen call sites (external declarations, block items, for-loop
// init, struct members, parameter declarations).

var storageClassTokens = map[lexer.TokenType]bool{
	lexer.TokenTypedef:  true,
	lexer.TokenExtern:   true,
	lexer.TokenStatic:   true,
	lexer.TokenAuto:     true,
	lexer.TokenRegister: true,
}

var typeQualifierTokens = map[lexer.TokenType]bool{
	lexer.TokenConst:    true,
	lexer.TokenRestrict: true,
	lexer.TokenVolatile: true,
}

var functionSpecifierTokens = map[lexer.TokenType]bool{
	lexer.TokenInline: true,
}

var primitiveTypeTokens = map[lexer.TokenType]bool{
	lexer.TokenVoid:     true,
	lexer.TokenChar:     true,
	lexer.TokenShort:    true,
	lexer.TokenInt_:     true,
	lexer.TokenLong:     true,
	lexer.TokenFloat:    true,
	lexer.TokenDouble:   true,
	lexer.TokenSigned:   true,
	lexer.TokenUnsigned: true,
	lexer.TokenBool:     true,
}

func isTypeSpecifierStart(t lexer.TokenType) bool {
	return primitiveTypeTokens[t] || t == lexer.TokenStruct || t == lexer.TokenUnion || t == lexer.TokenEnum
}

// isTypedefNameHere folds the scope-table lookup into the First-set check:
// an identifier only starts a type-specifier when a typedef with that name
// is visible in the current scope.
func (p *Parser) isTypedefNameHere() bool {
	tok := p.cur()
	return tok.Type == lexer.TokenIdent && p.scope.isTypedefInScope(tok.Literal)
}

// isDeclarationSpecifierStart reports whether the current token could
// begin a declaration-specifiers list.
func (p *Parser) isDeclarationSpecifierStart() bool {
	return p.declarationSpecifierStartsAt(0)
}

// declarationSpecifierStartsAt is the same check applied k tokens ahead of
// the cursor, used by the '(' bounded-lookahead rule in declarator/
// abstract-declarator disambiguation.
func (p *Parser) declarationSpecifierStartsAt(k int) bool {
	tok := p.peek(k)
	if storageClassTokens[tok.Type] || typeQualifierTokens[tok.Type] ||
		functionSpecifierTokens[tok.Type] || isTypeSpecifierStart(tok.Type) {
		return true
	}
	return tok.Type == lexer.TokenIdent && p.scope.isTypedefInScope(tok.Literal)
}
