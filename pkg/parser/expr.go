package parser

import (
	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
)

// parseExpr implements the comma operator, the lowest-precedence rule in
// the operator-to-AssignOp table.
func (p *Parser) parseExpr() cabs.Expr {
	first := p.parseAssignExpr()
	if !p.curIs(lexer.TokenComma) {
		return first
	}
	exprs := []cabs.Expr{first}
	for p.match(lexer.TokenComma) {
		exprs = append(exprs, p.parseAssignExpr())
	}
	return cabs.Comma{Exprs: exprs}
}

var assignOpTokens = map[lexer.TokenType]cabs.AssignOp{
	lexer.TokenAssign:        cabs.OpAssign,
	lexer.TokenPlusAssign:    cabs.OpAddAssign,
	lexer.TokenMinusAssign:   cabs.OpSubAssign,
	lexer.TokenStarAssign:    cabs.OpMulAssign,
	lexer.TokenSlashAssign:   cabs.OpDivAssign,
	lexer.TokenPercentAssign: cabs.OpModAssign,
	lexer.TokenShlAssign:     cabs.OpShlAssign,
	lexer.TokenShrAssign:     cabs.OpShrAssign,
	lexer.TokenAndAssign:     cabs.OpAndAssign,
	lexer.TokenXorAssign:     cabs.OpXorAssign,
	lexer.TokenOrAssign:      cabs.OpOrAssign,
}

// parseAssignExpr parses an assignment-expression: a
// conditional-expression, optionally followed by one of the canonical
// assignment operators (the canonical eleven: = += -= *= /= %= <<= >>=
// &= ^= |=) and a right-recursive assignment-expression.
func (p *Parser) parseAssignExpr() cabs.Expr {
	left := p.parseConditionalExpr()
	if op, ok := assignOpTokens[p.cur().Type]; ok {
		p.advance()
		right := p.parseAssignExpr()
		return cabs.Assign{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseConditionalExpr() cabs.Expr {
	cond := p.parseLogOrExpr()
	if !p.match(lexer.TokenQuestion) {
		return cond
	}
	then := p.parseExpr()
	p.consume(lexer.TokenColon)
	els := p.parseConditionalExpr()
	return cabs.Conditional{Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLogOrExpr() cabs.Expr {
	left := p.parseLogAndExpr()
	for p.match(lexer.TokenOr) {
		left = cabs.Binary{Op: cabs.OpOr, Left: left, Right: p.parseLogAndExpr()}
	}
	return left
}

func (p *Parser) parseLogAndExpr() cabs.Expr {
	left := p.parseBitOrExpr()
	for p.match(lexer.TokenAnd) {
		left = cabs.Binary{Op: cabs.OpAnd, Left: left, Right: p.parseBitOrExpr()}
	}
	return left
}

func (p *Parser) parseBitOrExpr() cabs.Expr {
	left := p.parseBitXorExpr()
	for p.match(lexer.TokenPipe) {
		left = cabs.Binary{Op: cabs.OpBitOr, Left: left, Right: p.parseBitXorExpr()}
	}
	return left
}

func (p *Parser) parseBitXorExpr() cabs.Expr {
	left := p.parseBitAndExpr()
	for p.match(lexer.TokenCaret) {
		left = cabs.Binary{Op: cabs.OpBitXor, Left: left, Right: p.parseBitAndExpr()}
	}
	return left
}

func (p *Parser) parseBitAndExpr() cabs.Expr {
	left := p.parseEqualityExpr()
	for p.match(lexer.TokenAmpersand) {
		left = cabs.Binary{Op: cabs.OpBitAnd, Left: left, Right: p.parseEqualityExpr()}
	}
	return left
}

func (p *Parser) parseEqualityExpr() cabs.Expr {
	left := p.parseRelationalExpr()
	for {
		switch p.cur().Type {
		case lexer.TokenEq:
			p.advance()
			left = cabs.Binary{Op: cabs.OpEq, Left: left, Right: p.parseRelationalExpr()}
		case lexer.TokenNe:
			p.advance()
			left = cabs.Binary{Op: cabs.OpNe, Left: left, Right: p.parseRelationalExpr()}
		default:
			return left
		}
	}
}

func (p *Parser) parseRelationalExpr() cabs.Expr {
	left := p.parseShiftExpr()
	for {
		var op cabs.BinaryOp
		switch p.cur().Type {
		case lexer.TokenLt:
			op = cabs.OpLt
		case lexer.TokenLe:
			op = cabs.OpLe
		case lexer.TokenGt:
			op = cabs.OpGt
		case lexer.TokenGe:
			op = cabs.OpGe
		default:
			return left
		}
		p.advance()
		left = cabs.Binary{Op: op, Left: left, Right: p.parseShiftExpr()}
	}
}

func (p *Parser) parseShiftExpr() cabs.Expr {
	left := p.parseAdditiveExpr()
	for {
		var op cabs.BinaryOp
		switch p.cur().Type {
		case lexer.TokenShl:
			op = cabs.OpShl
		case lexer.TokenShr:
			op = cabs.OpShr
		default:
			return left
		}
		p.advance()
		left = cabs.Binary{Op: op, Left: left, Right: p.parseAdditiveExpr()}
	}
}

func (p *Parser) parseAdditiveExpr() cabs.Expr {
	left := p.parseMultiplicativeExpr()
	for {
		var op cabs.BinaryOp
		switch p.cur().Type {
		case lexer.TokenPlus:
			op = cabs.OpAdd
		case lexer.TokenMinus:
			op = cabs.OpSub
		default:
			return left
		}
		p.advance()
		left = cabs.Binary{Op: op, Left: left, Right: p.parseMultiplicativeExpr()}
	}
}

func (p *Parser) parseMultiplicativeExpr() cabs.Expr {
	left := p.parseCastExpr()
	for {
		var op cabs.BinaryOp
		switch p.cur().Type {
		case lexer.TokenStar:
			op = cabs.OpMul
		case lexer.TokenSlash:
			op = cabs.OpDiv
		case lexer.TokenPercent:
			op = cabs.OpMod
		default:
			return left
		}
		p.advance()
		left = cabs.Binary{Op: op, Left: left, Right: p.parseCastExpr()}
	}
}

// parseCastExpr resolves the cast disambiguation: `(` followed by a
// token that starts a declaration-specifiers list is a cast (or, if a
// '{' follows the closing ')', a compound literal); otherwise it falls
// through to a unary expression, where a plain parenthesised expression is
// handled by parsePrimaryExpr.
func (p *Parser) parseCastExpr() cabs.Expr {
	if p.curIs(lexer.TokenLParen) && p.declarationSpecifierStartsAt(1) {
		m := p.save()
		p.advance() // consume '('
		typ := p.parseTypeName()
		if p.match(lexer.TokenRParen) {
			if p.curIs(lexer.TokenLBrace) {
				return p.parseCompoundLiteral(typ)
			}
			return cabs.Cast{Type: typ, Expr: p.parseCastExpr()}
		}
		p.restore(m)
	}
	return p.parseUnaryExpr()
}

func (p *Parser) parseCompoundLiteral(typ cabs.TypeName) cabs.Expr {
	items := p.parseInitializerItemList()
	return cabs.CompoundLiteral{Type: typ, Init: items}
}

var unaryPrefixOps = map[lexer.TokenType]cabs.UnaryOp{
	lexer.TokenAmpersand: cabs.OpAddrOf,
	lexer.TokenStar:      cabs.OpDeref,
	lexer.TokenPlus:      cabs.OpPos,
	lexer.TokenMinus:     cabs.OpNeg,
	lexer.TokenTilde:     cabs.OpBitNot,
	lexer.TokenNot:       cabs.OpNot,
}

// parseUnaryExpr parses a unary-expression: the prefix
// operators, prefix ++/--, sizeof (on either an expression or a
// parenthesised type-name), and otherwise a postfix expression.
func (p *Parser) parseUnaryExpr() cabs.Expr {
	if op, ok := unaryPrefixOps[p.cur().Type]; ok {
		p.advance()
		return cabs.Unary{Op: op, Expr: p.parseCastExpr()}
	}
	switch p.cur().Type {
	case lexer.TokenIncrement:
		p.advance()
		return cabs.Unary{Op: cabs.OpPreInc, Expr: p.parseUnaryExpr()}
	case lexer.TokenDecrement:
		p.advance()
		return cabs.Unary{Op: cabs.OpPreDec, Expr: p.parseUnaryExpr()}
	case lexer.TokenSizeof:
		return p.parseSizeof()
	default:
		return p.parsePostfixExpr()
	}
}

// parseSizeof disambiguates `sizeof ( type-name )` from `sizeof expr`
// (which may itself start with a parenthesised sub-expression) using the
// same bounded lookahead the cast rule uses.
func (p *Parser) parseSizeof() cabs.Expr {
	p.advance() // consume 'sizeof'
	if p.curIs(lexer.TokenLParen) && p.declarationSpecifierStartsAt(1) {
		p.advance()
		typ := p.parseTypeName()
		p.consume(lexer.TokenRParen)
		return cabs.SizeofType{Type: typ}
	}
	return cabs.SizeofExpr{Expr: p.parseUnaryExpr()}
}

// parsePostfixExpr parses a postfix-expression: a primary
// expression followed by any number of subscript, call, member access, or
// post-inc/dec suffixes.
func (p *Parser) parsePostfixExpr() cabs.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch p.cur().Type {
		case lexer.TokenLBracket:
			p.advance()
			idx := p.parseExpr()
			p.consume(lexer.TokenRBracket)
			expr = cabs.Index{Array: expr, Index: idx}
		case lexer.TokenLParen:
			p.advance()
			var args []cabs.Expr
			if !p.curIs(lexer.TokenRParen) {
				args = append(args, p.parseAssignExpr())
				for p.match(lexer.TokenComma) {
					args = append(args, p.parseAssignExpr())
				}
			}
			p.consume(lexer.TokenRParen)
			expr = cabs.Call{Func: expr, Args: args}
		case lexer.TokenDot:
			p.advance()
			name := p.cur().Literal
			p.consume(lexer.TokenIdent)
			expr = cabs.Member{Target: expr, Field: name}
		case lexer.TokenArrow:
			p.advance()
			name := p.cur().Literal
			p.consume(lexer.TokenIdent)
			expr = cabs.Member{Target: expr, Field: name, IsArrow: true}
		case lexer.TokenIncrement:
			p.advance()
			expr = cabs.Unary{Op: cabs.OpPostInc, Expr: expr}
		case lexer.TokenDecrement:
			p.advance()
			expr = cabs.Unary{Op: cabs.OpPostDec, Expr: expr}
		default:
			return expr
		}
	}
}

// parsePrimaryExpr parses a primary-expression: an
// identifier, a decoded constant, a string literal, or a parenthesised
// expression.
func (p *Parser) parsePrimaryExpr() cabs.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenIdent:
		p.advance()
		return cabs.Variable{Name: tok.Literal}
	case lexer.TokenInt, lexer.TokenFloatConst, lexer.TokenCharConst:
		p.advance()
		return cabs.Constant{Value: tok.Value}
	case lexer.TokenString:
		p.advance()
		return cabs.StringLit{Value: tok.Value.S}
	case lexer.TokenLParen:
		p.advance()
		inner := p.parseExpr()
		p.consume(lexer.TokenRParen)
		return cabs.Paren{Expr: inner}
	default:
		p.addError("expected expression, got " + tok.Type.String())
		p.advance()
		return cabs.Constant{}
	}
}
