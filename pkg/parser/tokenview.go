package parser

import "github.com/cparse/cparse/pkg/lexer"

// tokenView is an immutable, fully materialized random-access token
// sequence. Disambiguating declarators (peeking past a run of '*'/'('
// tokens) and the labelled-statement lookahead both need peek(k) for
// small but unbounded k plus a save/restore point, which a fixed
// two-token lookahead cannot express. The lexer is drained by a single
// NextToken loop up front to build the buffer.
type tokenView struct {
	tokens []lexer.Token
}

func newTokenView(l *lexer.Lexer) *tokenView {
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	return &tokenView{tokens: tokens}
}

// at returns the token at index i, or a synthetic EOF token carrying the
// last real token's location if i is out of range.
func (tv *tokenView) at(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(tv.tokens) {
		last := tv.tokens[len(tv.tokens)-1]
		return lexer.Token{Type: lexer.TokenEOF, Line: last.Line, Column: last.Column}
	}
	return tv.tokens[i]
}
