package lexer

import "testing"

func TestNumberLiterals(t *testing.T) {
	input := `42 3.14 1.5f 0x1A 10U 10L 10UL`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedKind    ValueKind
	}{
		{TokenInt, "42", ValueInt32},
		{TokenFloatConst, "3.14", ValueFloat64},
		{TokenFloatConst, "1.5f", ValueFloat32},
		{TokenInt, "0x1A", ValueInt32},
		{TokenInt, "10U", ValueUint32},
		{TokenInt, "10L", ValueInt64},
		{TokenInt, "10UL", ValueUint64},
		{TokenEOF, "", ValueNone},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Value.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - value kind wrong. expected=%v, got=%v",
				i, tt.expectedKind, tok.Value.Kind)
		}
	}
}

func TestCharConstant(t *testing.T) {
	input := `'a' '\n' '\0' '\\' '\''`

	expected := []uint64{'a', '\n', 0, '\\', '\''}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != TokenCharConst {
			t.Fatalf("tests[%d] - expected TokenCharConst, got %q", i, tok.Type)
		}
		if tok.Value.Kind != ValueChar {
			t.Fatalf("tests[%d] - expected ValueChar, got %v", i, tok.Value.Kind)
		}
		if tok.Value.I != want {
			t.Fatalf("tests[%d] - value wrong. expected=%d, got=%d", i, want, tok.Value.I)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	input := `"hello\nworld" "escaped \"quote\""`

	expected := []string{"hello\nworld", `escaped "quote"`}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != TokenString {
			t.Fatalf("tests[%d] - expected TokenString, got %q", i, tok.Type)
		}
		if tok.Value.Kind != ValueString {
			t.Fatalf("tests[%d] - expected ValueString, got %v", i, tok.Value.Kind)
		}
		if tok.Value.S != want {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q", i, want, tok.Value.S)
		}
	}
}

func TestCompoundAssignOperators(t *testing.T) {
	input := `+= -= *= /= %= <<= >>= &= ^= |= ...`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlusAssign, "+="},
		{TokenMinusAssign, "-="},
		{TokenStarAssign, "*="},
		{TokenSlashAssign, "/="},
		{TokenPercentAssign, "%="},
		{TokenShlAssign, "<<="},
		{TokenShrAssign, ">>="},
		{TokenAndAssign, "&="},
		{TokenXorAssign, "^="},
		{TokenOrAssign, "|="},
		{TokenEllipsis, "..."},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestIncrementDecrementAndShift(t *testing.T) {
	input := `++ -- << >> -> .`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIncrement, "++"},
		{TokenDecrement, "--"},
		{TokenShl, "<<"},
		{TokenShr, ">>"},
		{TokenArrow, "->"},
		{TokenDot, "."},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestInlineAndBoolKeywords(t *testing.T) {
	input := `inline _Bool`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInline, "inline"},
		{TokenBool, "_Bool"},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `int main() { return 42; }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenReturn, "return"},
		{TokenInt, "42"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % = == != < <= > >= && || ! & | ^ ~`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenPercent, "%"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLt, "<"},
		{TokenLe, "<="},
		{TokenGt, ">"},
		{TokenGe, ">="},
		{TokenAnd, "&&"},
		{TokenOr, "||"},
		{TokenNot, "!"},
		{TokenAmpersand, "&"},
		{TokenPipe, "|"},
		{TokenCaret, "^"},
		{TokenTilde, "~"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := `int // comment
main /* block
comment */ ()`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}
