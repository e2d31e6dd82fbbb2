package cabs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cparse/cparse/pkg/lexer"
)

func printExprToString(t *testing.T, e Expr) string {
	t.Helper()
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printExpr(e)
	return buf.String()
}

func TestPrintConstant(t *testing.T) {
	tests := []struct {
		name  string
		value lexer.Value
		want  string
	}{
		{"int", lexer.Value{Kind: lexer.ValueInt32, I: 42}, "42"},
		{"uint", lexer.Value{Kind: lexer.ValueUint32, I: 7}, "7"},
		{"float", lexer.Value{Kind: lexer.ValueFloat64, F: 3.5}, "3.5"},
		{"string", lexer.Value{Kind: lexer.ValueString, S: "hi"}, `"hi"`},
		{"char", lexer.Value{Kind: lexer.ValueChar, I: uint64('a')}, "'a'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printExprToString(t, Constant{Value: tt.value})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintBinaryExpr(t *testing.T) {
	expr := Binary{Op: OpAdd, Left: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 1}}, Right: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 2}}}
	got := printExprToString(t, expr)
	if got != "1 + 2" {
		t.Errorf("got %q, want %q", got, "1 + 2")
	}
}

func TestPrintUnaryPrefixAndPostfix(t *testing.T) {
	prefix := Unary{Op: OpNeg, Expr: Variable{Name: "x"}}
	if got := printExprToString(t, prefix); got != "-x" {
		t.Errorf("prefix: got %q, want %q", got, "-x")
	}

	postfix := Unary{Op: OpPostInc, Expr: Variable{Name: "x"}}
	if got := printExprToString(t, postfix); got != "x++" {
		t.Errorf("postfix: got %q, want %q", got, "x++")
	}
}

func TestPrintMemberAccess(t *testing.T) {
	dot := Member{Target: Variable{Name: "s"}, Field: "x", IsArrow: false}
	if got := printExprToString(t, dot); got != "s.x" {
		t.Errorf("dot: got %q, want %q", got, "s.x")
	}

	arrow := Member{Target: Variable{Name: "p"}, Field: "y", IsArrow: true}
	if got := printExprToString(t, arrow); got != "p->y" {
		t.Errorf("arrow: got %q, want %q", got, "p->y")
	}
}

func TestPrintCallAndIndex(t *testing.T) {
	call := Call{Func: Variable{Name: "f"}, Args: []Expr{Variable{Name: "a"}, Variable{Name: "b"}}}
	if got := printExprToString(t, call); got != "f(a, b)" {
		t.Errorf("call: got %q, want %q", got, "f(a, b)")
	}

	idx := Index{Array: Variable{Name: "arr"}, Index: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 0}}}
	if got := printExprToString(t, idx); got != "arr[0]" {
		t.Errorf("index: got %q, want %q", got, "arr[0]")
	}
}

func TestPrintConditionalAndComma(t *testing.T) {
	cond := Conditional{
		Cond: Variable{Name: "c"},
		Then: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 1}},
		Else: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 2}},
	}
	if got := printExprToString(t, cond); got != "c ? 1 : 2" {
		t.Errorf("conditional: got %q, want %q", got, "c ? 1 : 2")
	}

	comma := Comma{Exprs: []Expr{Variable{Name: "a"}, Variable{Name: "b"}}}
	if got := printExprToString(t, comma); got != "a, b" {
		t.Errorf("comma: got %q, want %q", got, "a, b")
	}
}

func TestPrintAssign(t *testing.T) {
	assign := Assign{Op: OpAddAssign, Left: Variable{Name: "x"}, Right: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 1}}}
	if got := printExprToString(t, assign); got != "x += 1" {
		t.Errorf("got %q, want %q", got, "x += 1")
	}
}

func TestPrintFunctionDefinition(t *testing.T) {
	fd := FunctionDefinition{
		Specifiers: DeclSpecifiers{TypeSpecifiers: []TypeSpecifier{PrimitiveTypeSpec{Kind: PrimInt}}},
		Declarator: &Declarator{Direct: FuncDeclarator{
			Inner:  IdentDeclarator{Name: "main"},
			Params: &ParamTypeList{},
		}},
		Body: &Block{Items: []Stmt{Return{Expr: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 0}}}}},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printDefinition(fd)
	out := buf.String()

	if !strings.Contains(out, "int main()") {
		t.Errorf("expected %q to contain %q", out, "int main()")
	}
	if !strings.Contains(out, "return 0;") {
		t.Errorf("expected %q to contain %q", out, "return 0;")
	}
}

func TestPrintStructDeclaration(t *testing.T) {
	spec := StructOrUnionSpec{
		Tag:     "point",
		HasBody: true,
		Declarations: []StructDeclaration{
			{
				Specifiers:  DeclSpecifiers{TypeSpecifiers: []TypeSpecifier{PrimitiveTypeSpec{Kind: PrimInt}}},
				Declarators: []StructDeclarator{{Declarator: &Declarator{Direct: IdentDeclarator{Name: "x"}}}},
			},
		},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printTypeSpecifier(spec)
	out := buf.String()

	if !strings.Contains(out, "struct point") {
		t.Errorf("expected %q to contain %q", out, "struct point")
	}
	if !strings.Contains(out, "int x;") {
		t.Errorf("expected %q to contain %q", out, "int x;")
	}
}

func TestPrintUnionUsesUnionKeyword(t *testing.T) {
	spec := StructOrUnionSpec{IsUnion: true, Tag: "u"}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printTypeSpecifier(spec)
	if got := buf.String(); got != "union u" {
		t.Errorf("got %q, want %q", got, "union u")
	}
}

func TestPrintForLoopWithDeclarationInit(t *testing.T) {
	f := For{
		Init: Declaration{
			Specifiers: DeclSpecifiers{TypeSpecifiers: []TypeSpecifier{PrimitiveTypeSpec{Kind: PrimInt}}},
			InitDeclarators: []InitDeclarator{{
				Declarator: &Declarator{Direct: IdentDeclarator{Name: "i"}},
				Init:       SingleInit{Expr: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 0}}},
			}},
		},
		Cond: Binary{Op: OpLt, Left: Variable{Name: "i"}, Right: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 10}}},
		Post: Unary{Op: OpPostInc, Expr: Variable{Name: "i"}},
		Body: &Block{},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printStmt(f)
	out := buf.String()

	if !strings.Contains(out, "for (int i = 0; i < 10; i++)") {
		t.Errorf("expected %q to contain for-loop header, got: %q", out, out)
	}
}

func TestPrintDesignatedInitializer(t *testing.T) {
	item := InitItem{
		Designators: []Designator{ArrayDesignator{Index: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 1}}}},
		Init:        SingleInit{Expr: Constant{Value: lexer.Value{Kind: lexer.ValueInt32, I: 5}}},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printInitItem(item)
	if got := buf.String(); got != "[1] = 5" {
		t.Errorf("got %q, want %q", got, "[1] = 5")
	}
}
