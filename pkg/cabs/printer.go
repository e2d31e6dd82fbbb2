// Package cabs provides AST printing functionality
package cabs

import (
	"fmt"
	"io"
	"strings"

	"github.com/cparse/cparse/pkg/lexer"
)

// Printer outputs the AST in a minimal, re-parseable textual form.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program
func (p *Printer) PrintProgram(prog *Program) {
	for _, def := range prog.Definitions {
		p.printDefinition(def)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printDefinition(def Definition) {
	switch d := def.(type) {
	case FunctionDefinition:
		p.printFunctionDefinition(d)
	case Declaration:
		p.printDeclaration(d)
	default:
		fmt.Fprintf(p.w, "/* unknown definition %T */\n", def)
	}
}

func (p *Printer) printFunctionDefinition(f FunctionDefinition) {
	p.printDeclSpecifiers(f.Specifiers)
	fmt.Fprint(p.w, " ")
	p.printDeclarator(f.Declarator)
	fmt.Fprintln(p.w)
	p.printBlock(f.Body)
}

func (p *Printer) printDeclaration(d Declaration) {
	p.printDeclSpecifiers(d.Specifiers)
	for i, id := range d.InitDeclarators {
		if i == 0 {
			fmt.Fprint(p.w, " ")
		} else {
			fmt.Fprint(p.w, ", ")
		}
		p.printDeclarator(id.Declarator)
		if id.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.printInitializer(id.Init)
		}
	}
	fmt.Fprintln(p.w, ";")
}

func (p *Printer) printDeclSpecifiers(d DeclSpecifiers) {
	words := []string{}
	for _, sc := range d.StorageClasses {
		words = append(words, sc.String())
	}
	for _, fs := range d.FuncSpecifiers {
		words = append(words, fs.String())
	}
	for _, q := range d.Qualifiers {
		words = append(words, q.String())
	}
	fmt.Fprint(p.w, strings.Join(words, " "))
	for i, ts := range d.TypeSpecifiers {
		if i > 0 || len(words) > 0 {
			fmt.Fprint(p.w, " ")
		}
		p.printTypeSpecifier(ts)
	}
}

func (p *Printer) printTypeSpecifier(ts TypeSpecifier) {
	switch t := ts.(type) {
	case PrimitiveTypeSpec:
		fmt.Fprint(p.w, t.Kind.String())
	case TypedefNameSpec:
		fmt.Fprint(p.w, t.Name)
	case StructOrUnionSpec:
		kw := "struct"
		if t.IsUnion {
			kw = "union"
		}
		fmt.Fprint(p.w, kw)
		if t.Tag != "" {
			fmt.Fprintf(p.w, " %s", t.Tag)
		}
		if t.HasBody {
			fmt.Fprintln(p.w, " {")
			p.indent++
			for _, sd := range t.Declarations {
				p.writeIndent()
				p.printStructDeclaration(sd)
				fmt.Fprintln(p.w)
			}
			p.indent--
			p.writeIndent()
			fmt.Fprint(p.w, "}")
		}
	case EnumTypeSpec:
		fmt.Fprint(p.w, "enum")
		if t.Tag != "" {
			fmt.Fprintf(p.w, " %s", t.Tag)
		}
		if t.HasBody {
			fmt.Fprint(p.w, " { ")
			for i, e := range t.Enumerators {
				if i > 0 {
					fmt.Fprint(p.w, ", ")
				}
				fmt.Fprint(p.w, e.Name)
				if e.Value != nil {
					fmt.Fprint(p.w, " = ")
					p.printExpr(e.Value)
				}
			}
			fmt.Fprint(p.w, " }")
		}
	default:
		fmt.Fprintf(p.w, "/* unknown type-specifier %T */", ts)
	}
}

func (p *Printer) printStructDeclaration(sd StructDeclaration) {
	p.printDeclSpecifiers(sd.Specifiers)
	for i, d := range sd.Declarators {
		if i == 0 {
			fmt.Fprint(p.w, " ")
		} else {
			fmt.Fprint(p.w, ", ")
		}
		if d.Declarator != nil {
			p.printDeclarator(d.Declarator)
		}
		if d.BitWidth != nil {
			fmt.Fprint(p.w, " : ")
			p.printExpr(d.BitWidth)
		}
	}
	fmt.Fprint(p.w, ";")
}

func (p *Printer) printDeclarator(d *Declarator) {
	if d == nil {
		return
	}
	for _, ptr := range d.Pointers {
		fmt.Fprint(p.w, "*")
		for _, q := range ptr.Qualifiers {
			fmt.Fprintf(p.w, "%s ", q.String())
		}
	}
	p.printDirectDeclarator(d.Direct)
}

func (p *Printer) printDirectDeclarator(dd DirectDeclarator) {
	switch d := dd.(type) {
	case IdentDeclarator:
		fmt.Fprint(p.w, d.Name)
	case ParenDeclarator:
		fmt.Fprint(p.w, "(")
		p.printDeclarator(d.Inner)
		fmt.Fprint(p.w, ")")
	case ArrayDeclarator:
		p.printDirectDeclarator(d.Inner)
		fmt.Fprint(p.w, "[")
		if d.Static {
			fmt.Fprint(p.w, "static ")
		}
		for _, q := range d.Qualifiers {
			fmt.Fprintf(p.w, "%s ", q.String())
		}
		if d.Star {
			fmt.Fprint(p.w, "*")
		} else if d.Size != nil {
			p.printExpr(d.Size)
		}
		fmt.Fprint(p.w, "]")
	case FuncDeclarator:
		p.printDirectDeclarator(d.Inner)
		fmt.Fprint(p.w, "(")
		if d.Params != nil {
			p.printParamTypeList(*d.Params)
		} else {
			fmt.Fprint(p.w, strings.Join(d.IdentList, ", "))
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown direct-declarator %T */", dd)
	}
}

func (p *Printer) printParamTypeList(pl ParamTypeList) {
	for i, param := range pl.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printDeclSpecifiers(param.Specifiers)
		if param.Declarator != nil {
			fmt.Fprint(p.w, " ")
			p.printDeclarator(param.Declarator)
		} else if param.Abstract != nil {
			fmt.Fprint(p.w, " ")
			p.printDeclarator(param.Abstract)
		}
	}
	if pl.HasEllipsis {
		if len(pl.Params) > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprint(p.w, "...")
	}
}

func (p *Printer) printTypeName(t TypeName) {
	p.printDeclSpecifiers(t.Specifiers)
	if t.Abstract != nil {
		fmt.Fprint(p.w, " ")
		p.printDeclarator(t.Abstract)
	}
}

func (p *Printer) printBlock(b *Block) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range b.Items {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case Declaration:
		p.writeIndent()
		p.printDeclaration(s)
	case Return:
		p.writeIndent()
		fmt.Fprint(p.w, "return")
		if s.Expr != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case Computation:
		p.writeIndent()
		if s.Expr != nil {
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case If:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Then)
		p.indent--
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.indent++
			p.printStmt(s.Else)
			p.indent--
		}
	case While:
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
	case DoWhile:
		p.writeIndent()
		fmt.Fprintln(p.w, "do")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ");")
	case For:
		p.writeIndent()
		fmt.Fprint(p.w, "for (")
		switch init := s.Init.(type) {
		case nil:
		case Declaration:
			p.printDeclarationNoSemi(init)
		case Expr:
			p.printExpr(init)
		}
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
	case Break:
		p.writeIndent()
		fmt.Fprintln(p.w, "break;")
	case Continue:
		p.writeIndent()
		fmt.Fprintln(p.w, "continue;")
	case Switch:
		p.writeIndent()
		fmt.Fprint(p.w, "switch (")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ")")
		p.printStmt(s.Body)
	case Case:
		p.writeIndent()
		fmt.Fprint(p.w, "case ")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ":")
		p.printStmt(s.Stmt)
	case Default:
		p.writeIndent()
		fmt.Fprintln(p.w, "default:")
		p.printStmt(s.Stmt)
	case Goto:
		p.writeIndent()
		fmt.Fprintf(p.w, "goto %s;\n", s.Name)
	case Labelled:
		fmt.Fprintf(p.w, "%s:\n", s.Name)
		p.printStmt(s.Stmt)
	case Block:
		p.printBlock(&s)
	case *Block:
		p.printBlock(s)
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown stmt %T */;\n", stmt)
	}
}

// printDeclarationNoSemi prints a declaration without its trailing
// semicolon, for use as a for-loop init clause.
func (p *Printer) printDeclarationNoSemi(d Declaration) {
	p.printDeclSpecifiers(d.Specifiers)
	for i, id := range d.InitDeclarators {
		if i == 0 {
			fmt.Fprint(p.w, " ")
		} else {
			fmt.Fprint(p.w, ", ")
		}
		p.printDeclarator(id.Declarator)
		if id.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.printInitializer(id.Init)
		}
	}
}

func (p *Printer) printInitializer(init Initializer) {
	switch i := init.(type) {
	case SingleInit:
		p.printExpr(i.Expr)
	case ListInit:
		fmt.Fprint(p.w, "{ ")
		for idx, item := range i.Items {
			if idx > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printInitItem(item)
		}
		fmt.Fprint(p.w, " }")
	default:
		fmt.Fprintf(p.w, "/* unknown initializer %T */", init)
	}
}

func (p *Printer) printInitItem(item InitItem) {
	for _, d := range item.Designators {
		switch desig := d.(type) {
		case ArrayDesignator:
			fmt.Fprint(p.w, "[")
			p.printExpr(desig.Index)
			fmt.Fprint(p.w, "]")
		case MemberDesignator:
			fmt.Fprintf(p.w, ".%s", desig.Name)
		}
	}
	if len(item.Designators) > 0 {
		fmt.Fprint(p.w, " = ")
	}
	p.printInitializer(item.Init)
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Constant:
		p.printConstant(e)
	case StringLit:
		fmt.Fprintf(p.w, "%q", e.Value)
	case Variable:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		p.printUnary(e)
	case Binary:
		p.printBinary(e)
	case Assign:
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printExpr(e.Right)
	case Paren:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, ")")
	case Conditional:
		p.printExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printExpr(e.Else)
	case Comma:
		for i, sub := range e.Exprs {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(sub)
		}
	case Call:
		p.printExpr(e.Func)
		fmt.Fprint(p.w, "(")
		for i, arg := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(arg)
		}
		fmt.Fprint(p.w, ")")
	case Index:
		p.printExpr(e.Array)
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case Member:
		p.printExpr(e.Target)
		if e.IsArrow {
			fmt.Fprint(p.w, "->")
		} else {
			fmt.Fprint(p.w, ".")
		}
		fmt.Fprint(p.w, e.Field)
	case SizeofExpr:
		fmt.Fprint(p.w, "sizeof ")
		p.printExpr(e.Expr)
	case SizeofType:
		fmt.Fprint(p.w, "sizeof(")
		p.printTypeName(e.Type)
		fmt.Fprint(p.w, ")")
	case Cast:
		fmt.Fprint(p.w, "(")
		p.printTypeName(e.Type)
		fmt.Fprint(p.w, ")")
		p.printExpr(e.Expr)
	case CompoundLiteral:
		fmt.Fprint(p.w, "(")
		p.printTypeName(e.Type)
		fmt.Fprint(p.w, ")")
		fmt.Fprint(p.w, "{ ")
		for i, item := range e.Init {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printInitItem(item)
		}
		fmt.Fprint(p.w, " }")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printConstant(c Constant) {
	switch c.Value.Kind {
	case lexer.ValueNone:
		fmt.Fprint(p.w, "0")
	case lexer.ValueFloat32, lexer.ValueFloat64:
		fmt.Fprintf(p.w, "%g", c.Value.F)
	case lexer.ValueString:
		fmt.Fprintf(p.w, "%q", c.Value.S)
	case lexer.ValueChar:
		fmt.Fprintf(p.w, "'%c'", rune(c.Value.I))
	default:
		fmt.Fprintf(p.w, "%d", c.Value.I)
	}
}

func (p *Printer) printUnary(u Unary) {
	if u.Op.IsPostfix() {
		p.printExpr(u.Expr)
		fmt.Fprint(p.w, u.Op.String())
		return
	}
	fmt.Fprint(p.w, u.Op.String())
	p.printExpr(u.Expr)
}

func (p *Printer) printBinary(b Binary) {
	p.printExpr(b.Left)
	fmt.Fprintf(p.w, " %s ", b.Op.String())
	p.printExpr(b.Right)
}
