package parser

import (
	"fmt"

	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
)

// parseExternalDeclaration parses declaration-specifiers,
// then either an empty (tag-only) declaration, or a declarator, branching
// on the token that follows the declarator to decide function definition
// vs declaration.
func (p *Parser) parseExternalDeclaration() cabs.Definition {
	specs := p.parseDeclSpecifiers()
	if isEmptySpecifiers(specs) {
		p.addError(fmt.Sprintf("expected declaration, got %s", p.cur().Type))
		p.advance()
		return nil
	}
	if p.match(lexer.TokenSemicolon) {
		return cabs.Declaration{Specifiers: specs}
	}
	first := p.parseDeclarator()
	if p.curIs(lexer.TokenLBrace) {
		return p.finishFunctionDefinition(specs, first)
	}
	return p.finishTopLevelDeclaration(specs, first)
}

func isEmptySpecifiers(specs cabs.DeclSpecifiers) bool {
	return len(specs.StorageClasses) == 0 && len(specs.Qualifiers) == 0 &&
		len(specs.FuncSpecifiers) == 0 && len(specs.TypeSpecifiers) == 0
}

// finishFunctionDefinition pushes a scope, binds each named parameter as
// ordinary, parses the compound-statement body, pops the scope, then
// binds the function name in the enclosing scope.
func (p *Parser) finishFunctionDefinition(specs cabs.DeclSpecifiers, declarator cabs.Declarator) cabs.Definition {
	fd, ok := declarator.Direct.(cabs.FuncDeclarator)
	if !ok {
		p.addError("function definition requires a function declarator")
	}
	name := directDeclaratorName(declarator.Direct)

	p.scope.push()
	if ok {
		for _, param := range fd.IdentList {
			p.scope.addOrdinary(param)
		}
		if fd.Params != nil {
			for _, param := range fd.Params.Params {
				if param.Declarator != nil {
					if pname := directDeclaratorName(param.Declarator.Direct); pname != "" {
						p.scope.addOrdinary(pname)
					}
				}
			}
		}
	}
	body := p.parseBlock()
	p.scope.pop()

	if name != "" {
		p.scope.addOrdinary(name)
	}
	return cabs.FunctionDefinition{Specifiers: specs, Declarator: &declarator, Body: body}
}

// finishTopLevelDeclaration parses the rest of an init-declarator list
// whose first declarator has already been consumed (needed to decide
// whether this is a function definition), then binds the declared names.
func (p *Parser) finishTopLevelDeclaration(specs cabs.DeclSpecifiers, first cabs.Declarator) cabs.Definition {
	decl := cabs.Declaration{Specifiers: specs}
	d := first
	for {
		id := cabs.InitDeclarator{Declarator: &d}
		if p.match(lexer.TokenAssign) {
			id.Init = p.parseInitializer()
		}
		decl.InitDeclarators = append(decl.InitDeclarators, id)
		if !p.match(lexer.TokenComma) {
			break
		}
		d = p.parseDeclarator()
	}
	p.consume(lexer.TokenSemicolon)
	p.bindDeclaredNames(decl)
	return decl
}

// parseDeclarationTail parses a complete declaration's init-declarator
// list (none yet consumed) given an already-parsed specifiers list, binds
// the declared names, and consumes the trailing ';'. Used for block-scope
// declarations and for-loop init clauses, where no declarator has been
// read ahead of time.
func (p *Parser) parseDeclarationTail(specs cabs.DeclSpecifiers) cabs.Declaration {
	decl := cabs.Declaration{Specifiers: specs}
	if p.match(lexer.TokenSemicolon) {
		return decl
	}
	for {
		d := p.parseDeclarator()
		id := cabs.InitDeclarator{Declarator: &d}
		if p.match(lexer.TokenAssign) {
			id.Init = p.parseInitializer()
		}
		decl.InitDeclarators = append(decl.InitDeclarators, id)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenSemicolon)
	p.bindDeclaredNames(decl)
	return decl
}

// bindDeclaredNames implements the scope invariant that typedef
// names become visible only after the declaration's terminating ';',
// which both callers above have already consumed by this point.
func (p *Parser) bindDeclaredNames(decl cabs.Declaration) {
	isTypedef := decl.Specifiers.HasStorageClass(cabs.StorageTypedef)
	for _, id := range decl.InitDeclarators {
		name := directDeclaratorName(id.Declarator.Direct)
		if name == "" {
			continue
		}
		if isTypedef {
			p.scope.addTypedef(name)
		} else {
			p.scope.addOrdinary(name)
		}
	}
}

// directDeclaratorName walks through array/function suffixes and
// parenthesised wrappers to find the identifier named by a declarator, or
// "" for an abstract declarator.
func directDeclaratorName(dd cabs.DirectDeclarator) string {
	switch d := dd.(type) {
	case cabs.IdentDeclarator:
		return d.Name
	case cabs.ParenDeclarator:
		if d.Inner == nil {
			return ""
		}
		return directDeclaratorName(d.Inner.Direct)
	case cabs.ArrayDeclarator:
		return directDeclaratorName(d.Inner)
	case cabs.FuncDeclarator:
		return directDeclaratorName(d.Inner)
	}
	return ""
}

// parseDeclSpecifiers runs a loop with a single-token switch
// that accumulates specifiers until it sees a token that cannot extend
// the list. An identifier only extends the list as a typedef-name type
// specifier when no primitive/tag type specifier has been seen yet
// (seenType) and it resolves to a typedef in the current scope — the
// lexical feedback rule that tells `T x;` apart from the start of an
// ordinary expression statement.
func (p *Parser) parseDeclSpecifiers() cabs.DeclSpecifiers {
	var specs cabs.DeclSpecifiers
	seenType := false
	for {
		tok := p.cur()
		switch {
		case storageClassTokens[tok.Type]:
			specs.StorageClasses = append(specs.StorageClasses, storageClassFor(tok.Type))
			p.advance()
		case typeQualifierTokens[tok.Type]:
			specs.Qualifiers = append(specs.Qualifiers, qualifierFor(tok.Type))
			p.advance()
		case functionSpecifierTokens[tok.Type]:
			specs.FuncSpecifiers = append(specs.FuncSpecifiers, cabs.FuncInline)
			p.advance()
		case primitiveTypeTokens[tok.Type]:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, cabs.PrimitiveTypeSpec{Kind: primitiveKindFor(tok.Type)})
			seenType = true
			p.advance()
		case tok.Type == lexer.TokenStruct || tok.Type == lexer.TokenUnion:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, p.parseStructOrUnionSpecifier())
			seenType = true
		case tok.Type == lexer.TokenEnum:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, p.parseEnumSpecifier())
			seenType = true
		case tok.Type == lexer.TokenIdent && !seenType && p.scope.isTypedefInScope(tok.Literal):
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, cabs.TypedefNameSpec{Name: tok.Literal})
			seenType = true
			p.advance()
		default:
			return specs
		}
	}
}

// parseSpecifierQualifierList is parseDeclSpecifiers minus the
// storage-class and function-specifier cases, used inside struct members
// and type-names.
func (p *Parser) parseSpecifierQualifierList() cabs.DeclSpecifiers {
	var specs cabs.DeclSpecifiers
	seenType := false
	for {
		tok := p.cur()
		switch {
		case typeQualifierTokens[tok.Type]:
			specs.Qualifiers = append(specs.Qualifiers, qualifierFor(tok.Type))
			p.advance()
		case primitiveTypeTokens[tok.Type]:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, cabs.PrimitiveTypeSpec{Kind: primitiveKindFor(tok.Type)})
			seenType = true
			p.advance()
		case tok.Type == lexer.TokenStruct || tok.Type == lexer.TokenUnion:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, p.parseStructOrUnionSpecifier())
			seenType = true
		case tok.Type == lexer.TokenEnum:
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, p.parseEnumSpecifier())
			seenType = true
		case tok.Type == lexer.TokenIdent && !seenType && p.scope.isTypedefInScope(tok.Literal):
			specs.TypeSpecifiers = append(specs.TypeSpecifiers, cabs.TypedefNameSpec{Name: tok.Literal})
			seenType = true
			p.advance()
		default:
			return specs
		}
	}
}

func storageClassFor(t lexer.TokenType) cabs.StorageClass {
	switch t {
	case lexer.TokenTypedef:
		return cabs.StorageTypedef
	case lexer.TokenExtern:
		return cabs.StorageExtern
	case lexer.TokenStatic:
		return cabs.StorageStatic
	case lexer.TokenRegister:
		return cabs.StorageRegister
	default:
		return cabs.StorageAuto
	}
}

func qualifierFor(t lexer.TokenType) cabs.TypeQualifier {
	switch t {
	case lexer.TokenRestrict:
		return cabs.QualRestrict
	case lexer.TokenVolatile:
		return cabs.QualVolatile
	default:
		return cabs.QualConst
	}
}

func primitiveKindFor(t lexer.TokenType) cabs.PrimitiveKind {
	switch t {
	case lexer.TokenVoid:
		return cabs.PrimVoid
	case lexer.TokenChar:
		return cabs.PrimChar
	case lexer.TokenShort:
		return cabs.PrimShort
	case lexer.TokenLong:
		return cabs.PrimLong
	case lexer.TokenFloat:
		return cabs.PrimFloat
	case lexer.TokenDouble:
		return cabs.PrimDouble
	case lexer.TokenSigned:
		return cabs.PrimSigned
	case lexer.TokenUnsigned:
		return cabs.PrimUnsigned
	case lexer.TokenBool:
		return cabs.PrimBool
	default:
		return cabs.PrimInt
	}
}

// parseStructOrUnionSpecifier parses a struct-or-union specifier.
// IsUnion reflects the keyword actually seen.
func (p *Parser) parseStructOrUnionSpecifier() cabs.StructOrUnionSpec {
	isUnion := p.curIs(lexer.TokenUnion)
	p.advance() // consume 'struct' or 'union'
	spec := cabs.StructOrUnionSpec{IsUnion: isUnion}
	if p.curIs(lexer.TokenIdent) {
		spec.Tag = p.cur().Literal
		p.advance()
	}
	if p.match(lexer.TokenLBrace) {
		spec.HasBody = true
		for !p.curIs(lexer.TokenRBrace) && !p.curIs(lexer.TokenEOF) {
			spec.Declarations = append(spec.Declarations, p.parseStructDeclaration())
		}
		p.consume(lexer.TokenRBrace)
	}
	return spec
}

func (p *Parser) parseStructDeclaration() cabs.StructDeclaration {
	specs := p.parseSpecifierQualifierList()
	decl := cabs.StructDeclaration{Specifiers: specs}
	for {
		var sd cabs.StructDeclarator
		if !p.curIs(lexer.TokenColon) {
			d := p.parseDeclarator()
			sd.Declarator = &d
		}
		if p.match(lexer.TokenColon) {
			sd.BitWidth = p.parseConditionalExpr()
		}
		decl.Declarators = append(decl.Declarators, sd)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenSemicolon)
	return decl
}

// parseEnumSpecifier parses an enum specifier: each enumerator is
// bound as ordinary in the current scope as soon as its name is seen.
func (p *Parser) parseEnumSpecifier() cabs.EnumTypeSpec {
	p.advance() // consume 'enum'
	spec := cabs.EnumTypeSpec{}
	if p.curIs(lexer.TokenIdent) {
		spec.Tag = p.cur().Literal
		p.advance()
	}
	if p.match(lexer.TokenLBrace) {
		spec.HasBody = true
		for !p.curIs(lexer.TokenRBrace) {
			if !p.curIs(lexer.TokenIdent) {
				p.addError(fmt.Sprintf("expected enumerator name, got %s", p.cur().Type))
				break
			}
			e := cabs.Enumerator{Name: p.cur().Literal}
			p.advance()
			p.scope.addOrdinary(e.Name)
			if p.match(lexer.TokenAssign) {
				e.Value = p.parseConditionalExpr()
			}
			spec.Enumerators = append(spec.Enumerators, e)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRBrace)
	}
	return spec
}

// parsePointers consumes a declarator's `*`-prefixed pointer list,
// including the qualifiers that may follow each `*`.
func (p *Parser) parsePointers() []cabs.Pointer {
	var ptrs []cabs.Pointer
	for p.match(lexer.TokenStar) {
		var ptr cabs.Pointer
		for typeQualifierTokens[p.cur().Type] {
			ptr.Qualifiers = append(ptr.Qualifiers, qualifierFor(p.cur().Type))
			p.advance()
		}
		ptrs = append(ptrs, ptr)
	}
	return ptrs
}

func (p *Parser) parseDeclarator() cabs.Declarator {
	return p.parseDeclaratorGeneric(false)
}

func (p *Parser) parseAbstractDeclarator() cabs.Declarator {
	return p.parseDeclaratorGeneric(true)
}

// parseDeclaratorGeneric handles both ordinary and abstract
// declarators: a pointer prefix, then a direct-declarator head (which may
// be empty only in abstract mode), then the array/function suffix chain.
func (p *Parser) parseDeclaratorGeneric(abstract bool) cabs.Declarator {
	var d cabs.Declarator
	d.Pointers = p.parsePointers()

	var head cabs.DirectDeclarator = cabs.IdentDeclarator{}
	if p.curIs(lexer.TokenIdent) || p.curIs(lexer.TokenLParen) {
		head = p.parseDirectDeclaratorHead(abstract)
	} else if !abstract {
		p.addError(fmt.Sprintf("expected identifier or '(' in declarator, got %s", p.cur().Type))
	}
	d.Direct = p.parseDirectDeclaratorSuffixes(head)
	return d
}

// parseDirectDeclaratorHead: on seeing '(', use
// bounded lookahead — if the first token inside begins a declaration
// specifier, the '(' starts a parameter list on an anonymous head (valid
// only in abstract-declarator context); otherwise it is a parenthesised
// declarator.
func (p *Parser) parseDirectDeclaratorHead(abstract bool) cabs.DirectDeclarator {
	if p.curIs(lexer.TokenIdent) {
		name := p.cur().Literal
		p.advance()
		return cabs.IdentDeclarator{Name: name}
	}
	if abstract && p.declarationSpecifierStartsAt(1) {
		return cabs.IdentDeclarator{}
	}
	p.advance() // consume '('
	inner := p.parseDeclaratorGeneric(abstract)
	p.consume(lexer.TokenRParen)
	return cabs.ParenDeclarator{Inner: &inner}
}

func (p *Parser) parseDirectDeclaratorSuffixes(head cabs.DirectDeclarator) cabs.DirectDeclarator {
	for {
		switch {
		case p.curIs(lexer.TokenLBracket):
			head = p.parseArraySuffix(head)
		case p.curIs(lexer.TokenLParen):
			head = p.parseFuncSuffix(head)
		default:
			return head
		}
	}
}

// parseArraySuffix parses a '[...]' direct-declarator suffix.
func (p *Parser) parseArraySuffix(inner cabs.DirectDeclarator) cabs.DirectDeclarator {
	p.advance() // consume '['
	arr := cabs.ArrayDeclarator{Inner: inner}
	if p.match(lexer.TokenStatic) {
		arr.Static = true
	}
	for typeQualifierTokens[p.cur().Type] {
		arr.Qualifiers = append(arr.Qualifiers, qualifierFor(p.cur().Type))
		p.advance()
	}
	if !arr.Static && p.match(lexer.TokenStatic) {
		arr.Static = true
	}
	if p.match(lexer.TokenStar) {
		arr.Star = true
	} else if !p.curIs(lexer.TokenRBracket) {
		arr.Size = p.parseAssignExpr()
	}
	p.consume(lexer.TokenRBracket)
	return arr
}

// parseFuncSuffix parses a '(...)' direct-declarator suffix: empty, a parameter-type-list,
// or a K&R identifier-list. An identifier that is not currently a
// typedef-name distinguishes a K&R parameter name from the start of a
// parameter declaration's type specifier.
func (p *Parser) parseFuncSuffix(inner cabs.DirectDeclarator) cabs.DirectDeclarator {
	p.advance() // consume '('
	fd := cabs.FuncDeclarator{Inner: inner}
	if p.curIs(lexer.TokenRParen) {
		fd.Params = &cabs.ParamTypeList{}
		p.advance()
		return fd
	}
	if p.curIs(lexer.TokenIdent) && !p.isDeclarationSpecifierStart() {
		for p.curIs(lexer.TokenIdent) {
			fd.IdentList = append(fd.IdentList, p.cur().Literal)
			p.advance()
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRParen)
		return fd
	}
	params := p.parseParamTypeList()
	fd.Params = &params
	p.consume(lexer.TokenRParen)
	return fd
}

func (p *Parser) parseParamTypeList() cabs.ParamTypeList {
	var pl cabs.ParamTypeList
	for {
		if p.match(lexer.TokenEllipsis) {
			pl.HasEllipsis = true
			break
		}
		pl.Params = append(pl.Params, p.parseParamDecl())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if len(pl.Params) == 1 && isVoidOnlyParam(pl.Params[0]) {
		pl.Params = nil
	}
	return pl
}

// isVoidOnlyParam recognises the `(void)` parameter list, which names a
// function taking no arguments rather than one void-typed parameter.
func isVoidOnlyParam(pd cabs.ParamDecl) bool {
	if pd.Declarator != nil || pd.Abstract != nil {
		return false
	}
	if len(pd.Specifiers.TypeSpecifiers) != 1 || len(pd.Specifiers.Qualifiers) != 0 {
		return false
	}
	prim, ok := pd.Specifiers.TypeSpecifiers[0].(cabs.PrimitiveTypeSpec)
	return ok && prim.Kind == cabs.PrimVoid
}

// parseParamDecl implements the bounded-lookahead parameter-declaration
// disambiguation: scan past any leading '*' (and qualifiers) to
// decide whether what follows names an identifier (a concrete declarator)
// or not (an abstract declarator, possibly empty).
func (p *Parser) parseParamDecl() cabs.ParamDecl {
	specs := p.parseDeclSpecifiers()
	pd := cabs.ParamDecl{Specifiers: specs}
	if p.curIs(lexer.TokenComma) || p.curIs(lexer.TokenRParen) || p.curIs(lexer.TokenEllipsis) {
		return pd // empty abstract declarator, e.g. the lone `int` in f(int)
	}
	if p.declaratorHasIdentAhead() {
		d := p.parseDeclarator()
		pd.Declarator = &d
	} else {
		d := p.parseAbstractDeclarator()
		pd.Abstract = &d
	}
	return pd
}

// declaratorHasIdentAhead runs the disambiguation scan without
// consuming any tokens: past a run of '*'/qualifiers, '[' means abstract
// (array), an identifier means concrete, '(' descends one level, and
// anything else means abstract.
func (p *Parser) declaratorHasIdentAhead() bool {
	k := 0
	for {
		t := p.peek(k).Type
		if t == lexer.TokenStar || typeQualifierTokens[t] {
			k++
			continue
		}
		break
	}
	for {
		switch p.peek(k).Type {
		case lexer.TokenLBracket:
			return false
		case lexer.TokenIdent:
			return true
		case lexer.TokenLParen:
			k++
		default:
			return false
		}
	}
}

// parseTypeName implements the specifier-qualifier-list plus optional
// abstract declarator used by casts, sizeof, and compound literals.
func (p *Parser) parseTypeName() cabs.TypeName {
	specs := p.parseSpecifierQualifierList()
	tn := cabs.TypeName{Specifiers: specs}
	if p.curIs(lexer.TokenStar) || p.curIs(lexer.TokenLBracket) || p.curIs(lexer.TokenLParen) {
		d := p.parseAbstractDeclarator()
		tn.Abstract = &d
	}
	return tn
}
