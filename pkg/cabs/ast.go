// Package cabs defines the abstract syntax tree for C, mirroring CompCert's Cabs.v
package cabs

import "github.com/cparse/cparse/pkg/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	implCabsNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implCabsExpr()
}

// Stmt is the interface for all statement nodes. Declaration also
// implements Stmt so it can appear as a block item alongside ordinary
// statements, per the grammar's BlockItem = Declaration | Statement rule.
type Stmt interface {
	Node
	implCabsStmt()
}

// Definition is the interface for top-level external declarations
type Definition interface {
	Node
	implDefinition()
}

// TypeSpecifier is the interface for the variants of a type specifier:
// primitive, typedef-name, struct/union, enum.
type TypeSpecifier interface {
	Node
	implTypeSpecifier()
}

// DirectDeclarator is the interface for the variants of a direct
// declarator: identifier head, parenthesised head, array suffix, function
// suffix.
type DirectDeclarator interface {
	Node
	implDirectDeclarator()
}

// Initializer is the interface for a single-expression or brace-enclosed
// list initializer.
type Initializer interface {
	Node
	implInitializer()
}

// Designator is the interface for the array-index and member-name
// designators that may prefix an initializer-list item.
type Designator interface {
	Node
	implDesignator()
}

// Program is the root node: a translation unit's ordered external
// declarations.
type Program struct {
	Definitions []Definition
}

func (Program) implCabsNode() {}

// StorageClass enumerates the storage-class specifiers.
type StorageClass int

const (
	StorageTypedef StorageClass = iota
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
)

func (s StorageClass) String() string {
	names := []string{"typedef", "extern", "static", "auto", "register"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// TypeQualifier enumerates const/restrict/volatile.
type TypeQualifier int

const (
	QualConst TypeQualifier = iota
	QualRestrict
	QualVolatile
)

func (q TypeQualifier) String() string {
	names := []string{"const", "restrict", "volatile"}
	if int(q) < len(names) {
		return names[q]
	}
	return "?"
}

// FunctionSpecifier enumerates function specifiers (just inline in C99).
type FunctionSpecifier int

const (
	FuncInline FunctionSpecifier = iota
)

func (f FunctionSpecifier) String() string {
	return "inline"
}

// PrimitiveKind enumerates the primitive type-specifier keywords.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimChar
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimSigned
	PrimUnsigned
	PrimBool
)

func (p PrimitiveKind) String() string {
	names := []string{"void", "char", "short", "int", "long", "float", "double", "signed", "unsigned", "_Bool"}
	if int(p) < len(names) {
		return names[p]
	}
	return "?"
}

// DeclSpecifiers holds the storage-class, qualifier, function-specifier and
// type-specifier lists that precede a declarator. A SpecifierQualifierList
// (used inside struct members and type-names) is the same shape with
// StorageClasses and FunctionSpecifiers always empty.
type DeclSpecifiers struct {
	StorageClasses []StorageClass
	Qualifiers     []TypeQualifier
	FuncSpecifiers []FunctionSpecifier
	TypeSpecifiers []TypeSpecifier
}

// HasStorageClass reports whether sc is present among the specifiers.
func (d DeclSpecifiers) HasStorageClass(sc StorageClass) bool {
	for _, s := range d.StorageClasses {
		if s == sc {
			return true
		}
	}
	return false
}

// PrimitiveTypeSpec is a primitive type-specifier keyword occurrence
// (void, char, int, ... one occurrence per keyword seen, so "unsigned
// long long" is three PrimitiveTypeSpec entries).
type PrimitiveTypeSpec struct {
	Kind PrimitiveKind
}

// TypedefNameSpec is an identifier resolved, via the scope table, to a
// typedef name rather than an ordinary identifier.
type TypedefNameSpec struct {
	Name string
}

// StructOrUnionSpec is a struct or union specifier: `struct S {...}`,
// `union U`, or a bare `struct S` reference.
type StructOrUnionSpec struct {
	IsUnion      bool
	Tag          string
	HasBody      bool
	Declarations []StructDeclaration
}

// StructDeclaration is one member declaration inside a struct/union body:
// a specifier-qualifier list followed by a comma-separated declarator list.
type StructDeclaration struct {
	Specifiers  DeclSpecifiers
	Declarators []StructDeclarator
}

// StructDeclarator is a struct member declarator, optionally a bit field.
// Declarator is nil for an anonymous bit field (`: 3;`).
type StructDeclarator struct {
	Declarator *Declarator
	BitWidth   Expr
}

// EnumTypeSpec is an enum specifier: a tag, a body, or both.
type EnumTypeSpec struct {
	Tag         string
	HasBody     bool
	Enumerators []Enumerator
}

// Enumerator is one `name` or `name = value` entry inside an enum body.
type Enumerator struct {
	Name  string
	Value Expr
}

// Pointer is one `*` in a declarator's pointer prefix, with the
// qualifiers that followed it (`* const`, `* const volatile`, ...).
type Pointer struct {
	Qualifiers []TypeQualifier
}

// Declarator is a pointer prefix plus a direct declarator. Abstract
// declarators reuse this same type with an IdentDeclarator whose Name is
// "" as the innermost head — the grammar draws no structural distinction
// beyond "identifier may be absent".
type Declarator struct {
	Pointers []Pointer
	Direct   DirectDeclarator
}

// IdentDeclarator is a direct declarator's identifier head. Name is ""
// for the head of an abstract declarator.
type IdentDeclarator struct {
	Name string
}

// ParenDeclarator is a parenthesised declarator head: `( declarator )`.
type ParenDeclarator struct {
	Inner *Declarator
}

// ArrayDeclarator is an array suffix on a direct declarator: `inner[...]`.
type ArrayDeclarator struct {
	Inner      DirectDeclarator
	Size       Expr // nil if no size expression
	Qualifiers []TypeQualifier
	Static     bool
	Star       bool // VLA `[*]`
}

// FuncDeclarator is a function suffix on a direct declarator:
// `inner(...)`. Exactly one of Params or IdentList is meaningful;
// IdentList holds a K&R-style identifier list, Params a C89/C99
// parameter-type-list (possibly empty).
type FuncDeclarator struct {
	Inner     DirectDeclarator
	Params    *ParamTypeList
	IdentList []string
}

// ParamTypeList is a parameter-type-list: the parameter declarations plus
// whether a trailing `, ...` was present.
type ParamTypeList struct {
	Params      []ParamDecl
	HasEllipsis bool
}

// ParamDecl is one parameter declaration. Exactly one of Declarator or
// Abstract is set (or neither, for an empty abstract declarator such as
// the lone `int` in `f(int)`).
type ParamDecl struct {
	Specifiers DeclSpecifiers
	Declarator *Declarator
	Abstract   *Declarator
}

// TypeName is a specifier-qualifier-list plus an optional abstract
// declarator, as used by casts, sizeof, and compound literals.
type TypeName struct {
	Specifiers DeclSpecifiers
	Abstract   *Declarator
}

// InitDeclarator is one `declarator` or `declarator = initializer` entry
// in a declaration's comma-separated list.
type InitDeclarator struct {
	Declarator *Declarator
	Init       Initializer // nil if uninitialized
}

// Declaration is a declaration-specifiers list plus zero or more
// init-declarators. An empty InitDeclarators list is a tag-only
// struct/union/enum declaration.
type Declaration struct {
	Specifiers      DeclSpecifiers
	InitDeclarators []InitDeclarator
}

// FunctionDefinition is a function definition: declaration-specifiers, a
// declarator whose outermost direct-declarator suffix must be a function
// suffix, and a compound-statement body.
type FunctionDefinition struct {
	Specifiers DeclSpecifiers
	Declarator *Declarator
	Body       *Block
}

// Labelled is `name: stmt`.
type Labelled struct {
	Name string
	Stmt Stmt
}

// Case is `case expr: stmt`.
type Case struct {
	Expr Expr
	Stmt Stmt
}

// Default is `default: stmt`.
type Default struct {
	Stmt Stmt
}

// Block is a compound statement: zero or more block items, each either a
// Declaration or an ordinary Stmt.
type Block struct {
	Items []Stmt
}

// Computation is an expression statement. Expr is nil for the empty
// statement `;`.
type Computation struct {
	Expr Expr
}

// If is `if (cond) then` or `if (cond) then else else_`.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else clause
}

// Switch is `switch (expr) body`; body's Case/Default children live
// directly inside a nested Block rather than a precomputed list, so
// fallthrough and interleaved declarations parse exactly as any other
// compound statement's contents would.
type Switch struct {
	Expr Expr
	Body Stmt
}

// While is `while (cond) body`.
type While struct {
	Cond Expr
	Body Stmt
}

// DoWhile is `do body while (cond);`.
type DoWhile struct {
	Body Stmt
	Cond Expr
}

// For is `for (init; cond; post) body`. Init is either a Declaration or an
// Expr (both satisfy Node), or nil for an absent init clause.
type For struct {
	Init Node
	Cond Expr // nil if absent
	Post Expr // nil if absent
	Body Stmt
}

// Goto is `goto name;`.
type Goto struct {
	Name string
}

// Continue is `continue;`.
type Continue struct{}

// Break is `break;`.
type Break struct{}

// Return is `return;` or `return expr;`.
type Return struct {
	Expr Expr // nil for bare return
}

// Constant is a decoded numeric or character constant.
type Constant struct {
	Value lexer.Value
}

// StringLit is a decoded string literal.
type StringLit struct {
	Value string
}

// Variable is an identifier used as a primary expression.
type Variable struct {
	Name string
}

// Paren is a parenthesised expression, kept as an explicit node so the
// pretty-printer can round-trip parenthesisation rather than reconstruct
// it from inferred precedence.
type Paren struct {
	Expr Expr
}

// UnaryOp enumerates the unary prefix/postfix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -x
	OpPos                // +x
	OpNot                // !x
	OpBitNot             // ~x
	OpAddrOf             // &x
	OpDeref              // *x
	OpPreInc             // ++x
	OpPreDec             // --x
	OpPostInc            // x++
	OpPostDec            // x--
)

func (op UnaryOp) String() string {
	names := []string{"-", "+", "!", "~", "&", "*", "++", "--", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsPostfix reports whether op is a postfix increment/decrement.
func (op UnaryOp) IsPostfix() bool {
	return op == OpPostInc || op == OpPostDec
}

// Unary is a prefix unary expression, or a postfix ++/-- when Op.IsPostfix().
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

// SizeofExpr is `sizeof expr`.
type SizeofExpr struct {
	Expr Expr
}

// SizeofType is `sizeof ( type-name )`.
type SizeofType struct {
	Type TypeName
}

// Cast is `( type-name ) expr`.
type Cast struct {
	Type TypeName
	Expr Expr
}

// BinaryOp enumerates the non-assignment binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl // <<
	OpShr // >>
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||", "&", "|", "^", "<<", ">>"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Binary is a binary expression using one of BinaryOp's operators.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// AssignOp enumerates the assignment operators, including the compound
// forms.
type AssignOp int

const (
	OpAssign AssignOp = iota // =
	OpAddAssign               // +=
	OpSubAssign               // -=
	OpMulAssign               // *=
	OpDivAssign               // /=
	OpModAssign               // %=
	OpShlAssign               // <<=
	OpShrAssign               // >>=
	OpAndAssign               // &=
	OpXorAssign               // ^=
	OpOrAssign                // |=
)

func (op AssignOp) String() string {
	names := []string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Assign is an assignment expression: `left op right`.
type Assign struct {
	Op    AssignOp
	Left  Expr
	Right Expr
}

// Conditional is the ternary operator: cond ? then : else
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Comma is a comma expression: a left-to-right sequence of assignment
// expressions, only the last of which is the value of the whole.
type Comma struct {
	Exprs []Expr
}

// Call represents a function call
type Call struct {
	Func Expr
	Args []Expr
}

// Index represents array subscript access: arr[idx]
type Index struct {
	Array Expr
	Index Expr
}

// Member is `target.field` or, when IsArrow, `target->field`.
type Member struct {
	Target  Expr
	Field   string
	IsArrow bool
}

// CompoundLiteral is `( type-name ) { init-list }`, a C99 unnamed object.
type CompoundLiteral struct {
	Type TypeName
	Init []InitItem
}

// SingleInit is a plain assignment-expression initializer.
type SingleInit struct {
	Expr Expr
}

// ListInit is a brace-enclosed initializer list.
type ListInit struct {
	Items []InitItem
}

// InitItem is one entry of an initializer list: an optional chain of
// designators (`.field`, `[idx]`, or both, nested) followed by the
// initializer it designates.
type InitItem struct {
	Designators []Designator
	Init        Initializer
}

// ArrayDesignator is the `[expr]` form of a designator.
type ArrayDesignator struct {
	Index Expr
}

// MemberDesignator is the `.name` form of a designator.
type MemberDesignator struct {
	Name string
}

// Marker methods for interface implementation.

func (Declaration) implCabsNode() {}
func (Declaration) implDefinition() {}
func (Declaration) implCabsStmt() {}

func (FunctionDefinition) implCabsNode() {}
func (FunctionDefinition) implDefinition() {}

func (PrimitiveTypeSpec) implCabsNode()      {}
func (PrimitiveTypeSpec) implTypeSpecifier() {}

func (TypedefNameSpec) implCabsNode()      {}
func (TypedefNameSpec) implTypeSpecifier() {}

func (StructOrUnionSpec) implCabsNode()      {}
func (StructOrUnionSpec) implTypeSpecifier() {}

func (EnumTypeSpec) implCabsNode()      {}
func (EnumTypeSpec) implTypeSpecifier() {}

func (IdentDeclarator) implCabsNode()         {}
func (IdentDeclarator) implDirectDeclarator() {}

func (ParenDeclarator) implCabsNode()         {}
func (ParenDeclarator) implDirectDeclarator() {}

func (ArrayDeclarator) implCabsNode()         {}
func (ArrayDeclarator) implDirectDeclarator() {}

func (FuncDeclarator) implCabsNode()         {}
func (FuncDeclarator) implDirectDeclarator() {}

func (Labelled) implCabsNode() {}
func (Labelled) implCabsStmt() {}

func (Case) implCabsNode() {}
func (Case) implCabsStmt() {}

func (Default) implCabsNode() {}
func (Default) implCabsStmt() {}

func (Block) implCabsNode() {}
func (Block) implCabsStmt() {}

func (Computation) implCabsNode() {}
func (Computation) implCabsStmt() {}

func (If) implCabsNode() {}
func (If) implCabsStmt() {}

func (Switch) implCabsNode() {}
func (Switch) implCabsStmt() {}

func (While) implCabsNode() {}
func (While) implCabsStmt() {}

func (DoWhile) implCabsNode() {}
func (DoWhile) implCabsStmt() {}

func (For) implCabsNode() {}
func (For) implCabsStmt() {}

func (Goto) implCabsNode() {}
func (Goto) implCabsStmt() {}

func (Continue) implCabsNode() {}
func (Continue) implCabsStmt() {}

func (Break) implCabsNode() {}
func (Break) implCabsStmt() {}

func (Return) implCabsNode() {}
func (Return) implCabsStmt() {}

func (Constant) implCabsNode() {}
func (Constant) implCabsExpr() {}

func (StringLit) implCabsNode() {}
func (StringLit) implCabsExpr() {}

func (Variable) implCabsNode() {}
func (Variable) implCabsExpr() {}

func (Paren) implCabsNode() {}
func (Paren) implCabsExpr() {}

func (Unary) implCabsNode() {}
func (Unary) implCabsExpr() {}

func (SizeofExpr) implCabsNode() {}
func (SizeofExpr) implCabsExpr() {}

func (SizeofType) implCabsNode() {}
func (SizeofType) implCabsExpr() {}

func (Cast) implCabsNode() {}
func (Cast) implCabsExpr() {}

func (Binary) implCabsNode() {}
func (Binary) implCabsExpr() {}

func (Assign) implCabsNode() {}
func (Assign) implCabsExpr() {}

func (Conditional) implCabsNode() {}
func (Conditional) implCabsExpr() {}

func (Comma) implCabsNode() {}
func (Comma) implCabsExpr() {}

func (Call) implCabsNode() {}
func (Call) implCabsExpr() {}

func (Index) implCabsNode() {}
func (Index) implCabsExpr() {}

func (Member) implCabsNode() {}
func (Member) implCabsExpr() {}

func (CompoundLiteral) implCabsNode() {}
func (CompoundLiteral) implCabsExpr() {}

func (SingleInit) implCabsNode()   {}
func (SingleInit) implInitializer() {}

func (ListInit) implCabsNode()   {}
func (ListInit) implInitializer() {}

func (ArrayDesignator) implCabsNode()   {}
func (ArrayDesignator) implDesignator() {}

func (MemberDesignator) implCabsNode()   {}
func (MemberDesignator) implDesignator() {}
