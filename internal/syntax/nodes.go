package syntax

import "github.com/tigerlang/tigerc/internal/types"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are two main classes of nodes: expressions and declarations. Tiger is
// expression-oriented, so loops, conditionals and let-blocks are expressions.
// Later passes decorate nodes in place and never change the tree structure:
// the binder links uses to declarations and records nesting depths and escape
// flags, the type checker records a type on every expression.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first character of the node
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	// Type returns the type recorded by the type checker,
	// types.Undef before checking.
	Type() types.Ty
	// SetType records the expression's type.
	SetType(types.Ty)
	aExpr()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	// Name returns the declared name.
	Name() *Symbol
	aDecl()
}

// Loop is implemented by the two loop forms. Break nodes link to the
// innermost enclosing Loop.
type Loop interface {
	Expr
	aLoop()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (*node) aNode()     {}

type expr struct {
	node
	typ types.Ty // set by the type checker; Undef until then
}

func (e *expr) Type() types.Ty     { return e.typ }
func (e *expr) SetType(t types.Ty) { e.typ = t }
func (*expr) aExpr()               {}

// ----------------------------------------------------------------------------
// Expressions

// IntLit is an integer literal.
type IntLit struct {
	expr
	Value int32
}

// StrLit is a string literal; the decoded text is interned.
type StrLit struct {
	expr
	Value *Symbol
}

// BinaryExpr is a binary operation: Left Op Right.
type BinaryExpr struct {
	expr
	Op    Op
	Left  Expr
	Right Expr
}

// SeqExpr is a parenthesized expression sequence. Its value is the value of
// the last element; the empty sequence has no value.
type SeqExpr struct {
	expr
	List []Expr
}

// IfExpr is a two-armed conditional: if Cond then Then else Else.
// Both arms are mandatory.
type IfExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// LetExpr introduces declarations for the scope of its body sequence:
// let Decls in Body end.
type LetExpr struct {
	expr
	Decls []Decl
	Body  *SeqExpr
}

// Ident is a variable reference.
//
// Binder annotations: Decl is the variable declaration the name resolves to,
// Depth the number of enclosing function declarations at the use site.
type Ident struct {
	expr
	Sym *Symbol

	Decl  *VarDecl
	Depth int
}

// AssignExpr assigns RHS to the variable named by LHS; its value is void.
type AssignExpr struct {
	expr
	LHS *Ident
	RHS Expr
}

// WhileExpr is: while Cond do Body.
type WhileExpr struct {
	expr
	Cond Expr
	Body Expr
}

func (*WhileExpr) aLoop() {}

// ForExpr is: for Var := lo to High do Body. The induction variable is a
// VarDecl whose initializer is the lower bound; it is scoped to the body.
type ForExpr struct {
	expr
	Var  *VarDecl
	High Expr
	Body Expr
}

func (*ForExpr) aLoop() {}

// BreakExpr jumps past the innermost enclosing loop.
//
// Binder annotation: Target is that loop; a break outside any loop (or
// whose loop lies outside the current function) is a bind error.
type BreakExpr struct {
	expr
	Target Loop
}

// CallExpr calls the function named Func with Args.
//
// Binder annotations: Decl is the resolved function declaration, Depth the
// function nesting depth at the call site.
type CallExpr struct {
	expr
	Func *Symbol
	Args []Expr

	Decl  *FunDecl
	Depth int
}

// ----------------------------------------------------------------------------
// Declarations

type decl struct {
	node
}

func (*decl) aDecl() {}

// VarDecl declares a variable: var Name [: TypeName] := Init. Function
// parameters and for-loop induction variables are VarDecls as well
// (parameters have no initializer, induction variables no type name).
//
// Annotations: Ty is set by the type checker; Depth and Escapes by the
// binder. Escapes means some strictly deeper function references the
// variable, so it must live in its frame rather than in a private slot.
type VarDecl struct {
	decl
	Sym      *Symbol
	TypeName *Symbol // nil if inferred from the initializer
	Init     Expr    // nil for parameters

	Ty      types.Ty
	Depth   int
	Escapes bool
}

func (d *VarDecl) Name() *Symbol { return d.Sym }

// FunDecl declares a function: function Name(Params) [: TypeName] = Body.
// The runtime primitives and the synthesized main are External.
//
// Annotations set by the binder: Depth (size of the function stack just
// before the declaration is pushed), Parent (enclosing FunDecl, nil at top
// level), ExternalName (the globally unique dot-qualified link name), and
// Escaping (the declaration-ordered parameters and locals with
// Escapes=true). Result is set by the type checker.
type FunDecl struct {
	decl
	Sym      *Symbol
	Params   []*VarDecl
	TypeName *Symbol // nil defaults to void
	Body     Expr    // nil for primitives
	External bool

	Depth        int
	Parent       *FunDecl
	ExternalName *Symbol
	Escaping     []*VarDecl
	Result       types.Ty
}

func (d *FunDecl) Name() *Symbol { return d.Sym }

// ----------------------------------------------------------------------------
// Construction helpers

// NewIntLit returns an integer literal node at pos. The other node
// constructors follow the same shape; the parser and the binder (its
// program wrapper and primitive declarations) are the only producers of
// nodes.
func NewIntLit(pos Pos, v int32) *IntLit {
	n := &IntLit{Value: v}
	n.pos = pos
	return n
}

// NewSeq returns a sequence node at pos.
func NewSeq(pos Pos, list []Expr) *SeqExpr {
	n := &SeqExpr{List: list}
	n.pos = pos
	return n
}

// NewFunDecl returns a function declaration node at pos.
func NewFunDecl(pos Pos, name *Symbol, params []*VarDecl, typeName *Symbol, body Expr, external bool) *FunDecl {
	d := &FunDecl{Sym: name, Params: params, TypeName: typeName, Body: body, External: external}
	d.pos = pos
	return d
}

// NewVarDecl returns a variable declaration node at pos.
func NewVarDecl(pos Pos, name *Symbol, typeName *Symbol, init Expr) *VarDecl {
	d := &VarDecl{Sym: name, TypeName: typeName, Init: init}
	d.pos = pos
	return d
}
