package semant

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/rtabi"
	"github.com/tigerlang/tigerc/internal/syntax"
)

// Binder resolves every identifier and call to its declaration, records
// static nesting depths, flags variables captured by deeper functions, and
// assigns each function a globally unique external name.
type Binder struct {
	reporter

	scopes scopeStack

	// functions is the stack of function declarations being visited;
	// declared collects, per entry, the variables declared directly in
	// that function, in declaration order.
	functions []*syntax.FunDecl
	declared  [][]*syntax.VarDecl

	// currLoop is the innermost loop of the current function, nil outside
	// any loop. Cleared around declaration groups so break never crosses a
	// function boundary.
	currLoop syntax.Loop

	// taken holds the external names already assigned.
	taken map[string]bool
}

func newBinder(errh ErrorHandler) *Binder {
	b := &Binder{
		reporter: reporter{errh: errh},
		taken:    make(map[string]bool),
	}

	// Top-level scope, prepopulated with the runtime primitives.
	b.scopes.push()
	for _, prim := range rtabi.Primitives() {
		b.enterPrimitive(prim)
	}
	return b
}

// enterPrimitive declares a runtime primitive in the current scope as an
// external function with its __-prefixed link name.
func (b *Binder) enterPrimitive(prim rtabi.Primitive) {
	params := make([]*syntax.VarDecl, len(prim.Params))
	for i, kind := range prim.Params {
		name := syntax.Intern(fmt.Sprintf("a_%d", i))
		params[i] = syntax.NewVarDecl(syntax.NoPos, name, syntax.Intern(kind.String()), nil)
	}

	var typeName *syntax.Symbol
	if prim.Result != rtabi.KindVoid {
		typeName = syntax.Intern(prim.Result.String())
	}

	fd := syntax.NewFunDecl(syntax.NoPos, syntax.Intern(prim.Name), params, typeName, nil, true)
	fd.ExternalName = syntax.Intern(prim.LinkName())
	b.enter(fd)
}

// enter declares d in the current scope. Declaring a name twice in the
// same scope reports the redeclaration together with the previous
// declaration's location and aborts.
func (b *Binder) enter(d syntax.Decl) {
	if prev := b.scopes.insert(d.Name(), d); prev != nil {
		b.softErrorf(d.Pos(), "%s is already defined in this scope", d.Name())
		b.errorf(prev.Pos(), "previous declaration was here")
	}
}

// find returns the declaration bound to name, walking the scope stack
// innermost-first. Unbound names are fatal.
func (b *Binder) find(pos syntax.Pos, name *syntax.Symbol) syntax.Decl {
	d := b.scopes.lookup(name)
	if d == nil {
		b.errorf(pos, "%s cannot be found in this scope", name)
	}
	return d
}

// depth returns the current static nesting depth: the number of function
// declarations entered so far.
func (b *Binder) depth() int { return len(b.functions) }

// ----------------------------------------------------------------------------
// Expressions

func (b *Binder) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.IntLit, *syntax.StrLit:
		// nothing to resolve

	case *syntax.BinaryExpr:
		b.expr(e.Left)
		b.expr(e.Right)

	case *syntax.SeqExpr:
		for _, x := range e.List {
			b.expr(x)
		}

	case *syntax.IfExpr:
		b.expr(e.Cond)
		b.expr(e.Then)
		b.expr(e.Else)

	case *syntax.LetExpr:
		b.letExpr(e)

	case *syntax.Ident:
		b.ident(e)

	case *syntax.AssignExpr:
		b.expr(e.LHS)
		b.expr(e.RHS)

	case *syntax.WhileExpr:
		b.expr(e.Cond)
		saved := b.currLoop
		b.currLoop = e
		b.expr(e.Body)
		b.currLoop = saved

	case *syntax.ForExpr:
		b.expr(e.High)
		b.scopes.push()
		b.varDecl(e.Var)
		saved := b.currLoop
		b.currLoop = e
		b.expr(e.Body)
		b.currLoop = saved
		b.scopes.pop()

	case *syntax.BreakExpr:
		if b.currLoop == nil {
			b.errorf(e.Pos(), "break used outside of a loop")
		}
		e.Target = b.currLoop

	case *syntax.CallExpr:
		b.call(e)

	default:
		panic(fmt.Sprintf("semant.Binder.expr: unhandled %T", e))
	}
}

// letExpr binds a let-block. Declarations are processed in order, except
// that a maximal run of consecutive function declarations forms a mutually
// recursive group: all headers enter the scope before any body is visited.
// The current loop is cleared while binding declarations and restored for
// the body sequence, so break cannot escape a nested function but still
// works in a let nested inside a loop.
func (b *Binder) letExpr(e *syntax.LetExpr) {
	b.scopes.push()
	saved := b.currLoop
	b.currLoop = nil

	for i := 0; i < len(e.Decls); i++ {
		switch d := e.Decls[i].(type) {
		case *syntax.VarDecl:
			b.varDecl(d)

		case *syntax.FunDecl:
			j := i
			for j < len(e.Decls) {
				fd, ok := e.Decls[j].(*syntax.FunDecl)
				if !ok {
					break
				}
				b.enter(fd)
				j++
			}
			for k := i; k < j; k++ {
				b.funDecl(e.Decls[k].(*syntax.FunDecl))
			}
			i = j - 1

		default:
			panic(fmt.Sprintf("semant.Binder.letExpr: unhandled %T", d))
		}
	}

	b.currLoop = saved
	b.expr(e.Body)
	b.scopes.pop()
}

// ident resolves a variable use and performs escape detection: a use at a
// strictly greater depth than its declaration flags the variable.
func (b *Binder) ident(id *syntax.Ident) {
	d := b.find(id.Pos(), id.Sym)
	vd, ok := d.(*syntax.VarDecl)
	if !ok {
		b.errorf(id.Pos(), "%s is a function, not a variable", id.Sym)
	}

	id.Decl = vd
	id.Depth = b.depth()
	if vd.Depth < id.Depth {
		vd.Escapes = true
	}
}

// call resolves a function call to its declaration.
func (b *Binder) call(c *syntax.CallExpr) {
	d := b.find(c.Pos(), c.Func)
	fd, ok := d.(*syntax.FunDecl)
	if !ok {
		b.errorf(c.Pos(), "%s is a variable, not a function", c.Func)
	}

	c.Decl = fd
	c.Depth = b.depth()

	for _, arg := range c.Args {
		b.expr(arg)
	}
}

// ----------------------------------------------------------------------------
// Declarations

// varDecl binds a variable declaration. The initializer is visited before
// the name enters the scope, so "var x := x" refers to an outer x.
func (b *Binder) varDecl(d *syntax.VarDecl) {
	if d.Init != nil {
		b.expr(d.Init)
	}
	b.enter(d)
	d.Depth = b.depth()

	if n := len(b.declared); n > 0 {
		b.declared[n-1] = append(b.declared[n-1], d)
	}
}

// funDecl binds a function declaration: parent link and external name,
// depth, parameters, then the body in a fresh scope. On exit the function's
// escaping declarations are collected in declaration order.
func (b *Binder) funDecl(d *syntax.FunDecl) {
	b.setParentAndExternalName(d)

	d.Depth = len(b.functions)
	b.functions = append(b.functions, d)
	b.declared = append(b.declared, nil)

	b.scopes.push()
	for _, param := range d.Params {
		b.varDecl(param)
	}

	saved := b.currLoop
	b.currLoop = nil
	if d.Body != nil {
		b.expr(d.Body)
	}
	b.currLoop = saved
	b.scopes.pop()

	vars := b.declared[len(b.declared)-1]
	d.Escaping = nil
	for _, v := range vars {
		if v.Escapes {
			d.Escaping = append(d.Escaping, v)
		}
	}

	b.functions = b.functions[:len(b.functions)-1]
	b.declared = b.declared[:len(b.declared)-1]
}

// setParentAndExternalName links d to its enclosing function and computes
// its unique external name: the parent's external name, a dot and the local
// name, with underscores appended until the name is unused.
func (b *Binder) setParentAndExternalName(d *syntax.FunDecl) {
	var name string
	if n := len(b.functions); n > 0 {
		d.Parent = b.functions[n-1]
		name = d.Parent.ExternalName.String() + "." + d.Sym.String()
	} else {
		name = d.Sym.String()
	}

	for b.taken[name] {
		name += "_"
	}
	b.taken[name] = true
	d.ExternalName = syntax.Intern(name)
}
