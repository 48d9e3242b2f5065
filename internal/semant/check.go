package semant

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/syntax"
	"github.com/tigerlang/tigerc/internal/types"
)

// Checker assigns a type to every expression of a bound AST and enforces
// the typing rules. It needs no scopes: the binder already linked every use
// to its declaration.
//
// Function declarations are checked lazily and at most once (a declaration
// whose result is no longer undef is skipped), which makes the pass
// re-entrant over mutually recursive groups.
type Checker struct {
	reporter
}

func newChecker(errh ErrorHandler) *Checker {
	return &Checker{reporter: reporter{errh: errh}}
}

// expr checks e, records its type on the node and returns it.
func (c *Checker) expr(e syntax.Expr) types.Ty {
	var t types.Ty

	switch e := e.(type) {
	case *syntax.IntLit:
		t = types.Int

	case *syntax.StrLit:
		t = types.String

	case *syntax.BinaryExpr:
		t = c.binary(e)

	case *syntax.SeqExpr:
		t = types.Void
		for _, x := range e.List {
			t = c.expr(x)
		}

	case *syntax.IfExpr:
		if c.expr(e.Cond) != types.Int {
			c.errorf(e.Cond.Pos(), "if condition must be int")
		}
		thenTy := c.expr(e.Then)
		elseTy := c.expr(e.Else)
		if thenTy != elseTy {
			c.errorf(e.Pos(), "if branches have incompatible types %s and %s", thenTy, elseTy)
		}
		t = thenTy

	case *syntax.LetExpr:
		for _, d := range e.Decls {
			c.decl(d)
		}
		t = c.expr(e.Body)

	case *syntax.Ident:
		t = e.Decl.Ty
		if t == types.Undef {
			c.errorf(e.Pos(), "%s is used before its type is known", e.Sym)
		}

	case *syntax.AssignExpr:
		lhs := c.expr(e.LHS)
		rhs := c.expr(e.RHS)
		if lhs != rhs {
			c.errorf(e.Pos(), "cannot assign %s to a %s variable", rhs, lhs)
		}
		t = types.Void

	case *syntax.WhileExpr:
		if c.expr(e.Cond) != types.Int {
			c.errorf(e.Cond.Pos(), "while condition must be int")
		}
		if c.expr(e.Body) != types.Void {
			c.errorf(e.Body.Pos(), "while body must produce no value")
		}
		t = types.Void

	case *syntax.ForExpr:
		if c.expr(e.High) != types.Int {
			c.errorf(e.High.Pos(), "for bound must be int")
		}
		c.varDecl(e.Var)
		if e.Var.Ty != types.Int {
			c.errorf(e.Var.Pos(), "for induction variable must be int")
		}
		if c.expr(e.Body) != types.Void {
			c.errorf(e.Body.Pos(), "for body must produce no value")
		}
		t = types.Void

	case *syntax.BreakExpr:
		t = types.Void

	case *syntax.CallExpr:
		t = c.call(e)

	default:
		panic(fmt.Sprintf("semant.Checker.expr: unhandled %T", e))
	}

	e.SetType(t)
	return t
}

// binary checks a binary operation. Operands must share a type: ints admit
// every operator, strings only comparisons, void only equality. The result
// is always int.
func (c *Checker) binary(e *syntax.BinaryExpr) types.Ty {
	l := c.expr(e.Left)
	r := c.expr(e.Right)

	if l != r {
		c.errorf(e.Pos(), "operands of %s have mismatched types %s and %s", e.Op, l, r)
	}

	switch l {
	case types.Int:
		// all operators

	case types.String:
		if !e.Op.IsComparison() {
			c.errorf(e.Pos(), "operator %s is not defined on strings", e.Op)
		}

	case types.Void:
		if e.Op != syntax.OpEq {
			c.errorf(e.Pos(), "operator %s is not defined on valueless operands", e.Op)
		}

	default:
		c.errorf(e.Pos(), "operands of %s have no type", e.Op)
	}

	return types.Int
}

// call checks a function call, lazily checking the callee declaration
// first so mutually recursive groups work in any order.
func (c *Checker) call(e *syntax.CallExpr) types.Ty {
	fd := e.Decl
	c.funDecl(fd)

	if len(e.Args) != len(fd.Params) {
		c.errorf(e.Pos(), "%s expects %d arguments, got %d", e.Func, len(fd.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		argTy := c.expr(arg)
		if argTy != fd.Params[i].Ty {
			c.errorf(arg.Pos(), "argument %d of %s must be %s, got %s",
				i+1, e.Func, fd.Params[i].Ty, argTy)
		}
	}

	return fd.Result
}

// ----------------------------------------------------------------------------
// Declarations

func (c *Checker) decl(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.VarDecl:
		c.varDecl(d)
	case *syntax.FunDecl:
		c.funDecl(d)
	default:
		panic(fmt.Sprintf("semant.Checker.decl: unhandled %T", d))
	}
}

// varDecl checks a variable declaration. An explicit type name must denote
// int or string; an initializer must not be void and must agree with the
// explicit type; at least one of the two must be present.
func (c *Checker) varDecl(d *syntax.VarDecl) {
	declared := types.Undef
	if d.TypeName != nil {
		declared = types.Lookup(d.TypeName.String())
		if declared == types.Undef {
			c.errorf(d.Pos(), "%s does not name a type", d.TypeName)
		}
	}

	inferred := types.Undef
	if d.Init != nil {
		inferred = c.expr(d.Init)
		if inferred == types.Void {
			c.errorf(d.Init.Pos(), "initializer of %s produces no value", d.Sym)
		}
	}

	switch {
	case declared == types.Undef && inferred == types.Undef:
		c.errorf(d.Pos(), "%s needs a type or an initializer", d.Sym)
	case declared != types.Undef && inferred != types.Undef && declared != inferred:
		c.errorf(d.Pos(), "%s is declared %s but initialized with %s", d.Sym, declared, inferred)
	case declared != types.Undef:
		d.Ty = declared
	default:
		d.Ty = inferred
	}
}

// funDecl checks a function declaration once. The result type is recorded
// before the body is visited so recursive calls resolve; a missing result
// annotation means the function produces no value.
func (c *Checker) funDecl(d *syntax.FunDecl) {
	if d.Result != types.Undef {
		return
	}

	for _, param := range d.Params {
		c.varDecl(param)
	}

	result := types.Void
	if d.TypeName != nil {
		result = types.Lookup(d.TypeName.String())
		if result == types.Undef {
			c.errorf(d.Pos(), "%s does not name a type", d.TypeName)
		}
	}
	d.Result = result

	if d.Body != nil {
		bodyTy := c.expr(d.Body)
		if bodyTy != d.Result {
			c.errorf(d.Pos(), "body of %s has type %s, declared %s", d.Sym, bodyTy, d.Result)
		}
	}
}
