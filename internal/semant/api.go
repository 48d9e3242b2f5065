package semant

import "github.com/tigerlang/tigerc/internal/syntax"

// Bind wraps the program rooted at root in a synthesized top-level main
// function returning int 0, resolves every name in it and returns it.
// Downstream passes rely on the resulting invariant that all code lives
// inside a function.
//
// The first fatal error aborts binding. The returned error is the first
// one reported, which for a redeclaration is the redeclaration line rather
// than its previous-declaration note; every reported error also reaches
// errh.
func Bind(root syntax.Expr, errh ErrorHandler) (main *syntax.FunDecl, err error) {
	body := syntax.NewSeq(root.Pos(), []syntax.Expr{root, syntax.NewIntLit(syntax.NoPos, 0)})
	main = syntax.NewFunDecl(syntax.NoPos, syntax.Intern("main"), nil, syntax.Intern("int"), body, true)

	b := newBinder(errh)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = b.first
		}
	}()

	b.funDecl(main)
	return main, nil
}

// Check type-checks a bound program. Re-checking an already typed program
// is a no-op.
func Check(main *syntax.FunDecl, errh ErrorHandler) (err error) {
	c := newChecker(errh)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = c.first
		}
	}()

	c.funDecl(main)
	return nil
}

// Analyze runs Bind then Check on the program rooted at root.
func Analyze(root syntax.Expr, errh ErrorHandler) (*syntax.FunDecl, error) {
	main, err := Bind(root, errh)
	if err != nil {
		return nil, err
	}
	if err := Check(main, errh); err != nil {
		return nil, err
	}
	return main, nil
}
