package semant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerlang/tigerc/internal/syntax"
)

func TestBindWrapsMain(t *testing.T) {
	main := bind(t, "1 + 2")

	assert.Same(t, syntax.Intern("main"), main.Sym)
	assert.Same(t, syntax.Intern("main"), main.ExternalName)
	assert.True(t, main.External)
	assert.Equal(t, 0, main.Depth)
	assert.Nil(t, main.Parent)

	// The body is the program followed by the constant 0.
	body, ok := main.Body.(*syntax.SeqExpr)
	require.True(t, ok)
	require.Len(t, body.List, 2)
	zero, ok := body.List[1].(*syntax.IntLit)
	require.True(t, ok)
	assert.Equal(t, int32(0), zero.Value)
}

func TestBindDepthsAndEscape(t *testing.T) {
	main := bind(t, `let var x := 1 function f(): int = x in f() end`)

	decls := letDecls(t, main)
	x := decls[0].(*syntax.VarDecl)
	f := decls[1].(*syntax.FunDecl)

	// x is declared directly inside main.
	assert.Equal(t, 1, x.Depth)
	assert.True(t, x.Escapes, "x is referenced from f, one level deeper")
	assert.Equal(t, []*syntax.VarDecl{x}, main.Escaping)

	assert.Equal(t, 1, f.Depth)
	assert.Same(t, main, f.Parent)
	assert.Same(t, syntax.Intern("main.f"), f.ExternalName)

	// The use of x inside f is at depth 2.
	use := f.Body.(*syntax.Ident)
	assert.Same(t, x, use.Decl)
	assert.Equal(t, 2, use.Depth)
}

func TestBindNoEscapeAtSameDepth(t *testing.T) {
	main := bind(t, `let var x: int := 1 in x + 2 end`)

	x := letDecls(t, main)[0].(*syntax.VarDecl)
	assert.False(t, x.Escapes)
	assert.Empty(t, main.Escaping)
}

func TestBindParamsEscapeLikeLocals(t *testing.T) {
	main := bind(t, `
		let
		  function f(n: int): int =
		    let function g(): int = n
		    in g() end
		in f(1) end`)

	f := letDecls(t, main)[0].(*syntax.FunDecl)
	n := f.Params[0]
	assert.Equal(t, 2, n.Depth)
	assert.True(t, n.Escapes)
	assert.Equal(t, []*syntax.VarDecl{n}, f.Escaping)
}

func TestBindEscapingOrderIsDeclarationOrder(t *testing.T) {
	main := bind(t, `
		let
		  var a := 1
		  var b := 2
		  var c := 3
		  function f(): int = c + a
		in f() end`)

	// a and c escape; the escaping list follows declaration order, not
	// first-use order.
	decls := letDecls(t, main)
	a := decls[0].(*syntax.VarDecl)
	c := decls[2].(*syntax.VarDecl)
	assert.Equal(t, []*syntax.VarDecl{a, c}, main.Escaping)
}

func TestBindExternalNameCollision(t *testing.T) {
	main := bind(t, `
		(let function f() = () in f() end;
		 let function f(): int = 1 in f() end)`)

	seq := main.Body.(*syntax.SeqExpr).List[0].(*syntax.SeqExpr)
	first := seq.List[0].(*syntax.LetExpr).Decls[0].(*syntax.FunDecl)
	second := seq.List[1].(*syntax.LetExpr).Decls[0].(*syntax.FunDecl)

	assert.Same(t, syntax.Intern("main.f"), first.ExternalName)
	assert.Same(t, syntax.Intern("main.f_"), second.ExternalName)
}

func TestBindNestedExternalNames(t *testing.T) {
	main := bind(t, `
		let
		  function outer(): int =
		    let function inner(): int = 1
		    in inner() end
		in outer() end`)

	outer := letDecls(t, main)[0].(*syntax.FunDecl)
	inner := outer.Body.(*syntax.LetExpr).Decls[0].(*syntax.FunDecl)

	assert.Same(t, syntax.Intern("main.outer"), outer.ExternalName)
	assert.Same(t, syntax.Intern("main.outer.inner"), inner.ExternalName)
	assert.Same(t, outer, inner.Parent)
	assert.Equal(t, 2, inner.Depth)
}

func TestBindPrimitives(t *testing.T) {
	main := bind(t, `print_int(size("hi"))`)

	call := main.Body.(*syntax.SeqExpr).List[0].(*syntax.CallExpr)
	require.NotNil(t, call.Decl)
	assert.True(t, call.Decl.External)
	assert.Same(t, syntax.Intern("__print_int"), call.Decl.ExternalName)
	assert.Equal(t, 1, call.Depth)
}

func TestBindShadowing(t *testing.T) {
	main := bind(t, `
		let var x := 1
		in
		  let var x := 2 in x end;
		  x
		end`)

	outerLet := main.Body.(*syntax.SeqExpr).List[0].(*syntax.LetExpr)
	outerX := outerLet.Decls[0].(*syntax.VarDecl)
	innerLet := outerLet.Body.List[0].(*syntax.LetExpr)
	innerX := innerLet.Decls[0].(*syntax.VarDecl)

	innerUse := innerLet.Body.List[0].(*syntax.Ident)
	outerUse := outerLet.Body.List[1].(*syntax.Ident)
	assert.Same(t, innerX, innerUse.Decl)
	assert.Same(t, outerX, outerUse.Decl)
}

func TestBindInitializerSeesOuterScope(t *testing.T) {
	// The initializer is visited before the name enters the scope, so the
	// inner "var x := x" reads the outer x.
	main := bind(t, `
		let var x := 1
		in let var x := x in x end
		end`)

	outerLet := main.Body.(*syntax.SeqExpr).List[0].(*syntax.LetExpr)
	outerX := outerLet.Decls[0].(*syntax.VarDecl)
	innerX := outerLet.Body.List[0].(*syntax.LetExpr).Decls[0].(*syntax.VarDecl)

	init := innerX.Init.(*syntax.Ident)
	assert.Same(t, outerX, init.Decl)
}

func TestBindBreakTargets(t *testing.T) {
	main := bind(t, `while 1 do (if 1 then break else ())`)

	loop := main.Body.(*syntax.SeqExpr).List[0].(*syntax.WhileExpr)
	brk := loop.Body.(*syntax.IfExpr).Then.(*syntax.BreakExpr)
	assert.Same(t, loop, brk.Target)
}

func TestBindBreakInnermostLoop(t *testing.T) {
	main := bind(t, `while 1 do (for i := 0 to 9 do break)`)

	outer := main.Body.(*syntax.SeqExpr).List[0].(*syntax.WhileExpr)
	inner := outer.Body.(*syntax.ForExpr)
	brk := inner.Body.(*syntax.BreakExpr)
	assert.Same(t, syntax.Loop(inner), brk.Target)
}

func TestBindBreakInLetBodyInsideLoop(t *testing.T) {
	// A let nested in a loop body does not hide the loop from its body
	// sequence; only declarations lose it.
	main := bind(t, `while 1 do (let var x := 1 in break end)`)

	loop := main.Body.(*syntax.SeqExpr).List[0].(*syntax.WhileExpr)
	let := loop.Body.(*syntax.LetExpr)
	brk := let.Body.List[0].(*syntax.BreakExpr)
	assert.Same(t, syntax.Loop(loop), brk.Target)
}

func TestBindMutualRecursionHeaders(t *testing.T) {
	main := bind(t, `
		let
		  function even(n: int): int = if n = 0 then 1 else odd(n - 1)
		  function odd(n: int): int = if n = 0 then 0 else even(n - 1)
		in even(10) end`)

	decls := letDecls(t, main)
	even := decls[0].(*syntax.FunDecl)
	odd := decls[1].(*syntax.FunDecl)

	oddCall := even.Body.(*syntax.IfExpr).Else.(*syntax.CallExpr)
	evenCall := odd.Body.(*syntax.IfExpr).Else.(*syntax.CallExpr)
	assert.Same(t, odd, oddCall.Decl)
	assert.Same(t, even, evenCall.Decl)
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "unbound variable",
			src:  `y`,
			want: []string{"y cannot be found in this scope"},
		},
		{
			name: "unbound function",
			src:  `f()`,
			want: []string{"f cannot be found in this scope"},
		},
		{
			name: "redeclaration",
			src:  `let var x := 1 var x := 2 in x end`,
			want: []string{"x is already defined in this scope", "previous declaration was here"},
		},
		{
			name: "break at top level",
			src:  `break`,
			want: []string{"break used outside of a loop"},
		},
		{
			name: "break does not cross function boundaries",
			src:  `while 1 do (let function f() = break in f() end)`,
			want: []string{"break used outside of a loop"},
		},
		{
			name: "calling a variable",
			src:  `let var x := 1 in x() end`,
			want: []string{"x is a variable, not a function"},
		},
		{
			name: "reading a function",
			src:  `let function f() = () in f + 1 end`,
			want: []string{"f is a function, not a variable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrors(t, bindErrs(t, tt.src), tt.want...)
		})
	}
}

func TestBindReturnsFirstError(t *testing.T) {
	_, err := Bind(parse(t, "y"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y cannot be found")
}
