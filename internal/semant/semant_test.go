package semant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tigerlang/tigerc/internal/syntax"
)

// parse parses src, failing the test on syntax errors.
func parse(t *testing.T, src string) syntax.Expr {
	t.Helper()
	var errs []string
	p := syntax.NewParser("test.tig", strings.NewReader(src), func(pos syntax.Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})
	root := p.Parse()
	require.Empty(t, errs, "syntax errors in %q", src)
	return root
}

// bind parses and binds src, failing the test on any error.
func bind(t *testing.T, src string) *syntax.FunDecl {
	t.Helper()
	main, err := Bind(parse(t, src), nil)
	require.NoError(t, err)
	return main
}

// analyze parses, binds and type-checks src, failing the test on any error.
func analyze(t *testing.T, src string) *syntax.FunDecl {
	t.Helper()
	main, err := Analyze(parse(t, src), nil)
	require.NoError(t, err)
	return main
}

// bindErrs parses src and returns the errors reported while binding.
func bindErrs(t *testing.T, src string) []string {
	t.Helper()
	var errs []string
	Bind(parse(t, src), func(pos syntax.Pos, msg string) {
		errs = append(errs, msg)
	})
	return errs
}

// checkErrs parses and binds src, then returns the errors reported by the
// type checker. Binding must succeed.
func checkErrs(t *testing.T, src string) []string {
	t.Helper()
	main, err := Bind(parse(t, src), nil)
	require.NoError(t, err)

	var errs []string
	Check(main, func(pos syntax.Pos, msg string) {
		errs = append(errs, msg)
	})
	return errs
}

// expectErrors asserts that errs contains every substring of want.
func expectErrors(t *testing.T, errs []string, want ...string) {
	t.Helper()
	require.NotEmpty(t, errs, "expected errors containing %v", want)
	all := strings.Join(errs, "\n")
	for _, w := range want {
		require.Contains(t, all, w)
	}
}

// letDecls returns the declarations of the outermost let of main's body.
func letDecls(t *testing.T, main *syntax.FunDecl) []syntax.Decl {
	t.Helper()
	seq, ok := main.Body.(*syntax.SeqExpr)
	require.True(t, ok)
	let, ok := seq.List[0].(*syntax.LetExpr)
	require.True(t, ok)
	return let.Decls
}
