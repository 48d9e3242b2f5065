package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll scans src to EOF and returns the token stream.
func scanAll(t *testing.T, src string) ([]token, []string) {
	t.Helper()
	var errs []string
	s := newScanner("test.tig", strings.NewReader(src), func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})

	var toks []token
	for {
		s.next()
		if s.tok == _EOF {
			break
		}
		toks = append(toks, s.tok)
		if len(toks) > 1000 {
			t.Fatal("scanner does not terminate")
		}
	}
	return toks, errs
}

func TestScanTokens(t *testing.T) {
	toks, errs := scanAll(t, `let var x := 1 in x + 2 end`)
	require.Empty(t, errs)
	assert.Equal(t, []token{
		_Let, _Var, _Name, _Assign, _Int, _In, _Name, _Add, _Int, _End,
	}, toks)
}

func TestScanOperators(t *testing.T) {
	toks, errs := scanAll(t, `+ - * / = <> < <= > >= := ( ) , ; :`)
	require.Empty(t, errs)
	assert.Equal(t, []token{
		_Add, _Sub, _Mul, _Div, _Eq, _Neq, _Lt, _Leq, _Gt, _Geq,
		_Assign, _Lparen, _Rparen, _Comma, _Semi, _Colon,
	}, toks)
}

func TestScanKeywordsAndNames(t *testing.T) {
	toks, errs := scanAll(t, `while whilex function functions break breaker`)
	require.Empty(t, errs)
	assert.Equal(t, []token{
		_While, _Name, _Function, _Name, _Break, _Name,
	}, toks)
}

func TestScanIntLiteral(t *testing.T) {
	var errs []string
	s := newScanner("test.tig", strings.NewReader("42"), func(pos Pos, msg string) {
		errs = append(errs, msg)
	})
	s.next()
	require.Empty(t, errs)
	require.Equal(t, _Int, s.tok)
	assert.Equal(t, int64(42), s.val)
}

func TestScanIntOverflow(t *testing.T) {
	_, errs := scanAll(t, "2147483648")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "out of range")
}

func TestScanString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote \" backslash \\"`, `quote " backslash \`},
		{`"\065\066"`, "AB"},
	}

	for _, tt := range tests {
		var errs []string
		s := newScanner("test.tig", strings.NewReader(tt.src), func(pos Pos, msg string) {
			errs = append(errs, msg)
		})
		s.next()
		require.Empty(t, errs, "scanning %s", tt.src)
		require.Equal(t, _String, s.tok)
		assert.Equal(t, tt.want, s.lit, "scanning %s", tt.src)
	}
}

func TestScanStringErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"\"unterminated\n\"", "not terminated"},
		{`"\q"`, "unknown escape"},
		{`"\300"`, "out of range"},
	}

	for _, tt := range tests {
		_, errs := scanAll(t, tt.src)
		require.NotEmpty(t, errs, "scanning %q", tt.src)
		assert.Contains(t, errs[0], tt.want, "scanning %q", tt.src)
	}
}

func TestScanComments(t *testing.T) {
	toks, errs := scanAll(t, "1 /* comment */ 2")
	require.Empty(t, errs)
	assert.Equal(t, []token{_Int, _Int}, toks)
}

func TestScanNestedComments(t *testing.T) {
	toks, errs := scanAll(t, "1 /* outer /* inner */ still outer */ 2")
	require.Empty(t, errs)
	assert.Equal(t, []token{_Int, _Int}, toks)
}

func TestScanUnterminatedComment(t *testing.T) {
	_, errs := scanAll(t, "1 /* no end")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "comment not terminated")
}

func TestScanPositions(t *testing.T) {
	var errs []string
	s := newScanner("f.tig", strings.NewReader("a\n  b"), func(pos Pos, msg string) {
		errs = append(errs, msg)
	})

	s.next()
	assert.Equal(t, "f.tig:1:1", s.tokPos.String())
	s.next()
	assert.Equal(t, "f.tig:2:3", s.tokPos.String())
	require.Empty(t, errs)
}
