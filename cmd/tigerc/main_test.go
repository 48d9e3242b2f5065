package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// write saves src as a .tig file in a temp dir and returns its path.
func write(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.tig")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func compileString(t *testing.T, src string, opts *options) (string, error) {
	t.Helper()
	var sb strings.Builder
	err := compile(write(t, src), opts, &sb)
	return sb.String(), err
}

func TestCompileEmitIR(t *testing.T) {
	out, err := compileString(t, `let var x: int := 1 in x + 2 end`, &options{})
	require.NoError(t, err)
	assert.Contains(t, out, "func main() i32:")
}

func TestCompileEmitLL(t *testing.T) {
	out, err := compileString(t, `print("hi")`, &options{emitLL: true})
	require.NoError(t, err)
	assert.Contains(t, out, "define i32 @main()")
	assert.Contains(t, out, "declare void @__print(ptr)")
}

func TestCompileStopAfterBinding(t *testing.T) {
	out, err := compileString(t, `let var x := 1 in x end`, &options{bindOnly: true})
	require.NoError(t, err)
	assert.Contains(t, out, "function main")
	assert.Contains(t, out, "var x depth=1")
	// Binding stops before types are assigned.
	assert.NotContains(t, out, ": int")
}

func TestCompileStopAfterTyping(t *testing.T) {
	out, err := compileString(t, `let var x := 1 in x end`, &options{typeOnly: true})
	require.NoError(t, err)
	assert.Contains(t, out, ": int")
}

func TestCompileEmitAST(t *testing.T) {
	out, err := compileString(t, `1 + 2`, &options{emitAST: true})
	require.NoError(t, err)
	assert.Contains(t, out, "binop +")
	// The raw AST is not wrapped in main.
	assert.NotContains(t, out, "function main")
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := compileString(t, `let var := 1 in end`, &options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestCompileBindError(t *testing.T) {
	_, err := compileString(t, `y + 1`, &options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding")
}

func TestCompileTypeError(t *testing.T) {
	_, err := compileString(t, `1 + "a"`, &options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type checking")
}

func TestCompileMissingFile(t *testing.T) {
	err := compile(filepath.Join(t.TempDir(), "nope.tig"), &options{}, &strings.Builder{})
	require.Error(t, err)
}
