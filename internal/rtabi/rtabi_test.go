package rtabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveTable(t *testing.T) {
	prims := Primitives()
	require.Len(t, prims, 14)

	seen := make(map[string]bool)
	for _, p := range prims {
		assert.False(t, seen[p.Name], "duplicate primitive %s", p.Name)
		seen[p.Name] = true
		assert.Equal(t, "__"+p.Name, p.LinkName())
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("substring")
	require.True(t, ok)
	assert.Equal(t, KindString, p.Result)
	assert.Equal(t, []Kind{KindString, KindInt, KindInt}, p.Params)

	_, ok = Lookup("malloc")
	assert.False(t, ok)
}

func TestStrcmpSignature(t *testing.T) {
	p, ok := Lookup("strcmp")
	require.True(t, ok)
	assert.Equal(t, KindInt, p.Result)
	assert.Equal(t, []Kind{KindString, KindString}, p.Params)
}

func TestKindCTypes(t *testing.T) {
	assert.Equal(t, "int32_t", KindInt.CType())
	assert.Equal(t, "const char *", KindString.CType())
	assert.Equal(t, "void", KindVoid.CType())
}
