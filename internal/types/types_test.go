package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsUndef(t *testing.T) {
	var ty Ty
	assert.Equal(t, Undef, ty)
	assert.False(t, ty.IsValue())
}

func TestString(t *testing.T) {
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "void", Void.String())
	assert.Equal(t, "undef", Undef.String())
}

func TestLookup(t *testing.T) {
	assert.Equal(t, Int, Lookup("int"))
	assert.Equal(t, String, Lookup("string"))
	assert.Equal(t, Undef, Lookup("void"))
	assert.Equal(t, Undef, Lookup("bogus"))
}
