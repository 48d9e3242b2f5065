// Package rtabi defines the ABI shared between the compiler and the Tiger
// runtime: the primitive functions, their link names and their C-level
// signatures. The binder populates its top-level scope from this table and
// the code emitter derives its extern declarations from it.
package rtabi

// LinkPrefix is prepended to a primitive's Tiger name to form its link name.
const LinkPrefix = "__"

// Kind is a primitive-signature type: the subset of Tiger types that can
// cross the runtime boundary.
type Kind int

const (
	KindVoid   Kind = iota
	KindInt         // int32_t
	KindString      // const char *, NUL-terminated
)

var kindNames = [...]string{
	KindVoid:   "void",
	KindInt:    "int",
	KindString: "string",
}

func (k Kind) String() string { return kindNames[k] }

// CType returns the C spelling of the kind, as declared by the runtime.
func (k Kind) CType() string {
	switch k {
	case KindInt:
		return "int32_t"
	case KindString:
		return "const char *"
	}
	return "void"
}

// Primitive describes one runtime function at the ABI level.
type Primitive struct {
	Name   string // Tiger-level name, e.g. "print_int"
	Result Kind
	Params []Kind
}

// LinkName returns the symbol the generated code links against.
func (p Primitive) LinkName() string { return LinkPrefix + p.Name }

// Primitives returns the runtime functions in their canonical order.
//
// Semantics guaranteed by the runtime: print and print_err append a
// newline, print_int does not. size fails on strings of 2^31 bytes or
// more. substring fails when first < 0, length < 0 or first+length >
// size. chr fails outside [0, 255] and maps 0 to the empty string,
// storing the raw byte otherwise. ord returns -1 on the empty string.
// strcmp normalizes its result to {-1, 0, 1}. Strings returned by chr,
// substring, concat and getchar are never freed.
func Primitives() []Primitive {
	return []Primitive{
		{Name: "print_err", Result: KindVoid, Params: []Kind{KindString}},
		{Name: "print", Result: KindVoid, Params: []Kind{KindString}},
		{Name: "print_int", Result: KindVoid, Params: []Kind{KindInt}},
		{Name: "flush", Result: KindVoid, Params: nil},
		{Name: "getchar", Result: KindString, Params: nil},
		{Name: "ord", Result: KindInt, Params: []Kind{KindString}},
		{Name: "chr", Result: KindString, Params: []Kind{KindInt}},
		{Name: "size", Result: KindInt, Params: []Kind{KindString}},
		{Name: "substring", Result: KindString, Params: []Kind{KindString, KindInt, KindInt}},
		{Name: "concat", Result: KindString, Params: []Kind{KindString, KindString}},
		{Name: "strcmp", Result: KindInt, Params: []Kind{KindString, KindString}},
		{Name: "streq", Result: KindInt, Params: []Kind{KindString, KindString}},
		{Name: "not", Result: KindInt, Params: []Kind{KindInt}},
		{Name: "exit", Result: KindVoid, Params: []Kind{KindInt}},
	}
}

// Lookup returns the primitive with the given Tiger-level name.
func Lookup(name string) (Primitive, bool) {
	for _, p := range Primitives() {
		if p.Name == name {
			return p, true
		}
	}
	return Primitive{}, false
}
