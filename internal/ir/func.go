package ir

import "fmt"

// Param is a function parameter. For nested Tiger functions the first
// parameter is the static link, a pointer to the parent's frame.
type Param struct {
	Name string
	Type Type
}

// Func is an IR function. External functions (the runtime primitives) are
// declarations and have no blocks; everything else carries a CFG whose
// Blocks[0] is the entry block, reserved for allocas.
type Func struct {
	// Name is the function's globally unique external name.
	Name string

	Params []Param
	Result Type // nil for void

	// External marks runtime declarations with no body.
	External bool

	Blocks []*Block
	Entry  *Block

	nextValueID ID
	nextBlockID ID
}

// NewBlock appends a new basic block of the given kind.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a value in block b.
func (f *Func) NewValue(b *Block, op Op, typ Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NumBlocks returns the number of basic blocks.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// Global is a module-level constant string.
type Global struct {
	Name  string // e.g. ".str.0"
	Value string // decoded contents, without the trailing NUL
}

// Module is a complete IR compilation unit: frame struct types, string
// globals, and functions in emission order (main first, then pending
// bodies in registration order, with runtime declarations interleaved at
// first use).
type Module struct {
	Name    string
	Frames  []*Struct
	Globals []*Global
	Funcs   []*Func
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// NewFunc creates a function and appends it to the module.
func (m *Module) NewFunc(name string, params []Param, result Type, external bool) *Func {
	f := &Func{
		Name:     name,
		Params:   params,
		Result:   result,
		External: external,
	}
	m.Funcs = append(m.Funcs, f)
	return f
}

// AddFrame registers a frame struct type with the module.
func (m *Module) AddFrame(s *Struct) {
	m.Frames = append(m.Frames, s)
}

// StringLit returns the global holding value, creating it on first use.
// Identical literals share one global.
func (m *Module) StringLit(value string) *Global {
	for _, g := range m.Globals {
		if g.Value == value {
			return g
		}
	}
	g := &Global{
		Name:  fmt.Sprintf(".str.%d", len(m.Globals)),
		Value: value,
	}
	m.Globals = append(m.Globals, g)
	return g
}

// Lookup returns the function with the given name, or nil.
func (m *Module) Lookup(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
