// Package irgen lowers a bound, typed Tiger AST to the IR. Nested
// functions are hoisted to the top level by closure conversion: every
// function gets a frame record on its stack holding its escaping locals,
// chained to its parent's frame through a static link passed as a hidden
// first argument.
package irgen

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/rtabi"
	"github.com/tigerlang/tigerc/internal/syntax"
	"github.com/tigerlang/tigerc/internal/types"
)

// generator holds the module-wide and per-function lowering state.
type generator struct {
	mod *ir.Module

	// protos maps declarations to their IR functions; frameTypes and
	// framePos record each function's frame record type and each escaping
	// variable's field index within its owner's frame.
	protos     map[*syntax.FunDecl]*ir.Func
	frameTypes map[*syntax.FunDecl]*ir.Struct
	framePos   map[*syntax.VarDecl]int

	// pending queues declarations whose prototypes exist but whose bodies
	// have not been generated yet.
	pending []*syntax.FunDecl

	// Per-function state, reset by genFunc.
	decl     *syntax.FunDecl
	fn       *ir.Func
	frame    *ir.Value
	storage  map[*syntax.VarDecl]*ir.Value
	loopExit map[syntax.Loop]*ir.Block
	b        *ir.Block // current block; nil when the code is unreachable
}

// Generate lowers the program rooted at the binder-synthesized main and
// returns the IR module. Every generated function is verified, including
// dominance of definitions over uses.
func Generate(main *syntax.FunDecl) (*ir.Module, error) {
	g := &generator{
		mod:        ir.NewModule("tiger"),
		protos:     make(map[*syntax.FunDecl]*ir.Func),
		frameTypes: make(map[*syntax.FunDecl]*ir.Struct),
		framePos:   make(map[*syntax.VarDecl]int),
	}

	g.declare(main)
	for len(g.pending) > 0 {
		d := g.pending[0]
		g.pending = g.pending[1:]
		if err := g.genFunc(d); err != nil {
			return nil, err
		}
	}
	return g.mod, nil
}

// lowerType maps a Tiger type to its IR type: int is i32, string a byte
// pointer, void no type at all.
func lowerType(t types.Ty) ir.Type {
	switch t {
	case types.Int:
		return ir.I32
	case types.String:
		return ir.NewPointer(ir.I8)
	case types.Void:
		return nil
	}
	panic(fmt.Sprintf("irgen.lowerType: %s has no lowering", t))
}

// declare registers d's prototype and queues its body for generation. A
// non-external function with a parent takes that parent's frame pointer as
// its first parameter.
func (g *generator) declare(d *syntax.FunDecl) *ir.Func {
	if f, ok := g.protos[d]; ok {
		return f
	}

	// Primitives may already have been declared by a lowered string
	// comparison; reuse the module-level declaration.
	if d.External && d.Body == nil {
		if f := g.mod.Lookup(d.ExternalName.String()); f != nil {
			g.protos[d] = f
			return f
		}
	}

	var params []ir.Param
	if !d.External && d.Parent != nil {
		params = append(params, ir.Param{Name: ".sl", Type: ir.NewPointer(g.frameTypes[d.Parent])})
	}
	for _, p := range d.Params {
		params = append(params, ir.Param{Name: p.Sym.String(), Type: lowerType(p.Ty)})
	}

	f := g.mod.NewFunc(d.ExternalName.String(), params, lowerType(d.Result), d.Body == nil)
	g.protos[d] = f

	if d.Body != nil {
		g.pending = append(g.pending, d)
	}
	return f
}

// genFunc generates the body of d. The function gets two initial blocks:
// an entry block holding every alloca, and a body block where lowering
// starts; the entry branches to the body once generation is done.
func (g *generator) genFunc(d *syntax.FunDecl) error {
	g.decl = d
	g.fn = g.protos[d]
	g.storage = make(map[*syntax.VarDecl]*ir.Value)
	g.loopExit = make(map[syntax.Loop]*ir.Block)

	entry := g.fn.NewBlock(ir.BlockPlain)
	g.fn.Entry = entry
	body := g.fn.NewBlock(ir.BlockPlain)
	entry.AddSucc(body)
	g.b = body

	g.buildFrame()

	// Store the static link into frame field 0.
	argIdx := int64(0)
	if d.Parent != nil {
		linkType := ir.NewPointer(g.frameTypes[d.Parent])
		arg := g.fn.NewValue(g.b, ir.OpArg, linkType)
		arg.AuxInt = argIdx
		arg.Aux = ".sl"
		argIdx++

		slot := g.fieldPtr(g.frame, g.frameTypes[d], 0)
		g.fn.NewValue(g.b, ir.OpStore, nil, slot, arg)
	}

	// Spill parameters: escaping ones into their frame field, the rest
	// into private stack slots.
	for _, p := range d.Params {
		arg := g.fn.NewValue(g.b, ir.OpArg, lowerType(p.Ty))
		arg.AuxInt = argIdx
		arg.Aux = p.Sym.String()
		argIdx++

		slot := g.varSlot(p)
		g.fn.NewValue(g.b, ir.OpStore, nil, slot, arg)
	}

	v := g.expr(d.Body)
	if g.b != nil {
		g.b.Kind = ir.BlockReturn
		if g.fn.Result != nil {
			g.b.SetControl(v)
		}
	}

	ir.ComputeDom(g.fn)
	return ir.VerifyDom(g.fn)
}

// buildFrame creates d's frame record type and allocates it in the entry
// block. Field 0 is the static link when the function is nested; the
// remaining fields hold the escaping declarations, skipping void ones.
func (g *generator) buildFrame() {
	d := g.decl

	var fields []ir.Type
	if d.Parent != nil {
		fields = append(fields, ir.NewPointer(g.frameTypes[d.Parent]))
	}
	for _, v := range d.Escaping {
		if v.Ty == types.Void {
			continue
		}
		g.framePos[v] = len(fields)
		fields = append(fields, lowerType(v.Ty))
	}

	st := &ir.Struct{Name: "ft_" + d.ExternalName.String(), Fields: fields}
	g.frameTypes[d] = st
	g.mod.AddFrame(st)

	g.frame = g.fn.NewValue(g.fn.Entry, ir.OpAlloca, ir.NewPointer(st))
	g.frame.Aux = "frame"
}

// allocaInEntry allocates a stack slot in the entry block regardless of
// where lowering currently is.
func (g *generator) allocaInEntry(t ir.Type, name string) *ir.Value {
	v := g.fn.NewValue(g.fn.Entry, ir.OpAlloca, ir.NewPointer(t))
	v.Aux = name
	return v
}

// varSlot returns the storage location for a newly declared variable and
// records it: a frame field for escaping variables, a fresh entry-block
// alloca otherwise.
func (g *generator) varSlot(d *syntax.VarDecl) *ir.Value {
	var slot *ir.Value
	if d.Escapes {
		st := g.frameTypes[g.decl]
		slot = g.fieldPtr(g.frame, st, g.framePos[d])
	} else {
		slot = g.allocaInEntry(lowerType(d.Ty), d.Sym.String())
	}
	g.storage[d] = slot
	return slot
}

// fieldPtr emits the address of field idx of the frame record st.
func (g *generator) fieldPtr(base *ir.Value, st *ir.Struct, idx int) *ir.Value {
	v := g.fn.NewValue(g.b, ir.OpFieldPtr, ir.NewPointer(st.Fields[idx]), base)
	v.AuxInt = int64(idx)
	v.Aux = st
	return v
}

// frameUp walks the static-link chain: zero levels is the current frame
// itself, each further level loads field 0 of the frame reached so far.
// It returns the frame type and frame pointer reached.
func (g *generator) frameUp(levels int) (*ir.Struct, *ir.Value) {
	fd := g.decl
	cur := g.frame
	for i := 0; i < levels; i++ {
		st := g.frameTypes[fd]
		linkPtr := g.fieldPtr(cur, st, 0)
		cur = g.fn.NewValue(g.b, ir.OpLoad, st.Fields[0], linkPtr)
		fd = fd.Parent
	}
	return g.frameTypes[fd], cur
}

// addressOf returns the storage address of the variable id refers to. A
// non-escaping variable lives in a slot of the current function; an
// escaping one is reached by walking the static-link chain up the depth
// difference between the use and the declaration.
func (g *generator) addressOf(id *syntax.Ident) *ir.Value {
	d := id.Decl
	if !d.Escapes {
		slot, ok := g.storage[d]
		if !ok {
			panic(fmt.Sprintf("irgen.addressOf: no slot for %s", d.Sym))
		}
		return slot
	}

	st, base := g.frameUp(id.Depth - d.Depth)
	return g.fieldPtr(base, st, g.framePos[d])
}

// primitive returns the IR declaration of a runtime primitive, creating it
// on first use.
func (g *generator) primitive(name string) *ir.Func {
	link := rtabi.LinkPrefix + name
	if f := g.mod.Lookup(link); f != nil {
		return f
	}

	prim, ok := rtabi.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("irgen.primitive: unknown primitive %s", name))
	}

	params := make([]ir.Param, len(prim.Params))
	for i, k := range prim.Params {
		params[i] = ir.Param{Name: fmt.Sprintf("a_%d", i), Type: lowerKind(k)}
	}
	return g.mod.NewFunc(link, params, lowerKind(prim.Result), true)
}

func lowerKind(k rtabi.Kind) ir.Type {
	switch k {
	case rtabi.KindInt:
		return ir.I32
	case rtabi.KindString:
		return ir.NewPointer(ir.I8)
	}
	return nil
}

// removeBlock drops a dead block from the function. The block must have no
// predecessors and no successors.
func (g *generator) removeBlock(dead *ir.Block) {
	blocks := g.fn.Blocks
	for i, b := range blocks {
		if b == dead {
			g.fn.Blocks = append(blocks[:i], blocks[i+1:]...)
			return
		}
	}
}
