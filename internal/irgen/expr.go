package irgen

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/syntax"
	"github.com/tigerlang/tigerc/internal/types"
)

// expr lowers an expression into the current block and returns its value,
// or nil for void expressions and unreachable code.
func (g *generator) expr(e syntax.Expr) *ir.Value {
	if g.b == nil {
		return nil
	}

	switch e := e.(type) {
	case *syntax.IntLit:
		return g.const32(int64(e.Value))

	case *syntax.StrLit:
		v := g.fn.NewValue(g.b, ir.OpConstString, ir.NewPointer(ir.I8))
		v.Aux = g.mod.StringLit(e.Value.String())
		return v

	case *syntax.BinaryExpr:
		return g.binary(e)

	case *syntax.SeqExpr:
		var last *ir.Value
		for _, x := range e.List {
			if g.b == nil {
				break
			}
			last = g.expr(x)
		}
		return last

	case *syntax.IfExpr:
		return g.ifExpr(e)

	case *syntax.LetExpr:
		for _, d := range e.Decls {
			switch d := d.(type) {
			case *syntax.VarDecl:
				g.varDecl(d)
			case *syntax.FunDecl:
				g.declare(d)
			}
			if g.b == nil {
				return nil
			}
		}
		return g.expr(e.Body)

	case *syntax.Ident:
		if e.Type() == types.Void {
			return nil
		}
		return g.fn.NewValue(g.b, ir.OpLoad, lowerType(e.Type()), g.addressOf(e))

	case *syntax.AssignExpr:
		v := g.expr(e.RHS)
		if g.b == nil {
			return nil
		}
		// Assigning to a void variable stores nothing.
		if e.LHS.Type() == types.Void {
			return nil
		}
		g.fn.NewValue(g.b, ir.OpStore, nil, g.addressOf(e.LHS), v)
		return nil

	case *syntax.WhileExpr:
		g.whileExpr(e)
		return nil

	case *syntax.ForExpr:
		g.forExpr(e)
		return nil

	case *syntax.BreakExpr:
		exit, ok := g.loopExit[e.Target]
		if !ok {
			panic("irgen.expr: break target has no exit block")
		}
		g.b.AddSucc(exit)
		g.b = nil
		return nil

	case *syntax.CallExpr:
		return g.callExpr(e)

	default:
		panic(fmt.Sprintf("irgen.expr: unhandled %T", e))
	}
}

func (g *generator) const32(v int64) *ir.Value {
	c := g.fn.NewValue(g.b, ir.OpConst32, ir.I32)
	c.AuxInt = v
	return c
}

// binary lowers a binary operation. Void operands compare without any
// code: equality is 1, inequality 0. String operands go through __strcmp
// and the comparison is applied to its result against zero. Integer
// comparisons produce an i1 that is widened back to i32.
func (g *generator) binary(e *syntax.BinaryExpr) *ir.Value {
	if e.Left.Type() == types.Void {
		if e.Op == syntax.OpEq {
			return g.const32(1)
		}
		return g.const32(0)
	}

	l := g.expr(e.Left)
	r := g.expr(e.Right)
	if g.b == nil {
		return nil
	}

	if e.Left.Type() == types.String {
		call := g.fn.NewValue(g.b, ir.OpCall, ir.I32, l, r)
		call.Aux = g.primitive("strcmp")
		l = call
		r = g.const32(0)
	}

	if e.Op.IsArithmetic() {
		return g.fn.NewValue(g.b, arithOp(e.Op), ir.I32, l, r)
	}

	cmp := g.fn.NewValue(g.b, cmpOp(e.Op), ir.I1, l, r)
	return g.fn.NewValue(g.b, ir.OpZext, ir.I32, cmp)
}

func arithOp(op syntax.Op) ir.Op {
	switch op {
	case syntax.OpAdd:
		return ir.OpAdd32
	case syntax.OpSub:
		return ir.OpSub32
	case syntax.OpMul:
		return ir.OpMul32
	case syntax.OpDiv:
		return ir.OpDiv32
	}
	panic(fmt.Sprintf("irgen.arithOp: %s is not arithmetic", op))
}

func cmpOp(op syntax.Op) ir.Op {
	switch op {
	case syntax.OpEq:
		return ir.OpCmpEQ
	case syntax.OpNeq:
		return ir.OpCmpNE
	case syntax.OpLt:
		return ir.OpCmpLT
	case syntax.OpLeq:
		return ir.OpCmpLE
	case syntax.OpGt:
		return ir.OpCmpGT
	case syntax.OpGeq:
		return ir.OpCmpGE
	}
	panic(fmt.Sprintf("irgen.cmpOp: %s is not a comparison", op))
}

// isNotNull emits the branch condition cond <> 0 as an i1.
func (g *generator) isNotNull(cond *ir.Value) *ir.Value {
	zero := g.const32(0)
	return g.fn.NewValue(g.b, ir.OpCmpNE, ir.I1, cond, zero)
}

// varDecl lowers a variable declaration and returns its storage slot. A
// void declaration evaluates its initializer for effect only and gets no
// storage.
func (g *generator) varDecl(d *syntax.VarDecl) *ir.Value {
	if d.Ty == types.Void {
		if d.Init != nil {
			g.expr(d.Init)
		}
		return nil
	}

	slot := g.varSlot(d)
	if d.Init != nil {
		v := g.expr(d.Init)
		if g.b != nil {
			g.fn.NewValue(g.b, ir.OpStore, nil, slot, v)
		}
	}
	return slot
}

// ifExpr lowers a conditional. A non-void conditional stores each arm's
// result into an entry-block slot reloaded at the join point.
func (g *generator) ifExpr(e *syntax.IfExpr) *ir.Value {
	var result *ir.Value
	if e.Type() != types.Void {
		result = g.allocaInEntry(lowerType(e.Type()), "if_result")
	}

	cond := g.expr(e.Cond)
	if g.b == nil {
		return nil
	}

	thenB := g.fn.NewBlock(ir.BlockPlain)
	elseB := g.fn.NewBlock(ir.BlockPlain)
	endB := g.fn.NewBlock(ir.BlockPlain)

	g.b.Kind = ir.BlockIf
	g.b.SetControl(g.isNotNull(cond))
	g.b.AddSucc(thenB)
	g.b.AddSucc(elseB)

	g.b = thenB
	v := g.expr(e.Then)
	if g.b != nil {
		if result != nil {
			g.fn.NewValue(g.b, ir.OpStore, nil, result, v)
		}
		g.b.AddSucc(endB)
	}

	g.b = elseB
	v = g.expr(e.Else)
	if g.b != nil {
		if result != nil {
			g.fn.NewValue(g.b, ir.OpStore, nil, result, v)
		}
		g.b.AddSucc(endB)
	}

	// Both arms left the function or broke out of a loop.
	if len(endB.Preds) == 0 {
		g.removeBlock(endB)
		g.b = nil
		return nil
	}

	g.b = endB
	if result != nil {
		return g.fn.NewValue(g.b, ir.OpLoad, lowerType(e.Type()), result)
	}
	return nil
}

// whileExpr lowers: test evaluates the condition and branches to the body
// or past the loop; the body jumps back to the test.
func (g *generator) whileExpr(e *syntax.WhileExpr) {
	test := g.fn.NewBlock(ir.BlockPlain)
	body := g.fn.NewBlock(ir.BlockPlain)
	end := g.fn.NewBlock(ir.BlockPlain)
	g.loopExit[e] = end

	g.b.AddSucc(test)

	g.b = test
	cond := g.expr(e.Cond)
	if g.b != nil {
		g.b.Kind = ir.BlockIf
		g.b.SetControl(g.isNotNull(cond))
		g.b.AddSucc(body)
		g.b.AddSucc(end)
	}

	g.b = body
	g.expr(e.Body)
	if g.b != nil {
		g.b.AddSucc(test)
	}

	g.b = end
}

// forExpr lowers a counted loop: the induction variable starts at its
// initializer, the body runs while it stays at most the bound, and each
// iteration increments the variable's slot.
func (g *generator) forExpr(e *syntax.ForExpr) {
	slot := g.varDecl(e.Var)
	high := g.expr(e.High)
	if g.b == nil {
		return
	}

	test := g.fn.NewBlock(ir.BlockPlain)
	body := g.fn.NewBlock(ir.BlockPlain)
	end := g.fn.NewBlock(ir.BlockPlain)
	g.loopExit[e] = end

	g.b.AddSucc(test)

	g.b = test
	idx := g.fn.NewValue(g.b, ir.OpLoad, ir.I32, slot)
	cmp := g.fn.NewValue(g.b, ir.OpCmpLE, ir.I1, idx, high)
	g.b.Kind = ir.BlockIf
	g.b.SetControl(cmp)
	g.b.AddSucc(body)
	g.b.AddSucc(end)

	g.b = body
	g.expr(e.Body)
	if g.b != nil {
		idx = g.fn.NewValue(g.b, ir.OpLoad, ir.I32, slot)
		one := g.const32(1)
		next := g.fn.NewValue(g.b, ir.OpAdd32, ir.I32, idx, one)
		g.fn.NewValue(g.b, ir.OpStore, nil, slot, next)
		g.b.AddSucc(test)
	}

	g.b = end
}

// callExpr lowers a call. Non-external callees receive their static link
// first: the frame call.Depth - decl.Depth levels up from here, which is
// the current frame itself when the callee is a direct child.
func (g *generator) callExpr(e *syntax.CallExpr) *ir.Value {
	fn := g.declare(e.Decl)

	var args []*ir.Value
	if !e.Decl.External {
		_, sl := g.frameUp(e.Depth - e.Decl.Depth)
		args = append(args, sl)
	}

	for _, a := range e.Args {
		args = append(args, g.expr(a))
		if g.b == nil {
			return nil
		}
	}

	call := g.fn.NewValue(g.b, ir.OpCall, lowerType(e.Decl.Result), args...)
	call.Aux = fn
	if e.Decl.Result == types.Void {
		return nil
	}
	return call
}
