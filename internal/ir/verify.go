package ir

import (
	"fmt"
	"strings"
)

// Verify checks the structural integrity of an IR function and returns an
// error describing every violation found, or nil. External declarations
// are trivially valid.
func Verify(f *Func) error {
	if f.External {
		if len(f.Blocks) != 0 {
			return fmt.Errorf("func %s: external declaration has blocks", f.Name)
		}
		return nil
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no entry block", f.Name)
		return combineErrors(errs)
	}
	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block has %d predecessors, want 0", f.Name, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		if b.Kind == BlockInvalid {
			add("func %s, %s: block has invalid kind", f.Name, b)
		}
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			valueSet[v] = true

			if v.Block != b {
				add("func %s, %s, %s: value belongs to %s", f.Name, b, v, v.Block)
			}

			// Allocas must live in the entry block so the stack frame has
			// a fixed shape.
			if v.Op == OpAlloca && b != f.Entry {
				add("func %s, %s, %s: alloca outside the entry block", f.Name, b, v)
			}

			if !v.Op.IsVoid() && v.Type == nil && v.Op != OpCall {
				add("func %s, %s, %s (%s): non-void value has nil type", f.Name, b, v, v.Op)
			}
			if v.Op.IsCmp() && v.Type != I1 {
				add("func %s, %s, %s: comparison must have type i1", f.Name, b, v)
			}

			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				}
			}
		}

		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1", f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 {
				add("func %s, %s: if block has %d controls, want 1", f.Name, b, len(b.Controls))
			} else if c := b.Controls[0]; c == nil || c.Type != I1 {
				add("func %s, %s: if control must be a non-nil i1 value", f.Name, b)
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2", f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0", f.Name, b, len(b.Succs))
			}
			var got Type
			if len(b.Controls) > 0 && b.Controls[0] != nil {
				got = b.Controls[0].Type
			}
			if f.Result != nil && got == nil {
				add("func %s, %s: missing return value for result %s", f.Name, b, f.Result)
			}
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s missing back edge", f.Name, b, succ)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s missing forward edge", f.Name, b, pred)
			}
		}
	}

	// All operands and controls must be values of this function.
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function", f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c == nil {
				if b.Kind != BlockReturn {
					add("func %s, %s: control[%d] is nil", f.Name, b, i)
				}
				continue
			}
			if !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function", f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

// VerifyDom checks, after ComputeDom, that every value use is dominated by
// its definition and every control value dominates its block.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	if f.External {
		return nil
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	var walk func(b *Block)
	walk = func(b *Block) {
		if reachable[b] {
			return
		}
		reachable[b] = true
		for _, s := range b.Succs {
			walk(s)
		}
	}
	walk(f.Entry)

	if f.Entry.Idom != nil {
		add("func %s: entry has non-nil idom %s", f.Name, f.Entry.Idom)
	}
	for _, b := range f.Blocks {
		if !reachable[b] || b == f.Entry {
			continue
		}
		if b.Idom == nil {
			add("func %s, %s: reachable block has nil idom", f.Name, b)
		} else if b.Idom == b {
			add("func %s, %s: block is its own idom", f.Name, b)
		}
	}

	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	dominates := func(a, b *Block) bool {
		for b != nil {
			if b == a {
				return true
			}
			b = b.Idom
		}
		return false
	}

	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				def := arg.Block
				if def == b {
					if valIdx[arg] >= valIdx[v] {
						add("func %s, %s, %s: arg[%d] %s defined after its use", f.Name, b, v, i, arg)
					}
				} else if !dominates(def, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s, which does not dominate %s",
						f.Name, b, v, i, arg, def, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c == nil {
				continue
			}
			if c.Block != b && !dominates(c.Block, b) {
				add("func %s, %s: control[%d] %s defined in %s, which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

// VerifyModule verifies every function of m, computing dominators first.
func VerifyModule(m *Module) error {
	var errs []string
	for _, f := range m.Funcs {
		if !f.External {
			ComputeDom(f)
		}
		if err := VerifyDom(f); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return combineErrors(errs)
}

func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("IR verification failed:\n  %s", strings.Join(errs, "\n  "))
}
