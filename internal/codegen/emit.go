// Package codegen prints an IR module as LLVM assembly. The emission is a
// direct transcription: frame records become named struct types, string
// constants become private globals, IR values become numbered registers
// and block kinds become br/ret terminators. Opaque pointers (LLVM 15+)
// are used throughout.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/tigerlang/tigerc/internal/ir"
)

// Generate writes m to w as LLVM assembly.
func Generate(w io.Writer, m *ir.Module) error {
	e := &emitter{w: w}

	for _, s := range m.Frames {
		e.printf("%%%s = type %s", s.Name, llvmStructBody(s))
	}
	if len(m.Frames) > 0 {
		e.printf("")
	}

	for _, g := range m.Globals {
		e.printf("@%s = private unnamed_addr constant [%d x i8] c\"%s\"",
			g.Name, len(g.Value)+1, llvmEscape(g.Value))
	}
	if len(m.Globals) > 0 {
		e.printf("")
	}

	for _, f := range m.Funcs {
		if f.External {
			e.printf("declare %s @%s(%s)", llvmResult(f.Result), f.Name, llvmParamTypes(f))
		}
	}
	e.printf("")

	for _, f := range m.Funcs {
		if f.External {
			continue
		}
		if err := e.emitFunc(f); err != nil {
			return err
		}
		e.printf("")
	}

	return e.err
}

type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func (e *emitter) emitFunc(f *ir.Func) error {
	linkage := "internal "
	if f.Name == "main" {
		linkage = ""
	}
	e.printf("define %s%s @%s(%s) {", linkage, llvmResult(f.Result), f.Name, llvmParams(f))

	for _, b := range f.Blocks {
		e.printf("%s:", b)
		for _, v := range b.Values {
			e.emitValue(f, v)
		}
		e.emitTerminator(f, b)
	}

	e.printf("}")
	return e.err
}

func (e *emitter) emitValue(f *ir.Func, v *ir.Value) {
	switch v.Op {
	case ir.OpConst32, ir.OpConstString, ir.OpArg:
		// folded into operand positions

	case ir.OpAlloca:
		elem := v.Type.(*ir.Pointer).Elem
		e.printf("  %s = alloca %s", reg(v), llvmType(elem))

	case ir.OpLoad:
		e.printf("  %s = load %s, ptr %s", reg(v), llvmType(v.Type), operand(v.Args[0]))

	case ir.OpStore:
		e.printf("  store %s %s, ptr %s",
			llvmType(v.Args[1].Type), operand(v.Args[1]), operand(v.Args[0]))

	case ir.OpFieldPtr:
		st := v.Aux.(*ir.Struct)
		e.printf("  %s = getelementptr %%%s, ptr %s, i32 0, i32 %d",
			reg(v), st.Name, operand(v.Args[0]), v.AuxInt)

	case ir.OpAdd32, ir.OpSub32, ir.OpMul32, ir.OpDiv32:
		e.printf("  %s = %s i32 %s, %s", reg(v), llvmArith(v.Op),
			operand(v.Args[0]), operand(v.Args[1]))

	case ir.OpCmpEQ, ir.OpCmpNE, ir.OpCmpLT, ir.OpCmpLE, ir.OpCmpGT, ir.OpCmpGE:
		e.printf("  %s = icmp %s i32 %s, %s", reg(v), llvmCond(v.Op),
			operand(v.Args[0]), operand(v.Args[1]))

	case ir.OpZext:
		e.printf("  %s = zext i1 %s to i32", reg(v), operand(v.Args[0]))

	case ir.OpCall:
		callee := v.Aux.(*ir.Func)
		var args []string
		for _, a := range v.Args {
			args = append(args, llvmType(a.Type)+" "+operand(a))
		}
		if v.Type == nil {
			e.printf("  call void @%s(%s)", callee.Name, strings.Join(args, ", "))
		} else {
			e.printf("  %s = call %s @%s(%s)",
				reg(v), llvmType(v.Type), callee.Name, strings.Join(args, ", "))
		}

	default:
		e.err = fmt.Errorf("codegen: cannot emit %s", v.Op)
	}
}

func (e *emitter) emitTerminator(f *ir.Func, b *ir.Block) {
	switch b.Kind {
	case ir.BlockPlain:
		e.printf("  br label %%%s", b.Succs[0])
	case ir.BlockIf:
		e.printf("  br i1 %s, label %%%s, label %%%s",
			operand(b.Controls[0]), b.Succs[0], b.Succs[1])
	case ir.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			c := b.Controls[0]
			e.printf("  ret %s %s", llvmType(c.Type), operand(c))
		} else {
			e.printf("  ret void")
		}
	default:
		e.err = fmt.Errorf("codegen: block %s has no terminator", b)
	}
}

// reg returns the LLVM register name of a value.
func reg(v *ir.Value) string {
	return "%" + v.String()
}

// operand formats a value in operand position, folding constants and
// arguments to their direct spellings.
func operand(v *ir.Value) string {
	switch v.Op {
	case ir.OpConst32:
		return fmt.Sprintf("%d", v.AuxInt)
	case ir.OpConstString:
		return "@" + v.Aux.(*ir.Global).Name
	case ir.OpArg:
		return "%" + quoteName(v.Aux.(string))
	}
	return reg(v)
}

func llvmParams(f *ir.Func) string {
	var parts []string
	for _, p := range f.Params {
		parts = append(parts, llvmType(p.Type)+" %"+quoteName(p.Name))
	}
	return strings.Join(parts, ", ")
}

func llvmParamTypes(f *ir.Func) string {
	var parts []string
	for _, p := range f.Params {
		parts = append(parts, llvmType(p.Type))
	}
	return strings.Join(parts, ", ")
}

// quoteName quotes parameter names LLVM would reject bare.
func quoteName(name string) string {
	if name == "" || strings.HasPrefix(name, ".") {
		return `"` + name + `"`
	}
	return name
}

func llvmType(t ir.Type) string {
	switch t := t.(type) {
	case *ir.Basic:
		return t.String()
	case *ir.Pointer:
		return "ptr"
	case *ir.Struct:
		return "%" + t.Name
	}
	return "void"
}

func llvmResult(t ir.Type) string {
	if t == nil {
		return "void"
	}
	return llvmType(t)
}

func llvmStructBody(s *ir.Struct) string {
	if len(s.Fields) == 0 {
		return "{}"
	}
	var parts []string
	for _, f := range s.Fields {
		parts = append(parts, llvmType(f))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func llvmArith(op ir.Op) string {
	switch op {
	case ir.OpAdd32:
		return "add"
	case ir.OpSub32:
		return "sub"
	case ir.OpMul32:
		return "mul"
	case ir.OpDiv32:
		return "sdiv"
	}
	return "?"
}

func llvmCond(op ir.Op) string {
	switch op {
	case ir.OpCmpEQ:
		return "eq"
	case ir.OpCmpNE:
		return "ne"
	case ir.OpCmpLT:
		return "slt"
	case ir.OpCmpLE:
		return "sle"
	case ir.OpCmpGT:
		return "sgt"
	case ir.OpCmpGE:
		return "sge"
	}
	return "?"
}

// llvmEscape encodes a string for an LLVM c"..." constant, appending the
// terminating NUL.
func llvmEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\%02X", c)
		}
	}
	sb.WriteString("\\00")
	return sb.String()
}
