package ir

import (
	"fmt"
	"io"
	"strings"
)

// FprintModule writes the whole module to w: frame types, string globals,
// then each function.
func FprintModule(w io.Writer, m *Module) {
	for _, s := range m.Frames {
		fmt.Fprintf(w, "frame %%%s = %s\n", s.Name, s.Layout())
	}
	if len(m.Frames) > 0 {
		fmt.Fprintln(w)
	}

	for _, g := range m.Globals {
		fmt.Fprintf(w, "global @%s = %q\n", g.Name, g.Value)
	}
	if len(m.Globals) > 0 {
		fmt.Fprintln(w)
	}

	for i, f := range m.Funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Fprint(w, f)
	}
}

// SprintModule returns the module's textual form.
func SprintModule(m *Module) string {
	var sb strings.Builder
	FprintModule(&sb, m)
	return sb.String()
}

// Fprint writes one function to w.
//
// Format:
//
//	func main.f(%ft_main* .sl, i32 n) i32:
//	  b0: (entry)
//	    v0 = Alloca <%ft_main.f*> {frame}
//	    ...
//	    Plain -> b1
func Fprint(w io.Writer, f *Func) {
	if f.External {
		fmt.Fprintf(w, "declare %s\n", signature(f))
		return
	}
	fmt.Fprintf(w, "func %s:\n", signature(f))
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// Sprint returns the function's textual form.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

func signature(f *Func) string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
		if p.Name != "" {
			sb.WriteString(" ")
			sb.WriteString(p.Name)
		}
	}
	sb.WriteString(")")
	if f.Result != nil {
		sb.WriteString(" ")
		sb.WriteString(f.Result.String())
	}
	return sb.String()
}

func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, v := range b.Values {
		if v.Op.IsVoid() || v.Type == nil && v.Op == OpCall {
			fmt.Fprintf(w, "    %s\n", formatVoid(v))
		} else {
			fmt.Fprintf(w, "    %s\n", v.LongString())
		}
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatVoid formats a value with no result, without the "vN =" prefix.
func formatVoid(v *Value) string {
	s := v.Op.String()
	if v.Aux != nil {
		s += fmt.Sprintf(" {%s}", formatAux(v.Aux))
	}
	for _, arg := range v.Args {
		s += " " + arg.String()
	}
	return s
}

func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain (malformed)"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If %s -> %s %s", b.Controls[0], b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return %s", b.Controls[0])
		}
		return "Return"
	default:
		return "???"
	}
}
