package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/tigerlang/tigerc/internal/types"
)

// Fprint writes an indented dump of the AST rooted at n to w. Annotations
// recorded by the binder and the type checker are included when present, so
// the same printer serves the raw, bound and typed views of a tree.
func Fprint(w io.Writer, n Node) {
	p := &printer{w: w}
	p.node(n)
}

// String returns the Fprint dump of n.
func String(n Node) string {
	var sb strings.Builder
	Fprint(&sb, n)
	return sb.String()
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s", strings.Repeat("  ", p.indent))
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprintf(p.w, "\n")
}

// typeSuffix formats the checked type of an expression, or "" before checking.
func typeSuffix(e Expr) string {
	if e.Type() == types.Undef {
		return ""
	}
	return " : " + e.Type().String()
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *IntLit:
		p.printf("int %d%s", n.Value, typeSuffix(n))

	case *StrLit:
		p.printf("string %q%s", n.Value.String(), typeSuffix(n))

	case *BinaryExpr:
		p.printf("binop %s%s", n.Op, typeSuffix(n))
		p.nested(n.Left, n.Right)

	case *SeqExpr:
		p.printf("seq%s", typeSuffix(n))
		p.indent++
		for _, e := range n.List {
			p.node(e)
		}
		p.indent--

	case *IfExpr:
		p.printf("if%s", typeSuffix(n))
		p.nested(n.Cond, n.Then, n.Else)

	case *LetExpr:
		p.printf("let%s", typeSuffix(n))
		p.indent++
		for _, d := range n.Decls {
			p.node(d)
		}
		p.node(n.Body)
		p.indent--

	case *Ident:
		if n.Decl != nil {
			p.printf("ident %s depth=%d decl=%s%s", n.Sym, n.Depth, n.Decl.Pos(), typeSuffix(n))
		} else {
			p.printf("ident %s%s", n.Sym, typeSuffix(n))
		}

	case *AssignExpr:
		p.printf("assign%s", typeSuffix(n))
		p.nested(n.LHS, n.RHS)

	case *WhileExpr:
		p.printf("while%s", typeSuffix(n))
		p.nested(n.Cond, n.Body)

	case *ForExpr:
		p.printf("for%s", typeSuffix(n))
		p.indent++
		p.node(n.Var)
		p.node(n.High)
		p.node(n.Body)
		p.indent--

	case *BreakExpr:
		if n.Target != nil {
			p.printf("break target=%s%s", n.Target.Pos(), typeSuffix(n))
		} else {
			p.printf("break%s", typeSuffix(n))
		}

	case *CallExpr:
		if n.Decl != nil {
			p.printf("call %s depth=%d%s", n.Func, n.Depth, typeSuffix(n))
		} else {
			p.printf("call %s%s", n.Func, typeSuffix(n))
		}
		p.indent++
		for _, a := range n.Args {
			p.node(a)
		}
		p.indent--

	case *VarDecl:
		attrs := fmt.Sprintf(" depth=%d", n.Depth)
		if n.Escapes {
			attrs += " escapes"
		}
		if n.Ty != types.Undef {
			attrs += " : " + n.Ty.String()
		}
		if n.TypeName != nil {
			p.printf("var %s: %s%s", n.Sym, n.TypeName, attrs)
		} else {
			p.printf("var %s%s", n.Sym, attrs)
		}
		if n.Init != nil {
			p.indent++
			p.node(n.Init)
			p.indent--
		}

	case *FunDecl:
		attrs := fmt.Sprintf(" depth=%d", n.Depth)
		if n.ExternalName != nil {
			attrs += " extname=" + n.ExternalName.String()
		}
		if n.External {
			attrs += " external"
		}
		if n.Result != types.Undef {
			attrs += " : " + n.Result.String()
		}
		p.printf("function %s%s", n.Sym, attrs)
		p.indent++
		for _, param := range n.Params {
			p.node(param)
		}
		if n.Body != nil {
			p.node(n.Body)
		}
		p.indent--

	default:
		p.printf("unknown node %T", n)
	}
}

func (p *printer) nested(children ...Node) {
	p.indent++
	for _, c := range children {
		p.node(c)
	}
	p.indent--
}
