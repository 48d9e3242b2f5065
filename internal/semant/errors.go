// Package semant implements the semantic passes of the Tiger compiler: the
// binder, which resolves names, nesting depths and escapes, and the type
// checker. Both decorate the AST in place.
package semant

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/syntax"
)

// Error is a semantic error with its source location.
type Error struct {
	Pos syntax.Pos
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorHandler is called for each reported error. A fatal error aborts the
// pass right after the handler returns; a non-fatal report (the first line
// of a redeclaration pair) may precede it.
type ErrorHandler func(pos syntax.Pos, msg string)

// bailout aborts a pass on a fatal error; the pass entry point recovers it.
type bailout struct{}

// reporter carries the error state shared by the binder and the checker.
type reporter struct {
	errh   ErrorHandler
	errcnt int
	first  *Error
}

func (r *reporter) report(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.errcnt == 0 {
		r.first = &Error{Pos: pos, Msg: msg}
	}
	r.errcnt++
	if r.errh != nil {
		r.errh(pos, msg)
	}
}

// errorf reports a fatal error and aborts the pass.
func (r *reporter) errorf(pos syntax.Pos, format string, args ...interface{}) {
	r.report(pos, format, args...)
	panic(bailout{})
}

// softErrorf reports an error without aborting.
func (r *reporter) softErrorf(pos syntax.Pos, format string, args ...interface{}) {
	r.report(pos, format, args...)
}
