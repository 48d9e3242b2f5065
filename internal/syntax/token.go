// Package syntax implements lexical and syntactic analysis for the Tiger
// language subset: integer and string scalars, binary operators, sequences,
// if/while/for/break, and let-blocks declaring variables and nested functions.
package syntax

import "fmt"

// token is the type of a lexical token.
type token uint

const (
	_EOF token = iota

	// Literals and names
	_Name   // identifier
	_Int    // integer literal
	_String // string literal (decoded)

	// Operators
	_Assign // :=
	_Eq     // =
	_Neq    // <>
	_Lt     // <
	_Leq    // <=
	_Gt     // >
	_Geq    // >=
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Comma  // ,
	_Semi   // ;
	_Colon  // :

	// Keywords
	_Break
	_Do
	_Else
	_End
	_For
	_Function
	_If
	_In
	_Let
	_Then
	_To
	_Var
	_While

	tokenCount
)

var tokenNames = [...]string{
	_EOF:    "EOF",
	_Name:   "identifier",
	_Int:    "integer literal",
	_String: "string literal",

	_Assign: ":=",
	_Eq:     "=",
	_Neq:    "<>",
	_Lt:     "<",
	_Leq:    "<=",
	_Gt:     ">",
	_Geq:    ">=",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",

	_Lparen: "(",
	_Rparen: ")",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",

	_Break:    "break",
	_Do:       "do",
	_Else:     "else",
	_End:      "end",
	_For:      "for",
	_Function: "function",
	_If:       "if",
	_In:       "in",
	_Let:      "let",
	_Then:     "then",
	_To:       "to",
	_Var:      "var",
	_While:    "while",
}

func (t token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// keywords maps keyword spellings to their tokens. Note that "int" and
// "string" are not keywords; type names are ordinary identifiers resolved
// by the type checker.
var keywords = map[string]token{
	"break":    _Break,
	"do":       _Do,
	"else":     _Else,
	"end":      _End,
	"for":      _For,
	"function": _Function,
	"if":       _If,
	"in":       _In,
	"let":      _Let,
	"then":     _Then,
	"to":       _To,
	"var":      _Var,
	"while":    _While,
}

// lookupKeyword returns the keyword token for ident, or _Name.
func lookupKeyword(ident string) token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Op identifies a binary operator in the AST.
type Op int

const (
	OpInvalid Op = iota
	OpAdd        // +
	OpSub        // -
	OpMul        // *
	OpDiv        // /
	OpEq         // =
	OpNeq        // <>
	OpLt         // <
	OpLeq        // <=
	OpGt         // >
	OpGeq        // >=
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpEq:      "=",
	OpNeq:     "<>",
	OpLt:      "<",
	OpLeq:     "<=",
	OpGt:      ">",
	OpGeq:     ">=",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// IsArithmetic reports whether op is +, -, * or /.
func (op Op) IsArithmetic() bool { return op >= OpAdd && op <= OpDiv }

// IsComparison reports whether op is a relational or equality operator.
func (op Op) IsComparison() bool { return op >= OpEq && op <= OpGeq }

// binOp maps an operator token to its AST operator, or OpInvalid.
func binOp(tok token) Op {
	switch tok {
	case _Add:
		return OpAdd
	case _Sub:
		return OpSub
	case _Mul:
		return OpMul
	case _Div:
		return OpDiv
	case _Eq:
		return OpEq
	case _Neq:
		return OpNeq
	case _Lt:
		return OpLt
	case _Leq:
		return OpLeq
	case _Gt:
		return OpGt
	case _Geq:
		return OpGeq
	}
	return OpInvalid
}
