// Package ir implements the SSA-style intermediate representation emitted
// by the Tiger compiler: a module of functions, each a graph of basic
// blocks holding value instructions, plus string globals and named frame
// struct types.
package ir

// Op is an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst32     // i32 constant; AuxInt = value
	OpConstString // pointer to a global NUL-terminated string; Aux = *Global

	// Arithmetic (i32 × i32 → i32)
	OpAdd32
	OpSub32
	OpMul32
	OpDiv32 // signed

	// Comparison (i32 × i32 → i1, signed)
	OpCmpEQ
	OpCmpNE
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE

	// OpZext widens an i1 comparison result to i32.
	OpZext

	// Memory
	OpAlloca   // stack slot; Type = pointer to slot type; Aux = name
	OpLoad     // Args[0] = pointer
	OpStore    // Args[0] = pointer, Args[1] = value; no result
	OpFieldPtr // frame field address; Args[0] = frame pointer; AuxInt = index; Aux = *Struct

	// OpCall calls a function; Aux = *Func, Args = arguments (static link
	// first for nested functions). Type is nil for void callees.
	OpCall

	// OpArg materializes the function argument AuxInt; Aux = name.
	OpArg

	opCount
)

// OpInfo describes an operation.
type OpInfo struct {
	Name   string
	IsVoid bool // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst32:     {Name: "Const32"},
	OpConstString: {Name: "ConstString"},

	OpAdd32: {Name: "Add32"},
	OpSub32: {Name: "Sub32"},
	OpMul32: {Name: "Mul32"},
	OpDiv32: {Name: "Div32"},

	OpCmpEQ: {Name: "CmpEQ"},
	OpCmpNE: {Name: "CmpNE"},
	OpCmpLT: {Name: "CmpLT"},
	OpCmpLE: {Name: "CmpLE"},
	OpCmpGT: {Name: "CmpGT"},
	OpCmpGE: {Name: "CmpGE"},

	OpZext: {Name: "Zext"},

	OpAlloca:   {Name: "Alloca"},
	OpLoad:     {Name: "Load"},
	OpStore:    {Name: "Store", IsVoid: true},
	OpFieldPtr: {Name: "FieldPtr"},

	OpCall: {Name: "Call"},
	OpArg:  {Name: "Arg"},
}

// String returns the operation's name.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// IsVoid reports whether the operation produces no value.
func (o Op) IsVoid() bool {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].IsVoid
	}
	return false
}

// IsCmp reports whether the operation is an i1-producing comparison.
func (o Op) IsCmp() bool {
	return o >= OpCmpEQ && o <= OpCmpGE
}
