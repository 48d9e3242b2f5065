// Package types defines the Tiger type universe: int, string and void,
// plus the undef sentinel the type checker uses for not-yet-typed
// declarations. No node may carry Undef once checking has finished.
package types

import "fmt"

// Ty identifies a Tiger type. The zero value is Undef.
type Ty int

const (
	Undef Ty = iota // sentinel: not yet typed
	Int
	String
	Void
)

var tyNames = [...]string{
	Undef:  "undef",
	Int:    "int",
	String: "string",
	Void:   "void",
}

func (t Ty) String() string {
	if int(t) < len(tyNames) {
		return tyNames[t]
	}
	return fmt.Sprintf("Ty(%d)", int(t))
}

// IsValue reports whether t is a type a value can have (not Undef).
func (t Ty) IsValue() bool {
	return t == Int || t == String || t == Void
}

// Lookup maps a Tiger type name to its type. It returns Undef for names
// that do not denote a type. Void is deliberately not reachable from
// source; functions without a result annotation default to it.
func Lookup(name string) Ty {
	switch name {
	case "int":
		return Int
	case "string":
		return String
	}
	return Undef
}
