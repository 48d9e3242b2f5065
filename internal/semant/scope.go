package semant

import "github.com/tigerlang/tigerc/internal/syntax"

// scope maps interned names to their declarations for one lexical region.
type scope map[*syntax.Symbol]syntax.Decl

// scopeStack is the binder's stack of lexical scopes. A let-block, a
// function body and a for-loop induction variable each push one scope.
type scopeStack struct {
	scopes []scope
}

func (s *scopeStack) push() {
	s.scopes = append(s.scopes, make(scope))
}

func (s *scopeStack) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// insert adds a declaration to the innermost scope. If the name is already
// bound in that scope, the previous declaration is returned and the scope
// keeps the newer one; shadowing outer scopes is not an error.
func (s *scopeStack) insert(name *syntax.Symbol, d syntax.Decl) syntax.Decl {
	top := s.scopes[len(s.scopes)-1]
	prev := top[name]
	top[name] = d
	return prev
}

// lookup walks the stack innermost-first and returns the first declaration
// bound to name, or nil.
func (s *scopeStack) lookup(name *syntax.Symbol) syntax.Decl {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if d, ok := s.scopes[i][name]; ok {
			return d
		}
	}
	return nil
}
