package semantic

import "github.com/nlangteam/nlang/internal/types"

// SymbolKind classifies what a Symbol refers to.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymFunction
	SymBuiltIn
)

// Symbol binds a name to a kind, type, and declaration site.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type types.Type
}

// scope is one lexical scope: a name -> Symbol mapping.
type scope struct {
	symbols map[string]*Symbol
}

func newScope() *scope {
	return &scope{symbols: make(map[string]*Symbol)}
}

// SymbolTable is a stack of scopes. The bottom of the stack is the global
// scope, initialized with all built-in names by the Analyzer. A nested
// scope shadows identical outer names; exiting a scope discards its
// entries.
type SymbolTable struct {
	scopes []*scope
}

// NewSymbolTable creates a table with a single (global) scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []*scope{newScope()}}
}

// Push enters a new nested scope.
func (t *SymbolTable) Push() {
	t.scopes = append(t.scopes, newScope())
}

// Pop discards the innermost scope.
func (t *SymbolTable) Pop() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Define binds name in the current (innermost) scope. It reports ok=false
// if name is already bound in that same scope (a duplicate declaration).
func (t *SymbolTable) Define(name string, kind SymbolKind, typ types.Type) (ok bool) {
	cur := t.scopes[len(t.scopes)-1]
	if _, exists := cur.symbols[name]; exists {
		return false
	}
	cur.symbols[name] = &Symbol{Name: name, Kind: kind, Type: typ}
	return true
}

// DefineGlobal binds name directly in the global (outermost) scope,
// regardless of how deeply nested the table currently is. Used during
// hoisting.
func (t *SymbolTable) DefineGlobal(name string, kind SymbolKind, typ types.Type) (ok bool) {
	global := t.scopes[0]
	if _, exists := global.symbols[name]; exists {
		return false
	}
	global.symbols[name] = &Symbol{Name: name, Kind: kind, Type: typ}
	return true
}

// Resolve looks up name from the innermost scope outward.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveGlobal looks up name only in the global scope, used when
// resolving a function's own name for recursive calls and return-type
// back-patching.
func (t *SymbolTable) ResolveGlobal(name string) (*Symbol, bool) {
	sym, ok := t.scopes[0].symbols[name]
	return sym, ok
}

// Depth reports the current scope nesting depth (1 = global only).
func (t *SymbolTable) Depth() int {
	return len(t.scopes)
}
