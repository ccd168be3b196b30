package interp

// Environment is an activation record. Per spec.md §3 ("Functions do not
// close over outer locals — flat scope inside a function; only globals and
// own parameters/locals are visible"), an Environment is at most one hop
// from the shared global environment: it never chains to a caller's frame.
type Environment struct {
	vars   map[string]Value
	global *Environment // nil for the global environment itself
}

// NewGlobalEnvironment creates the single top-level environment that holds
// module-level `store` bindings.
func NewGlobalEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// NewCallEnvironment creates a fresh per-call frame chained only to global.
func NewCallEnvironment(global *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), global: global}
}

// Get resolves name, checking the local frame first, then the global
// environment (a single hop — no arbitrary-depth lexical chain).
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.vars[name]; ok {
		return v, true
	}
	if e.global != nil {
		return e.global.Get(name)
	}
	return nil, false
}

// Define binds name in the current frame. store always introduces a
// binding in the current flat scope, even from within an if/while block,
// since nlang has no per-block scoping.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Set updates an existing binding, searching local then global. Reports
// false if name is bound nowhere reachable — semantic analysis guarantees
// this never happens for a well-typed program.
func (e *Environment) Set(name string, v Value) bool {
	if _, ok := e.vars[name]; ok {
		e.vars[name] = v
		return true
	}
	if e.global != nil {
		return e.global.Set(name, v)
	}
	return false
}
