// Package builtins is the single compile-time catalogue of nlang's
// intrinsic functions. The semantic analyzer reads each descriptor's
// parameter/return schema; each back-end reads only its own dispatch tag.
// The registry is immutable, process-wide, read-only data, built once.
package builtins

import "github.com/nlangteam/nlang/internal/types"

// Tag is the opaque dispatch identifier a back-end uses to select its own
// implementation of a built-in.
type Tag string

// Dispatch tags, one per built-in. Shared by all three back-ends so that
// the interpreter, IR emitter, and C emitter agree on what a call means.
const (
	TagPrint     Tag = "print"
	TagPrintln   Tag = "println"
	TagInput     Tag = "input"
	TagLen       Tag = "len"
	TagStr       Tag = "str"
	TagInt       Tag = "int"
	TagFloat     Tag = "float"
	TagBool      Tag = "bool"
	TagAbs       Tag = "abs"
	TagMax       Tag = "max"
	TagMin       Tag = "min"
	TagPow       Tag = "pow"
)

// Schema describes one built-in's calling convention. A Polymorphic
// built-in has no fixed Params. For abs, max, min and pow (Return left
// unset) every argument must be Int or Float and the call returns the join
// of the actual argument types (Float if any argument is Float, else Int) —
// see spec.md §4.3. print, println, str and bool are also Polymorphic: they
// accept any primitive argument and return their fixed Return type.
type Schema struct {
	Name        string
	Arity       int  // fixed parameter count
	Polymorphic bool // no fixed Params: print, println, str, bool, abs, max, min, pow
	Params      []types.Type
	Return      types.Type
	Tag         Tag
}

// Registry is the read-only name -> Schema catalogue.
type Registry struct {
	byName map[string]*Schema
}

// NewRegistry builds the built-in catalogue. Called once by the driver;
// the returned Registry is safe for concurrent read-only use thereafter.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Schema)}
	for _, s := range builtinTable {
		cp := s
		r.byName[s.Name] = &cp
	}
	return r
}

// Lookup returns the Schema for name, or nil if name is not a built-in.
func (r *Registry) Lookup(name string) *Schema {
	return r.byName[name]
}

// Names returns every registered built-in name, in table order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(builtinTable))
	for _, s := range builtinTable {
		names = append(names, s.Name)
	}
	return names
}

// builtinTable is the fixed catalogue described in spec.md §4.7.
var builtinTable = []Schema{
	{Name: "print", Arity: 1, Polymorphic: true, Return: types.TNull, Tag: TagPrint},
	{Name: "println", Arity: 1, Polymorphic: true, Return: types.TNull, Tag: TagPrintln},
	{Name: "input", Arity: 0, Return: types.TString, Tag: TagInput},
	{Name: "len", Arity: 1, Params: []types.Type{types.TString}, Return: types.TInt, Tag: TagLen},
	{Name: "str", Arity: 1, Polymorphic: true, Return: types.TString, Tag: TagStr},
	{Name: "int", Arity: 1, Params: []types.Type{types.TString}, Return: types.TInt, Tag: TagInt},
	{Name: "float", Arity: 1, Params: []types.Type{types.TString}, Return: types.TFloat, Tag: TagFloat},
	{Name: "bool", Arity: 1, Polymorphic: true, Return: types.TBool, Tag: TagBool},
	{Name: "abs", Arity: 1, Polymorphic: true, Tag: TagAbs},
	{Name: "max", Arity: 2, Polymorphic: true, Tag: TagMax},
	{Name: "min", Arity: 2, Polymorphic: true, Tag: TagMin},
	{Name: "pow", Arity: 2, Polymorphic: true, Tag: TagPow},
}
