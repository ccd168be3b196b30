// Package interp implements nlang's tree-walking interpreter back-end: a
// single-threaded, synchronous, recursive-descent evaluator over the
// semantically-checked AST.
package interp

import "github.com/nlangteam/nlang/internal/types"

// Value is a runtime value produced by evaluating a checked expression.
// Every Value knows its own type and canonical textual form; the latter is
// what print/println/str() use and must match the C back-end's rendering
// byte-for-byte (spec.md §8).
type Value interface {
	Kind() types.Kind
	String() string
}

// IntValue is a 64-bit signed integer. Arithmetic on it wraps with
// two's-complement semantics via plain Go int64 overflow.
type IntValue struct{ V int64 }

func (v IntValue) Kind() types.Kind { return types.Int }
func (v IntValue) String() string   { return types.FormatInt(v.V) }

// FloatValue is a 64-bit IEEE-754 float.
type FloatValue struct{ V float64 }

func (v FloatValue) Kind() types.Kind { return types.Float }
func (v FloatValue) String() string   { return types.FormatFloat(v.V) }

// StringValue is an immutable UTF-8 byte sequence.
type StringValue struct{ V string }

func (v StringValue) Kind() types.Kind { return types.String }
func (v StringValue) String() string   { return v.V }

// BoolValue is a boolean.
type BoolValue struct{ V bool }

func (v BoolValue) Kind() types.Kind { return types.Bool }
func (v BoolValue) String() string   { return types.FormatBool(v.V) }

// NullValue is the Null singleton.
type NullValue struct{}

func (NullValue) Kind() types.Kind { return types.Null }
func (NullValue) String() string   { return types.NullLiteralText }

// Null is the single shared Null value.
var Null = NullValue{}

// Truthy reports whether v counts as true in a boolean context. Only Bool
// values reach this in a well-typed program (the semantic analyzer rejects
// non-Bool conditions) — this exists for the built-ins that define their
// own truthiness rule (spec.md §4.4: bool(x)).
func Truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return val.V
	case IntValue:
		return val.V != 0
	case FloatValue:
		return val.V != 0
	case StringValue:
		return val.V != ""
	case NullValue:
		return false
	default:
		return false
	}
}
