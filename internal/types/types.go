// Package types defines nlang's type sum and the widening/equality rules
// the semantic analyzer and back-ends share.
package types

import "strings"

// Kind enumerates the primitive type tags.
type Kind int

const (
	Unknown Kind = iota // inference placeholder; never survives semantic analysis
	Int
	Float
	Bool
	String
	Null
	Function
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Null:
		return "Null"
	case Function:
		return "Function"
	default:
		return "Invalid"
	}
}

// Type is the value of a type-checked expression or declared symbol.
// Two Types are equal iff structurally equal: same Kind, and for Function
// the same parameter and return types.
type Type struct {
	Kind       Kind
	Params     []Type // only meaningful when Kind == Function
	ReturnType *Type  // only meaningful when Kind == Function
}

// Primitive type singletons, safe to compare by value.
var (
	TInt     = Type{Kind: Int}
	TFloat   = Type{Kind: Float}
	TBool    = Type{Kind: Bool}
	TString  = Type{Kind: String}
	TNull    = Type{Kind: Null}
	TUnknown = Type{Kind: Unknown}
)

// NewFunction builds a Function type from parameter and return types.
func NewFunction(params []Type, ret Type) Type {
	return Type{Kind: Function, Params: params, ReturnType: &ret}
}

// Equal reports whether t and other are structurally identical.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != Function {
		return true
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	if (t.ReturnType == nil) != (other.ReturnType == nil) {
		return false
	}
	if t.ReturnType != nil && !t.ReturnType.Equal(*other.ReturnType) {
		return false
	}
	return true
}

// IsNumeric reports whether t is Int or Float.
func (t Type) IsNumeric() bool {
	return t.Kind == Int || t.Kind == Float
}

func (t Type) String() string {
	if t.Kind != Function {
		return t.Kind.String()
	}
	names := make([]string, len(t.Params))
	for i, p := range t.Params {
		names[i] = p.String()
	}
	ret := "Null"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return "Function(" + strings.Join(names, ", ") + ") -> " + ret
}

// Widen computes the join of two numeric types under nlang's sole implicit
// conversion: Int widens to Float in mixed arithmetic. Returns ok=false if
// neither type is numeric or the types otherwise don't unify.
func Widen(a, b Type) (result Type, ok bool) {
	if a.Kind == Float || b.Kind == Float {
		if a.IsNumeric() && b.IsNumeric() {
			return TFloat, true
		}
		return Type{}, false
	}
	if a.Kind == Int && b.Kind == Int {
		return TInt, true
	}
	return Type{}, false
}

// AssignableTo reports whether a value of type from can be stored into a
// binding of type to, applying Int->Float widening but no other implicit
// conversion.
func AssignableTo(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	return from.Kind == Int && to.Kind == Float
}
