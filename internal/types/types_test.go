package types

import "testing"

func TestEqual(t *testing.T) {
	if !TInt.Equal(TInt) {
		t.Error("Int should equal Int")
	}
	if TInt.Equal(TFloat) {
		t.Error("Int should not equal Float")
	}
	f1 := NewFunction([]Type{TInt, TString}, TBool)
	f2 := NewFunction([]Type{TInt, TString}, TBool)
	f3 := NewFunction([]Type{TInt}, TBool)
	if !f1.Equal(f2) {
		t.Error("structurally identical functions should be equal")
	}
	if f1.Equal(f3) {
		t.Error("functions with different arity should not be equal")
	}
}

func TestWiden(t *testing.T) {
	cases := []struct {
		a, b Type
		want Type
		ok   bool
	}{
		{TInt, TInt, TInt, true},
		{TInt, TFloat, TFloat, true},
		{TFloat, TInt, TFloat, true},
		{TFloat, TFloat, TFloat, true},
		{TString, TInt, Type{}, false},
	}
	for _, c := range cases {
		got, ok := Widen(c.a, c.b)
		if ok != c.ok {
			t.Errorf("Widen(%s, %s) ok=%v, want %v", c.a, c.b, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("Widen(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestAssignableTo(t *testing.T) {
	if !AssignableTo(TInt, TFloat) {
		t.Error("Int should be assignable to Float")
	}
	if AssignableTo(TFloat, TInt) {
		t.Error("Float should not be assignable to Int")
	}
	if !AssignableTo(TString, TString) {
		t.Error("String should be assignable to String")
	}
}
