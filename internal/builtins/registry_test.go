package builtins

import "testing"

func TestLookupKnownBuiltin(t *testing.T) {
	r := NewRegistry()
	s := r.Lookup("println")
	if s == nil {
		t.Fatal("expected println to be registered")
	}
	if s.Arity != 1 || s.Tag != TagPrintln {
		t.Errorf("got %+v", s)
	}
}

func TestLookupUnknownBuiltin(t *testing.T) {
	r := NewRegistry()
	if r.Lookup("nosuch") != nil {
		t.Error("expected nil for unregistered name")
	}
}

func TestNamesNonEmpty(t *testing.T) {
	r := NewRegistry()
	if len(r.Names()) != len(builtinTable) {
		t.Errorf("got %d names, want %d", len(r.Names()), len(builtinTable))
	}
}

func TestRegistryIsolatedPerInstance(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()
	s1 := r1.Lookup("abs")
	s2 := r2.Lookup("abs")
	if s1 == s2 {
		t.Error("expected independently-allocated Schema instances")
	}
	if s1.Name != s2.Name || s1.Tag != s2.Tag || s1.Arity != s2.Arity {
		t.Error("expected schemas to be equal in content")
	}
}
