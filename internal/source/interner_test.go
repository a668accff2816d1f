package source

import "testing"

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("length")
	b := in.Intern("length")
	if a != b {
		t.Fatalf("same string must intern to one atom: %d != %d", a, b)
	}
	if a == NoAtom {
		t.Fatalf("non-empty string must not intern to NoAtom")
	}
}

func TestInternEmptyIsNoAtom(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoAtom {
		t.Fatalf("empty string atom = %d, want NoAtom", got)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	in := NewInterner()
	id := in.Intern("toString")
	s, ok := in.Lookup(id)
	if !ok || s != "toString" {
		t.Fatalf("Lookup(%d) = %q, %v", id, s, ok)
	}
	if _, ok := in.Lookup(Atom(999)); ok {
		t.Fatalf("lookup of unknown atom must fail")
	}
}
