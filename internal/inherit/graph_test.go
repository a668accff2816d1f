package inherit

import (
	"testing"

	"typecore/internal/source"
	"typecore/internal/symbols"
)

func newDecls(t *testing.T, names ...string) (*symbols.Decls, map[string]symbols.DeclID) {
	t.Helper()
	atoms := source.NewInterner()
	decls := symbols.NewDecls(0)
	ids := make(map[string]symbols.DeclID, len(names))
	for _, name := range names {
		ids[name] = decls.New(symbols.DeclClass, atoms.Intern(name))
	}
	return decls, ids
}

func TestDiamondTransitivity(t *testing.T) {
	_, ids := newDecls(t, "A", "B", "C", "D")
	g := NewGraph()
	g.AddInheritance(ids["B"], []symbols.DeclID{ids["A"]})
	g.AddInheritance(ids["C"], []symbols.DeclID{ids["A"]})
	g.AddInheritance(ids["D"], []symbols.DeclID{ids["B"], ids["C"]})

	if !g.IsDerivedFrom(ids["D"], ids["A"]) {
		t.Fatalf("D must derive from A through both paths")
	}
	if !g.IsDerivedFrom(ids["D"], ids["B"]) || !g.IsDerivedFrom(ids["D"], ids["C"]) {
		t.Fatalf("D must derive from its direct parents")
	}
	if g.IsDerivedFrom(ids["A"], ids["D"]) {
		t.Fatalf("derivation must not run upside down")
	}
	if g.IsDerivedFrom(ids["D"], ids["D"]) {
		t.Fatalf("a declaration is not derived from itself")
	}

	anc, ok := g.FindCommonAncestor(ids["B"], ids["C"])
	if !ok || anc != ids["A"] {
		t.Fatalf("common ancestor of B and C = %d, want A", anc)
	}
}

func TestResolutionOrder(t *testing.T) {
	_, ids := newDecls(t, "A", "B", "C", "D")
	g := NewGraph()
	g.AddInheritance(ids["B"], []symbols.DeclID{ids["A"]})
	g.AddInheritance(ids["C"], []symbols.DeclID{ids["A"]})
	g.AddInheritance(ids["D"], []symbols.DeclID{ids["B"], ids["C"]})

	got := g.ResolutionOrder(ids["D"])
	want := []symbols.DeclID{ids["D"], ids["B"], ids["C"], ids["A"]}
	if len(got) != len(want) {
		t.Fatalf("resolution order %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resolution order %v, want %v", got, want)
		}
	}
}

func TestIdempotentReregistration(t *testing.T) {
	_, ids := newDecls(t, "A", "B")
	g := NewGraph()
	g.AddInheritance(ids["B"], []symbols.DeclID{ids["A"]})
	if !g.IsDerivedFrom(ids["B"], ids["A"]) {
		t.Fatalf("B must derive from A")
	}
	// Same parent list again: caches stay warm, result unchanged.
	g.AddInheritance(ids["B"], []symbols.DeclID{ids["A"]})
	if !g.IsDerivedFrom(ids["B"], ids["A"]) {
		t.Fatalf("re-registration must not lose the edge")
	}
}

func TestParentChangeInvalidates(t *testing.T) {
	_, ids := newDecls(t, "A", "B", "C")
	g := NewGraph()
	g.AddInheritance(ids["C"], []symbols.DeclID{ids["A"]})
	if !g.IsDerivedFrom(ids["C"], ids["A"]) {
		t.Fatalf("C must derive from A")
	}
	g.AddInheritance(ids["C"], []symbols.DeclID{ids["B"]})
	if g.IsDerivedFrom(ids["C"], ids["A"]) {
		t.Fatalf("stale ancestor cache survived a parent change")
	}
	if !g.IsDerivedFrom(ids["C"], ids["B"]) {
		t.Fatalf("C must derive from its new parent")
	}
}

func TestCycleTermination(t *testing.T) {
	_, ids := newDecls(t, "A", "B")
	g := NewGraph()
	g.AddInheritance(ids["A"], []symbols.DeclID{ids["B"]})
	if g.DetectsCycle(ids["A"], ids["B"]) == false && g.DetectsCycle(ids["B"], ids["A"]) == false {
		t.Fatalf("closing the loop must be detectable before registration")
	}
	// Register the cycle anyway: traversals must terminate.
	g.AddInheritance(ids["B"], []symbols.DeclID{ids["A"]})
	if !g.IsDerivedFrom(ids["A"], ids["B"]) || !g.IsDerivedFrom(ids["B"], ids["A"]) {
		t.Fatalf("cyclic graph still answers derived-from")
	}
	order := g.ResolutionOrder(ids["A"])
	if len(order) != 2 {
		t.Fatalf("cyclic resolution order %v, want two entries", order)
	}
}
