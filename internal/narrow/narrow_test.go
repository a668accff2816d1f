package narrow

import (
	"testing"

	"typecore/internal/config"
	"typecore/internal/eval"
	"typecore/internal/inherit"
	"typecore/internal/source"
	"typecore/internal/subtype"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

type fixture struct {
	in    *types.Interner
	defs  *types.Definitions
	syms  *symbols.Decls
	graph *inherit.Graph
	n     *Narrower
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner(nil)
	defs := types.NewDefinitions()
	ev := eval.New(in, defs, config.DefaultLimits())
	graph := inherit.NewGraph()
	c := subtype.New(ev, graph, config.DefaultLimits(), config.DefaultStrictness())
	ev.SetExtends(c.IsSubtype)
	return &fixture{in: in, defs: defs, syms: symbols.NewDecls(0), graph: graph, n: New(ev, c)}
}

func (f *fixture) object(fields map[string]types.TypeID) types.TypeID {
	props := make([]types.Property, 0, len(fields))
	for name, id := range fields {
		props = append(props, types.Property{Name: f.in.Atoms().Intern(name), Type: id})
	}
	return f.in.Object(props)
}

func (f *fixture) atom(s string) source.Atom { return f.in.Atoms().Intern(s) }

func TestByTypeofOnUnion(t *testing.T) {
	f := newFixture(t)
	u := f.in.Union3(types.String, types.Number, types.Boolean)

	if got := f.n.ByTypeof(u, TagString, true); got != types.String {
		t.Fatalf("typeof === string keeps only string, got %d", got)
	}
	if got := f.n.ByTypeof(u, TagString, false); got != f.in.Union2(types.Number, types.Boolean) {
		t.Fatalf("typeof !== string drops string, got %d", got)
	}
}

func TestByTypeofSpecialCases(t *testing.T) {
	f := newFixture(t)
	if got := f.n.ByTypeof(types.Any, TagNumber, true); got != types.Number {
		t.Fatalf("any narrows to the tested primitive, got %d", got)
	}
	if got := f.n.ByTypeof(types.Any, TagNumber, false); got != types.Any {
		t.Fatalf("any stays any in the negative branch, got %d", got)
	}
	if got := f.n.ByTypeof(types.Unknown, TagFunction, true); got != types.FunctionTop {
		t.Fatalf("unknown narrows positively, got %d", got)
	}
	// typeof null is "object".
	if got := f.n.ByTypeof(f.in.Union2(types.Null, types.String), TagObject, true); got != types.Null {
		t.Fatalf("null survives a typeof object test, got %d", got)
	}
}

func TestByTypeofLiterals(t *testing.T) {
	f := newFixture(t)
	u := f.in.Union2(f.in.StringLiteral("a"), f.in.NumberLiteral(1))
	if got := f.n.ByTypeof(u, TagString, true); got != f.in.StringLiteral("a") {
		t.Fatalf("string literal carries the string tag, got %d", got)
	}
}

func TestByTypeofTypeParam(t *testing.T) {
	f := newFixture(t)
	param := f.in.TypeParam(types.TypeParamInfo{
		Name:       f.atom("T"),
		Constraint: f.in.Union2(types.String, types.Number),
	})
	got := f.n.ByTypeof(param, TagString, true)
	want := f.in.Intersection2(param, types.String)
	if got != want {
		t.Fatalf("param narrows its constraint and re-intersects: got %d want %d", got, want)
	}
}

func TestPresenceOnUnion(t *testing.T) {
	f := newFixture(t)
	withA := f.object(map[string]types.TypeID{"a": types.String})
	withB := f.object(map[string]types.TypeID{"b": types.Number})
	u := f.in.Union2(withA, withB)

	if got := f.n.ByPropertyPresence(u, f.atom("a"), true); got != withA {
		t.Fatalf("positive presence keeps only members carrying the property, got %d", got)
	}
	if got := f.n.ByPropertyPresence(u, f.atom("a"), false); got != withB {
		t.Fatalf("negative presence drops members requiring the property, got %d", got)
	}
}

func TestPresenceOptionalSurvivesNegative(t *testing.T) {
	f := newFixture(t)
	optional := f.in.Object([]types.Property{{Name: f.atom("a"), Type: types.String, Optional: true}})
	required := f.object(map[string]types.TypeID{"a": types.String})
	u := f.in.Union2(optional, required)

	got := f.n.ByPropertyPresence(u, f.atom("a"), false)
	if got != optional {
		t.Fatalf("optional member survives the negative branch, required drops: got %d", got)
	}
}

func TestPresencePromotesOptional(t *testing.T) {
	f := newFixture(t)
	optional := f.in.Object([]types.Property{{Name: f.atom("a"), Type: types.String, Optional: true}})
	got := f.n.ByPropertyPresence(optional, f.atom("a"), true)
	want := f.in.Intersection2(optional, f.in.Object([]types.Property{{Name: f.atom("a"), Type: types.String}}))
	if got != want {
		t.Fatalf("positive branch promotes the property to required: got %d want %d", got, want)
	}
}

func TestPresenceContradiction(t *testing.T) {
	f := newFixture(t)
	obj := f.object(map[string]types.TypeID{"a": types.String})
	if got := f.n.ByPropertyPresence(obj, f.atom("missing"), true); got != types.Never {
		t.Fatalf("asserting an absent property is a contradiction, got %d", got)
	}
	if got := f.n.ByPropertyPresence(obj, f.atom("a"), false); got != types.Never {
		t.Fatalf("denying a required property is a contradiction, got %d", got)
	}
}

func TestPresenceSpecialCases(t *testing.T) {
	f := newFixture(t)
	if got := f.n.ByPropertyPresence(types.Any, f.atom("a"), true); got != types.Any {
		t.Fatalf("any stays any, got %d", got)
	}
	if got := f.n.ByPropertyPresence(types.Never, f.atom("a"), false); got != types.Never {
		t.Fatalf("never stays never, got %d", got)
	}
	if got := f.n.ByPropertyPresence(types.Unknown, f.atom("a"), false); got != types.Unknown {
		t.Fatalf("unknown stays unknown negatively, got %d", got)
	}
	pos := f.n.ByPropertyPresence(types.Unknown, f.atom("a"), true)
	if pos == types.Unknown || pos == types.Never {
		t.Fatalf("unknown must narrow positively to an object requirement, got %d", pos)
	}
}

func TestPresenceResolvesLazy(t *testing.T) {
	f := newFixture(t)
	decl := f.syms.New(symbols.DeclTypeAlias, f.atom("Shape"))
	f.defs.Bind(decl, f.object(map[string]types.TypeID{"a": types.String}))
	lazy := f.in.Lazy(decl)

	if got := f.n.ByPropertyPresence(lazy, f.atom("a"), true); got != lazy {
		t.Fatalf("no-change narrowing must re-wrap the lazy handle, got %d", got)
	}
	if got := f.n.ByPropertyPresence(lazy, f.atom("a"), false); got != types.Never {
		t.Fatalf("contradiction reaches through the lazy wrapper, got %d", got)
	}
}

func TestByDiscriminant(t *testing.T) {
	f := newFixture(t)
	kind := f.atom("kind")
	circle := f.in.Object([]types.Property{
		{Name: kind, Type: f.in.StringLiteral("circle")},
		{Name: f.atom("radius"), Type: types.Number},
	})
	square := f.in.Object([]types.Property{
		{Name: kind, Type: f.in.StringLiteral("square")},
		{Name: f.atom("side"), Type: types.Number},
	})
	u := f.in.Union2(circle, square)

	if got := f.n.ByDiscriminant(u, kind, f.in.StringLiteral("circle"), true); got != circle {
		t.Fatalf("discriminant selects the matching member, got %d", got)
	}
	if got := f.n.ByDiscriminant(u, kind, f.in.StringLiteral("circle"), false); got != square {
		t.Fatalf("negated discriminant drops the matching member, got %d", got)
	}
}

func TestByInstanceType(t *testing.T) {
	f := newFixture(t)
	base := f.syms.New(symbols.DeclClass, f.atom("Base"))
	derived := f.syms.New(symbols.DeclClass, f.atom("Derived"))
	f.graph.AddInheritance(derived, []symbols.DeclID{base})

	baseT := f.in.ObjectNominal([]types.Property{{Name: f.atom("b"), Type: types.Number}}, base)
	derivedT := f.in.ObjectNominal([]types.Property{{Name: f.atom("d"), Type: types.String}}, derived)
	u := f.in.Union2(derivedT, types.String)

	if got := f.n.ByInstanceType(u, baseT, true); got != derivedT {
		t.Fatalf("instanceof keeps nominal descendants, got %d", got)
	}
	if got := f.n.ByInstanceType(u, baseT, false); got != types.String {
		t.Fatalf("negated instanceof drops descendants, got %d", got)
	}
	if got := f.n.ByInstanceType(types.Unknown, baseT, true); got != baseT {
		t.Fatalf("unknown narrows to the instance type, got %d", got)
	}
}
