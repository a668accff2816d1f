package subtype

import (
	"testing"

	"typecore/internal/config"
	"typecore/internal/diag"
	"typecore/internal/eval"
	"typecore/internal/inherit"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

type fixture struct {
	in    *types.Interner
	defs  *types.Definitions
	syms  *symbols.Decls
	graph *inherit.Graph
	c     *Checker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner(nil)
	defs := types.NewDefinitions()
	ev := eval.New(in, defs, config.DefaultLimits())
	graph := inherit.NewGraph()
	c := New(ev, graph, config.DefaultLimits(), config.DefaultStrictness())
	ev.SetExtends(c.IsSubtype)
	return &fixture{in: in, defs: defs, syms: symbols.NewDecls(0), graph: graph, c: c}
}

func (f *fixture) object(fields map[string]types.TypeID) types.TypeID {
	props := make([]types.Property, 0, len(fields))
	for name, id := range fields {
		props = append(props, types.Property{Name: f.in.Atoms().Intern(name), Type: id})
	}
	return f.in.Object(props)
}

func TestReflexivity(t *testing.T) {
	f := newFixture(t)
	ids := []types.TypeID{
		types.String, types.Never, types.Any, types.Unknown,
		f.in.StringLiteral("x"),
		f.in.Array(types.Number),
		f.object(map[string]types.TypeID{"a": types.String}),
		f.in.Union2(types.String, types.Number),
		f.in.Tuple([]types.TupleElem{{Type: types.String}}),
	}
	for _, id := range ids {
		if !f.c.IsSubtype(id, id) {
			t.Fatalf("type %d must be a subtype of itself", id)
		}
	}
}

func TestTopAndBottom(t *testing.T) {
	f := newFixture(t)
	if !f.c.IsSubtype(types.Never, types.String) {
		t.Fatalf("never fits everything")
	}
	if f.c.IsSubtype(types.String, types.Never) {
		t.Fatalf("nothing but never fits never")
	}
	if !f.c.IsSubtype(types.String, types.Any) || !f.c.IsSubtype(types.String, types.Unknown) {
		t.Fatalf("any/unknown accept everything")
	}
	if !f.c.IsSubtype(types.Error, types.Number) || !f.c.IsSubtype(types.Number, types.Error) {
		t.Fatalf("the error sentinel is compatible both ways")
	}
}

func TestLiteralWidening(t *testing.T) {
	f := newFixture(t)
	if !f.c.IsSubtype(f.in.StringLiteral("a"), types.String) {
		t.Fatalf("string literal widens to string")
	}
	if !f.c.IsSubtype(f.in.NumberLiteral(3), types.Number) {
		t.Fatalf("number literal widens to number")
	}
	if f.c.IsSubtype(f.in.StringLiteral("a"), types.Number) {
		t.Fatalf("literal must not widen across primitives")
	}
	if f.c.IsSubtype(f.in.StringLiteral("a"), f.in.StringLiteral("b")) {
		t.Fatalf("distinct literals are incompatible")
	}
	if f.c.IsSubtype(types.String, f.in.StringLiteral("a")) {
		t.Fatalf("string must not narrow to a literal")
	}
}

func TestUnionAsymmetry(t *testing.T) {
	f := newFixture(t)
	su := f.in.Union2(types.String, types.Number)
	if !f.c.IsSubtype(types.String, su) {
		t.Fatalf("member fits its union")
	}
	if f.c.IsSubtype(su, types.String) {
		t.Fatalf("union source needs every member to fit")
	}
	wide := f.in.Union3(types.String, types.Number, types.Boolean)
	if !f.c.IsSubtype(su, wide) {
		t.Fatalf("narrower union fits wider union")
	}
	if !f.c.IsSubtype(types.Boolean, f.in.Union2(types.True, types.False)) {
		t.Fatalf("boolean is true|false")
	}
}

func TestIntersectionDuals(t *testing.T) {
	f := newFixture(t)
	a := f.object(map[string]types.TypeID{"a": types.String})
	b := f.object(map[string]types.TypeID{"b": types.Number})
	both := f.in.Intersection2(a, b)
	if !f.c.IsSubtype(both, a) || !f.c.IsSubtype(both, b) {
		t.Fatalf("intersection source fits each member target")
	}
	ab := f.object(map[string]types.TypeID{"a": types.String, "b": types.Number})
	if !f.c.IsSubtype(ab, both) {
		t.Fatalf("intersection target needs all members satisfied")
	}
	if f.c.IsSubtype(a, both) {
		t.Fatalf("one member does not satisfy the whole intersection")
	}
}

func TestIntersectionSatisfiesCombinedShape(t *testing.T) {
	f := newFixture(t)
	a := f.object(map[string]types.TypeID{"a": types.String})
	b := f.object(map[string]types.TypeID{"b": types.Number})
	both := f.object(map[string]types.TypeID{"a": types.String, "b": types.Number})
	inter := f.in.Intersection2(a, b)
	if !f.c.IsSubtype(inter, both) {
		t.Fatalf("{a} & {b} must satisfy the combined shape")
	}
	if !f.c.IsSubtype(both, inter) {
		t.Fatalf("the combined shape must satisfy {a} & {b}")
	}
}

func TestObjectStructural(t *testing.T) {
	f := newFixture(t)
	dog := f.object(map[string]types.TypeID{"name": types.String, "breed": types.String})
	animal := f.object(map[string]types.TypeID{"name": types.String})
	if !f.c.IsSubtype(dog, animal) {
		t.Fatalf("wider object fits narrower target")
	}
	if f.c.IsSubtype(animal, dog) {
		t.Fatalf("missing required property must fail")
	}

	ok, reasons := f.c.Explain(animal, dog)
	if ok {
		t.Fatalf("Explain must agree with IsSubtype")
	}
	found := false
	for _, r := range reasons {
		if r.Kind == diag.ReasonPropertyMissing {
			found = true
			if r.Code() != diag.PropertyMissing {
				t.Fatalf("missing-property reason maps to code %v", r.Code())
			}
		}
	}
	if !found {
		t.Fatalf("expected a property-missing reason, got %+v", reasons)
	}
}

func TestObjectOptionality(t *testing.T) {
	f := newFixture(t)
	required := f.in.Object([]types.Property{{Name: f.in.Atoms().Intern("x"), Type: types.Number}})
	optional := f.in.Object([]types.Property{{Name: f.in.Atoms().Intern("x"), Type: types.Number, Optional: true}})
	empty := f.in.Object(nil)

	if !f.c.IsSubtype(required, optional) {
		t.Fatalf("required satisfies optional target")
	}
	if !f.c.IsSubtype(empty, optional) {
		t.Fatalf("optional target property may be absent")
	}
	if f.c.IsSubtype(optional, required) {
		t.Fatalf("optional source must not satisfy required target")
	}
	if f.c.IsSubtype(empty, required) {
		t.Fatalf("absent property must not satisfy required target")
	}
}

func TestApparentPrimitiveShape(t *testing.T) {
	f := newFixture(t)
	hasLength := f.object(map[string]types.TypeID{"length": types.Number})
	if !f.c.IsSubtype(types.String, hasLength) {
		t.Fatalf("string satisfies a numeric length requirement")
	}
	if !f.c.IsSubtype(f.in.StringLiteral("abc"), hasLength) {
		t.Fatalf("string literal inherits the apparent shape")
	}
	if f.c.IsSubtype(types.Number, hasLength) {
		t.Fatalf("number has no length member")
	}
	if !f.c.IsSubtype(f.in.Array(types.String), hasLength) {
		t.Fatalf("arrays expose a numeric length")
	}
}

func TestRecursiveTypesTerminate(t *testing.T) {
	f := newFixture(t)
	declA := f.syms.New(symbols.DeclInterface, f.in.Atoms().Intern("ListA"))
	declB := f.syms.New(symbols.DeclInterface, f.in.Atoms().Intern("ListB"))

	mkList := func(decl symbols.DeclID) types.TypeID {
		return f.in.Object([]types.Property{
			{Name: f.in.Atoms().Intern("value"), Type: types.Number},
			{Name: f.in.Atoms().Intern("next"), Type: f.in.Union2(f.in.Lazy(decl), types.Null)},
		})
	}
	f.defs.Bind(declA, mkList(declA))
	f.defs.Bind(declB, mkList(declB))

	if !f.c.IsSubtype(f.in.Lazy(declA), f.in.Lazy(declA)) {
		t.Fatalf("recursive type must be a subtype of itself")
	}
	if !f.c.IsSubtype(f.in.Lazy(declA), f.in.Lazy(declB)) {
		t.Fatalf("isomorphic recursive types must be mutually assignable")
	}
}

func TestRecursionBudgetFailsClosed(t *testing.T) {
	f := newFixture(t)
	limits := config.DefaultLimits()
	limits.SubtypeDepth = 3
	ev := eval.New(f.in, f.defs, limits)
	c := New(ev, f.graph, limits, config.DefaultStrictness())

	deepS, deepT := types.String, types.Number
	for i := 0; i < 8; i++ {
		deepS = f.in.Array(deepS)
		deepT = f.in.Array(deepT)
	}
	ok, reasons := c.Explain(deepS, deepT)
	if ok {
		t.Fatalf("budget exhaustion must fail closed")
	}
	found := false
	for _, r := range reasons {
		if r.Kind == diag.ReasonRecursionLimit {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a recursion-limit reason, got %+v", reasons)
	}
}

func TestFunctionParameterVariance(t *testing.T) {
	f := newFixture(t)
	animal := f.object(map[string]types.TypeID{"name": types.String})
	dog := f.object(map[string]types.TypeID{"name": types.String, "breed": types.String})

	takesAnimal := f.in.Function(types.FunctionShape{Params: []types.Param{{Type: animal}}, Return: types.Void})
	takesDog := f.in.Function(types.FunctionShape{Params: []types.Param{{Type: dog}}, Return: types.Void})

	if f.c.Check(takesAnimal, takesDog, FastTracer{}) != VerdictTrue {
		t.Fatalf("contravariant parameter direction must pass cleanly")
	}
	if got := f.c.Check(takesDog, takesAnimal, FastTracer{}); got != VerdictBivariant {
		t.Fatalf("covariant-only parameters must surface as bivariant, got %d", got)
	}
	if !f.c.IsSubtype(takesDog, takesAnimal) {
		t.Fatalf("the boolean form accepts bivariant passes")
	}

	// Methods stay bivariant even under strict function types.
	methodDog := f.in.Function(types.FunctionShape{Params: []types.Param{{Type: dog}}, Return: types.Void, IsMethod: true})
	if f.c.Check(methodDog, takesAnimal, FastTracer{}) != VerdictTrue {
		t.Fatalf("method parameters check bivariantly")
	}

	unrelated := f.in.Function(types.FunctionShape{Params: []types.Param{{Type: types.Number}}, Return: types.Void})
	if f.c.IsSubtype(takesAnimal, unrelated) {
		t.Fatalf("incompatible parameter types must fail both directions")
	}
}

func TestFunctionReturnsAndArity(t *testing.T) {
	f := newFixture(t)
	retNum := f.in.Function(types.FunctionShape{Return: types.Number})
	retStr := f.in.Function(types.FunctionShape{Return: types.String})
	retVoid := f.in.Function(types.FunctionShape{Return: types.Void})

	if f.c.IsSubtype(retNum, retStr) {
		t.Fatalf("returns are covariant")
	}
	if !f.c.IsSubtype(retNum, retVoid) {
		t.Fatalf("a void target discards the return value")
	}

	twoParams := f.in.Function(types.FunctionShape{
		Params: []types.Param{{Type: types.String}, {Type: types.String}},
		Return: types.Void,
	})
	oneParam := f.in.Function(types.FunctionShape{
		Params: []types.Param{{Type: types.String}},
		Return: types.Void,
	})
	if !f.c.IsSubtype(oneParam, twoParams) {
		t.Fatalf("fewer parameters fit a longer signature")
	}
	if f.c.IsSubtype(twoParams, oneParam) {
		t.Fatalf("extra required parameters must fail")
	}
	ok, reasons := f.c.Explain(twoParams, oneParam)
	if ok || len(reasons) == 0 || reasons[0].Kind != diag.ReasonParamCount {
		t.Fatalf("expected a parameter-count reason, got %v %+v", ok, reasons)
	}
}

func TestTupleAndArrayRules(t *testing.T) {
	f := newFixture(t)
	pair := f.in.Tuple([]types.TupleElem{{Type: types.String}, {Type: types.Number}})
	wider := f.in.Tuple([]types.TupleElem{{Type: types.String}, {Type: f.in.Union2(types.Number, types.String)}})
	if !f.c.IsSubtype(pair, wider) {
		t.Fatalf("tuples are covariant per element")
	}
	if f.c.IsSubtype(wider, pair) {
		t.Fatalf("wider element must not fit narrower tuple slot")
	}

	arr := f.in.Array(f.in.Union2(types.String, types.Number))
	if !f.c.IsSubtype(pair, arr) {
		t.Fatalf("tuple fits an array of its element union")
	}
	if f.c.IsSubtype(arr, pair) {
		t.Fatalf("array must not fit a tuple")
	}

	mutable := f.in.Array(types.String)
	ro := f.in.ReadonlyOf(mutable)
	if !f.c.IsSubtype(mutable, ro) {
		t.Fatalf("mutable array fits readonly array")
	}
	if f.c.IsSubtype(ro, mutable) {
		t.Fatalf("readonly array must not fit mutable array")
	}
}

func TestNominalFastPath(t *testing.T) {
	f := newFixture(t)
	base := f.syms.New(symbols.DeclClass, f.in.Atoms().Intern("Base"))
	derived := f.syms.New(symbols.DeclClass, f.in.Atoms().Intern("Derived"))
	other := f.syms.New(symbols.DeclClass, f.in.Atoms().Intern("Other"))
	f.graph.AddInheritance(derived, []symbols.DeclID{base})

	// The derived shape is structurally unrelated; only ancestry
	// makes it assignable.
	baseT := f.in.ObjectNominal([]types.Property{{Name: f.in.Atoms().Intern("secret"), Type: types.Number}}, base)
	derivedT := f.in.ObjectNominal([]types.Property{{Name: f.in.Atoms().Intern("other"), Type: types.String}}, derived)
	otherT := f.in.ObjectNominal([]types.Property{{Name: f.in.Atoms().Intern("other"), Type: types.String}}, other)

	if !f.c.IsSubtype(derivedT, baseT) {
		t.Fatalf("derived class passes the nominal fast path")
	}
	if f.c.IsSubtype(otherT, baseT) {
		t.Fatalf("unrelated class falls back to structure and fails")
	}
}

func TestEnumNominal(t *testing.T) {
	f := newFixture(t)
	colorDecl := f.syms.New(symbols.DeclEnum, f.in.Atoms().Intern("Color"))
	sizeDecl := f.syms.New(symbols.DeclEnum, f.in.Atoms().Intern("Size"))
	members := f.in.Union2(f.in.NumberLiteral(0), f.in.NumberLiteral(1))
	color := f.in.EnumType(colorDecl, members)
	size := f.in.EnumType(sizeDecl, members)

	if !f.c.IsSubtype(color, color) {
		t.Fatalf("enum is assignable to itself")
	}
	if f.c.IsSubtype(color, size) {
		t.Fatalf("structurally equal enums stay nominally distinct")
	}
	if !f.c.IsSubtype(color, types.Number) {
		t.Fatalf("enum widens structurally to its member primitives")
	}
	if f.c.IsSubtype(types.Number, color) {
		t.Fatalf("primitive must not narrow into an enum")
	}
}

func TestTemplateMatching(t *testing.T) {
	f := newFixture(t)
	tmpl := f.in.TemplateLiteral([]types.TemplateSpan{
		{Text: f.in.Atoms().Intern("user-")},
		{Type: types.Number},
	})
	if !f.c.IsSubtype(f.in.StringLiteral("user-42"), tmpl) {
		t.Fatalf("matching literal fits the template")
	}
	if f.c.IsSubtype(f.in.StringLiteral("user-x"), tmpl) {
		t.Fatalf("non-numeric tail must not match a number span")
	}
	if f.c.IsSubtype(types.String, tmpl) {
		t.Fatalf("plain string is wider than the template")
	}
	if !f.c.IsSubtype(tmpl, types.String) {
		t.Fatalf("every template inhabits string")
	}

	open := f.in.TemplateLiteral([]types.TemplateSpan{
		{Text: f.in.Atoms().Intern("id-")},
		{Type: types.String},
	})
	if !f.c.IsSubtype(f.in.StringLiteral("id-"), open) {
		t.Fatalf("a string interpolation matches the empty tail")
	}
}

func TestTemplateSourceAgainstTemplateTarget(t *testing.T) {
	f := newFixture(t)
	anyString := f.in.TemplateLiteral([]types.TemplateSpan{
		{Type: types.String},
	})
	prefixed := f.in.TemplateLiteral([]types.TemplateSpan{
		{Text: f.in.Atoms().Intern("a-")},
		{Type: types.String},
	})
	numbered := f.in.TemplateLiteral([]types.TemplateSpan{
		{Text: f.in.Atoms().Intern("a-")},
		{Type: types.Number},
	})

	if !f.c.IsSubtype(prefixed, anyString) {
		t.Fatalf("`a-${string}` must fit `${string}`")
	}
	if !f.c.IsSubtype(numbered, prefixed) {
		t.Fatalf("`a-${number}` must fit `a-${string}`")
	}
	if !f.c.IsSubtype(prefixed, prefixed) {
		t.Fatalf("a template must fit itself")
	}
	if f.c.IsSubtype(anyString, prefixed) {
		t.Fatalf("`${string}` is wider than `a-${string}`")
	}
	if f.c.IsSubtype(prefixed, numbered) {
		t.Fatalf("`a-${string}` is wider than `a-${number}`")
	}

	wrapped := f.in.TemplateLiteral([]types.TemplateSpan{
		{Text: f.in.Atoms().Intern("a-")},
		{Type: types.Number},
		{Text: f.in.Atoms().Intern("-z")},
	})
	if !f.c.IsSubtype(wrapped, anyString) {
		t.Fatalf("`a-${number}-z` must fit `${string}`")
	}
	if f.c.IsSubtype(wrapped, numbered) {
		t.Fatalf("the trailing text must not fit a number span")
	}
}

func TestTypeParamConstraint(t *testing.T) {
	f := newFixture(t)
	param := f.in.TypeParam(types.TypeParamInfo{
		Name:       f.in.Atoms().Intern("T"),
		Constraint: types.String,
	})
	if !f.c.IsSubtype(param, types.String) {
		t.Fatalf("type parameter fits through its constraint")
	}
	if f.c.IsSubtype(param, types.Number) {
		t.Fatalf("constraint must bound what the parameter fits")
	}
	if f.c.IsSubtype(types.String, param) {
		t.Fatalf("nothing but the parameter itself fits a parameter target")
	}
}

func TestIndexSignatureRules(t *testing.T) {
	f := newFixture(t)
	dict := f.in.ObjectShaped(types.ObjectShape{
		StringIndex: types.IndexSignature{Value: types.Number, Present: true},
	})
	literalish := f.object(map[string]types.TypeID{"a": types.Number, "b": types.Number})
	mixed := f.object(map[string]types.TypeID{"a": types.Number, "b": types.String})

	if !f.c.IsSubtype(literalish, dict) {
		t.Fatalf("all-number properties satisfy a number dictionary")
	}
	if f.c.IsSubtype(mixed, dict) {
		t.Fatalf("a string property must not satisfy a number dictionary")
	}
	if !f.c.IsSubtype(dict, f.in.Object(nil)) {
		t.Fatalf("dictionary fits the empty object")
	}
}
