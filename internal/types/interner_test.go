package types

import (
	"testing"

	"typecore/internal/symbols"
)

func TestSeededHandles(t *testing.T) {
	in := NewInterner(nil)
	tt := in.MustLookup(String)
	if tt.Kind != KindIntrinsic || IntrinsicKind(tt.Op) != IntrString {
		t.Fatalf("String handle resolves to %v/%d", tt.Kind, tt.Op)
	}
	if in.Kind(Error) != KindError {
		t.Fatalf("Error handle kind = %v", in.Kind(Error))
	}
	if in.BooleanLiteral(true) != True || in.BooleanLiteral(false) != False {
		t.Fatalf("boolean literals must be the seeded handles")
	}
}

func TestInternDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner(nil)
	a := in.Array(String)
	b := in.Array(String)
	if a != b {
		t.Fatalf("array types should be deduplicated")
	}
	if in.Array(Number) == a {
		t.Fatalf("different element types must differ")
	}
}

func TestLiteralInterning(t *testing.T) {
	in := NewInterner(nil)
	a := in.StringLiteral("a")
	b := in.StringLiteral("a")
	if a != b {
		t.Fatalf("equal string literals must share a handle")
	}
	if in.NumberLiteral(1) != in.NumberLiteral(1) {
		t.Fatalf("equal number literals must share a handle")
	}
	if in.NumberLiteral(1) == in.NumberLiteral(2) {
		t.Fatalf("distinct number literals must differ")
	}
}

func TestUnionPermutationInvariance(t *testing.T) {
	in := NewInterner(nil)
	a := in.StringLiteral("a")
	b := in.StringLiteral("b")
	if in.Union2(a, b) != in.Union2(b, a) {
		t.Fatalf("union must be order independent")
	}
	if in.Union([]TypeID{a, a}) != a {
		t.Fatalf("union of duplicates must collapse to the member")
	}
	if in.Union([]TypeID{a, b, a, b}) != in.Union2(a, b) {
		t.Fatalf("union must deduplicate")
	}
}

func TestUnionAbsorption(t *testing.T) {
	in := NewInterner(nil)
	a := in.StringLiteral("a")
	if got := in.Union2(String, a); got != String {
		t.Fatalf("string | \"a\" = %d, want string", got)
	}
	if got := in.Union2(Any, String); got != Any {
		t.Fatalf("any must absorb unions")
	}
	if got := in.Union2(Unknown, String); got != Unknown {
		t.Fatalf("unknown must absorb unions when any is absent")
	}
	if got := in.Union2(Never, a); got != a {
		t.Fatalf("never must vanish from unions")
	}
	if got := in.Union(nil); got != Never {
		t.Fatalf("empty union = %d, want never", got)
	}
	if got := in.Union2(Error, a); got != Error {
		t.Fatalf("error must be contagious in unions")
	}
	if got := in.Union2(True, False); got != Boolean {
		t.Fatalf("true | false = %d, want boolean", got)
	}
}

func TestUnionFlattening(t *testing.T) {
	in := NewInterner(nil)
	a := in.StringLiteral("a")
	b := in.StringLiteral("b")
	c := in.StringLiteral("c")
	nested := in.Union2(in.Union2(a, b), c)
	direct := in.Union3(a, b, c)
	if nested != direct {
		t.Fatalf("nested unions must flatten: %d != %d", nested, direct)
	}
}

func TestIntersectionNormalization(t *testing.T) {
	in := NewInterner(nil)
	a := in.StringLiteral("a")
	if got := in.Intersection2(a, Unknown); got != a {
		t.Fatalf("unknown is the intersection identity")
	}
	if got := in.Intersection2(a, Never); got != Never {
		t.Fatalf("never must absorb intersections")
	}
	if got := in.Intersection2(Any, Unknown); got != Any {
		t.Fatalf("any beats unknown in intersections")
	}
	if got := in.Intersection(nil); got != Unknown {
		t.Fatalf("empty intersection = %d, want unknown", got)
	}
	if got := in.Intersection2(a, String); got != a {
		t.Fatalf("\"a\" & string = %d, want \"a\"", got)
	}
}

func TestIntersectionDisjointPrimitives(t *testing.T) {
	in := NewInterner(nil)
	if got := in.Intersection2(String, Number); got != Never {
		t.Fatalf("string & number = %d, want never", got)
	}
	a := in.StringLiteral("a")
	b := in.StringLiteral("b")
	if got := in.Intersection2(a, b); got != Never {
		t.Fatalf("\"a\" & \"b\" = %d, want never", got)
	}
}

func TestIntersectionDiscriminantCollapse(t *testing.T) {
	in := NewInterner(nil)
	kind := in.Atoms().Intern("kind")
	litA := in.StringLiteral("a")
	litB := in.StringLiteral("b")

	reqA := in.Object([]Property{{Name: kind, Type: litA}})
	reqB := in.Object([]Property{{Name: kind, Type: litB}})
	if got := in.Intersection2(reqA, reqB); got != Never {
		t.Fatalf("required disjoint discriminants must collapse to never")
	}

	optA := in.Object([]Property{{Name: kind, Type: litA, Optional: true}})
	optB := in.Object([]Property{{Name: kind, Type: litB, Optional: true}})
	if got := in.Intersection2(optA, optB); got == Never {
		t.Fatalf("optional discriminants must not collapse to never")
	}
}

func TestIntersectionMergesObjectShapes(t *testing.T) {
	in := NewInterner(nil)
	x := in.Atoms().Intern("x")
	y := in.Atoms().Intern("y")
	left := in.Object([]Property{{Name: x, Type: String, Optional: true}})
	right := in.Object([]Property{{Name: x, Type: String, Readonly: true}, {Name: y, Type: Number}})
	got := in.Intersection2(left, right)
	want := in.Object([]Property{
		{Name: x, Type: String, Readonly: true},
		{Name: y, Type: Number},
	})
	if got != want {
		t.Fatalf("object intersection = %d, want merged object %d", got, want)
	}

	withIndex := in.ObjectShaped(ObjectShape{
		Props:       []Property{{Name: y, Type: Number}},
		StringIndex: IndexSignature{Value: Number, Present: true},
	})
	merged := in.Intersection2(left, withIndex)
	if in.Kind(merged) != KindObjectWithIndex {
		t.Fatalf("merged shape must keep the index signature, got %v", in.Kind(merged))
	}
}

func TestIntersectionKeepsNominalShapes(t *testing.T) {
	in := NewInterner(nil)
	x := in.Atoms().Intern("x")
	plain := in.Object([]Property{{Name: x, Type: String}})
	nominal := in.ObjectShaped(ObjectShape{
		Props: []Property{{Name: x, Type: String}},
		Decl:  symbols.DeclID(1),
	})
	got := in.Intersection2(plain, nominal)
	if in.Kind(got) != KindIntersection {
		t.Fatalf("nominal member must stay an intersection, got %v", in.Kind(got))
	}
}

func TestObjectPropertyOrderIndependence(t *testing.T) {
	in := NewInterner(nil)
	x := in.Atoms().Intern("x")
	y := in.Atoms().Intern("y")
	a := in.Object([]Property{{Name: x, Type: Number}, {Name: y, Type: String}})
	b := in.Object([]Property{{Name: y, Type: String}, {Name: x, Type: Number}})
	if a != b {
		t.Fatalf("property construction order must not affect the handle")
	}
}

func TestLargeShapePropertyIndex(t *testing.T) {
	in := NewInterner(nil)
	props := make([]Property, 0, largeShapeThreshold+4)
	for i := 0; i < largeShapeThreshold+4; i++ {
		props = append(props, Property{
			Name: in.Atoms().Intern(string(rune('a' + i))),
			Type: Number,
		})
	}
	id := in.Object(props)
	tt := in.MustLookup(id)
	want := in.Atoms().Intern("c")
	idx, ok := in.PropertyIndex(tt.Payload, want)
	if !ok {
		t.Fatalf("property c not found in large shape")
	}
	if in.Shape(tt.Payload).Props[idx].Name != want {
		t.Fatalf("index lookup returned wrong property")
	}
}

func TestTemplateLiteralNormalization(t *testing.T) {
	in := NewInterner(nil)
	hello := TemplateSpan{Text: in.Atoms().Intern("hello ")}
	world := TemplateSpan{Text: in.Atoms().Intern("world")}

	if got := in.TemplateLiteral([]TemplateSpan{hello, world}); got != in.StringLiteral("hello world") {
		t.Fatalf("all-text template must intern as a string literal")
	}
	if got := in.TemplateLiteral([]TemplateSpan{hello, {Type: Any}}); got != String {
		t.Fatalf("any interpolation must widen the template to string")
	}
	if got := in.TemplateLiteral([]TemplateSpan{hello, {Type: Never}}); got != Never {
		t.Fatalf("never interpolation must poison the template")
	}
	if got := in.TemplateLiteral([]TemplateSpan{hello, {Type: Null}}); got != in.StringLiteral("hello null") {
		t.Fatalf("null interpolation must stringify")
	}
	if got := in.TemplateLiteral([]TemplateSpan{hello, {Type: in.StringLiteral("")}}); got != in.StringLiteral("hello ") {
		t.Fatalf("empty-string interpolation must vanish")
	}
	if got := in.TemplateLiteral([]TemplateSpan{hello, {Type: in.NumberLiteral(42)}}); got != in.StringLiteral("hello 42") {
		t.Fatalf("number literal interpolation must stringify")
	}

	tpl := in.TemplateLiteral([]TemplateSpan{hello, {Type: String}})
	again := in.TemplateLiteral([]TemplateSpan{hello, {Type: String}})
	if tpl != again {
		t.Fatalf("equal templates must share a handle")
	}
	if in.Kind(tpl) != KindTemplate {
		t.Fatalf("open template must stay a template, got %v", in.Kind(tpl))
	}
}

func TestTemplateNestedFlattening(t *testing.T) {
	in := NewInterner(nil)
	inner := in.TemplateLiteral([]TemplateSpan{
		{Text: in.Atoms().Intern("x-")},
		{Type: String},
	})
	outer := in.TemplateLiteral([]TemplateSpan{
		{Text: in.Atoms().Intern("pre-")},
		{Type: inner},
	})
	direct := in.TemplateLiteral([]TemplateSpan{
		{Text: in.Atoms().Intern("pre-x-")},
		{Type: String},
	})
	if outer != direct {
		t.Fatalf("nested template must flatten into the parent")
	}
}
