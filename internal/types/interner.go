package types

import (
	"fmt"
	"math"
	"slices"

	"fortio.org/safecast"

	"typecore/internal/source"
)

// largeShapeThreshold is the property count above which object shapes
// carry a name-to-index map instead of relying on linear scan.
const largeShapeThreshold = 16

// Interner provides stable TypeIDs by hashing canonical descriptors.
// All type data lives for the session; nothing interned is ever
// mutated or freed.
type Interner struct {
	atoms *source.Interner

	types []Type
	index map[Type]TypeID

	lists     [][]TypeID
	listIndex map[string]uint32

	tuples     [][]TupleElem
	tupleIndex map[string]uint32

	shapes     []ObjectShape
	shapeIndex map[string]uint32
	// shapeProps[i] is non-nil only for large shapes.
	shapeProps []map[source.Atom]int

	fns     []FunctionShape
	fnIndex map[string]uint32

	callables     []CallableShape
	callableIndex map[string]uint32

	templates     [][]TemplateSpan
	templateIndex map[string]uint32

	literals     []Literal
	literalIndex map[Literal]uint32

	params     []TypeParamInfo
	paramIndex map[TypeParamInfo]uint32

	conds     []Conditional
	condIndex map[Conditional]uint32

	mappeds     []Mapped
	mappedIndex map[Mapped]uint32
}

// NewInterner constructs an interner seeded with the intrinsic
// handles. The seeding order matches the exported TypeID constants.
func NewInterner(atoms *source.Interner) *Interner {
	if atoms == nil {
		atoms = source.NewInterner()
	}
	in := &Interner{
		atoms:         atoms,
		index:         make(map[Type]TypeID, 256),
		listIndex:     make(map[string]uint32, 64),
		tupleIndex:    make(map[string]uint32, 16),
		shapeIndex:    make(map[string]uint32, 64),
		fnIndex:       make(map[string]uint32, 32),
		callableIndex: make(map[string]uint32, 8),
		templateIndex: make(map[string]uint32, 8),
		literalIndex:  make(map[Literal]uint32, 64),
		paramIndex:    make(map[TypeParamInfo]uint32, 16),
		condIndex:     make(map[Conditional]uint32, 8),
		mappedIndex:   make(map[Mapped]uint32, 8),
	}
	// Slot 0 of every side table is a reserved invalid sentinel.
	in.lists = append(in.lists, nil)
	in.tuples = append(in.tuples, nil)
	in.shapes = append(in.shapes, ObjectShape{})
	in.shapeProps = append(in.shapeProps, nil)
	in.fns = append(in.fns, FunctionShape{})
	in.callables = append(in.callables, CallableShape{})
	in.templates = append(in.templates, nil)
	in.literals = append(in.literals, Literal{})
	in.params = append(in.params, TypeParamInfo{})
	in.conds = append(in.conds, Conditional{})
	in.mappeds = append(in.mappeds, Mapped{})

	in.seed()
	return in
}

// seed allocates the pre-defined handles in constant order.
func (in *Interner) seed() {
	in.internRaw(Type{Kind: KindInvalid}) // NoTypeID
	seeded := []struct {
		id TypeID
		t  Type
	}{
		{Error, Type{Kind: KindError}},
		{Never, Type{Kind: KindIntrinsic, Op: uint8(IntrNever)}},
		{Unknown, Type{Kind: KindIntrinsic, Op: uint8(IntrUnknown)}},
		{Any, Type{Kind: KindIntrinsic, Op: uint8(IntrAny)}},
		{Void, Type{Kind: KindIntrinsic, Op: uint8(IntrVoid)}},
		{Undefined, Type{Kind: KindIntrinsic, Op: uint8(IntrUndefined)}},
		{Null, Type{Kind: KindIntrinsic, Op: uint8(IntrNull)}},
		{Boolean, Type{Kind: KindIntrinsic, Op: uint8(IntrBoolean)}},
		{Number, Type{Kind: KindIntrinsic, Op: uint8(IntrNumber)}},
		{String, Type{Kind: KindIntrinsic, Op: uint8(IntrString)}},
		{Bigint, Type{Kind: KindIntrinsic, Op: uint8(IntrBigint)}},
		{Symbol, Type{Kind: KindIntrinsic, Op: uint8(IntrSymbol)}},
		{ObjectTop, Type{Kind: KindIntrinsic, Op: uint8(IntrObject)}},
		{True, Type{Kind: KindLiteral, Payload: in.internLiteral(Literal{Kind: LitBoolean, Bool: true})}},
		{False, Type{Kind: KindLiteral, Payload: in.internLiteral(Literal{Kind: LitBoolean, Bool: false})}},
		{FunctionTop, Type{Kind: KindIntrinsic, Op: uint8(IntrFunction)}},
		{Delegate, Type{Kind: KindDelegate}},
	}
	for _, s := range seeded {
		if got := in.internRaw(s.t); got != s.id {
			panic(fmt.Errorf("types: seed order broken, got %d want %d", got, s.id))
		}
	}
}

// Atoms returns the string interner backing this type store.
func (in *Interner) Atoms() *source.Interner { return in.atoms }

// Intern ensures the descriptor has a stable TypeID. Interning is
// total: malformed descriptors come back as the error sentinel, never
// as a failure.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return Error
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// Kind returns the structural kind of a type, KindInvalid for bad IDs.
func (in *Interner) Kind(id TypeID) Kind {
	t, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

// Side-table interning -------------------------------------------------------

func (in *Interner) internList(members []TypeID) uint32 {
	key := listKey(members)
	if slot, ok := in.listIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.lists), "type list")
	in.lists = append(in.lists, slices.Clone(members))
	in.listIndex[key] = slot
	return slot
}

// List returns the interned member list. The returned slice is shared
// canonical storage and must not be mutated.
func (in *Interner) List(slot uint32) []TypeID {
	if slot == 0 || int(slot) >= len(in.lists) {
		return nil
	}
	return in.lists[slot]
}

func (in *Interner) internTuple(elems []TupleElem) uint32 {
	key := tupleKey(elems)
	if slot, ok := in.tupleIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.tuples), "tuple list")
	in.tuples = append(in.tuples, slices.Clone(elems))
	in.tupleIndex[key] = slot
	return slot
}

// TupleElems returns the interned tuple element list.
func (in *Interner) TupleElems(slot uint32) []TupleElem {
	if slot == 0 || int(slot) >= len(in.tuples) {
		return nil
	}
	return in.tuples[slot]
}

func (in *Interner) internShape(shape ObjectShape) uint32 {
	key := shapeKey(&shape)
	if slot, ok := in.shapeIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.shapes), "object shape")
	stored := ObjectShape{
		Props:       slices.Clone(shape.Props),
		StringIndex: shape.StringIndex,
		NumberIndex: shape.NumberIndex,
		Decl:        shape.Decl,
	}
	in.shapes = append(in.shapes, stored)
	var byName map[source.Atom]int
	if len(stored.Props) > largeShapeThreshold {
		byName = make(map[source.Atom]int, len(stored.Props))
		for i, p := range stored.Props {
			byName[p.Name] = i
		}
	}
	in.shapeProps = append(in.shapeProps, byName)
	in.shapeIndex[key] = slot
	return slot
}

// Shape returns the interned object shape. Shared storage, read-only.
func (in *Interner) Shape(slot uint32) *ObjectShape {
	if slot == 0 || int(slot) >= len(in.shapes) {
		return nil
	}
	return &in.shapes[slot]
}

// PropertyIndex finds a property by name inside a shape: the large
// shapes consult their name map, small shapes scan.
func (in *Interner) PropertyIndex(slot uint32, name source.Atom) (int, bool) {
	shape := in.Shape(slot)
	if shape == nil {
		return 0, false
	}
	if byName := in.shapeProps[slot]; byName != nil {
		i, ok := byName[name]
		return i, ok
	}
	for i, p := range shape.Props {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (in *Interner) internFn(fn FunctionShape) uint32 {
	key := fnKey(&fn)
	if slot, ok := in.fnIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.fns), "function shape")
	in.fns = append(in.fns, FunctionShape{
		TypeParams:    slices.Clone(fn.TypeParams),
		Params:        slices.Clone(fn.Params),
		This:          fn.This,
		Return:        fn.Return,
		IsConstructor: fn.IsConstructor,
		IsMethod:      fn.IsMethod,
	})
	in.fnIndex[key] = slot
	return slot
}

// Fn returns the interned function shape.
func (in *Interner) Fn(slot uint32) *FunctionShape {
	if slot == 0 || int(slot) >= len(in.fns) {
		return nil
	}
	return &in.fns[slot]
}

func (in *Interner) internCallable(c CallableShape) uint32 {
	key := callableKey(&c)
	if slot, ok := in.callableIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.callables), "callable shape")
	in.callables = append(in.callables, CallableShape{
		CallSignatures:      slices.Clone(c.CallSignatures),
		ConstructSignatures: slices.Clone(c.ConstructSignatures),
		Props:               slices.Clone(c.Props),
		StringIndex:         c.StringIndex,
		NumberIndex:         c.NumberIndex,
		Decl:                c.Decl,
	})
	in.callableIndex[key] = slot
	return slot
}

// Callable returns the interned callable shape.
func (in *Interner) Callable(slot uint32) *CallableShape {
	if slot == 0 || int(slot) >= len(in.callables) {
		return nil
	}
	return &in.callables[slot]
}

func (in *Interner) internTemplate(spans []TemplateSpan) uint32 {
	key := templateKey(spans)
	if slot, ok := in.templateIndex[key]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.templates), "template span list")
	in.templates = append(in.templates, slices.Clone(spans))
	in.templateIndex[key] = slot
	return slot
}

// TemplateSpans returns the interned span list.
func (in *Interner) TemplateSpans(slot uint32) []TemplateSpan {
	if slot == 0 || int(slot) >= len(in.templates) {
		return nil
	}
	return in.templates[slot]
}

func (in *Interner) internLiteral(lit Literal) uint32 {
	if slot, ok := in.literalIndex[lit]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.literals), "literal")
	in.literals = append(in.literals, lit)
	in.literalIndex[lit] = slot
	return slot
}

// LiteralValue returns the interned literal record.
func (in *Interner) LiteralValue(slot uint32) (Literal, bool) {
	if slot == 0 || int(slot) >= len(in.literals) {
		return Literal{}, false
	}
	return in.literals[slot], true
}

func (in *Interner) internParam(tp TypeParamInfo) uint32 {
	if slot, ok := in.paramIndex[tp]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.params), "type param")
	in.params = append(in.params, tp)
	in.paramIndex[tp] = slot
	return slot
}

// Param returns the interned type-parameter record.
func (in *Interner) Param(slot uint32) (TypeParamInfo, bool) {
	if slot == 0 || int(slot) >= len(in.params) {
		return TypeParamInfo{}, false
	}
	return in.params[slot], true
}

func (in *Interner) internCond(c Conditional) uint32 {
	if slot, ok := in.condIndex[c]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.conds), "conditional")
	in.conds = append(in.conds, c)
	in.condIndex[c] = slot
	return slot
}

// Cond returns the interned conditional record.
func (in *Interner) Cond(slot uint32) (Conditional, bool) {
	if slot == 0 || int(slot) >= len(in.conds) {
		return Conditional{}, false
	}
	return in.conds[slot], true
}

func (in *Interner) internMapped(m Mapped) uint32 {
	if slot, ok := in.mappedIndex[m]; ok {
		return slot
	}
	slot := in.sideSlot(len(in.mappeds), "mapped type")
	in.mappeds = append(in.mappeds, m)
	in.mappedIndex[m] = slot
	return slot
}

// MappedAt returns the interned mapped-type record.
func (in *Interner) MappedAt(slot uint32) (Mapped, bool) {
	if slot == 0 || int(slot) >= len(in.mappeds) {
		return Mapped{}, false
	}
	return in.mappeds[slot], true
}

func (in *Interner) sideSlot(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s table overflow: %w", what, err))
	}
	return slot
}

// Literal constructors -------------------------------------------------------

// StringLiteral interns the literal string type "s".
func (in *Interner) StringLiteral(s string) TypeID {
	atom := in.atoms.Intern(s)
	slot := in.internLiteral(Literal{Kind: LitString, Str: atom})
	return in.Intern(Type{Kind: KindLiteral, Payload: slot})
}

// StringLiteralAtom interns the literal string type for an existing atom.
func (in *Interner) StringLiteralAtom(atom source.Atom) TypeID {
	slot := in.internLiteral(Literal{Kind: LitString, Str: atom})
	return in.Intern(Type{Kind: KindLiteral, Payload: slot})
}

// NumberLiteral interns the literal number type.
func (in *Interner) NumberLiteral(v float64) TypeID {
	slot := in.internLiteral(Literal{Kind: LitNumber, Num: math.Float64bits(v)})
	return in.Intern(Type{Kind: KindLiteral, Payload: slot})
}

// BigintLiteral interns the literal bigint type from its text form.
func (in *Interner) BigintLiteral(text string) TypeID {
	atom := in.atoms.Intern(text)
	slot := in.internLiteral(Literal{Kind: LitBigint, Str: atom})
	return in.Intern(Type{Kind: KindLiteral, Payload: slot})
}

// BooleanLiteral returns the canonical true or false literal type.
func (in *Interner) BooleanLiteral(v bool) TypeID {
	if v {
		return True
	}
	return False
}

// LiteralOf returns the literal record behind a literal type.
func (in *Interner) LiteralOf(id TypeID) (Literal, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindLiteral {
		return Literal{}, false
	}
	return in.LiteralValue(t.Payload)
}
