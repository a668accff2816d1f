package types

import (
	"slices"

	"typecore/internal/symbols"
)

// Constructor helpers. Everything variable-length is normalized before
// interning so that structurally equal inputs collapse to one handle.

// Array interns T[].
func (in *Interner) Array(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem})
}

// Tuple interns a tuple type from its element list.
func (in *Interner) Tuple(elems []TupleElem) TypeID {
	return in.Intern(Type{Kind: KindTuple, Payload: in.internTuple(elems)})
}

// Object interns a plain object type. Properties are sorted by name
// atom, so construction order never affects the handle.
func (in *Interner) Object(props []Property) TypeID {
	return in.ObjectShaped(ObjectShape{Props: props})
}

// ObjectNominal interns a class instance shape carrying a nominal
// declaration identity.
func (in *Interner) ObjectNominal(props []Property, decl symbols.DeclID) TypeID {
	return in.ObjectShaped(ObjectShape{Props: props, Decl: decl})
}

// ObjectShaped interns an object shape, index signatures included.
func (in *Interner) ObjectShaped(shape ObjectShape) TypeID {
	sorted := slices.Clone(shape.Props)
	slices.SortStableFunc(sorted, func(a, b Property) int {
		return int(a.Name) - int(b.Name)
	})
	shape.Props = sorted
	kind := KindObject
	if shape.HasIndex() {
		kind = KindObjectWithIndex
	}
	return in.Intern(Type{Kind: kind, Payload: in.internShape(shape)})
}

// Function interns a function signature type.
func (in *Interner) Function(fn FunctionShape) TypeID {
	return in.Intern(Type{Kind: KindFunction, Payload: in.internFn(fn)})
}

// CallableType interns an overloaded callable shape.
func (in *Interner) CallableType(c CallableShape) TypeID {
	sorted := slices.Clone(c.Props)
	slices.SortStableFunc(sorted, func(a, b Property) int {
		return int(a.Name) - int(b.Name)
	})
	c.Props = sorted
	return in.Intern(Type{Kind: KindCallable, Payload: in.internCallable(c)})
}

// TypeParam interns a generic type parameter.
func (in *Interner) TypeParam(info TypeParamInfo) TypeID {
	return in.Intern(Type{Kind: KindTypeParam, Payload: in.internParam(info)})
}

// InferParam interns an infer binding from a conditional type.
func (in *Interner) InferParam(info TypeParamInfo) TypeID {
	return in.Intern(Type{Kind: KindInfer, Payload: in.internParam(info)})
}

// Lazy interns a deferred reference to a named declaration. The
// evaluator resolves it on demand through the definition table.
func (in *Interner) Lazy(decl symbols.DeclID) TypeID {
	if !decl.IsValid() {
		return Error
	}
	return in.Intern(Type{Kind: KindLazy, Decl: decl})
}

// EnumType interns an enum: nominal identity plus the structural union
// of its member types.
func (in *Interner) EnumType(decl symbols.DeclID, members TypeID) TypeID {
	if !decl.IsValid() {
		return Error
	}
	return in.Intern(Type{Kind: KindEnum, Decl: decl, Elem: members})
}

// Application interns Base<Args...> without evaluating it.
func (in *Interner) Application(base TypeID, args []TypeID) TypeID {
	if base == Error {
		return Error
	}
	return in.Intern(Type{
		Kind:    KindApplication,
		Elem:    base,
		Payload: in.internList(args),
	})
}

// ApplicationParts splits an application handle back into base and args.
func (in *Interner) ApplicationParts(id TypeID) (TypeID, []TypeID, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindApplication {
		return NoTypeID, nil, false
	}
	return t.Elem, in.List(t.Payload), true
}

// ConditionalType interns T extends U ? X : Y.
func (in *Interner) ConditionalType(c Conditional) TypeID {
	return in.Intern(Type{Kind: KindConditional, Payload: in.internCond(c)})
}

// MappedType interns { [K in C as N]: T } with its modifiers.
func (in *Interner) MappedType(m Mapped) TypeID {
	return in.Intern(Type{Kind: KindMapped, Payload: in.internMapped(m)})
}

// KeyOf interns the deferred keyof operator. Reduction is the
// evaluator's job; trivial operands fold here.
func (in *Interner) KeyOf(operand TypeID) TypeID {
	switch operand {
	case Error:
		return Error
	case Never:
		return Never
	}
	return in.Intern(Type{Kind: KindKeyOf, Elem: operand})
}

// IndexAccess interns the deferred T[K] operator.
func (in *Interner) IndexAccess(obj, index TypeID) TypeID {
	if obj == Error || index == Error {
		return Error
	}
	return in.Intern(Type{Kind: KindIndexAccess, Elem: obj, Aux: index})
}

// ReadonlyOf interns readonly T. Double wrapping collapses.
func (in *Interner) ReadonlyOf(operand TypeID) TypeID {
	if operand == Error {
		return Error
	}
	if t, ok := in.Lookup(operand); ok && t.Kind == KindReadonly {
		return operand
	}
	return in.Intern(Type{Kind: KindReadonly, Elem: operand})
}

// StringIntrinsicOf interns Uppercase<T> and friends unreduced.
func (in *Interner) StringIntrinsicOf(kind StringIntrinsicKind, operand TypeID) TypeID {
	if operand == Error {
		return Error
	}
	return in.Intern(Type{Kind: KindStringIntrinsic, Op: uint8(kind), Elem: operand})
}
