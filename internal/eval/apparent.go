package eval

import (
	"typecore/internal/types"
)

// Apparent shapes give primitives the synthetic object form of their
// built-in prototype, so a string can satisfy { length: number } and
// keyof number lists the Number methods. Shapes are built once per
// evaluator and cached by base primitive.

type apparentShapes struct {
	str, num, boolean, big, sym *types.ObjectShape
	array                       *types.ObjectShape
}

// ApparentShape returns the prototype shape for a primitive or
// literal handle, nil when the type has no apparent form.
func (e *Evaluator) ApparentShape(id types.TypeID) *types.ObjectShape {
	return e.apparentShape(id)
}

func (e *Evaluator) apparentShape(id types.TypeID) *types.ObjectShape {
	base := id
	if lit, ok := e.in.LiteralOf(id); ok {
		switch lit.Kind {
		case types.LitString:
			base = types.String
		case types.LitNumber:
			base = types.Number
		case types.LitBoolean:
			base = types.Boolean
		case types.LitBigint:
			base = types.Bigint
		}
	}
	if t, ok := e.in.Lookup(id); ok && t.Kind == types.KindTemplate {
		base = types.String
	}
	switch base {
	case types.String:
		if e.apparent.str == nil {
			e.apparent.str = e.buildStringShape()
		}
		return e.apparent.str
	case types.Number:
		if e.apparent.num == nil {
			e.apparent.num = e.buildNumberShape()
		}
		return e.apparent.num
	case types.Boolean, types.True, types.False:
		if e.apparent.boolean == nil {
			e.apparent.boolean = e.buildBooleanShape()
		}
		return e.apparent.boolean
	case types.Bigint:
		if e.apparent.big == nil {
			e.apparent.big = e.buildBigintShape()
		}
		return e.apparent.big
	case types.Symbol:
		if e.apparent.sym == nil {
			e.apparent.sym = e.buildSymbolShape()
		}
		return e.apparent.sym
	}
	return nil
}

// ApparentArrayShape returns the shared shape of array prototype
// members for an element type. Used when arrays meet structural
// targets.
func (e *Evaluator) ApparentArrayShape(elem types.TypeID) *types.ObjectShape {
	props := []types.Property{
		e.prop("length", types.Number),
		e.method("push", e.fnType([]types.TypeID{elem}, types.Number)),
		e.method("pop", e.fnType(nil, e.in.Union2(elem, types.Undefined))),
		e.method("indexOf", e.fnType([]types.TypeID{elem}, types.Number)),
		e.method("join", e.fnType([]types.TypeID{types.String}, types.String)),
		e.method("slice", e.fnType([]types.TypeID{types.Number, types.Number}, e.in.Array(elem))),
		e.method("concat", e.fnType([]types.TypeID{e.in.Array(elem)}, e.in.Array(elem))),
		e.method("includes", e.fnType([]types.TypeID{elem}, types.Boolean)),
	}
	id := e.in.Object(props)
	t := e.in.MustLookup(id)
	return e.in.Shape(t.Payload)
}

// arrayMemberNames lists the array prototype keys surfaced by keyof.
func arrayMemberNames() []string {
	return []string{
		"length", "push", "pop", "indexOf", "join",
		"slice", "concat", "includes",
	}
}

func (e *Evaluator) buildStringShape() *types.ObjectShape {
	props := []types.Property{
		e.prop("length", types.Number),
		e.method("charAt", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("charCodeAt", e.fnType([]types.TypeID{types.Number}, types.Number)),
		e.method("concat", e.fnType([]types.TypeID{types.String}, types.String)),
		e.method("indexOf", e.fnType([]types.TypeID{types.String}, types.Number)),
		e.method("slice", e.fnType([]types.TypeID{types.Number, types.Number}, types.String)),
		e.method("split", e.fnType([]types.TypeID{types.String}, e.in.Array(types.String))),
		e.method("toLowerCase", e.fnType(nil, types.String)),
		e.method("toUpperCase", e.fnType(nil, types.String)),
		e.method("trim", e.fnType(nil, types.String)),
		e.method("includes", e.fnType([]types.TypeID{types.String}, types.Boolean)),
		e.method("toString", e.fnType(nil, types.String)),
		e.method("valueOf", e.fnType(nil, types.String)),
	}
	return e.internedShape(props)
}

func (e *Evaluator) buildNumberShape() *types.ObjectShape {
	props := []types.Property{
		e.method("toFixed", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("toExponential", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("toPrecision", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("toString", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("valueOf", e.fnType(nil, types.Number)),
	}
	return e.internedShape(props)
}

func (e *Evaluator) buildBooleanShape() *types.ObjectShape {
	props := []types.Property{
		e.method("toString", e.fnType(nil, types.String)),
		e.method("valueOf", e.fnType(nil, types.Boolean)),
	}
	return e.internedShape(props)
}

func (e *Evaluator) buildBigintShape() *types.ObjectShape {
	props := []types.Property{
		e.method("toString", e.fnType([]types.TypeID{types.Number}, types.String)),
		e.method("valueOf", e.fnType(nil, types.Bigint)),
		e.method("toLocaleString", e.fnType(nil, types.String)),
	}
	return e.internedShape(props)
}

func (e *Evaluator) buildSymbolShape() *types.ObjectShape {
	props := []types.Property{
		e.prop("description", e.in.Union2(types.String, types.Undefined)),
		e.method("toString", e.fnType(nil, types.String)),
		e.method("valueOf", e.fnType(nil, types.Symbol)),
	}
	return e.internedShape(props)
}

func (e *Evaluator) internedShape(props []types.Property) *types.ObjectShape {
	id := e.in.Object(props)
	t := e.in.MustLookup(id)
	return e.in.Shape(t.Payload)
}

func (e *Evaluator) prop(name string, id types.TypeID) types.Property {
	return types.Property{Name: e.in.Atoms().Intern(name), Type: id}
}

func (e *Evaluator) method(name string, fn types.TypeID) types.Property {
	return types.Property{Name: e.in.Atoms().Intern(name), Type: fn, IsMethod: true}
}

func (e *Evaluator) fnType(params []types.TypeID, ret types.TypeID) types.TypeID {
	ps := make([]types.Param, len(params))
	for i, p := range params {
		ps[i] = types.Param{Type: p}
	}
	return e.in.Function(types.FunctionShape{Params: ps, Return: ret, IsMethod: true})
}
