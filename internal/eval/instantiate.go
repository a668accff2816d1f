package eval

import (
	"typecore/internal/types"
)

// Subst maps type-parameter handles to argument handles.
type Subst map[types.TypeID]types.TypeID

// Instantiate substitutes type parameters through arbitrary type
// structure. A handle containing no mapped parameters comes back
// unchanged, so fully-concrete types round-trip for free. Recursion
// past the instantiation depth bound yields the error sentinel.
func (e *Evaluator) Instantiate(id types.TypeID, subst Subst) types.TypeID {
	if len(subst) == 0 {
		return id
	}
	return e.instantiate(id, subst, 0)
}

func (e *Evaluator) instantiate(id types.TypeID, subst Subst, depth uint32) types.TypeID {
	if depth > e.limits.InstantiationDepth {
		return types.Error
	}
	if repl, ok := subst[id]; ok {
		return repl
	}
	t, ok := e.in.Lookup(id)
	if !ok {
		return types.Error
	}

	sub := func(inner types.TypeID) types.TypeID {
		return e.instantiate(inner, subst, depth+1)
	}

	switch t.Kind {
	case types.KindArray:
		elem := sub(t.Elem)
		if elem == t.Elem {
			return id
		}
		return e.in.Array(elem)

	case types.KindReadonly:
		inner := sub(t.Elem)
		if inner == t.Elem {
			return id
		}
		return e.in.ReadonlyOf(inner)

	case types.KindKeyOf:
		inner := sub(t.Elem)
		if inner == t.Elem {
			return id
		}
		return e.in.KeyOf(inner)

	case types.KindStringIntrinsic:
		inner := sub(t.Elem)
		if inner == t.Elem {
			return id
		}
		return e.in.StringIntrinsicOf(types.StringIntrinsicKind(t.Op), inner)

	case types.KindIndexAccess:
		obj, index := sub(t.Elem), sub(t.Aux)
		if obj == t.Elem && index == t.Aux {
			return id
		}
		return e.in.IndexAccess(obj, index)

	case types.KindUnion:
		return e.instantiateList(id, t, subst, depth, e.in.Union)

	case types.KindIntersection:
		return e.instantiateList(id, t, subst, depth, e.in.Intersection)

	case types.KindTuple:
		elems := e.in.TupleElems(t.Payload)
		changed := false
		out := make([]types.TupleElem, len(elems))
		for i, el := range elems {
			out[i] = el
			out[i].Type = sub(el.Type)
			if out[i].Type != el.Type {
				changed = true
			}
		}
		if !changed {
			return id
		}
		return e.in.Tuple(out)

	case types.KindObject, types.KindObjectWithIndex:
		shape := e.in.Shape(t.Payload)
		next := *shape
		changed := false
		props := make([]types.Property, len(shape.Props))
		for i, p := range shape.Props {
			props[i] = p
			props[i].Type = sub(p.Type)
			if p.WriteType != types.NoTypeID {
				props[i].WriteType = sub(p.WriteType)
			}
			if props[i].Type != p.Type || props[i].WriteType != p.WriteType {
				changed = true
			}
		}
		next.Props = props
		if shape.StringIndex.Present {
			next.StringIndex.Value = sub(shape.StringIndex.Value)
			changed = changed || next.StringIndex.Value != shape.StringIndex.Value
		}
		if shape.NumberIndex.Present {
			next.NumberIndex.Value = sub(shape.NumberIndex.Value)
			changed = changed || next.NumberIndex.Value != shape.NumberIndex.Value
		}
		if !changed {
			return id
		}
		return e.in.ObjectShaped(next)

	case types.KindFunction:
		fn := e.in.Fn(t.Payload)
		next, changed := e.instantiateSignature(fn, subst, depth)
		if !changed {
			return id
		}
		return e.in.Function(next)

	case types.KindCallable:
		c := e.in.Callable(t.Payload)
		next := *c
		changed := false
		next.CallSignatures = make([]types.FunctionShape, len(c.CallSignatures))
		for i := range c.CallSignatures {
			var sigChanged bool
			next.CallSignatures[i], sigChanged = e.instantiateSignature(&c.CallSignatures[i], subst, depth)
			changed = changed || sigChanged
		}
		next.ConstructSignatures = make([]types.FunctionShape, len(c.ConstructSignatures))
		for i := range c.ConstructSignatures {
			var sigChanged bool
			next.ConstructSignatures[i], sigChanged = e.instantiateSignature(&c.ConstructSignatures[i], subst, depth)
			changed = changed || sigChanged
		}
		props := make([]types.Property, len(c.Props))
		for i, p := range c.Props {
			props[i] = p
			props[i].Type = sub(p.Type)
			changed = changed || props[i].Type != p.Type
		}
		next.Props = props
		if !changed {
			return id
		}
		return e.in.CallableType(next)

	case types.KindApplication:
		args := e.in.List(t.Payload)
		base := sub(t.Elem)
		changed := base != t.Elem
		out := make([]types.TypeID, len(args))
		for i, a := range args {
			out[i] = sub(a)
			changed = changed || out[i] != a
		}
		if !changed {
			return id
		}
		return e.in.Application(base, out)

	case types.KindConditional:
		c, _ := e.in.Cond(t.Payload)
		next := types.Conditional{
			Check:        sub(c.Check),
			Extends:      sub(c.Extends),
			True:         sub(c.True),
			False:        sub(c.False),
			Distributive: c.Distributive,
		}
		if next == c {
			return id
		}
		return e.in.ConditionalType(next)

	case types.KindMapped:
		m, _ := e.in.MappedAt(t.Payload)
		next := m
		next.Constraint = sub(m.Constraint)
		if m.NameType != types.NoTypeID {
			next.NameType = sub(m.NameType)
		}
		next.Template = sub(m.Template)
		if next == m {
			return id
		}
		return e.in.MappedType(next)

	case types.KindTemplate:
		spans := e.in.TemplateSpans(t.Payload)
		changed := false
		out := make([]types.TemplateSpan, len(spans))
		for i, s := range spans {
			out[i] = s
			if !s.IsText() {
				out[i].Type = sub(s.Type)
				changed = changed || out[i].Type != s.Type
			}
		}
		if !changed {
			return id
		}
		return e.in.TemplateLiteral(out)

	case types.KindTypeParam, types.KindInfer:
		// Not in the substitution: a free parameter of an outer scope.
		return id

	default:
		// Intrinsics, literals, lazy references, enums: no free
		// parameters inside, nothing to substitute.
		return id
	}
}

func (e *Evaluator) instantiateList(id types.TypeID, t types.Type, subst Subst, depth uint32, fold func([]types.TypeID) types.TypeID) types.TypeID {
	members := e.in.List(t.Payload)
	changed := false
	out := make([]types.TypeID, len(members))
	for i, m := range members {
		out[i] = e.instantiate(m, subst, depth+1)
		changed = changed || out[i] != m
	}
	if !changed {
		return id
	}
	return fold(out)
}

// instantiateSignature substitutes through one function shape,
// skipping parameters shadowed by the signature's own binders.
func (e *Evaluator) instantiateSignature(fn *types.FunctionShape, subst Subst, depth uint32) (types.FunctionShape, bool) {
	inner := subst
	if len(fn.TypeParams) > 0 {
		shadowed := make(Subst, len(subst))
		for k, v := range subst {
			shadowed[k] = v
		}
		for _, tp := range fn.TypeParams {
			delete(shadowed, e.in.TypeParam(tp))
		}
		inner = shadowed
	}
	sub := func(id types.TypeID) types.TypeID {
		if id == types.NoTypeID {
			return id
		}
		return e.instantiate(id, inner, depth+1)
	}

	next := *fn
	changed := false
	params := make([]types.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p
		params[i].Type = sub(p.Type)
		changed = changed || params[i].Type != p.Type
	}
	next.Params = params
	next.This = sub(fn.This)
	next.Return = sub(fn.Return)
	changed = changed || next.This != fn.This || next.Return != fn.Return
	return next, changed
}
