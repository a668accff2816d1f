package eval

import (
	"math"
	"strconv"

	"typecore/internal/types"
)

// evalIndexAccess reduces T[K]. Both operands reduce first; the
// access distributes over unions on either side. Lookups fall through
// named properties, tuple positions and index signatures, then the
// apparent shape of primitives. Symbolic operands keep the access
// deferred.
func (e *Evaluator) evalIndexAccess(id types.TypeID, t types.Type, depth uint32) types.TypeID {
	obj := e.eval(t.Elem, depth+1)
	index := e.eval(t.Aux, depth+1)

	out, ok := e.indexInto(obj, index, depth)
	if !ok {
		if obj == t.Elem && index == t.Aux {
			return id
		}
		return e.in.IndexAccess(obj, index)
	}
	return out
}

// indexInto resolves one access, reporting false when the operands
// are still symbolic.
func (e *Evaluator) indexInto(obj, index types.TypeID, depth uint32) (types.TypeID, bool) {
	switch {
	case obj == types.Error || index == types.Error:
		return types.Error, true
	case obj == types.Never:
		return types.Never, true
	case obj == types.Any:
		return types.Any, true
	case index == types.Never:
		return types.Never, true
	case index == types.Any:
		return types.Error, true
	}

	// K distributes: T[A | B] = T[A] | T[B].
	if it, ok := e.in.Lookup(index); ok && it.Kind == types.KindUnion {
		return e.distributeIndex(e.in.List(it.Payload), func(k types.TypeID) (types.TypeID, bool) {
			return e.indexInto(obj, k, depth)
		})
	}

	ot, ok := e.in.Lookup(obj)
	if !ok {
		return types.Error, true
	}
	switch ot.Kind {
	case types.KindUnion:
		return e.distributeIndex(e.in.List(ot.Payload), func(m types.TypeID) (types.TypeID, bool) {
			return e.indexInto(m, index, depth)
		})

	case types.KindReadonly:
		return e.indexInto(ot.Elem, index, depth)

	case types.KindEnum:
		return e.indexInto(ot.Elem, index, depth)

	case types.KindObject, types.KindObjectWithIndex:
		return e.indexIntoShape(e.in.Shape(ot.Payload), index)

	case types.KindTuple:
		return e.indexIntoTuple(e.in.TupleElems(ot.Payload), index)

	case types.KindArray:
		return e.indexIntoArray(ot.Elem, index)

	case types.KindIntrinsic, types.KindLiteral, types.KindTemplate:
		if shape := e.ApparentShape(obj); shape != nil {
			return e.indexIntoShape(shape, index)
		}
		return types.Error, true

	default:
		// Type parameters, lazies and other deferred operators.
		return types.NoTypeID, false
	}
}

func (e *Evaluator) distributeIndex(members []types.TypeID, access func(types.TypeID) (types.TypeID, bool)) (types.TypeID, bool) {
	out := make([]types.TypeID, len(members))
	for i, m := range members {
		r, ok := access(m)
		if !ok {
			return types.NoTypeID, false
		}
		out[i] = r
	}
	return e.in.Union(out), true
}

// indexIntoShape looks a key up in an object shape: named property
// first, then the matching index signature.
func (e *Evaluator) indexIntoShape(shape *types.ObjectShape, index types.TypeID) (types.TypeID, bool) {
	if lit, ok := e.in.LiteralOf(index); ok {
		name, textOK := e.in.TextOf(lit)
		if !textOK {
			return types.Error, true
		}
		atom := e.in.Atoms().Intern(name)
		for i := range shape.Props {
			if shape.Props[i].Name == atom {
				return e.propertyRead(shape.Props[i]), true
			}
		}
		if lit.Kind == types.LitNumber && shape.NumberIndex.Present {
			return shape.NumberIndex.Value, true
		}
		if shape.StringIndex.Present {
			return shape.StringIndex.Value, true
		}
		return types.Error, true
	}

	switch index {
	case types.String:
		if shape.StringIndex.Present {
			v := shape.StringIndex.Value
			if shape.NumberIndex.Present {
				v = e.in.Union2(v, shape.NumberIndex.Value)
			}
			return v, true
		}
		return types.Error, true
	case types.Number:
		if shape.NumberIndex.Present {
			return shape.NumberIndex.Value, true
		}
		if shape.StringIndex.Present {
			return shape.StringIndex.Value, true
		}
		return types.Error, true
	}
	return types.NoTypeID, false
}

func (e *Evaluator) indexIntoTuple(elems []types.TupleElem, index types.TypeID) (types.TypeID, bool) {
	if index == types.Number {
		out := make([]types.TypeID, len(elems))
		for i, el := range elems {
			out[i] = el.Type
		}
		return e.in.Union(out), true
	}
	lit, ok := e.in.LiteralOf(index)
	if !ok {
		return types.NoTypeID, false
	}
	switch lit.Kind {
	case types.LitNumber:
		v := math.Float64frombits(lit.Num)
		i := int(v)
		if float64(i) != v || i < 0 || i >= len(elems) {
			return types.Error, true
		}
		return elems[i].Type, true
	case types.LitString:
		name := e.in.Atoms().MustLookup(lit.Str)
		if name == "length" {
			return e.in.NumberLiteral(float64(len(elems))), true
		}
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(elems) {
			return elems[i].Type, true
		}
		elemUnion := make([]types.TypeID, len(elems))
		for i, el := range elems {
			elemUnion[i] = el.Type
		}
		return e.indexIntoShape(e.ApparentArrayShape(e.in.Union(elemUnion)), index)
	}
	return types.Error, true
}

func (e *Evaluator) indexIntoArray(elem, index types.TypeID) (types.TypeID, bool) {
	if index == types.Number {
		return elem, true
	}
	lit, ok := e.in.LiteralOf(index)
	if !ok {
		return types.NoTypeID, false
	}
	if lit.Kind == types.LitNumber {
		return elem, true
	}
	if lit.Kind == types.LitString {
		if name := e.in.Atoms().MustLookup(lit.Str); name == "length" {
			return types.Number, true
		}
		return e.indexIntoShape(e.ApparentArrayShape(elem), index)
	}
	return types.Error, true
}

// propertyRead is the type observed when reading a property; optional
// properties read with undefined mixed in.
func (e *Evaluator) propertyRead(p types.Property) types.TypeID {
	if p.Optional {
		return e.in.Union2(p.Type, types.Undefined)
	}
	return p.Type
}
