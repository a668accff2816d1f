package eval

import (
	"typecore/internal/types"
)

// evalKeyOf reduces keyof T.
//
// The distributive laws are directional: keyof of a union is computed
// per member and intersected (a key usable on every branch), keyof of
// an intersection is the union of member keyofs. The union case must
// run before the members fold into a general union or the law is
// lost.
func (e *Evaluator) evalKeyOf(operand types.TypeID, depth uint32) types.TypeID {
	if depth > e.limits.EvalDepth {
		return types.Error
	}
	operand = e.eval(operand, depth+1)

	switch operand {
	case types.Error:
		return types.Error
	case types.Any:
		return e.in.Union3(types.String, types.Number, types.Symbol)
	case types.Unknown, types.Never:
		return types.Never
	}

	t, ok := e.in.Lookup(operand)
	if !ok {
		return types.Error
	}
	switch t.Kind {
	case types.KindUnion:
		members := e.in.List(t.Payload)
		keys := make([]types.TypeID, len(members))
		for i, m := range members {
			keys[i] = e.evalKeyOf(m, depth+1)
		}
		return e.intersectKeySets(keys)

	case types.KindIntersection:
		members := e.in.List(t.Payload)
		keys := make([]types.TypeID, len(members))
		for i, m := range members {
			keys[i] = e.evalKeyOf(m, depth+1)
		}
		return e.in.Union(keys)

	case types.KindObject, types.KindObjectWithIndex:
		shape := e.in.Shape(t.Payload)
		keys := make([]types.TypeID, 0, len(shape.Props)+2)
		for _, p := range shape.Props {
			keys = append(keys, e.in.StringLiteralAtom(p.Name))
		}
		if shape.StringIndex.Present {
			keys = append(keys, types.String, types.Number)
		} else if shape.NumberIndex.Present {
			keys = append(keys, types.Number)
		}
		return e.in.Union(keys)

	case types.KindArray:
		keys := append([]types.TypeID{types.Number}, e.arrayMemberKeys()...)
		return e.in.Union(keys)

	case types.KindTuple:
		elems := e.in.TupleElems(t.Payload)
		keys := make([]types.TypeID, 0, len(elems)+8)
		for i := range elems {
			keys = append(keys, e.in.NumberLiteral(float64(i)))
		}
		keys = append(keys, e.arrayMemberKeys()...)
		return e.in.Union(keys)

	case types.KindLiteral, types.KindIntrinsic:
		return e.in.Union(e.apparentKeys(operand, depth))

	case types.KindEnum:
		return e.evalKeyOf(t.Elem, depth+1)

	case types.KindReadonly:
		return e.evalKeyOf(t.Elem, depth+1)

	case types.KindTypeParam, types.KindInfer, types.KindLazy,
		types.KindConditional, types.KindMapped, types.KindApplication,
		types.KindIndexAccess, types.KindKeyOf, types.KindTemplate,
		types.KindStringIntrinsic:
		// Not reducible yet: keep the canonical deferred form.
		return e.in.KeyOf(operand)

	default:
		// Functions and callables expose no enumerable keys of their
		// own beyond properties, handled via the apparent shape.
		return types.Never
	}
}

// intersectKeySets folds per-member key sets into the keys common to
// every member. When each set is a concrete union of key types the
// intersection is computed element-wise; a deferred member falls back
// to the symbolic intersection.
func (e *Evaluator) intersectKeySets(sets []types.TypeID) types.TypeID {
	if len(sets) == 0 {
		return types.Never
	}
	common := e.keySetMembers(sets[0])
	for _, set := range sets[1:] {
		if common == nil {
			break
		}
		members := e.keySetMembers(set)
		if members == nil {
			common = nil
			break
		}
		seen := make(map[types.TypeID]struct{}, len(members))
		for _, m := range members {
			seen[m] = struct{}{}
		}
		kept := common[:0]
		for _, k := range common {
			if _, ok := seen[k]; ok {
				kept = append(kept, k)
			}
		}
		common = kept
	}
	if common == nil {
		return e.in.Intersection(sets)
	}
	return e.in.Union(common)
}

// keySetMembers lists a key set's members, or nil when the set is
// still symbolic.
func (e *Evaluator) keySetMembers(id types.TypeID) []types.TypeID {
	switch id {
	case types.String, types.Number, types.Symbol:
		return []types.TypeID{id}
	case types.Never:
		return []types.TypeID{}
	}
	t, ok := e.in.Lookup(id)
	if !ok {
		return nil
	}
	switch t.Kind {
	case types.KindLiteral:
		return []types.TypeID{id}
	case types.KindUnion:
		members := e.in.List(t.Payload)
		for _, m := range members {
			if e.keySetMembers(m) == nil {
				return nil
			}
		}
		return append([]types.TypeID(nil), members...)
	default:
		return nil
	}
}

// apparentKeys lists the prototype member names of a primitive
// operand as string literal types.
func (e *Evaluator) apparentKeys(operand types.TypeID, _ uint32) []types.TypeID {
	shape := e.apparentShape(operand)
	if shape == nil {
		return nil
	}
	keys := make([]types.TypeID, 0, len(shape.Props))
	for _, p := range shape.Props {
		keys = append(keys, e.in.StringLiteralAtom(p.Name))
	}
	return keys
}

func (e *Evaluator) arrayMemberKeys() []types.TypeID {
	names := arrayMemberNames()
	keys := make([]types.TypeID, 0, len(names))
	for _, n := range names {
		keys = append(keys, e.in.StringLiteral(n))
	}
	return keys
}
