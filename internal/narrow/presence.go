package narrow

import (
	"typecore/internal/source"
	"typecore/internal/types"
)

// ByPropertyPresence narrows by `"name" in x` (present) or its
// negation. Members where the presence fact is a contradiction
// reduce to never and drop out of enclosing unions: a required
// property cannot be absent, a missing one cannot be present.
// Optional properties survive both branches; the positive branch
// additionally promotes them to required.
func (n *Narrower) ByPropertyPresence(id types.TypeID, name source.Atom, present bool) types.TypeID {
	return n.overMembers(id, func(m types.TypeID) types.TypeID {
		switch m {
		case types.Any, types.Never:
			return m
		case types.Unknown:
			if !present {
				return m
			}
			return n.in.Intersection2(types.ObjectTop, n.requiredProp(name, types.Unknown))
		}
		if t, ok := n.in.Lookup(m); ok && t.Kind == types.KindTypeParam {
			return n.narrowParam(m, t, func(c types.TypeID) types.TypeID {
				return n.ByPropertyPresence(c, name, present)
			})
		}

		propType, optional, found := n.findProperty(m, name)
		if !found {
			if present {
				return types.Never
			}
			return m
		}
		if !optional {
			if present {
				return m
			}
			return types.Never
		}
		if present {
			return n.in.Intersection2(m, n.requiredProp(name, propType))
		}
		return m
	})
}

// requiredProp builds the synthetic single-property object used to
// promote an optional property to required.
func (n *Narrower) requiredProp(name source.Atom, typ types.TypeID) types.TypeID {
	return n.in.Object([]types.Property{{Name: name, Type: typ}})
}

// findProperty locates a named property on an object-like type,
// looking through intersections, index signatures and the apparent
// shapes of primitives and arrays. A required occurrence in any
// intersection member makes the property unconditionally required.
func (n *Narrower) findProperty(id types.TypeID, name source.Atom) (propType types.TypeID, optional, found bool) {
	resolved := n.resolve(id)
	t, ok := n.in.Lookup(resolved)
	if !ok {
		return types.NoTypeID, false, false
	}
	switch t.Kind {
	case types.KindObject, types.KindObjectWithIndex:
		return n.findInShape(n.in.Shape(t.Payload), name)

	case types.KindIntersection:
		for _, m := range n.in.List(t.Payload) {
			pt, opt, ok := n.findProperty(m, name)
			if !ok {
				continue
			}
			if !opt {
				return pt, false, true
			}
			if !found {
				propType, optional, found = pt, true, true
			}
		}
		return propType, optional, found

	case types.KindArray:
		return n.findInShape(n.ev.ApparentArrayShape(t.Elem), name)

	case types.KindTuple:
		elems := n.in.TupleElems(t.Payload)
		members := make([]types.TypeID, len(elems))
		for i, el := range elems {
			members[i] = el.Type
		}
		return n.findInShape(n.ev.ApparentArrayShape(n.in.Union(members)), name)

	case types.KindReadonly, types.KindEnum:
		return n.findProperty(t.Elem, name)

	case types.KindIntrinsic, types.KindLiteral, types.KindTemplate:
		if shape := n.ev.ApparentShape(resolved); shape != nil {
			return n.findInShape(shape, name)
		}
	}
	return types.NoTypeID, false, false
}

func (n *Narrower) findInShape(shape *types.ObjectShape, name source.Atom) (types.TypeID, bool, bool) {
	for i := range shape.Props {
		if shape.Props[i].Name == name {
			return shape.Props[i].Type, shape.Props[i].Optional, true
		}
	}
	if shape.StringIndex.Present {
		// Index signatures admit the key without requiring it.
		return shape.StringIndex.Value, true, true
	}
	return types.NoTypeID, false, false
}
