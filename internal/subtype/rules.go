package subtype

import (
	"strconv"

	"typecore/internal/diag"
	"typecore/internal/source"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

// structural dispatches the rule set once fast paths, evaluation and
// the visiting set have been dealt with.
func (q *query) structural(s, t types.TypeID, depth uint32) Verdict {
	st, ok := q.in.Lookup(s)
	if !ok {
		return q.fail(s, t)
	}
	tt, ok := q.in.Lookup(t)
	if !ok {
		return q.fail(s, t)
	}

	// A union source needs every member to fit the target.
	if st.Kind == types.KindUnion {
		v := VerdictTrue
		for _, m := range q.in.List(st.Payload) {
			v = conj(v, q.check(m, t, depth+1))
			if v == VerdictFalse {
				return VerdictFalse
			}
		}
		return v
	}

	// A union target needs any member to accept the source. boolean
	// splits into its two literals first so boolean fits true|false.
	if tt.Kind == types.KindUnion {
		if s == types.Boolean {
			members := q.in.List(tt.Payload)
			return conj(
				q.unionTarget(types.True, t, members, depth),
				q.unionTarget(types.False, t, members, depth),
			)
		}
		return q.unionTarget(s, t, q.in.List(tt.Payload), depth)
	}

	// An intersection target needs all members satisfied.
	if tt.Kind == types.KindIntersection {
		v := VerdictTrue
		for _, m := range q.in.List(tt.Payload) {
			v = conj(v, q.check(s, m, depth+1))
			if v == VerdictFalse {
				return VerdictFalse
			}
		}
		return v
	}

	// An intersection source fits if any member does.
	if st.Kind == types.KindIntersection {
		best := VerdictFalse
		for _, m := range q.in.List(st.Payload) {
			if v := q.probe(m, t, depth+1); v > best {
				best = v
			}
			if best == VerdictTrue {
				return VerdictTrue
			}
		}
		if best == VerdictFalse {
			return q.fail(s, t)
		}
		return best
	}

	// An enum source widens structurally to its member union against
	// anything that is not enum-nominal.
	if st.Kind == types.KindEnum && tt.Kind != types.KindEnum {
		return q.check(st.Elem, t, depth+1)
	}

	// A type-parameter source fits through its constraint.
	if st.Kind == types.KindTypeParam {
		info, ok := q.in.Param(st.Payload)
		if ok && info.Constraint != types.NoTypeID {
			return q.check(info.Constraint, t, depth+1)
		}
		return q.fail(s, t)
	}

	switch tt.Kind {
	case types.KindIntrinsic:
		return q.intrinsicTarget(s, st, t, depth)
	case types.KindLiteral:
		// Literal identity was the fast path; distinct literals never
		// match.
		return q.fail(s, t)
	case types.KindTemplate:
		return q.templateTarget(s, st, t, tt, depth)
	case types.KindArray:
		return q.arrayTarget(s, st, t, tt, depth)
	case types.KindReadonly:
		inner := s
		if st.Kind == types.KindReadonly {
			inner = st.Elem
		}
		return q.check(inner, tt.Elem, depth+1)
	case types.KindTuple:
		return q.tupleTarget(s, st, t, tt, depth)
	case types.KindObject, types.KindObjectWithIndex:
		return q.objectTarget(s, st, t, tt, depth)
	case types.KindFunction:
		if st.Kind == types.KindFunction {
			return q.functionRule(s, st, t, tt, depth)
		}
		if st.Kind == types.KindCallable {
			return q.callableToFunction(s, st, t, depth)
		}
		return q.fail(s, t)
	case types.KindCallable:
		return q.callableTarget(s, st, t, tt, depth)
	case types.KindEnum:
		// Enum targets are nominal; only the same enum fits, and that
		// is the identity fast path.
		return q.fail(s, t)
	default:
		return q.fail(s, t)
	}
}

func (q *query) unionTarget(s, t types.TypeID, members []types.TypeID, depth uint32) Verdict {
	best := VerdictFalse
	for _, m := range members {
		if v := q.probe(s, m, depth+1); v > best {
			best = v
		}
		if best == VerdictTrue {
			return VerdictTrue
		}
	}
	if best == VerdictFalse {
		return q.fail(s, t)
	}
	return best
}

// intrinsicTarget covers every rule with an intrinsic on the right.
func (q *query) intrinsicTarget(s types.TypeID, st types.Type, t types.TypeID, depth uint32) Verdict {
	switch t {
	case types.Void:
		if s == types.Undefined {
			return VerdictTrue
		}
		return q.fail(s, t)

	case types.ObjectTop:
		switch st.Kind {
		case types.KindObject, types.KindObjectWithIndex, types.KindFunction,
			types.KindCallable, types.KindArray, types.KindTuple, types.KindReadonly:
			return VerdictTrue
		}
		return q.fail(s, t)

	case types.FunctionTop:
		if st.Kind == types.KindFunction || st.Kind == types.KindCallable {
			return VerdictTrue
		}
		return q.fail(s, t)
	}

	switch st.Kind {
	case types.KindLiteral:
		// Literal widening: the literal's base primitive must be the
		// target.
		if base, ok := q.in.LiteralBase(s); ok && base == t {
			return VerdictTrue
		}
	case types.KindTemplate, types.KindStringIntrinsic:
		if t == types.String {
			return VerdictTrue
		}
	}
	return q.fail(s, t)
}

// arrayTarget: arrays are covariant in their element; tuples fit an
// array of a compatible element type. A readonly source never fits a
// mutable array target.
func (q *query) arrayTarget(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	switch st.Kind {
	case types.KindArray:
		return q.check(st.Elem, tt.Elem, depth+1)
	case types.KindTuple:
		v := VerdictTrue
		for _, el := range q.in.TupleElems(st.Payload) {
			v = conj(v, q.check(el.Type, tt.Elem, depth+1))
			if v == VerdictFalse {
				return VerdictFalse
			}
		}
		return v
	}
	return q.fail(s, t)
}

func (q *query) tupleTarget(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	if st.Kind != types.KindTuple {
		return q.fail(s, t)
	}
	se := q.in.TupleElems(st.Payload)
	te := q.in.TupleElems(tt.Payload)
	if len(se) > len(te) {
		return q.fail(s, t)
	}
	v := VerdictTrue
	for i, target := range te {
		if i >= len(se) {
			if target.Optional {
				continue
			}
			return q.fail(s, t)
		}
		v = conj(v, q.check(se[i].Type, target.Type, depth+1))
		if v == VerdictFalse {
			return VerdictFalse
		}
	}
	return v
}

// objectTarget routes object-shaped targets: true object sources run
// the property rules with the nominal fast path, primitives check via
// their apparent shape.
func (q *query) objectTarget(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	target := q.in.Shape(tt.Payload)

	switch st.Kind {
	case types.KindObject, types.KindObjectWithIndex:
		src := q.in.Shape(st.Payload)
		if q.nominalOK(src.Decl, target.Decl) {
			return VerdictTrue
		}
		return q.shapeRule(s, src, t, target, depth)

	case types.KindIntrinsic, types.KindLiteral, types.KindTemplate:
		if apparent := q.ev.ApparentShape(s); apparent != nil {
			return q.shapeRule(s, apparent, t, target, depth)
		}

	case types.KindArray:
		return q.shapeRule(s, q.ev.ApparentArrayShape(st.Elem), t, target, depth)

	case types.KindTuple:
		elems := q.in.TupleElems(st.Payload)
		members := make([]types.TypeID, len(elems))
		for i, el := range elems {
			members[i] = el.Type
		}
		return q.shapeRule(s, q.ev.ApparentArrayShape(q.in.Union(members)), t, target, depth)

	case types.KindReadonly:
		return q.check(st.Elem, t, depth+1)

	case types.KindFunction, types.KindCallable:
		// Functions satisfy empty object shapes only.
		if len(target.Props) == 0 && !target.StringIndex.Present && !target.NumberIndex.Present {
			return VerdictTrue
		}
	}
	return q.fail(s, t)
}

// nominalOK consults the inheritance graph before any structural
// walk.
func (q *query) nominalOK(src, dst symbols.DeclID) bool {
	if q.graph == nil || !src.IsValid() || !dst.IsValid() {
		return false
	}
	return src == dst || q.graph.IsDerivedFrom(src, dst)
}

// shapeRule is the object-to-object property check: every required
// target property must exist on the source with an assignable type,
// optional ones may be absent; index signatures check value types and
// absorb the source's named properties.
func (q *query) shapeRule(s types.TypeID, src *types.ObjectShape, t types.TypeID, target *types.ObjectShape, depth uint32) Verdict {
	v := VerdictTrue
	for i := range target.Props {
		tp := &target.Props[i]
		sp := findProp(src, tp.Name)
		if sp == nil {
			if tp.Optional {
				continue
			}
			if value, ok := q.indexValueFor(src, tp.Name); ok {
				v = conj(v, q.check(value, tp.Type, depth+1))
				if v == VerdictFalse {
					return VerdictFalse
				}
				continue
			}
			q.tracer.Report(diag.Reason{
				Kind:   diag.ReasonPropertyMissing,
				Source: uint32(s),
				Target: uint32(t),
				Name:   uint32(tp.Name),
			})
			return VerdictFalse
		}
		if sp.Optional && !tp.Optional {
			return q.propertyFail(s, t, tp.Name)
		}
		pv := q.probe(sp.Type, tp.Type, depth+1)
		if pv == VerdictFalse {
			return q.propertyFail(s, t, tp.Name)
		}
		// Setters are contravariant: the target's write type must be
		// storable through the source.
		if tp.WriteType != types.NoTypeID {
			sw := sp.WriteType
			if sw == types.NoTypeID {
				sw = sp.Type
			}
			if q.probe(tp.WriteType, sw, depth+1) == VerdictFalse {
				return q.propertyFail(s, t, tp.Name)
			}
		}
		v = conj(v, pv)
	}

	v = conj(v, q.indexSigRule(s, src, t, target, depth))
	return v
}

func (q *query) propertyFail(s, t types.TypeID, name source.Atom) Verdict {
	q.tracer.Report(diag.Reason{
		Kind:   diag.ReasonPropertyMismatch,
		Source: uint32(s),
		Target: uint32(t),
		Name:   uint32(name),
	})
	return VerdictFalse
}

// indexSigRule checks the target's index signatures against the
// source's signatures and named properties.
func (q *query) indexSigRule(s types.TypeID, src *types.ObjectShape, t types.TypeID, target *types.ObjectShape, depth uint32) Verdict {
	v := VerdictTrue
	if target.StringIndex.Present {
		if src.StringIndex.Present {
			v = conj(v, q.check(src.StringIndex.Value, target.StringIndex.Value, depth+1))
		} else {
			for i := range src.Props {
				v = conj(v, q.check(src.Props[i].Type, target.StringIndex.Value, depth+1))
				if v == VerdictFalse {
					return VerdictFalse
				}
			}
		}
	}
	if v == VerdictFalse {
		return VerdictFalse
	}
	if target.NumberIndex.Present {
		switch {
		case src.NumberIndex.Present:
			v = conj(v, q.check(src.NumberIndex.Value, target.NumberIndex.Value, depth+1))
		case src.StringIndex.Present:
			v = conj(v, q.check(src.StringIndex.Value, target.NumberIndex.Value, depth+1))
		}
	}
	return v
}

// indexValueFor resolves a missing named property through the
// source's index signatures.
func (q *query) indexValueFor(src *types.ObjectShape, name source.Atom) (types.TypeID, bool) {
	if src.NumberIndex.Present {
		if _, err := strconv.ParseFloat(q.in.Atoms().MustLookup(name), 64); err == nil {
			return src.NumberIndex.Value, true
		}
	}
	if src.StringIndex.Present {
		return src.StringIndex.Value, true
	}
	return types.NoTypeID, false
}

func findProp(shape *types.ObjectShape, name source.Atom) *types.Property {
	for i := range shape.Props {
		if shape.Props[i].Name == name {
			return &shape.Props[i]
		}
	}
	return nil
}
