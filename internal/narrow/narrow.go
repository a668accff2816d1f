// Package narrow refines types with control-flow facts: typeof
// tests, property-presence tests, discriminant comparisons and
// instanceof checks. All functions are pure; they intern new result
// types but never mutate existing ones.
package narrow

import (
	"typecore/internal/eval"
	"typecore/internal/source"
	"typecore/internal/subtype"
	"typecore/internal/types"
)

// Narrower evaluates narrowing facts against one type store.
type Narrower struct {
	in    *types.Interner
	ev    *eval.Evaluator
	check *subtype.Checker
}

// New creates a narrower sharing the evaluator's type store.
func New(ev *eval.Evaluator, check *subtype.Checker) *Narrower {
	return &Narrower{in: ev.Interner(), ev: ev, check: check}
}

// TypeofTag is the operand of a typeof comparison.
type TypeofTag uint8

const (
	TagString TypeofTag = iota + 1
	TagNumber
	TagBoolean
	TagBigint
	TagSymbol
	TagUndefined
	TagObject
	TagFunction
)

// primitive returns the widest type carrying the tag.
func (n *Narrower) primitive(tag TypeofTag) types.TypeID {
	switch tag {
	case TagString:
		return types.String
	case TagNumber:
		return types.Number
	case TagBoolean:
		return types.Boolean
	case TagBigint:
		return types.Bigint
	case TagSymbol:
		return types.Symbol
	case TagUndefined:
		return types.Undefined
	case TagObject:
		return n.in.Union2(types.ObjectTop, types.Null)
	case TagFunction:
		return types.FunctionTop
	}
	return types.Never
}

// ByTypeof narrows by `typeof x === tag` (assume true) or its
// negation (assume false).
func (n *Narrower) ByTypeof(id types.TypeID, tag TypeofTag, assume bool) types.TypeID {
	return n.overMembers(id, func(m types.TypeID) types.TypeID {
		switch m {
		case types.Any, types.Unknown:
			if assume {
				return n.primitive(tag)
			}
			return m
		}
		if t, ok := n.in.Lookup(m); ok && t.Kind == types.KindTypeParam {
			return n.narrowParam(m, t, func(c types.TypeID) types.TypeID {
				return n.ByTypeof(c, tag, assume)
			})
		}
		matches := n.matchesTypeof(m, tag)
		if matches == assume {
			return m
		}
		return types.Never
	})
}

// matchesTypeof reports whether every value of the type carries the
// typeof tag.
func (n *Narrower) matchesTypeof(id types.TypeID, tag TypeofTag) bool {
	switch id {
	case types.String:
		return tag == TagString
	case types.Number:
		return tag == TagNumber
	case types.Boolean, types.True, types.False:
		return tag == TagBoolean
	case types.Bigint:
		return tag == TagBigint
	case types.Symbol:
		return tag == TagSymbol
	case types.Undefined, types.Void:
		return tag == TagUndefined
	case types.Null, types.ObjectTop:
		return tag == TagObject
	case types.FunctionTop:
		return tag == TagFunction
	}
	t, ok := n.in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case types.KindLiteral:
		base, ok := n.in.LiteralBase(id)
		return ok && n.matchesTypeof(base, tag)
	case types.KindTemplate, types.KindStringIntrinsic:
		return tag == TagString
	case types.KindObject, types.KindObjectWithIndex, types.KindArray,
		types.KindTuple, types.KindReadonly:
		return tag == TagObject
	case types.KindFunction, types.KindCallable:
		return tag == TagFunction
	case types.KindEnum:
		return n.matchesTypeof(t.Elem, tag)
	case types.KindUnion:
		for _, m := range n.in.List(t.Payload) {
			if !n.matchesTypeof(m, tag) {
				return false
			}
		}
		return true
	}
	return false
}

// ByDiscriminant narrows a tagged union by comparing the named
// property against a literal value: members whose discriminant can
// hold the value survive, everything else drops.
func (n *Narrower) ByDiscriminant(id types.TypeID, name source.Atom, value types.TypeID, assume bool) types.TypeID {
	return n.overMembers(id, func(m types.TypeID) types.TypeID {
		switch m {
		case types.Any, types.Unknown:
			return m
		}
		prop := n.propertyType(m, name)
		if prop == types.NoTypeID {
			// No discriminant to compare; the positive branch cannot
			// keep the member.
			if assume {
				return types.Never
			}
			return m
		}
		holds := n.check.IsSubtype(value, prop)
		exact := prop == value
		if assume {
			if !holds {
				return types.Never
			}
			// x.kind === "a" pins the discriminant.
			return m
		}
		if exact {
			return types.Never
		}
		return m
	})
}

// ByInstanceType narrows by an instanceof-like fact against the
// class's instance type. The subtype checker supplies both the
// nominal ancestry fast path and the structural fallback.
func (n *Narrower) ByInstanceType(id types.TypeID, instance types.TypeID, assume bool) types.TypeID {
	return n.overMembers(id, func(m types.TypeID) types.TypeID {
		switch m {
		case types.Any, types.Unknown:
			if assume {
				return instance
			}
			return m
		}
		if t, ok := n.in.Lookup(m); ok && t.Kind == types.KindTypeParam {
			return n.narrowParam(m, t, func(c types.TypeID) types.TypeID {
				return n.ByInstanceType(c, instance, assume)
			})
		}
		is := n.check.IsSubtype(m, instance)
		if is == assume {
			return m
		}
		if assume && n.check.IsSubtype(instance, m) {
			// The member is wider than the class: refine to it.
			return instance
		}
		if !assume && !is {
			return m
		}
		return types.Never
	})
}

// overMembers resolves lazy wrappers, distributes a narrowing step
// over union members dropping the ones that become never, and keeps
// the original handle when nothing changed.
func (n *Narrower) overMembers(id types.TypeID, step func(types.TypeID) types.TypeID) types.TypeID {
	resolved := n.resolve(id)
	t, ok := n.in.Lookup(resolved)
	if !ok {
		return id
	}
	var out types.TypeID
	if t.Kind == types.KindUnion {
		members := n.in.List(t.Payload)
		narrowed := make([]types.TypeID, 0, len(members))
		changed := false
		for _, m := range members {
			nm := step(m)
			if nm != m {
				changed = true
			}
			if nm == types.Never {
				continue
			}
			narrowed = append(narrowed, nm)
		}
		if !changed {
			out = resolved
		} else {
			out = n.in.Union(narrowed)
		}
	} else {
		out = step(resolved)
	}
	if out == resolved {
		return id // re-wrap: narrowing produced no change
	}
	return out
}

// narrowParam narrows a type parameter's constraint and re-intersects
// with the parameter so its identity survives.
func (n *Narrower) narrowParam(id types.TypeID, t types.Type, step func(types.TypeID) types.TypeID) types.TypeID {
	info, ok := n.in.Param(t.Payload)
	if !ok || info.Constraint == types.NoTypeID {
		return id
	}
	narrowed := step(info.Constraint)
	if narrowed == info.Constraint {
		return id
	}
	if narrowed == types.Never {
		return types.Never
	}
	return n.in.Intersection2(id, narrowed)
}

// resolve unwraps lazy indirection before inspection.
func (n *Narrower) resolve(id types.TypeID) types.TypeID {
	t, ok := n.in.Lookup(id)
	if !ok || t.Kind != types.KindLazy {
		return id
	}
	return n.ev.Evaluate(id)
}

// propertyType finds the declared type of a named property on an
// object-like type, or NoTypeID.
func (n *Narrower) propertyType(id types.TypeID, name source.Atom) types.TypeID {
	t, ok := n.in.Lookup(n.resolve(id))
	if !ok {
		return types.NoTypeID
	}
	switch t.Kind {
	case types.KindObject, types.KindObjectWithIndex:
		shape := n.in.Shape(t.Payload)
		for i := range shape.Props {
			if shape.Props[i].Name == name {
				return shape.Props[i].Type
			}
		}
	case types.KindIntersection:
		for _, m := range n.in.List(t.Payload) {
			if p := n.propertyType(m, name); p != types.NoTypeID {
				return p
			}
		}
	}
	return types.NoTypeID
}
