package eval

import "typecore/internal/types"

// evalConditional reduces Check extends Extends ? True : False.
//
// A distributive conditional maps over the members of a union check
// type, substituting the member for the checked type parameter in
// every clause; never distributes to never. When no assignability
// callback is installed, or when free type variables keep the clause
// undecidable, the conditional stays deferred.
func (e *Evaluator) evalConditional(id types.TypeID, t types.Type, depth uint32) types.TypeID {
	cond, ok := e.in.Cond(t.Payload)
	if !ok {
		return types.Error
	}

	check := e.eval(cond.Check, depth+1)

	if cond.Distributive {
		if check == types.Never {
			return types.Never
		}
		if ct, ok := e.in.Lookup(check); ok && ct.Kind == types.KindUnion {
			members := e.in.List(ct.Payload)
			out := make([]types.TypeID, len(members))
			for i, m := range members {
				out[i] = e.evalCondArm(cond, m, depth)
			}
			return e.in.Union(out)
		}
	}
	return e.evalCondArm(cond, check, depth)
}

// evalCondArm decides one conditional clause for a concrete check
// type. The original check type parameter and any inferred positions
// are bound to concrete types before the branches are taken.
func (e *Evaluator) evalCondArm(cond types.Conditional, check types.TypeID, depth uint32) types.TypeID {
	subst := make(Subst, 2)
	if ct, ok := e.in.Lookup(cond.Check); ok && ct.Kind == types.KindTypeParam {
		subst[cond.Check] = check
	}

	extends := e.Instantiate(cond.Extends, subst)
	if !e.matchInfer(check, extends, subst) {
		return e.deferCond(cond, check)
	}
	extends = e.Instantiate(cond.Extends, subst)

	if e.extends == nil || e.hasFreeVars(check) || e.hasFreeVars(extends) {
		return e.deferCond(cond, check)
	}

	// any sits on both sides of every extends clause.
	if check == types.Any {
		yes := e.eval(e.Instantiate(cond.True, subst), depth+1)
		no := e.eval(e.Instantiate(cond.False, subst), depth+1)
		return e.in.Union2(yes, no)
	}

	if e.extends(check, extends) {
		return e.eval(e.Instantiate(cond.True, subst), depth+1)
	}
	return e.eval(e.Instantiate(cond.False, subst), depth+1)
}

// deferCond re-interns the conditional with the reduced check so the
// deferred form stays canonical.
func (e *Evaluator) deferCond(cond types.Conditional, check types.TypeID) types.TypeID {
	out := cond
	if e.in.Kind(cond.Check) != types.KindTypeParam {
		out.Check = check
	}
	return e.in.ConditionalType(out)
}

// matchInfer binds infer positions in the extends clause against the
// check type. Only shallow patterns are recognized: a bare infer
// position captures the whole check type, and an array or readonly
// wrapper of an infer position captures the element. Deeper patterns
// report failure so the conditional stays deferred rather than
// deciding wrongly.
func (e *Evaluator) matchInfer(check, extends types.TypeID, subst Subst) bool {
	et, ok := e.in.Lookup(extends)
	if !ok {
		return false
	}
	switch et.Kind {
	case types.KindInfer:
		subst[extends] = check
		return true
	case types.KindArray, types.KindReadonly:
		it, ok := e.in.Lookup(et.Elem)
		if !ok || it.Kind != types.KindInfer {
			return !e.containsInfer(extends)
		}
		ct, ok := e.in.Lookup(check)
		if ok && ct.Kind == et.Kind {
			subst[et.Elem] = ct.Elem
			return true
		}
		// No structural match: bind the capture to unknown so the
		// extends test can still fail cleanly.
		subst[et.Elem] = types.Unknown
		return true
	default:
		return !e.containsInfer(extends)
	}
}

// hasFreeVars reports whether a type mentions unbound type parameters
// or infer positions.
func (e *Evaluator) hasFreeVars(id types.TypeID) bool {
	return e.scanFree(id, make(map[types.TypeID]struct{}))
}

// containsInfer reports whether a type mentions an infer position.
func (e *Evaluator) containsInfer(id types.TypeID) bool {
	return e.scanKind(id, types.KindInfer, make(map[types.TypeID]struct{}))
}

func (e *Evaluator) scanFree(id types.TypeID, seen map[types.TypeID]struct{}) bool {
	if e.scanKind(id, types.KindTypeParam, seen) {
		return true
	}
	return e.containsInfer(id)
}

// scanKind walks the structural closure of a type looking for a kind.
// Lazy and enum nodes terminate the walk: their contents resolve
// through declarations, which cannot capture local binders.
func (e *Evaluator) scanKind(id types.TypeID, want types.Kind, seen map[types.TypeID]struct{}) bool {
	if _, ok := seen[id]; ok {
		return false
	}
	seen[id] = struct{}{}

	t, ok := e.in.Lookup(id)
	if !ok {
		return false
	}
	if t.Kind == want {
		return true
	}
	switch t.Kind {
	case types.KindArray, types.KindReadonly, types.KindKeyOf, types.KindStringIntrinsic:
		return e.scanKind(t.Elem, want, seen)
	case types.KindIndexAccess:
		return e.scanKind(t.Elem, want, seen) || e.scanKind(t.Aux, want, seen)
	case types.KindUnion, types.KindIntersection:
		for _, m := range e.in.List(t.Payload) {
			if e.scanKind(m, want, seen) {
				return true
			}
		}
	case types.KindApplication:
		if e.scanKind(t.Elem, want, seen) {
			return true
		}
		for _, a := range e.in.List(t.Payload) {
			if e.scanKind(a, want, seen) {
				return true
			}
		}
	case types.KindTuple:
		for _, el := range e.in.TupleElems(t.Payload) {
			if e.scanKind(el.Type, want, seen) {
				return true
			}
		}
	case types.KindObject, types.KindObjectWithIndex:
		shape := e.in.Shape(t.Payload)
		for _, p := range shape.Props {
			if e.scanKind(p.Type, want, seen) {
				return true
			}
		}
		for _, sig := range [2]types.IndexSignature{shape.StringIndex, shape.NumberIndex} {
			if sig.Present && e.scanKind(sig.Value, want, seen) {
				return true
			}
		}
	case types.KindFunction:
		fn := e.in.Fn(t.Payload)
		for _, p := range fn.Params {
			if e.scanKind(p.Type, want, seen) {
				return true
			}
		}
		return e.scanKind(fn.Return, want, seen)
	case types.KindTemplate:
		for _, s := range e.in.TemplateSpans(t.Payload) {
			if !s.IsText() && e.scanKind(s.Type, want, seen) {
				return true
			}
		}
	case types.KindConditional:
		c, _ := e.in.Cond(t.Payload)
		for _, part := range [4]types.TypeID{c.Check, c.Extends, c.True, c.False} {
			if e.scanKind(part, want, seen) {
				return true
			}
		}
	case types.KindMapped:
		m, _ := e.in.MappedAt(t.Payload)
		for _, part := range [3]types.TypeID{m.Constraint, m.NameType, m.Template} {
			if part != types.NoTypeID && e.scanKind(part, want, seen) {
				return true
			}
		}
	}
	return false
}
