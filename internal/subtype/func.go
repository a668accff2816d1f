package subtype

import (
	"typecore/internal/diag"
	"typecore/internal/types"
)

// functionRule compares two function signatures. Parameters check
// contravariantly under strict function types; when only the
// bivariant direction holds the result is VerdictBivariant, which
// strict callers reject and loose callers accept. Methods stay
// bivariant regardless, matching ecosystem behavior. Returns are
// covariant with a void-target escape.
func (q *query) functionRule(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	sf := q.in.Fn(st.Payload)
	tf := q.in.Fn(tt.Payload)
	return q.signatureRule(s, sf, t, tf, depth)
}

func (q *query) signatureRule(s types.TypeID, sf *types.FunctionShape, t types.TypeID, tf *types.FunctionShape, depth uint32) Verdict {
	if requiredParams(sf) > len(tf.Params) {
		q.tracer.Report(diag.Reason{
			Kind:   diag.ReasonParamCount,
			Source: uint32(s),
			Target: uint32(t),
		})
		return VerdictFalse
	}

	bivariantOnly := sf.IsMethod || tf.IsMethod || !q.strict.StrictFunctionTypes
	v := VerdictTrue
	for i := range sf.Params {
		if i >= len(tf.Params) {
			break
		}
		sp, tp := sf.Params[i].Type, tf.Params[i].Type
		if q.probe(tp, sp, depth+1) != VerdictFalse {
			continue // contravariant direction holds
		}
		if q.probe(sp, tp, depth+1) == VerdictFalse {
			q.tracer.Report(diag.Reason{
				Kind:   diag.ReasonParamType,
				Source: uint32(sp),
				Target: uint32(tp),
			})
			return VerdictFalse
		}
		if !bivariantOnly {
			v = VerdictBivariant
		}
	}

	if sf.This != types.NoTypeID && tf.This != types.NoTypeID {
		if q.probe(tf.This, sf.This, depth+1) == VerdictFalse {
			return q.fail(s, t)
		}
	}

	// Covariant return; a void target accepts any return value.
	if tf.Return == types.Void && q.strict.AllowVoidReturn {
		return v
	}
	if q.probe(sf.Return, tf.Return, depth+1) == VerdictFalse {
		q.tracer.Report(diag.Reason{
			Kind:   diag.ReasonReturnType,
			Source: uint32(sf.Return),
			Target: uint32(tf.Return),
		})
		return VerdictFalse
	}
	return v
}

// requiredParams counts leading non-optional, non-rest parameters.
func requiredParams(fn *types.FunctionShape) int {
	n := 0
	for _, p := range fn.Params {
		if p.Optional || p.Rest {
			break
		}
		n++
	}
	return n
}

// callableToFunction accepts a callable source against a bare
// function target when any of its call signatures fits.
func (q *query) callableToFunction(s types.TypeID, st types.Type, t types.TypeID, depth uint32) Verdict {
	c := q.in.Callable(st.Payload)
	best := VerdictFalse
	for i := range c.CallSignatures {
		sig := q.in.Function(c.CallSignatures[i])
		if v := q.probe(sig, t, depth+1); v > best {
			best = v
		}
		if best == VerdictTrue {
			return VerdictTrue
		}
	}
	if best == VerdictFalse {
		q.tracer.Report(diag.Reason{
			Kind:   diag.ReasonNoOverload,
			Source: uint32(s),
			Target: uint32(t),
		})
	}
	return best
}

// callableTarget requires every call and construct signature of the
// target to be matched by some source signature, plus the target's
// properties satisfied like an object shape.
func (q *query) callableTarget(s types.TypeID, st types.Type, t types.TypeID, tt types.Type, depth uint32) Verdict {
	tc := q.in.Callable(tt.Payload)

	var calls, constructs []types.FunctionShape
	var props *types.ObjectShape
	switch st.Kind {
	case types.KindCallable:
		sc := q.in.Callable(st.Payload)
		calls, constructs = sc.CallSignatures, sc.ConstructSignatures
		props = &types.ObjectShape{
			Props:       sc.Props,
			StringIndex: sc.StringIndex,
			NumberIndex: sc.NumberIndex,
		}
	case types.KindFunction:
		fn := q.in.Fn(st.Payload)
		if fn.IsConstructor {
			constructs = []types.FunctionShape{*fn}
		} else {
			calls = []types.FunctionShape{*fn}
		}
		props = &types.ObjectShape{}
	default:
		return q.fail(s, t)
	}

	v := VerdictTrue
	v = conj(v, q.overloadSet(s, calls, t, tc.CallSignatures, depth))
	if v == VerdictFalse {
		return VerdictFalse
	}
	v = conj(v, q.overloadSet(s, constructs, t, tc.ConstructSignatures, depth))
	if v == VerdictFalse {
		return VerdictFalse
	}
	target := types.ObjectShape{
		Props:       tc.Props,
		StringIndex: tc.StringIndex,
		NumberIndex: tc.NumberIndex,
	}
	return conj(v, q.shapeRule(s, props, t, &target, depth))
}

// overloadSet matches each target signature against the source's
// overloads.
func (q *query) overloadSet(s types.TypeID, sourceSigs []types.FunctionShape, t types.TypeID, targetSigs []types.FunctionShape, depth uint32) Verdict {
	v := VerdictTrue
	for ti := range targetSigs {
		best := VerdictFalse
		saved := q.tracer
		q.tracer = FastTracer{}
		for si := range sourceSigs {
			if sv := q.signatureRule(s, &sourceSigs[si], t, &targetSigs[ti], depth); sv > best {
				best = sv
			}
			if best == VerdictTrue {
				break
			}
		}
		q.tracer = saved
		if best == VerdictFalse {
			q.tracer.Report(diag.Reason{
				Kind:   diag.ReasonNoOverload,
				Source: uint32(s),
				Target: uint32(t),
			})
			return VerdictFalse
		}
		v = conj(v, best)
	}
	return v
}
