// Package eval reduces deferred type expressions (keyof, indexed
// access, conditional, mapped, template-literal, string-intrinsic and
// generic application) to their structural form. Reduction is
// idempotent; when an operator cannot be reduced yet, it stays in its
// canonical deferred form so callers can retry once more declarations
// resolve.
package eval

import (
	"typecore/internal/config"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

// Resolver resolves declaration identities to type handles. The
// definition table satisfies it; tests may substitute their own.
type Resolver interface {
	Resolve(decl symbols.DeclID) (types.TypeID, bool)
}

// GenericResolver additionally exposes generic declarations: the
// parameter handles and the body they are substituted into.
type GenericResolver interface {
	Resolver
	ResolveGeneric(decl symbols.DeclID) (params []types.TypeID, body types.TypeID, ok bool)
}

// ExtendsFn decides the `extends` clause of conditional types. The
// session wires the subtype checker in; a nil func leaves all
// conditionals deferred.
type ExtendsFn func(source, target types.TypeID) bool

// Evaluator reduces deferred types against one type store.
type Evaluator struct {
	in      *types.Interner
	defs    Resolver
	extends ExtendsFn
	limits  config.Limits

	apparent apparentShapes
}

// New creates an evaluator over the store and resolver.
func New(in *types.Interner, defs Resolver, limits config.Limits) *Evaluator {
	return &Evaluator{in: in, defs: defs, limits: limits}
}

// SetExtends installs the assignability callback used by conditional
// types. Kept separate from New because the checker is built after
// the evaluator.
func (e *Evaluator) SetExtends(fn ExtendsFn) { e.extends = fn }

// Interner returns the backing type store.
func (e *Evaluator) Interner() *types.Interner { return e.in }

// Evaluate reduces a handle to structural form. Idempotent:
// Evaluate(Evaluate(t)) == Evaluate(t). Budget exhaustion yields the
// error sentinel, never a hang.
func (e *Evaluator) Evaluate(id types.TypeID) types.TypeID {
	return e.eval(id, 0)
}

func (e *Evaluator) eval(id types.TypeID, depth uint32) types.TypeID {
	if depth > e.limits.EvalDepth {
		return types.Error
	}
	t, ok := e.in.Lookup(id)
	if !ok {
		return types.Error
	}
	switch t.Kind {
	case types.KindLazy:
		resolved, ok := e.defs.Resolve(t.Decl)
		if !ok || resolved == id {
			return id // not resolvable yet, stay deferred
		}
		return e.eval(resolved, depth+1)

	case types.KindApplication:
		return e.evalApplication(id, t, depth)

	case types.KindKeyOf:
		return e.evalKeyOf(t.Elem, depth)

	case types.KindIndexAccess:
		return e.evalIndexAccess(id, t, depth)

	case types.KindConditional:
		return e.evalConditional(id, t, depth)

	case types.KindMapped:
		return e.evalMapped(id, t, depth)

	case types.KindStringIntrinsic:
		return e.evalStringIntrinsic(id, types.StringIntrinsicKind(t.Op), t.Elem, depth)

	case types.KindTemplate:
		return e.evalTemplate(id, t, depth)

	case types.KindUnion:
		return e.evalMembers(id, e.in.List(t.Payload), depth, e.in.Union)

	case types.KindIntersection:
		return e.evalMembers(id, e.in.List(t.Payload), depth, e.in.Intersection)

	case types.KindReadonly:
		inner := e.eval(t.Elem, depth+1)
		if inner == t.Elem {
			return id
		}
		return e.in.ReadonlyOf(inner)

	default:
		// Structural kinds are already in normal form.
		return id
	}
}

// evalMembers reduces each member and refolds through the normalizing
// constructor. The original handle is returned untouched when nothing
// reduced, preserving identity.
func (e *Evaluator) evalMembers(id types.TypeID, members []types.TypeID, depth uint32, fold func([]types.TypeID) types.TypeID) types.TypeID {
	changed := false
	out := make([]types.TypeID, len(members))
	for i, m := range members {
		out[i] = e.eval(m, depth+1)
		if out[i] != m {
			changed = true
		}
	}
	if !changed {
		return id
	}
	return fold(out)
}

// evalApplication expands Base<Args...>.
func (e *Evaluator) evalApplication(id types.TypeID, t types.Type, depth uint32) types.TypeID {
	args := e.in.List(t.Payload)
	base := t.Elem

	if bt, ok := e.in.Lookup(base); ok && bt.Kind == types.KindLazy {
		if gr, ok := e.defs.(GenericResolver); ok {
			if params, body, found := gr.ResolveGeneric(bt.Decl); found {
				return e.applyGeneric(params, body, args, depth)
			}
		}
		if resolved, found := e.defs.Resolve(bt.Decl); found {
			return e.evalApplication(id, types.Type{
				Kind:    types.KindApplication,
				Elem:    resolved,
				Payload: t.Payload,
			}, depth)
		}
		return id // base unresolved, stay deferred
	}

	// A function/callable base carries its own parameter binders.
	if bt, ok := e.in.Lookup(base); ok && bt.Kind == types.KindFunction {
		fn := e.in.Fn(bt.Payload)
		if len(fn.TypeParams) > 0 {
			params := make([]types.TypeID, len(fn.TypeParams))
			for i, tp := range fn.TypeParams {
				params[i] = e.in.TypeParam(tp)
			}
			stripped := *fn
			stripped.TypeParams = nil
			return e.applyGeneric(params, e.in.Function(stripped), args, depth)
		}
	}
	if base == types.Error {
		return types.Error
	}
	return id
}

// applyGeneric substitutes arguments for parameters, filling defaults
// and erroring on arity mismatch.
func (e *Evaluator) applyGeneric(params []types.TypeID, body types.TypeID, args []types.TypeID, depth uint32) types.TypeID {
	if len(args) > len(params) {
		return types.Error
	}
	subst := make(Subst, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
			continue
		}
		pt, ok := e.in.Lookup(p)
		if !ok || pt.Kind != types.KindTypeParam {
			return types.Error
		}
		info, _ := e.in.Param(pt.Payload)
		if info.Default == types.NoTypeID {
			return types.Error
		}
		subst[p] = info.Default
	}
	instantiated := e.Instantiate(body, subst)
	return e.eval(instantiated, depth+1)
}
