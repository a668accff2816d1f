package subtype

import (
	"typecore/internal/config"
	"typecore/internal/diag"
	"typecore/internal/eval"
	"typecore/internal/inherit"
	"typecore/internal/types"
)

// Verdict is the tri-state outcome of one assignability query.
// VerdictBivariant marks checks that only pass under bivariant
// function-parameter comparison; callers that enforce strict variance
// treat it as a failure, everyone else as a pass.
type Verdict uint8

const (
	VerdictFalse Verdict = iota
	VerdictBivariant
	VerdictTrue
)

// Checker answers assignability queries over one type store.
// Checking is coinductive: a (source, target) pair re-entered while
// still being checked is assumed compatible, which makes recursive
// type definitions terminate. Depth and total-operation budgets fail
// closed with a recursion-limit reason.
type Checker struct {
	in     *types.Interner
	ev     *eval.Evaluator
	graph  *inherit.Graph
	limits config.Limits
	strict config.Strictness
}

// New creates a checker sharing the evaluator's type store.
func New(ev *eval.Evaluator, graph *inherit.Graph, limits config.Limits, strict config.Strictness) *Checker {
	return &Checker{
		in:     ev.Interner(),
		ev:     ev,
		graph:  graph,
		limits: limits,
		strict: strict,
	}
}

// IsSubtype is the boolean form: no diagnostic bookkeeping, bivariant
// passes count as passes.
func (c *Checker) IsSubtype(source, target types.TypeID) bool {
	return c.Check(source, target, FastTracer{}) != VerdictFalse
}

// Explain runs the same rules collecting structured failure reasons.
func (c *Checker) Explain(source, target types.TypeID) (bool, []diag.Reason) {
	var tr DiagTracer
	v := c.Check(source, target, &tr)
	return v != VerdictFalse, tr.Reasons
}

// Check runs one query under the
// given tracer policy.
func (c *Checker) Check(source, target types.TypeID, tr Tracer) Verdict {
	q := &query{Checker: c, tracer: tr, visiting: make(map[pair]struct{})}
	return q.check(source, target, 0)
}

type pair struct {
	source, target types.TypeID
}

// query carries the per-check state: the visiting set, the budgets
// and the active tracer.
type query struct {
	*Checker
	tracer   Tracer
	visiting map[pair]struct{}
	ops      uint32
}

func (q *query) check(s, t types.TypeID, depth uint32) Verdict {
	q.ops++
	if depth > q.limits.SubtypeDepth || q.ops > q.limits.SubtypeOps {
		q.tracer.Report(diag.Reason{
			Kind:   diag.ReasonRecursionLimit,
			Source: uint32(s),
			Target: uint32(t),
		})
		return VerdictFalse
	}

	switch {
	case s == t:
		return VerdictTrue
	case s == types.Error || t == types.Error:
		// The error sentinel is compatible both ways so one upstream
		// failure does not cascade.
		return VerdictTrue
	case s == types.Never:
		return VerdictTrue
	case t == types.Never:
		return q.fail(s, t)
	case t == types.Any || t == types.Unknown:
		return VerdictTrue
	case s == types.Any:
		return VerdictTrue
	}
	if !q.strict.StrictNullChecks && (s == types.Null || s == types.Undefined) {
		return VerdictTrue
	}

	// Reduce both sides; a restart on the reduced pair keeps every
	// structural rule working on normal forms only.
	es, et := q.ev.Evaluate(s), q.ev.Evaluate(t)
	if es != s || et != t {
		return q.check(es, et, depth+1)
	}

	p := pair{s, t}
	if _, ok := q.visiting[p]; ok {
		return VerdictTrue // coinductive assumption
	}
	q.visiting[p] = struct{}{}
	defer delete(q.visiting, p)

	return q.structural(s, t, depth)
}

// fail reports a plain type mismatch.
func (q *query) fail(s, t types.TypeID) Verdict {
	q.tracer.Report(diag.Reason{
		Kind:   diag.ReasonTypeMismatch,
		Source: uint32(s),
		Target: uint32(t),
	})
	return VerdictFalse
}

// probe runs an alternative branch without collecting its failures;
// disjunctive rules report one summary reason instead of one per
// rejected branch.
func (q *query) probe(s, t types.TypeID, depth uint32) Verdict {
	saved := q.tracer
	q.tracer = FastTracer{}
	v := q.check(s, t, depth)
	q.tracer = saved
	return v
}

// conj folds conjunctive verdicts: false dominates, bivariant taints.
func conj(a, b Verdict) Verdict {
	if a == VerdictFalse || b == VerdictFalse {
		return VerdictFalse
	}
	if a == VerdictBivariant || b == VerdictBivariant {
		return VerdictBivariant
	}
	return VerdictTrue
}
