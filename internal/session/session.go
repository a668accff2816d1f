// Package session assembles one complete type-core instance: a type
// store, a definition table, an inheritance graph, and the evaluator,
// checker and narrower wired over them. Sessions are single-threaded
// by construction; parallelism across independent units gives each
// unit its own session.
package session

import (
	"typecore/internal/config"
	"typecore/internal/diag"
	"typecore/internal/eval"
	"typecore/internal/inherit"
	"typecore/internal/narrow"
	"typecore/internal/source"
	"typecore/internal/subtype"
	"typecore/internal/symbols"
	"typecore/internal/types"
)

// Session owns every mutable structure of one checking run. Handles
// minted by one session's store are meaningless in another.
type Session struct {
	Atoms  *source.Interner
	Types  *types.Interner
	Defs   *types.Definitions
	Decls  *symbols.Decls
	Graph  *inherit.Graph
	Eval   *eval.Evaluator
	Check  *subtype.Checker
	Narrow *narrow.Narrower

	Profile config.Profile
	Bag     *diag.Bag
}

// Prelude installs pre-built library declarations into a fresh
// session. Handles never cross stores, so shared library material is
// replayed as a recipe into each session's private store rather than
// referenced from a second thread.
type Prelude func(*Session)

// New wires a session from the profile. The evaluator gets the
// checker's assignability as its extends callback, so conditional
// types reduce instead of staying deferred.
func New(profile config.Profile, prelude Prelude, maxDiagnostics int) *Session {
	atoms := source.NewInterner()
	in := types.NewInterner(atoms)
	defs := types.NewDefinitions()
	graph := inherit.NewGraph()
	ev := eval.New(in, defs, profile.Limits)
	check := subtype.New(ev, graph, profile.Limits, profile.Strictness)
	ev.SetExtends(check.IsSubtype)

	s := &Session{
		Atoms:   atoms,
		Types:   in,
		Defs:    defs,
		Decls:   symbols.NewDecls(0),
		Graph:   graph,
		Eval:    ev,
		Check:   check,
		Narrow:  narrow.New(ev, check),
		Profile: profile,
		Bag:     diag.NewBag(maxDiagnostics),
	}
	if prelude != nil {
		prelude(s)
	}
	return s
}

// Assignable answers the boolean query on the fast path; nothing is
// recorded in the bag.
func (s *Session) Assignable(src, target types.TypeID) bool {
	return s.Check.IsSubtype(src, target)
}

// ReportAssignable re-runs a failed check on the diagnostic path and
// records one coded diagnostic per query into the session bag.
// Returns true when the check holds.
func (s *Session) ReportAssignable(src, target types.TypeID) bool {
	ok, reasons := s.Check.Explain(src, target)
	if ok {
		return true
	}
	code := diag.TypeMismatch
	if len(reasons) > 0 {
		code = reasons[0].Kind.Code()
	}
	s.Bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Reasons:  reasons,
	})
	return false
}
