package subtype

import "typecore/internal/diag"

// Tracer is the policy object behind the dual checking forms: the
// boolean query runs with the no-op tracer and pays nothing for
// diagnostics, the explaining query runs the same rules with a
// collecting tracer.
type Tracer interface {
	Report(r diag.Reason)
	Collecting() bool
}

// FastTracer discards all failure reasons.
type FastTracer struct{}

func (FastTracer) Report(diag.Reason) {}
func (FastTracer) Collecting() bool   { return false }

// DiagTracer accumulates structured failure reasons in rule order,
// outermost last.
type DiagTracer struct {
	Reasons []diag.Reason
}

func (d *DiagTracer) Report(r diag.Reason) { d.Reasons = append(d.Reasons, r) }
func (*DiagTracer) Collecting() bool       { return true }
