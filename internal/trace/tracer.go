// Package trace provides a lightweight tracing subsystem for the type
// core. Sessions emit span events around unit checks and budget
// failures so hangs and blowups can be diagnosed without a debugger.
package trace

import (
	"sync/atomic"
	"time"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelSession traces session boundaries only.
	LevelSession
	// LevelUnit traces per-unit checking.
	LevelUnit
	// LevelQuery traces individual evaluate/subtype queries.
	LevelQuery
)

// ShouldEmit reports whether events of the given scope pass the level.
func (l Level) ShouldEmit(s Scope) bool {
	return uint8(s) <= uint8(l)
}

// Scope indicates the granularity of an event; lower is coarser.
type Scope uint8

const (
	ScopeSession Scope = iota + 1
	ScopeUnit
	ScopeQuery
)

// Kind distinguishes span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Name   string
	Detail string
}

// Tracer is the event sink. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Level() Level
	Enabled() bool
}

var seq atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// Point emits an instant event if the tracer accepts the scope.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// Span emits a begin event and returns the matching end func.
func Span(t Tracer, scope Scope, name string) func() {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return func() {}
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindSpanBegin, Scope: scope, Name: name})
	return func() {
		t.Emit(&Event{Time: time.Now(), Kind: KindSpanEnd, Scope: scope, Name: name})
	}
}
