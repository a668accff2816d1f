package trace

import (
	"fmt"
	"io"
	"sync"
)

// nopTracer is the zero-overhead implementation used when tracing is
// disabled.
type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop is the package-level singleton nop tracer.
var Nop Tracer = nopTracer{}

// StreamTracer writes events immediately to an io.Writer as text
// lines. Write errors are ignored: tracing must never disrupt a
// check.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a tracer streaming to w at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Emit writes one event line.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Detail != "" {
		_, _ = fmt.Fprintf(t.w, "%s %06d %s %s: %s\n",
			ev.Time.Format("15:04:05.000000"), ev.Seq, kindString(ev.Kind), ev.Name, ev.Detail)
		return
	}
	_, _ = fmt.Fprintf(t.w, "%s %06d %s %s\n",
		ev.Time.Format("15:04:05.000000"), ev.Seq, kindString(ev.Kind), ev.Name)
}

// Flush is a no-op for unbuffered writers.
func (t *StreamTracer) Flush() error { return nil }

// Level returns the configured level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether any events can be emitted.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

func kindString(k Kind) string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}
