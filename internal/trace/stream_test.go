package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelUnit)

	done := Span(tr, ScopeSession, "session")
	Point(tr, ScopeUnit, "unit", "detail")
	Point(tr, ScopeQuery, "query", "too fine")
	done()

	out := buf.String()
	if !strings.Contains(out, "session") || !strings.Contains(out, "unit") {
		t.Fatalf("session and unit events must pass at LevelUnit:\n%s", out)
	}
	if strings.Contains(out, "query") {
		t.Fatalf("query events must be filtered at LevelUnit:\n%s", out)
	}
	if strings.Count(out, "session") != 2 {
		t.Fatalf("span must emit begin and end:\n%s", out)
	}
}

func TestNopTracer(t *testing.T) {
	if Nop.Enabled() {
		t.Fatalf("nop tracer must report disabled")
	}
	// Must not panic and must cost nothing observable.
	done := Span(Nop, ScopeSession, "x")
	done()
	Point(Nop, ScopeQuery, "x", "y")
	Span(nil, ScopeSession, "x")()
}

func TestSeqMonotonic(t *testing.T) {
	a, b := NextSeq(), NextSeq()
	if b <= a {
		t.Fatalf("sequence numbers must increase: %d then %d", a, b)
	}
}
