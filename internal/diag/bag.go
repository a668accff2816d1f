package diag

// Severity orders diagnostics by weight.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// Diagnostic is one reportable finding. The core produces the code
// and reasons; message formatting belongs to the consuming checker.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Reasons  []Reason
}

// Bag accumulates diagnostics up to a fixed cap, dropping overflow.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 64
	}
	return &Bag{items: make([]Diagnostic, 0, max), max: max}
}

// Add appends a diagnostic; returns false once the cap is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Items returns the collected diagnostics in insertion order.
func (b *Bag) Items() []Diagnostic { return b.items }
