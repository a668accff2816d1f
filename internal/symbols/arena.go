package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"typecore/internal/source"
)

// Decl describes one named declaration.
type Decl struct {
	Kind DeclKind
	Name source.Atom
}

// Decls stores all declarations in a compact slice-based arena.
type Decls struct {
	data []Decl
}

// NewDecls creates an arena with an optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 32
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1), // index 0 reserved for NoDeclID
	}
}

// New allocates a declaration and returns its ID.
func (d *Decls) New(kind DeclKind, name source.Atom) DeclID {
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	id := DeclID(value)
	d.data = append(d.data, Decl{Kind: kind, Name: name})
	return id
}

// Get returns the declaration pointer or nil if the ID is invalid.
func (d *Decls) Get(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len reports the number of declarations excluding the sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }
