package source

import (
	"slices"
)

// Atom identifies an interned string. Property names, literal string
// values and declaration names are all atoms so that comparisons and
// map keys stay O(1).
type Atom uint32

// NoAtom marks the absence of an atom.
const NoAtom Atom = 0

// Interner deduplicates strings and hands out stable Atoms.
type Interner struct {
	byID  []string // byID[0] = "" for NoAtom
	index map[string]Atom
}

// NewInterner creates an interner with the empty string pre-seeded.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]Atom{"": 0},
	}
}

// Intern inserts the string and returns its Atom. Re-interning an
// already known string returns the existing Atom.
func (i *Interner) Intern(s string) Atom {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Own copy so we never alias a caller's buffer.
	cpy := string([]byte(s))
	id := Atom(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the byte slice as a string.
func (i *Interner) InternBytes(b []byte) Atom {
	return i.Intern(string(b))
}

// Lookup returns the string for an Atom.
func (i *Interner) Lookup(id Atom) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics when the Atom is invalid.
func (i *Interner) MustLookup(id Atom) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid atom")
	}
	return s
}

// Has reports whether the Atom is valid.
func (i *Interner) Has(id Atom) bool {
	return int(id) < len(i.byID)
}

// Len returns the number of interned strings, NoAtom included.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
