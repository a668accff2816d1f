package symbols

import (
	"typecore/internal/source"
)

// Scope maps names to declaration identities, with an optional parent
// chain for nested namespaces. The binder populates scopes; the type
// core only reads them.
type Scope struct {
	parent *Scope
	names  map[source.Atom]DeclID
}

// NewScope creates an empty scope under parent (nil for the root).
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		names:  make(map[source.Atom]DeclID),
	}
}

// Declare binds a name to a declaration in this scope. The last
// binding for a name wins, matching declaration-merging order.
func (s *Scope) Declare(name source.Atom, id DeclID) {
	s.names[name] = id
}

// Resolve looks the name up in this scope and then the parent chain.
func (s *Scope) Resolve(name source.Atom) (DeclID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return NoDeclID, false
}

// ResolveLocal looks the name up in this scope only.
func (s *Scope) ResolveLocal(name source.Atom) (DeclID, bool) {
	id, ok := s.names[name]
	return id, ok
}
