package types

import (
	"typecore/internal/symbols"
)

// Definitions binds declaration identities to their type handles.
// It is the resolver behind Lazy types: the binder registers a
// declaration, the checker binds its computed type, and the evaluator
// resolves references on demand. Unresolved declarations stay
// unresolved rather than erroring, so callers can retry once more
// declarations become available.
type Definitions struct {
	byDecl    map[symbols.DeclID]TypeID
	byGeneric map[symbols.DeclID]genericDef
}

type genericDef struct {
	params []TypeID
	body   TypeID
}

// NewDefinitions creates an empty definition table.
func NewDefinitions() *Definitions {
	return &Definitions{
		byDecl:    make(map[symbols.DeclID]TypeID, 64),
		byGeneric: make(map[symbols.DeclID]genericDef),
	}
}

// Bind associates a declaration with its type. Re-binding the same
// type is a no-op; re-binding a different type overwrites, matching
// incremental re-checks of the same declaration.
func (d *Definitions) Bind(decl symbols.DeclID, id TypeID) {
	if !decl.IsValid() || id == NoTypeID {
		return
	}
	d.byDecl[decl] = id
}

// Resolve returns the bound type for a declaration.
func (d *Definitions) Resolve(decl symbols.DeclID) (TypeID, bool) {
	id, ok := d.byDecl[decl]
	return id, ok
}

// BindGeneric associates a generic declaration with its parameter
// handles and the body they substitute into.
func (d *Definitions) BindGeneric(decl symbols.DeclID, params []TypeID, body TypeID) {
	if !decl.IsValid() || body == NoTypeID {
		return
	}
	d.byGeneric[decl] = genericDef{params: append([]TypeID(nil), params...), body: body}
}

// ResolveGeneric returns a generic declaration's parameters and body.
func (d *Definitions) ResolveGeneric(decl symbols.DeclID) ([]TypeID, TypeID, bool) {
	g, ok := d.byGeneric[decl]
	return g.params, g.body, ok
}

// Len reports the number of bound declarations.
func (d *Definitions) Len() int { return len(d.byDecl) + len(d.byGeneric) }
