package eval

import (
	"typecore/internal/source"
	"typecore/internal/types"
)

// evalMapped expands { [K in C as N]: T } into an object shape. The
// constraint is reduced first; each key literal instantiates the
// template with the key bound to the mapped parameter. A string or
// number key in the constraint becomes the matching index signature
// instead of a property. Constraints that still carry free variables
// leave the mapped type deferred.
func (e *Evaluator) evalMapped(id types.TypeID, t types.Type, depth uint32) types.TypeID {
	m, ok := e.in.MappedAt(t.Payload)
	if !ok {
		return types.Error
	}

	constraint := e.eval(m.Constraint, depth+1)
	switch constraint {
	case types.Error:
		return types.Error
	case types.Never:
		return e.in.Object(nil)
	}
	if e.hasFreeVars(constraint) {
		return e.deferMapped(id, m, constraint)
	}

	var keys []types.TypeID
	if ct, ok := e.in.Lookup(constraint); ok && ct.Kind == types.KindUnion {
		keys = e.in.List(ct.Payload)
	} else {
		keys = []types.TypeID{constraint}
	}

	param := e.in.TypeParam(m.Param)
	shape := types.ObjectShape{}
	for _, key := range keys {
		subst := Subst{param: key}
		value := e.eval(e.Instantiate(m.Template, subst), depth+1)

		switch key {
		case types.String:
			shape.StringIndex = types.IndexSignature{
				Value:    value,
				Readonly: m.ReadonlyMod == types.ModifierAdd,
				Present:  true,
			}
			continue
		case types.Number:
			shape.NumberIndex = types.IndexSignature{
				Value:    value,
				Readonly: m.ReadonlyMod == types.ModifierAdd,
				Present:  true,
			}
			continue
		case types.Symbol:
			// Symbol keys have no named slot in object shapes.
			continue
		}

		name := key
		if m.NameType != types.NoTypeID {
			name = e.eval(e.Instantiate(m.NameType, subst), depth+1)
			if name == types.Never {
				continue // remapped away
			}
		}
		atom, ok := e.propertyName(name)
		if !ok {
			return e.deferMapped(id, m, constraint)
		}
		shape.Props = append(shape.Props, types.Property{
			Name:     atom,
			Type:     value,
			Optional: m.OptionalMod == types.ModifierAdd,
			Readonly: m.ReadonlyMod == types.ModifierAdd,
		})
	}
	return e.in.ObjectShaped(shape)
}

// propertyName turns a key type into a property-name atom. String,
// number and bigint literals qualify; anything else keeps the mapped
// type symbolic.
func (e *Evaluator) propertyName(key types.TypeID) (source.Atom, bool) {
	lit, ok := e.in.LiteralOf(key)
	if !ok {
		return source.NoAtom, false
	}
	text, ok := e.in.TextOf(lit)
	if !ok {
		return source.NoAtom, false
	}
	return e.in.Atoms().Intern(text), true
}

// deferMapped re-interns the mapped type with the reduced constraint.
func (e *Evaluator) deferMapped(id types.TypeID, m types.Mapped, constraint types.TypeID) types.TypeID {
	if constraint == m.Constraint {
		return id
	}
	out := m
	out.Constraint = constraint
	return e.in.MappedType(out)
}
