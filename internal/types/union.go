package types

import (
	"slices"
)

// Union interns the union of members after full normalization:
// nested unions are flattened, duplicates dropped, `any`/`unknown`
// absorb everything, `never` members vanish, literals are absorbed by
// their base primitive, and the surviving list is sorted so that
// member order never affects the handle.
func (in *Interner) Union(members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	flat = in.flattenUnion(flat, members)

	sawUnknown := false
	sawError := false
	for _, m := range flat {
		switch m {
		case Any:
			return Any
		case Unknown:
			sawUnknown = true
		case Error:
			sawError = true
		}
	}
	if sawUnknown {
		return Unknown
	}
	if sawError {
		return Error
	}

	flat = slices.DeleteFunc(flat, func(m TypeID) bool { return m == Never })
	slices.Sort(flat)
	flat = slices.Compact(flat)
	flat = in.absorbLiterals(flat)

	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	}
	return in.Intern(Type{Kind: KindUnion, Payload: in.internList(flat)})
}

// Union2 interns left | right.
func (in *Interner) Union2(left, right TypeID) TypeID {
	return in.Union([]TypeID{left, right})
}

// Union3 interns a three-way union.
func (in *Interner) Union3(a, b, c TypeID) TypeID {
	return in.Union([]TypeID{a, b, c})
}

func (in *Interner) flattenUnion(dst, members []TypeID) []TypeID {
	for _, m := range members {
		if t, ok := in.Lookup(m); ok && t.Kind == KindUnion {
			dst = in.flattenUnion(dst, in.List(t.Payload))
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// UnionMembers returns the member list of a union handle, or a
// single-element view for non-union types.
func (in *Interner) UnionMembers(id TypeID) []TypeID {
	if t, ok := in.Lookup(id); ok && t.Kind == KindUnion {
		return in.List(t.Payload)
	}
	return []TypeID{id}
}

// absorbLiterals removes literal members whose base primitive is also
// present ("a" | string == string) and folds true|false into boolean.
// The input must already be sorted and deduplicated.
func (in *Interner) absorbLiterals(flat []TypeID) []TypeID {
	if len(flat) < 2 {
		return flat
	}
	hasPrimitive := map[TypeID]bool{}
	hasTrue, hasFalse := false, false
	for _, m := range flat {
		switch m {
		case String, Number, Boolean, Bigint:
			hasPrimitive[m] = true
		case True:
			hasTrue = true
		case False:
			hasFalse = true
		}
	}
	out := flat[:0]
	boolFolded := false
	for _, m := range flat {
		if hasTrue && hasFalse && !hasPrimitive[Boolean] && (m == True || m == False) {
			if !boolFolded {
				out = append(out, Boolean)
				boolFolded = true
			}
			continue
		}
		if base, ok := in.LiteralBase(m); ok && hasPrimitive[base] {
			continue
		}
		if t, lok := in.Lookup(m); lok && t.Kind == KindTemplate && hasPrimitive[String] {
			// `a${T}` is a set of strings; string absorbs it.
			continue
		}
		out = append(out, m)
	}
	if boolFolded {
		slices.Sort(out)
		out = slices.Compact(out)
	}
	return out
}

// LiteralBase returns the base primitive of a literal type.
func (in *Interner) LiteralBase(id TypeID) (TypeID, bool) {
	lit, ok := in.LiteralOf(id)
	if !ok {
		return NoTypeID, false
	}
	switch lit.Kind {
	case LitString:
		return String, true
	case LitNumber:
		return Number, true
	case LitBoolean:
		return Boolean, true
	case LitBigint:
		return Bigint, true
	}
	return NoTypeID, false
}
