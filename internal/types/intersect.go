package types

import (
	"slices"

	"typecore/internal/source"
	"typecore/internal/symbols"
)

// primitiveClass partitions types into pairwise-disjoint value
// domains. Members of different classes cannot share a value, so
// their intersection is empty.
type primitiveClass uint8

const (
	classNone primitiveClass = iota
	classString
	classNumber
	classBoolean
	classBigint
	classSymbol
	classNull
	classUndefined
	classVoid
)

// Intersection interns the intersection of members after
// normalization: flattening, deduplication, absorption
// (never/any/error win, unknown is the identity) and structural
// disjointness collapse. Two object members whose shared required
// discriminant properties hold incompatible literals reduce the whole
// intersection to never; optional discriminants never trigger the
// collapse.
func (in *Interner) Intersection(members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	flat = in.flattenIntersection(flat, members)

	sawError := false
	for _, m := range flat {
		switch m {
		case Never:
			return Never
		case Any:
			// any wins over unknown, checked first on purpose.
			return Any
		case Error:
			sawError = true
		}
	}
	if sawError {
		return Error
	}

	flat = slices.DeleteFunc(flat, func(m TypeID) bool { return m == Unknown })
	slices.Sort(flat)
	flat = slices.Compact(flat)

	if in.hasDisjointPrimitives(flat) {
		return Never
	}
	if in.hasDisjointDiscriminants(flat) {
		return Never
	}
	flat = in.absorbPrimitivesIntoLiterals(flat)
	if merged, ok := in.mergeObjectMembers(flat); ok {
		return merged
	}

	switch len(flat) {
	case 0:
		return Unknown
	case 1:
		return flat[0]
	}
	return in.Intern(Type{Kind: KindIntersection, Payload: in.internList(flat)})
}

// Intersection2 interns left & right.
func (in *Interner) Intersection2(left, right TypeID) TypeID {
	return in.Intersection([]TypeID{left, right})
}

func (in *Interner) flattenIntersection(dst, members []TypeID) []TypeID {
	for _, m := range members {
		if t, ok := in.Lookup(m); ok && t.Kind == KindIntersection {
			dst = in.flattenIntersection(dst, in.List(t.Payload))
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// IntersectionMembers returns the member list of an intersection
// handle, or a single-element view otherwise.
func (in *Interner) IntersectionMembers(id TypeID) []TypeID {
	if t, ok := in.Lookup(id); ok && t.Kind == KindIntersection {
		return in.List(t.Payload)
	}
	return []TypeID{id}
}

func (in *Interner) primitiveClassOf(id TypeID) primitiveClass {
	switch id {
	case String:
		return classString
	case Number:
		return classNumber
	case Boolean:
		return classBoolean
	case Bigint:
		return classBigint
	case Symbol:
		return classSymbol
	case Null:
		return classNull
	case Undefined:
		return classUndefined
	case Void:
		return classVoid
	}
	lit, ok := in.LiteralOf(id)
	if !ok {
		return classNone
	}
	switch lit.Kind {
	case LitString:
		return classString
	case LitNumber:
		return classNumber
	case LitBoolean:
		return classBoolean
	case LitBigint:
		return classBigint
	}
	return classNone
}

// hasDisjointPrimitives reports members from different primitive value
// domains, or distinct literal values of one domain (the list is
// deduplicated, so two same-class literals are necessarily distinct).
func (in *Interner) hasDisjointPrimitives(members []TypeID) bool {
	seenClass := classNone
	var seenLiteral TypeID
	for _, m := range members {
		cls := in.primitiveClassOf(m)
		if cls == classNone {
			continue
		}
		if seenClass != classNone && cls != seenClass {
			return true
		}
		seenClass = cls
		if _, isLit := in.LiteralOf(m); isLit {
			if seenLiteral != NoTypeID && seenLiteral != m {
				return true
			}
			seenLiteral = m
		}
	}
	return false
}

// hasDisjointDiscriminants detects object members whose shared
// required properties hold incompatible literal types.
func (in *Interner) hasDisjointDiscriminants(members []TypeID) bool {
	var shapes []*ObjectShape
	for _, m := range members {
		t, ok := in.Lookup(m)
		if !ok || (t.Kind != KindObject && t.Kind != KindObjectWithIndex) {
			continue
		}
		shapes = append(shapes, in.Shape(t.Payload))
	}
	for i := 0; i < len(shapes); i++ {
		for j := i + 1; j < len(shapes); j++ {
			if in.shapesDisjoint(shapes[i], shapes[j]) {
				return true
			}
		}
	}
	return false
}

func (in *Interner) shapesDisjoint(left, right *ObjectShape) bool {
	for _, lp := range left.Props {
		rp, ok := findProperty(right.Props, lp)
		if !ok {
			continue
		}
		// The conflict only proves emptiness when both sides require
		// the property. An optional discriminant admits the absent
		// case, so the intersection stays inhabited.
		if lp.Optional || rp.Optional {
			continue
		}
		if in.literalsDisjoint(lp.Type, rp.Type) {
			return true
		}
	}
	return false
}

func findProperty(props []Property, want Property) (Property, bool) {
	for _, p := range props {
		if p.Name == want.Name {
			return p, true
		}
	}
	return Property{}, false
}

// literalsDisjoint reports two plain literal types with different
// values, the discriminant-conflict test.
func (in *Interner) literalsDisjoint(a, b TypeID) bool {
	if a == b {
		return false
	}
	la, okA := in.LiteralOf(a)
	lb, okB := in.LiteralOf(b)
	return okA && okB && la != lb
}

// mergeObjectMembers collapses an all-object member list into one
// structural shape: shared property names intersect their read and
// write types, required wins over optional, readonly accumulates, and
// index signature values intersect. Shapes carrying nominal identity
// are left alone so distinct class instances never fold together.
func (in *Interner) mergeObjectMembers(members []TypeID) (TypeID, bool) {
	if len(members) < 2 {
		return NoTypeID, false
	}
	shapes := make([]*ObjectShape, 0, len(members))
	for _, m := range members {
		t, ok := in.Lookup(m)
		if !ok || (t.Kind != KindObject && t.Kind != KindObjectWithIndex) {
			return NoTypeID, false
		}
		shape := in.Shape(t.Payload)
		if shape.Decl != symbols.NoDeclID {
			return NoTypeID, false
		}
		shapes = append(shapes, shape)
	}

	var merged ObjectShape
	index := make(map[source.Atom]int)
	for _, shape := range shapes {
		for _, prop := range shape.Props {
			at, seen := index[prop.Name]
			if !seen {
				index[prop.Name] = len(merged.Props)
				merged.Props = append(merged.Props, prop)
				continue
			}
			have := &merged.Props[at]
			read := in.Intersection2(have.Type, prop.Type)
			write := in.Intersection2(have.EffectiveWriteType(), prop.EffectiveWriteType())
			have.Type = read
			have.WriteType = write
			if write == read {
				have.WriteType = NoTypeID
			}
			have.Optional = have.Optional && prop.Optional
			have.Readonly = have.Readonly || prop.Readonly
			have.IsMethod = have.IsMethod && prop.IsMethod
		}
		merged.StringIndex = in.mergeIndexSignatures(merged.StringIndex, shape.StringIndex)
		merged.NumberIndex = in.mergeIndexSignatures(merged.NumberIndex, shape.NumberIndex)
	}
	return in.ObjectShaped(merged), true
}

func (in *Interner) mergeIndexSignatures(have, add IndexSignature) IndexSignature {
	if !add.Present {
		return have
	}
	if !have.Present {
		return add
	}
	return IndexSignature{
		Value:    in.Intersection2(have.Value, add.Value),
		Readonly: have.Readonly || add.Readonly,
		Present:  true,
	}
}

// absorbPrimitivesIntoLiterals drops a base primitive when one of its
// literals is also a member ("a" & string == "a").
func (in *Interner) absorbPrimitivesIntoLiterals(members []TypeID) []TypeID {
	if len(members) < 2 {
		return members
	}
	literalClasses := map[TypeID]bool{}
	for _, m := range members {
		if base, ok := in.LiteralBase(m); ok {
			literalClasses[base] = true
		}
	}
	if len(literalClasses) == 0 {
		return members
	}
	return slices.DeleteFunc(members, func(m TypeID) bool {
		switch m {
		case String, Number, Boolean, Bigint:
			return literalClasses[m]
		}
		return false
	})
}
