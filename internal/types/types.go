package types

import (
	"fmt"

	"typecore/internal/source"
	"typecore/internal/symbols"
)

// TypeID uniquely identifies a canonical type inside the interner.
// Equality of two TypeIDs is equality of the underlying types: the
// interner never hands out two IDs for structurally equal descriptors.
type TypeID uint32

// Pre-seeded handles. NewInterner allocates these in order, so the
// constants are stable across sessions.
const (
	// NoTypeID marks the absence of a type.
	NoTypeID TypeID = 0
	// Error is the error sentinel. It is bidirectionally compatible
	// with every type so one failed lookup does not cascade.
	Error TypeID = 1
	// Never is the bottom type.
	Never TypeID = 2
	// Unknown is the type-safe top type.
	Unknown TypeID = 3
	// Any opts out of checking entirely.
	Any TypeID = 4
	// Void marks functions with no meaningful return value.
	Void      TypeID = 5
	Undefined TypeID = 6
	Null      TypeID = 7
	Boolean   TypeID = 8
	Number    TypeID = 9
	String    TypeID = 10
	Bigint    TypeID = 11
	Symbol    TypeID = 12
	// ObjectTop is the `object` intrinsic: any non-primitive value.
	ObjectTop TypeID = 13
	// True and False are the boolean literal types.
	True  TypeID = 14
	False TypeID = 15
	// FunctionTop is the `Function` intrinsic: any callable.
	FunctionTop TypeID = 16
	// Delegate tells the expression layer to re-check with full
	// context. It never escapes the checker boundary.
	Delegate TypeID = 17
)

// Kind enumerates all structural variants of a type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIntrinsic
	KindLiteral
	KindUnion
	KindIntersection
	KindObject
	KindObjectWithIndex
	KindArray
	KindTuple
	KindFunction
	KindCallable
	KindTypeParam
	KindInfer
	KindLazy
	KindEnum
	KindApplication
	KindConditional
	KindMapped
	KindIndexAccess
	KindTemplate
	KindKeyOf
	KindReadonly
	KindStringIntrinsic
	KindError
	KindDelegate
)

func (k Kind) String() string {
	switch k {
	case KindIntrinsic:
		return "intrinsic"
	case KindLiteral:
		return "literal"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindObject:
		return "object"
	case KindObjectWithIndex:
		return "object+index"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindCallable:
		return "callable"
	case KindTypeParam:
		return "type parameter"
	case KindInfer:
		return "infer"
	case KindLazy:
		return "lazy"
	case KindEnum:
		return "enum"
	case KindApplication:
		return "application"
	case KindConditional:
		return "conditional"
	case KindMapped:
		return "mapped"
	case KindIndexAccess:
		return "index access"
	case KindTemplate:
		return "template literal"
	case KindKeyOf:
		return "keyof"
	case KindReadonly:
		return "readonly"
	case KindStringIntrinsic:
		return "string intrinsic"
	case KindError:
		return "error"
	case KindDelegate:
		return "delegate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IntrinsicKind distinguishes the built-in primitive types.
type IntrinsicKind uint8

const (
	IntrInvalid IntrinsicKind = iota
	IntrAny
	IntrUnknown
	IntrNever
	IntrVoid
	IntrNull
	IntrUndefined
	IntrBoolean
	IntrNumber
	IntrString
	IntrBigint
	IntrSymbol
	IntrObject
	IntrFunction
)

// StringIntrinsicKind distinguishes the string case-transform operators.
type StringIntrinsicKind uint8

const (
	StrUppercase StringIntrinsicKind = iota + 1
	StrLowercase
	StrCapitalize
	StrUncapitalize
)

// Type is the compact canonical descriptor for any variant. Every
// variable-length payload (member lists, shapes, spans) lives in a
// deduplicated side table, so the descriptor itself is a valid map key
// and two structurally equal types always produce the same descriptor.
type Type struct {
	Kind Kind
	// Elem holds the operand for single-operand variants: array
	// element, keyof/readonly/string-intrinsic operand, index-access
	// object, application base, enum member union.
	Elem TypeID
	// Aux holds the index-access index type.
	Aux TypeID
	// Decl carries nominal identity for Lazy and Enum types.
	Decl symbols.DeclID
	// Op is the IntrinsicKind or StringIntrinsicKind sub-tag.
	Op uint8
	// Payload is a slot into the side table selected by Kind.
	Payload uint32
}

// LiteralKind distinguishes literal value domains.
type LiteralKind uint8

const (
	LitString LiteralKind = iota + 1
	LitNumber
	LitBoolean
	LitBigint
)

// Literal is an interned literal value. Numbers are stored as IEEE
// bits so the struct stays comparable; string and bigint payloads are
// atoms.
type Literal struct {
	Kind LiteralKind
	Str  source.Atom
	Num  uint64
	Bool bool
}

// Visibility is the class member access modifier. Private and
// protected properties compare nominally, not structurally.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

// Property describes one named member of an object shape. Read and
// write types may differ for getter/setter pairs.
type Property struct {
	Name       source.Atom
	Type       TypeID // read type
	WriteType  TypeID // write type; NoTypeID means same as Type
	Optional   bool
	Readonly   bool
	IsMethod   bool
	Visibility Visibility
	Parent     symbols.DeclID
}

// ReadType returns the type seen by reads of the property.
func (p Property) ReadType() TypeID { return p.Type }

// EffectiveWriteType returns the type required by writes.
func (p Property) EffectiveWriteType() TypeID {
	if p.WriteType != NoTypeID {
		return p.WriteType
	}
	return p.Type
}

// IndexSignature describes { [key: string]: T } or { [key: number]: T }.
// Present distinguishes a missing signature from a zero value.
type IndexSignature struct {
	Value    TypeID
	Readonly bool
	Present  bool
}

// ObjectShape is the interned shape of an object type: name-sorted
// properties plus optional index signatures. Decl carries nominal
// identity for class instance shapes so distinct classes never
// collapse to one handle.
type ObjectShape struct {
	Props       []Property
	StringIndex IndexSignature
	NumberIndex IndexSignature
	Decl        symbols.DeclID
}

// HasIndex reports whether the shape carries any index signature.
func (s *ObjectShape) HasIndex() bool {
	return s.StringIndex.Present || s.NumberIndex.Present
}

// TupleElem describes one tuple position.
type TupleElem struct {
	Type     TypeID
	Name     source.Atom
	Optional bool
	Rest     bool
}

// Param describes one function parameter.
type Param struct {
	Name     source.Atom
	Type     TypeID
	Optional bool
	Rest     bool
}

// TypeParamInfo describes a generic type parameter or infer binding.
type TypeParamInfo struct {
	Name       source.Atom
	Constraint TypeID
	Default    TypeID
	IsConst    bool
}

// FunctionShape is an interned function signature. It doubles as the
// call/construct signature entry of callable shapes.
type FunctionShape struct {
	TypeParams    []TypeParamInfo
	Params        []Param
	This          TypeID
	Return        TypeID
	IsConstructor bool
	// Methods keep bivariant parameter checking even under strict
	// function types, mirroring the ecosystem convention.
	IsMethod bool
}

// CallableShape is an object carrying overloaded call and construct
// signatures, e.g. an interface with call signatures or a class
// constructor type.
type CallableShape struct {
	CallSignatures      []FunctionShape
	ConstructSignatures []FunctionShape
	Props               []Property
	StringIndex         IndexSignature
	NumberIndex         IndexSignature
	Decl                symbols.DeclID
}

// TemplateSpan is one span of a template literal type: literal text
// when Type is NoTypeID, an interpolated type otherwise.
type TemplateSpan struct {
	Text source.Atom
	Type TypeID
}

// IsText reports whether the span is literal text.
func (s TemplateSpan) IsText() bool { return s.Type == NoTypeID }

// MappedModifier is the +/- modifier on mapped-type readonly/optional.
type MappedModifier uint8

const (
	ModifierNone MappedModifier = iota
	ModifierAdd
	ModifierRemove
)

// Conditional is the interned T extends U ? X : Y structure.
type Conditional struct {
	Check        TypeID
	Extends      TypeID
	True         TypeID
	False        TypeID
	Distributive bool
}

// Mapped is the interned { [K in C as N]: T } structure.
type Mapped struct {
	Param       TypeParamInfo
	Constraint  TypeID
	NameType    TypeID
	Template    TypeID
	ReadonlyMod MappedModifier
	OptionalMod MappedModifier
}
