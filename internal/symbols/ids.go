package symbols

// DeclID identifies a named declaration (class, interface, type alias,
// enum, namespace) inside the declaration arena. Type-level structures
// reference declarations through this handle instead of embedding
// syntax, which breaks reference cycles and makes recursive aliases
// representable.
type DeclID uint32

// NoDeclID marks the absence of a declaration reference.
const NoDeclID DeclID = 0

// IsValid reports whether the ID refers to an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// DeclKind enumerates the kinds of named declarations the type core
// knows about.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclClass
	DeclInterface
	DeclTypeAlias
	DeclEnum
	DeclNamespace
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclTypeAlias:
		return "type alias"
	case DeclEnum:
		return "enum"
	case DeclNamespace:
		return "namespace"
	default:
		return "invalid"
	}
}
