package diag

// ReasonKind classifies why a compatibility check failed. The checker
// layer turns kinds into user-facing diagnostics; the core itself
// never formats messages.
type ReasonKind uint8

const (
	ReasonNone ReasonKind = iota
	// ReasonTypeMismatch: source is not assignable to target.
	ReasonTypeMismatch
	// ReasonPropertyMissing: a required target property is absent.
	ReasonPropertyMissing
	// ReasonPropertyMismatch: a shared property has an incompatible type.
	ReasonPropertyMismatch
	// ReasonParamCount: too few or too many parameters/arguments.
	ReasonParamCount
	// ReasonParamType: a parameter type is incompatible.
	ReasonParamType
	// ReasonReturnType: the return type is incompatible.
	ReasonReturnType
	// ReasonNoOverload: no call signature accepted the arguments.
	ReasonNoOverload
	// ReasonRecursionLimit: a depth or operation budget was exceeded
	// and the check failed closed.
	ReasonRecursionLimit
)

// Code maps the reason onto its conventional diagnostic code.
func (k ReasonKind) Code() Code {
	switch k {
	case ReasonTypeMismatch, ReasonPropertyMismatch, ReasonReturnType:
		return TypeMismatch
	case ReasonPropertyMissing:
		return PropertyMissing
	case ReasonParamCount:
		return TooFewArguments
	case ReasonParamType:
		return ArgumentTypeMismatch
	case ReasonNoOverload:
		return NoOverloadMatch
	case ReasonRecursionLimit:
		return InstantiationTooDeep
	default:
		return UnknownCode
	}
}

// Reason is one structured failure fact from a diagnostic-producing
// subtype check. Source and Target are type handles; Name is an atom
// payload for property reasons (zero when unused).
type Reason struct {
	Kind   ReasonKind
	Source uint32
	Target uint32
	Name   uint32
}

// Code maps the reason onto its conventional diagnostic code.
func (r Reason) Code() Code { return r.Kind.Code() }
