package diag

import "fmt"

// Code is the numeric diagnostic code. The numbering mirrors the
// established ecosystem convention for this class of compiler so
// downstream tooling keeps working.
type Code uint16

const (
	UnknownCode Code = 0

	// Assignability and call checking.
	TypeMismatch         Code = 2322
	ArgumentTypeMismatch Code = 2345
	TooFewArguments      Code = 2554
	TooManyArguments     Code = 2555
	ObjectIsUnknown      Code = 2571
	InstantiationTooDeep Code = 2589
	NoOverloadMatch      Code = 2769

	// Property checking.
	PropertyMissing Code = 2339
)

func (c Code) String() string {
	return fmt.Sprintf("TS%d", uint16(c))
}
