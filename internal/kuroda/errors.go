package kuroda

import "errors"

var (
	// ErrInvalidInput is returned when the input ladder does not strictly
	// alternate between series and shunt elements.
	ErrInvalidInput = errors.New("kuroda: ladder does not alternate series and shunt elements")

	// ErrPivotOutOfRange is returned when a shunt index does not name a
	// shunt element of the input.
	ErrPivotOutOfRange = errors.New("kuroda: pivot index out of range")

	// ErrContractViolation reports an internal state that the alternation
	// invariant rules out, such as a reactive element surviving synthesis.
	ErrContractViolation = errors.New("kuroda: contract violation")
)
