package calcx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned by Apply for inputs that cannot be expressed
	// on the keypad, such as a digit outside 0-9.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSnapshot is returned by Restore when a snapshot breaks an
	// engine invariant.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	ErrSqrtNegative    = errors.New("square root of a negative number")
	ErrReciprocalZero  = errors.New("reciprocal of zero")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNonFiniteResult = errors.New("result is not finite")
)

// DomainError reports an operation applied outside its domain. It is never
// returned from Apply; the engine shows "Error" and keeps it in Err.
type DomainError struct {
	Op      string  // "sqrt", "reciprocal", "/"
	Operand float64 // offending operand
	Kind    error   // one of the Err* sentinels
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s(%s): %v", e.Op, FormatNumber(e.Operand), e.Kind)
}

func (e *DomainError) Unwrap() error { return e.Kind }

// OverflowError reports a computation whose result is infinite or NaN.
type OverflowError struct {
	Op     string
	Result float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %v (%v)", e.Op, ErrNonFiniteResult, e.Result)
}

func (e *OverflowError) Unwrap() error { return ErrNonFiniteResult }
