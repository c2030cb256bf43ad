// Package errs defines the error taxonomy shared by every spendlens package.
//
// Only caller-contract violations are errors. Expected edge cases in the
// computation (zero denominators, empty groups, too few samples) are valid
// output states and never reach this package.
package errs

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrEmptyInput       = errors.New("empty input")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// InvalidFormatError reports a malformed input string, usually a date.
type InvalidFormatError struct {
	Input    string
	Expected string
}

func (e *InvalidFormatError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("invalid format: %q", e.Input)
	}
	return fmt.Sprintf("invalid format: %q (expected %s)", e.Input, e.Expected)
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }

// EmptyInputError reports an operation that needs a non-empty collection.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input", e.Op)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// InvalidParameterError reports a parameter outside its valid domain.
type InvalidParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid parameter %s: %v", e.Name, e.Value)
	}
	return fmt.Sprintf("invalid parameter %s: %v (%s)", e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// InvalidFormat builds an *InvalidFormatError.
func InvalidFormat(input, expected string) error {
	return &InvalidFormatError{Input: input, Expected: expected}
}

// EmptyInput builds an *EmptyInputError.
func EmptyInput(op string) error {
	return &EmptyInputError{Op: op}
}

// InvalidParameter builds an *InvalidParameterError.
func InvalidParameter(name string, value interface{}, reason string) error {
	return &InvalidParameterError{Name: name, Value: value, Reason: reason}
}

// IsCallerError reports whether err belongs to the taxonomy, i.e. the caller
// supplied bad input rather than something failing internally.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidParameter)
}
