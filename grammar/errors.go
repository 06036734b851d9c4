package grammar

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// ErrCodeUnmatchedFilter indicates a scalar filter whose target
	// variable was never introduced by a pattern-establishing
	// constraint. The accumulator state is internally inconsistent.
	ErrCodeUnmatchedFilter ErrorCode = "UNMATCHED_FILTER"

	// ErrCodeUnsupportedOperation indicates a constraint kind,
	// operator, or query form the grammar has no handler for.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeSerialization indicates a term of unrecognized kind
	// reached the serializer. This is a bug in accumulator
	// construction, not user error, and is not recoverable.
	ErrCodeSerialization ErrorCode = "SERIALIZATION"
)

// CompileError represents an error detected while compiling an
// accumulator. All compile errors are local to compile time; nothing
// is retried.
type CompileError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsUnmatchedFilter returns true for unmatched-filter errors.
// Uses errors.As to handle wrapped errors.
func IsUnmatchedFilter(err error) bool {
	return hasCode(err, ErrCodeUnmatchedFilter)
}

// IsUnsupportedOperation returns true for unsupported-operation errors.
func IsUnsupportedOperation(err error) bool {
	return hasCode(err, ErrCodeUnsupportedOperation)
}

// IsSerialization returns true for serialization errors.
func IsSerialization(err error) bool {
	return hasCode(err, ErrCodeSerialization)
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

func unsupportedf(format string, args ...any) *CompileError {
	return &CompileError{Code: ErrCodeUnsupportedOperation, Message: fmt.Sprintf(format, args...)}
}

func serialization(err error) *CompileError {
	return &CompileError{Code: ErrCodeSerialization, Message: err.Error(), Err: err}
}
