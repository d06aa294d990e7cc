package query

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes persistence failures.
type ErrorCode string

const (
	// ErrCodeQueryFailed indicates query construction or execution failed.
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"

	// ErrCodeCastFailed indicates a result row is not of the requested type.
	ErrCodeCastFailed ErrorCode = "CAST_FAILED"
)

// ErrTypeMismatch is the cause recorded for cast failures.
var ErrTypeMismatch = errors.New("result row type mismatch")

// PersistenceError is a terminal failure surfaced by graph operations.
type PersistenceError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed: describe, exists, or all.
	Op string

	// Message is a human-readable description.
	Message string

	// Query is the statement text involved, if one was built.
	Query string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Code, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsQueryFailure returns true if err is a query failure.
// Uses errors.As to handle wrapped errors.
func IsQueryFailure(err error) bool {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeQueryFailed
	}
	return false
}

// IsCastFailure returns true if err is a cast failure.
// Uses errors.As to handle wrapped errors.
func IsCastFailure(err error) bool {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeCastFailed
	}
	return false
}

func queryFailed(op, message, query string, err error) *PersistenceError {
	return &PersistenceError{
		Code:    ErrCodeQueryFailed,
		Op:      op,
		Message: message,
		Query:   query,
		Err:     err,
	}
}
