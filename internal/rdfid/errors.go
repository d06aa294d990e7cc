package rdfid

import (
	"errors"
	"fmt"
)

// KeyError reports a value that cannot serve as an RDF identifier.
type KeyError struct {
	// Value is the offending input (may be nil).
	Value any

	// Reason describes why the value was rejected.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	var v string
	switch val := e.Value.(type) {
	case nil:
		v = "<nil>"
	case string:
		v = fmt.Sprintf("%q", val)
	default:
		v = fmt.Sprintf("%v", val)
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid key %s: %s: %v", v, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid key %s: %s", v, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// IsInvalidKey returns true if err is (or wraps) a KeyError.
func IsInvalidKey(err error) bool {
	var ke *KeyError
	return errors.As(err, &ke)
}
