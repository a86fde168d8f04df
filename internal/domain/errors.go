package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentifier is wrapped by ValidationError when an id is not a canonical UUID.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidRoofSize is wrapped by ValidationError when the roof area is
	// missing, non-finite, or below MinRoofSizeM2.
	ErrInvalidRoofSize = errors.New("invalid roof size")
)

// ValidationError reports a rejected client input field. It is always
// detected before any catalog or network I/O.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a catalog reference that does not exist.
// Entity is "location" or "panel type".
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// DegenerateInputError reports inputs that produce no installable system,
// e.g. a roof smaller than one panel footprint.
type DegenerateInputError struct {
	RoofSizeM2 float64
	Reason     string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input (roof %.2f m2): %s", e.RoofSizeM2, e.Reason)
}

// RemoteCalculationError reports a failed delegated estimation. StatusCode is
// zero for transport failures and timeouts.
type RemoteCalculationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteCalculationError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("remote calculation failed: status %d: %v: %s", e.StatusCode, e.Err, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("remote calculation failed: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote calculation failed: %v", e.Err)
}

func (e *RemoteCalculationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed simulation insert.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
