package graph

import (
	"errors"
	"fmt"
)

// Error kinds returned by the service. Absence and lack of ownership are
// deliberately indistinguishable: both surface as ErrNotFound so the service
// never reveals the existence of another user's entities.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error carries structured context about a failed service operation.
type Error struct {
	Op     string // operation that failed ("CreateEdge", "DeleteNode", ...)
	Entity string // entity kind ("graph", "node", "edge", "technique", "origin", "destination")
	ID     int64  // entity id, if known
	Cause  error  // one of the sentinel kinds above, or a storage error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func notFound(op, entity string, id int64) error {
	return &Error{Op: op, Entity: entity, ID: id, Cause: ErrNotFound}
}

func conflict(op, entity string, id int64) error {
	return &Error{Op: op, Entity: entity, ID: id, Cause: ErrConflict}
}

func invalid(op, entity string, cause error) error {
	if cause == nil {
		cause = ErrInvalidArgument
	}
	return &Error{Op: op, Entity: entity, Cause: cause}
}

func opErr(op, entity string, id int64, cause error) error {
	return &Error{Op: op, Entity: entity, ID: id, Cause: cause}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidArgument reports whether err is an invalid-argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
