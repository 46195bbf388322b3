package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by catalog operations.
var (
	ErrInvalidArgument = errors.New("catalog: invalid argument")
	ErrInvalidName     = fmt.Errorf("%w: invalid name", ErrInvalidArgument)
	ErrDuplicateName   = errors.New("catalog: duplicate name")
	ErrCrossDocument   = errors.New("catalog: object belongs to another catalog")
	ErrNotSupported    = errors.New("catalog: operation not supported")
	ErrHandleInUse     = errors.New("catalog: handle already in use")
	ErrNotFound        = errors.New("catalog: not found")

	// ErrInconsistentState is only ever raised through a panic. It marks a
	// broken internal invariant, never a caller mistake.
	ErrInconsistentState = errors.New("catalog: inconsistent state")
)

// DuplicateNameError reports a rename onto a name already used in the table.
type DuplicateNameError struct {
	Kind Kind
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("catalog: %s %q already exists", e.Kind, e.Name)
}

// Is makes errors.Is(err, ErrDuplicateName) match.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

func inconsistent(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...)))
}
