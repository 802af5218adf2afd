package signature

import (
	"errors"
	"fmt"
)

var (
	ErrRestPosition = errors.New("misplaced rest parameter")
	ErrConflict     = errors.New("conflicting signatures")
)

// RestPositionError indicates a rest parameter that is not the last one.
type RestPositionError struct {
	Index int
	Param string
}

func (e *RestPositionError) Error() string {
	return fmt.Sprintf("unexpected rest parameter %q at index %d: only allowed for the last parameter", e.Param, e.Index)
}

func (e *RestPositionError) Is(target error) bool { return target == ErrRestPosition }

func NewRestPositionError(index int, param string) *RestPositionError {
	return &RestPositionError{Index: index, Param: param}
}

// ConflictError indicates two signatures that match the same calls with no
// way to prefer one over the other.
type ConflictError struct {
	First, Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting signatures %q and %q", e.First, e.Second)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func NewConflictError(first, second string) *ConflictError {
	return &ConflictError{First: first, Second: second}
}
