package typesystem

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType        = errors.New("unknown type")
	ErrDuplicateType      = errors.New("duplicate type name")
	ErrInvalidType        = errors.New("invalid type")
	ErrDuplicateConv      = errors.New("duplicate conversion")
	ErrSelfConversion     = errors.New("self conversion")
	ErrInvalidConversion  = errors.New("invalid conversion")
	ErrUnknownConversion  = errors.New("unknown conversion")
	ErrConversionMismatch = errors.New("conversion mismatch")
	ErrNoConversion       = errors.New("no conversion")
)

// UnknownTypeError indicates a type name that is not registered.
type UnknownTypeError struct {
	Name string
	Hint string // registered name differing only in case, if any
}

func (e *UnknownTypeError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("unknown type %q. Did you mean %q?", e.Name, e.Hint)
	}
	return fmt.Sprintf("unknown type %q", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

func NewUnknownTypeError(name, hint string) *UnknownTypeError {
	return &UnknownTypeError{Name: name, Hint: hint}
}

// DuplicateTypeError indicates a type name registered twice.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate type name %q", e.Name)
}

func (e *DuplicateTypeError) Is(target error) bool { return target == ErrDuplicateType }

func NewDuplicateTypeError(name string) *DuplicateTypeError {
	return &DuplicateTypeError{Name: name}
}

// InvalidTypeError indicates a type definition without a name or classifier.
type InvalidTypeError struct {
	Index  int
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type at index %d: %s", e.Index, e.Reason)
}

func (e *InvalidTypeError) Is(target error) bool { return target == ErrInvalidType }

func NewInvalidTypeError(index int, reason string) *InvalidTypeError {
	return &InvalidTypeError{Index: index, Reason: reason}
}

// DuplicateConversionError indicates a second conversion for the same (from, to) pair.
type DuplicateConversionError struct {
	From, To string
}

func (e *DuplicateConversionError) Error() string {
	return fmt.Sprintf("there is already a conversion from %q to %q", e.From, e.To)
}

func (e *DuplicateConversionError) Is(target error) bool { return target == ErrDuplicateConv }

func NewDuplicateConversionError(from, to string) *DuplicateConversionError {
	return &DuplicateConversionError{From: from, To: to}
}

// SelfConversionError indicates a conversion from a type to itself.
type SelfConversionError struct {
	Name string
}

func (e *SelfConversionError) Error() string {
	return fmt.Sprintf("refusing to convert from %q to itself", e.Name)
}

func (e *SelfConversionError) Is(target error) bool { return target == ErrSelfConversion }

func NewSelfConversionError(name string) *SelfConversionError {
	return &SelfConversionError{Name: name}
}

// InvalidConversionError indicates a malformed conversion definition.
type InvalidConversionError struct {
	From, To string
	Reason   string
}

func (e *InvalidConversionError) Error() string {
	return fmt.Sprintf("invalid conversion from %q to %q: %s", e.From, e.To, e.Reason)
}

func (e *InvalidConversionError) Is(target error) bool { return target == ErrInvalidConversion }

func NewInvalidConversionError(from, to, reason string) *InvalidConversionError {
	return &InvalidConversionError{From: from, To: to, Reason: reason}
}

// UnknownConversionError indicates removal of a conversion that does not exist.
type UnknownConversionError struct {
	From, To string
}

func (e *UnknownConversionError) Error() string {
	return fmt.Sprintf("attempt to remove nonexistent conversion from %q to %q", e.From, e.To)
}

func (e *UnknownConversionError) Is(target error) bool { return target == ErrUnknownConversion }

func NewUnknownConversionError(from, to string) *UnknownConversionError {
	return &UnknownConversionError{From: from, To: to}
}

// ConversionMismatchError indicates removal of a conversion whose converter
// is not the registered one.
type ConversionMismatchError struct {
	From, To string
}

func (e *ConversionMismatchError) Error() string {
	return fmt.Sprintf("conversion from %q to %q does not match the registered conversion", e.From, e.To)
}

func (e *ConversionMismatchError) Is(target error) bool { return target == ErrConversionMismatch }

func NewConversionMismatchError(from, to string) *ConversionMismatchError {
	return &ConversionMismatchError{From: from, To: to}
}

// NoConversionError indicates that Convert found no applicable conversion.
type NoConversionError struct {
	To     string
	Value  any
	Reason string
}

func (e *NoConversionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot convert %v to %s: %s", e.Value, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot convert %v to %s", e.Value, e.To)
}

func (e *NoConversionError) Is(target error) bool { return target == ErrNoConversion }

func NewNoConversionError(to string, value any, reason string) *NoConversionError {
	return &NoConversionError{To: to, Value: value, Reason: reason}
}
