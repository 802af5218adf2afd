package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSignatures       = errors.New("no signatures provided")
	ErrCircularReference  = errors.New("circular reference")
	ErrUnknownReference   = errors.New("unknown referenced signature")
	ErrInvalidImpl        = errors.New("invalid implementation")
	ErrDuplicateSignature = errors.New("signature defined twice")
	ErrNameMismatch       = errors.New("function names do not match")
	ErrEmptySource        = errors.New("source has no signatures")
	ErrForeignDispatcher  = errors.New("dispatcher belongs to another registry")
	ErrNotDispatcher      = errors.New("not a dispatcher of this instance")
	ErrSignatureNotFound  = errors.New("signature not found")
	ErrConversionFailed   = errors.New("argument conversion failed")

	ErrWrongType   = errors.New("wrong argument type")
	ErrTooFewArgs  = errors.New("too few arguments")
	ErrTooManyArgs = errors.New("too many arguments")
	ErrMismatch    = errors.New("arguments do not match")
)

// NoSignaturesError indicates a build with an empty signature set.
type NoSignaturesError struct {
	Fn string
}

func (e *NoSignaturesError) Error() string {
	return fmt.Sprintf("no signatures provided for function %s", e.Fn)
}

func (e *NoSignaturesError) Is(target error) bool { return target == ErrNoSignatures }

func NewNoSignaturesError(fn string) *NoSignaturesError {
	return &NoSignaturesError{Fn: fn}
}

// CircularReferenceError indicates references that can never be resolved.
type CircularReferenceError struct {
	Signatures []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected while resolving signatures %s", strings.Join(quoteAll(e.Signatures), ", "))
}

func (e *CircularReferenceError) Is(target error) bool { return target == ErrCircularReference }

func NewCircularReferenceError(signatures []string) *CircularReferenceError {
	return &CircularReferenceError{Signatures: signatures}
}

// UnknownReferenceError indicates a reference to a signature the dispatcher does not define.
type UnknownReferenceError struct {
	Reference string
	Signature string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("no definition for referenced signature %q (referenced from %q)", e.Reference, e.Signature)
}

func (e *UnknownReferenceError) Is(target error) bool { return target == ErrUnknownReference }

func NewUnknownReferenceError(reference, signature string) *UnknownReferenceError {
	return &UnknownReferenceError{Reference: reference, Signature: signature}
}

// InvalidImplementationError indicates a missing function or callback.
type InvalidImplementationError struct {
	Signature string
	Reason    string
}

func (e *InvalidImplementationError) Error() string {
	return fmt.Sprintf("invalid implementation for signature %q: %s", e.Signature, e.Reason)
}

func (e *InvalidImplementationError) Is(target error) bool { return target == ErrInvalidImpl }

func NewInvalidImplementationError(signature, reason string) *InvalidImplementationError {
	return &InvalidImplementationError{Signature: signature, Reason: reason}
}

// DuplicateSignatureError indicates two implementations claiming one signature during a merge.
type DuplicateSignatureError struct {
	Signature string
}

func (e *DuplicateSignatureError) Error() string {
	return fmt.Sprintf("signature %q is defined twice", e.Signature)
}

func (e *DuplicateSignatureError) Is(target error) bool { return target == ErrDuplicateSignature }

func NewDuplicateSignatureError(signature string) *DuplicateSignatureError {
	return &DuplicateSignatureError{Signature: signature}
}

// NameMismatchError indicates merged sources asserting different names.
type NameMismatchError struct {
	Expected, Actual string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("function names do not match (expected: %s, actual: %s)", e.Expected, e.Actual)
}

func (e *NameMismatchError) Is(target error) bool { return target == ErrNameMismatch }

func NewNameMismatchError(expected, actual string) *NameMismatchError {
	return &NameMismatchError{Expected: expected, Actual: actual}
}

// EmptySourceError indicates a merge source without signatures.
type EmptySourceError struct {
	Index int
}

func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("source at index %d is neither a dispatcher nor a non-empty signature set", e.Index)
}

func (e *EmptySourceError) Is(target error) bool { return target == ErrEmptySource }

func NewEmptySourceError(index int) *EmptySourceError {
	return &EmptySourceError{Index: index}
}

// ForeignDispatcherError indicates a dispatcher built by another registry instance.
type ForeignDispatcherError struct {
	Fn string
}

func (e *ForeignDispatcherError) Error() string {
	return fmt.Sprintf("dispatcher %s was built by another registry instance", e.Fn)
}

func (e *ForeignDispatcherError) Is(target error) bool { return target == ErrForeignDispatcher }

func NewForeignDispatcherError(fn string) *ForeignDispatcherError {
	return &ForeignDispatcherError{Fn: fn}
}

// NotDispatcherError indicates an introspection call on a value this
// instance did not build.
type NotDispatcherError struct {
	Value any
}

func (e *NotDispatcherError) Error() string {
	return fmt.Sprintf("%T is not a dispatcher of this instance", e.Value)
}

func (e *NotDispatcherError) Is(target error) bool { return target == ErrNotDispatcher }

func NewNotDispatcherError(value any) *NotDispatcherError {
	return &NotDispatcherError{Value: value}
}

// SignatureNotFoundError indicates a failed signature lookup.
type SignatureNotFoundError struct {
	Fn        string
	Signature string
}

func (e *SignatureNotFoundError) Error() string {
	return fmt.Sprintf("signature not found (signature: %s(%s))", e.Fn, e.Signature)
}

func (e *SignatureNotFoundError) Is(target error) bool { return target == ErrSignatureNotFound }

func NewSignatureNotFoundError(fn, signature string) *SignatureNotFoundError {
	return &SignatureNotFoundError{Fn: fn, Signature: signature}
}

// ConversionFailedError indicates a converter that returned an error for a
// selected candidate.
type ConversionFailedError struct {
	Fn        string
	Signature string
	Index     int
	Err       error
}

func (e *ConversionFailedError) Error() string {
	return fmt.Sprintf("cannot convert argument %d of function %s for signature %q: %v", e.Index, e.Fn, e.Signature, e.Err)
}

func (e *ConversionFailedError) Is(target error) bool { return target == ErrConversionFailed }

func (e *ConversionFailedError) Unwrap() error { return e.Err }

func NewConversionFailedError(fn, signature string, index int, err error) *ConversionFailedError {
	return &ConversionFailedError{Fn: fn, Signature: signature, Index: index, Err: err}
}

// Category classifies a call-time dispatch failure.
type Category string

const (
	CategoryWrongType   Category = "wrongType"
	CategoryTooFewArgs  Category = "tooFewArgs"
	CategoryTooManyArgs Category = "tooManyArgs"
	CategoryMismatch    Category = "mismatch"
)

// DispatchError reports arguments no signature accepts.
type DispatchError struct {
	Category Category
	Fn       string
	// Index is the offending argument position (wrongType) or the argument count.
	Index int
	// Actual holds the type names of the offending argument (wrongType) or one
	// "a|b" entry per argument (mismatch).
	Actual []string
	// Expected holds the accepted type names (wrongType, tooFewArgs).
	Expected []string
	// ExpectedLength is the maximum arity (tooManyArgs).
	ExpectedLength int
}

func (e *DispatchError) Error() string {
	switch e.Category {
	case CategoryWrongType:
		return fmt.Sprintf("unexpected type of argument in function %s (expected: %s, actual: %s, index: %d)",
			e.Fn, strings.Join(e.Expected, " or "), strings.Join(e.Actual, " | "), e.Index)
	case CategoryTooFewArgs:
		return fmt.Sprintf("too few arguments in function %s (expected: %s, index: %d)",
			e.Fn, strings.Join(e.Expected, " or "), e.Index)
	case CategoryTooManyArgs:
		return fmt.Sprintf("too many arguments in function %s (expected: %d, actual: %d)",
			e.Fn, e.ExpectedLength, e.Index)
	default:
		return fmt.Sprintf("arguments of type %q do not match any of the defined signatures of function %s",
			strings.Join(e.Actual, ", "), e.Fn)
	}
}

func (e *DispatchError) Is(target error) bool {
	switch e.Category {
	case CategoryWrongType:
		return target == ErrWrongType
	case CategoryTooFewArgs:
		return target == ErrTooFewArgs
	case CategoryTooManyArgs:
		return target == ErrTooManyArgs
	default:
		return target == ErrMismatch
	}
}

func NewWrongTypeError(fn string, index int, actual, expected []string) *DispatchError {
	return &DispatchError{Category: CategoryWrongType, Fn: fn, Index: index, Actual: actual, Expected: expected}
}

func NewTooFewArgsError(fn string, index int, expected []string) *DispatchError {
	return &DispatchError{Category: CategoryTooFewArgs, Fn: fn, Index: index, Expected: expected}
}

func NewTooManyArgsError(fn string, actual, expectedLength int) *DispatchError {
	return &DispatchError{Category: CategoryTooManyArgs, Fn: fn, Index: actual, ExpectedLength: expectedLength}
}

func NewMismatchError(fn string, actual []string) *DispatchError {
	return &DispatchError{Category: CategoryMismatch, Fn: fn, Index: len(actual), Actual: actual}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
