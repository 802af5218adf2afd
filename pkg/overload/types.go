package overload

import (
	"github.com/funvibe/overload/internal/dispatch"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// Dispatch aliases
type Func = dispatch.Func
type Impl = dispatch.Impl
type Entry = dispatch.Entry
type Signatures = dispatch.Signatures
type Named = dispatch.Named
type Source = dispatch.Source
type Dispatcher = dispatch.Dispatcher
type Candidate = dispatch.Candidate
type MismatchHandler = dispatch.MismatchHandler

// Registry aliases
type Type = typesystem.Type
type Conversion = typesystem.Conversion
type Classifier = typesystem.Classifier
type Converter = typesystem.Converter
type Callable = typesystem.Callable

// Error aliases
type DispatchError = dispatch.DispatchError
type Category = dispatch.Category
type ConversionFailedError = dispatch.ConversionFailedError
type SignatureNotFoundError = dispatch.SignatureNotFoundError
type NotDispatcherError = dispatch.NotDispatcherError
type ConflictError = signature.ConflictError
type RestPositionError = signature.RestPositionError
type UnknownTypeError = typesystem.UnknownTypeError
type NoConversionError = typesystem.NoConversionError

const (
	CategoryWrongType   = dispatch.CategoryWrongType
	CategoryTooFewArgs  = dispatch.CategoryTooFewArgs
	CategoryTooManyArgs = dispatch.CategoryTooManyArgs
	CategoryMismatch    = dispatch.CategoryMismatch
)

var (
	ErrWrongType          = dispatch.ErrWrongType
	ErrTooFewArgs         = dispatch.ErrTooFewArgs
	ErrTooManyArgs        = dispatch.ErrTooManyArgs
	ErrMismatch           = dispatch.ErrMismatch
	ErrNoSignatures       = dispatch.ErrNoSignatures
	ErrCircularReference  = dispatch.ErrCircularReference
	ErrUnknownReference   = dispatch.ErrUnknownReference
	ErrDuplicateSignature = dispatch.ErrDuplicateSignature
	ErrNameMismatch       = dispatch.ErrNameMismatch
	ErrEmptySource        = dispatch.ErrEmptySource
	ErrForeignDispatcher  = dispatch.ErrForeignDispatcher
	ErrNotDispatcher      = dispatch.ErrNotDispatcher
	ErrSignatureNotFound  = dispatch.ErrSignatureNotFound
	ErrConversionFailed   = dispatch.ErrConversionFailed
	ErrConflict           = signature.ErrConflict
	ErrRestPosition       = signature.ErrRestPosition
	ErrUnknownType        = typesystem.ErrUnknownType
	ErrDuplicateType      = typesystem.ErrDuplicateType
	ErrDuplicateConv      = typesystem.ErrDuplicateConv
	ErrSelfConversion     = typesystem.ErrSelfConversion
	ErrUnknownConversion  = typesystem.ErrUnknownConversion
	ErrNoConversion       = typesystem.ErrNoConversion
)

// Fn wraps a function as a concrete implementation.
func Fn(f Func) Impl { return dispatch.Fn(f) }

// ReferTo binds an implementation to sibling signatures of the same dispatcher.
func ReferTo(refs []string, callback func(refs ...Func) Func) Impl {
	return dispatch.ReferTo(refs, callback)
}

// ReferToSelf binds an implementation to the dispatcher being defined.
func ReferToSelf(callback func(self *Dispatcher) Func) Impl {
	return dispatch.ReferToSelf(callback)
}

// Sig pairs a signature with its implementation.
func Sig(text string, impl Impl) Entry {
	return Entry{Signature: text, Impl: impl}
}

// FromMap converts a signature map into signatures ordered by text.
func FromMap(m map[string]Impl) Signatures {
	return dispatch.FromMap(m)
}
