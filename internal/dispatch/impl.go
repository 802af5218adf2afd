package dispatch

// Func is the calling convention of implementations and dispatchers.
// A rest parameter arrives as a single []any argument.
type Func func(args ...any) (any, error)

// Impl is the implementation bound to a signature: either a concrete function
// or a reference resolved while the dispatcher is built.
// The concrete types are *Concrete, *PendingSelf and *PendingRefs.
// Identity is pointer identity, which is what merging compares.
type Impl interface {
	impl()
}

// Concrete is a ready-to-call implementation.
type Concrete struct {
	Fn Func
}

// PendingSelf is an implementation that needs the dispatcher it belongs to.
// Callback runs once during the build and must not call self: until the
// build completes self has no candidates, so a call fails with a mismatch
// DispatchError (or goes to the OnMismatch handler). Calls from the returned
// Func, after the build, dispatch normally.
type PendingSelf struct {
	Callback func(self *Dispatcher) Func
}

// PendingRefs is an implementation that needs the implementations of sibling
// signatures. Callback receives them in the order of Refs.
type PendingRefs struct {
	Refs     []string
	Callback func(refs ...Func) Func
}

func (*Concrete) impl()    {}
func (*PendingSelf) impl() {}
func (*PendingRefs) impl() {}

// Fn wraps a function as a concrete implementation.
func Fn(f Func) *Concrete {
	return &Concrete{Fn: f}
}

// ReferToSelf defers an implementation until its dispatcher exists.
func ReferToSelf(callback func(self *Dispatcher) Func) *PendingSelf {
	return &PendingSelf{Callback: callback}
}

// ReferTo defers an implementation until the referenced signatures of the
// same dispatcher are resolved.
func ReferTo(refs []string, callback func(refs ...Func) Func) *PendingRefs {
	return &PendingRefs{Refs: append([]string(nil), refs...), Callback: callback}
}

func validImpl(impl Impl) string {
	switch v := impl.(type) {
	case nil:
		return "implementation is nil"
	case *Concrete:
		if v == nil || v.Fn == nil {
			return "function is nil"
		}
	case *PendingSelf:
		if v == nil || v.Callback == nil {
			return "self reference callback is nil"
		}
	case *PendingRefs:
		if v == nil || v.Callback == nil {
			return "reference callback is nil"
		}
	}
	return ""
}
