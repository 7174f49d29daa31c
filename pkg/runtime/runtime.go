// Package runtime holds the types extension authors use in block signatures.
//
// gen-ext recognizes these types by their import path when projecting Go
// types onto block socket types, so their names are part of the descriptor
// contract.
package runtime

// Component is implemented by every value that can be passed to or returned
// from a block as a component socket.
type Component interface {
	ComponentName() string
}

// OptionList is implemented by enum-like named types whose constants become
// dropdown helper blocks. ToUnderlyingValue returns the value sent over the wire.
type OptionList[T comparable] interface {
	ToUnderlyingValue() T
}

// YailList is projected as "list".
type YailList []any

// YailDictionary is projected as "dictionary".
type YailDictionary map[string]any

// YailObject is projected as "yailobject".
type YailObject struct {
	Value any
}

// Continuation is an asynchronous result channel. A function taking a
// Continuation[T] parameter reports T as its block return type.
// Use Continuation[struct{}] for functions that complete without a value.
type Continuation[T any] struct {
	fn func(T)
}

// NewContinuation wraps fn as a continuation.
func NewContinuation[T any](fn func(T)) Continuation[T] {
	return Continuation[T]{fn: fn}
}

// Call delivers v to the waiting block.
func (c Continuation[T]) Call(v T) {
	if c.fn != nil {
		c.fn(v)
	}
}
