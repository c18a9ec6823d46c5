// Package viewstate models the lifecycle of one asynchronous fetch as a closed
// union of three variants: Loading, Success and Error.
//
// The variants are not separate types. Consumers branch through Match, which
// takes one handler per variant, so adding a variant changes Match's signature
// and breaks every caller until it is handled.
package viewstate

import "fmt"

// Kind tags the active variant.
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "Loading"
	case KindSuccess:
		return "Success"
	case KindError:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is an immutable snapshot of a fetch. The zero value is Loading.
type State[T any] struct {
	kind    Kind
	data    T
	message string
}

// Loading returns the in-flight state.
func Loading[T any]() State[T] {
	return State[T]{kind: KindLoading}
}

// Success returns a terminal state carrying data.
func Success[T any](data T) State[T] {
	return State[T]{kind: KindSuccess, data: data}
}

// Error returns a terminal state carrying a user-facing message.
func Error[T any](message string) State[T] {
	return State[T]{kind: KindError, message: message}
}

// Kind reports the active variant.
func (s State[T]) Kind() Kind {
	return s.kind
}

// Terminal reports whether the fetch has finished.
func (s State[T]) Terminal() bool {
	return s.kind != KindLoading
}

// Data returns the payload and whether the state is Success.
func (s State[T]) Data() (T, bool) {
	return s.data, s.kind == KindSuccess
}

// Message returns the error text and whether the state is Error.
func (s State[T]) Message() (string, bool) {
	return s.message, s.kind == KindError
}

func (s State[T]) String() string {
	switch s.kind {
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", s.data)
	case KindError:
		return fmt.Sprintf("Error(%q)", s.message)
	default:
		return "Loading"
	}
}

// Match selects exactly one handler for s and returns its result.
func Match[T, R any](s State[T], onLoading func() R, onSuccess func(T) R, onError func(string) R) R {
	switch s.kind {
	case KindSuccess:
		return onSuccess(s.data)
	case KindError:
		return onError(s.message)
	default:
		return onLoading()
	}
}

// Map transforms the payload of a Success and passes the other variants through.
func Map[T, U any](s State[T], f func(T) U) State[U] {
	return Match(s,
		Loading[U],
		func(data T) State[U] { return Success(f(data)) },
		Error[U],
	)
}
