// Package errors provides structured error handling for the tween engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinel errors returned (wrapped in a TweenError) by the animation package.
var (
	// ErrInvalidGradient means the gradient was not a finite value greater than zero.
	ErrInvalidGradient = stderrors.New("gradient must be finite and greater than zero")
	// ErrInvalidSpeed means the linear speed was negative or not finite.
	ErrInvalidSpeed = stderrors.New("linear speed must be finite and non-negative")
	// ErrNoStrategy means no transition strategy is registered for the value type.
	ErrNoStrategy = stderrors.New("no transition strategy registered for value type")
	// ErrOwnerGone means the slot's owner was torn down and can no longer be written.
	ErrOwnerGone = stderrors.New("slot owner is gone")
	// ErrInvalidSlot means the slot has no accessor or a non-comparable owner.
	ErrInvalidSlot = stderrors.New("invalid slot")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates invalid animation parameters, raised at Animate time.
	KindConfig
	// KindWrite indicates a slot write that failed during a tick.
	KindWrite
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindInspect indicates a failure in the inspection server.
	KindInspect
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindWrite:
		return "write"
	case KindPanic:
		return "panic"
	case KindInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// TweenError represents a structured error raised by the engine.
type TweenError struct {
	// Op is the operation that failed (e.g., "animation.Animate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Slot describes the slot involved, if any.
	Slot string
	// Tag is the caller-supplied tag of the animation, if any.
	Tag any
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *TweenError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("%s [%s] slot=%s: %v", e.Op, e.Kind, e.Slot, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *TweenError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "animation.callback").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *TweenError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error { return stderrors.Join(errs...) }
