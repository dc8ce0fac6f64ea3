// Package errors provides structured error handling for the enhance runtime.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindStructure indicates a host subtree that does not match what a
	// widget kind requires.
	KindStructure
	// KindResolve indicates a behavior module that failed to resolve.
	KindResolve
	// KindFocus indicates a focus management problem, such as a trap
	// boundary with no focusable descendants.
	KindFocus
	// KindDispatch indicates a delegated event dispatch error.
	KindDispatch
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindResolve:
		return "resolve"
	case KindFocus:
		return "focus"
	case KindDispatch:
		return "dispatch"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the typed cause in its chain. An EnhanceError
// keeps its own kind; a cause with no recognized type is KindUnknown.
func KindOf(err error) ErrorKind {
	var (
		ee *EnhanceError
		se *StructureError
		re *ResolveError
		fe *FocusError
		pe *PanicError
	)
	switch {
	case stderrors.As(err, &ee):
		return ee.Kind
	case stderrors.As(err, &se):
		return KindStructure
	case stderrors.As(err, &re):
		return KindResolve
	case stderrors.As(err, &fe):
		return KindFocus
	case stderrors.As(err, &pe):
		return KindPanic
	}
	return KindUnknown
}

// EnhanceError represents a structured error in the enhance runtime.
type EnhanceError struct {
	// Op is the operation that failed (e.g., "transform.Apply").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// WidgetKind is the widget kind involved, if applicable.
	WidgetKind string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EnhanceError) Error() string {
	if e.WidgetKind != "" {
		return fmt.Sprintf("%s [%s] widget=%s: %v", e.Op, e.Kind, e.WidgetKind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EnhanceError) Unwrap() error {
	return e.Err
}

// StructureError reports that a host element lacks the minimum declarative
// structure a widget kind requires. Transformation performs no partial
// mutation when this is returned.
type StructureError struct {
	// WidgetKind is the widget kind whose requirements were not met.
	WidgetKind string
	// Reason describes the missing or malformed structure.
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("host does not match %q structure: %s", e.WidgetKind, e.Reason)
}

// ResolveError reports that a behavior module could not be resolved for a
// widget kind. The coordinator treats this as "enhancement unavailable" and
// leaves the host in its pre-transform state.
type ResolveError struct {
	// WidgetKind is the widget kind that failed to resolve.
	WidgetKind string
	// Err is the underlying cause.
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("behavior module for %q failed to resolve: %v", e.WidgetKind, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// FocusError reports a non-fatal focus management problem. It is reported as
// a warning; a trap missing focusable descendants still activates on the
// boundary element itself.
type FocusError struct {
	// Op is the focus operation (e.g., "focus.Activate").
	Op string
	// Reason describes the problem.
	Reason string
}

func (e *FocusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "runtime.Mount").
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

// ErrorHandler receives errors reported by the enhance runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *EnhanceError)
	// HandleWarning is called for non-fatal conditions worth surfacing.
	HandleWarning(err *EnhanceError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
