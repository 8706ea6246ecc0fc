// Package errors augments the standard errors package with an error type
// that chains a cause to a message without resorting to fmt.Errorf("%w", ...).
//
// Sentinel errors declared with New may be wrapped from concurrent call
// sites: Wrap derives a new value and never mutates its receiver, and
// derived values still match their sentinel through errors.Is.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// Error carries a message, an optional cause, and the identity of the
// sentinel it derives from.
type Error struct {
	msg    string
	err    error
	origin *Error
}

// New returns a new Error with the given message. The returned value is its
// own origin, so it can serve as a package-level sentinel.
func New(msg string) *Error {
	e := &Error{msg: msg}
	e.origin = e
	return e
}

// Error returns the message.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap returns a copy of this error with the cause attached. The receiver is
// left untouched, so wrapping a shared sentinel is safe.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, origin: e.origin}
}

// WrapMsg returns a copy with the cause attached and the message replaced.
// The copy still matches the original sentinel through Is.
func (e *Error) WrapMsg(msg string, err error) *Error {
	return &Error{msg: msg, err: err, origin: e.origin}
}

// Is reports whether target is this error, its origin sentinel, or a value
// derived from the same sentinel.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.origin == t.origin
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard lib errors.As).
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard lib errors.Is).
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
