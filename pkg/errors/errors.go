package errors

import (
	goErrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(msg string) error {
	return goErrors.New(msg)
}

// Is and As are re-exported so that callers don't have to import both this
// package and the standard library's.
var (
	Is = goErrors.Is
	As = goErrors.As
)

type contextError struct {
	context string
	cause   error
}

// WithContext annotates `err` with a short description of what was being
// done when it occurred. The result formats as "context: cause".
// A nil error stays nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, cause: err}
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.cause)
}

func (err contextError) Unwrap() error {
	return err.cause
}

// RootCause strips all the context added by WithContext and returns the
// original error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.cause
	}
}

// FriendlyError is an error whose message is meant to be shown directly to
// the user, without the context chain that led to it.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError with a formatted message.
func NewFriendlyError(format string, a ...interface{}) error {
	return FriendlyError{fmt.Sprintf(format, a...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage implements the friendlyError interface.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

type friendlyError interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the message that should be shown to the user
// for `err`. If any error in the chain has a friendly message, the outermost
// one is used. Otherwise, the full error string is returned.
func GetPrintableMessage(err error) string {
	var friendly friendlyError
	if goErrors.As(err, &friendly) {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}
