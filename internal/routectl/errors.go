package routectl

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when the operator chooses to stop without changes.
// It maps to a clean zero exit.
var ErrAborted = errors.New("aborted by operator, no changes made")

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindToolMissing
	KindCertificate
	KindConfigTest
	KindStateConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindToolMissing:
		return "tool-missing"
	case KindCertificate:
		return "certificate"
	case KindConfigTest:
		return "config-test"
	case KindStateConflict:
		return "state-conflict"
	default:
		return "unknown"
	}
}

// Error carries one of the closed set of pipeline error kinds so callers can
// branch with errors.As instead of matching message strings.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the pipeline kind of err, or 0 when err is not a pipeline
// error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
