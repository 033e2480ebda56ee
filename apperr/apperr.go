package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable error category used by callers to decide how to react.
type Kind string

const (
	KindDecode                 Kind = "decode"
	KindDashboard              Kind = "dashboard"
	KindImportBusy             Kind = "import_busy"
	KindRow                    Kind = "row"
	KindSheetSkipped           Kind = "sheet_skipped"
	KindEmptyQuery             Kind = "empty_query"
	KindNotFound               Kind = "not_found"
	KindConflictRetryExhausted Kind = "conflict_retry_exhausted"
	KindInvalid                Kind = "invalid"
	KindInternal               Kind = "internal"
)

// Error carries a kind, a single-sentence message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a kind and message. A nil err yields a plain New.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return New(kind, message)
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// ExitCode maps an error to the process exit code used by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindDecode:
		return 2
	case KindDashboard:
		return 3
	case KindImportBusy:
		return 4
	default:
		return 5
	}
}
