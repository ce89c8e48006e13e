package utils

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the engine's recoverable-by-caller taxonomy.
type Kind string

const (
	// KindInput marks malformed or missing snapshot data, including
	// non-monotonic timestamps and mismatched series.
	KindInput Kind = "input"
	// KindInsufficientData marks series with too few samples for the
	// requested window or percentile.
	KindInsufficientData Kind = "insufficient_data"
	// KindConfiguration marks invalid SLO targets, unsupported windows and
	// unsupported platforms.
	KindConfiguration Kind = "configuration"
	// KindRendering marks abstract rule fields the chosen platform adapter
	// cannot represent.
	KindRendering Kind = "rendering"
)

// Error wraps an operation, a classification kind, a human-facing message,
// and an optional underlying error.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E constructs a classified error.
func E(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Ef constructs a classified error with a formatted message.
func Ef(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind, operation and message to an underlying error.
func Wrap(kind Kind, op, msg string, err error) error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf extracts the classification of err, or the empty Kind when the
// error carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
