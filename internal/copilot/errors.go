package copilot

import "fmt"

// Kind classifies a copilot pipeline failure.
type Kind int

const (
	// KindInternal is an unexpected failure.
	KindInternal Kind = iota
	// KindConfig means a required credential is missing.
	KindConfig
	// KindInvalidRequest means the caller input failed validation.
	KindInvalidRequest
	// KindAuth means the upstream rejected our credential.
	KindAuth
	// KindRateLimited means upstream throttling outlasted the retries.
	KindRateLimited
	// KindService means the upstream kept failing (5xx or transport).
	KindService
)

// Error is a typed copilot failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}
