package common

import "errors"

// Error categories shared by every subsystem. Package-level sentinel errors
// carry exactly one of these, so callers can branch on the category with
// errors.Is without knowing the concrete error.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrLimitExceeded  = errors.New("limit exceeded")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidState   = errors.New("invalid state")
	ErrUpstreamConfig = errors.New("upstream configuration")
)

var kinds = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrLimitExceeded,
	ErrUnauthorized,
	ErrInvalidState,
	ErrUpstreamConfig,
}

// KindError is a sentinel error tagged with its category.
type KindError struct {
	kind error
	msg  string
}

// NewError returns a sentinel error with message msg in category kind.
func NewError(kind error, msg string) *KindError {
	return &KindError{kind: kind, msg: msg}
}

func (e *KindError) Error() string { return e.msg }

// Unwrap exposes the category to errors.Is.
func (e *KindError) Unwrap() error { return e.kind }

// Kind returns the category of err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
