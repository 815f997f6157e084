package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// Error carries a client-facing message and the sentinel it belongs to.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func Invalid(msg string) error  { return &Error{Kind: ErrValidation, Msg: msg} }
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Msg: msg} }
