package core

import "errors"

// Error kinds. Use errors.Is to classify.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("auth error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

const MsgMissingFields = "Please provide all required fields"

// Error carries a message that is safe to show to the client.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// PublicMessage returns the client-facing message of err, or fallback.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
