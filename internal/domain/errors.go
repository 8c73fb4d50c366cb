package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyInput    = errors.New("empty input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrSessionClosed = errors.New("session closed")
	ErrNotConfigured = errors.New("collaborator not configured")
)

// ValidationError carries a message meant to be shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// UserMessage returns the user-facing text of a ValidationError or
// CollaboratorError found in err's chain.
func UserMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce.Message, true
	}
	return "", false
}

// CollaboratorError wraps a failed call to an external collaborator together
// with the message shown to the user instead of the raw cause.
type CollaboratorError struct {
	Message string
	Err     error
}

func (e *CollaboratorError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError builds a CollaboratorError.
func NewCollaboratorError(msg string, err error) error {
	return &CollaboratorError{Message: msg, Err: err}
}
