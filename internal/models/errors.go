package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "InvalidInput"
	KindInvalidFormat ErrorKind = "InvalidFormat"
	KindMissingImage  ErrorKind = "MissingImage"
	KindMissingField  ErrorKind = "MissingField"
	KindInvalidJSON   ErrorKind = "InvalidJSON"
	KindTypeError     ErrorKind = "TypeError"
	KindUploadError   ErrorKind = "UploadError"
	KindPersistError  ErrorKind = "PersistError"
	KindNotFound      ErrorKind = "NotFound"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicateSlug = errors.New("an event with this slug already exists")
)

// AppError carries a kind the HTTP layer can map to a status and a message
// safe to show to the client.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "" when
// there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
