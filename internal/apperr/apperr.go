// Package apperr holds the error kinds shared by the gate, the upload checker and the stores.
// Handlers translate them into HTTP statuses; anything else is a server error.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("date invalide")
	ErrUnauthorized   = errors.New("autentificare necesară")
	ErrForbidden      = errors.New("acces interzis")
	ErrNotFound       = errors.New("resursa nu a fost găsită")
	ErrUploadRejected = errors.New("fișier respins")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a client-fixable failure with one entry per offending field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error; nil receivers are allowed so callers can accumulate lazily.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e == nil {
		return Validation(field, message)
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// FieldsOf returns the field list of a wrapped ValidationError, if any.
func FieldsOf(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
