package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrMenuItemNotFound = kindError(ErrNotFound, "menu item not found")
	ErrTableNotFound    = kindError(ErrNotFound, "table not found")
	ErrBookingNotFound  = kindError(ErrNotFound, "booking not found")
	ErrSlotUnavailable  = kindError(ErrConflict, "table is no longer available for the requested time")
	ErrBookingNotActive = kindError(ErrConflict, "only confirmed bookings can be cancelled")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func kindError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func validationErrorf(format string, args ...any) error {
	return kindError(ErrValidation, fmt.Sprintf(format, args...))
}
