// Package apperrors defines the error taxonomy shared by handlers and
// services. Nothing here is fatal to the process: validation errors map to
// 400 responses, everything else is logged and skipped.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidation builds a ValidationError.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrLicenseNotFound is a sentinel for unknown license keys.
var ErrLicenseNotFound = errors.New("license not found")

// ErrMasterLicense rejects deletion of master licenses.
var ErrMasterLicense = errors.New("cannot delete master license")

// ErrDuplicateKey rejects a generated license key that already exists.
var ErrDuplicateKey = errors.New("duplicate license key")
