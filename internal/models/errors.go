package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for identity validation.
var (
	ErrMissingRegNo = errors.New("regNo is required")
	ErrMissingName  = errors.New("name is required")
	ErrMissingEmail = errors.New("email is required")
)

// Sentinel errors for problem selection and graph lookups.
var (
	ErrInvalidRegistrationID = errors.New("registration id must end with a decimal digit")
	ErrUnknownNode           = errors.New("graph node not found")
	ErrNegativeDepth         = errors.New("depth must not be negative")
)

// ErrMalformedPayload indicates the challenge data does not match the shape
// required by the selected problem. It is never retried.
var ErrMalformedPayload = errors.New("malformed challenge payload")

// ErrMissingField returns an ErrMalformedPayload naming the absent field.
func ErrMissingField(field string) error {
	return fmt.Errorf("%w: %s is required", ErrMalformedPayload, field)
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
