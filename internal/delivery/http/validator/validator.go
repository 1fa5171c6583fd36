// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request DTOs.
package validator

import (
	domainerrors "classrank/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// CustomValidator wraps a single validator instance; it is safe for
// concurrent use and caches struct metadata.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the echo validator backed by go-playground/validator.
func New() *CustomValidator {
	return &CustomValidator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate checks the struct's validate tags and maps failures onto the
// shared validation error so the error handler renders a 400.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
