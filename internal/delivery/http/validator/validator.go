// Package validator wires go-playground/validator into Echo's Validator hook.
package validator

import (
	domainerrors "freightdesk/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator adapts a validator.Validate instance to echo.Validator.
type echoValidator struct {
	validate *validator.Validate
}

// New creates the validator used for request payload validation.
func New() *echoValidator {
	return &echoValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Struct tag violations surface as the
// generic validation error; field specifics go into the details channel.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
