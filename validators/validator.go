package validators

import (
	"github.com/go-playground/validator/v10"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
)

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator wired into echo
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks struct tags and maps failures onto the error taxonomy
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.InvalidOperation(err.Error())
	}
	return nil
}
