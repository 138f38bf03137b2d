package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the portal's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator instance.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Validator{validate: v}
}

// Validate checks struct tags and returns the first validation error.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Var validates a single variable against a tag expression.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}
