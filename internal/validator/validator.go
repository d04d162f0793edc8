package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// E.164: leading plus, no leading zero, at most 15 digits.
var phoneRgx = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("phone", validatePhone)

	return v
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRgx.MatchString(fl.Field().String())
}
