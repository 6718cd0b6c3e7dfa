package shared

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FromValidator converts validator output into a *ValidationError keyed by
// form field name. names maps struct field names to form names; unmapped
// fields keep their struct name. Non-validation errors are returned unchanged.
func FromValidator(err error, names map[string]string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := NewValidationError()
	for _, fe := range fieldErrs {
		name := fe.Field()
		if mapped, ok := names[name]; ok {
			name = mapped
		}
		verr.Add(name, fieldMessage(fe))
	}
	return verr.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min", "gte":
		if fe.Kind().String() == "string" {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max", "lte":
		if fe.Kind().String() == "string" {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "oneof":
		return "Choose one of: " + fe.Param()
	case "datetime":
		return "Enter a date as YYYY-MM-DD"
	}
	return "Invalid value"
}
