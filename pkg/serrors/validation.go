package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldErrors flattens validator output into a field → message map. A nil
// error yields an empty, writable map so callers can append their own
// checks.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}

	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}

	for _, fieldErr := range validatorErrs {
		out[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return out
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "datetime":
		return fmt.Sprintf("must match the %s format", err.Param())
	default:
		return fmt.Sprintf("is invalid (%s)", err.Tag())
	}
}
