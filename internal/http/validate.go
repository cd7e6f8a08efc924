package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks request DTO shape before the services run their semantic
// validation. Tags live on the request structs next to their handlers.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest returns per-field messages for tag violations, or nil when
// the payload is well-formed.
func validateRequest(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"request": "is invalid"}
	}

	fields := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields[fieldName(fe)] = validationMessage(fe)
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
