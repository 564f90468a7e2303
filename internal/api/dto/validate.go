package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into the
// shared VALIDATION_FAILED shape with per-field details.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid request", nil)
	}
	details := map[string]any{}
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fieldError(fe)
	}
	return apperrors.NewValidationError("request validation failed", details)
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
