package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RecordValidator checks `validate` struct tags on a record and reports every
// violation as a human-readable message.
type RecordValidator struct {
	validate *validator.Validate
}

// New creates a RecordValidator that names fields after their JSON tags.
func New() *RecordValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return &RecordValidator{validate: v}
}

// Validate returns the violations found on record. An empty result means the record is valid.
func (rv *RecordValidator) Validate(record any) []string {
	err := rv.validate.Struct(record)
	if err == nil {
		return nil
	}
	return formatValidationError(err)
}

// formatValidationError converts validator.ValidationErrors into human-readable messages.
func formatValidationError(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return messages
}
