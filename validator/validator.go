// Package validator wraps go-playground/validator with the custom tags used by
// the billing records.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vocdoni/saas-billing/internal"
)

// ValidationError represents an individual validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()
	// report the json name of the field instead of the Go one
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timestamp", validateTimestamp)
	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using its `validate` tags. Field failures are
// returned as ValidationErrors.
func (v *Validator) Validate(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: errorMessage(fieldErr),
		})
	}
	return out
}

// validateTimestamp accepts RFC 3339 strings. Empty values are valid, combine
// with required when the field is mandatory.
func validateTimestamp(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	_, err := internal.ParseTimestamp(fl.Field().String())
	return err == nil
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", err.Param())
	case "ltefield":
		return fmt.Sprintf("Must not exceed %s", err.Param())
	case "timestamp":
		return "Invalid timestamp format (RFC 3339 expected)"
	default:
		return fmt.Sprintf("Invalid value: %s", err.Tag())
	}
}
