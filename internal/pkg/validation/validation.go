package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// FieldError is one problem with one submitted form field.
// Field is empty for errors that concern the whole form.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the structured result of validating a form
type Errors []FieldError

// Error implements error
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrValidationFailed, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match apperrors.ErrValidationFailed
func (e Errors) Unwrap() error {
	return apperrors.ErrValidationFailed
}

// Add appends a field error
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any error was collected
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Has reports whether field has at least one error
func (e Errors) Has(field string) bool {
	return len(e.For(field)) > 0
}

// For returns the messages recorded for field
func (e Errors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

// NonField returns the messages that are not tied to a field
func (e Errors) NonField() []string {
	return e.For("")
}

// AsErrors extracts validation errors from err
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so errors line up with the inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Username.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Integer.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("percentage", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Percentage.MatchString(fl.Field().String())
	})

	return v
}

// Struct validates a tagged form struct and returns its field errors, in field order
func Struct(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Message: err.Error()}}
	}

	var errs Errors
	seen := make(map[string]bool)
	for _, fe := range fieldErrs {
		// One message per field, the first failing rule wins
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		errs.Add(fe.Field(), formatValidationError(fe))
	}
	return errs
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", e.Param(), len(fmt.Sprint(e.Value())))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", e.Value())
	case "integer", "numeric", "number":
		return "Enter a whole number."
	case "percentage":
		return "Enter a number with at most 3 digits before and 2 digits after the decimal point."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return fmt.Sprintf("Failed the %q check.", e.Tag())
	}
}
