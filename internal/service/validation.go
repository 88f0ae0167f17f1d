package service

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError carries one message per rejected input field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(slices.Sorted(maps.Keys(e.Fields)), ", ")
}

// add keeps the first message reported for a field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool { return e == nil || len(e.Fields) == 0 }

// IsValidationError reports whether err carries field-level input errors.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func takenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", fieldLabel(field))
}

func takenError(field string) *ValidationError { return fieldError(field, takenMessage(field)) }

func invalidReferenceError(field string) *ValidationError {
	return fieldError(field, fmt.Sprintf("The selected %s is invalid.", fieldLabel(field)))
}

// validateInput runs the struct tags of in and returns the collected field
// errors, never nil on success so callers can append uniqueness checks. The
// error is set only when in cannot be validated at all.
func validateInput(in any) (*ValidationError, error) {
	ve := &ValidationError{Fields: map[string]string{}}
	err := validate.Struct(in)
	if err == nil {
		return ve, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate %T: %w", in, err)
	}
	for _, fe := range fieldErrs {
		ve.add(fe.Field(), fieldMessage(fe))
	}
	return ve, nil
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "json":
		return fmt.Sprintf("The %s field must be a valid JSON string.", label)
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", label)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", label, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

func fieldLabel(field string) string { return strings.ReplaceAll(field, "_", " ") }

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
