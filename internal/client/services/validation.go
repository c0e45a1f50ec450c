package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("invalid input")

var validate = validator.New()

// LoginForm mirrors the login screen: a well-formed email and a password
// of at least 8 characters.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type RegisterForm struct {
	Name     string `validate:"omitempty,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// IsNonEmptyString reports whether s has any non-whitespace content.
func IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// validateForm runs struct validation and turns the result into one
// readable error wrapping ErrValidation.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
