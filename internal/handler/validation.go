package handler

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	strmly_errors "strmly/pkg/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the personname and strongpassword rules to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("personname", validatePersonName); err != nil {
		return err
	}
	return v.RegisterValidation("strongpassword", validateStrongPassword)
}

// personname: 2 to 50 letters and spaces after trimming
func validatePersonName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return nameLengthOK(name) && onlyLettersAndSpaces(name)
}

// strongpassword: at least one lower case letter, one upper case letter and one digit
func validateStrongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func nameLengthOK(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 2 && n <= 50
}

func onlyLettersAndSpaces(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// bindingError turns a ShouldBindJSON failure into a ValidationError with one entry per field.
func bindingError(err error) *strmly_errors.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return strmly_errors.NewValidationError("body", "Invalid request body")
	}
	ve := &strmly_errors.ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		ve.Add(field, fieldMessage(field, fe))
	}
	return ve
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch field {
	case "name":
		if fe.Tag() == "personname" {
			if value, ok := fe.Value().(string); ok && nameLengthOK(strings.TrimSpace(value)) {
				return "Name can only contain letters and spaces"
			}
		}
		return "Name must be between 2 and 50 characters"
	case "email":
		return "Please provide a valid email address"
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "min":
			return "Password must be at least 6 characters long"
		default:
			return "Password must contain at least one lowercase letter, one uppercase letter, and one number"
		}
	default:
		return field + " is invalid"
	}
}
