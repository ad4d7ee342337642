package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
	ErrPasswordNoLetter = errors.New("Password must contain at least one letter")
	ErrPasswordNoNumber = errors.New("Password must contain at least one number")
	ErrInvalidEmail     = errors.New("Invalid email format")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

const MinPasswordLength = 6

// ValidationError carries the first failing field as a readable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CheckPasswordStrength returns the first rule the password breaks.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter {
		return ErrPasswordNoLetter
	}
	if !digit {
		return ErrPasswordNoNumber
	}
	return nil
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
			return CheckPasswordStrength(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("strict_email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		v.RegisterTagNameFunc(jsonFieldName)
		validate = v
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// ValidateRequest runs the struct's validate tags and reports the first
// failure as a *ValidationError.
func ValidateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email", "strict_email":
		return ErrInvalidEmail.Error()
	case "password_strength":
		if err := CheckPasswordStrength(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
