package usecase

import (
	"errors"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

var slugRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// reservedSlugs are root path segments the router serves itself, so a link
// using one of them as its slug could never redirect.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"docs":    {},
	"ping":    {},
	"swagger": {},
}

func isReservedSlug(s string) bool {
	_, ok := reservedSlugs[s]
	return ok
}

func newValidate() *validator.Validate {
	validate := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegexp.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("unreserved", func(fl validator.FieldLevel) bool {
		return !isReservedSlug(fl.Field().String())
	})
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})

	return validate
}

// isStrongPassword reports whether s has at least 8 characters including an
// upper-case letter, a lower-case letter and a digit.
func isStrongPassword(s string) bool {
	var upper, lower, digit bool

	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return len([]rune(s)) >= 8 && upper && lower && digit
}

var fieldMessages = map[string]string{
	"required":   "this field is required",
	"http_url":   "must be an absolute http or https url",
	"email":      "must be a valid email address",
	"slug":       "must be 3 to 64 letters, digits, '-' or '_'",
	"unreserved": "is reserved and cannot be used",
	"password":   "must be at least 8 characters long and contain an upper-case letter, a lower-case letter and a digit",
}

// checkVar validates a single value and converts a failure into an
// entity.ValidationError for field.
func checkVar(validate *validator.Validate, field, value, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	msg, ok := fieldMessages[errs[0].Tag()]
	if !ok {
		msg = "invalid value"
	}

	return &entity.ValidationError{Field: field, Message: msg}
}
