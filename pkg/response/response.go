// Package response defines the JSON envelope returned by the API.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FieldError describes why a single request field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func Success(data any) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

func Error(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

// ValidationError builds an error envelope listing the rejected fields.
func ValidationError(msg string, errs ...FieldError) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
		Errors:  errs,
	}
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url", "http_url":
		return "invalid url"
	case "email":
		return "invalid email"
	default:
		return "invalid value"
	}
}

// FieldErrors converts validator failures into FieldErrors. Field names are
// whatever the validator reports, so register a json tag name func to get
// request field names.
func FieldErrors(err error) []FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	fieldErrs := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   e.Field(),
			Message: messageForTag(e.Tag()),
		})
	}

	return fieldErrs
}
