package services

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is a failure the caller can act on. Status is the HTTP status the
// controllers answer with; Message is shown to the client as is.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return newError(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(http.StatusNotFound, format, args...)
}

func Unavailable(format string, args ...interface{}) *Error {
	return newError(http.StatusServiceUnavailable, format, args...)
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validationError turns validator output into a single 400 naming the first
// offending field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Status: http.StatusBadRequest, Message: "Invalid input", Err: err}
	}
	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "email":
		msg = "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		} else {
			msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		}
	case "gt", "gte":
		msg = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return &Error{Status: http.StatusBadRequest, Message: msg, Err: err}
}

func check(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}
