package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput reports a record that cannot be accepted as given.
var ErrInvalidInput = errors.New("invalid input")

var errInvalidZip = &InputError{Message: "Invalid zip code"}

// InputError is an ErrInvalidInput whose message is safe to show a client.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("zip5", func(fl validator.FieldLevel) bool {
		return isZip5(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("registering zip5 validation: %s", err))
	}
	return v
}

// ValidateZip accepts exactly five ASCII digits and nothing else.
func ValidateZip(zip string) error {
	if !isZip5(zip) {
		return errInvalidZip
	}
	return nil
}

// Validate checks the address before it is handed to a store.
func (a *Address) Validate() error {
	return inputError(validate.Struct(a))
}

// Validate checks that every field is present and the zip is well formed.
func (r *addressRequest) Validate() error {
	return inputError(validate.Struct(r))
}

// inputError turns validator failures into an InputError. A bad zip wins over
// a missing field so clients see the zip message whenever it applies.
func inputError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &InputError{Message: err.Error()}
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "zip5" {
			return errInvalidZip
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &InputError{Message: "missing field " + fe.Field()}
		}
	}
	return &InputError{Message: fieldErrs.Error()}
}

func isZip5(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
