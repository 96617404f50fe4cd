package service

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxifleet/pkg/auth"
)

// NonFieldErrors keys messages that belong to the whole form.
const NonFieldErrors = "__all__"

var (
	licensePattern  = regexp.MustCompile(`^[A-Z]{3}[0-9]{5}$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\- ]+$`)
)

// ValidationError carries per-field messages for a rejected form. Nothing
// is persisted when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// orNil keeps a typed nil from leaking into an error interface.
func (e *ValidationError) orNil() error {
	if e.empty() {
		return nil
	}
	return e
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("license", func(fl validator.FieldLevel) bool {
		return licensePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	// bcrypt counts bytes, max counts runes.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})
	return v
}

// validateForm runs the struct rules and converts failures into field
// messages.
func validateForm(v *validator.Validate, form any) *ValidationError {
	verr := &ValidationError{}
	err := v.Struct(form)
	if err == nil {
		return verr
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add(NonFieldErrors, err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("This password is too short. It must contain at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "license":
		return "License number must consist of 3 uppercase letters followed by 5 digits."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, spaces, and @/./+/-/_ characters."
	case "password":
		return fmt.Sprintf("This password is too long. It must contain at most %d bytes.", auth.MaxPasswordBytes)
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}
