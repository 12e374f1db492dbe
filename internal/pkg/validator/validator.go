package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
}

// Messages maps "field.tag" (or just "field") to the text shown next to the input.
type Messages map[string]string

// Validate checks struct tags and returns field -> message, nil when valid.
// Only the first failing rule per field is reported.
func Validate(v interface{}, msgs Messages) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errors[field]; seen {
			continue
		}
		errors[field] = message(fe, msgs)
	}
	return errors
}

func message(fe validator.FieldError, msgs Messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Field()]; ok {
		return m
	}

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email"
	case "url":
		return "Invalid URL"
	case "max":
		return fmt.Sprintf("Max %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Min %s characters", fe.Param())
	case "gt":
		return fe.Field() + " must be positive"
	case "eqfield":
		return fe.Field() + " must match " + fe.Param()
	case "date":
		return fe.Field() + " must be a YYYY-MM-DD date"
	case "number", "numeric":
		return fe.Field() + " must be a number"
	}
	return fe.Field() + " is invalid"
}

// FieldErrors is a failed validation usable as an error.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Details() map[string]string { return e }

// Check is Validate returning an error, nil when valid.
func Check(v interface{}, msgs Messages) error {
	if errs := Validate(v, msgs); len(errs) > 0 {
		return FieldErrors(errs)
	}
	return nil
}
