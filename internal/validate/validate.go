// Package validate wraps go-playground/validator and renders field errors as client messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldLabel)
		instance = v
	})
	return instance
}

// fieldLabel prefers the label tag, then a humanised json name, then the Go field name.
func fieldLabel(f reflect.StructField) string {
	if label := strings.TrimSpace(f.Tag.Get("label")); label != "" {
		return label
	}

	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = f.Name
	}
	return humanize(name)
}

func humanize(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Struct validates s and returns validator.ValidationErrors on failure.
func Struct(s any) error {
	return engine().Struct(s)
}

// Var validates a single value against tag.
func Var(value any, tag string) error {
	return engine().Var(value, tag)
}

// Message renders the first failing field of a ValidationErrors value.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ""
	}
	return render(verrs[0])
}

func render(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return field + " is required"
	case "email":
		return "Valid " + strings.ToLower(field) + " is required"
	case "url":
		return field + " must be a valid URL"
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
