// Package validate holds the shared struct validator and converts its
// errors into field-addressed messages.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hexColorPattern = regexp.MustCompile(`^#?(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	dimensionRe     = regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*(?:%|px)?\s*$`)
)

// Instance returns the process-wide validator with custom tags registered.
func Instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || strings.EqualFold(s, "transparent") || hexColorPattern.MatchString(s)
		})

		_ = v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || dimensionRe.MatchString(s)
		})

		validateInst = v
	})

	return validateInst
}

// FieldError is a single validation failure addressed by a dotted field path.
type FieldError struct {
	Field string
	Tag   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s failed validation for tag '%s'", e.Field, e.Tag)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Struct validates s and returns the first failure as a *FieldError.
func Struct(s any) error {
	err := Instance().Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return &FieldError{Field: fieldName(ves[0]), Tag: ves[0].Tag(), Err: err}
	}
	return err
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part[:1])+part[1:])
	}
	return strings.Join(lowered, ".")
}
