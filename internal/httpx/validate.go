package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
// and knows the "emailaddr" and "notblank" rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return common.EmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Violations flattens validator output into field violations. Errors that
// are not validation failures yield nil.
func Violations(err error) []common.FieldViolation {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]common.FieldViolation, 0, len(ves))
	for _, fe := range ves {
		out = append(out, common.FieldViolation{Field: fe.Field(), Description: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "emailaddr", "email":
		return "must be a valid email address"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "notblank":
		return "must not be blank"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
