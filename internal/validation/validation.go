// Package validation checks request structs and turns failures into
// validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/pankajredekar/shopadmin/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if field.Anonymous {
			return field.Name
		}
		if name == "" {
			return toSnake(field.Name)
		}
		return name
	})

	// numeric tags (gte, gt) compare decimals as floats
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct validates s and returns an *apperr.Error listing failing fields
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	appErr := apperr.Validation("invalid request")
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		fields = append(fields, field)
		appErr.WithDetail(field, describe(fe))
	}
	appErr.Message = "invalid value for " + strings.Join(fields, ", ")
	return appErr
}

// fieldPath drops the top-level struct name and embedded Page from the namespace
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p != "Page" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func toSnake(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
