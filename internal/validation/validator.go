package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"carcare/internal/domain"

	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted shapes of a booking date, tried in order.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses s with the first matching layout. Layouts without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q", s)
}

// MaxPasswordBytes is the longest password bcrypt accepts, in bytes.
const MaxPasswordBytes = 72

// Validator wraps go-playground/validator and reports failures as domain.ValidationError
// keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("anydate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	// bcrypt only hashes the first 72 bytes; max= would count runes.
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return &Validator{validate: v}
}

// Validate checks s and returns nil or a domain.ValidationError listing every failing field.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, domain.FieldError{Field: e.Field(), Message: message(e)})
	}
	return domain.ValidationError{Fields: fields}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "anydate":
		return "must be a valid date"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "min":
		return boundMessage("at least", e)
	case "max":
		return boundMessage("at most", e)
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

func boundMessage(bound string, e validator.FieldError) string {
	switch e.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, e.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", bound, e.Param())
	default:
		return fmt.Sprintf("must be %s %s", bound, e.Param())
	}
}
