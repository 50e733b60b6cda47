package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// ValidationError holds per-field messages keyed by JSON field name.
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
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// checkString validates an optional string field. A nil value is only an
// error when the field is required and the validation is not partial.
func checkString(ve *ValidationError, field string, value *string, required, partial bool, tag string) {
	if value == nil {
		if required && !partial {
			ve.add(field, msgRequired)
		}
		return
	}
	if required && *value == "" {
		ve.add(field, msgBlank)
		return
	}
	if tag == "" {
		return
	}

	var verrs validator.ValidationErrors
	if err := validate.Var(*value, tag); errors.As(err, &verrs) {
		for _, fe := range verrs {
			ve.add(field, message(fe))
		}
	}
}
