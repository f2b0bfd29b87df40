// Package validation wraps go-playground/validator so that every failed rule
// comes back as an apperr.ValidationError keyed by the JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"primariaPortal/internal/apperr"
)

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// Struct validates s and translates the result. Errors that are not rule
// failures (e.g. s is not a struct) are returned unchanged.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var out *apperr.ValidationError
	for _, fe := range verrs {
		out = out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "este obligatoriu"
	case "min":
		return fmt.Sprintf("trebuie să aibă cel puțin %s caractere", fe.Param())
	case "max":
		return fmt.Sprintf("poate avea cel mult %s caractere", fe.Param())
	case "email":
		return "nu este o adresă de email validă"
	case "oneof":
		return "trebuie să fie una dintre: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uppercase":
		return "trebuie scris cu majuscule"
	default:
		return "valoare invalidă"
	}
}
