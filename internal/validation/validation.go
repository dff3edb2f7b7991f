// Package validation evaluates the field rules declared on the request
// models and renders violations as user-facing messages keyed by JSON
// field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired = "This field is required"
	MsgMismatch = "Passwords do not match"
	MsgEmail    = "Please enter a valid email address"
	MsgInvalid  = "This field is invalid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct checks every field of s and returns one message per failing
// field. An empty map means s is valid.
func Struct(s any) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		logging.ErrorLog("Validation misuse on %T: %v", s, err)
		return errs
	}

	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// Email reports whether value is a syntactically valid address.
func Email(value string) bool {
	return validate.Var(value, "required,email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return MsgRequired
	case "eqfield":
		return MsgMismatch
	case "min":
		return fmt.Sprintf("Password must be at least %s characters", fe.Param())
	case "email":
		return MsgEmail
	default:
		return MsgInvalid
	}
}
