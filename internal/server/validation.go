package server

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const notAPointMsg = "Not a valid point"

type fieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type validationResponse struct {
	Errors []fieldError `json:"errors"`
}

// newValidator returns a validator with a "point" tag accepting labels for
// which isPoint is true. Field names in errors follow the json tags.
func newValidator(isPoint func(string) bool) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("point", func(fl validator.FieldLevel) bool {
		return isPoint(fl.Field().String())
	})
	return v
}

// fieldErrors converts a validation failure into the response form. Any error
// on a point field reports notAPointMsg.
func fieldErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "", Msg: err.Error()}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, fieldError{Field: field, Msg: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "start", "end":
		return notAPointMsg
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must contain at least " + fe.Param() + " items"
	case "max":
		return "must contain at most " + fe.Param() + " items"
	default:
		return "is invalid"
	}
}
