package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/exceptions"
)

// RequestValidator plugs go-playground/validator into echo and reports
// failures as a validation problem with one issue per field.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	issues := make([]exceptions.Issue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, exceptions.Issue{
			Path:    []string{fe.Field()},
			Code:    fe.Tag(),
			Message: issueMessage(fe),
		})
	}
	return exceptions.Validation(issues)
}

// BindError converts a payload decoding failure into a validation problem.
// A body cut off by the size limit keeps its 413.
func BindError(err error) *exceptions.Exception {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
		return exceptions.ErrPayloadTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return exceptions.Validation([]exceptions.Issue{{
			Path:    strings.Split(typeErr.Field, "."),
			Code:    "invalid_type",
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type),
		}})
	}

	return exceptions.Validation([]exceptions.Issue{{
		Path:    []string{},
		Code:    "invalid_json",
		Message: "request body must be a valid JSON object",
	}})
}

func issueMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		if field == "description" {
			return "Description cannot be empty"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
