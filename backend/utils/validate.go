package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseBody decodes the JSON body into out and runs its validate tags. On
// failure the 400 response has already been written and handled is true.
func ParseBody(c *fiber.Ctx, out interface{}) (handled bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return true, BadRequest(c, "Cannot parse JSON")
	}
	return ValidateBody(c, out)
}

// ValidateBody runs the validate tags of an already decoded body.
func ValidateBody(c *fiber.Ctx, out interface{}) (handled bool, err error) {
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return true, BadRequest(c, err.Error())
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		return true, ValidationError(c, details)
	}

	return false, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
