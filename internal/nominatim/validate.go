package nominatim

import (
	"regexp"

	"nominatim_gateway/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
)

var osmIDPattern = regexp.MustCompile(`^[NWR][0-9]+$`)

var validate = newValidator()

func newValidator() *validator.Validator {
	v := validator.New()
	if err := v.RegisterValidation("osmid", func(fl govalidator.FieldLevel) bool {
		return osmIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("nominatim: register osmid validation: " + err.Error())
	}
	return v
}
