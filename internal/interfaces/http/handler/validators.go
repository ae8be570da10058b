package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var billMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Call once at startup before serving requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("billmonth", validBillMonth)
}

// validBillMonth accepts calendar months in YYYY-MM form
func validBillMonth(fl validator.FieldLevel) bool {
	return billMonthPattern.MatchString(fl.Field().String())
}
