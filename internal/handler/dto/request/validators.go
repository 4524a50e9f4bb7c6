package request

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Wall-clock fields travel as strings; these validators reject anything
// the domain value objects would refuse, so handlers can 400 before
// touching the usecase layer.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dateformat", validDate)
		_ = v.RegisterValidation("timeformat", validTimeOfDay)
	}
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validTimeOfDay(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}
