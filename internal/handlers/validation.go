package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// decimalPattern matches the fixed-point strings the store keeps for agent
// performance and metric values, e.g. "0.00" or "94.7".
var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			return decimalPattern.MatchString(fl.Field().String())
		})
	}
}
