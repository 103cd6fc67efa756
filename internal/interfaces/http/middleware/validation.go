package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Call once at startup before serving requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
		return err
	}
	return v.RegisterValidation("positive_decimal", validatePositiveDecimal)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "card", "digital":
		return true
	}
	return false
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
