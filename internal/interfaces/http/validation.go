package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "nexus/internal/domain/membership/valueobjects"
)

// registerValidations installs custom binding rules on gin's validator
// engine. Must run before any handler binds a request.
func registerValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return vo.ValidPaymentMethods[vo.PaymentMethod(fl.Field().String())]
	})
}
