package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// RegisterCustomValidators installs the enum validators used by the request
// DTOs on gin's binding engine. Call once before routes are served.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type")
	}

	if err := v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
		return domain.ServiceType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("register servicetype validator: %w", err)
	}

	if err := v.RegisterValidation("donationtype", func(fl validator.FieldLevel) bool {
		return domain.DonationType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("register donationtype validator: %w", err)
	}
	return nil
}
