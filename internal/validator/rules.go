package validator

import (
	"log"

	"proconnect_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила на основе statuses.go и roles.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка времени запуска, приложение стартовать не должно
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("opportunity-type", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.OpportunityType(s).IsValid() })
	})
	mustRegister("opportunity-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.OpportunityStatus(s).IsValid() })
	})
	mustRegister("approval-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.ApprovalStatus(s).IsValid() })
	})
	mustRegister("application-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.ApplicationStatus(s).IsValid() })
	})
	mustRegister("role", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.Role(s).IsValid() })
	})
}

// emptyOr - пустые значения не проверяем, для этого есть 'required'
func emptyOr(fl validator.FieldLevel, check func(string) bool) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return check(value)
}
