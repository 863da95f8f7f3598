package validator

import (
	"log"

	"jobh_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules - ошибка регистрации правила означает сломанную сборку
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("employment_type", enumRule(func(s string) bool {
		return models.EmploymentType(s).Valid()
	}))
	mustRegister("vacancy_status", enumRule(func(s string) bool {
		return models.VacancyStatus(s).Valid()
	}))
	mustRegister("company_status", enumRule(func(s string) bool {
		return models.CompanyStatus(s).Valid()
	}))
	mustRegister("application_status", enumRule(func(s string) bool {
		return models.ApplicationStatus(s).Valid()
	}))
	mustRegister("recency", enumRule(func(s string) bool {
		_, ok := models.Recency(s).Window()
		return ok
	}))
}

// enumRule пропускает пустое значение: для него есть required
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
