package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/registration-service/internal/models"
)

// Validator wraps go-playground/validator with registration-specific rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

func (v *Validator) registerRules() {
	// enrollment_date: parseable yyyy-MM-dd and not in the future
	_ = v.validate.RegisterValidation("enrollment_date", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		date, err := models.ParseDate(raw)
		if err != nil {
			return false
		}
		return !date.After(models.Today())
	})
}

// Validate runs struct-tag validation and returns accumulated field errors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ===== NORMALIZATION =====

// NormalizeEmail trims surrounding whitespace and lower-cases an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ParseEnrollmentDate parses a yyyy-MM-dd string and rejects future dates.
func ParseEnrollmentDate(raw string) (models.Date, ValidationErrors) {
	date, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, ValidationErrors{{
			Field:   "enrollmentDate",
			Message: "must be a valid date in yyyy-MM-dd format",
			Value:   raw,
			Rule:    "enrollment_date",
		}}
	}
	if date.After(models.Today()) {
		return models.Date{}, ValidationErrors{{
			Field:   "enrollmentDate",
			Message: "must not be in the future",
			Value:   raw,
			Rule:    "enrollment_date",
		}}
	}
	return date, nil
}
