package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/hk-smart-transport/internal/domain"
	apperrors "github.com/hk-smart-transport/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("category", validateCategory)
}

// validateCategory - значение должно быть известной категорией точки
func validateCategory(fl validator.FieldLevel) bool {
	_, ok := domain.ParseCategory(fl.Field().String())
	return ok
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// ValidateRequest валидирует DTO и возвращает ErrInvalidRequest с полями в деталях
func ValidateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrInvalidRequest
	}
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return apperrors.ErrInvalidRequest.WithDetails(details)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
