package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"backoffice/internal/core/apperror"
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs struct-tag validation and converts failures into a
// 400 AppError whose details map each offending field to its rule.
func ValidateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewValidation("datos inválidos").WithCause(err)
	}

	appErr := apperror.NewValidation(describeFieldError(fieldErrs[0]))
	for _, fe := range fieldErrs {
		appErr.WithDetail(fe.Field(), fe.Tag())
	}
	return appErr
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo '%s' es obligatorio", fe.Field())
	case "max":
		return fmt.Sprintf("El campo '%s' supera el máximo de %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("El campo '%s' debe ser al menos %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("El campo '%s' no es válido (%s)", fe.Field(), fe.Tag())
	}
}
