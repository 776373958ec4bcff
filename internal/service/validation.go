package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isDate(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return isClock(fl.Field().String())
	})
	return v
}

// isDate проверяет формат YYYY-MM-DD и существование даты
func isDate(value string) bool {
	if len(value) != len(model.DateLayout) {
		return false
	}
	_, err := time.Parse(model.DateLayout, value)
	return err == nil
}

// isClock проверяет формат HH:MM в диапазоне 00:00–23:59
func isClock(value string) bool {
	if len(value) != len(model.TimeLayout) {
		return false
	}
	_, err := time.Parse(model.TimeLayout, value)
	return err == nil
}

// validateStruct проверяет запрос и переводит ошибки валидатора в ValidationError
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	issues := make([]FieldIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, FieldIssue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return &ValidationError{Issues: issues}
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo requerido"
	case "email":
		return "Email inválido"
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "isodate":
		return "Fecha inválida, use YYYY-MM-DD"
	case "hhmm":
		return "Hora inválida, use HH:MM"
	}
	return "Valor inválido"
}

func trim(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

// optional превращает пустую строку в nil для необязательных колонок
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
