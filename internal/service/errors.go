package service

import (
	"errors"

	"github.com/Freeeeeet/employability_booking/internal/auth"
)

// Нарушения бизнес-правил. Каждая ошибка соответствует одному правилу,
// HTTP-слой определяет код ответа через KindOf.
var (
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrSlotInactive       = errors.New("time slot is inactive")
	ErrSlotFull           = errors.New("time slot is full")
	ErrDuplicateBooking   = errors.New("email already has a confirmed booking for this slot")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidRange       = errors.New("end time must be after start time")
	ErrUnknownExpositor   = errors.New("expositor does not exist")
	ErrOverlap            = errors.New("time slot overlaps an existing slot")
	ErrDuplicateEmail     = errors.New("expositor email already registered")
	ErrHasActiveSlots     = errors.New("expositor has active time slots")
	ErrExpositorNotFound  = errors.New("expositor not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Kind класс ошибки для ответа клиенту
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusinessRule
	KindNotFound
	KindAuth
)

// FieldIssue описывает ошибку одного поля запроса
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError ошибка формы запроса с подробностями по полям
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid request"
	}
	return "invalid request: " + e.Issues[0].Field + " " + e.Issues[0].Message
}

// KindOf классифицирует ошибку сервиса
func KindOf(err error) Kind {
	var vErr *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &vErr):
		return KindValidation
	case errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrExpositorNotFound):
		return KindNotFound
	case errors.Is(err, ErrSlotInactive),
		errors.Is(err, ErrSlotFull),
		errors.Is(err, ErrDuplicateBooking),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrUnknownExpositor),
		errors.Is(err, ErrOverlap),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrHasActiveSlots):
		return KindBusinessRule
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpired),
		errors.Is(err, auth.ErrRevoked):
		return KindAuth
	}
	return KindInternal
}

// ErrorMessage возвращает текст ошибки для пользователя (на испанском, как в интерфейсе)
func ErrorMessage(err error) string {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Datos inválidos"
	case errors.Is(err, ErrSlotNotFound):
		return "Horario no encontrado"
	case errors.Is(err, ErrSlotInactive):
		return "Horario no disponible"
	case errors.Is(err, ErrSlotFull):
		return "No hay cupos disponibles"
	case errors.Is(err, ErrDuplicateBooking):
		return "Ya tiene una reserva confirmada para este horario"
	case errors.Is(err, ErrBookingNotFound):
		return "Reserva no encontrada"
	case errors.Is(err, ErrInvalidRange):
		return "La hora de fin debe ser posterior a la hora de inicio"
	case errors.Is(err, ErrUnknownExpositor):
		return "El expositor seleccionado no existe"
	case errors.Is(err, ErrOverlap):
		return "Ya existe un horario que se solapa con el horario especificado"
	case errors.Is(err, ErrDuplicateEmail):
		return "Ya existe un expositor con este email"
	case errors.Is(err, ErrHasActiveSlots):
		return "No se puede eliminar un expositor con horarios activos"
	case errors.Is(err, ErrExpositorNotFound):
		return "Expositor no encontrado"
	case errors.Is(err, ErrInvalidCredentials):
		return "Credenciales incorrectas"
	case errors.Is(err, auth.ErrExpired):
		return "Sesión expirada"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrRevoked):
		return "No autenticado"
	}
	return "Error interno del servidor"
}
