package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено, занимает место
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено администратором
)

// Valid сообщает, известен ли статус
func (s BookingStatus) Valid() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

type Booking struct {
	ID             string        `json:"id"`
	TimeSlotID     string        `json:"timeSlotId"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          *string       `json:"phone"`
	Document       string        `json:"document"`
	Campus         string        `json:"campus"`
	AcademicStatus *string       `json:"academicStatus"`
	AcademicLevel  *string       `json:"academicLevel"`
	AdvisoryTopic  *string       `json:"advisoryTopic"`
	AdvisoryType   *string       `json:"advisoryType"`
	ServiceOption  *string       `json:"serviceOption"`
	Occupation     *string       `json:"occupation"`
	Comments       *string       `json:"comments"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Дополнительные поля для удобства (не из БД)
	TimeSlot *TimeSlot `json:"timeSlot,omitempty"`
}
