package model

import "time"

// Форматы даты и времени слота. Строки фиксированной ширины с ведущими нулями,
// поэтому их можно сравнивать лексикографически.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type TimeSlot struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`      // YYYY-MM-DD, без часового пояса
	StartTime    string    `json:"startTime"` // HH:MM
	EndTime      string    `json:"endTime"`   // HH:MM
	MaxAttendees int       `json:"maxAttendees"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ExpositorID  int64     `json:"expositorId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Дополнительные поля для удобства (не из БД)
	Expositor      *ExpositorSummary `json:"expositor,omitempty"`
	ConfirmedCount int               `json:"currentBookings"`
}

// HasCapacity сообщает, остались ли свободные места
func (s *TimeSlot) HasCapacity() bool {
	return s.ConfirmedCount < s.MaxAttendees
}

// Overlaps проверяет пересечение полуинтервалов [start, end)
func (s *TimeSlot) Overlaps(start, end string) bool {
	return start < s.EndTime && s.StartTime < end
}

// SlotFilter параметры выборки слотов
type SlotFilter struct {
	Page       int
	Limit      int
	ShowPast   bool
	ActiveOnly bool
	FromDate   string // заполняется сервисом, если ShowPast == false
}

// Offset возвращает смещение для LIMIT/OFFSET
func (f SlotFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// SlotPage страница слотов с данными для пагинации
type SlotPage struct {
	Slots      []*TimeSlot `json:"timeSlots"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
}
