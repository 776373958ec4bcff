package model

import "time"

type Expositor struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	LastName   string    `json:"lastName"`
	Email      *string   `json:"email"` // уникален, если задан
	Phone      *string   `json:"phone"`
	Speciality string    `json:"speciality"`
	Bio        *string   `json:"bio"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FullName возвращает "Имя Фамилия"
func (e *Expositor) FullName() string {
	return e.Name + " " + e.LastName
}

// Summary возвращает краткую карточку для слотов
func (e *Expositor) Summary() *ExpositorSummary {
	return &ExpositorSummary{
		ID:         e.ID,
		Name:       e.Name,
		LastName:   e.LastName,
		Speciality: e.Speciality,
		Bio:        e.Bio,
	}
}

// ExpositorSummary краткие данные экспозитора, прикрепляемые к слоту
type ExpositorSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	LastName   string  `json:"lastName"`
	Speciality string  `json:"speciality"`
	Bio        *string `json:"bio,omitempty"`
}

// FullName возвращает "Имя Фамилия"
func (e *ExpositorSummary) FullName() string {
	return e.Name + " " + e.LastName
}
