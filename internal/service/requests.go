package service

import "errors"

// CreateBookingRequest данные формы записи на консультацию
type CreateBookingRequest struct {
	TimeSlotID     string `json:"timeSlotId" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Document       string `json:"document" validate:"required"`
	Campus         string `json:"campus" validate:"required"`
	AcademicStatus string `json:"academicStatus"`
	AcademicLevel  string `json:"academicLevel"`
	AdvisoryTopic  string `json:"advisoryTopic"`
	AdvisoryType   string `json:"advisoryType"`
	ServiceOption  string `json:"serviceOption"`
	Occupation     string `json:"occupation"`
	Comments       string `json:"comments"`
}

func (r *CreateBookingRequest) normalize() {
	trim(&r.TimeSlotID, &r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.Document, &r.Campus,
		&r.AcademicStatus, &r.AcademicLevel, &r.AdvisoryTopic, &r.AdvisoryType, &r.ServiceOption,
		&r.Occupation, &r.Comments)
}

// CreateTimeSlotRequest данные нового слота
type CreateTimeSlotRequest struct {
	Date         string `json:"date" validate:"required,isodate"`
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime" validate:"required,hhmm"`
	MaxAttendees int    `json:"maxAttendees" validate:"gte=1,lte=50"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ExpositorID  int64  `json:"expositorId" validate:"gt=0"`
}

func (r *CreateTimeSlotRequest) normalize() {
	trim(&r.Date, &r.StartTime, &r.EndTime, &r.Title, &r.Description)
}

// CreateExpositorRequest данные нового экспозитора
type CreateExpositorRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	LastName   string `json:"lastName" validate:"required,min=2"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Speciality string `json:"speciality" validate:"required,min=2"`
	Bio        string `json:"bio"`
	IsActive   *bool  `json:"isActive"`
}

func (r *CreateExpositorRequest) normalize() {
	trim(&r.Name, &r.LastName, &r.Email, &r.Phone, &r.Speciality, &r.Bio)
}

// UpdateExpositorRequest частичное обновление, nil означает "не менять".
// Пустая строка в email, phone или bio очищает поле.
type UpdateExpositorRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	LastName   *string `json:"lastName" validate:"omitempty,min=2"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Speciality *string `json:"speciality" validate:"omitempty,min=2"`
	Bio        *string `json:"bio"`
	IsActive   *bool   `json:"isActive"`
}

func (r *UpdateExpositorRequest) normalize() {
	trim(r.Name, r.LastName, r.Email, r.Phone, r.Speciality, r.Bio)
}

// validate проверяет email отдельно: пустая строка допустима и очищает поле
func (r UpdateExpositorRequest) validate() error {
	err := validateStruct(r)
	if r.Email == nil || *r.Email == "" || validate.Var(*r.Email, "email") == nil {
		return err
	}

	issue := FieldIssue{Field: "email", Message: "Email inválido"}
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Issues = append(verr.Issues, issue)
		return verr
	}
	if err != nil {
		return err
	}
	return &ValidationError{Issues: []FieldIssue{issue}}
}
