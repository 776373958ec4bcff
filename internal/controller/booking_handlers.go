package controller

import (
	"net/http"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/julienschmidt/httprouter"
)

type bookingSlotView struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type bookingView struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	TimeSlot  bookingSlotView `json:"timeSlot"`
}

type createBookingResponse struct {
	Message string      `json:"message"`
	Booking bookingView `json:"booking"`
}

type updateBookingRequest struct {
	Status model.BookingStatus `json:"status"`
}

// createBooking POST /bookings
func (c *Controller) createBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	booking, err := c.svc.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		Message: "Reserva creada exitosamente",
		Booking: bookingView{
			ID:        booking.ID,
			FirstName: booking.FirstName,
			LastName:  booking.LastName,
			Email:     booking.Email,
			TimeSlot: bookingSlotView{
				Date:      booking.TimeSlot.Date,
				StartTime: booking.TimeSlot.StartTime,
				EndTime:   booking.TimeSlot.EndTime,
			},
		},
	})
}

// listBookings GET /bookings
func (c *Controller) listBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := c.svc.Bookings.ListBookings(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// updateBooking PATCH /admin/bookings/:id, поддерживается только отмена
func (c *Controller) updateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}
	if req.Status != model.BookingStatusCancelled {
		c.writeError(w, r, &service.ValidationError{Issues: []service.FieldIssue{
			{Field: "status", Message: "Solo se permite el estado cancelled"},
		}})
		return
	}

	booking, err := c.svc.Bookings.CancelBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
