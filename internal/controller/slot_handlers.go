package controller

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/julienschmidt/httprouter"
)

type publicExpositorView struct {
	Name       string  `json:"name"`
	Speciality string  `json:"speciality"`
	Bio        *string `json:"bio"`
}

type publicSlotView struct {
	ID              string              `json:"id"`
	Date            string              `json:"date"`
	StartTime       string              `json:"startTime"`
	EndTime         string              `json:"endTime"`
	MaxAttendees    int                 `json:"maxAttendees"`
	Title           *string             `json:"title"`
	Description     *string             `json:"description"`
	CurrentBookings int                 `json:"currentBookings"`
	Expositor       publicExpositorView `json:"expositor"`
}

type toggleSlotRequest struct {
	IsActive *bool `json:"isActive"`
}

// listAvailableSlots GET /timeslots
func (c *Controller) listAvailableSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := c.svc.Slots.ListAvailableSlots(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	views := make([]publicSlotView, 0, len(slots))
	for _, slot := range slots {
		view := publicSlotView{
			ID:              slot.ID,
			Date:            slot.Date,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			MaxAttendees:    slot.MaxAttendees,
			Title:           slot.Title,
			Description:     slot.Description,
			CurrentBookings: slot.ConfirmedCount,
		}
		if slot.Expositor != nil {
			view.Expositor = publicExpositorView{
				Name:       slot.Expositor.FullName(),
				Speciality: slot.Expositor.Speciality,
				Bio:        slot.Expositor.Bio,
			}
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

// listTimeSlots GET /admin/timeslots?page=&limit=&showPast=
func (c *Controller) listTimeSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseSlotFilter(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	page, err := c.svc.Slots.ListTimeSlots(r.Context(), filter)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func parseSlotFilter(r *http.Request) (model.SlotFilter, error) {
	var (
		filter model.SlotFilter
		issues []service.FieldIssue
	)
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			issues = append(issues, service.FieldIssue{Field: "page", Message: "Debe ser un entero positivo"})
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			issues = append(issues, service.FieldIssue{Field: "limit", Message: "Debe ser un entero positivo"})
		}
		filter.Limit = limit
	}
	if raw := q.Get("showPast"); raw != "" {
		showPast, err := strconv.ParseBool(raw)
		if err != nil {
			issues = append(issues, service.FieldIssue{Field: "showPast", Message: "Debe ser true o false"})
		}
		filter.ShowPast = showPast
	}

	if len(issues) > 0 {
		return filter, &service.ValidationError{Issues: issues}
	}
	return filter, nil
}

// createTimeSlot POST /admin/timeslots
func (c *Controller) createTimeSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CreateTimeSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	slot, err := c.svc.Slots.CreateTimeSlot(r.Context(), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// toggleTimeSlot PATCH /admin/timeslots/:id
func (c *Controller) toggleTimeSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req toggleSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}
	if req.IsActive == nil {
		c.writeError(w, r, &service.ValidationError{Issues: []service.FieldIssue{
			{Field: "isActive", Message: "Campo requerido"},
		}})
		return
	}

	slot, err := c.svc.Slots.ToggleSlotActive(r.Context(), ps.ByName("id"), *req.IsActive)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}
