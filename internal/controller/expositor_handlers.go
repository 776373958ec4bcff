package controller

import (
	"net/http"

	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/julienschmidt/httprouter"
)

const invalidExpositorID = "ID de expositor inválido"

// listExpositors GET /admin/expositors
func (c *Controller) listExpositors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	expositors, err := c.svc.Expositors.ListExpositors(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expositors)
}

// createExpositor POST /admin/expositors
func (c *Controller) createExpositor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CreateExpositorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	expositor, err := c.svc.Expositors.CreateExpositor(r.Context(), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expositor)
}

// updateExpositor PATCH /admin/expositors/:id
func (c *Controller) updateExpositor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(ps.ByName("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: invalidExpositorID})
		return
	}

	var req service.UpdateExpositorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	expositor, err := c.svc.Expositors.UpdateExpositor(r.Context(), id, req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expositor)
}

// deleteExpositor DELETE /admin/expositors/:id
func (c *Controller) deleteExpositor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(ps.ByName("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: invalidExpositorID})
		return
	}

	if err := c.svc.Expositors.DeleteExpositor(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Expositor eliminado exitosamente"})
}
