package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/employability_booking/internal/service"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string               `json:"error"`
	Details []service.FieldIssue `json:"details,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит ошибку сервиса в HTTP-ответ. Детали внутренних
// ошибок остаются только в логе.
func (c *Controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: service.ErrorMessage(err)}

	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			resp.Details = vErr.Issues
		}
	case service.KindBusinessRule:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindAuth:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
		c.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, status, resp)
}

// decodeJSON читает тело запроса. Некорректный JSON считается ошибкой валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		message := "JSON inválido"
		if errors.Is(err, io.EOF) {
			message = "Cuerpo de la solicitud vacío"
		}
		return &service.ValidationError{Issues: []service.FieldIssue{{Field: "body", Message: message}}}
	}
	return nil
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
