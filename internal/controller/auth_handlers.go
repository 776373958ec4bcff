package controller

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	User      sessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type verifyResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

// login POST /auth
func (c *Controller) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	token, admin, err := c.svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   int(time.Until(token.ExpiresAt).Round(time.Second).Seconds()),
		HttpOnly: true,
		Secure:   c.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Autenticación exitosa",
		User:      sessionUser{Username: admin.Username, Role: model.RoleAdmin},
		ExpiresAt: token.ExpiresAt,
	})
}

// verify GET /auth
func (c *Controller) verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := c.svc.Auth.Verify(r.Context(), tokenFromRequest(r))
	if err != nil {
		c.logger.Debug("Session verification failed", zap.Error(err))
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Authenticated: true,
		User:          &sessionUser{Username: claims.Username, Role: claims.Role},
	})
}

// logout DELETE /auth
func (c *Controller) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := c.svc.Auth.Logout(r.Context(), tokenFromRequest(r)); err != nil {
		c.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Sesión cerrada exitosamente"})
}
