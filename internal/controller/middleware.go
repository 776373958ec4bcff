package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/auth"
	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// AuthCookie имя cookie с токеном сессии
const AuthCookie = "auth-token"

type claimsKey struct{}

// ClaimsFrom возвращает данные сессии, сохранённые requireAdmin
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

func (c *Controller) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   c.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}

func securityHeaders(hsts bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Cache-Control", "no-store")
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument пишет строку лога и метрики для каждого запроса
func (c *Controller) instrument(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r, ps)

		elapsed := time.Since(start)
		if c.opts.Metrics != nil {
			c.opts.Metrics.ObserveRequest(route, r.Method, rec.status, elapsed)
		}
		c.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("remote", r.RemoteAddr),
		)
	}
}

// tokenFromRequest берёт токен из cookie, затем из заголовка Authorization
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AuthCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func (c *Controller) requireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := c.svc.Auth.Verify(r.Context(), tokenFromRequest(r))
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		if claims.Role != model.RoleAdmin {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "No autorizado"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

func (c *Controller) rateLimit(next httprouter.Handle) httprouter.Handle {
	if c.opts.Limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !c.opts.Limiter.Allow(clientIP(r)) {
			if c.opts.Metrics != nil {
				c.opts.Metrics.RateLimited()
			}
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Demasiadas solicitudes, intente más tarde"})
			return
		}
		next(w, r, ps)
	}
}
