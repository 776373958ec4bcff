// Package controller реализует HTTP JSON API сервиса записи.
package controller

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/employability_booking/internal/metrics"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Services struct {
	Auth       *service.AuthService
	Bookings   *service.BookingService
	Slots      *service.SlotService
	Expositors *service.ExpositorService
}

type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
	Metrics        *metrics.Metrics // nil отключает /metrics
	Limiter        *RateLimiter     // nil отключает ограничение частоты
	HealthCheck    func(ctx context.Context) error
}

type Controller struct {
	svc    Services
	opts   Options
	logger *zap.Logger
}

func New(svc Services, opts Options, logger *zap.Logger) *Controller {
	return &Controller{
		svc:    svc,
		opts:   opts,
		logger: logger,
	}
}

// Handler собирает маршруты и цепочку middleware:
// CORS → security headers → router
func (c *Controller) Handler() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(c.notFound)
	router.MethodNotAllowed = http.HandlerFunc(c.methodNotAllowed)
	router.PanicHandler = c.panicked

	c.route(router, http.MethodGet, "/health", c.health)
	if c.opts.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", c.opts.Metrics.Handler())
	}

	// Сессия администратора
	c.route(router, http.MethodPost, "/auth", c.login)
	c.route(router, http.MethodGet, "/auth", c.verify)
	c.route(router, http.MethodDelete, "/auth", c.logout)

	// Публичная часть
	c.route(router, http.MethodGet, "/timeslots", c.listAvailableSlots)
	c.route(router, http.MethodPost, "/bookings", c.rateLimit(c.createBooking))

	// Администрирование
	c.route(router, http.MethodGet, "/bookings", c.requireAdmin(c.listBookings))
	c.route(router, http.MethodPatch, "/admin/bookings/:id", c.requireAdmin(c.updateBooking))

	c.route(router, http.MethodGet, "/admin/expositors", c.requireAdmin(c.listExpositors))
	c.route(router, http.MethodPost, "/admin/expositors", c.requireAdmin(c.createExpositor))
	c.route(router, http.MethodPatch, "/admin/expositors/:id", c.requireAdmin(c.updateExpositor))
	c.route(router, http.MethodDelete, "/admin/expositors/:id", c.requireAdmin(c.deleteExpositor))

	c.route(router, http.MethodGet, "/admin/timeslots", c.requireAdmin(c.listTimeSlots))
	c.route(router, http.MethodPost, "/admin/timeslots", c.requireAdmin(c.createTimeSlot))
	c.route(router, http.MethodPatch, "/admin/timeslots/:id", c.requireAdmin(c.toggleTimeSlot))

	return c.cors().Handler(securityHeaders(c.opts.SecureCookies, router))
}

func (c *Controller) route(router *httprouter.Router, method, path string, h httprouter.Handle) {
	router.Handle(method, path, c.instrument(path, h))
}

func (c *Controller) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if c.opts.HealthCheck != nil {
		if err := c.opts.HealthCheck(r.Context()); err != nil {
			c.logger.Error("Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Controller) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Recurso no encontrado"})
}

func (c *Controller) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Método no permitido"})
}

func (c *Controller) panicked(w http.ResponseWriter, r *http.Request, v any) {
	c.logger.Error("Panic in HTTP handler",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Any("panic", v),
		zap.Stack("stack"),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: service.ErrorMessage(nil)})
}
