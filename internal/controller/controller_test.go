package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/auth"
	"github.com/Freeeeeet/employability_booking/internal/metrics"
	"github.com/Freeeeeet/employability_booking/internal/repository/sqlite"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler http.Handler
	svc     Services
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	m := metrics.New()
	provider, err := auth.NewHMACProvider(auth.Config{Secret: "test-secret"}, auth.NewMemoryDenylist())
	require.NoError(t, err)

	expositorRepo := sqlite.NewExpositorRepository(db)
	slotRepo := sqlite.NewSlotRepository(db)
	svc := Services{
		Auth:       service.NewAuthService(sqlite.NewAdminRepository(db), provider, logger),
		Bookings:   service.NewBookingService(db, slotRepo, sqlite.NewBookingRepository(db), nil, m, logger),
		Slots:      service.NewSlotService(db, slotRepo, expositorRepo, service.SlotConfig{}, logger),
		Expositors: service.NewExpositorService(db, expositorRepo, logger),
	}
	svc.Slots.SetClock(func() time.Time { return time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC) })
	require.NoError(t, svc.Auth.EnsureAdmin(ctx, service.AdminSeed{Username: "admin", Password: "admin123"}))

	ctrl := New(svc, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Metrics:        m,
		Limiter:        limiter,
		HealthCheck:    func(ctx context.Context) error { return db.SQL().PingContext(ctx) },
	}, logger)

	return &testServer{handler: ctrl.Handler(), svc: svc, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookie {
			return c
		}
	}
	t.Fatal("auth cookie not set")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/auth", map[string]string{"username": "admin", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Credenciales incorrectas", decode[errorResponse](t, rec).Error)
	})

	t.Run("broken body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/auth", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	cookie := s.login(t)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	rec := s.do(t, http.MethodGet, "/auth", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"user":{"username":"admin","role":"admin"}}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/auth", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/expositors", nil)
		req.Header.Set("Authorization", "Bearer "+cookie.Value)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	rec = s.do(t, http.MethodDelete, "/auth", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	rec = s.do(t, http.MethodGet, "/admin/expositors", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, nil)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/bookings"},
		{http.MethodPatch, "/admin/bookings/x"},
		{http.MethodGet, "/admin/expositors"},
		{http.MethodPost, "/admin/expositors"},
		{http.MethodPatch, "/admin/expositors/1"},
		{http.MethodDelete, "/admin/expositors/1"},
		{http.MethodGet, "/admin/timeslots"},
		{http.MethodPost, "/admin/timeslots"},
		{http.MethodPatch, "/admin/timeslots/x"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := s.do(t, route.method, route.path, nil, &http.Cookie{Name: AuthCookie, Value: "forged"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "No autenticado", decode[errorResponse](t, rec).Error)
		})
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t)

	rec := s.do(t, http.MethodPost, "/admin/expositors", map[string]any{
		"name": "María", "lastName": "González", "speciality": "Recursos Humanos", "bio": "Consultora",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	expositor := decode[struct {
		ID int64 `json:"id"`
	}](t, rec)

	rec = s.do(t, http.MethodPost, "/admin/timeslots", map[string]any{
		"date": "2025-03-10", "startTime": "09:00", "endTime": "10:00", "maxAttendees": 1, "expositorId": expositor.ID,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	slot := decode[struct {
		ID string `json:"id"`
	}](t, rec)

	t.Run("overlapping slot", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/admin/timeslots", map[string]any{
			"date": "2025-03-10", "startTime": "09:30", "endTime": "10:30", "maxAttendees": 1, "expositorId": expositor.ID,
		}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Ya existe un horario que se solapa con el horario especificado", decode[errorResponse](t, rec).Error)
	})

	booking := map[string]string{
		"timeSlotId": slot.ID,
		"firstName":  "Ana",
		"lastName":   "Pérez",
		"email":      "ana@example.com",
		"document":   "V-1",
		"campus":     "Caracas",
	}

	rec = s.do(t, http.MethodPost, "/bookings", booking)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[createBookingResponse](t, rec)
	assert.Equal(t, "Reserva creada exitosamente", created.Message)
	assert.Equal(t, "09:00", created.Booking.TimeSlot.StartTime)

	t.Run("public slots show the booking", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/timeslots", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		views := decode[[]publicSlotView](t, rec)
		require.Len(t, views, 1)
		assert.Equal(t, 1, views[0].CurrentBookings)
		assert.Equal(t, "María González", views[0].Expositor.Name)
	})

	t.Run("slot is full", func(t *testing.T) {
		other := map[string]string{}
		for k, v := range booking {
			other[k] = v
		}
		other["email"] = "otro@example.com"
		rec := s.do(t, http.MethodPost, "/bookings", other)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No hay cupos disponibles", decode[errorResponse](t, rec).Error)
	})

	t.Run("unknown slot", func(t *testing.T) {
		other := map[string]string{}
		for k, v := range booking {
			other[k] = v
		}
		other["timeSlotId"] = "missing"
		rec := s.do(t, http.MethodPost, "/bookings", other)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid form", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/bookings", map[string]string{"timeSlotId": slot.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "Datos inválidos", resp.Error)
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("admin sees and cancels", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/bookings", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}](t, rec)
		require.Len(t, list, 1)

		rec = s.do(t, http.MethodPatch, "/admin/bookings/"+list[0].ID, map[string]string{"status": "confirmed"}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPatch, "/admin/bookings/"+list[0].ID, map[string]string{"status": "cancelled"}, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

		rec = s.do(t, http.MethodPost, "/bookings", booking)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("expositor with active slot is kept", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/admin/expositors/1", nil, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPatch, "/admin/timeslots/"+slot.ID, map[string]bool{"isActive": false}, admin)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodDelete, "/admin/expositors/1", nil, admin)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodDelete, "/admin/expositors/abc", nil, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `employability_booking_attempts_total{outcome="confirmed"} 2`)
		assert.Contains(t, rec.Body.String(), `route="/bookings"`)
	})
}

func TestAdminTimeSlotsQuery(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t)

	rec := s.do(t, http.MethodGet, "/admin/timeslots?page=0&limit=x&showPast=maybe", nil, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[errorResponse](t, rec).Details, 3)

	rec = s.do(t, http.MethodGet, "/admin/timeslots?page=1&limit=5&showPast=true", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"timeSlots":[],"page":1,"limit":5,"total":0,"totalPages":0}`, rec.Body.String())

	rec = s.do(t, http.MethodPatch, "/admin/timeslots/x", map[string]any{}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/admin/timeslots/x", map[string]bool{"isActive": true}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookingRateLimited(t *testing.T) {
	s := newTestServer(t, NewRateLimiter(0.001, 2))

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/bookings", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/bookings", map[string]string{})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Чтение слотов не ограничивается
	rec = s.do(t, http.MethodGet, "/timeslots", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/bookings", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestHealthUnavailable(t *testing.T) {
	ctrl := New(Services{}, Options{HealthCheck: func(context.Context) error { return errors.New("db down") }}, zap.NewNop())
	rec := httptest.NewRecorder()
	ctrl.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
