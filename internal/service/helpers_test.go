package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv сервисы поверх временной базы SQLite
type testEnv struct {
	db         *sqlite.DB
	bookings   *BookingService
	slots      *SlotService
	expositors *ExpositorService
	notifier   *recordingNotifier
	metrics    *countingMetrics
}

func newTestEnv(t *testing.T, cfg SlotConfig) *testEnv {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "booking.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	expositorRepo := sqlite.NewExpositorRepository(db)
	slotRepo := sqlite.NewSlotRepository(db)
	bookingRepo := sqlite.NewBookingRepository(db)

	env := &testEnv{
		db:       db,
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{counts: map[string]int{}},
	}
	env.bookings = NewBookingService(db, slotRepo, bookingRepo, env.notifier, env.metrics, logger)
	env.slots = NewSlotService(db, slotRepo, expositorRepo, cfg, logger)
	env.slots.SetClock(func() time.Time { return time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC) })
	env.expositors = NewExpositorService(db, expositorRepo, logger)
	return env
}

func (e *testEnv) expositor(t *testing.T) *model.Expositor {
	t.Helper()
	exp, err := e.expositors.CreateExpositor(context.Background(), CreateExpositorRequest{
		Name:       "María",
		LastName:   "González",
		Speciality: "Recursos Humanos",
	})
	require.NoError(t, err)
	return exp
}

func (e *testEnv) slot(t *testing.T, expositorID int64, date, start, end string, max int) *model.TimeSlot {
	t.Helper()
	slot, err := e.slots.CreateTimeSlot(context.Background(), CreateTimeSlotRequest{
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		MaxAttendees: max,
		ExpositorID:  expositorID,
	})
	require.NoError(t, err)
	return slot
}

func bookingRequest(slotID, email string) CreateBookingRequest {
	return CreateBookingRequest{
		TimeSlotID: slotID,
		FirstName:  "Ana",
		LastName:   "Pérez",
		Email:      email,
		Document:   "V-12345678",
		Campus:     "Caracas",
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []*model.Booking
	err      error
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *model.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, b)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.bookings)
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) BookingOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[outcome]++
}

func (m *countingMetrics) get(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[outcome]
}
