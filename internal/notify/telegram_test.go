package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &models.Message{ID: len(f.sent)}, nil
}

func strPtr(s string) *string { return &s }

func testBooking() *model.Booking {
	return &model.Booking{
		ID:            "b-1",
		FirstName:     "Ana",
		LastName:      "Pérez <admin>",
		Email:         "ana@example.com",
		Phone:         strPtr("+58 412 0000000"),
		Document:      "V-12345678",
		Campus:        "Caracas",
		AdvisoryTopic: strPtr("CV"),
		TimeSlot: &model.TimeSlot{
			Date:           "2025-03-03",
			StartTime:      "09:00",
			EndTime:        "10:00",
			MaxAttendees:   5,
			ConfirmedCount: 2,
			Expositor:      &model.ExpositorSummary{Name: "María", LastName: "González"},
		},
	}
}

func TestBookingConfirmedSendsToChat(t *testing.T) {
	sender := &fakeSender{}
	n := newTelegramNotifier(sender, 42, zap.NewNop())

	require.NoError(t, n.BookingConfirmed(context.Background(), testBooking()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, models.ParseModeHTML, sender.sent[0].ParseMode)
	assert.Contains(t, sender.sent[0].Text, "María González")
}

func TestBookingConfirmedWrapsError(t *testing.T) {
	sendErr := errors.New("network down")
	n := newTelegramNotifier(&fakeSender{err: sendErr}, 42, zap.NewNop())

	err := n.BookingConfirmed(context.Background(), testBooking())
	assert.ErrorIs(t, err, sendErr)
}

func TestFormatBooking(t *testing.T) {
	text := FormatBooking(testBooking())

	assert.Contains(t, text, "lunes 03/03/2025, 09:00-10:00")
	assert.Contains(t, text, "👥 2/5")
	assert.Contains(t, text, "Pérez &lt;admin&gt;")
	assert.Contains(t, text, "+58 412 0000000")
	assert.NotContains(t, text, "<admin>")
}

func TestFormatDateFallsBackOnGarbage(t *testing.T) {
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
}
