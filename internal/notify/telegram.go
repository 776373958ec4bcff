// Package notify отправляет администраторам уведомления о новых записях.
package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// messageSender часть *bot.Bot, нужная уведомителю
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier пишет о каждой подтверждённой записи в чат администраторов
type TelegramNotifier struct {
	sender messageSender
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier создаёт клиента бота. Обновления бот не получает,
// используется только отправка сообщений.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegramNotifier(b, chatID, logger), nil
}

func newTelegramNotifier(sender messageSender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

func (n *TelegramNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      FormatBooking(booking),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Booking notification sent",
		zap.String("booking_id", booking.ID),
		zap.Int64("chat_id", n.chatID),
	)
	return nil
}
