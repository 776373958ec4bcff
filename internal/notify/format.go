package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

// FormatBooking текст уведомления о записи (HTML-разметка Telegram)
func FormatBooking(b *model.Booking) string {
	var sb strings.Builder
	sb.WriteString("📅 <b>Nueva reserva</b>\n\n")
	fmt.Fprintf(&sb, "👤 %s %s\n", html.EscapeString(b.FirstName), html.EscapeString(b.LastName))
	fmt.Fprintf(&sb, "✉️ %s\n", html.EscapeString(b.Email))
	if b.Phone != nil {
		fmt.Fprintf(&sb, "📞 %s\n", html.EscapeString(*b.Phone))
	}
	fmt.Fprintf(&sb, "🪪 %s · %s\n", html.EscapeString(b.Document), html.EscapeString(b.Campus))

	if slot := b.TimeSlot; slot != nil {
		fmt.Fprintf(&sb, "\n🕒 %s, %s\n", FormatDate(slot.Date), FormatTimeRange(slot.StartTime, slot.EndTime))
		if slot.Expositor != nil {
			fmt.Fprintf(&sb, "🎤 %s\n", html.EscapeString(slot.Expositor.FullName()))
		}
		fmt.Fprintf(&sb, "👥 %d/%d\n", slot.ConfirmedCount, slot.MaxAttendees)
	}

	if b.AdvisoryTopic != nil {
		fmt.Fprintf(&sb, "\n📝 %s\n", html.EscapeString(*b.AdvisoryTopic))
	}
	return sb.String()
}

// FormatDate форматирует YYYY-MM-DD как "lunes 02/01/2006"
func FormatDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", WeekdayName(t.Weekday()), t.Format("02/01/2006"))
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end string) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// WeekdayName возвращает название дня недели на испанском
func WeekdayName(weekday time.Weekday) string {
	names := []string{
		"domingo",
		"lunes",
		"martes",
		"miércoles",
		"jueves",
		"viernes",
		"sábado",
	}
	if int(weekday) >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "desconocido"
}
