// Package notify delivers new-reservation alerts to the staff chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// Notifier announces newly created reservations. Implementations must not
// block the booking flow on delivery problems.
type Notifier interface {
	ReservationCreated(ctx context.Context, blocks []model.Reservation)
}

// TelegramNotifier posts reservation alerts to a staff Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

// NewTelegram creates a Telegram notifier. Returns an error when the token
// is rejected by the Bot API.
func NewTelegram(token string, chatID int64, log *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

// ReservationCreated sends one message covering all blocks of a submission.
// Failures are logged and dropped; the reservation is already persisted.
func (n *TelegramNotifier) ReservationCreated(_ context.Context, blocks []model.Reservation) {
	if len(blocks) == 0 {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, FormatReservationAlert(blocks))
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error().Err(err).Str("reservation_id", blocks[0].ID).Msg("failed to send staff notification")
	}
}

// FormatReservationAlert renders the staff alert text for one submission.
func FormatReservationAlert(blocks []model.Reservation) string {
	first := blocks[0]

	var b strings.Builder
	fmt.Fprintf(&b, "🎳 Nova reserva: %s\n", first.ClientName)
	fmt.Fprintf(&b, "📅 %s\n", first.Date.Format("02/01/2006"))
	for _, blk := range blocks {
		fmt.Fprintf(&b, "⏰ %02d:00 – %02d:00 (%d pista(s))\n",
			blk.StartHour%24, blk.EndHour()%24, blk.LaneCount)
	}
	fmt.Fprintf(&b, "👥 %d pessoa(s)", first.PeopleCount)
	if first.HasTableReservation {
		fmt.Fprintf(&b, "\n🍽 Mesa para %d", first.TableSeatCount)
	}
	if first.PayOnSite {
		b.WriteString("\n💵 Pagamento no local")
	}
	return b.String()
}
