package services

import (
	"time"

	"github.com/SokolovEgor954/TheLastShelter/models"
)

// ReservationSnapshot carries the table/time pair of a reservation at a
// point in time, so edit notifications can show both old and new values.
type ReservationSnapshot struct {
	TableNumber int
	TableLabel  string
	StartTime   time.Time
}

// Notifier is the outbound notification sink. Implementations deliver in the
// background and never report failure to the caller; a failed delivery is
// logged and dropped.
type Notifier interface {
	ReservationCreated(user models.User, table models.Table, start time.Time)
	ReservationEdited(user models.User, oldState, newState ReservationSnapshot)
	ReservationCancelledByUser(user models.User, table models.Table, start time.Time)
	ReservationCancelledByAdmin(user models.User, table models.Table, start time.Time)
	OrderConfirmed(user models.User, order models.Order, total int)
	OrderStatusChanged(user models.User, order models.Order)
	MenuItemsAdded(emails []string, items []models.MenuItem)
	PasswordReset(email, resetURL string)
}

// TelegramSender pushes a plain text message to a linked chat. The bot
// registers itself here so status updates reach linked users instantly.
type TelegramSender interface {
	SendText(chatID int64, text string) error
}
