package services

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

const mailSignature = "The Last Shelter — reservation system"

// Mailer delivers transactional email over SMTP. Every send runs in its own
// goroutine: a dead mail server must never fail the mutation that triggered
// the message.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	baseURL    string
	telegram   TelegramSender
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:       cfg.SMTPUser,
		adminEmail: cfg.AdminEmail,
		baseURL:    cfg.BaseURL,
	}
}

// SetTelegram routes order-status pushes to linked chats. Optional; without
// it the mailer falls back to email for those too.
func (m *Mailer) SetTelegram(sender TelegramSender) {
	m.telegram = sender
}

func (m *Mailer) send(to, subject, bodyHTML string) {
	if to == "" {
		return
	}
	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", bodyHTML)

		if err := m.dialer.DialAndSend(msg); err != nil {
			utils.ErrorLogger.Printf("mail to %s (%s) failed: %v", to, subject, err)
		}
	}()
}

func (m *Mailer) ReservationCreated(user models.User, table models.Table, start time.Time) {
	m.send(m.adminEmail, "New reservation | The Last Shelter", fmt.Sprintf(`
		<h2>NEW RESERVATION</h2>
		<p><b>User:</b> %s (%s)</p>
		<p><b>Table #%d</b> — %s</p>
		<p><b>Time:</b> %s</p>
		<p>%s</p>`,
		user.Nickname, user.Email, table.Number, table.Label,
		start.Format("02.01.2006 15:04"), mailSignature))
}

func (m *Mailer) ReservationEdited(user models.User, oldState, newState ReservationSnapshot) {
	m.send(m.adminEmail, "Reservation updated | The Last Shelter", fmt.Sprintf(`
		<h2>RESERVATION UPDATED</h2>
		<p><b>User:</b> %s (%s)</p>
		<p>Was: table #%d (%s) at %s</p>
		<p>Now: table #%d (%s) at %s</p>
		<p>%s</p>`,
		user.Nickname, user.Email,
		oldState.TableNumber, oldState.TableLabel, oldState.StartTime.Format("02.01.2006 15:04"),
		newState.TableNumber, newState.TableLabel, newState.StartTime.Format("02.01.2006 15:04"),
		mailSignature))
}

func (m *Mailer) ReservationCancelledByUser(user models.User, table models.Table, start time.Time) {
	m.send(m.adminEmail, "Reservation cancelled by user | The Last Shelter", fmt.Sprintf(`
		<h2>RESERVATION CANCELLED BY USER</h2>
		<p><b>User:</b> %s (%s)</p>
		<p><b>Table #%d</b> — %s</p>
		<p><b>Time was:</b> %s</p>
		<p>%s</p>`,
		user.Nickname, user.Email, table.Number, table.Label,
		start.Format("02.01.2006 15:04"), mailSignature))
}

func (m *Mailer) ReservationCancelledByAdmin(user models.User, table models.Table, start time.Time) {
	m.send(user.Email, "Reservation cancelled | The Last Shelter", fmt.Sprintf(`
		<h2>RESERVATION CANCELLED</h2>
		<p>Hello, <b>%s</b>.</p>
		<p>Unfortunately your reservation was cancelled by the administrator.</p>
		<p><b>Table #%d</b> — %s</p>
		<p><b>Time:</b> %s</p>
		<p>You can book another table on our site.</p>
		<p>%s</p>`,
		user.Nickname, table.Number, table.Label,
		start.Format("02.01.2006 15:04"), mailSignature))
}

func (m *Mailer) OrderConfirmed(user models.User, order models.Order, total int) {
	var rows strings.Builder
	for name, qty := range order.Lines {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>× %d</td></tr>", name, qty)
	}
	m.send(user.Email, fmt.Sprintf("Order #%d accepted | The Last Shelter", order.ID), fmt.Sprintf(`
		<h2>ORDER ACCEPTED</h2>
		<p>Hello, <b>%s</b>!</p>
		<p>Your order <b>#%d</b> has been placed.</p>
		<table>%s</table>
		<p><b>Total: %d ₴</b></p>
		<p>%s</p>`,
		user.Nickname, order.ID, rows.String(), total, mailSignature))
}

func (m *Mailer) OrderStatusChanged(user models.User, order models.Order) {
	if user.Linked() && m.telegram != nil {
		var items strings.Builder
		for name, qty := range order.Lines {
			fmt.Fprintf(&items, "  • %s × %d\n", name, qty)
		}
		text := fmt.Sprintf("Order #%d status changed\n\n%s\nNew status: %s",
			order.ID, items.String(), order.Status)
		if err := m.telegram.SendText(*user.TelegramChatID, text); err != nil {
			utils.ErrorLogger.Printf("telegram push to chat %d failed: %v", *user.TelegramChatID, err)
		}
		return
	}

	m.send(user.Email, fmt.Sprintf("Order #%d status | The Last Shelter", order.ID), fmt.Sprintf(`
		<h2>ORDER STATUS CHANGED</h2>
		<p>Hello, <b>%s</b>.</p>
		<p>Your order <b>#%d</b> is now: <b>%s</b></p>
		<p>%s</p>`,
		user.Nickname, order.ID, order.Status, mailSignature))
}

func (m *Mailer) MenuItemsAdded(emails []string, items []models.MenuItem) {
	var list strings.Builder
	for _, item := range items {
		fmt.Fprintf(&list, "<li><b>%s</b> — %d ₴</li>", item.Name, item.Price)
	}
	body := fmt.Sprintf(`
		<h2>NEW DISHES ON THE MENU</h2>
		<p>The Shelter restocked! New positions:</p>
		<ul>%s</ul>
		<p><a href="%s/menu">View the menu</a></p>
		<p>%s</p>`,
		list.String(), m.baseURL, mailSignature)
	for _, email := range emails {
		m.send(email, "New dishes on the menu | The Last Shelter", body)
	}
}

func (m *Mailer) PasswordReset(email, resetURL string) {
	m.send(email, "Password reset | The Last Shelter", fmt.Sprintf(`
		<h2>PASSWORD RESET</h2>
		<p>You requested a password reset for your account.</p>
		<p>The link is valid for <b>30 minutes</b>.</p>
		<p><a href="%s">Reset password</a></p>
		<p>If you did not request a reset, ignore this message.</p>
		<p>%s</p>`,
		resetURL, mailSignature))
}
