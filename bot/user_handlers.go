package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

const (
	btnMyOrder           = "🧾 My order"
	btnMyReservation     = "📅 My reservation"
	btnCancelReservation = "❌ Cancel reservation"
	btnMenu              = "📖 Menu"

	btnActiveOrders      = "📦 Active orders"
	btnTodayReservations = "📅 Today's reservations"
	btnAllReservations   = "🗂 All reservations"
	btnAddDish           = "➕ Add dish"
)

func (b *Bot) mainKeyboard(chatID int64, user *models.User) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyOrder),
			tgbotapi.NewKeyboardButton(btnMyReservation),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMenu),
			tgbotapi.NewKeyboardButton(btnCancelReservation),
		),
	}
	if b.isAdmin(chatID, user) {
		rows = append(rows,
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnActiveOrders),
				tgbotapi.NewKeyboardButton(btnAddDish),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnTodayReservations),
				tgbotapi.NewKeyboardButton(btnAllReservations),
			),
		)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) sendWithKeyboard(chatID int64, user *models.User, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = b.mainKeyboard(chatID, user)
	b.send(msg)
}

func (b *Bot) redeemCode(chatID int64, code string) {
	user, err := b.links.Redeem(code, chatID)
	switch {
	case errors.Is(err, services.ErrCodeInvalid):
		b.reply(chatID, "That code is not valid. Get a fresh one from your profile page.")
	case errors.Is(err, services.ErrCodeExpired):
		b.reply(chatID, "That code has expired. Get a fresh one from your profile page.")
	case err != nil:
		utils.ErrorLogger.Printf("link redeem for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
	default:
		b.sendWithKeyboard(chatID, user, "Linked! Nice to meet you, "+user.Nickname+". "+
			"I will keep you posted on your orders here.")
	}
}

func (b *Bot) unlink(chatID int64, user *models.User) {
	if user == nil {
		b.reply(chatID, "This chat is not linked to any account.")
		return
	}
	if err := b.links.Unlink(user.ID); err != nil {
		utils.ErrorLogger.Printf("unlink for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Done, your account is unlinked.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(msg)
}

func (b *Bot) requireLinked(chatID int64, user *models.User) bool {
	if user == nil {
		b.reply(chatID, "Link your account first: send me the code from your profile page.")
		return false
	}
	return true
}

func (b *Bot) showLatestOrder(chatID int64, user *models.User) {
	if !b.requireLinked(chatID, user) {
		return
	}

	order, err := b.orders.LatestForUser(user.ID)
	if errors.Is(err, services.ErrNotFound) {
		b.reply(chatID, "You have no orders yet.")
		return
	}
	if err != nil {
		utils.ErrorLogger.Printf("latest order for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}

	total, err := b.orders.Total(order)
	if err != nil {
		utils.ErrorLogger.Printf("order total for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Order #%d — %s\n", order.ID, order.Status)
	fmt.Fprintf(&sb, "Placed: %s\n\n", order.OrderTime.Format("02.01.2006 15:04"))
	for name, qty := range order.Lines {
		fmt.Fprintf(&sb, "• %s × %d\n", name, qty)
	}
	fmt.Fprintf(&sb, "\nTotal: %d UAH", total)
	b.reply(chatID, sb.String())
}

func (b *Bot) showReservation(chatID int64, user *models.User) {
	if !b.requireLinked(chatID, user) {
		return
	}

	views, err := b.reservations.ForUser(user.ID)
	if err != nil {
		utils.ErrorLogger.Printf("reservations for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	if len(views) == 0 {
		b.reply(chatID, "You have no reservation at the moment.")
		return
	}

	v := views[0]
	b.reply(chatID, fmt.Sprintf("Table %d (%s)\n%s",
		v.TableNumber, v.TableLabel, v.StartTime.Format("02.01.2006 15:04")))
}

func (b *Bot) promptCancelReservation(chatID int64, user *models.User) {
	if !b.requireLinked(chatID, user) {
		return
	}

	views, err := b.reservations.ForUser(user.ID)
	if err != nil {
		utils.ErrorLogger.Printf("reservations for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	if len(views) == 0 {
		b.reply(chatID, "You have no reservation to cancel.")
		return
	}

	v := views[0]
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Cancel your reservation of table %d on %s?",
		v.TableNumber, v.StartTime.Format("02.01.2006 15:04")))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, cancel", fmt.Sprintf("cancel_res:%d", v.ID)),
			tgbotapi.NewInlineKeyboardButtonData("Keep it", "cancel_no"),
		),
	)
	b.send(msg)
}

func (b *Bot) showMenu(chatID int64) {
	var items []models.MenuItem
	if err := b.db.Where("active = ?", true).Order("name").Find(&items).Error; err != nil {
		utils.ErrorLogger.Printf("menu listing for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "The menu is empty right now.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Our menu:\n\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "• %s — %d UAH (%d g)\n", it.Name, it.Price, it.Weight)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	user, _ := b.links.UserByChatID(chatID)

	// Always answer so the client stops its spinner.
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			utils.ErrorLogger.Printf("callback ack failed: %v", err)
		}
	}()

	data := cb.Data
	switch {
	case data == "cancel_no":
		b.reply(chatID, "Your reservation stays as it is.")

	case strings.HasPrefix(data, "cancel_res:"):
		if user == nil {
			return
		}
		resID, err := strconv.Atoi(strings.TrimPrefix(data, "cancel_res:"))
		if err != nil {
			return
		}
		if err := b.reservations.Cancel(uint(resID), user); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				b.reply(chatID, "That reservation is already gone.")
				return
			}
			utils.ErrorLogger.Printf("bot cancel reservation %d failed: %v", resID, err)
			b.reply(chatID, "Something went wrong, try again later.")
			return
		}
		b.reply(chatID, "Your reservation is cancelled.")

	case strings.HasPrefix(data, "status:"):
		b.advanceOrderStatus(chatID, user, data)
	}
}
