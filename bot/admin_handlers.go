package bot

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

func (b *Bot) showActiveOrders(chatID int64, user *models.User) {
	if !b.isAdmin(chatID, user) {
		return
	}

	views, err := b.orders.ActiveOrders()
	if err != nil {
		utils.ErrorLogger.Printf("active orders for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	if len(views) == 0 {
		b.reply(chatID, "No active orders. 🎉")
		return
	}

	for _, v := range views {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Order #%d — %s\nFrom: %s\nPlaced: %s\n\n",
			v.ID, v.Status, v.UserNickname, v.OrderTime.Format("02.01.2006 15:04"))
		for name, qty := range v.Lines {
			fmt.Fprintf(&sb, "• %s × %d\n", name, qty)
		}

		msg := tgbotapi.NewMessage(chatID, sb.String())
		if rank := models.OrderStatusRank(v.Status); rank >= 0 && rank+1 < len(models.OrderStatusChain) {
			next := models.OrderStatusChain[rank+1]
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData(
						"Mark "+next, fmt.Sprintf("status:%d:%s", v.ID, next)),
				),
			)
		}
		b.send(msg)
	}
}

func (b *Bot) advanceOrderStatus(chatID int64, user *models.User, data string) {
	if !b.isAdmin(chatID, user) {
		return
	}

	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return
	}
	orderID, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	order, err := b.orders.AdvanceStatus(uint(orderID), parts[2])
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			b.reply(chatID, "That order is gone.")
			return
		}
		if errors.Is(err, services.ErrStatusRegression) || errors.Is(err, services.ErrInvalidInput) {
			b.reply(chatID, "Cannot move the order there.")
			return
		}
		utils.ErrorLogger.Printf("bot advance order %d failed: %v", orderID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Order #%d is now %s.", order.ID, order.Status))
}

func (b *Bot) showTodayReservations(chatID int64, user *models.User) {
	if !b.isAdmin(chatID, user) {
		return
	}

	views, err := b.reservations.ListForDate(time.Now())
	if err != nil {
		utils.ErrorLogger.Printf("today's reservations for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	b.reply(chatID, formatReservations("Today's reservations", views))
}

func (b *Bot) showAllReservations(chatID int64, user *models.User) {
	if !b.isAdmin(chatID, user) {
		return
	}

	views, err := b.reservations.ListAll()
	if err != nil {
		utils.ErrorLogger.Printf("all reservations for chat %d failed: %v", chatID, err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	b.reply(chatID, formatReservations("All reservations", views))
}

func formatReservations(title string, views []services.ReservationView) string {
	if len(views) == 0 {
		return "No reservations."
	}
	var sb strings.Builder
	sb.WriteString(title + ":\n\n")
	for _, v := range views {
		fmt.Fprintf(&sb, "• Table %d (%s) — %s — %s\n",
			v.TableNumber, v.TableLabel, v.UserNickname,
			v.StartTime.Format("02.01.2006 15:04"))
	}
	return sb.String()
}

// ----------------------------------------------------------------
// Add-dish conversation. One draft per chat; each message fills the
// next field until the photo arrives.
// ----------------------------------------------------------------

type dishDraft struct {
	step int
	item models.MenuItem
}

const (
	draftName = iota
	draftPrice
	draftWeight
	draftIngredients
	draftDescription
	draftPhoto
)

func (b *Bot) startDraft(chatID int64, user *models.User) {
	if !b.isAdmin(chatID, user) {
		return
	}

	b.mu.Lock()
	b.drafts[chatID] = &dishDraft{step: draftName}
	b.mu.Unlock()

	b.reply(chatID, "New dish. What is its name? (send /cancel_dish to abort)")
}

// continueDraft feeds one message into the chat's draft. Returns false when
// no draft is in progress so the message falls through to normal handling.
func (b *Bot) continueDraft(chatID int64, msg *tgbotapi.Message) bool {
	b.mu.Lock()
	draft, ok := b.drafts[chatID]
	b.mu.Unlock()
	if !ok {
		return false
	}

	if msg.Text == "/cancel_dish" {
		b.dropDraft(chatID)
		b.reply(chatID, "Dish creation aborted.")
		return true
	}

	switch draft.step {
	case draftName:
		if msg.Text == "" {
			b.reply(chatID, "Send the dish name as text.")
			return true
		}
		draft.item.Name = msg.Text
		draft.step = draftPrice
		b.reply(chatID, "Price in UAH?")

	case draftPrice:
		price, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil || price <= 0 {
			b.reply(chatID, "Send the price as a whole positive number.")
			return true
		}
		draft.item.Price = price
		draft.step = draftWeight
		b.reply(chatID, "Weight in grams?")

	case draftWeight:
		weight, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil || weight <= 0 {
			b.reply(chatID, "Send the weight as a whole positive number.")
			return true
		}
		draft.item.Weight = weight
		draft.step = draftIngredients
		b.reply(chatID, "Ingredients?")

	case draftIngredients:
		draft.item.Ingredients = msg.Text
		draft.step = draftDescription
		b.reply(chatID, "Short description?")

	case draftDescription:
		draft.item.Description = msg.Text
		draft.step = draftPhoto
		b.reply(chatID, "Now send a photo of the dish.")

	case draftPhoto:
		if len(msg.Photo) == 0 {
			b.reply(chatID, "I need a photo to finish. Send one or /cancel_dish.")
			return true
		}
		b.finishDraft(chatID, draft, msg.Photo[len(msg.Photo)-1])
	}
	return true
}

func (b *Bot) finishDraft(chatID int64, draft *dishDraft, photo tgbotapi.PhotoSize) {
	fileName, err := b.downloadPhoto(photo.FileID)
	if err != nil {
		utils.ErrorLogger.Printf("dish photo download failed: %v", err)
		b.reply(chatID, "Could not fetch the photo, try sending it again.")
		return
	}

	draft.item.FileName = fileName
	draft.item.Active = true
	if err := b.db.Create(&draft.item).Error; err != nil {
		utils.ErrorLogger.Printf("dish create failed: %v", err)
		b.reply(chatID, "Something went wrong, try again later.")
		return
	}
	b.dropDraft(chatID)

	var emails []string
	if err := b.db.Model(&models.User{}).Pluck("email", &emails).Error; err != nil {
		utils.ErrorLogger.Printf("email listing for dish announcement failed: %v", err)
	} else {
		b.notifier.MenuItemsAdded(emails, []models.MenuItem{draft.item})
	}

	b.reply(chatID, fmt.Sprintf("Added %q — %d UAH. It is on the menu now.",
		draft.item.Name, draft.item.Price))
}

func (b *Bot) downloadPhoto(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", err
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo download: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(b.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	fileName := uuid.NewString() + ".jpg"
	out, err := os.Create(filepath.Join(b.cfg.UploadDir, fileName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return fileName, nil
}

func (b *Bot) dropDraft(chatID int64) {
	b.mu.Lock()
	delete(b.drafts, chatID)
	b.mu.Unlock()
}
