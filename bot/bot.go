package bot

import (
	"regexp"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// codePattern is what a link code looks like; plain chat text matching it is
// treated as a redemption attempt.
var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// Bot is the Telegram companion. It shares the web application's database and
// services and doubles as the push channel for order status updates.
type Bot struct {
	api          *tgbotapi.BotAPI
	db           *gorm.DB
	cfg          *config.Config
	links        *services.LinkService
	orders       *services.OrderService
	reservations *services.ReservationService
	notifier     services.Notifier

	mu     sync.Mutex
	drafts map[int64]*dishDraft
}

func New(
	cfg *config.Config,
	db *gorm.DB,
	links *services.LinkService,
	orders *services.OrderService,
	reservations *services.ReservationService,
	notifier services.Notifier,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Telegram bot authorized as @%s", api.Self.UserName)

	return &Bot{
		api:          api,
		db:           db,
		cfg:          cfg,
		links:        links,
		orders:       orders,
		reservations: reservations,
		notifier:     notifier,
		drafts:       make(map[int64]*dishDraft),
	}, nil
}

// SendText implements services.TelegramSender.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// Run long-polls Telegram and dispatches updates. Blocks until the update
// channel is closed.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range b.api.GetUpdatesChan(u) {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	user, _ := b.links.UserByChatID(chatID)

	if msg.IsCommand() {
		b.handleCommand(chatID, user, msg)
		return
	}

	// An admin mid-conversation owns the chat until the draft is done.
	if b.isAdmin(chatID, user) && b.continueDraft(chatID, msg) {
		return
	}

	text := msg.Text
	if codePattern.MatchString(text) {
		b.redeemCode(chatID, text)
		return
	}

	switch text {
	case btnMyOrder:
		b.showLatestOrder(chatID, user)
	case btnMyReservation:
		b.showReservation(chatID, user)
	case btnCancelReservation:
		b.promptCancelReservation(chatID, user)
	case btnMenu:
		b.showMenu(chatID)
	case btnActiveOrders:
		b.showActiveOrders(chatID, user)
	case btnTodayReservations:
		b.showTodayReservations(chatID, user)
	case btnAllReservations:
		b.showAllReservations(chatID, user)
	case btnAddDish:
		b.startDraft(chatID, user)
	default:
		if user == nil {
			b.reply(chatID, "Send me the 8-character link code from your profile page to connect your account.")
			return
		}
		b.reply(chatID, "I did not get that. Use the keyboard below.")
	}
}

func (b *Bot) handleCommand(chatID int64, user *models.User, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		if user != nil {
			b.sendWithKeyboard(chatID, user, "Welcome back, "+user.Nickname+"!")
			return
		}
		b.reply(chatID, "Hi! I am The Last Shelter bot.\n\n"+
			"Open your profile on the website, press \"Link Telegram\" and send me the 8-character code.")
	case "menu":
		b.showMenu(chatID)
	case "order":
		b.showLatestOrder(chatID, user)
	case "reservation":
		b.showReservation(chatID, user)
	case "unlink":
		b.unlink(chatID, user)
	case "cancel_dish":
		b.dropDraft(chatID)
		b.reply(chatID, "Dish creation aborted.")
	default:
		b.reply(chatID, "Unknown command.")
	}
}

func (b *Bot) isAdmin(chatID int64, user *models.User) bool {
	if b.cfg.AdminChatID != 0 && chatID == b.cfg.AdminChatID {
		return true
	}
	return user != nil && user.IsAdmin()
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.SendText(chatID, text); err != nil {
		utils.ErrorLogger.Printf("telegram send to %d failed: %v", chatID, err)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		utils.ErrorLogger.Printf("telegram send failed: %v", err)
	}
}
