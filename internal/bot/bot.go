package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of the Telegram API the bot talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// service is what the bot needs from the practice service.
type service interface {
	NewPracticeSession(ctx context.Context, f practice.Filter) *practice.Session
	NewReviewSession(ctx context.Context) *practice.Session
	ReviewQueue(ctx context.Context) []models.Problem
	Categories(ctx context.Context) []string
	Report(ctx context.Context) practice.Report
	Subscribe(fn func(models.Problem))
}

// Bot is the Telegram surface. It answers a single owner and keeps at most
// one session open.
type Bot struct {
	api     sender
	botAPI  *tgbotapi.BotAPI
	ownerID int64
	svc     service
	log     *zap.Logger

	mu          sync.Mutex
	session     *practice.Session
	chatID      int64
	reviewCount int
}

// New creates a new bot instance
func New(cfg config.TelegramConfig, svc service, log *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is not set")
	}
	if cfg.OwnerID == 0 {
		return nil, errors.New("telegram owner id is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}

	b := newBot(botAPI, cfg.OwnerID, svc, log)
	b.botAPI = botAPI
	b.log.Info("authorized on account", zap.String("username", botAPI.Self.UserName))
	return b, nil
}

func newBot(api sender, ownerID int64, svc service, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bot{
		api:     api,
		ownerID: ownerID,
		svc:     svc,
		log:     log.Named("bot"),
	}
	svc.Subscribe(b.refreshReviewCount)
	return b
}

// refreshReviewCount runs after every recorded attempt and keeps the queue
// size shown with the next recorded item current.
func (b *Bot) refreshReviewCount(p models.Problem) {
	count := len(b.svc.ReviewQueue(context.Background()))
	b.mu.Lock()
	b.reviewCount = count
	b.mu.Unlock()
	b.log.Debug("review queue refreshed", zap.String("id", p.ID), zap.Int("count", count))
}

// Start handles updates until ctx is cancelled. Updates are processed one
// at a time.
func (b *Bot) Start(ctx context.Context) error {
	if b.botAPI == nil {
		return errors.New("bot is not connected")
	}

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.botAPI.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			b.botAPI.StopReceivingUpdates()
			b.Stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop closes the open session, if any.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		b.session.Close()
		b.session = nil
	}
	b.log.Info("bot stopped")
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(count int) error {
	noun := "problems"
	if count == 1 {
		noun = "problem"
	}
	msg := tgbotapi.NewMessage(b.ownerID, fmt.Sprintf("You have %d %s to review.", count, noun))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🔁 Start review", CallbackData: cbStartReview}},
	})

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	b.log.Info("sent reminder", zap.Int("count", count))
	return nil
}

// send logs failures instead of returning them; there is nobody to report
// them to.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons(reviewCount int) [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: fmt.Sprintf("🔁 Review (%d)", reviewCount), CallbackData: cbStartReview},
			{Text: "🎯 Practice all", CallbackData: cbStartPractice},
		},
		{
			{Text: "🗂 By category", CallbackData: cbChooseCategory},
			{Text: "📊 Statistics", CallbackData: cbShowStats},
		},
	}
}
