package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/images"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/stats"
)

// Callback data
const (
	cbMainMenu       = "main_menu"
	cbStartReview    = "start_review"
	cbStartPractice  = "start_practice"
	cbChooseCategory = "choose_category"
	cbShowStats      = "show_stats"
	cbReveal         = "reveal"
	cbHide           = "hide"
	cbCorrect        = "correct"
	cbIncorrect      = "incorrect"
	cbPrev           = "prev"
	cbNext           = "next"
	cbContinue       = "continue"
	cbQuit           = "quit"

	// followed by the index into the category list
	cbPracticeCategoryPrefix = "practice_cat_"
)

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	if message.From.ID != b.ownerID {
		b.log.Warn("ignoring message from stranger", zap.Int64("user_id", message.From.ID))
		b.send(tgbotapi.NewMessage(chatID, "This bot is private."))
		return
	}

	if !message.IsCommand() {
		b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, "I don't understand. Use /menu to show the main menu.")))
		return
	}

	switch message.Command() {
	case "start":
		b.handleStartCommand(ctx, chatID)
	case "menu":
		b.showMainMenu(ctx, chatID)
	case "review":
		b.startSession(chatID, b.svc.NewReviewSession(ctx))
	case "practice":
		filter := practice.Filter{Category: strings.TrimSpace(message.CommandArguments())}
		b.startSession(chatID, b.svc.NewPracticeSession(ctx, filter))
	case "categories":
		b.showCategories(ctx, chatID)
	case "stats":
		b.handleStatsCommand(ctx, chatID)
	case "cancel":
		b.quitSession(ctx, chatID)
	default:
		b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, "Unknown command. Use /menu to show the main menu.")))
	}
}

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand(ctx context.Context, chatID int64) {
	welcomeText := `Welcome to your mahjong mistake book! 🀄

Available commands:
/menu - Show main menu
/review - Review problems below 80% accuracy
/practice [category] - Practice every problem, or one category
/categories - Choose a category to practice
/stats - Show statistics
/cancel - Stop the current session`

	b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, welcomeText)))
}

// showMainMenu shows the main menu
func (b *Bot) showMainMenu(ctx context.Context, chatID int64) {
	b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, "Main Menu - choose an option:")))
}

func (b *Bot) withMenu(ctx context.Context, msg tgbotapi.MessageConfig) tgbotapi.MessageConfig {
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons(len(b.svc.ReviewQueue(ctx))))
	return msg
}

func (b *Bot) showCategories(ctx context.Context, chatID int64) {
	var rows [][]MenuButton
	for i, c := range b.svc.Categories(ctx) {
		rows = append(rows, []MenuButton{{Text: c, CallbackData: cbPracticeCategoryPrefix + strconv.Itoa(i)}})
	}
	rows = append(rows, []MenuButton{{Text: "« Back to menu", CallbackData: cbMainMenu}})

	msg := tgbotapi.NewMessage(chatID, "Choose a category:")
	msg.ReplyMarkup = createKeyboard(rows)
	b.send(msg)
}

// handleStatsCommand sends the statistics report
func (b *Bot) handleStatsCommand(ctx context.Context, chatID int64) {
	report := b.svc.Report(ctx)
	if report.Summary.TotalProblems == 0 {
		b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, "No problems yet. Add some with the mistakebook CLI.")))
		return
	}

	var sb strings.Builder
	s := report.Summary
	sb.WriteString("📊 Statistics\n\n")
	fmt.Fprintf(&sb, "Problems: %d\n", s.TotalProblems)
	fmt.Fprintf(&sb, "Attempts: %d\n", s.TotalAttempts)
	fmt.Fprintf(&sb, "Accuracy: %s %d%%\n", bandMark(s.Accuracy), s.Accuracy)
	fmt.Fprintf(&sb, "Needs review: %d\n", report.Review)

	if len(report.Categories) > 0 {
		sb.WriteString("\nBy category:\n")
		for _, c := range report.Categories {
			fmt.Fprintf(&sb, "%s %s %d%% (%d/%d)\n", bandMark(c.Accuracy), c.Category, c.Accuracy, c.Correct, c.Attempts)
		}
	}

	b.send(b.withMenu(ctx, tgbotapi.NewMessage(chatID, sb.String())))
}

func bandMark(accuracy int) string {
	switch stats.BandOf(accuracy) {
	case stats.Good:
		return "🟢"
	case stats.Fair:
		return "🟡"
	default:
		return "🔴"
	}
}

// handleCallbackQuery handles button presses
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil || callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	if callback.From.ID != b.ownerID {
		b.answer(callback, "This bot is private.")
		return
	}
	chatID := callback.Message.Chat.ID

	var err error
	switch callback.Data {
	case cbMainMenu:
		b.showMainMenu(ctx, chatID)
	case cbStartReview:
		b.startSession(chatID, b.svc.NewReviewSession(ctx))
	case cbStartPractice:
		b.startSession(chatID, b.svc.NewPracticeSession(ctx, practice.Filter{}))
	case cbChooseCategory:
		b.showCategories(ctx, chatID)
	case cbShowStats:
		b.handleStatsCommand(ctx, chatID)
	case cbQuit:
		b.quitSession(ctx, chatID)
	case cbReveal:
		err = b.step(chatID, func(s *practice.Session) error { return s.Reveal() })
	case cbHide:
		err = b.step(chatID, func(s *practice.Session) error { return s.Hide() })
	case cbCorrect, cbIncorrect:
		correct := callback.Data == cbCorrect
		err = b.step(chatID, func(s *practice.Session) error { return s.Judge(ctx, correct) })
	case cbPrev:
		err = b.step(chatID, func(s *practice.Session) error { return s.Previous() })
	case cbNext:
		err = b.step(chatID, func(s *practice.Session) error { return s.Next() })
	case cbContinue:
		err = b.step(chatID, func(s *practice.Session) error { return s.Advance() })
	default:
		if idx, ok := strings.CutPrefix(callback.Data, cbPracticeCategoryPrefix); ok {
			err = b.practiceCategory(ctx, chatID, idx)
		}
	}

	if err != nil {
		// stale buttons from earlier messages land here
		b.log.Debug("callback rejected", zap.String("data", callback.Data), zap.Error(err))
		b.answer(callback, "Not available right now.")
		return
	}
	b.answer(callback, "")
}

func (b *Bot) answer(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.log.Error("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) practiceCategory(ctx context.Context, chatID int64, idx string) error {
	i, err := strconv.Atoi(idx)
	categories := b.svc.Categories(ctx)
	if err != nil || i < 0 || i >= len(categories) {
		return fmt.Errorf("unknown category index %q", idx)
	}
	b.startSession(chatID, b.svc.NewPracticeSession(ctx, practice.Filter{Category: categories[i]}))
	return nil
}

// startSession replaces the open session and shows its first item.
func (b *Bot) startSession(chatID int64, s *practice.Session) {
	b.mu.Lock()
	if b.session != nil {
		b.session.Close()
	}
	b.session = s
	b.chatID = chatID
	b.mu.Unlock()

	s.OnAdvance(func(snap practice.Snapshot) { b.render(chatID, snap) })
	b.render(chatID, s.Snapshot())
}

// step applies op to the open session and shows the result.
func (b *Bot) step(chatID int64, op func(*practice.Session) error) error {
	b.mu.Lock()
	s := b.session
	b.mu.Unlock()
	if s == nil {
		return errors.New("no open session")
	}
	if err := op(s); err != nil {
		return err
	}
	b.render(chatID, s.Snapshot())
	return nil
}

func (b *Bot) quitSession(ctx context.Context, chatID int64) {
	b.mu.Lock()
	if b.session != nil {
		b.session.Close()
		b.session = nil
	}
	b.mu.Unlock()
	b.showMainMenu(ctx, chatID)
}

// render shows a session snapshot: the question or answer image with the
// buttons valid in the current state, or the closing summary.
func (b *Bot) render(chatID int64, snap practice.Snapshot) {
	if snap.State == practice.Complete {
		b.renderComplete(chatID, snap)
		return
	}

	p := snap.Item
	header := fmt.Sprintf("%s\n%s · %d/%d · accuracy %d%% (%d/%d)",
		p.Title, p.Category, snap.Index+1, snap.Total, p.Stats.Accuracy, p.Stats.Correct, p.Stats.Attempts)

	if snap.State == practice.Recorded {
		b.mu.Lock()
		queued := b.reviewCount
		b.mu.Unlock()
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Recorded. %s\n🔁 Review queue: %d", header, queued))
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "Continue ▶", CallbackData: cbContinue}},
		})
		b.send(msg)
		return
	}

	image, label, keyboard := p.QuestionImage, "Question", browsingButtons
	if snap.State == practice.Revealed {
		image, label, keyboard = p.AnswerImage, "Answer", revealedButtons
	}
	caption := label + ": " + header

	mime, data, err := images.Decode(image)
	if err != nil {
		b.log.Warn("stored image unreadable", zap.String("id", p.ID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, caption+"\n(image unavailable)")
		msg.ReplyMarkup = createKeyboard(keyboard)
		b.send(msg)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  strings.ToLower(label) + images.Extension(mime),
		Bytes: data,
	})
	photo.Caption = caption
	photo.ReplyMarkup = createKeyboard(keyboard)
	b.send(photo)
}

func (b *Bot) renderComplete(chatID int64, snap practice.Snapshot) {
	var text string
	switch {
	case snap.Total == 0 && snap.Kind == practice.KindReview:
		text = "Nothing to review 🎉 Every practiced problem is at 80% or better."
	case snap.Total == 0:
		text = "No problems to practice."
	default:
		text = fmt.Sprintf("Session complete: %d answered, %d correct.", snap.Answered, snap.Correct)
	}

	b.mu.Lock()
	if b.session != nil && b.session.ID() == snap.SessionID {
		b.session = nil
	}
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "« Back to menu", CallbackData: cbMainMenu}},
	})
	b.send(msg)
}

var browsingButtons = [][]MenuButton{
	{{Text: "👁 Show answer", CallbackData: cbReveal}},
	{
		{Text: "◀ Prev", CallbackData: cbPrev},
		{Text: "Next ▶", CallbackData: cbNext},
	},
	{{Text: "✖ Quit", CallbackData: cbQuit}},
}

var revealedButtons = [][]MenuButton{
	{
		{Text: "✅ Correct", CallbackData: cbCorrect},
		{Text: "❌ Incorrect", CallbackData: cbIncorrect},
	},
	{{Text: "🙈 Back to question", CallbackData: cbHide}},
	{{Text: "✖ Quit", CallbackData: cbQuit}},
}
