package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
)

// Notifier pushes progress events to a Telegram chat. A disabled notifier
// drops every message.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return Disabled(log)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return Disabled(log)
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		logger:  log,
	}
}

func Disabled(log *logger.Logger) *Notifier {
	return &Notifier{enabled: false, logger: log}
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

func (n *Notifier) NotifyLevelUp(level, xp int) {
	n.send(FormatLevelUp(level, xp), true)
}

// NotifyReview sends the review as plain text: model output is not safe Markdown.
func (n *Notifier) NotifyReview(week, text string) {
	n.send(FormatReview(week, text), false)
}

func (n *Notifier) NotifyError(context string, err error) {
	n.send(fmt.Sprintf("⚠️ *Error* [%s]\n%v", context, err), true)
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message, true)
}

func FormatLevelUp(level, xp int) string {
	return fmt.Sprintf("⭐ *Level up!* You reached level %d\nTotal XP: %d", level, xp)
}

func FormatReview(week, text string) string {
	return fmt.Sprintf("📜 Weekly review %s\n\n%s", week, text)
}

func (n *Notifier) send(text string, markdown bool) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
