package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	helpMsg         = "Send /movies to browse popular movies. /reset starts over on page 1."
)

// handleMessage processes an incoming text message.
// Messages without a sender, such as channel posts, are ignored.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	switch strings.TrimSpace(msg.Text) {
	case "/start", "/movies":
		b.sendDashboard(ctx, chatID)
	case "/reset":
		b.sessions.reset(chatID)
		b.sendDashboard(ctx, chatID)
	default:
		b.sendText(chatID, helpMsg)
	}
}

// handleCallback applies a dashboard action and edits the message in place.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	userID := cq.From.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	callback := tgbotapi.NewCallback(cq.ID, "")
	b.api.Request(callback) //nolint:errcheck // best-effort ack

	if !b.sessions.isAllowed(userID) || cq.Message == nil {
		return
	}

	action, err := parseCallback(cq.Data)
	if err != nil {
		b.logger.Warn("ignoring callback", slog.String("error", err.Error()))
		return
	}

	chatID := cq.Message.Chat.ID
	session := b.sessions.getOrCreate(chatID, b.newSession)
	session.Ensure(ctx)
	if err := session.Do(ctx, action); err != nil {
		b.logger.Warn("dashboard action failed",
			slog.Int64("chat_id", chatID),
			slog.String("action", action.Encode()),
			slog.String("error", err.Error()),
		)
		return
	}

	v := session.View()
	b.editDashboard(chatID, cq.Message.MessageID, renderDashboard(v), buildKeyboard(v))
}

// sendDashboard sends a fresh dashboard message for the chat.
func (b *Bot) sendDashboard(ctx context.Context, chatID int64) {
	session := b.sessions.getOrCreate(chatID, b.newSession)
	session.Ensure(ctx)
	v := session.View()

	msg := tgbotapi.NewMessage(chatID, renderDashboard(v))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = buildKeyboard(v)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send dashboard",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// editDashboard replaces the dashboard message text and keyboard.
func (b *Bot) editDashboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.logger.Error("failed to edit dashboard",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
