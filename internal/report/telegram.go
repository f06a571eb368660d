package report

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internhunt/internal/models"
)

// Telegram pushes newly stored postings to a chat. Entirely optional:
// the run works the same without it.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func (t *Telegram) SendPosting(p models.Posting) error {
	msgText := fmt.Sprintf("💼 *%s*\n", escapeMarkdown(p.Title))
	msgText += fmt.Sprintf("🏢 %s\n", escapeMarkdown(p.Company))

	if p.Location != "" {
		msgText += fmt.Sprintf("📍 %s\n", escapeMarkdown(p.Location))
	}
	if p.Salary != "" {
		msgText += fmt.Sprintf("💰 %s\n", escapeMarkdown(p.Salary))
	}
	if p.PostedDate != "" {
		msgText += fmt.Sprintf("📅 %s\n", escapeMarkdown(p.PostedDate))
	}
	if p.Source != "" {
		msgText += fmt.Sprintf("🔖 Source: %s\n", escapeMarkdown(p.Source))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Posting", p.URL),
		),
	)

	msg := tgbotapi.NewMessage(t.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(t.chatID, "ℹ️ "+message)
	_, err := t.api.Send(msg)
	return err
}
