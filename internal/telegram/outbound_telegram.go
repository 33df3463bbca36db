package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/marvel-chat-bot/internal/browse"
)

// MaxTextLength is the Telegram limit for a message body.
const MaxTextLength = 4096

type Outbound struct {
	bot BotAPI
}

func NewOutbound(bot BotAPI) *Outbound {
	return &Outbound{bot: bot}
}

// Deliver sends the replies of one turn in order. It stops at the first
// failure; replies already delivered stay delivered.
func (o *Outbound) Deliver(ctx context.Context, chatID int64, replies []browse.Reply) error {
	for i, r := range replies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.deliver(chatID, r); err != nil {
			return fmt.Errorf("reply %d/%d: %w", i+1, len(replies), err)
		}
	}
	return nil
}

func (o *Outbound) deliver(chatID int64, r browse.Reply) error {
	switch r.Kind {
	case browse.ReplySend:
		msg := tgbotapi.NewMessage(chatID, clipText(r.Text))
		if kb := markup(r.Keyboard); kb != nil {
			msg.ReplyMarkup = *kb
		}
		_, err := o.bot.Send(msg)
		return err

	case browse.ReplyEdit:
		edit := tgbotapi.NewEditMessageText(chatID, r.MessageID, clipText(r.Text))
		edit.ReplyMarkup = markup(r.Keyboard)
		_, err := o.bot.Send(edit)
		if isMessageNotModified(err) {
			return nil
		}
		return err

	case browse.ReplyDelete:
		// deleteMessage answers with a bare bool, Send would fail to decode it
		_, err := o.bot.Request(tgbotapi.NewDeleteMessage(chatID, r.MessageID))
		return err

	case browse.ReplyPhoto:
		if r.ImageURL == "" {
			_, err := o.bot.Send(tgbotapi.NewMessage(chatID, clipText(r.Text)))
			return err
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(r.ImageURL))
		photo.Caption = r.Text
		_, err := o.bot.Send(photo)
		return err
	}

	log.Printf("[telegram] chat=%d unknown reply kind %d", chatID, r.Kind)
	return nil
}

// AnswerCallback stops the client's loading indicator on a pressed button.
func (o *Outbound) AnswerCallback(id string) error {
	if id == "" {
		return nil
	}
	_, err := o.bot.Request(tgbotapi.NewCallback(id, ""))
	return err
}

func markup(kb browse.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Token))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	m := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &m
}

func clipText(text string) string {
	r := []rune(text)
	if len(r) <= MaxTextLength {
		return text
	}
	return string(r[:MaxTextLength])
}

func isMessageNotModified(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 && strings.Contains(apiErr.Message, "message is not modified")
	}
	var valErr tgbotapi.Error
	if errors.As(err, &valErr) {
		return valErr.Code == 400 && strings.Contains(valErr.Message, "message is not modified")
	}
	return false
}
