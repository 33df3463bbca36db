package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/Vovarama1992/marvel-chat-bot/internal/browse"
)

type dispatcher struct {
	svc   browse.Service
	out   *Outbound
	locks *chatLocks
}

func NewDispatcher(svc browse.Service, out *Outbound) Dispatcher {
	return &dispatcher{svc: svc, out: out, locks: newChatLocks()}
}

func (d *dispatcher) Dispatch(ctx context.Context, u tgbotapi.Update) error {
	turnID := uuid.NewString()[:8]

	ev, callbackID, ok := ToEvent(u)
	if err := d.out.AnswerCallback(callbackID); err != nil {
		log.Printf("[telegram] turn=%s answer callback: %v", turnID, err)
	}
	if !ok {
		return nil
	}

	log.Printf("[telegram] turn=%s update=%d chat=%d action=%d callback=%t", turnID, u.UpdateID, ev.ChatID, ev.Action.Kind, ev.Callback)

	// the chat must see this turn's replies before the next turn reads its session
	unlock := d.locks.lock(ev.ChatID)
	defer unlock()

	replies, err := d.svc.Handle(ctx, ev)
	if err != nil {
		return fmt.Errorf("turn %s: %w", turnID, err)
	}

	if err := d.out.Deliver(ctx, ev.ChatID, replies); err != nil {
		return fmt.Errorf("turn %s deliver: %w", turnID, err)
	}
	return nil
}

// ToEvent converts an update into a browse event. Updates the bot does not
// react to (edits, joins, stickers) report false.
func ToEvent(u tgbotapi.Update) (browse.Event, string, bool) {
	if cq := u.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat == nil {
			return browse.Event{}, cq.ID, false
		}
		return browse.Event{
			ChatID:    cq.Message.Chat.ID,
			MessageID: cq.Message.MessageID,
			Callback:  true,
			Action:    browse.ParseToken(cq.Data),
		}, cq.ID, true
	}

	m := u.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return browse.Event{}, "", false
	}

	ev := browse.Event{ChatID: m.Chat.ID}
	switch {
	case m.IsCommand() && m.Command() == "start":
		ev.Action = browse.Start()
	case m.IsCommand() && m.Command() == "stop":
		ev.Action = browse.Stop()
	default:
		ev.Action = browse.SubmitText(m.Text)
	}
	return ev, "", true
}
