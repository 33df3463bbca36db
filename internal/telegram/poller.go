package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateSource is the long-polling half of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller pulls updates with getUpdates and dispatches them one at a time.
type Poller struct {
	source     UpdateSource
	dispatcher Dispatcher
	timeout    int
}

func NewPoller(source UpdateSource, d Dispatcher) *Poller {
	return &Poller{source: source, dispatcher: d, timeout: 30}
}

func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	updates := p.source.GetUpdatesChan(cfg)

	log.Printf("[telegram] polling for updates")

	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			// the library goroutine exits only after its last send is read
			for range updates {
			}
			log.Printf("[telegram] polling stopped")
			return nil

		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := p.dispatcher.Dispatch(ctx, u); err != nil {
				log.Printf("[telegram] update=%d: %v", u.UpdateID, err)
			}
		}
	}
}
