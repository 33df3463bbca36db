package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch      chan tgbotapi.Update
	once    sync.Once
	timeout int
}

func (s *fakeSource) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	s.timeout = cfg.Timeout
	return s.ch
}

func (s *fakeSource) StopReceivingUpdates() {
	s.once.Do(func() { close(s.ch) })
}

type countingDispatcher struct {
	mu  sync.Mutex
	ids []int
}

func (d *countingDispatcher) Dispatch(_ context.Context, u tgbotapi.Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, u.UpdateID)
	return nil
}

func (d *countingDispatcher) seen() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.ids...)
}

func TestPollerDispatchesInOrder(t *testing.T) {
	src := &fakeSource{ch: make(chan tgbotapi.Update, 3)}
	d := &countingDispatcher{}
	for i := 1; i <= 3; i++ {
		src.ch <- tgbotapi.Update{UpdateID: i}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPoller(src, d).Run(ctx) }()

	require.Eventually(t, func() bool { return len(d.seen()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}

	assert.Equal(t, []int{1, 2, 3}, d.seen())
	assert.Equal(t, 30, src.timeout)
}

func TestPollerStopsWhenChannelCloses(t *testing.T) {
	src := &fakeSource{ch: make(chan tgbotapi.Update)}
	src.StopReceivingUpdates()

	err := NewPoller(src, &countingDispatcher{}).Run(context.Background())
	assert.NoError(t, err)
}
