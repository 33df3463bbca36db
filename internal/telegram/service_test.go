package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/marvel-chat-bot/internal/browse"
	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

type fakeService struct {
	events  []browse.Event
	replies []browse.Reply
	err     error
}

func (s *fakeService) Handle(_ context.Context, ev browse.Event) ([]browse.Reply, error) {
	s.events = append(s.events, ev)
	return s.replies, s.err
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 3,
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		},
	}
}

func callback(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			Data:    data,
			Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
		},
	}
}

func TestToEvent(t *testing.T) {
	ev, cb, ok := ToEvent(command(5, "/start"))
	require.True(t, ok)
	assert.Empty(t, cb)
	assert.Equal(t, browse.Event{ChatID: 5, Action: browse.Start()}, ev)

	ev, _, ok = ToEvent(command(5, "/stop"))
	require.True(t, ok)
	assert.Equal(t, browse.Stop(), ev.Action)

	ev, _, ok = ToEvent(command(5, "/help"))
	require.True(t, ok)
	assert.Equal(t, browse.SubmitText("/help"), ev.Action)

	ev, _, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}, Text: "Hulk"}})
	require.True(t, ok)
	assert.Equal(t, browse.Event{ChatID: 5, Action: browse.SubmitText("Hulk")}, ev)

	ev, cb, ok = ToEvent(callback(5, 77, "LIST_COMICS"))
	require.True(t, ok)
	assert.Equal(t, "cb", cb)
	assert.Equal(t, browse.Event{ChatID: 5, MessageID: 77, Callback: true, Action: browse.List(catalog.Comics)}, ev)
}

func TestToEventIgnored(t *testing.T) {
	_, _, ok := ToEvent(tgbotapi.Update{})
	assert.False(t, ok)

	_, _, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}}})
	assert.False(t, ok, "messages without text")

	_, cb, ok := ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "inline", Data: "NEXT_PAGE"}})
	assert.False(t, ok)
	assert.Equal(t, "inline", cb)
}

func TestDispatch(t *testing.T) {
	bot := &fakeBot{}
	svc := &fakeService{replies: []browse.Reply{{Kind: browse.ReplyEdit, MessageID: 77, Text: "Comics"}}}
	d := NewDispatcher(svc, NewOutbound(bot))

	require.NoError(t, d.Dispatch(context.Background(), callback(5, 77, "NEXT_PAGE")))

	require.Len(t, svc.events, 1)
	assert.Equal(t, browse.Next(), svc.events[0].Action)

	require.Len(t, bot.requested, 1)
	assert.IsType(t, tgbotapi.CallbackConfig{}, bot.requested[0])
	require.Len(t, bot.sent, 1)
	assert.IsType(t, tgbotapi.EditMessageTextConfig{}, bot.sent[0])
}

func TestDispatchIgnoredUpdate(t *testing.T) {
	bot := &fakeBot{}
	svc := &fakeService{}
	require.NoError(t, NewDispatcher(svc, NewOutbound(bot)).Dispatch(context.Background(), tgbotapi.Update{}))
	assert.Empty(t, svc.events)
	assert.Empty(t, bot.requested)
}

func TestDispatchServiceError(t *testing.T) {
	bot := &fakeBot{}
	svc := &fakeService{err: errors.New("store closed")}

	err := NewDispatcher(svc, NewOutbound(bot)).Dispatch(context.Background(), command(5, "/start"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store closed")
	assert.Empty(t, bot.sent)
}

// seqService answers every turn with "<chat>:<n>", n counting all turns.
type seqService struct {
	mu    sync.Mutex
	calls int
}

func (s *seqService) Handle(_ context.Context, ev browse.Event) ([]browse.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return []browse.Reply{{Kind: browse.ReplySend, Text: fmt.Sprintf("%d:%d", ev.ChatID, s.calls)}}, nil
}

func (s *seqService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// gateBot holds back the message with text hold until release is closed.
type gateBot struct {
	hold    string
	entered chan struct{}
	release chan struct{}

	mu   sync.Mutex
	sent map[int64][]string
}

func (b *gateBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	if msg.Text == b.hold {
		close(b.entered)
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent[msg.ChatID] = append(b.sent[msg.ChatID], msg.Text)
	return tgbotapi.Message{}, nil
}

func (b *gateBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *gateBot) texts(chatID int64) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sent[chatID]...)
}

func TestDispatchSerializesTurnsOfOneChat(t *testing.T) {
	bot := &gateBot{hold: "5:1", entered: make(chan struct{}), release: make(chan struct{}), sent: map[int64][]string{}}
	svc := &seqService{}
	d := NewDispatcher(svc, NewOutbound(bot)).(*dispatcher)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, d.Dispatch(ctx, callback(5, 77, "NEXT_PAGE")))
	}()
	<-bot.entered

	go func() {
		defer wg.Done()
		assert.NoError(t, d.Dispatch(ctx, callback(5, 77, "NEXT_PAGE")))
	}()

	assert.Never(t, func() bool { return svc.count() > 1 }, 100*time.Millisecond, 5*time.Millisecond,
		"second turn started before the first was delivered")

	// other chats are not held up
	require.NoError(t, d.Dispatch(ctx, callback(6, 1, "NEXT_PAGE")))
	assert.Equal(t, []string{"6:2"}, bot.texts(6))

	close(bot.release)
	wg.Wait()

	assert.Equal(t, []string{"5:1", "5:3"}, bot.texts(5))
	assert.Zero(t, d.locks.len())
}

func TestChatLocksRelease(t *testing.T) {
	l := newChatLocks()
	unlock := l.lock(1)
	assert.Equal(t, 1, l.len())
	unlock()
	assert.Zero(t, l.len())

	unlock = l.lock(1)
	unlock()
	assert.Zero(t, l.len())
}
