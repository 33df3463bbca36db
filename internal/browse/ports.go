package browse

import (
	"context"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

type ActionKind int

const (
	ActNone ActionKind = iota
	ActStart
	ActStop
	ActFinish
	ActMenu
	ActList
	ActSearchExact
	ActSearchPrefix
	ActNext
	ActPrevious
	ActSelect
	ActBack
	ActDone
	ActSubmitText
)

// Action is one user intent, decoded from a command, a button token or free text.
type Action struct {
	Kind   ActionKind
	Entity catalog.Kind // Menu, List, SearchExact, SearchPrefix
	Token  string       // Select
	Text   string       // SubmitText
}

func Start() Action { return Action{Kind: ActStart} }
func Stop() Action { return Action{Kind: ActStop} }
func Finish() Action { return Action{Kind: ActFinish} }
func Menu(k catalog.Kind) Action { return Action{Kind: ActMenu, Entity: k} }
func List(k catalog.Kind) Action { return Action{Kind: ActList, Entity: k} }
func SearchExact(k catalog.Kind) Action { return Action{Kind: ActSearchExact, Entity: k} }
func SearchPrefix(k catalog.Kind) Action { return Action{Kind: ActSearchPrefix, Entity: k} }
func Next() Action { return Action{Kind: ActNext} }
func Previous() Action { return Action{Kind: ActPrevious} }
func Select(token string) Action { return Action{Kind: ActSelect, Token: token} }
func Back() Action { return Action{Kind: ActBack} }
func Done() Action { return Action{Kind: ActDone} }
func SubmitText(text string) Action { return Action{Kind: ActSubmitText, Text: text} }

// Event is one inbound user interaction.
type Event struct {
	ChatID int64
	// MessageID is the bot message that carried the pressed button; 0 for typed text.
	MessageID int
	Callback  bool
	Action    Action
}

type ReplyKind int

const (
	ReplySend ReplyKind = iota
	ReplyEdit
	ReplyDelete
	ReplyPhoto
)

// Reply is one outbound action for the chat transport.
type Reply struct {
	Kind      ReplyKind
	Text      string   // message text, or photo caption
	Keyboard  Keyboard // nil means no keyboard
	MessageID int      // Edit, Delete
	ImageURL  string   // Photo
}

type Button struct {
	Text  string
	Token string
}

// Keyboard is rows of buttons attached to a message.
type Keyboard [][]Button

// Service runs one turn of a chat.
type Service interface {
	Handle(ctx context.Context, ev Event) ([]Reply, error)
}
