package session

import (
	"context"
	"errors"
	"time"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

var ErrNotFound = errors.New("session not found")

type Stage int

const (
	StageIdle Stage = iota
	StageMainMenu
	StageKindMenu
	StageListing
	StageAwaitingInput
)

func (s Stage) String() string {
	switch s {
	case StageMainMenu:
		return "main_menu"
	case StageKindMenu:
		return "kind_menu"
	case StageListing:
		return "listing"
	case StageAwaitingInput:
		return "awaiting_input"
	default:
		return "idle"
	}
}

// Pending names the search that waits for the user's free text.
type Pending struct {
	Kind  catalog.Kind
	Match catalog.Match
}

// Session is per-chat scratch state. Lives in memory only.
type Session struct {
	ChatID int64
	Stage  Stage

	// Kind and Match describe the listing currently on screen, so that
	// Next/Previous repeat the same query.
	Kind  catalog.Kind
	Match catalog.Match

	Offset      int
	SearchValue string
	Pending     Pending

	// Displayed holds the records of the last rendered page, in rendered order.
	Displayed []catalog.Record

	// MessageDeleted forces the next menu to be sent as a new message
	// instead of editing the deleted one.
	MessageDeleted bool

	UpdatedAt time.Time
}

// Reset drops everything but the chat identity.
func (s *Session) Reset() {
	*s = Session{ChatID: s.ChatID, UpdatedAt: s.UpdatedAt}
}

// Store keeps per-chat sessions. Update runs fn with exclusive access to the
// chat's session; when fn fails, the stored session stays as it was.
type Store interface {
	Update(ctx context.Context, chatID int64, fn func(*Session) error) error
	Get(ctx context.Context, chatID int64) (Session, error)
	Delete(ctx context.Context, chatID int64) error
}
