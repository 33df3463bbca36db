package journal

import "context"

// Entry is one catalog query issued on behalf of a chat.
type Entry struct {
	ID        int64  `json:"id"`
	ChatID    int64  `json:"chat_id"`
	Kind      string `json:"kind"`
	Match     string `json:"match"`
	Value     string `json:"value,omitempty"`
	Offset    int    `json:"offset"`
	Returned  int    `json:"returned"`
	Total     int    `json:"total"`
	CreatedAt int64  `json:"created_at"`
}

// Journal is an append-only log of catalog queries. Holds no catalog data and no session state.
type Journal interface {
	Record(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error)
}

// Nop is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, *Entry) error { return nil }

func (Nop) Recent(context.Context, int64, int) ([]Entry, error) { return nil, nil }
