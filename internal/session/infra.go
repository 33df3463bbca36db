package session

import (
	"context"
	"slices"
	"sync"
	"time"
)

type entry struct {
	mu      sync.Mutex
	sess    Session
	evicted bool
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Update(ctx context.Context, chatID int64, fn func(*Session) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e := s.entry(chatID)
		e.mu.Lock()
		if e.evicted {
			// swept between lookup and lock, take the fresh one
			e.mu.Unlock()
			continue
		}

		draft := e.sess
		draft.Displayed = slices.Clone(e.sess.Displayed)
		err := fn(&draft)
		if err == nil {
			draft.ChatID = chatID
			draft.UpdatedAt = s.now()
			e.sess = draft
		}
		e.mu.Unlock()
		return err
	}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (Session, error) {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	s.mu.Unlock()
	if !ok {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.sess
	out.Displayed = slices.Clone(e.sess.Displayed)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	delete(s.entries, chatID)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.evicted = true
		e.mu.Unlock()
	}
	return nil
}

// Len reports how many chats currently hold a session.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Evict removes sessions not updated since before. Sessions in the middle of
// a turn are skipped.
func (s *MemoryStore) Evict(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.sess.UpdatedAt.Before(before) {
			e.evicted = true
			delete(s.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

func (s *MemoryStore) entry(chatID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[chatID]
	if !ok {
		e = &entry{sess: Session{ChatID: chatID, UpdatedAt: s.now()}}
		s.entries[chatID] = e
	}
	return e
}
