package telegram

import "sync"

// chatLocks serialises turns per chat. Entries live only while a turn of
// that chat holds or waits for them.
type chatLocks struct {
	mu   sync.Mutex
	held map[int64]*chatLock
}

type chatLock struct {
	sync.Mutex
	refs int
}

func newChatLocks() *chatLocks {
	return &chatLocks{held: make(map[int64]*chatLock)}
}

// lock blocks until chatID is free and returns its release func.
func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	cl, ok := l.held[chatID]
	if !ok {
		cl = &chatLock{}
		l.held[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()

	return func() {
		cl.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.held, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *chatLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
