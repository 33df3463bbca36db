package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Evicter is storage that can drop idle sessions.
type Evicter interface {
	Evict(before time.Time) int
}

// Sweeper periodically drops sessions idle for longer than ttl.
type Sweeper struct {
	store Evicter
	ttl   time.Duration
	cron  *cron.Cron
	now   func() time.Time
}

func NewSweeper(store Evicter, ttl time.Duration, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		store: store,
		ttl:   ttl,
		cron:  cron.New(),
		now:   time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("session sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep runs one eviction pass.
func (s *Sweeper) Sweep() {
	n := s.store.Evict(s.now().Add(-s.ttl))
	if n > 0 {
		log.Printf("[session] evicted %d idle sessions", n)
	}
}

// Run sweeps on schedule until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
