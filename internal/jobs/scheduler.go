package jobs

import (
	"sync"
	"time"
)

// Scheduler runs delayed cleanup off the request path. One timer per job key;
// scheduling an already-scheduled key is a no-op, so download retries do not
// stack timers.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	run    func(key string)
}

// NewScheduler builds a scheduler that invokes run after delay.
func NewScheduler(delay time.Duration, run func(key string)) *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		run:    run,
	}
}

// Schedule arms the cleanup timer for key. Idempotent.
func (s *Scheduler) Schedule(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, armed := s.timers[key]; armed {
		return
	}
	s.timers[key] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		s.run(key)
	})
}

// Cancel disarms any pending timer for key.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// StopAll disarms every pending timer. Called on daemon shutdown; the stale
// sweep at next start reclaims whatever these would have removed.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}
