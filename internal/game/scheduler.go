package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Scheduler owns the per-session deadline timers. A session holds at most
// one outstanding timer; arming while one is active is a caller bug and is
// rejected. Cancellation is effective: a cancelled timer's callback never
// fires.
type Scheduler struct {
	clock clockwork.Clock

	mu     sync.Mutex
	timers map[Key]*armedTimer
}

type armedTimer struct {
	timer     clockwork.Timer
	cancelled chan struct{}
}

func NewScheduler(clock clockwork.Clock) *Scheduler {
	return &Scheduler{clock: clock, timers: map[Key]*armedTimer{}}
}

// Arm schedules fire to run once after d. The callback runs on its own
// goroutine and must guard against the session having moved on.
func (s *Scheduler) Arm(key Key, d time.Duration, fire func()) error {
	s.mu.Lock()
	if _, exists := s.timers[key]; exists {
		s.mu.Unlock()
		return ErrTimerActive
	}
	at := &armedTimer{
		timer:     s.clock.NewTimer(d),
		cancelled: make(chan struct{}),
	}
	s.timers[key] = at
	s.mu.Unlock()

	go func() {
		select {
		case <-at.timer.Chan():
			s.remove(key, at)
			fire()
		case <-at.cancelled:
		}
	}()

	log.Debug().
		Str("community_id", key.CommunityID).
		Str("game", string(key.Game)).
		Dur("after", d).
		Msg("deadline armed")
	return nil
}

// Cancel stops the session's pending timer, if any. Safe to call when no
// timer is armed.
func (s *Scheduler) Cancel(key Key) {
	s.mu.Lock()
	at, ok := s.timers[key]
	if ok {
		delete(s.timers, key)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	close(at.cancelled)
	if !at.timer.Stop() {
		select {
		case <-at.timer.Chan():
		default:
		}
	}
}

// CancelAll clears every outstanding timer, for process teardown.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	keys := make([]Key, 0, len(s.timers))
	for k := range s.timers {
		keys = append(keys, k)
	}
	s.mu.Unlock()
	for _, k := range keys {
		s.Cancel(k)
	}
}

func (s *Scheduler) remove(key Key, at *armedTimer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.timers[key]; ok && cur == at {
		delete(s.timers, key)
	}
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now()
}
