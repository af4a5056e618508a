package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"arcade-bot/internal/config"
	"arcade-bot/internal/gateway/gatewaytest"

	"github.com/jonboulle/clockwork"
)

type stubSource struct {
	mu        sync.Mutex
	jsonFn    func(prompt string, out any) error
	imageFn   func(prompt string) ([]byte, error)
	jsonCalls int
}

func (s *stubSource) GenerateJSON(_ context.Context, prompt string, out any) error {
	s.mu.Lock()
	s.jsonCalls++
	fn := s.jsonFn
	s.mu.Unlock()
	if fn == nil {
		return fmt.Errorf("unexpected GenerateJSON call")
	}
	return fn(prompt, out)
}

func (s *stubSource) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	s.mu.Lock()
	fn := s.imageFn
	s.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("unexpected GenerateImage call")
	}
	return fn(prompt)
}

func (s *stubSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jsonCalls
}

// fillJSON round-trips v into out, the way a real provider payload would
// arrive.
func fillJSON(out any, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func quizBatch(n int) []quizQuestion {
	batch := make([]quizQuestion, n)
	for i := range batch {
		batch[i] = quizQuestion{
			Question:           fmt.Sprintf("Question %d?", i+1),
			Answers:            []string{"alpha", "beta", "gamma", "delta"},
			CorrectAnswerIndex: i % 4,
		}
	}
	return batch
}

func pictureBatch(n int) []pictureRound {
	batch := make([]pictureRound, n)
	for i := range batch {
		batch[i] = pictureRound{
			CorrectAnswer:      fmt.Sprintf("answer-%d", i+1),
			ImagePrompt:        fmt.Sprintf("a drawing of thing %d", i+1),
			Options:            []string{"one", "two", "three", "four"},
			CorrectAnswerIndex: 0,
		}
	}
	return batch
}

type testRig struct {
	controller *Controller
	registry   *Registry
	sched      *Scheduler
	gw         *gatewaytest.Fake
	src        *stubSource
	clock      *clockwork.FakeClock
	presets    config.GamePresets
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	clock := clockwork.NewFakeClock()
	registry := NewRegistry()
	sched := NewScheduler(clock)
	gw := gatewaytest.New()
	src := &stubSource{}
	presets := config.DefaultGamePresets()
	return &testRig{
		controller: NewController(registry, sched, gw, src, presets),
		registry:   registry,
		sched:      sched,
		gw:         gw,
		src:        src,
		clock:      clock,
		presets:    presets,
	}
}

// waitFor polls cond until it holds or the test deadline passes. The
// controller runs presentation and resolution on its own goroutines, so
// tests observe effects asynchronously.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (r *testRig) waitPresentations(t *testing.T, n int) {
	t.Helper()
	waitFor(t, fmt.Sprintf("%d presentations", n), func() bool {
		return len(r.gw.Presentations()) >= n
	})
}

func (r *testRig) waitNotices(t *testing.T, n int) {
	t.Helper()
	waitFor(t, fmt.Sprintf("%d notices", n), func() bool {
		return len(r.gw.Notices()) >= n
	})
}

// waitAwaiting blocks until the session accepts submissions. Presentation
// is dispatched before the status flips, so tests must not submit on the
// presentation alone.
func waitAwaiting(t *testing.T, sess *Session) {
	t.Helper()
	waitFor(t, "awaiting-answers status", func() bool {
		return sess.Status() == StatusAwaiting
	})
}

// fireDeadline waits for a timer to be armed on the fake clock, then
// advances past it.
func (r *testRig) fireDeadline(t *testing.T, d time.Duration) {
	t.Helper()
	r.clock.BlockUntil(1)
	r.clock.Advance(d)
}
