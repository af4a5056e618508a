package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcade-bot/internal/config"
	"arcade-bot/internal/gateway"

	"github.com/rs/zerolog/log"
)

// Controller drives sessions through their round state machine:
// generate -> present -> await -> resolve -> advance | end. It is the only
// component that mutates a session's status or round index.
type Controller struct {
	registry *Registry
	sched    *Scheduler
	gw       gateway.Gateway
	src      ContentSource
	presets  config.GamePresets
}

func NewController(registry *Registry, sched *Scheduler, gw gateway.Gateway, src ContentSource, presets config.GamePresets) *Controller {
	return &Controller{
		registry: registry,
		sched:    sched,
		gw:       gw,
		src:      src,
		presets:  presets,
	}
}

// BroadcastParams configures a quiz or picture session.
type BroadcastParams struct {
	Topic      string
	Difficulty string
	Tone       string
	Rounds     int
	TimeLimit  time.Duration
}

func (c *Controller) Registry() *Registry { return c.registry }

// StartQuiz reserves the community's quiz slot, generates the full question
// batch, and begins presenting. A generation failure aborts the start and
// releases the slot.
func (c *Controller) StartQuiz(ctx context.Context, communityID, channelID, creatorID string, p BroadcastParams) (*Session, error) {
	if p.Rounds <= 0 {
		p.Rounds = c.presets.Quiz.Questions
	}
	if p.TimeLimit <= 0 {
		p.TimeLimit = time.Duration(c.presets.Quiz.TimeLimitSecs) * time.Second
	}
	return c.startBroadcast(ctx, TypeQuiz, communityID, channelID, creatorID, p, func(ctx context.Context) ([]Round, error) {
		return generateQuizRounds(ctx, c.src, p.Rounds, p.Topic, p.Difficulty, p.Tone)
	})
}

// StartPicture is the picture-race analog of StartQuiz. Images are generated
// per round at presentation time, not in the upfront batch.
func (c *Controller) StartPicture(ctx context.Context, communityID, channelID, creatorID string, p BroadcastParams) (*Session, error) {
	if p.Rounds <= 0 {
		p.Rounds = c.presets.Picture.Rounds
	}
	if p.TimeLimit <= 0 {
		p.TimeLimit = time.Duration(c.presets.Picture.TimeLimitSecs) * time.Second
	}
	return c.startBroadcast(ctx, TypePicture, communityID, channelID, creatorID, p, func(ctx context.Context) ([]Round, error) {
		return generatePictureRounds(ctx, c.src, p.Rounds, p.Topic, p.Difficulty)
	})
}

func (c *Controller) startBroadcast(ctx context.Context, game Type, communityID, channelID, creatorID string, p BroadcastParams, generate func(context.Context) ([]Round, error)) (*Session, error) {
	key := Key{CommunityID: communityID, Game: game}
	sess, err := c.registry.Create(key, channelID, creatorID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.status = StatusGenerating
	sess.timeLimit = p.TimeLimit
	sess.topic = p.Topic
	sess.mu.Unlock()

	rounds, err := generate(ctx)
	if err != nil {
		sess.mu.Lock()
		sess.status = StatusEnded
		sess.mu.Unlock()
		c.registry.End(key)
		log.Warn().Err(err).
			Str("community_id", communityID).
			Str("game", string(game)).
			Msg("session start aborted, generation failed")
		return nil, err
	}

	sess.mu.Lock()
	if sess.status == StatusEnded {
		// cancelled or shut down while generation was in flight; the slot
		// is already released, so the rounds are discarded unseen
		sess.mu.Unlock()
		log.Info().
			Str("community_id", communityID).
			Str("game", string(game)).
			Msg("session torn down during generation, discarding rounds")
		return nil, ErrSessionNotFound
	}
	sess.rounds = rounds
	sess.status = StatusPresenting
	sess.mu.Unlock()

	log.Info().
		Str("community_id", communityID).
		Str("game", string(game)).
		Int("rounds", len(rounds)).
		Msg("session started")

	go c.presentRound(sess)
	return sess, nil
}

// presentRound dispatches the current round and arms its deadline. Runs on
// its own goroutine; every entry point re-checks the session state first.
func (c *Controller) presentRound(sess *Session) {
	ctx := context.Background()

	sess.mu.Lock()
	if sess.status == StatusEnded {
		sess.mu.Unlock()
		return
	}
	if sess.current >= len(sess.rounds) {
		sess.mu.Unlock()
		c.finishBroadcast(sess)
		return
	}
	idx := sess.current
	round := sess.rounds[idx]
	total := len(sess.rounds)
	if round.ImagePrompt != "" {
		sess.status = StatusGenerating
	} else {
		sess.status = StatusPresenting
	}
	sess.mu.Unlock()

	var image []byte
	if round.ImagePrompt != "" {
		img, err := c.src.GenerateImage(ctx, round.ImagePrompt)
		if err != nil {
			log.Warn().Err(err).
				Str("community_id", sess.Key.CommunityID).
				Int("round", idx).
				Msg("image generation failed, skipping round")
			_ = c.gw.DispatchNotice(ctx, sess.ChannelID, "Could not draw this round's picture, skipping it.")
			c.skipRound(sess, idx)
			return
		}
		image = img
	}

	content := gateway.RoundContent{
		Title:          fmt.Sprintf("Round %d/%d", idx+1, total),
		Body:           round.Question,
		Options:        round.Options,
		CallbackPrefix: string(sess.Key.Game),
		Image:          image,
	}
	handle, err := c.gw.PresentRound(ctx, sess.ChannelID, content)
	if err != nil {
		log.Error().Err(err).
			Str("community_id", sess.Key.CommunityID).
			Int("round", idx).
			Msg("round dispatch failed, skipping round")
		c.skipRound(sess, idx)
		return
	}

	sess.mu.Lock()
	if sess.status == StatusEnded {
		// cancelled while dispatching; revoke the late presentation
		sess.mu.Unlock()
		_ = c.gw.DisablePresentation(ctx, handle)
		return
	}
	sess.handle = handle
	sess.answered = map[string]bool{}
	sess.resolved = false
	sess.roundStart = c.sched.now()
	sess.status = StatusAwaiting
	limit := sess.timeLimit
	sess.mu.Unlock()

	if err := c.sched.Arm(sess.Key, limit, func() { c.deadline(sess, idx) }); err != nil {
		log.Error().Err(err).
			Str("community_id", sess.Key.CommunityID).
			Msg("failed to arm round deadline")
	}
}

// deadline is the timer-expiry producer of the round's single resolve event.
// The resolved flag, checked under the session lock shared with the arbiter,
// guarantees a round is resolved exactly once.
func (c *Controller) deadline(sess *Session, idx int) {
	sess.mu.Lock()
	if sess.status != StatusAwaiting || sess.current != idx || sess.resolved {
		sess.mu.Unlock()
		return
	}
	sess.resolved = true
	sess.status = StatusResolving
	sess.mu.Unlock()

	c.resolveRound(sess, idx, "")
}

// resolveRound reveals the outcome, then either schedules the next round
// after the display delay or ends the session. winnerName is empty on
// timeout.
func (c *Controller) resolveRound(sess *Session, idx int, winnerName string) {
	ctx := context.Background()

	sess.mu.Lock()
	if sess.status != StatusResolving {
		sess.mu.Unlock()
		return
	}
	round := sess.rounds[idx]
	handle := sess.handle
	sess.handle = gateway.MessageHandle{}
	sess.current++
	more := sess.current < len(sess.rounds)
	if more {
		sess.status = StatusAdvancing
	}
	sess.mu.Unlock()

	if !handle.Zero() {
		_ = c.gw.DisablePresentation(ctx, handle)
	}
	_ = c.gw.DispatchNotice(ctx, sess.ChannelID, revealText(round, winnerName))

	if !more {
		c.finishBroadcast(sess)
		return
	}
	if err := c.sched.Arm(sess.Key, c.presets.AdvanceDelay(), func() { c.presentRound(sess) }); err != nil {
		log.Error().Err(err).
			Str("community_id", sess.Key.CommunityID).
			Msg("failed to schedule next round")
	}
}

// skipRound scores the round as no-winner without a presentation to tear
// down, then advances.
func (c *Controller) skipRound(sess *Session, idx int) {
	sess.mu.Lock()
	if sess.status == StatusEnded || sess.current != idx {
		sess.mu.Unlock()
		return
	}
	sess.current++
	more := sess.current < len(sess.rounds)
	if more {
		sess.status = StatusAdvancing
	}
	sess.mu.Unlock()

	if !more {
		c.finishBroadcast(sess)
		return
	}
	if err := c.sched.Arm(sess.Key, c.presets.AdvanceDelay(), func() { c.presentRound(sess) }); err != nil {
		log.Error().Err(err).
			Str("community_id", sess.Key.CommunityID).
			Msg("failed to schedule next round")
	}
}

func (c *Controller) finishBroadcast(sess *Session) {
	sess.mu.Lock()
	if sess.status == StatusEnded {
		sess.mu.Unlock()
		return
	}
	sess.status = StatusEnded
	topic := sess.topic
	sess.mu.Unlock()

	c.registry.End(sess.Key)

	summary := fmt.Sprintf("The %s session about %q is over!\n\n%s",
		sess.Key.Game, topic, FormatStandings(sess.Standings()))
	_ = c.gw.DispatchNotice(context.Background(), sess.ChannelID, summary)

	log.Info().
		Str("community_id", sess.Key.CommunityID).
		Str("game", string(sess.Key.Game)).
		Msg("session ended")
}

// Cancel tears a session down. Only the creator may cancel; the pending
// deadline is cleared and any live presentation is disabled so late
// submissions are ignored.
func (c *Controller) Cancel(key Key, userID string) error {
	sess, ok := c.registry.Get(key)
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.CreatedBy != userID {
		sess.mu.Unlock()
		return ErrNotAuthorized
	}
	if sess.status == StatusEnded {
		sess.mu.Unlock()
		return ErrSessionNotFound
	}
	sess.status = StatusEnded
	handle := sess.handle
	sess.handle = gateway.MessageHandle{}
	sess.mu.Unlock()

	c.sched.Cancel(key)
	if !handle.Zero() {
		_ = c.gw.DisablePresentation(context.Background(), handle)
	}
	c.registry.End(key)

	log.Info().
		Str("community_id", key.CommunityID).
		Str("game", string(key.Game)).
		Str("cancelled_by", userID).
		Msg("session cancelled")
	return nil
}

// Shutdown clears every timer and releases every slot. Dangling callbacks
// that already left the scheduler observe StatusEnded and no-op.
func (c *Controller) Shutdown() {
	for _, key := range c.registry.Keys() {
		if sess, ok := c.registry.Get(key); ok {
			sess.mu.Lock()
			sess.status = StatusEnded
			sess.mu.Unlock()
		}
		c.registry.End(key)
	}
	c.sched.CancelAll()
}

func revealText(round Round, winnerName string) string {
	answer := ""
	if round.CorrectIndex >= 0 && round.CorrectIndex < len(round.Options) {
		answer = round.Options[round.CorrectIndex]
	}
	if round.Answer != "" {
		answer = round.Answer
	}
	var b strings.Builder
	if winnerName != "" {
		fmt.Fprintf(&b, "%s takes the point!", winnerName)
	} else {
		b.WriteString("Time's up! Nobody got it.")
	}
	if answer != "" {
		fmt.Fprintf(&b, "\nThe answer was: %s", answer)
	}
	return b.String()
}
