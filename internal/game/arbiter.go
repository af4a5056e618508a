package game

import (
	"github.com/rs/zerolog/log"
)

// SubmitOutcome reports one accepted submission.
type SubmitOutcome struct {
	Correct bool
	// RoundWon is set when this submission terminated the round.
	RoundWon bool
}

// SubmitAnswer arbitrates one broadcast-round submission. The membership
// check and insert into the answered set happen under the session lock, so
// two racing submissions from one participant can never both be accepted,
// and the first correct answer to take the lock wins the round. Arrival
// order at the lock is the tie-break.
func (c *Controller) SubmitAnswer(communityID string, game Type, userID, name string, choice int) (SubmitOutcome, error) {
	key := Key{CommunityID: communityID, Game: game}
	sess, ok := c.registry.Get(key)
	if !ok {
		return SubmitOutcome{}, ErrNoActiveRound
	}

	sess.mu.Lock()
	if sess.status != StatusAwaiting {
		sess.mu.Unlock()
		return SubmitOutcome{}, ErrNoActiveRound
	}
	if sess.answered[userID] {
		sess.mu.Unlock()
		return SubmitOutcome{}, ErrAlreadyAnswered
	}
	sess.answered[userID] = true

	idx := sess.current
	round := sess.rounds[idx]
	correct := choice == round.CorrectIndex
	if !correct {
		sess.mu.Unlock()
		return SubmitOutcome{Correct: false}, nil
	}

	elapsed := c.sched.now().Sub(sess.roundStart)
	entry, ok := sess.scoreboard[userID]
	if !ok {
		entry = &ScoreEntry{Name: name}
		sess.scoreboard[userID] = entry
	}
	entry.Name = name
	entry.Score++
	entry.ElapsedMS += elapsed.Milliseconds()

	// first correct answer terminates the round; the deadline callback
	// observes resolved and stays quiet
	sess.resolved = true
	sess.status = StatusResolving
	sess.mu.Unlock()

	c.sched.Cancel(key)
	log.Debug().
		Str("community_id", communityID).
		Str("game", string(game)).
		Str("user_id", userID).
		Int("round", idx).
		Msg("round won")
	go c.resolveRound(sess, idx, name)

	return SubmitOutcome{Correct: true, RoundWon: true}, nil
}
