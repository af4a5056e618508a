package game

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"
)

// JoinOutcome reports the roster after one combatant joined.
type JoinOutcome struct {
	Started bool
	Needed  int
	First   Combatant
	Roster  []Combatant
}

// TurnOutcome reports one resolved battle turn.
type TurnOutcome struct {
	Description string
	Damage      int
	Attacker    Combatant
	Defender    Combatant
	Next        Combatant
	Ended       bool
	Winner      Combatant
}

// StartBattle reserves the community's battle slot. The session waits in
// Idle until two combatants join.
func (c *Controller) StartBattle(communityID, channelID, creatorID string) (*Session, error) {
	key := Key{CommunityID: communityID, Game: TypeBattle}
	sess, err := c.registry.Create(key, channelID, creatorID)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("community_id", communityID).
		Msg("battle created, waiting for combatants")
	return sess, nil
}

// JoinBattle seats a combatant. The second join starts the fight and hands
// the first turn to a random combatant.
func (c *Controller) JoinBattle(communityID, userID, name string) (JoinOutcome, error) {
	key := Key{CommunityID: communityID, Game: TypeBattle}
	sess, ok := c.registry.Get(key)
	if !ok {
		return JoinOutcome{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.status != StatusIdle {
		return JoinOutcome{}, ErrSessionFull
	}
	for _, cb := range sess.combatants {
		if cb.ID == userID {
			return JoinOutcome{}, ErrAlreadyJoined
		}
	}
	maxHP := c.presets.Battle.MaxHP
	sess.combatants = append(sess.combatants, Combatant{ID: userID, Name: name, HP: maxHP, MaxHP: maxHP})

	out := JoinOutcome{
		Needed: 2 - len(sess.combatants),
		Roster: append([]Combatant(nil), sess.combatants...),
	}
	if len(sess.combatants) == 2 {
		sess.status = StatusAwaiting
		sess.turn = rand.Intn(2)
		out.Started = true
		out.First = sess.combatants[sess.turn]
		log.Info().
			Str("community_id", communityID).
			Str("first_turn", out.First.ID).
			Msg("battle started")
	}
	return out, nil
}

// BattleAction resolves the turn-holder's action. Every accepted action is
// terminating: it narrates, applies damage, and passes the turn. The session
// sits in Resolving while the narration is fetched, so a second action from
// the same user cannot interleave. A generation failure returns the turn to
// the holder untouched.
func (c *Controller) BattleAction(ctx context.Context, communityID, userID, action string) (TurnOutcome, error) {
	key := Key{CommunityID: communityID, Game: TypeBattle}
	sess, ok := c.registry.Get(key)
	if !ok {
		return TurnOutcome{}, ErrNoActiveRound
	}

	sess.mu.Lock()
	if sess.status != StatusAwaiting {
		sess.mu.Unlock()
		return TurnOutcome{}, ErrNoActiveRound
	}
	if sess.combatants[sess.turn].ID != userID {
		sess.mu.Unlock()
		return TurnOutcome{}, ErrNotYourTurn
	}
	sess.status = StatusResolving
	attacker := sess.combatants[sess.turn]
	defender := sess.combatants[1-sess.turn]
	sess.mu.Unlock()

	narration, err := narrateBattleTurn(ctx, c.src, attacker, defender, action,
		c.presets.Battle.MinDamage, c.presets.Battle.MaxDamage)
	if err != nil {
		sess.mu.Lock()
		if sess.status == StatusResolving {
			sess.status = StatusAwaiting
		}
		sess.mu.Unlock()
		return TurnOutcome{}, err
	}

	sess.mu.Lock()
	if sess.status != StatusResolving {
		// cancelled while narrating
		sess.mu.Unlock()
		return TurnOutcome{}, ErrNoActiveRound
	}
	def := &sess.combatants[1-sess.turn]
	def.HP -= narration.Damage
	if def.HP < 0 {
		def.HP = 0
	}
	sess.battleLog = append(sess.battleLog, narration.Description)
	sess.current++
	sess.turn = 1 - sess.turn

	out := TurnOutcome{
		Description: narration.Description,
		Damage:      narration.Damage,
		Attacker:    sess.combatants[1-sess.turn],
		Defender:    *def,
		Next:        sess.combatants[sess.turn],
		Ended:       def.HP <= 0,
	}
	if out.Ended {
		sess.status = StatusEnded
		out.Winner = out.Attacker
	} else {
		sess.status = StatusAwaiting
	}
	sess.mu.Unlock()

	if out.Ended {
		c.registry.End(key)
		log.Info().
			Str("community_id", communityID).
			Str("winner", out.Winner.ID).
			Msg("battle ended")
	}
	return out, nil
}

// BattleLog returns the narrated history of a battle session.
func (s *Session) BattleLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.battleLog...)
}
