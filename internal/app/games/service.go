// Package games is the chat-command surface over the session engine. It
// turns engine outcomes and sentinel errors into messages ready to send
// back to the channel.
package games

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arcade-bot/internal/game"
)

// Result is what a command handler sends back to the channel. RoundWon is
// set when an accepted answer ended the round, so callers can announce the
// winner to the whole channel instead of only the submitter.
type Result struct {
	OK       bool
	RoundWon bool
	Message  string
}

type Service struct {
	ctrl *game.Controller
}

func NewService(ctrl *game.Controller) *Service {
	return &Service{ctrl: ctrl}
}

func (s *Service) StartQuiz(ctx context.Context, communityID, channelID, userID string, p game.BroadcastParams) Result {
	_, err := s.ctrl.StartQuiz(ctx, communityID, channelID, userID, p)
	if err != nil {
		return startFailure("quiz", err)
	}
	topic := p.Topic
	if topic == "" {
		topic = "a surprise topic"
	}
	return Result{OK: true, Message: fmt.Sprintf("Quiz on %s is starting, first question incoming!", topic)}
}

func (s *Service) StartPicture(ctx context.Context, communityID, channelID, userID string, p game.BroadcastParams) Result {
	_, err := s.ctrl.StartPicture(ctx, communityID, channelID, userID, p)
	if err != nil {
		return startFailure("picture race", err)
	}
	return Result{OK: true, Message: "Picture race is on, guess what each image shows!"}
}

func (s *Service) StartBattle(communityID, channelID, userID string) Result {
	if _, err := s.ctrl.StartBattle(communityID, channelID, userID); err != nil {
		return startFailure("battle", err)
	}
	return Result{OK: true, Message: "A battle arena opens. Two fighters may join."}
}

func (s *Service) JoinBattle(communityID, userID, name string) Result {
	out, err := s.ctrl.JoinBattle(communityID, userID, name)
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return Result{Message: "There is no battle to join. Start one first."}
	case errors.Is(err, game.ErrAlreadyJoined):
		return Result{Message: "You are already in this battle."}
	case errors.Is(err, game.ErrSessionFull):
		return Result{Message: "The arena is full, this one is a duel."}
	case err != nil:
		return Result{Message: "Could not join the battle."}
	}
	if !out.Started {
		return Result{OK: true, Message: fmt.Sprintf("%s steps into the arena. Waiting for %d more fighter.", name, out.Needed)}
	}
	return Result{OK: true, Message: fmt.Sprintf("The battle begins! %s moves first.", out.First.Name)}
}

func (s *Service) BattleAction(ctx context.Context, communityID, userID, action string) Result {
	out, err := s.ctrl.BattleAction(ctx, communityID, userID, action)
	switch {
	case errors.Is(err, game.ErrNoActiveRound):
		return Result{Message: "No battle is waiting for a move."}
	case errors.Is(err, game.ErrNotYourTurn):
		return Result{Message: "Hold on, it is not your turn."}
	case errors.Is(err, game.ErrGenerationFailed):
		return Result{Message: "The narrator lost the thread. Try your move again."}
	case err != nil:
		return Result{Message: "Could not resolve that move."}
	}

	var b strings.Builder
	b.WriteString(out.Description)
	fmt.Fprintf(&b, "\n%s takes %d damage (%d/%d HP left).",
		out.Defender.Name, out.Damage, out.Defender.HP, out.Defender.MaxHP)
	if out.Ended {
		fmt.Fprintf(&b, "\n%s wins the battle!", out.Winner.Name)
	} else {
		fmt.Fprintf(&b, "\nYour move, %s.", out.Next.Name)
	}
	return Result{OK: true, Message: b.String()}
}

func (s *Service) SubmitAnswer(communityID string, gameType game.Type, userID, name string, choice int) Result {
	out, err := s.ctrl.SubmitAnswer(communityID, gameType, userID, name, choice)
	switch {
	case errors.Is(err, game.ErrNoActiveRound):
		return Result{Message: "No round is open for answers right now."}
	case errors.Is(err, game.ErrAlreadyAnswered):
		return Result{Message: "You already used your guess for this round."}
	case err != nil:
		return Result{Message: "Could not record your answer."}
	}
	if out.RoundWon {
		return Result{OK: true, RoundWon: true, Message: fmt.Sprintf("%s got it first!", name)}
	}
	return Result{OK: true, Message: "Not this one. Locked in for this round."}
}

func (s *Service) CancelSession(communityID string, gameType game.Type, userID string) Result {
	err := s.ctrl.Cancel(game.Key{CommunityID: communityID, Game: gameType}, userID)
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return Result{Message: "Nothing to cancel."}
	case errors.Is(err, game.ErrNotAuthorized):
		return Result{Message: "Only the person who started the game can cancel it."}
	case err != nil:
		return Result{Message: "Could not cancel the game."}
	}
	return Result{OK: true, Message: "Game cancelled."}
}

func startFailure(label string, err error) Result {
	switch {
	case errors.Is(err, game.ErrAlreadyActive):
		return Result{Message: fmt.Sprintf("A %s is already running here. Finish or cancel it first.", label)}
	case errors.Is(err, game.ErrGenerationFailed):
		return Result{Message: fmt.Sprintf("Could not come up with a %s right now. Try again in a moment.", label)}
	default:
		return Result{Message: fmt.Sprintf("Could not start the %s.", label)}
	}
}
