package game

import "errors"

var (
	ErrAlreadyActive    = errors.New("session_already_active")
	ErrNoActiveRound    = errors.New("no_active_round")
	ErrAlreadyAnswered  = errors.New("already_answered")
	ErrNotYourTurn      = errors.New("not_your_turn")
	ErrNotAuthorized    = errors.New("not_authorized")
	ErrGenerationFailed = errors.New("generation_failed")
	ErrSessionNotFound  = errors.New("session_not_found")
	ErrSessionFull      = errors.New("session_full")
	ErrAlreadyJoined    = errors.New("already_joined")
	ErrTimerActive      = errors.New("timer_already_armed")
)
