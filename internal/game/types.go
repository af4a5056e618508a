package game

import (
	"sync"
	"time"

	"arcade-bot/internal/gateway"
)

type Type string

const (
	TypeQuiz    Type = "quiz"
	TypePicture Type = "picture"
	TypeBattle  Type = "battle"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusPresenting Status = "presenting"
	StatusAwaiting   Status = "awaiting_answers"
	StatusResolving  Status = "resolving"
	StatusAdvancing  Status = "advancing"
	StatusEnded      Status = "ended"
)

// Key identifies the one session slot a community holds per game type.
type Key struct {
	CommunityID string
	Game        Type
}

// Round is one generated unit of play. Rounds are immutable once the batch
// is generated; a session never holds a partially generated round.
type Round struct {
	Question     string
	Options      []string
	CorrectIndex int

	// picture variant
	Answer      string
	ImagePrompt string
}

// ScoreEntry accumulates one participant's broadcast-round results.
// ElapsedMS is the tie-break metric: total answer time, lower wins.
type ScoreEntry struct {
	Name      string
	Score     int
	ElapsedMS int64
}

// Combatant is one side of a battle session.
type Combatant struct {
	ID    string
	Name  string
	HP    int
	MaxHP int
}

// Session is one in-progress game for one community. All mutable fields are
// guarded by mu; the controller owns status and round advancement, the
// arbiter owns answered/scoreboard.
type Session struct {
	Key       Key
	ChannelID string
	CreatedBy string

	mu         sync.Mutex
	status     Status
	rounds     []Round
	current    int
	scoreboard map[string]*ScoreEntry
	answered   map[string]bool
	resolved   bool
	roundStart time.Time
	handle     gateway.MessageHandle

	// battle variant
	combatants []Combatant
	turn       int
	battleLog  []string

	timeLimit time.Duration
	topic     string
}

func newSession(key Key, channelID, creatorID string) *Session {
	return &Session{
		Key:        key,
		ChannelID:  channelID,
		CreatedBy:  creatorID,
		status:     StatusIdle,
		scoreboard: map[string]*ScoreEntry{},
		answered:   map[string]bool{},
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) CurrentRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Combatants returns a copy of the battle roster.
func (s *Session) Combatants() []Combatant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Combatant(nil), s.combatants...)
}

// TurnHolder returns the combatant whose turn it is, or false when the
// battle has not started.
func (s *Session) TurnHolder() (Combatant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusAwaiting || len(s.combatants) != 2 {
		return Combatant{}, false
	}
	return s.combatants[s.turn], true
}
