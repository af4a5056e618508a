package game

import (
	"context"
	"fmt"
	"strings"

	"arcade-bot/internal/genai"
)

// ContentSource is the generative provider as the engine sees it. Both
// methods may fail at any time; callers always have an explicit fallback
// (abort the start, or skip the round).
type ContentSource interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

var _ ContentSource = (*genai.Client)(nil)

type quizQuestion struct {
	Question           string   `json:"question"`
	Answers            []string `json:"answers"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type pictureRound struct {
	CorrectAnswer      string   `json:"correctAnswer"`
	ImagePrompt        string   `json:"imagePrompt"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type battleNarration struct {
	Description string `json:"description"`
	Damage      int    `json:"damage"`
}

func quizPrompt(n int, topic, difficulty, tone string) string {
	return fmt.Sprintf(`You are a quiz master. Write %d multiple-choice questions about "%s".
Difficulty: %s. Tone: %s.
Each question has 4 answers, exactly 1 correct.

Return a JSON array shaped exactly like this (no markdown):
[
  {
    "question": "The question?",
    "answers": ["A", "B", "C", "D"],
    "correctAnswerIndex": 0
  }
]`, n, topic, difficulty, tone)
}

func picturePrompt(n int, topic, difficulty string) string {
	return fmt.Sprintf(`Create %d picture-guessing puzzles about "%s" (difficulty: %s).
Rules: imagePrompt is an English description for an image generator; players
look at the image and guess the answer from the options.

JSON output only:
[
  {
    "correctAnswer": "the answer",
    "imagePrompt": "English prompt for image generation",
    "options": ["A", "B", "C", "D"],
    "correctAnswerIndex": 0
  }
]`, n, topic, difficulty)
}

func battlePrompt(attacker, defender Combatant, action string, minDmg, maxDmg int) string {
	return fmt.Sprintf(`Setting: a duel between %s (HP: %d/%d) and %s (HP: %d/%d).
It is %s's turn. Their action: "%s".
Narrate the action vividly and pick a plausible damage value (%d-%d HP).
JSON: { "description": "...", "damage": number }`,
		attacker.Name, attacker.HP, attacker.MaxHP,
		defender.Name, defender.HP, defender.MaxHP,
		attacker.Name, action, minDmg, maxDmg)
}

// generateQuizRounds fetches and validates the whole question batch. The
// batch is all-or-nothing: any malformed entry fails the generation.
func generateQuizRounds(ctx context.Context, src ContentSource, n int, topic, difficulty, tone string) ([]Round, error) {
	var questions []quizQuestion
	if err := src.GenerateJSON(ctx, quizPrompt(n, topic, difficulty, tone), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrGenerationFailed)
	}
	rounds := make([]Round, 0, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" || len(q.Answers) < 2 ||
			q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Answers) {
			return nil, fmt.Errorf("%w: malformed question %d", ErrGenerationFailed, i)
		}
		rounds = append(rounds, Round{
			Question:     q.Question,
			Options:      q.Answers,
			CorrectIndex: q.CorrectAnswerIndex,
		})
	}
	return rounds, nil
}

func generatePictureRounds(ctx context.Context, src ContentSource, n int, topic, difficulty string) ([]Round, error) {
	var puzzles []pictureRound
	if err := src.GenerateJSON(ctx, picturePrompt(n, topic, difficulty), &puzzles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(puzzles) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrGenerationFailed)
	}
	rounds := make([]Round, 0, len(puzzles))
	for i, p := range puzzles {
		if strings.TrimSpace(p.ImagePrompt) == "" || len(p.Options) < 2 ||
			p.CorrectAnswerIndex < 0 || p.CorrectAnswerIndex >= len(p.Options) {
			return nil, fmt.Errorf("%w: malformed puzzle %d", ErrGenerationFailed, i)
		}
		rounds = append(rounds, Round{
			Question:     "Guess the word from the picture",
			Options:      p.Options,
			CorrectIndex: p.CorrectAnswerIndex,
			Answer:       p.CorrectAnswer,
			ImagePrompt:  p.ImagePrompt,
		})
	}
	return rounds, nil
}

// narrateBattleTurn asks the provider for the turn's story and damage,
// clamping the damage into the configured band so a creative model cannot
// one-shot a combatant.
func narrateBattleTurn(ctx context.Context, src ContentSource, attacker, defender Combatant, action string, minDmg, maxDmg int) (battleNarration, error) {
	var out battleNarration
	if err := src.GenerateJSON(ctx, battlePrompt(attacker, defender, action, minDmg, maxDmg), &out); err != nil {
		return battleNarration{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(out.Description) == "" {
		return battleNarration{}, fmt.Errorf("%w: empty narration", ErrGenerationFailed)
	}
	if out.Damage < minDmg {
		out.Damage = minDmg
	}
	if out.Damage > maxDmg {
		out.Damage = maxDmg
	}
	return out, nil
}
