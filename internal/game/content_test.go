package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGenerateQuizRoundsValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload []quizQuestion
		fail    bool
	}{
		{
			name: "valid batch",
			payload: []quizQuestion{
				{Question: "Q1?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswerIndex: 2},
				{Question: "Q2?", Answers: []string{"a", "b"}, CorrectAnswerIndex: 0},
			},
		},
		{name: "empty batch", payload: nil, fail: true},
		{
			name:    "blank question",
			payload: []quizQuestion{{Question: "  ", Answers: []string{"a", "b"}, CorrectAnswerIndex: 0}},
			fail:    true,
		},
		{
			name:    "single option",
			payload: []quizQuestion{{Question: "Q?", Answers: []string{"a"}, CorrectAnswerIndex: 0}},
			fail:    true,
		},
		{
			name:    "index out of range",
			payload: []quizQuestion{{Question: "Q?", Answers: []string{"a", "b"}, CorrectAnswerIndex: 2}},
			fail:    true,
		},
		{
			name:    "negative index",
			payload: []quizQuestion{{Question: "Q?", Answers: []string{"a", "b"}, CorrectAnswerIndex: -1}},
			fail:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &stubSource{jsonFn: func(_ string, out any) error {
				return fillJSON(out, tc.payload)
			}}
			rounds, err := generateQuizRounds(context.Background(), src, len(tc.payload), "space", "normal", "playful")
			if tc.fail {
				if !errors.Is(err, ErrGenerationFailed) {
					t.Fatalf("error = %v, want ErrGenerationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("generateQuizRounds() error = %v", err)
			}
			if len(rounds) != len(tc.payload) {
				t.Fatalf("rounds = %d, want %d", len(rounds), len(tc.payload))
			}
			if rounds[0].CorrectIndex != 2 {
				t.Fatalf("rounds[0].CorrectIndex = %d, want 2", rounds[0].CorrectIndex)
			}
		})
	}
}

func TestGenerateQuizRoundsProviderError(t *testing.T) {
	src := &stubSource{jsonFn: func(string, any) error {
		return fmt.Errorf("provider down")
	}}
	_, err := generateQuizRounds(context.Background(), src, 5, "space", "normal", "playful")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestGeneratePictureRoundsValidation(t *testing.T) {
	valid := pictureRound{
		CorrectAnswer:      "cat",
		ImagePrompt:        "a cat on a roof",
		Options:            []string{"cat", "dog", "fox"},
		CorrectAnswerIndex: 0,
	}

	src := &stubSource{jsonFn: func(_ string, out any) error {
		return fillJSON(out, []pictureRound{valid})
	}}
	rounds, err := generatePictureRounds(context.Background(), src, 1, "animals", "easy")
	if err != nil {
		t.Fatalf("generatePictureRounds() error = %v", err)
	}
	if rounds[0].ImagePrompt != valid.ImagePrompt || rounds[0].Answer != "cat" {
		t.Fatalf("round = %+v", rounds[0])
	}

	broken := valid
	broken.ImagePrompt = " "
	src.jsonFn = func(_ string, out any) error {
		return fillJSON(out, []pictureRound{broken})
	}
	if _, err := generatePictureRounds(context.Background(), src, 1, "animals", "easy"); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("blank prompt error = %v, want ErrGenerationFailed", err)
	}
}

func TestNarrateBattleTurnClampsDamage(t *testing.T) {
	attacker := Combatant{ID: "a", Name: "Ann", HP: 100, MaxHP: 100}
	defender := Combatant{ID: "b", Name: "Bob", HP: 100, MaxHP: 100}

	tests := []struct {
		name   string
		damage int
		want   int
	}{
		{"below band", 3, 10},
		{"in band", 17, 17},
		{"above band", 999, 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &stubSource{jsonFn: func(_ string, out any) error {
				return fillJSON(out, battleNarration{Description: "clash of steel", Damage: tc.damage})
			}}
			got, err := narrateBattleTurn(context.Background(), src, attacker, defender, "strike", 10, 30)
			if err != nil {
				t.Fatalf("narrateBattleTurn() error = %v", err)
			}
			if got.Damage != tc.want {
				t.Fatalf("damage = %d, want %d", got.Damage, tc.want)
			}
		})
	}
}

func TestNarrateBattleTurnRejectsEmptyDescription(t *testing.T) {
	src := &stubSource{jsonFn: func(_ string, out any) error {
		return fillJSON(out, battleNarration{Description: "   ", Damage: 15})
	}}
	_, err := narrateBattleTurn(context.Background(), src,
		Combatant{ID: "a", Name: "Ann"}, Combatant{ID: "b", Name: "Bob"}, "strike", 10, 30)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestBattlePromptMentionsBand(t *testing.T) {
	p := battlePrompt(Combatant{Name: "Ann", HP: 80, MaxHP: 100}, Combatant{Name: "Bob", HP: 40, MaxHP: 100}, "fireball", 10, 30)
	for _, want := range []string{"Ann", "Bob", "fireball", "10-30"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}
