package main

import (
	"testing"

	"arcade-bot/internal/game"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantCmd  string
		wantArgs string
	}{
		{"/quiz space travel", "quiz", "space travel"},
		{"/quiz@arcade_bot space", "quiz", "space"},
		{"/BATTLE", "battle", ""},
		{"/attack   swing wildly  ", "attack", "swing wildly"},
		{"hello there", "", ""},
		{"", "", ""},
	}
	for _, tc := range tests {
		cmd, args := splitCommand(tc.text)
		if cmd != tc.wantCmd || args != tc.wantArgs {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)", tc.text, cmd, args, tc.wantCmd, tc.wantArgs)
		}
	}
}

func TestParseCallback(t *testing.T) {
	gameType, choice, err := parseCallback("quiz:2")
	if err != nil || gameType != game.TypeQuiz || choice != 2 {
		t.Fatalf("parseCallback(quiz:2) = (%v, %d, %v)", gameType, choice, err)
	}
	gameType, choice, err = parseCallback("picture:0")
	if err != nil || gameType != game.TypePicture || choice != 0 {
		t.Fatalf("parseCallback(picture:0) = (%v, %d, %v)", gameType, choice, err)
	}

	for _, bad := range []string{"", "quiz", "quiz:", "quiz:x", "quiz:-1", "battle:1", "chess:1"} {
		if _, _, err := parseCallback(bad); err == nil {
			t.Errorf("parseCallback(%q) accepted, want error", bad)
		}
	}
}

func TestParseGameType(t *testing.T) {
	if gt, ok := parseGameType(" Quiz "); !ok || gt != game.TypeQuiz {
		t.Fatalf("parseGameType(Quiz) = (%v, %v)", gt, ok)
	}
	if _, ok := parseGameType("chess"); ok {
		t.Fatal("parseGameType(chess) accepted")
	}
}
