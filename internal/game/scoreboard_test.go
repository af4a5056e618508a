package game

import (
	"strings"
	"testing"
)

func TestStandingsOrdering(t *testing.T) {
	sess := newSession(Key{CommunityID: "c1", Game: TypeQuiz}, "100", "u1")
	sess.scoreboard = map[string]*ScoreEntry{
		"a": {Name: "Ann", Score: 3, ElapsedMS: 10_000},
		"b": {Name: "Bob", Score: 3, ElapsedMS: 5_000},
		"c": {Name: "Cid", Score: 4, ElapsedMS: 20_000},
	}

	got := sess.Standings()
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("standings length = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].UserID != id {
			t.Fatalf("standings[%d] = %q, want %q", i, got[i].UserID, id)
		}
	}
}

func TestStandingsTieBreakByUserID(t *testing.T) {
	sess := newSession(Key{CommunityID: "c1", Game: TypeQuiz}, "100", "u1")
	sess.scoreboard = map[string]*ScoreEntry{
		"z": {Name: "Zed", Score: 1, ElapsedMS: 2_000},
		"a": {Name: "Ann", Score: 1, ElapsedMS: 2_000},
	}

	got := sess.Standings()
	if got[0].UserID != "a" || got[1].UserID != "z" {
		t.Fatalf("tie order = %q, %q; want a, z", got[0].UserID, got[1].UserID)
	}
}

func TestFormatStandings(t *testing.T) {
	text := FormatStandings([]Standing{
		{UserID: "c", Name: "Cid", Score: 4, ElapsedMS: 20_000},
		{UserID: "b", Name: "Bob", Score: 3, ElapsedMS: 5_000},
		{UserID: "a", Name: "Ann", Score: 3, ElapsedMS: 10_000},
		{UserID: "d", Name: "Dee", Score: 0, ElapsedMS: 0},
	})

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4\n%s", len(lines), text)
	}
	if !strings.HasPrefix(lines[0], "🥇") || !strings.Contains(lines[0], "Cid: 4 pts (20.0s)") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "🥈") || !strings.Contains(lines[1], "Bob") {
		t.Fatalf("second line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "🥉") {
		t.Fatalf("third line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "#4") {
		t.Fatalf("fourth line = %q", lines[3])
	}
}

func TestFormatStandingsEmpty(t *testing.T) {
	if text := FormatStandings(nil); text == "" {
		t.Fatal("empty standings should still produce a message")
	}
}
