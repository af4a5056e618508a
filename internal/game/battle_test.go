package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func startedBattle(t *testing.T, rig *testRig) (*Session, Combatant, Combatant) {
	t.Helper()
	if _, err := rig.controller.StartBattle("c1", "100", "u1"); err != nil {
		t.Fatalf("StartBattle() error = %v", err)
	}
	if out, err := rig.controller.JoinBattle("c1", "u1", "Ann"); err != nil || out.Started {
		t.Fatalf("first join: out=%+v err=%v", out, err)
	}
	out, err := rig.controller.JoinBattle("c1", "u2", "Bob")
	if err != nil || !out.Started {
		t.Fatalf("second join: out=%+v err=%v", out, err)
	}
	sess, ok := rig.registry.Get(Key{CommunityID: "c1", Game: TypeBattle})
	if !ok {
		t.Fatal("battle session missing")
	}
	first := out.First
	var second Combatant
	for _, cb := range out.Roster {
		if cb.ID != first.ID {
			second = cb
		}
	}
	return sess, first, second
}

func TestBattleJoinRules(t *testing.T) {
	rig := newTestRig(t)

	if _, err := rig.controller.JoinBattle("c1", "u1", "Ann"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("join without battle error = %v, want ErrSessionNotFound", err)
	}

	if _, err := rig.controller.StartBattle("c1", "100", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := rig.controller.StartBattle("c1", "100", "u3"); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second StartBattle() error = %v, want ErrAlreadyActive", err)
	}

	if _, err := rig.controller.JoinBattle("c1", "u1", "Ann"); err != nil {
		t.Fatal(err)
	}
	if _, err := rig.controller.JoinBattle("c1", "u1", "Ann"); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("rejoin error = %v, want ErrAlreadyJoined", err)
	}

	out, err := rig.controller.JoinBattle("c1", "u2", "Bob")
	if err != nil || !out.Started {
		t.Fatalf("second join: out=%+v err=%v", out, err)
	}
	if out.First.ID != "u1" && out.First.ID != "u2" {
		t.Fatalf("first turn holder = %q", out.First.ID)
	}
	for _, cb := range out.Roster {
		if cb.HP != 100 || cb.MaxHP != 100 {
			t.Fatalf("combatant HP = %+v, want 100/100", cb)
		}
	}

	if _, err := rig.controller.JoinBattle("c1", "u3", "Eve"); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("third join error = %v, want ErrSessionFull", err)
	}
}

func TestBattleTurnOrderAndVictory(t *testing.T) {
	rig := newTestRig(t)
	damage := 40
	rig.src.jsonFn = func(_ string, out any) error {
		return fillJSON(out, battleNarration{Description: "a mighty blow lands", Damage: damage})
	}

	sess, first, second := startedBattle(t, rig)
	ctx := context.Background()

	// the non-holder cannot act
	if _, err := rig.controller.BattleAction(ctx, "c1", second.ID, "sneak attack"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("off-turn action error = %v, want ErrNotYourTurn", err)
	}
	// outsiders cannot act either
	if _, err := rig.controller.BattleAction(ctx, "c1", "stranger", "pile on"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("outsider action error = %v, want ErrNotYourTurn", err)
	}

	// damage is clamped into the configured 10-30 band
	out, err := rig.controller.BattleAction(ctx, "c1", first.ID, "heavy swing")
	if err != nil {
		t.Fatalf("BattleAction() error = %v", err)
	}
	if out.Damage != 30 {
		t.Fatalf("damage = %d, want clamp to 30", out.Damage)
	}
	if out.Defender.HP != 70 {
		t.Fatalf("defender HP = %d, want 70", out.Defender.HP)
	}
	if out.Ended {
		t.Fatal("battle ended prematurely")
	}
	if out.Next.ID != second.ID {
		t.Fatalf("next turn = %q, want %q", out.Next.ID, second.ID)
	}

	// turns strictly alternate; at 30 damage a side needs four hits, so the
	// opener lands the killing blow on overall turn seven
	turnHolders := []string{second.ID, first.ID, second.ID, first.ID, second.ID, first.ID}
	var last TurnOutcome
	for i, holder := range turnHolders {
		last, err = rig.controller.BattleAction(ctx, "c1", holder, "attack")
		if err != nil {
			t.Fatalf("turn %d error = %v", i, err)
		}
	}
	if !last.Ended {
		t.Fatalf("battle not ended: %+v", last)
	}
	if last.Winner.ID != first.ID {
		t.Fatalf("winner = %q, want %q", last.Winner.ID, first.ID)
	}
	if last.Defender.HP != 0 {
		t.Fatalf("loser HP = %d, want 0 (never negative)", last.Defender.HP)
	}

	if sess.Status() != StatusEnded {
		t.Fatalf("status = %v, want ended", sess.Status())
	}
	if _, ok := rig.registry.Get(Key{CommunityID: "c1", Game: TypeBattle}); ok {
		t.Fatal("slot not released after battle end")
	}
	if _, err := rig.controller.BattleAction(ctx, "c1", second.ID, "ghost punch"); !errors.Is(err, ErrNoActiveRound) {
		t.Fatalf("post-battle action error = %v, want ErrNoActiveRound", err)
	}
	if logLen := len(sess.BattleLog()); logLen != 7 {
		t.Fatalf("battle log entries = %d, want 7", logLen)
	}
}

func TestBattleNarrationFailureKeepsTurn(t *testing.T) {
	rig := newTestRig(t)
	fail := true
	rig.src.jsonFn = func(_ string, out any) error {
		if fail {
			return fmt.Errorf("provider broke")
		}
		return fillJSON(out, battleNarration{Description: "finally", Damage: 10})
	}

	_, first, _ := startedBattle(t, rig)
	ctx := context.Background()

	if _, err := rig.controller.BattleAction(ctx, "c1", first.ID, "swing"); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}

	// the turn was not consumed
	fail = false
	out, err := rig.controller.BattleAction(ctx, "c1", first.ID, "swing again")
	if err != nil {
		t.Fatalf("retry action error = %v", err)
	}
	if out.Attacker.ID != first.ID {
		t.Fatalf("attacker = %q, want %q", out.Attacker.ID, first.ID)
	}
}

func TestBattleActionBeforeStartRejected(t *testing.T) {
	rig := newTestRig(t)
	if _, err := rig.controller.StartBattle("c1", "100", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := rig.controller.JoinBattle("c1", "u1", "Ann"); err != nil {
		t.Fatal(err)
	}
	// only one combatant seated: no active turn yet
	if _, err := rig.controller.BattleAction(context.Background(), "c1", "u1", "warm up"); !errors.Is(err, ErrNoActiveRound) {
		t.Fatalf("error = %v, want ErrNoActiveRound", err)
	}
}
