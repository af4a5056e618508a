package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultGamePresets(t *testing.T) {
	p := DefaultGamePresets()
	if p.Quiz.Questions != 5 || p.Quiz.TimeLimitSecs != 30 {
		t.Fatalf("unexpected quiz defaults: %+v", p.Quiz)
	}
	if p.Battle.MaxHP != 100 || p.Battle.MinDamage != 10 || p.Battle.MaxDamage != 30 {
		t.Fatalf("unexpected battle defaults: %+v", p.Battle)
	}
	if p.AdvanceDelay() != 5*time.Second {
		t.Fatalf("AdvanceDelay = %v, want 5s", p.AdvanceDelay())
	}
	if p.RetryBase() != time.Second {
		t.Fatalf("RetryBase = %v, want 1s", p.RetryBase())
	}
}

func TestLoadGamePresetsMissingPathKeepsDefaults(t *testing.T) {
	p, err := LoadGamePresets("")
	if err != nil {
		t.Fatalf("LoadGamePresets() error = %v", err)
	}
	if p != DefaultGamePresets() {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestLoadGamePresetsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	data := "quiz:\n  questions: 10\n  time_limit_secs: 15\nadvance_delay_secs: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGamePresets(path)
	if err != nil {
		t.Fatalf("LoadGamePresets() error = %v", err)
	}
	if p.Quiz.Questions != 10 || p.Quiz.TimeLimitSecs != 15 {
		t.Fatalf("override not applied: %+v", p.Quiz)
	}
	if p.AdvanceDelay() != 2*time.Second {
		t.Fatalf("AdvanceDelay = %v, want 2s", p.AdvanceDelay())
	}
	// untouched keys keep defaults
	if p.Battle.MaxHP != 100 {
		t.Fatalf("Battle.MaxHP = %d, want 100", p.Battle.MaxHP)
	}
}
