package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GamePresets is the tuning knob set for the mini-games. Operators may
// override the defaults with a YAML file; a missing path keeps the defaults.
type GamePresets struct {
	Quiz struct {
		Questions     int `yaml:"questions"`
		TimeLimitSecs int `yaml:"time_limit_secs"`
	} `yaml:"quiz"`
	Picture struct {
		Rounds        int `yaml:"rounds"`
		TimeLimitSecs int `yaml:"time_limit_secs"`
	} `yaml:"picture"`
	Battle struct {
		MaxHP     int `yaml:"max_hp"`
		MinDamage int `yaml:"min_damage"`
		MaxDamage int `yaml:"max_damage"`
	} `yaml:"battle"`
	AdvanceDelaySecs int `yaml:"advance_delay_secs"`
	RetryAttempts    int `yaml:"retry_attempts"`
	RetryBaseMS      int `yaml:"retry_base_ms"`
}

func DefaultGamePresets() GamePresets {
	var p GamePresets
	p.Quiz.Questions = 5
	p.Quiz.TimeLimitSecs = 30
	p.Picture.Rounds = 5
	p.Picture.TimeLimitSecs = 45
	p.Battle.MaxHP = 100
	p.Battle.MinDamage = 10
	p.Battle.MaxDamage = 30
	p.AdvanceDelaySecs = 5
	p.RetryAttempts = 3
	p.RetryBaseMS = 1000
	return p
}

func LoadGamePresets(path string) (GamePresets, error) {
	p := DefaultGamePresets()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read game presets: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse game presets: %w", err)
	}
	return p, nil
}

func (p GamePresets) AdvanceDelay() time.Duration {
	return time.Duration(p.AdvanceDelaySecs) * time.Second
}

func (p GamePresets) RetryBase() time.Duration {
	return time.Duration(p.RetryBaseMS) * time.Millisecond
}
