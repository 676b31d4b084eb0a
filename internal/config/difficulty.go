package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. An empty name means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (easy, normal, hard, fixed)", name)
	}
}

// ApplyTowerPreset modifies the config based on a difficulty preset.
// Normal and fixed keep the configured values.
func ApplyTowerPreset(cfg *TowerConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset

	switch preset {
	case DifficultyEasy:
		cfg.Freeze.Delay *= 0.75
		cfg.Wind.Magnitude *= 0.6
		cfg.Weather.RainFreezeMultiplier = 1.25
	case DifficultyHard:
		cfg.Freeze.Delay *= 1.3
		cfg.Wind.Magnitude *= 1.5
		cfg.Weather.RainFreezeMultiplier = 1.75
	}
}
