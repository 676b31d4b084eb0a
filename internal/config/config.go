// Package config provides YAML-based configuration loading and difficulty
// presets for the tower game.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tower/internal/physics"
	"github.com/vovakirdan/tui-tower/internal/powerup"
	"github.com/vovakirdan/tui-tower/internal/stack"
	"github.com/vovakirdan/tui-tower/internal/weather"
)

// TowerConfig contains all configuration for the tower game.
type TowerConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Freeze     FreezeConfig     `yaml:"freeze"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Wind       WindConfig       `yaml:"wind"`
	Weather    WeatherConfig    `yaml:"weather"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	PowerUps   PowerUpConfig    `yaml:"powerups"`
	Blocks     []BlockConfig    `yaml:"blocks"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines the built-in physics world.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`
	Iterations      int     `yaml:"iterations"`
	ImpactThreshold float64 `yaml:"impact_threshold"`
	SleepSpeed      float64 `yaml:"sleep_speed"`
}

// FreezeConfig defines when a dropped block freezes.
type FreezeConfig struct {
	Delay           float64 `yaml:"delay"` // Seconds of stillness
	PositionEpsilon float64 `yaml:"position_epsilon"`
	VelocityEpsilon float64 `yaml:"velocity_epsilon"`
}

// SpawnConfig defines where blocks appear and disappear.
type SpawnConfig struct {
	Height            float64 `yaml:"height"`    // Above the level base
	Clearance         float64 `yaml:"clearance"` // Above the tower top
	Delay             float64 `yaml:"delay"`     // Seconds after a drop
	LateralBound      float64 `yaml:"lateral_bound"`
	DespawnDepth      float64 `yaml:"despawn_depth"`
	PruneInterval     float64 `yaml:"prune_interval"`
	PlatformHalfWidth float64 `yaml:"platform_half_width"`
}

// WindConfig defines the wind force.
type WindConfig struct {
	Magnitude       float64 `yaml:"magnitude"`
	Amplitude       float64 `yaml:"amplitude"` // Sinusoidal perturbation
	Frequency       float64 `yaml:"frequency"` // Hz
	ChangeInterval  float64 `yaml:"change_interval"`
	TimerRunsAlways bool    `yaml:"timer_runs_always"` // Count down outside Windy bands too
}

// WeatherConfig defines the height bands.
type WeatherConfig struct {
	BandHeight           float64 `yaml:"band_height"`
	RainChance           int     `yaml:"rain_chance"` // Percent
	WindChance           int     `yaml:"wind_chance"` // Percent
	RainFreezeMultiplier float64 `yaml:"rain_freeze_multiplier"`
}

// ScoringConfig defines the score formula.
type ScoringConfig struct {
	PointsPerUnit float64 `yaml:"points_per_unit"`
}

// PowerUpConfig defines pickups and their effects.
type PowerUpConfig struct {
	SpawnChance          int     `yaml:"spawn_chance"`
	Spacing              float64 `yaml:"spacing"`
	Lookahead            float64 `yaml:"lookahead"`
	HalfSize             float64 `yaml:"half_size"`
	WeightGlue           int     `yaml:"weight_glue"`
	WeightFreeze         int     `yaml:"weight_freeze"`
	MaxCharges           int     `yaml:"max_charges"`
	GlueDuration         float64 `yaml:"glue_duration"`
	GlueDragMultiplier   float64 `yaml:"glue_drag_multiplier"`
	GlueFreezeMultiplier float64 `yaml:"glue_freeze_multiplier"`
}

// BlockConfig defines one block type.
type BlockConfig struct {
	Name     string  `yaml:"name"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Drag     float64 `yaml:"drag"`
	Friction float64 `yaml:"friction"`
	Glyph    string  `yaml:"glyph"`
}

// DifficultyConfig selects the preset applied on top of the file.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// Validate checks the configuration. Every problem is reported as a
// *stack.ConfigError, joined into one error.
func (c TowerConfig) Validate() error {
	var errs []error
	check := func(ok bool, field, reason string) {
		if !ok {
			errs = append(errs, &stack.ConfigError{Field: field, Reason: reason})
		}
	}

	check(c.Physics.Iterations > 0, "physics.iterations", "must be positive")
	check(c.Freeze.Delay > 0, "freeze.delay", "must be positive")
	check(c.Freeze.PositionEpsilon >= 0, "freeze.position_epsilon", "must not be negative")
	check(c.Freeze.VelocityEpsilon >= 0, "freeze.velocity_epsilon", "must not be negative")
	check(c.Spawn.Delay >= 0, "spawn.delay", "must not be negative")
	check(c.Spawn.LateralBound > 0, "spawn.lateral_bound", "must be positive")
	check(c.Spawn.DespawnDepth > 0, "spawn.despawn_depth", "must be positive")
	check(c.Spawn.PruneInterval > 0, "spawn.prune_interval", "must be positive")
	check(c.Weather.BandHeight > 0, "weather.band_height", "must be positive")
	check(c.Weather.RainFreezeMultiplier >= 1, "weather.rain_freeze_multiplier", "must be at least 1")
	check(c.Weather.RainChance >= 0 && c.Weather.WindChance >= 0 &&
		c.Weather.RainChance+c.Weather.WindChance <= 100,
		"weather.rain_chance", "rain and wind chances must be within 0..100")
	check(c.Scoring.PointsPerUnit > 0, "scoring.points_per_unit", "must be positive")
	check(len(c.Blocks) > 0, "blocks", "at least one block type is required")
	for i, b := range c.Blocks {
		field := fmt.Sprintf("blocks[%d]", i)
		check(b.Width > 0 && b.Height > 0, field, "size must be positive")
		check(b.Mass > 0, field, "mass must be positive")
	}
	if _, err := ParseDifficulty(string(c.Difficulty.Preset)); err != nil {
		errs = append(errs, &stack.ConfigError{Field: "difficulty.preset", Reason: "unknown preset", Err: err})
	}
	return errors.Join(errs...)
}

// BlockTypes converts the block catalog.
func (c TowerConfig) BlockTypes() []stack.BlockType {
	types := make([]stack.BlockType, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		glyph := '#'
		if r := []rune(b.Glyph); len(r) > 0 {
			glyph = r[0]
		}
		types = append(types, stack.BlockType{
			Name:     b.Name,
			Width:    b.Width,
			Height:   b.Height,
			Mass:     b.Mass,
			Drag:     b.Drag,
			Friction: b.Friction,
			Glyph:    glyph,
		})
	}
	return types
}

// Session converts the file layout into session tunables.
func (c TowerConfig) Session() stack.Config {
	return stack.Config{
		FreezeDelay:       c.Freeze.Delay,
		PositionEpsilon:   c.Freeze.PositionEpsilon,
		VelocityEpsilon:   c.Freeze.VelocityEpsilon,
		SpawnHeight:       c.Spawn.Height,
		SpawnClearance:    c.Spawn.Clearance,
		SpawnDelay:        c.Spawn.Delay,
		LateralBound:      c.Spawn.LateralBound,
		DespawnDepth:      c.Spawn.DespawnDepth,
		PruneInterval:     c.Spawn.PruneInterval,
		PlatformHalfWidth: c.Spawn.PlatformHalfWidth,
		PointsPerUnit:     c.Scoring.PointsPerUnit,
		BlockTypes:        c.BlockTypes(),
		Physics: physics.Config{
			Gravity:         c.Physics.Gravity,
			Iterations:      c.Physics.Iterations,
			ImpactThreshold: c.Physics.ImpactThreshold,
			SleepSpeed:      c.Physics.SleepSpeed,
		},
		Weather: weather.Config{
			BandHeight:           c.Weather.BandHeight,
			RainChance:           c.Weather.RainChance,
			WindChance:           c.Weather.WindChance,
			RainFreezeMultiplier: c.Weather.RainFreezeMultiplier,
			WindMagnitude:        c.Wind.Magnitude,
			WindAmplitude:        c.Wind.Amplitude,
			WindFrequency:        c.Wind.Frequency,
			ChangeInterval:       c.Wind.ChangeInterval,
			TimerRunsAlways:      c.Wind.TimerRunsAlways,
		},
		PowerUps: powerup.Config{
			SpawnChance:          c.PowerUps.SpawnChance,
			Spacing:              c.PowerUps.Spacing,
			Lookahead:            c.PowerUps.Lookahead,
			HalfSize:             c.PowerUps.HalfSize,
			WeightGlue:           c.PowerUps.WeightGlue,
			WeightFreeze:         c.PowerUps.WeightFreeze,
			MaxCharges:           c.PowerUps.MaxCharges,
			GlueDuration:         c.PowerUps.GlueDuration,
			GlueDragMultiplier:   c.PowerUps.GlueDragMultiplier,
			GlueFreezeMultiplier: c.PowerUps.GlueFreezeMultiplier,
		},
	}
}
