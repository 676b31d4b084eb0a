package config

import (
	_ "embed"
)

//go:embed defaults/tower.yaml
var defaultTowerYAML []byte

// DefaultTowerConfig returns the default tower configuration.
func DefaultTowerConfig() TowerConfig {
	return TowerConfig{
		Physics: PhysicsConfig{
			Gravity:         -9.81,
			Iterations:      8,
			ImpactThreshold: 0.6,
			SleepSpeed:      0.02,
		},
		Freeze: FreezeConfig{
			Delay:           3.0,
			PositionEpsilon: 0.01,
			VelocityEpsilon: 0.1,
		},
		Spawn: SpawnConfig{
			Height:            6,
			Clearance:         5,
			Delay:             0.5,
			LateralBound:      12,
			DespawnDepth:      10,
			PruneInterval:     1,
			PlatformHalfWidth: 6,
		},
		Wind: WindConfig{
			Magnitude:      6,
			Amplitude:      1.5,
			Frequency:      0.5,
			ChangeInterval: 4,
		},
		Weather: WeatherConfig{
			BandHeight:           25,
			RainChance:           30,
			WindChance:           30,
			RainFreezeMultiplier: 1.5,
		},
		Scoring: ScoringConfig{
			PointsPerUnit: 10,
		},
		PowerUps: PowerUpConfig{
			SpawnChance:          40,
			Spacing:              8,
			Lookahead:            12,
			HalfSize:             0.5,
			WeightGlue:           60,
			WeightFreeze:         40,
			MaxCharges:           3,
			GlueDuration:         10,
			GlueDragMultiplier:   4,
			GlueFreezeMultiplier: 0.5,
		},
		Blocks: []BlockConfig{
			{Name: "brick", Width: 4, Height: 1, Mass: 1.0, Drag: 0.1, Friction: 0.8, Glyph: "#"},
			{Name: "slab", Width: 6, Height: 1, Mass: 1.5, Drag: 0.1, Friction: 0.7, Glyph: "="},
			{Name: "pillar", Width: 2, Height: 2, Mass: 1.2, Drag: 0.1, Friction: 0.9, Glyph: "H"},
			{Name: "cube", Width: 2, Height: 1, Mass: 0.6, Drag: 0.15, Friction: 0.8, Glyph: "o"},
			{Name: "beam", Width: 8, Height: 1, Mass: 2.0, Drag: 0.08, Friction: 0.6, Glyph: "%"},
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
		},
	}
}
