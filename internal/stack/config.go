package stack

import (
	"github.com/vovakirdan/tui-tower/internal/physics"
	"github.com/vovakirdan/tui-tower/internal/powerup"
	"github.com/vovakirdan/tui-tower/internal/weather"
)

// Config holds the session tunables.
type Config struct {
	FreezeDelay     float64 // Seconds of stillness before a block freezes
	PositionEpsilon float64 // Drift tolerated by the stillness detector
	VelocityEpsilon float64 // Speed tolerated by the stillness detector

	SpawnHeight    float64 // Spawn offset above the level base
	SpawnClearance float64 // Minimum spawn offset above the tower top
	SpawnDelay     float64 // Seconds between a drop and the next spawn
	LateralBound   float64 // Held blocks stay within [-bound, bound]

	DespawnDepth  float64 // Blocks this far below the base are removed
	PruneInterval float64 // Seconds between despawn sweeps

	PlatformHalfWidth float64

	PointsPerUnit float64
	BlockTypes    []BlockType

	Physics  physics.Config // Used when the session builds its own world
	Weather  weather.Config
	PowerUps powerup.Config
}

// DefaultBlockTypes returns the built-in block catalog, ordered by unlock.
func DefaultBlockTypes() []BlockType {
	return []BlockType{
		{Name: "brick", Width: 4, Height: 1, Mass: 1, Drag: 0.1, Friction: 0.8, Glyph: '#'},
		{Name: "slab", Width: 6, Height: 1, Mass: 1.5, Drag: 0.1, Friction: 0.7, Glyph: '='},
		{Name: "pillar", Width: 2, Height: 2, Mass: 1.2, Drag: 0.1, Friction: 0.9, Glyph: 'H'},
		{Name: "cube", Width: 2, Height: 1, Mass: 0.6, Drag: 0.15, Friction: 0.8, Glyph: 'o'},
		{Name: "beam", Width: 8, Height: 1, Mass: 2, Drag: 0.08, Friction: 0.6, Glyph: '%'},
	}
}

// DefaultConfig returns the default session tunables.
func DefaultConfig() Config {
	return Config{
		FreezeDelay:       3,
		PositionEpsilon:   0.01,
		VelocityEpsilon:   0.1,
		SpawnHeight:       6,
		SpawnClearance:    5,
		SpawnDelay:        0.5,
		LateralBound:      12,
		DespawnDepth:      10,
		PruneInterval:     1,
		PlatformHalfWidth: 6,
		PointsPerUnit:     10,
		BlockTypes:        DefaultBlockTypes(),
		Physics:           physics.DefaultConfig(),
		Weather:           weather.DefaultConfig(),
		PowerUps:          powerup.DefaultConfig(),
	}
}
