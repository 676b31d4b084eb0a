// Package level holds the immutable per-level rules of the tower game and
// the level pack they are loaded from.
package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tower/internal/weather"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid level")

// WindPolicy selects how the wind hazard interacts with banded weather.
type WindPolicy string

const (
	// WindGlobal makes the whole session Windy when the level has wind.
	WindGlobal WindPolicy = "global"
	// WindBanded only allows Windy in the per-band weather draw.
	WindBanded WindPolicy = "banded"
)

// Hazards are the hazard toggles of a level.
type Hazards struct {
	Wind     bool
	Rain     bool
	Snow     bool
	Boss     bool
	PowerUps bool
}

// Config is the read-only record of one level.
type Config struct {
	Index        int     // 0-based position in the pack
	Name         string  // Display name
	BaseHeight   float64 // Platform height, spawn offset and initial max height
	TargetHeight float64 // Height that completes the level
	Hazards      Hazards
	BlockTypes   int        // Number of unlocked block types
	WindPolicy   WindPolicy // Defaults to WindGlobal
	Endless      bool       // Endless runs never complete
}

// Endless returns an endless configuration starting from the ground with
// every hazard enabled and banded weather.
func Endless(blockTypes int) Config {
	return Config{
		Index:      -1,
		Name:       "Endless",
		Hazards:    Hazards{Wind: true, Rain: true, Snow: true, PowerUps: true},
		BlockTypes: blockTypes,
		WindPolicy: WindBanded,
		Endless:    true,
	}
}

// Validate checks the invariants of a level.
func (c Config) Validate() error {
	if c.BlockTypes < 0 {
		return fmt.Errorf("%w: %q has negative block type count %d", ErrInvalid, c.Name, c.BlockTypes)
	}
	if !c.Endless && c.TargetHeight <= c.BaseHeight {
		return fmt.Errorf("%w: %q target %.1f is not above base %.1f", ErrInvalid, c.Name, c.TargetHeight, c.BaseHeight)
	}
	switch c.WindPolicy {
	case "", WindGlobal, WindBanded:
	default:
		return fmt.Errorf("%w: %q has unknown wind policy %q", ErrInvalid, c.Name, c.WindPolicy)
	}
	return nil
}

// LevelMode reports whether reaching the target completes the run.
func (c Config) LevelMode() bool {
	return !c.Endless
}

// Policy returns the effective wind policy.
func (c Config) Policy() WindPolicy {
	if c.WindPolicy == "" {
		return WindGlobal
	}
	return c.WindPolicy
}

// WeatherRules resolves the hazard flags into weather capabilities.
func (c Config) WeatherRules() weather.Rules {
	return weather.Rules{
		ForceWindy: c.Hazards.Wind && c.Policy() == WindGlobal,
		AllowRain:  c.Hazards.Rain,
		AllowWind:  c.Hazards.Wind,
	}
}

// Number returns the 1-based level number used in menus.
func (c Config) Number() int {
	return c.Index + 1
}
