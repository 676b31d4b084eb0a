package level

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultPackYAML []byte

// YAMLPack is the on-disk layout of a level pack.
type YAMLPack struct {
	Levels []YAMLLevel `yaml:"levels"`
}

// YAMLLevel is one level entry of a pack.
type YAMLLevel struct {
	Name       string      `yaml:"name"`
	Base       *float64    `yaml:"base_height,omitempty"` // Omitted: previous level's target
	Target     float64     `yaml:"target_height"`
	Hazards    YAMLHazards `yaml:"hazards,omitempty"`
	BlockTypes int         `yaml:"block_types"`
	WindPolicy string      `yaml:"wind_policy,omitempty"`
}

// YAMLHazards lists hazard toggles.
type YAMLHazards struct {
	Wind     bool `yaml:"wind"`
	Rain     bool `yaml:"rain"`
	Snow     bool `yaml:"snow"`
	Boss     bool `yaml:"boss"`
	PowerUps bool `yaml:"powerups"`
}

// Pack is an ordered list of levels.
type Pack []Config

// ParsePack parses and validates a YAML level pack. A level without an
// explicit base height continues from the previous level's target.
func ParsePack(data []byte) (Pack, error) {
	var yp YAMLPack
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}
	if len(yp.Levels) == 0 {
		return nil, fmt.Errorf("%w: pack has no levels", ErrInvalid)
	}

	pack := make(Pack, 0, len(yp.Levels))
	prevTarget := 0.0
	for i, yl := range yp.Levels {
		base := prevTarget
		if yl.Base != nil {
			base = *yl.Base
		}
		name := yl.Name
		if name == "" {
			name = fmt.Sprintf("Level %d", i+1)
		}
		cfg := Config{
			Index:        i,
			Name:         name,
			BaseHeight:   base,
			TargetHeight: yl.Target,
			Hazards: Hazards{
				Wind:     yl.Hazards.Wind,
				Rain:     yl.Hazards.Rain,
				Snow:     yl.Hazards.Snow,
				Boss:     yl.Hazards.Boss,
				PowerUps: yl.Hazards.PowerUps,
			},
			BlockTypes: yl.BlockTypes,
			WindPolicy: WindPolicy(yl.WindPolicy),
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		pack = append(pack, cfg)
		prevTarget = cfg.TargetHeight
	}
	return pack, nil
}

// DefaultPack returns the built-in campaign.
func DefaultPack() Pack {
	pack, err := ParsePack(defaultPackYAML)
	if err != nil {
		panic(fmt.Sprintf("level: embedded pack is invalid: %v", err))
	}
	return pack
}

// Len returns the number of levels.
func (p Pack) Len() int {
	return len(p)
}

// Get returns the level at a 0-based index.
func (p Pack) Get(index int) (Config, bool) {
	if index < 0 || index >= len(p) {
		return Config{}, false
	}
	return p[index], true
}

// Names returns the level names in order.
func (p Pack) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name
	}
	return names
}
