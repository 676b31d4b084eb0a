package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tower/internal/level"
)

// LoadTower loads the tower configuration. Fields missing from the file keep
// their default values.
// Search order: customPath -> ~/.tower/configs/tower.yaml -> ./configs/tower.yaml -> embedded default
func LoadTower(customPath string) (TowerConfig, error) {
	cfg := DefaultTowerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultTowerConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tower.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultTowerConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "tower.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultTowerConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTowerYAML, &cfg); err != nil {
		return DefaultTowerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadLevels loads the level pack.
// Search order: customPath -> ~/.tower/configs/levels.yaml -> ./configs/levels.yaml -> embedded pack
func LoadLevels(customPath string) (level.Pack, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read levels %s: %w", customPath, err)
		}
		pack, err := level.ParsePack(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse levels %s: %w", customPath, err)
		}
		return pack, nil
	}

	if userPath := userConfigPath("levels.yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if pack, err := level.ParsePack(data); err == nil {
				return pack, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "levels.yaml")); err == nil {
		if pack, err := level.ParsePack(data); err == nil {
			return pack, nil
		}
	}

	return level.DefaultPack(), nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tower", "configs", filename)
}
