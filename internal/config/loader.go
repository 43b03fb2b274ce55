package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bullethell/internal/bullets"
)

const configFile = "bullethell.yaml"

// LoadBulletHell loads the bullet hell configuration.
// Search order: customPath -> ~/.bullethell/configs/bullethell.yaml -> ./configs/bullethell.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
// Only a bad customPath is reported; the other layers are skipped when unreadable or invalid.
func LoadBulletHell(customPath string) (BulletHellConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BulletHellConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return BulletHellConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultBulletHellYAML)
	if err != nil {
		return DefaultBulletHellConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (BulletHellConfig, error) {
	cfg := DefaultBulletHellConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bullethell", "configs", filename)
}

// Validate reports every value the game cannot run with.
func (c BulletHellConfig) Validate() error {
	var errs []error

	if c.Engine.MaxBullets <= 0 || c.Engine.MaxBullets > bullets.MaxCapacity {
		errs = append(errs, fmt.Errorf("engine.max_bullets must be in [1, %d], got %d", bullets.MaxCapacity, c.Engine.MaxBullets))
	}
	if c.Engine.CellWidth <= 0 || c.Engine.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("engine cell size must be positive, got %vx%v", c.Engine.CellWidth, c.Engine.CellHeight))
	}
	if c.Engine.HUDRows < 0 {
		errs = append(errs, fmt.Errorf("engine.hud_rows must not be negative, got %d", c.Engine.HUDRows))
	}
	if c.Player.Radius <= 0 || c.Player.Speed <= 0 {
		errs = append(errs, errors.New("player radius and speed must be positive"))
	}
	if c.Player.MaxHP <= 0 {
		errs = append(errs, fmt.Errorf("player.max_hp must be positive, got %d", c.Player.MaxHP))
	}

	for _, name := range Difficulties() {
		if v, ok := c.Difficulties[name]; !ok || v <= 0 {
			errs = append(errs, fmt.Errorf("difficulties.%s must be a positive multiplier", name))
		}
	}
	for _, name := range Densities() {
		if v, ok := c.Densities[name]; !ok || v <= 0 {
			errs = append(errs, fmt.Errorf("densities.%s must be a positive rate", name))
		}
	}

	a := c.Patterns.Aimed
	if a.MinSpeed > a.MaxSpeed || a.MinRadius > a.MaxRadius || a.MinRadius <= 0 {
		errs = append(errs, errors.New("patterns.aimed ranges are invalid"))
	}
	rings := []struct {
		name string
		r    RingPattern
	}{{"circle", c.Patterns.Circle}, {"spiral", c.Patterns.Spiral}}
	for _, ring := range rings {
		if r, name := ring.r, ring.name; r.Count <= 0 || r.Radius <= 0 || !unit(r.Chance) {
			errs = append(errs, fmt.Errorf("patterns.%s needs a positive count and radius and a chance in [0, 1]", name))
		}
	}
	if !unit(c.Patterns.Mixed.CircleChance) || !unit(c.Patterns.Mixed.SpiralChance) {
		errs = append(errs, errors.New("patterns.mixed chances must be in [0, 1]"))
	}

	if !slices.Contains([]string{"time", "none"}, c.Difficulty.Progression.Type) {
		errs = append(errs, fmt.Errorf("difficulty.progression.type %q is not time or none", c.Difficulty.Progression.Type))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
