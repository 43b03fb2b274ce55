// Package config provides YAML-based game configuration loading and
// difficulty management for the bullet hell game.
package config

// BulletHellConfig contains all configuration for the bullet hell game.
type BulletHellConfig struct {
	Engine       EngineConfig       `yaml:"engine"`
	Player       PlayerConfig       `yaml:"player"`
	Difficulties map[string]float64 `yaml:"difficulties"` // Bullet speed multiplier by name
	Densities    map[string]float64 `yaml:"densities"`    // Emitter fires per second by name
	Patterns     PatternsConfig     `yaml:"patterns"`
	Difficulty   DifficultyConfig   `yaml:"difficulty"`
}

// EngineConfig sizes the simulation and maps terminal cells to world units.
type EngineConfig struct {
	MaxBullets int     `yaml:"max_bullets"`
	CellWidth  float64 `yaml:"cell_width"`  // World units per terminal column
	CellHeight float64 `yaml:"cell_height"` // World units per terminal row
	HUDRows    int     `yaml:"hud_rows"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Radius            float64 `yaml:"radius"`
	Speed             float64 `yaml:"speed"` // World units per second
	MaxHP             int     `yaml:"max_hp"`
	InvincibleSeconds float64 `yaml:"invincible_seconds"`
	HoldSeconds       float64 `yaml:"hold_seconds"` // How long one key press keeps the ship moving
}

// PatternsConfig defines every emitter pattern.
type PatternsConfig struct {
	Aimed  AimedPattern `yaml:"aimed"`
	Circle RingPattern  `yaml:"circle"`
	Spiral RingPattern  `yaml:"spiral"`
	Mixed  MixedPattern `yaml:"mixed"`
}

// AimedPattern fires single bullets from the top edge toward the player.
type AimedPattern struct {
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	Color     uint32  `yaml:"color"`
}

// RingPattern fires evenly spaced bullets around a center point.
type RingPattern struct {
	Chance   float64 `yaml:"chance"` // Probability per emitter fire
	Count    int     `yaml:"count"`
	Speed    float64 `yaml:"speed"`
	Radius   float64 `yaml:"radius"`
	Color    uint32  `yaml:"color"`
	TurnRate float64 `yaml:"turn_rate"` // Radians per second of angular offset
}

// MixedPattern overrides ring chances when the mixed pattern is selected.
type MixedPattern struct {
	CircleChance float64 `yaml:"circle_chance"`
	SpiralChance float64 `yaml:"spiral_chance"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = calm, 1.0 = full ramp
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "time" or "none"
	MaxAt int    `yaml:"max_at"` // Ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	RateMultiplier float64 `yaml:"rate_multiplier"` // Added to the spawn rate factor at max difficulty
}

// DifficultyPreset represents a named ramp preset.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *BulletHellConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
