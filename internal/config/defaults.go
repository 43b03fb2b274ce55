package config

import (
	_ "embed"
)

//go:embed defaults/bullethell.yaml
var defaultBulletHellYAML []byte

// DefaultBulletHellConfig returns the hardcoded bullet hell configuration.
// It matches defaults/bullethell.yaml.
func DefaultBulletHellConfig() BulletHellConfig {
	return BulletHellConfig{
		Engine: EngineConfig{
			MaxBullets: 4096,
			CellWidth:  8,
			CellHeight: 16,
			HUDRows:    1,
		},
		Player: PlayerConfig{
			Radius:            3,
			Speed:             220,
			MaxHP:             3,
			InvincibleSeconds: 1.0,
			HoldSeconds:       0.12,
		},
		Difficulties: map[string]float64{
			"easy":    0.7,
			"normal":  1.0,
			"hard":    1.5,
			"lunatic": 2.0,
		},
		Densities: map[string]float64{
			"low":     20,
			"medium":  50,
			"high":    100,
			"extreme": 200,
		},
		Patterns: PatternsConfig{
			Aimed: AimedPattern{
				MinSpeed:  80,
				MaxSpeed:  140,
				MinRadius: 3,
				MaxRadius: 5,
				Color:     0xFF3333FF,
			},
			Circle: RingPattern{
				Chance: 0.1,
				Count:  16,
				Speed:  120,
				Radius: 3,
				Color:  0xFFAA00FF,
			},
			Spiral: RingPattern{
				Chance:   0.05,
				Count:    24,
				Speed:    100,
				Radius:   3,
				Color:    0x00FFFFFF,
				TurnRate: 1.0,
			},
			Mixed: MixedPattern{
				CircleChance: 0.3,
				SpiralChance: 0.2,
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 10800, // 3 minutes at 60fps
			},
			Scaling: ScalingConfig{
				RateMultiplier: 1.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBulletHellYAML
}
