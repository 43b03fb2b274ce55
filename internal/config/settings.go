package config

import "slices"

// Pattern names accepted by Settings.Pattern.
const (
	PatternRandom = "random"
	PatternCircle = "circle"
	PatternSpiral = "spiral"
	PatternMixed  = "mixed"
)

// MaxHPLimit caps the selectable hit points.
const MaxHPLimit = 9

var (
	difficultyOrder = []string{"easy", "normal", "hard", "lunatic"}
	densityOrder    = []string{"low", "medium", "high", "extreme"}
	patternOrder    = []string{PatternRandom, PatternCircle, PatternSpiral, PatternMixed}
)

// Settings is the per-run selection made in the menu or on the command line.
type Settings struct {
	Difficulty string `yaml:"difficulty"`
	Density    string `yaml:"density"`
	Pattern    string `yaml:"pattern"`
	MaxHP      int    `yaml:"max_hp"`
}

// DefaultSettings returns the selection used when nothing was chosen.
func DefaultSettings() Settings {
	return Settings{
		Difficulty: "normal",
		Density:    "medium",
		Pattern:    PatternMixed,
		MaxHP:      3,
	}
}

// Normalize replaces names unknown to cfg with defaults and clamps MaxHP.
func (s Settings) Normalize(cfg BulletHellConfig) Settings {
	def := DefaultSettings()
	if _, ok := cfg.Difficulties[s.Difficulty]; !ok {
		s.Difficulty = def.Difficulty
	}
	if _, ok := cfg.Densities[s.Density]; !ok {
		s.Density = def.Density
	}
	if !slices.Contains(patternOrder, s.Pattern) {
		s.Pattern = def.Pattern
	}
	if s.MaxHP <= 0 {
		s.MaxHP = cfg.Player.MaxHP
	}
	if s.MaxHP <= 0 {
		s.MaxHP = def.MaxHP
	}
	s.MaxHP = min(s.MaxHP, MaxHPLimit)
	return s
}

// Difficulties lists difficulty names in display order.
func Difficulties() []string { return slices.Clone(difficultyOrder) }

// Densities lists density names in display order.
func Densities() []string { return slices.Clone(densityOrder) }

// Patterns lists pattern names in display order.
func Patterns() []string { return slices.Clone(patternOrder) }
