// Package core provides the shared types of the game platform: runtime
// configuration, input frames, the character screen and run reporting.
// It has no dependency on Bubble Tea or the simulation so game logic stays
// pure and testable.
package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// DeltaTime returns the fixed simulation step in seconds.
func (c RuntimeConfig) DeltaTime() float32 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float32(c.TickRate)
}

// GameState represents the current state of a game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
