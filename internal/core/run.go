package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Device types recorded with a run. Leaderboards are kept per device type.
const (
	DeviceTerminal = "terminal"
	DeviceSSH      = "ssh"
)

// Player name length limits, counted in runes after trimming.
const (
	MinPlayerName = 3
	MaxPlayerName = 24
)

// ErrInvalidPlayerName is returned for names outside the allowed length.
var ErrInvalidPlayerName = errors.New("invalid player name")

// Player identifies who played a run.
type Player struct {
	Name       string
	DeviceType string
}

// RunResult describes a finished run.
type RunResult struct {
	SurvivalTime float64 // Seconds survived
	Difficulty   string
	Density      string
	Pattern      string
	MaxHP        int
	Frames       uint64 // Engine frames simulated
}

// Submission is the leaderboard's answer to a reported run.
type Submission struct {
	RunID        string
	PlayerID     string
	Rank         int  // 1-based, valid when HasRank
	HasRank      bool
	PersonalBest bool
}

// RunReporter accepts finished runs. The leaderboard store implements it.
type RunReporter interface {
	SubmitRun(ctx context.Context, player Player, run RunResult) (Submission, error)
}

// NormalizePlayerName trims the name and validates its length.
func NormalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinPlayerName || n > MaxPlayerName {
		return "", fmt.Errorf("%w: %q must be %d-%d characters", ErrInvalidPlayerName, name, MinPlayerName, MaxPlayerName)
	}
	return name, nil
}

// NormalizeDeviceType maps unknown device types to DeviceTerminal.
func NormalizeDeviceType(device string) string {
	switch device {
	case DeviceTerminal, DeviceSSH:
		return device
	default:
		return DeviceTerminal
	}
}
