// Package tui provides the Bubble Tea integration for the bullet hell game.
// It handles the terminal UI loop, input mapping, menus, the scoreboard and
// the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Gen identifies the tick loop that scheduled it.
type TickMsg struct {
	Time time.Time
	Gen  uint64
}

var generations atomic.Uint64

// nextGeneration returns a process-unique tick loop id.
func nextGeneration() uint64 {
	return generations.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, gen uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
