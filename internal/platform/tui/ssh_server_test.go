package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bullethell/internal/core"
)

func sessionUpdate(t *testing.T, m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = sm
	}
	return m, cmd
}

func TestSessionPlayerName(t *testing.T) {
	tests := []struct {
		user   string
		name   string
		locked bool
	}{
		{"alice", "alice", true},
		{"al", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		m := NewSessionModel(nil, nil, testConfig(), tc.user)
		if m.selection.PlayerName != tc.name || m.nameLocked != tc.locked {
			t.Errorf("user %q: name %q locked %v, expected %q %v",
				tc.user, m.selection.PlayerName, m.nameLocked, tc.name, tc.locked)
		}
	}
}

func TestSessionFlow(t *testing.T) {
	rep := &fakeReporter{}
	board := &fakeBoard{}
	m := NewSessionModel(rep, board, testConfig(), "alice")

	// Settings -> scoreboard -> settings
	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != stateScoreboard || cmd != nil {
		t.Fatalf("tab should open the scoreboard in place, state = %v", m.state)
	}
	if q := board.last(); q.device != core.DeviceSSH || q.difficulty != "normal" {
		t.Errorf("scoreboard query = %+v, expected the ssh board of the selected difficulty", q)
	}
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSettings {
		t.Fatalf("esc should return to settings, state = %v", m.state)
	}

	// Settings -> game
	m, cmd = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateGame || m.gameModel == nil || cmd == nil {
		t.Fatalf("enter should start a game, state = %v", m.state)
	}
	if m.gameModel.player != (core.Player{Name: "alice", DeviceType: core.DeviceSSH}) {
		t.Errorf("player = %+v", m.gameModel.player)
	}
	if m.View() == "" {
		t.Error("game view should not be empty")
	}

	// Back is ignored while playing, q ends the session
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateGame {
		t.Error("back while playing should keep the game")
	}
	m, cmd = sessionUpdate(t, m, runeKey("q"))
	if !m.quitting || cmd == nil {
		t.Error("q should end the session")
	}
}

func TestSessionBackFromGameOver(t *testing.T) {
	m := NewSessionModel(nil, nil, testConfig(), "alice")
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Pause, then leave
	m, _ = sessionUpdate(t, m, runeKey("p"), TickMsg{Gen: m.gameModel.gen})
	if !m.gameModel.State().Paused {
		t.Fatal("game should be paused")
	}
	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSettings || m.gameModel != nil || cmd != nil {
		t.Errorf("back from pause should return to settings, state = %v", m.state)
	}
	if m.settings.Selection().PlayerName != "alice" {
		t.Error("settings should keep the selection")
	}
}
