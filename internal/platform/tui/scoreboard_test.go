package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/storage"
)

type boardQuery struct {
	difficulty string
	device     string
	limit      int
}

// fakeBoard serves canned leaderboards keyed by difficulty.
type fakeBoard struct {
	entries map[string][]storage.LeaderboardEntry
	err     error
	queries []boardQuery
}

func (b *fakeBoard) Leaderboard(_ context.Context, difficulty, deviceType string, limit int) ([]storage.LeaderboardEntry, error) {
	b.queries = append(b.queries, boardQuery{difficulty, deviceType, limit})
	if b.err != nil {
		return nil, b.err
	}
	return b.entries[difficulty], nil
}

func (b *fakeBoard) last() boardQuery {
	return b.queries[len(b.queries)-1]
}

func TestScoreboardLoadsSelectedBoard(t *testing.T) {
	board := &fakeBoard{entries: map[string][]storage.LeaderboardEntry{
		"hard": {
			{Rank: 1, Username: "alice", SurvivalTime: 61.25, Density: "high", Pattern: "spiral", CreatedAt: time.Now()},
			{Rank: 1, Username: "carol", SurvivalTime: 61.25, Density: "low", Pattern: "mixed", CreatedAt: time.Now()},
		},
	}}

	m := NewScoreboardModel(board, "hard", core.DeviceSSH, 80, 30)
	if q := board.last(); q != (boardQuery{"hard", core.DeviceSSH, maxScores}) {
		t.Errorf("first query = %+v", q)
	}
	if len(m.Entries()) != 2 {
		t.Fatalf("got %d entries, expected 2", len(m.Entries()))
	}

	view := m.View()
	for _, want := range []string{"LEADERBOARD - HARD (ssh)", "alice", "carol", "1:01.25", "high/spiral"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestScoreboardNavigation(t *testing.T) {
	board := &fakeBoard{}
	m := NewScoreboardModel(board, "lunatic", "", 80, 30)

	update := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		m = next.(ScoreboardModel)
	}

	if q := board.last(); q.device != core.DeviceTerminal {
		t.Errorf("unknown device should fall back to terminal, got %q", q.device)
	}

	update(tea.KeyMsg{Type: tea.KeyTab})
	if q := board.last(); q.difficulty != "easy" {
		t.Errorf("tab from the last difficulty should wrap to easy, got %q", q.difficulty)
	}
	update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if q := board.last(); q.difficulty != "lunatic" {
		t.Errorf("shift+tab should go back to lunatic, got %q", q.difficulty)
	}
	update(runeKey("d"))
	if q := board.last(); q.device != core.DeviceSSH || q.difficulty != "lunatic" {
		t.Errorf("d should switch to the ssh board, got %+v", q)
	}

	before := len(board.queries)
	update(runeKey("r"))
	if len(board.queries) != before+1 {
		t.Error("r should reload")
	}

	update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Error("esc should go back")
	}
}

func TestScoreboardMessages(t *testing.T) {
	tests := []struct {
		name   string
		source LeaderboardSource
		want   string
	}{
		{"no database", nil, "Leaderboard unavailable"},
		{"load error", &fakeBoard{err: errors.New("locked")}, "Could not load"},
		{"empty board", &fakeBoard{}, "No runs recorded yet"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewScoreboardModel(tc.source, "normal", core.DeviceTerminal, 120, 30)
			if !strings.Contains(m.View(), tc.want) {
				t.Errorf("view does not mention %q", tc.want)
			}
		})
	}
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(nil, "normal", core.DeviceTerminal, 80, 30)
	next, cmd := m.Update(runeKey("q"))
	if !next.(ScoreboardModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestFormatSurvival(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00.00"},
		{9.876, "0:09.88"},
		{65.5, "1:05.50"},
		{3599.999, "60:00.00"},
	}

	for _, tc := range tests {
		if got := formatSurvival(tc.seconds); got != tc.want {
			t.Errorf("formatSurvival(%v) = %q, expected %q", tc.seconds, got, tc.want)
		}
	}
}
