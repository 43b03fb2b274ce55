package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bullethell/internal/core"
)

// openTestStore opens a store with a deterministic clock that advances one
// second per call.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func run(seconds float64, difficulty string) core.RunResult {
	return core.RunResult{
		SurvivalTime: seconds,
		Difficulty:   difficulty,
		Density:      "medium",
		Pattern:      "mixed",
		MaxHP:        3,
		Frames:       uint64(seconds * 60),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Reopening runs migrations again
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	store.Close()
}

func TestUpsertPlayer(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.UpsertPlayer(ctx, core.Player{Name: " alice ", DeviceType: core.DeviceTerminal})
	if err != nil {
		t.Fatalf("UpsertPlayer() failed: %v", err)
	}
	if first.Username != "alice" || first.ID == "" {
		t.Errorf("player = %+v", first)
	}

	again, err := store.UpsertPlayer(ctx, core.Player{Name: "alice", DeviceType: core.DeviceTerminal})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID {
		t.Error("same name and device should return the same player")
	}
	if !again.UpdatedAt.After(first.UpdatedAt) || !again.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("upsert timestamps: created %v -> %v, updated %v -> %v",
			first.CreatedAt, again.CreatedAt, first.UpdatedAt, again.UpdatedAt)
	}

	ssh, err := store.UpsertPlayer(ctx, core.Player{Name: "alice", DeviceType: core.DeviceSSH})
	if err != nil {
		t.Fatal(err)
	}
	if ssh.ID == first.ID {
		t.Error("different device type should create a separate player")
	}

	if _, err := store.UpsertPlayer(ctx, core.Player{Name: "al"}); !errors.Is(err, core.ErrInvalidPlayerName) {
		t.Errorf("short name error = %v, expected ErrInvalidPlayerName", err)
	}
}

func TestSubmitRunRankAndPersonalBest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := core.Player{Name: "alice", DeviceType: core.DeviceTerminal}
	bob := core.Player{Name: "bob_", DeviceType: core.DeviceTerminal}

	tests := []struct {
		player       core.Player
		seconds      float64
		rank         int
		personalBest bool
	}{
		{alice, 10, 1, true},
		{bob, 20, 1, true},
		{alice, 5, 2, false},  // alice's best is still 10
		{alice, 10, 2, false}, // equal is not a new best
		{alice, 30, 1, true},
		{bob, 25, 2, true},
	}

	for i, tc := range tests {
		sub, err := store.SubmitRun(ctx, tc.player, run(tc.seconds, "normal"))
		if err != nil {
			t.Fatalf("submission %d failed: %v", i, err)
		}
		if !sub.HasRank || sub.Rank != tc.rank || sub.PersonalBest != tc.personalBest {
			t.Errorf("submission %d (%s %.0fs) = rank %d pb %v, expected rank %d pb %v",
				i, tc.player.Name, tc.seconds, sub.Rank, sub.PersonalBest, tc.rank, tc.personalBest)
		}
		if sub.RunID == "" || sub.PlayerID == "" {
			t.Errorf("submission %d missing ids: %+v", i, sub)
		}
	}

	// Other difficulties and devices have their own boards
	sub, err := store.SubmitRun(ctx, core.Player{Name: "carol", DeviceType: core.DeviceSSH}, run(1, "normal"))
	if err != nil {
		t.Fatal(err)
	}
	if sub.Rank != 1 || !sub.PersonalBest {
		t.Errorf("first ssh run = %+v, expected rank 1 and personal best", sub)
	}
	sub, err = store.SubmitRun(ctx, alice, run(2, "hard"))
	if err != nil {
		t.Fatal(err)
	}
	if sub.Rank != 1 || !sub.PersonalBest {
		t.Errorf("first hard run = %+v, expected rank 1 and personal best", sub)
	}
}

func TestSubmitRunInvalidName(t *testing.T) {
	store := openTestStore(t)
	_, err := store.SubmitRun(context.Background(), core.Player{Name: "  x "}, run(5, "normal"))
	if !errors.Is(err, core.ErrInvalidPlayerName) {
		t.Errorf("error = %v, expected ErrInvalidPlayerName", err)
	}
}

func TestLeaderboard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	submissions := []struct {
		name    string
		seconds float64
	}{
		{"alice", 12}, {"alice", 40}, {"bob_", 25}, {"carol", 40}, {"dave", 3},
	}
	for _, s := range submissions {
		if _, err := store.SubmitRun(ctx, core.Player{Name: s.name}, run(s.seconds, "normal")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SubmitRun(ctx, core.Player{Name: "erin"}, run(99, "hard")); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Leaderboard(ctx, "normal", core.DeviceTerminal, 0)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}

	want := []struct {
		rank    int
		name    string
		seconds float64
	}{
		{1, "alice", 40}, {1, "carol", 40}, {3, "bob_", 25}, {4, "dave", 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, expected %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.Rank != w.rank || e.Username != w.name || e.SurvivalTime != w.seconds {
			t.Errorf("entry %d = #%d %s %.0fs, expected #%d %s %.0fs",
				i, e.Rank, e.Username, e.SurvivalTime, w.rank, w.name, w.seconds)
		}
		if e.CreatedAt.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
	}

	top, err := store.Leaderboard(ctx, "normal", core.DeviceTerminal, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Errorf("limit 2 returned %d entries", len(top))
	}

	empty, err := store.Leaderboard(ctx, "lunatic", core.DeviceTerminal, 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty board = %v, %v", empty, err)
	}
}

func TestPlayerRunsAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, sec := range []float64{10, 30, 20} {
		if _, err := store.SubmitRun(ctx, core.Player{Name: "alice"}, run(sec, "normal")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SubmitRun(ctx, core.Player{Name: "alice", DeviceType: core.DeviceSSH}, run(60, "easy")); err != nil {
		t.Fatal(err)
	}

	runs, err := store.PlayerRuns(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("PlayerRuns() failed: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("got %d runs, expected 4", len(runs))
	}
	if runs[0].SurvivalTime != 60 || runs[0].DeviceType != core.DeviceSSH || runs[3].SurvivalTime != 10 {
		t.Errorf("runs should be most recent first: %+v", runs)
	}
	if runs[1].Frames != 1200 {
		t.Errorf("frames = %d, expected 1200", runs[1].Frames)
	}

	limited, err := store.PlayerRuns(ctx, "alice", 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("limit 2 returned %d runs, %v", len(limited), err)
	}

	stats, err := store.PlayerStats(ctx, "alice")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if stats.TotalGames != 4 || stats.BestTime != 60 || stats.AverageTime != 30 {
		t.Errorf("stats = %+v, expected 4 games, best 60, average 30", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	if _, err := store.PlayerStats(ctx, "nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("unknown player error = %v, expected ErrPlayerNotFound", err)
	}
}
