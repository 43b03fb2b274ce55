// Package storage provides the SQLite-backed leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-bullethell/internal/core"
)

// Default result limits.
const (
	DefaultLeaderboardLimit = 100
	DefaultRunsLimit        = 50
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

// ErrPlayerNotFound is returned when no player has the requested name.
var ErrPlayerNotFound = errors.New("storage: player not found")

// Store manages the SQLite database connection for the leaderboard.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// PlayerRecord is a stored player. Players are unique per name and device type.
type PlayerRecord struct {
	ID         string
	Username   string
	DeviceType string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RunRecord is one stored run.
type RunRecord struct {
	ID           string
	PlayerID     string
	SurvivalTime float64
	Difficulty   string
	Density      string
	Pattern      string
	MaxHP        int
	DeviceType   string
	Frames       uint64
	CreatedAt    time.Time
}

// LeaderboardEntry is a player's best run with its rank.
type LeaderboardEntry struct {
	Rank         int
	PlayerID     string
	Username     string
	DeviceType   string
	SurvivalTime float64
	Density      string
	Pattern      string
	MaxHP        int
	CreatedAt    time.Time
}

// PlayerStats contains aggregated statistics for a player name across devices.
type PlayerStats struct {
	Username    string
	TotalGames  int
	BestTime    float64
	AverageTime float64
	LastPlayed  time.Time
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; SSH sessions share this store.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			device_type TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (username, device_type)
		);
		CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL REFERENCES players(id),
			survival_time REAL NOT NULL,
			difficulty TEXT NOT NULL,
			bullet_density TEXT NOT NULL,
			bullet_pattern TEXT NOT NULL,
			max_hp INTEGER NOT NULL,
			device_type TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board ON runs(difficulty, device_type, survival_time DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UpsertPlayer returns the stored player for the name and device type,
// creating it on first use.
func (s *Store) UpsertPlayer(ctx context.Context, p core.Player) (PlayerRecord, error) {
	name, err := core.NormalizePlayerName(p.Name)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("storage: %w", err)
	}
	p.Name = name
	p.DeviceType = core.NormalizeDeviceType(p.DeviceType)

	return s.upsertPlayer(ctx, s.db, p)
}

func (s *Store) upsertPlayer(ctx context.Context, q querier, p core.Player) (PlayerRecord, error) {
	now := s.now().UTC().Format(timeLayout)
	_, err := q.ExecContext(ctx,
		`INSERT INTO players (id, username, device_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (username, device_type) DO UPDATE SET updated_at = excluded.updated_at`,
		uuid.NewString(), p.Name, p.DeviceType, now, now,
	)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("storage: cannot save player: %w", err)
	}

	var rec PlayerRecord
	var createdAt, updatedAt any
	err = q.QueryRowContext(ctx,
		`SELECT id, username, device_type, created_at, updated_at
		 FROM players WHERE username = ? AND device_type = ?`,
		p.Name, p.DeviceType,
	).Scan(&rec.ID, &rec.Username, &rec.DeviceType, &createdAt, &updatedAt)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("storage: cannot load player: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

// SubmitRun records a finished run and reports its rank among the best runs
// of every player on the same difficulty and device type. The run is a
// personal best when the player has no earlier run there or beats the
// earlier maximum.
func (s *Store) SubmitRun(ctx context.Context, p core.Player, run core.RunResult) (core.Submission, error) {
	name, err := core.NormalizePlayerName(p.Name)
	if err != nil {
		return core.Submission{}, fmt.Errorf("storage: %w", err)
	}
	p.Name = name
	p.DeviceType = core.NormalizeDeviceType(p.DeviceType)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Submission{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	player, err := s.upsertPlayer(ctx, tx, p)
	if err != nil {
		return core.Submission{}, err
	}

	var prevBest sql.NullFloat64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(survival_time) FROM runs
		 WHERE player_id = ? AND difficulty = ? AND device_type = ?`,
		player.ID, run.Difficulty, p.DeviceType,
	).Scan(&prevBest)
	if err != nil {
		return core.Submission{}, fmt.Errorf("storage: cannot query previous best: %w", err)
	}

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs
		 (id, player_id, survival_time, difficulty, bullet_density, bullet_pattern, max_hp, device_type, frames, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, player.ID, run.SurvivalTime, run.Difficulty, run.Density, run.Pattern,
		run.MaxHP, p.DeviceType, int64(run.Frames), s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return core.Submission{}, fmt.Errorf("storage: cannot save run: %w", err)
	}

	best := run.SurvivalTime
	if prevBest.Valid {
		best = max(best, prevBest.Float64)
	}

	var rank int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM (
			SELECT MAX(survival_time) AS best FROM runs
			WHERE difficulty = ? AND device_type = ?
			GROUP BY player_id
		 ) WHERE best > ?`,
		run.Difficulty, p.DeviceType, best,
	).Scan(&rank)
	if err != nil {
		return core.Submission{}, fmt.Errorf("storage: cannot compute rank: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Submission{}, fmt.Errorf("storage: cannot commit run: %w", err)
	}

	return core.Submission{
		RunID:        runID,
		PlayerID:     player.ID,
		Rank:         rank,
		HasRank:      true,
		PersonalBest: !prevBest.Valid || run.SurvivalTime > prevBest.Float64,
	}, nil
}

// Ensure Store implements RunReporter
var _ core.RunReporter = (*Store)(nil)

// Leaderboard returns the best run of each player for the difficulty and
// device type, best first. Ties share a rank.
func (s *Store) Leaderboard(ctx context.Context, difficulty, deviceType string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`WITH best AS (
			SELECT r.*, ROW_NUMBER() OVER (
				PARTITION BY r.player_id ORDER BY r.survival_time DESC, r.created_at ASC
			) AS rn
			FROM runs r
			WHERE r.difficulty = ? AND r.device_type = ?
		 )
		 SELECT RANK() OVER (ORDER BY b.survival_time DESC) AS place,
		        b.player_id, p.username, b.device_type, b.survival_time,
		        b.bullet_density, b.bullet_pattern, b.max_hp, b.created_at
		 FROM best b JOIN players p ON p.id = b.player_id
		 WHERE b.rn = 1
		 ORDER BY place, b.created_at
		 LIMIT ?`,
		difficulty, core.NormalizeDeviceType(deviceType), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var createdAt any
		if err := rows.Scan(&e.Rank, &e.PlayerID, &e.Username, &e.DeviceType, &e.SurvivalTime,
			&e.Density, &e.Pattern, &e.MaxHP, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// PlayerRuns returns the most recent runs for a player name on any device.
func (s *Store) PlayerRuns(ctx context.Context, username string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.player_id, r.survival_time, r.difficulty, r.bullet_density,
		        r.bullet_pattern, r.max_hp, r.device_type, r.frames, r.created_at
		 FROM runs r JOIN players p ON p.id = r.player_id
		 WHERE p.username = ?
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var frames int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.SurvivalTime, &r.Difficulty, &r.Density,
			&r.Pattern, &r.MaxHP, &r.DeviceType, &frames, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Frames = uint64(frames)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// PlayerStats aggregates every run of a player name.
// Returns ErrPlayerNotFound when the name was never used.
func (s *Store) PlayerStats(ctx context.Context, username string) (*PlayerStats, error) {
	var players int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM players WHERE username = ?", username,
	).Scan(&players)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player: %w", err)
	}
	if players == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, username)
	}

	stats := &PlayerStats{Username: username}
	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(r.id), COALESCE(MAX(r.survival_time), 0), COALESCE(AVG(r.survival_time), 0), MAX(r.created_at)
		 FROM runs r JOIN players p ON p.id = r.player_id
		 WHERE p.username = ?`,
		username,
	).Scan(&stats.TotalGames, &stats.BestTime, &stats.AverageTime, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime accepts the stored text layout or a driver-provided time.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse(timeLayout, string(v)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
