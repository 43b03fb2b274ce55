package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
	"github.com/vovakirdan/tui-bullethell/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.bullethell/host_key.
	HostKeyPath string

	// DBPath is the path to the leaderboard database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.bullethell/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server for the game.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
	sessions atomic.Int64
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bullethell-ssh",
		Level:           log.GetLevel(),
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open leaderboard database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".bullethell", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     0, // Fresh seed per run
	}

	model := NewSessionModel(s.reporter(), s.leaderboard(), cfg, sshSession.User())
	model.logger = s.logger.With("user", sshSession.User())

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// reporter returns the store as a RunReporter, or nil without a database.
func (s *SSHServer) reporter() core.RunReporter {
	if s.store == nil {
		return nil
	}
	return s.store
}

// leaderboard returns the store as a LeaderboardSource, or nil without a database.
func (s *SSHServer) leaderboard() LeaderboardSource {
	if s.store == nil {
		return nil
	}
	return s.store
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Add(1),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
			"active", s.sessions.Add(-1),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "leaderboard", s.store != nil)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		if closeErr := s.store.Close(); closeErr != nil {
			s.logger.Warn("could not close leaderboard database", "error", closeErr)
		}
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState is the screen a session is on.
type sessionState int

const (
	stateSettings sessionState = iota
	stateGame
	stateScoreboard
)

// SessionModel manages the full session flow: settings -> game -> settings,
// with the scoreboard reachable from the settings menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	reporter   core.RunReporter
	board      LeaderboardSource
	config     core.RuntimeConfig
	username   string
	nameLocked bool
	selection  Selection
	logger     *log.Logger

	state      sessionState
	settings   SettingsModel
	gameModel  *GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a new session model for username. A valid
// username becomes the player name; otherwise ranked runs prompt for one.
func NewSessionModel(reporter core.RunReporter, board LeaderboardSource, cfg core.RuntimeConfig, username string) SessionModel {
	sel := Selection{
		Mode:     "practice",
		Settings: config.DefaultSettings(),
	}
	name, err := core.NormalizePlayerName(username)
	if err == nil {
		sel.PlayerName = name
	}

	m := SessionModel{
		reporter:   reporter,
		board:      board,
		config:     cfg,
		username:   username,
		nameLocked: err == nil,
		selection:  sel,
		logger:     log.Default(),
	}
	m.settings = NewSettingsModel(sel, m.nameLocked, cfg)
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.settings.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case stateGame:
		return m.updateGame(msg)
	case stateScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateSettings(msg)
	}
}

// updateSettings handles updates on the settings menu.
// Transitions drop the menu's quit command so the program keeps running.
func (m SessionModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.settings.Update(msg)
	if settings, ok := newModel.(SettingsModel); ok {
		m.settings = settings
	}
	m.selection = m.settings.Selection()

	if m.settings.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.settings.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.board, m.selection.Settings.Difficulty, core.DeviceSSH, m.config.ScreenW, m.config.ScreenH)
		m.state = stateScoreboard
		return m, m.scoreboard.Init()
	}

	if m.settings.Started() {
		game, err := registry.Create(m.selection.Mode)
		if err != nil {
			// The menu only offers registered modes
			m.logger.Error("cannot create game", "mode", m.selection.Mode, "err", err)
			m.settings = NewSettingsModel(m.selection, m.nameLocked, m.config)
			return m, nil
		}
		if c, ok := game.(registry.Configurable); ok {
			c.Configure(m.selection.Settings)
		}

		player := core.Player{Name: m.selection.PlayerName, DeviceType: core.DeviceSSH}
		gameModel := NewGameModel(game, m.reporter, player, m.config)
		gameModel.logger = m.logger
		m.gameModel = &gameModel
		m.state = stateGame

		m.logger.Info("run started", "mode", m.selection.Mode,
			"difficulty", m.selection.Settings.Difficulty,
			"density", m.selection.Settings.Density,
			"pattern", m.selection.Settings.Pattern,
		)
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates while a game runs.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.backToSettings()
		return m, nil
	}

	return m, cmd
}

// updateScoreboard handles updates on the scoreboard.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if scoreboard, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = scoreboard
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.backToSettings()
		return m, nil
	}

	return m, cmd
}

func (m *SessionModel) backToSettings() {
	m.gameModel = nil
	m.settings = NewSettingsModel(m.selection, m.nameLocked, m.config)
	m.state = stateSettings
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateGame:
		return m.gameModel.View()
	case stateScoreboard:
		return m.scoreboard.View()
	default:
		return m.settings.View()
	}
}
