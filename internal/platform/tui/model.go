package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

// submitTimeout bounds a single leaderboard submission.
const submitTimeout = 5 * time.Second

var errNoLeaderboard = errors.New("tui: no leaderboard available")

// SubmissionMsg carries the leaderboard's answer for a finished run.
type SubmissionMsg struct {
	Gen        uint64
	Submission core.Submission
	Err        error
}

// GameModel is the Bubble Tea model that runs one game mode.
// It is used directly by the play command and embedded by SSH sessions.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	reporter   core.RunReporter
	player     core.Player
	config     core.RuntimeConfig
	seed       int64 // Requested seed, 0 picks a new one per run
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	logger     *log.Logger
	gen        uint64 // Current tick loop, stale ticks are dropped
	standalone bool   // Quit the program on back
	quitting   bool
	backToMenu bool
	submitted  bool // Whether the current game over was reported
}

// NewGameModel creates a model for game. reporter may be nil, in which case
// ranked runs are shown as not submitted.
func NewGameModel(game registry.Game, reporter core.RunReporter, player core.Player, cfg core.RuntimeConfig) GameModel {
	seed := cfg.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		reporter:   reporter,
		player:     player,
		config:     cfg,
		seed:       seed,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		logger:     log.Default(),
		gen:        nextGeneration(),
	}
}

// Init initializes the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)

		// The world is sized from the terminal, so a resize starts over
		if !m.gameState.GameOver {
			m.game.Reset(m.config)
			m.gameState = m.game.State()
		}
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()

	case SubmissionMsg:
		return m.handleSubmission(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to the menu from the pause or game over screen
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = m.seed
		if m.seed == 0 {
			m.config.Seed = time.Now().UnixNano()
		}
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.submitted = false
		m.inputFrame.Clear()
		m.gen = nextGeneration()
		return m, tickCmd(m.config.TickRate, m.gen)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	var submit tea.Cmd
	if m.gameState.GameOver && !m.submitted {
		m.submitted = true
		submit = m.submitCmd()
	}

	return m, tea.Batch(tickCmd(m.config.TickRate, m.gen), submit)
}

// submitCmd reports the finished run of a ranked game. The store call runs
// off the update loop; the answer comes back as a SubmissionMsg.
func (m GameModel) submitCmd() tea.Cmd {
	rep, ok := m.game.(registry.Reporter)
	if !ok || !rep.Ranked() {
		return nil
	}
	run, ok := rep.RunResult()
	if !ok {
		return nil
	}
	if m.reporter == nil {
		rep.ShowSubmission(core.Submission{}, errNoLeaderboard)
		return nil
	}

	reporter, player, gen := m.reporter, m.player, m.gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		sub, err := reporter.SubmitRun(ctx, player, run)
		return SubmissionMsg{Gen: gen, Submission: sub, Err: err}
	}
}

// handleSubmission passes the leaderboard answer to the game.
func (m GameModel) handleSubmission(msg SubmissionMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil // The run was restarted meanwhile
	}
	rep, ok := m.game.(registry.Reporter)
	if !ok {
		return m, nil
	}

	if msg.Err != nil {
		m.logger.Warn("run not submitted", "player", m.player.Name, "err", msg.Err)
	} else {
		m.logger.Debug("run submitted",
			"player", m.player.Name,
			"rank", msg.Submission.Rank,
			"personal_best", msg.Submission.PersonalBest,
		)
	}
	rep.ShowSubmission(msg.Submission, msg.Err)
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".bullethell", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// BackToMenu returns true if the player asked to leave the game.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Run starts a Bubble Tea program for game and blocks until it exits.
// backToMenu reports whether the player left with the back key rather than quitting.
func Run(game registry.Game, reporter core.RunReporter, player core.Player, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewGameModel(game, reporter, player, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
