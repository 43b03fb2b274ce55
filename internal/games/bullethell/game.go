// Package bullethell implements the bullet hell game on top of the bullet engine.
// The player dodges aimed shots, rings and spirals for as long as possible.
package bullethell

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/engine"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

// Game modes.
const (
	ModePractice = "practice"
	ModeRanked   = "ranked"
)

// Game implements the bullet hell game logic for one mode.
type Game struct {
	mode       string
	runtime    core.RuntimeConfig
	cfg        config.BulletHellConfig
	selection  config.Settings // As configured, before normalization
	settings   config.Settings // Effective for the current run
	difficulty *config.DifficultyManager
	engine     *engine.Engine
	emitter    *Emitter

	worldW, worldH float32
	dt             float32

	playerX, playerY float32
	dirX, dirY       float32 // Last pressed direction per axis
	holdX, holdY     float32 // Seconds of movement left per axis

	hp         int
	invincible float32 // Seconds of invincibility left
	ticks      int     // Simulated ticks since Reset
	startFrame uint64  // Engine frame count at Reset
	gameOver   bool
	paused     bool

	submission *core.Submission
	submitErr  error
}

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the ramp preset (easy, normal, hard, fixed).
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = "" // Use config default
	}
}

// New creates a game for the given mode.
func New(mode string) *Game {
	if mode != ModeRanked {
		mode = ModePractice
	}
	return &Game{mode: mode, selection: config.DefaultSettings()}
}

// Configure sets the difficulty, density, pattern and HP used from the next Reset.
// Unknown names fall back to defaults.
func (g *Game) Configure(s config.Settings) {
	g.selection = s
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	if g.mode == ModeRanked {
		return "Ranked"
	}
	return "Practice"
}

// Reset initializes or restarts the game.
// The engine is rebuilt only when the world size or capacity changed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.dt = runtime.DeltaTime()

	cfg, err := config.LoadBulletHell(configPath)
	if err != nil {
		log.Warn("using default config", "err", err)
		cfg = config.DefaultBulletHellConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.settings = g.selection.Normalize(cfg)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	rows := max(runtime.ScreenH-cfg.Engine.HUDRows, 1)
	g.worldW = float32(float64(max(runtime.ScreenW, 1)) * cfg.Engine.CellWidth)
	g.worldH = float32(float64(rows) * cfg.Engine.CellHeight)
	g.ensureEngine()

	g.emitter = NewEmitter(runtime.Seed, cfg.Patterns, g.settings.Pattern,
		cfg.Difficulties[g.settings.Difficulty], cfg.Densities[g.settings.Density])
	g.emitter.SetField(g.worldW, g.worldH)

	g.playerX = g.worldW / 2
	g.playerY = g.worldH * 3 / 4
	g.dirX, g.dirY = 0, 0
	g.holdX, g.holdY = 0, 0
	g.hp = g.settings.MaxHP
	g.invincible = float32(cfg.Player.InvincibleSeconds)
	g.ticks = 0
	g.startFrame = g.engine.FrameCount()
	g.gameOver = false
	g.paused = false
	g.submission = nil
	g.submitErr = nil
}

func (g *Game) ensureEngine() {
	capacity := g.cfg.Engine.MaxBullets
	if g.engine != nil && g.engine.Capacity() == capacity {
		if w, h := g.engine.Viewport(); w == g.worldW && h == g.worldH {
			g.engine.ClearBullets()
			return
		}
	}

	e, err := engine.New(capacity, g.worldW, g.worldH, engine.WithLogger(log.WithPrefix("engine")))
	if err != nil {
		// Validated configs never get here; fall back to the stock capacity.
		log.Error("engine rejected config", "err", err)
		e, _ = engine.New(config.DefaultBulletHellConfig().Engine.MaxBullets, g.worldW, g.worldH)
	}
	g.engine = e
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	dt := g.dt
	g.move(in, dt)

	if g.invincible > 0 {
		g.invincible = max(g.invincible-dt, 0)
	}

	elapsed := float64(g.ticks) * float64(dt)
	g.emitter.Update(g.engine, float64(dt), g.difficulty.RateScale(g.ticks), elapsed, g.playerX, g.playerY)

	if in.Has(core.ActionBomb) && g.mode == ModePractice {
		g.engine.ClearBullets()
	}

	g.engine.Update(dt)
	g.ticks++

	if g.invincible <= 0 && g.engine.CheckCollision(g.playerX, g.playerY, float32(g.cfg.Player.Radius)) {
		g.hp--
		if g.hp <= 0 {
			g.hp = 0
			g.gameOver = true
		} else {
			g.invincible = float32(g.cfg.Player.InvincibleSeconds)
		}
	}

	return core.StepResult{State: g.State()}
}

// move applies directional input. A press keeps the ship moving for
// hold_seconds since terminals report presses, not releases.
func (g *Game) move(in core.InputFrame, dt float32) {
	hold := float32(g.cfg.Player.HoldSeconds)

	if dx := axis(in, core.ActionLeft, core.ActionRight); dx != 0 {
		g.dirX, g.holdX = dx, hold
	}
	if dy := axis(in, core.ActionUp, core.ActionDown); dy != 0 {
		g.dirY, g.holdY = dy, hold
	}

	step := float32(g.cfg.Player.Speed) * dt
	if g.holdX > 0 {
		g.playerX += g.dirX * step
		g.holdX -= dt
	}
	if g.holdY > 0 {
		g.playerY += g.dirY * step
		g.holdY -= dt
	}

	r := float32(g.cfg.Player.Radius)
	g.playerX = core.Clamp(g.playerX, r, max(g.worldW-r, r))
	g.playerY = core.Clamp(g.playerY, r, max(g.worldH-r, r))
}

// axis returns -1, 0 or 1 for a pair of opposing actions.
func axis(in core.InputFrame, neg, pos core.Action) float32 {
	var d float32
	if in.Has(neg) {
		d--
	}
	if in.Has(pos) {
		d++
	}
	return d
}

// SurvivalTime returns the simulated seconds since Reset.
func (g *Game) SurvivalTime() float64 {
	return float64(g.ticks) * float64(g.dt)
}

// HP returns the remaining hit points.
func (g *Game) HP() int {
	return g.hp
}

// State returns the current game state. Score is survival time in milliseconds.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    int(g.SurvivalTime() * 1000),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// RunResult returns the finished run once the game is over.
func (g *Game) RunResult() (core.RunResult, bool) {
	if !g.gameOver {
		return core.RunResult{}, false
	}
	return core.RunResult{
		SurvivalTime: g.SurvivalTime(),
		Difficulty:   g.settings.Difficulty,
		Density:      g.settings.Density,
		Pattern:      g.settings.Pattern,
		MaxHP:        g.settings.MaxHP,
		Frames:       g.engine.FrameCount() - g.startFrame,
	}, true
}

// Ranked reports whether this mode submits runs to the leaderboard.
func (g *Game) Ranked() bool {
	return g.mode == ModeRanked
}

// ShowSubmission stores the leaderboard answer for the game over screen.
func (g *Game) ShowSubmission(sub core.Submission, err error) {
	if err != nil {
		g.submitErr = err
		return
	}
	g.submission = &sub
}

// Register both modes with the registry
func init() {
	registry.Register(ModePractice, func() registry.Game {
		return New(ModePractice)
	})
	registry.Register(ModeRanked, func() registry.Game {
		return New(ModeRanked)
	})
}
