package bullethell

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-bullethell/internal/bullets"
	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

// newQuietGame returns a reset game whose emitter never fires.
func newQuietGame(t *testing.T, mode string) *Game {
	t.Helper()
	g := New(mode)
	g.Reset(testRuntime(1))
	g.emitter = NewEmitter(1, g.cfg.Patterns, config.PatternRandom, 1, 0)
	g.invincible = 0
	return g
}

func TestNewModes(t *testing.T) {
	if g := New(ModeRanked); g.ID() != "ranked" || g.Title() != "Ranked" || !g.Ranked() {
		t.Errorf("ranked game: id=%q title=%q", g.ID(), g.Title())
	}
	if g := New("unknown"); g.ID() != ModePractice || g.Ranked() {
		t.Errorf("unknown mode should fall back to practice, got %q", g.ID())
	}
}

func TestGameDeterminism(t *testing.T) {
	cfg := testRuntime(12345)

	// Sweep left and right so the emitter aims at a moving target
	inputs := make([]core.InputFrame, 600)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch (i / 90) % 2 {
		case 0:
			inputs[i].Set(core.ActionLeft)
		default:
			inputs[i].Set(core.ActionRight)
		}
	}

	run := func() (*Game, bullets.Frame) {
		g := New(ModePractice)
		g.Reset(cfg)
		for _, in := range inputs {
			if g.Step(in).State.GameOver {
				break
			}
		}
		var f bullets.Frame
		g.engine.CopyTo(&f)
		return g, f
	}

	g1, f1 := run()
	g2, f2 := run()

	if g1.State() != g2.State() || g1.hp != g2.hp || g1.ticks != g2.ticks {
		t.Errorf("Determinism failed: %+v hp=%d vs %+v hp=%d", g1.State(), g1.hp, g2.State(), g2.hp)
	}
	if g1.playerX != g2.playerX || g1.playerY != g2.playerY {
		t.Error("Determinism failed: player positions differ")
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Error("Determinism failed: bullet fields differ")
	}
}

func TestGameReset(t *testing.T) {
	g := New(ModePractice)
	g.Reset(testRuntime(42))

	for i := 0; i < 120; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.ticks == 0 {
		t.Fatal("game did not advance")
	}

	eng := g.engine
	g.Reset(testRuntime(42))

	if g.ticks != 0 || g.State().Score != 0 || g.State().GameOver {
		t.Errorf("after reset: ticks=%d state=%+v", g.ticks, g.State())
	}
	if g.hp != g.settings.MaxHP {
		t.Errorf("hp = %d, expected %d", g.hp, g.settings.MaxHP)
	}
	if g.engine != eng {
		t.Error("reset with the same screen should reuse the engine")
	}
	if g.engine.LiveCount() != 0 {
		t.Errorf("reset should clear bullets, %d live", g.engine.LiveCount())
	}

	resized := testRuntime(42)
	resized.ScreenW = 100
	g.Reset(resized)
	if g.engine == eng {
		t.Error("reset with a new screen size should rebuild the engine")
	}
	if w, h := g.engine.Viewport(); w != 100*8 || h != 23*16 {
		t.Errorf("viewport = %vx%v, expected 800x368", w, h)
	}
}

func TestGameConfigure(t *testing.T) {
	tests := []struct {
		name string
		in   config.Settings
		want config.Settings
	}{
		{
			name: "valid selection",
			in:   config.Settings{Difficulty: "lunatic", Density: "low", Pattern: config.PatternSpiral, MaxHP: 1},
			want: config.Settings{Difficulty: "lunatic", Density: "low", Pattern: config.PatternSpiral, MaxHP: 1},
		},
		{
			name: "unknown names fall back",
			in:   config.Settings{Difficulty: "nightmare", Density: "dense", Pattern: "wave", MaxHP: 50},
			want: config.Settings{Difficulty: "normal", Density: "medium", Pattern: config.PatternMixed, MaxHP: config.MaxHPLimit},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var _ registry.Configurable = (*Game)(nil)

			g := New(ModeRanked)
			g.Configure(tc.in)
			g.Reset(testRuntime(3))

			if g.settings != tc.want {
				t.Errorf("settings = %+v, expected %+v", g.settings, tc.want)
			}
			if g.hp != tc.want.MaxHP {
				t.Errorf("hp = %d, expected %d", g.hp, tc.want.MaxHP)
			}
		})
	}
}

func TestGameScoreIsSurvivalMillis(t *testing.T) {
	g := newQuietGame(t, ModePractice)
	for i := 0; i < 90; i++ {
		g.Step(core.NewInputFrame())
	}
	if got := g.State().Score; got < 1499 || got > 1500 {
		t.Errorf("score after 90 ticks = %d, expected 1500ms", got)
	}
}

func TestGameMovementHold(t *testing.T) {
	g := newQuietGame(t, ModePractice)
	startX := g.playerX

	in := core.NewInputFrame()
	in.Set(core.ActionRight)
	g.Step(in)
	afterPress := g.playerX
	if afterPress <= startX {
		t.Fatalf("player should move right, x %v -> %v", startX, afterPress)
	}

	// The press keeps moving the ship for hold_seconds
	g.Step(core.NewInputFrame())
	if g.playerX <= afterPress {
		t.Error("player should keep moving while the hold timer runs")
	}

	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	stopped := g.playerX
	g.Step(core.NewInputFrame())
	if g.playerX != stopped {
		t.Error("player should stop once the hold timer expires")
	}
}

func TestGameMovementClamped(t *testing.T) {
	g := newQuietGame(t, ModePractice)

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	in.Set(core.ActionLeft)
	for i := 0; i < 600; i++ {
		g.Step(in)
	}

	r := float32(g.cfg.Player.Radius)
	if g.playerX != r || g.playerY != r {
		t.Errorf("player = (%v, %v), expected clamp to (%v, %v)", g.playerX, g.playerY, r, r)
	}
}

func TestGameHitAndInvincibility(t *testing.T) {
	g := newQuietGame(t, ModePractice)
	g.engine.SpawnBullet(g.playerX, g.playerY, 0, 0, 3, 0xFF3333FF)

	g.Step(core.NewInputFrame())
	if g.hp != 2 {
		t.Fatalf("hp after hit = %d, expected 2", g.hp)
	}
	if g.invincible <= 0 {
		t.Fatal("hit should grant invincibility")
	}

	// Sitting on the bullet: no damage until invincibility ends, then one more hit
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.hp != 2 {
		t.Errorf("hp during invincibility = %d, expected 2", g.hp)
	}
	for i := 0; i < 40; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.hp != 1 {
		t.Errorf("hp after invincibility = %d, expected 1", g.hp)
	}
}

func TestGameOver(t *testing.T) {
	g := newQuietGame(t, ModeRanked)
	g.hp = 1

	if _, ok := g.RunResult(); ok {
		t.Error("RunResult should not be ready before game over")
	}

	g.engine.SpawnBullet(g.playerX, g.playerY, 0, 0, 3, 0xFF3333FF)
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}

	if !g.State().GameOver {
		t.Fatal("expected game over")
	}
	if g.ticks != 1 {
		t.Errorf("simulation should stop at game over, ticks = %d", g.ticks)
	}

	run, ok := g.RunResult()
	if !ok {
		t.Fatal("RunResult should be ready after game over")
	}
	want := core.RunResult{
		SurvivalTime: g.SurvivalTime(),
		Difficulty:   "normal",
		Density:      "medium",
		Pattern:      config.PatternMixed,
		MaxHP:        3,
		Frames:       1,
	}
	if run != want {
		t.Errorf("RunResult() = %+v, expected %+v", run, want)
	}
}

func TestClearKeyPracticeOnly(t *testing.T) {
	bomb := core.NewInputFrame()
	bomb.Set(core.ActionBomb)

	practice := newQuietGame(t, ModePractice)
	practice.engine.SpawnBullet(10, 10, 0, 0, 3, 0xFF3333FF)
	practice.Step(bomb)
	if practice.engine.LiveCount() != 0 {
		t.Errorf("practice clear left %d bullets", practice.engine.LiveCount())
	}

	ranked := newQuietGame(t, ModeRanked)
	ranked.engine.SpawnBullet(10, 10, 0, 0, 3, 0xFF3333FF)
	ranked.Step(bomb)
	if ranked.engine.LiveCount() != 1 {
		t.Errorf("ranked mode should ignore the clear key, %d live", ranked.engine.LiveCount())
	}
}

func TestGamePause(t *testing.T) {
	g := newQuietGame(t, ModePractice)
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)

	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	frames := g.engine.FrameCount()
	g.Step(core.NewInputFrame())
	if g.engine.FrameCount() != frames || g.ticks != 0 {
		t.Error("paused game should not simulate")
	}

	g.Step(pause)
	if g.State().Paused || g.ticks != 1 {
		t.Errorf("unpause should resume: paused=%v ticks=%d", g.State().Paused, g.ticks)
	}
}

func TestRenderBulletsAndHUD(t *testing.T) {
	g := newQuietGame(t, ModePractice)
	g.engine.SpawnBullet(4*8+1, 2*16+1, 0, 0, 3, uint32(core.ColorOrange))
	g.engine.SpawnBullet(10*8+1, 5*16+1, 0, 0, 5, uint32(core.ColorCyan))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if c := screen.GetCell(4, 3); c.Rune != SmallBulletChar || c.Color != core.ColorOrange {
		t.Errorf("small bullet cell = %+v", c)
	}
	if c := screen.GetCell(10, 6); c.Rune != LargeBulletChar || c.Color != core.ColorCyan {
		t.Errorf("large bullet cell = %+v", c)
	}

	col := int(g.playerX / 8)
	row := int(g.playerY/16) + 1
	if c := screen.GetCell(col, row); c.Rune != PlayerChar {
		t.Errorf("player cell (%d, %d) = %+v", col, row, c)
	}

	hud := screen.Row(0)
	if !strings.Contains(hud, "PRACTICE") || !strings.Contains(hud, "2/4096") {
		t.Errorf("HUD = %q", hud)
	}
}

func TestRenderGameOverSubmission(t *testing.T) {
	g := newQuietGame(t, ModeRanked)
	g.gameOver = true

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Submitting score...") {
		t.Error("ranked game over should show a pending submission")
	}

	g.ShowSubmission(core.Submission{Rank: 2, HasRank: true, PersonalBest: true}, nil)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Rank #2") || !strings.Contains(out, "New personal best!") {
		t.Errorf("game over screen missing rank:\n%s", out)
	}

	g.submission = nil
	g.ShowSubmission(core.Submission{}, errors.New("offline"))
	g.Render(screen)
	if !strings.Contains(screen.String(), "Score not submitted") {
		t.Error("failed submission should be reported")
	}
}
