package bullethell

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-bullethell/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar      = '◆'
	SmallBulletChar = '•'
	LargeBulletChar = '●'
	HeartFull       = '♥'
	HeartEmpty      = '♡'

	largeBulletRadius = 4
	blinkTicks        = 6
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	hud := g.cfg.Engine.HUDRows
	g.drawBullets(dst, hud)
	g.drawPlayer(dst, hud)
	g.drawHUD(dst)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.gameOver {
		g.drawCenteredMessage(dst, g.gameOverLines()...)
	}
}

// drawBullets plots every live slot into its terminal cell.
func (g *Game) drawBullets(dst *core.Screen, hud int) {
	xs := g.engine.X().Slice()
	ys := g.engine.Y().Slice()
	rs := g.engine.Radii().Slice()
	cs := g.engine.Colors().Slice()
	alive := g.engine.Alive().Slice()

	for i, live := range alive {
		if !live {
			continue
		}
		col, row, ok := g.cell(xs[i], ys[i], hud)
		if !ok {
			continue
		}
		glyph := SmallBulletChar
		if rs[i] >= largeBulletRadius {
			glyph = LargeBulletChar
		}
		dst.SetColored(col, row, glyph, core.Color(cs[i]))
	}
}

func (g *Game) drawPlayer(dst *core.Screen, hud int) {
	if g.invincible > 0 && !g.gameOver && (g.ticks/blinkTicks)%2 == 1 {
		return
	}
	if col, row, ok := g.cell(g.playerX, g.playerY, hud); ok {
		dst.SetColored(col, row, PlayerChar, core.ColorGreen)
	}
}

// cell maps world coordinates to a screen cell below the HUD.
func (g *Game) cell(x, y float32, hud int) (col, row int, ok bool) {
	if x < 0 || y < 0 || x >= g.worldW || y >= g.worldH {
		return 0, 0, false
	}
	col = int(float64(x) / g.cfg.Engine.CellWidth)
	row = int(float64(y)/g.cfg.Engine.CellHeight) + hud
	return col, row, true
}

func (g *Game) drawHUD(dst *core.Screen) {
	if g.cfg.Engine.HUDRows <= 0 {
		return
	}

	x := 1
	text := fmt.Sprintf("%6.2fs ", g.SurvivalTime())
	dst.DrawTextColored(x, 0, text, core.ColorWhite)
	x += len([]rune(text))

	hearts := strings.Repeat(string(HeartFull), g.hp) + strings.Repeat(string(HeartEmpty), max(g.settings.MaxHP-g.hp, 0))
	heartColor := core.ColorRed
	if g.hp > 1 {
		heartColor = core.ColorYellow
	}
	dst.DrawTextColored(x, 0, hearts, heartColor)
	x += len([]rune(hearts)) + 1

	info := fmt.Sprintf(" %d/%d  f%d  %s/%s/%s  %s",
		g.engine.LiveCount(), g.engine.Capacity(), g.engine.FrameCount()-g.startFrame,
		g.settings.Difficulty, g.settings.Density, g.settings.Pattern, strings.ToUpper(g.mode))
	dst.DrawTextColored(x, 0, info, core.ColorGray)
}

func (g *Game) gameOverLines() []string {
	lines := []string{"GAME OVER", fmt.Sprintf("Survived %.2fs", g.SurvivalTime())}

	switch {
	case !g.Ranked():
		lines = append(lines, "Practice run, not ranked")
	case g.submitErr != nil:
		lines = append(lines, "Score not submitted")
	case g.submission == nil:
		lines = append(lines, "Submitting score...")
	default:
		if g.submission.HasRank {
			lines = append(lines, fmt.Sprintf("Rank #%d", g.submission.Rank))
		} else {
			lines = append(lines, "Score recorded")
		}
		if g.submission.PersonalBest {
			lines = append(lines, "New personal best!")
		}
	}

	return append(lines, "Press R to restart")
}

// drawCenteredMessage draws a message box in the center of the screen.
// The first line is the title and is separated from the rest by a blank row.
func (g *Game) drawCenteredMessage(dst *core.Screen, lines ...string) {
	if len(lines) == 0 {
		return
	}

	boxW := 0
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 3
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	y := boxY + 1
	for i, l := range lines {
		if i == 1 {
			y++
		}
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, y, l)
		y++
	}
}
