package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/games/bullethell"
	"github.com/vovakirdan/tui-bullethell/internal/platform/tui"
	"github.com/vovakirdan/tui-bullethell/internal/prefs"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the settings menu",
	Long: `Start in interactive menu mode.

Pick a mode, difficulty, bullet density, pattern and hit points, then start.
After a run, press B or Esc to return to the menu. The last selection and
player name are remembered.

Controls:
  Up/Down/j/k     - Move between rows
  Left/Right/h/l  - Change the value
  Enter/Space     - Start
  Tab             - Leaderboard
  N               - Change player name
  Q               - Quit

Examples:
  bullethell menu
  bullethell menu --fps 30
  bullethell menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagPreset, "preset", "", "Ramp preset: easy, normal, hard, fixed")
}

func runMenu(_ *cobra.Command, _ []string) {
	board := openLeaderboard()
	defer board.Close()

	settings, err := prefs.Open(prefs.AppName)
	if err != nil {
		log.Warn("preferences will not be saved", "err", err)
	}
	saved := settings.Load()

	bullethell.SetConfigPath(flagConfig)
	bullethell.SetDifficultyPreset(flagPreset)

	cfg := runtimeConfig()
	sel := tui.Selection{
		Mode:       saved.Mode,
		PlayerName: saved.PlayerName,
		Settings:   saved.Settings,
	}

	// Menu loop
	for {
		result, err := tui.RunSettings(sel, false, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = result.Config
		sel = result.Selection
		savePreferences(settings, sel)

		if result.Quit {
			break
		}

		if result.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(board.source(), sel.Settings.Difficulty, core.DeviceTerminal, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		game, err := registry.Create(sel.Mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if c, ok := game.(registry.Configurable); ok {
			c.Configure(sel.Settings)
		}

		player := core.Player{Name: sel.PlayerName, DeviceType: core.DeviceTerminal}
		backToMenu, runErr := tui.Run(game, board.reporter(), player, cfg)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		}
		if !backToMenu {
			break
		}
	}
}

func savePreferences(m *prefs.Manager, sel tui.Selection) {
	p := prefs.Preferences{
		PlayerName: sel.PlayerName,
		Mode:       sel.Mode,
		Settings:   sel.Settings,
	}
	if err := m.Save(p); err != nil {
		log.Warn("could not save preferences", "err", err)
	}
}
