package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/games/bullethell"
	"github.com/vovakirdan/tui-bullethell/internal/platform/tui"
	"github.com/vovakirdan/tui-bullethell/internal/prefs"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

var (
	flagConfig     string
	flagPreset     string
	flagDifficulty string
	flagDensity    string
	flagPattern    string
	flagHP         int
	flagName       string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing practice (default) or ranked.

Ranked runs are submitted to the leaderboard when the game ends and need a
player name (--name, or the one remembered by the menu).

Controls:
  Arrows/WASD/HJKL - Move
  C                - Clear the field (practice only)
  P/Space          - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit

Ramp presets (--preset):
  easy   - Start at the lowest rate, ramps up to max
  normal - Start at 30% of the ramp
  hard   - Start at 70% of the ramp
  fixed  - No ramp, stays at the config's initial level

Examples:
  bullethell play
  bullethell play ranked --name alice
  bullethell play --difficulty lunatic --density extreme --pattern spiral
  bullethell play --hp 1 --preset hard
  bullethell play --config ./my-bullethell.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Ramp preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: "+strings.Join(config.Difficulties(), ", "))
	playCmd.Flags().StringVar(&flagDensity, "density", "", "Bullet density: "+strings.Join(config.Densities(), ", "))
	playCmd.Flags().StringVar(&flagPattern, "pattern", "", "Bullet pattern: "+strings.Join(config.Patterns(), ", "))
	playCmd.Flags().IntVar(&flagHP, "hp", 0, fmt.Sprintf("Hit points, 1-%d", config.MaxHPLimit))
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name for ranked runs")
}

func runPlay(_ *cobra.Command, args []string) {
	mode := bullethell.ModePractice
	if len(args) > 0 {
		mode = args[0]
	}

	// Check if mode exists
	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'bullethell list' to see available modes.")
		os.Exit(1)
	}

	saved := loadPreferences()
	settings, err := settingsFromFlags(saved.Settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	player := core.Player{Name: saved.PlayerName, DeviceType: core.DeviceTerminal}
	if flagName != "" {
		player.Name = flagName
	}

	bullethell.SetConfigPath(flagConfig)
	bullethell.SetDifficultyPreset(flagPreset)

	game, err := registry.Create(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	if rep, ok := game.(registry.Reporter); ok && rep.Ranked() {
		name, nameErr := core.NormalizePlayerName(player.Name)
		if nameErr != nil {
			fmt.Fprintf(os.Stderr, "Error: ranked play needs a player name (--name): %v\n", nameErr)
			os.Exit(1)
		}
		player.Name = name
	}
	if c, ok := game.(registry.Configurable); ok {
		c.Configure(settings)
	}

	board := openLeaderboard()

	_, runErr := tui.Run(game, board.reporter(), player, runtimeConfig())

	// Close store before potential exit
	board.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// settingsFromFlags overrides base with the settings flags that were given.
func settingsFromFlags(base config.Settings) (config.Settings, error) {
	s := base
	if flagDifficulty != "" {
		if !slices.Contains(config.Difficulties(), flagDifficulty) {
			return s, fmt.Errorf("unknown difficulty %q (choose %s)", flagDifficulty, strings.Join(config.Difficulties(), ", "))
		}
		s.Difficulty = flagDifficulty
	}
	if flagDensity != "" {
		if !slices.Contains(config.Densities(), flagDensity) {
			return s, fmt.Errorf("unknown density %q (choose %s)", flagDensity, strings.Join(config.Densities(), ", "))
		}
		s.Density = flagDensity
	}
	if flagPattern != "" {
		if !slices.Contains(config.Patterns(), flagPattern) {
			return s, fmt.Errorf("unknown pattern %q (choose %s)", flagPattern, strings.Join(config.Patterns(), ", "))
		}
		s.Pattern = flagPattern
	}
	if flagHP != 0 {
		if flagHP < 1 || flagHP > config.MaxHPLimit {
			return s, fmt.Errorf("--hp must be between 1 and %d", config.MaxHPLimit)
		}
		s.MaxHP = flagHP
	}
	return s, nil
}

// loadPreferences returns the preferences saved by the menu, or defaults.
func loadPreferences() prefs.Preferences {
	m, err := prefs.Open(prefs.AppName)
	if err != nil {
		log.Debug("preferences unavailable", "err", err)
	}
	return m.Load()
}
