// bullethell is a terminal bullet hell: dodge aimed shots, rings and
// spirals for as long as you can.
//
// Usage:
//
//	bullethell list              - List modes, difficulties, densities and patterns
//	bullethell play [mode]       - Play practice (default) or ranked
//	bullethell menu              - Start the settings menu
//	bullethell serve             - Start SSH server for remote play
//	bullethell scores            - Show the leaderboard or a player's history
//	bullethell bench             - Stress the bullet engine without a terminal
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.bullethell/scores.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/platform/tui"
	"github.com/vovakirdan/tui-bullethell/internal/storage"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-bullethell/internal/games/bullethell"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bullethell",
	Short: "Bullet Hell - survive the bullet storm in your terminal",
	Long: `Bullet Hell is a terminal survival game built on a fixed-capacity
bullet engine. Practice freely or submit ranked runs to the leaderboard.

Available commands:
  list     - Show modes and setting choices
  play     - Play a mode directly
  menu     - Interactive settings menu
  serve    - Start SSH server for remote play
  scores   - View the leaderboard
  bench    - Engine stress run

Examples:
  bullethell play
  bullethell play ranked --name alice --difficulty hard
  bullethell menu
  bullethell serve --ssh :2222
  bullethell scores --difficulty lunatic`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bullethell/scores.db", "Path to leaderboard database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (default: stderr)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(benchCmd)
}

// setupLogging installs the default logger used by every package.
func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
	}

	log.SetDefault(log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "bullethell",
		Level:           level,
	}))
	return nil
}

// runtimeConfig builds the runtime config from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// leaderboard opens the store for interactive commands. Without a database
// the game still works, so failures only warn.
type leaderboard struct {
	store *storage.Store
}

func openLeaderboard() leaderboard {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open leaderboard database, runs will not be recorded", "err", err)
		return leaderboard{}
	}
	return leaderboard{store: store}
}

// reporter returns the store as a RunReporter, or nil without a database.
func (l leaderboard) reporter() core.RunReporter {
	if l.store == nil {
		return nil
	}
	return l.store
}

// source returns the store as a LeaderboardSource, or nil without a database.
func (l leaderboard) source() tui.LeaderboardSource {
	if l.store == nil {
		return nil
	}
	return l.store
}

func (l leaderboard) Close() {
	if l.store == nil {
		return
	}
	if err := l.store.Close(); err != nil {
		log.Warn("could not close leaderboard database", "err", err)
	}
}
