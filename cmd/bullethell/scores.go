package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/storage"
)

var (
	flagScoresDifficulty string
	flagScoresDevice     string
	flagScoresPlayer     string
	flagScoresLimit      int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best run of each player for one difficulty and device
type, or the run history and statistics of one player.

Examples:
  bullethell scores
  bullethell scores --difficulty lunatic --device ssh
  bullethell scores --player alice`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "normal", "Difficulty: "+strings.Join(config.Difficulties(), ", "))
	scoresCmd.Flags().StringVar(&flagScoresDevice, "device", core.DeviceTerminal, "Device type: terminal, ssh")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show one player's runs and stats instead")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Maximum rows to show")
}

func runScores(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening leaderboard database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresPlayer != "" {
		err = printPlayer(cmd.Context(), store, flagScoresPlayer)
	} else {
		err = printLeaderboard(cmd.Context(), store)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printLeaderboard(ctx context.Context, store *storage.Store) error {
	if !slices.Contains(config.Difficulties(), flagScoresDifficulty) {
		return fmt.Errorf("unknown difficulty %q", flagScoresDifficulty)
	}
	if flagScoresDevice != core.DeviceTerminal && flagScoresDevice != core.DeviceSSH {
		return fmt.Errorf("unknown device type %q", flagScoresDevice)
	}

	entries, err := store.Leaderboard(ctx, flagScoresDifficulty, flagScoresDevice, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving leaderboard: %w", err)
	}

	fmt.Printf("Leaderboard - %s (%s)\n", flagScoresDifficulty, flagScoresDevice)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bullethell play ranked --difficulty %s' to set the first time!\n", flagScoresDifficulty)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-*s  %9s  %-16s  %s\n", "Rank", core.MaxPlayerName, "Player", "Time", "Density/Pattern", "Date")
	fmt.Printf("  %-4s  %-*s  %9s  %-16s  %s\n", "----", core.MaxPlayerName, "------", "----", "---------------", "----")

	for _, e := range entries {
		fmt.Printf("  %-4d  %-*s  %8.2fs  %-16s  %s\n",
			e.Rank, core.MaxPlayerName, e.Username, e.SurvivalTime,
			e.Density+"/"+e.Pattern, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printPlayer(ctx context.Context, store *storage.Store, username string) error {
	stats, err := store.PlayerStats(ctx, username)
	if errors.Is(err, storage.ErrPlayerNotFound) {
		fmt.Printf("No runs recorded for %q.\n", username)
		return nil
	}
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	runs, err := store.PlayerRuns(ctx, username, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Printf("Runs - %s\n", stats.Username)
	fmt.Println()

	// Print header
	fmt.Printf("  %9s  %-10s  %-16s  %-2s  %-8s  %s\n", "Time", "Difficulty", "Density/Pattern", "HP", "Device", "Date")
	fmt.Printf("  %9s  %-10s  %-16s  %-2s  %-8s  %s\n", "----", "----------", "---------------", "--", "------", "----")

	for _, r := range runs {
		fmt.Printf("  %8.2fs  %-10s  %-16s  %-2d  %-8s  %s\n",
			r.SurvivalTime, r.Difficulty, r.Density+"/"+r.Pattern, r.MaxHP, r.DeviceType,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Games: %d  Best: %.2fs  Average: %.2fs  Last played: %s\n",
		stats.TotalGames, stats.BestTime, stats.AverageTime, stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	return nil
}
