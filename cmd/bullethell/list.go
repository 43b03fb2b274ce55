package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes and setting choices",
	Long:  `Shows the registered modes and the difficulties, densities and patterns a run can use.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, m := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, m.ID, m.Title)
	}

	cfg := config.DefaultBulletHellConfig()

	fmt.Println()
	fmt.Println("Difficulties (bullet speed):")
	for _, d := range config.Difficulties() {
		fmt.Printf("  %-8s  x%.1f\n", d, cfg.Difficulties[d])
	}

	fmt.Println()
	fmt.Println("Densities (shots per second):")
	for _, d := range config.Densities() {
		fmt.Printf("  %-8s  %.0f\n", d, cfg.Densities[d])
	}

	fmt.Println()
	fmt.Println("Patterns:")
	for _, p := range config.Patterns() {
		fmt.Printf("  %s\n", p)
	}

	fmt.Println()
	fmt.Println("Run 'bullethell play <id>' to play a mode.")
}
