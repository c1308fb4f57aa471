package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tower-run/internal/registry"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List all available drivers",
	Long:  `Shows every driver that can move a vehicle along the generated track.`,
	Run:   runDrivers,
}

func runDrivers(_ *cobra.Command, _ []string) {
	drivers := registry.List()

	if len(drivers) == 0 {
		fmt.Println("No drivers available.")
		return
	}

	fmt.Println("Available drivers:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, d := range drivers {
		maxIDLen = max(maxIDLen, len(d.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, d := range drivers {
		fmt.Printf("  %-*s  %s\n", maxIDLen, d.ID, d.Title)
	}

	fmt.Println()
	fmt.Println("Run 'towerrun preview <id>' to watch a track.")
}
