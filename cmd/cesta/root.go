package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cesta",
	Short: "Cesta is a shopping assistant orchestrator",
	Long: `Cesta ingests interest signals (social saves, abandoned carts), matches
them against a marketplace catalog and builds budget-aware shopping plans.
It also runs an interactive chat assistant over the same catalog.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "cesta.yaml", "Path to the configuration file (missing file uses defaults)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory with the JSON data files (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
