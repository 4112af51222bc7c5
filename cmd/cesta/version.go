package main

import (
	"fmt"
	"strings"

	"github.com/ncardoz/cesta"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cesta",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cesta version %s\n", strings.TrimSpace(cesta.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
