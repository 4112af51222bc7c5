package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ncardoz/cesta"
	mcpadapter "github.com/ncardoz/cesta/pkg/adapters/mcp"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts cesta as an MCP server over stdio, exposing catalog search and
plan building as tools for AI agents (like Claude Desktop).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		store, catalog := newStore(cfg, logger)
		client, err := newCapabilities(cfg, logger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		p, err := newPipeline(catalog, store, client, logger, domain.LifecycleHooks{})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout.
		log.SetOutput(os.Stderr)

		srv := mcpadapter.NewServer(catalog, p, cesta.Version, mcpadapter.WithLogger(logger))

		logger.Info("starting MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
