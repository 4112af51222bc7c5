package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ncardoz/cesta/internal/cli"
	"github.com/ncardoz/cesta/internal/tui"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/spf13/cobra"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a shopping plan from your saved signals",
	Long: `Runs the batch pipeline: loads the catalog and the interest signals
(social saves and abandoned cart items), matches them against the catalog
and produces a budget-aware shopping plan.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := cli.NewSignalContext(context.Background())
		defer stop()

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

		budget, err := resolveBudget(cmd, cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var criteria map[string]any
		if query, _ := cmd.Flags().GetString("query"); query != "" {
			criteria = map[string]any{"query": query}
		}

		final, err := p.Run(ctx, budget, criteria)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		fmt.Print(render(cli.RenderPlanMarkdown(final)))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringP("budget", "b", "", "Budget ceiling for the plan (empty means no ceiling)")
	planCmd.Flags().StringP("query", "q", "", "Also run a catalog search with this query")
}
