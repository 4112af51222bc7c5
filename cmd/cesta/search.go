package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ncardoz/cesta/internal/cli"
	"github.com/ncardoz/cesta/pkg/catalog"
	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the marketplace catalog",
	Long: `Filters the catalog by text query, category, brand, price range,
minimum rating and stock availability. All given criteria must match.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := cli.NewSignalContext(context.Background())
		defer stop()

		_, source := newStore(cfg, logger)
		products, err := source.Products(ctx)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		criteria := criteriaFromFlags(cmd)
		results := catalog.Filter(products, criteria)

		if len(results) == 0 {
			fmt.Println("No products matched.")
			return
		}
		for _, p := range results {
			line := fmt.Sprintf("%s  %s", p.ID, p.Name)
			if p.Price != nil {
				line += fmt.Sprintf("  %.2f %s", *p.Price, p.Currency)
			}
			if p.InStock() {
				line += fmt.Sprintf("  (stock: %d)", p.Stock)
			} else {
				line += "  (out of stock)"
			}
			fmt.Println(line)
		}
	},
}

func criteriaFromFlags(cmd *cobra.Command) catalog.Criteria {
	var c catalog.Criteria
	c.Query, _ = cmd.Flags().GetString("query")
	c.Category, _ = cmd.Flags().GetString("category")
	c.Brand, _ = cmd.Flags().GetString("brand")

	if cmd.Flags().Changed("min-price") {
		v, _ := cmd.Flags().GetFloat64("min-price")
		c.MinPrice = &v
	}
	if cmd.Flags().Changed("max-price") {
		v, _ := cmd.Flags().GetFloat64("max-price")
		c.MaxPrice = &v
	}
	if cmd.Flags().Changed("min-rating") {
		v, _ := cmd.Flags().GetFloat64("min-rating")
		c.MinRating = &v
	}
	if cmd.Flags().Changed("in-stock") {
		v, _ := cmd.Flags().GetBool("in-stock")
		c.InStock = &v
	}
	return c
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "Text to match against name, description and tags")
	searchCmd.Flags().String("category", "", "Exact category (case-insensitive)")
	searchCmd.Flags().String("brand", "", "Exact brand (case-insensitive)")
	searchCmd.Flags().Float64("min-price", 0, "Minimum price")
	searchCmd.Flags().Float64("max-price", 0, "Maximum price")
	searchCmd.Flags().Float64("min-rating", 0, "Minimum average rating")
	searchCmd.Flags().Bool("in-stock", false, "Filter by stock availability")
}
