package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ncardoz/cesta/internal/cli"
	"github.com/ncardoz/cesta/internal/conversation"
	"github.com/ncardoz/cesta/internal/tui"
	"github.com/ncardoz/cesta/pkg/registry"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive shopping assistant",
	Long: `Starts a terminal conversation with the assistant. Messages are
classified into intents and answered with canned responses or catalog
searches. Type 'adiós', 'salir', 'exit' or 'quit' to end the session.

Without an OpenAI API key the assistant falls back to keyword handling:
'search <query>' runs a catalog search and anything else is echoed back.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadApp(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := cli.NewSignalContext(context.Background())
		defer stop()

		_, catalog := newStore(cfg, logger)
		products, err := catalog.Products(ctx)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		reg := registry.New(registry.WithLogger(logger))
		reg.Register(registry.CatalogSearchName, registry.NewCatalogSearch(products))

		opts := []conversation.Option{conversation.WithLogger(logger)}
		client, err := newCapabilities(cfg, logger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if client != nil {
			opts = append(opts, conversation.WithClassifier(client))
		}

		controller, err := conversation.New(reg, opts...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()

		session := &cli.ChatSession{
			Controller: controller,
			In:         os.Stdin,
			Out:        os.Stdout,
			Render:     tui.NewRenderer(),
		}
		if err := session.Run(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
