package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ncardoz/cesta/internal/cli"
	"github.com/ncardoz/cesta/internal/config"
	"github.com/ncardoz/cesta/internal/pipeline"
	"github.com/ncardoz/cesta/pkg/adapters/jsonfile"
	"github.com/ncardoz/cesta/pkg/adapters/openai"
	"github.com/ncardoz/cesta/pkg/adapters/rediscache"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
	"github.com/spf13/cobra"
)

// loadApp resolves the configuration from the persistent flags and builds
// the logger every command shares.
func loadApp(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}

	return cfg, cli.NewLogger(level), nil
}

// newStore builds the JSON file store and, when Redis is configured, wraps
// it in the read-through catalog cache. The store is returned separately
// because it also serves as the signal source.
func newStore(cfg config.Config, logger *slog.Logger) (*jsonfile.Store, ports.CatalogSource) {
	store := jsonfile.New(cfg.DataDir)
	if !cfg.Redis.Enabled() {
		return store, store
	}

	opts := []rediscache.Option{rediscache.WithLogger(logger)}
	if cfg.Redis.TTL != "" {
		if ttl, err := time.ParseDuration(cfg.Redis.TTL); err == nil {
			opts = append(opts, rediscache.WithTTL(ttl))
		} else {
			logger.Warn("ignoring invalid redis ttl", "ttl", cfg.Redis.TTL, "error", err)
		}
	}

	cache := rediscache.New(store, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	return store, cache
}

// newCapabilities builds the OpenAI-backed capability client, or returns
// nil when no API key is configured. Every caller treats nil as "run
// without LLM refinement".
func newCapabilities(cfg config.Config, logger *slog.Logger) (*openai.Client, error) {
	if !cfg.OpenAI.Configured() {
		logger.Info("no API key configured, LLM capabilities disabled")
		return nil, nil
	}

	opts := []openai.Option{openai.WithLogger(logger)}
	if cfg.OpenAI.Model != "" {
		opts = append(opts, openai.WithModel(cfg.OpenAI.Model))
	}

	client, err := openai.NewWithConfig(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("building capability client: %w", err)
	}
	return client, nil
}

// newPipeline wires the batch planning graph. A nil client leaves the
// capability ports unset so the degraded paths engage.
func newPipeline(catalog ports.CatalogSource, signals ports.SignalSource, client *openai.Client, logger *slog.Logger, hooks domain.LifecycleHooks) (*pipeline.Pipeline, error) {
	pcfg := pipeline.Config{
		Catalog: catalog,
		Signals: signals,
		Logger:  logger,
		Hooks:   hooks,
	}
	if client != nil {
		pcfg.Analyzer = client
		pcfg.Advisor = client
	}
	return pipeline.New(pcfg)
}

// resolveBudget picks the budget for a planning run: the --budget flag
// wins, then the configured default, then no ceiling.
func resolveBudget(cmd *cobra.Command, cfg config.Config) (*float64, error) {
	if cmd.Flags().Changed("budget") {
		raw, _ := cmd.Flags().GetString("budget")
		return config.ParseBudget(raw)
	}
	if cfg.BudgetSet {
		b := cfg.Budget
		return &b, nil
	}
	return nil, nil
}
