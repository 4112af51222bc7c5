package cesta

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ncardoz/cesta/internal/conversation"
	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/internal/pipeline"
	"github.com/ncardoz/cesta/pkg/adapters/jsonfile"
	"github.com/ncardoz/cesta/pkg/catalog"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
	"github.com/ncardoz/cesta/pkg/registry"
)

// App is the high-level entry point for the cesta library. It wraps the
// internal engines and provides a simplified API for consumers.
type App struct {
	catalog    ports.CatalogSource
	signals    ports.SignalSource
	classifier ports.Classifier
	analyzer   ports.SignalAnalyzer
	advisor    ports.Advisor
	hooks      domain.LifecycleHooks
	logger     *slog.Logger

	pipeline *pipeline.Pipeline
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithCatalogSource injects a custom catalog backend, bypassing the
// default JSON file store.
func WithCatalogSource(src ports.CatalogSource) Option {
	return func(a *App) {
		a.catalog = src
	}
}

// WithSignalSource injects a custom interest-signal backend.
func WithSignalSource(src ports.SignalSource) Option {
	return func(a *App) {
		a.signals = src
	}
}

// WithClassifier sets the intent classifier for conversations. Without
// one, conversations run on keyword fallbacks.
func WithClassifier(c ports.Classifier) Option {
	return func(a *App) {
		a.classifier = c
	}
}

// WithAnalyzer sets the save-caption analyzer for the batch pipeline.
func WithAnalyzer(an ports.SignalAnalyzer) Option {
	return func(a *App) {
		a.analyzer = an
	}
}

// WithAdvisor sets the purchase advisor for the batch pipeline.
func WithAdvisor(ad ports.Advisor) Option {
	return func(a *App) {
		a.advisor = ad
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New initializes the App. By default data is read from JSON files under
// dataDir; if both WithCatalogSource and WithSignalSource are provided,
// dataDir can be empty.
func New(dataDir string, opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.catalog == nil || app.signals == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir is required when no custom sources are provided")
		}
		store := jsonfile.New(dataDir)
		if app.catalog == nil {
			app.catalog = store
		}
		if app.signals == nil {
			app.signals = store
		}
	}

	if app.logger == nil {
		app.logger = logging.NewNop()
	}

	p, err := pipeline.New(pipeline.Config{
		Catalog:  app.catalog,
		Signals:  app.signals,
		Analyzer: app.analyzer,
		Advisor:  app.advisor,
		Logger:   app.logger,
		Hooks:    app.hooks,
	})
	if err != nil {
		return nil, err
	}
	app.pipeline = p

	return app, nil
}

// PlanResult is the outcome of a batch planning run.
type PlanResult struct {
	Plan          *domain.ShoppingPlan
	Wishlist      []domain.InterestItem
	SearchResults []map[string]any
}

// Plan runs the batch pipeline: load signals, match against the catalog
// and build a budget-aware plan. A nil budget means no ceiling. When
// searchCriteria is non-empty a catalog search runs after planning and
// its rows land in PlanResult.SearchResults.
func (a *App) Plan(ctx context.Context, budget *float64, searchCriteria map[string]any) (PlanResult, error) {
	final, err := a.pipeline.Run(ctx, budget, searchCriteria)
	if err != nil {
		return PlanResult{}, err
	}
	return PlanResult{
		Plan:          final.Plan,
		Wishlist:      final.Wishlist,
		SearchResults: final.SearchResults,
	}, nil
}

// Search filters the catalog. All given criteria must match.
func (a *App) Search(ctx context.Context, c catalog.Criteria) ([]domain.Product, error) {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(products, c), nil
}

// Conversation is an interactive assistant session over the catalog.
type Conversation struct {
	ctrl *conversation.Controller
}

// NewConversation builds a fresh session. The catalog is loaded once at
// session start.
func (a *App) NewConversation(ctx context.Context) (*Conversation, error) {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	reg := registry.New(
		registry.WithLogger(a.logger),
		registry.WithLifecycleHooks(a.hooks),
	)
	reg.Register(registry.CatalogSearchName, registry.NewCatalogSearch(products))

	opts := []conversation.Option{conversation.WithLogger(a.logger)}
	if a.classifier != nil {
		opts = append(opts, conversation.WithClassifier(a.classifier))
	}

	ctrl, err := conversation.New(reg, opts...)
	if err != nil {
		return nil, err
	}
	return &Conversation{ctrl: ctrl}, nil
}

// HandleInput processes one user turn and returns the agent's reply.
// After the session ends it returns domain.ErrSessionEnded.
func (c *Conversation) HandleInput(ctx context.Context, input string) (string, error) {
	return c.ctrl.HandleInput(ctx, input)
}

// Ended reports whether the session has terminated.
func (c *Conversation) Ended() bool {
	return c.ctrl.Ended()
}

// History returns the recorded non-terminal turns, oldest first.
func (c *Conversation) History() []domain.Turn {
	return c.ctrl.History()
}
