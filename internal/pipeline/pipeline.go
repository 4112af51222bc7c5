// Package pipeline wires the batch shopping flow as a workflow graph:
// ingest catalog and interest signals, extract a wishlist, match it
// against the catalog, build a budget-constrained plan, and optionally
// run a follow-up catalog search.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/internal/matching"
	"github.com/ncardoz/cesta/internal/planning"
	"github.com/ncardoz/cesta/internal/signals"
	"github.com/ncardoz/cesta/internal/workflow"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
	"github.com/ncardoz/cesta/pkg/registry"
)

const (
	nodeLoadCatalog workflow.NodeID = "load_catalog"
	nodeLoadSignals workflow.NodeID = "load_signals"
	nodeExtract     workflow.NodeID = "extract_wishlist"
	nodeMatch       workflow.NodeID = "match_products"
	nodePlan        workflow.NodeID = "build_plan"
	nodeSearch      workflow.NodeID = "search_catalog"
)

// State is the shared session state threaded through the batch graph.
type State struct {
	Budget *float64

	Catalog   []domain.Product
	Saves     []ports.RawSave
	CartItems []ports.CartItem

	Wishlist []domain.InterestItem
	Enriched []domain.EnrichedItem
	Plan     *domain.ShoppingPlan

	// SearchCriteria, when present, routes the traversal through the
	// catalog search node after planning. Consumed criteria stay in place;
	// only SearchResults is overwritten per run.
	SearchCriteria map[string]any
	SearchResults  []map[string]any
}

// Clone returns a copy deep enough that node handlers can mutate it
// without touching the committed original.
func (s State) Clone() State {
	out := s
	out.Catalog = append([]domain.Product(nil), s.Catalog...)
	out.Saves = append([]ports.RawSave(nil), s.Saves...)
	out.CartItems = append([]ports.CartItem(nil), s.CartItems...)
	out.Wishlist = append([]domain.InterestItem(nil), s.Wishlist...)
	out.Enriched = append([]domain.EnrichedItem(nil), s.Enriched...)
	out.SearchResults = append([]map[string]any(nil), s.SearchResults...)
	if s.Plan != nil {
		plan := *s.Plan
		out.Plan = &plan
	}
	if s.SearchCriteria != nil {
		out.SearchCriteria = make(map[string]any, len(s.SearchCriteria))
		for k, v := range s.SearchCriteria {
			out.SearchCriteria[k] = v
		}
	}
	return out
}

// Config collects the pipeline's collaborators. Catalog and Signals are
// required; the capability ports are optional and their absence degrades
// the relevant node instead of failing the run.
type Config struct {
	Catalog  ports.CatalogSource
	Signals  ports.SignalSource
	Analyzer ports.SignalAnalyzer
	Advisor  ports.Advisor

	Logger *slog.Logger
	Hooks  domain.LifecycleHooks
}

// Pipeline is a compiled batch flow, reusable across runs.
type Pipeline struct {
	runner *workflow.Runner[State]
	logger *slog.Logger
}

// New builds and compiles the batch graph.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("pipeline: catalog source is required")
	}
	if cfg.Signals == nil {
		return nil, fmt.Errorf("pipeline: signal source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	extractor := signals.New(
		signals.WithAnalyzer(cfg.Analyzer),
		signals.WithLogger(logger),
	)
	matcher := matching.New(matching.WithLogger(logger))
	plannerOpts := []planning.Option{planning.WithLogger(logger)}
	if cfg.Advisor != nil {
		plannerOpts = append(plannerOpts, planning.WithAdvisor(cfg.Advisor))
	}
	planner := planning.New(plannerOpts...)

	g := workflow.New[State]()
	g.AddNode(nodeLoadCatalog, func(ctx context.Context, s State) (State, error) {
		products, err := cfg.Catalog.Products(ctx)
		if err != nil {
			return s, fmt.Errorf("loading catalog: %w", err)
		}
		s.Catalog = products
		return s, nil
	})
	g.AddNode(nodeLoadSignals, func(ctx context.Context, s State) (State, error) {
		saves, err := cfg.Signals.SocialSaves(ctx)
		if err != nil {
			return s, fmt.Errorf("loading social saves: %w", err)
		}
		carts, err := cfg.Signals.AbandonedCartItems(ctx)
		if err != nil {
			return s, fmt.Errorf("loading abandoned carts: %w", err)
		}
		s.Saves = saves
		s.CartItems = carts
		return s, nil
	})
	g.AddNode(nodeExtract, func(ctx context.Context, s State) (State, error) {
		s.Wishlist = extractor.Extract(ctx, s.Saves, s.CartItems)
		return s, nil
	})
	g.AddNode(nodeMatch, func(_ context.Context, s State) (State, error) {
		s.Enriched = matcher.Enrich(s.Catalog, s.Wishlist)
		return s, nil
	})
	g.AddNode(nodePlan, func(ctx context.Context, s State) (State, error) {
		plan := planner.BuildPlan(ctx, s.Enriched, s.Budget)
		s.Plan = &plan
		return s, nil
	})
	g.AddNode(nodeSearch, func(ctx context.Context, s State) (State, error) {
		search := registry.NewCatalogSearch(s.Catalog)
		results, err := search(ctx, s.SearchCriteria)
		if err != nil {
			results = registry.ErrorPayload(err)
		}
		s.SearchResults = results
		return s, nil
	})

	g.SetEntry(nodeLoadCatalog)
	g.AddEdge(nodeLoadCatalog, nodeLoadSignals)
	g.AddEdge(nodeLoadSignals, nodeExtract)
	g.AddEdge(nodeExtract, nodeMatch)
	g.AddEdge(nodeMatch, nodePlan)
	g.AddConditionalEdge(nodePlan, func(s State) string {
		if len(s.SearchCriteria) > 0 {
			return "search"
		}
		return "done"
	}, map[string]workflow.NodeID{
		"search": nodeSearch,
		"done":   workflow.End,
	})
	g.AddEdge(nodeSearch, workflow.End)

	runner, err := g.Compile(
		workflow.WithLogger(logger),
		workflow.WithLifecycleHooks(cfg.Hooks),
	)
	if err != nil {
		return nil, err
	}
	return &Pipeline{runner: runner, logger: logger}, nil
}

// Run executes one batch traversal. Budget may be nil (no ceiling);
// criteria may be nil to skip the post-plan search.
func (p *Pipeline) Run(ctx context.Context, budget *float64, criteria map[string]any) (State, error) {
	initial := State{Budget: budget, SearchCriteria: criteria}
	final, err := p.runner.Run(ctx, initial)
	if err != nil {
		return final, err
	}
	p.logger.Info("batch pipeline complete",
		"wishlist", len(final.Wishlist),
		"buy", len(final.Plan.ItemsToBuy),
		"recommendations", len(final.Plan.RecommendationsForLater),
	)
	return final, nil
}
