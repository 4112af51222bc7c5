// Package mcp exposes catalog search and batch planning as MCP tools, so
// agent frontends can drive the assistant over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/internal/pipeline"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
	"github.com/ncardoz/cesta/pkg/registry"
)

// SearchResponse is the structured result of the catalog_search tool.
type SearchResponse struct {
	Results []map[string]any `json:"results" jsonschema_description:"Matching products in catalog order"`
	Count   int              `json:"count" jsonschema_description:"Number of matches"`
}

// PlanResponse is the structured result of the build_plan tool.
type PlanResponse struct {
	Plan     *domain.ShoppingPlan  `json:"plan" jsonschema_description:"The generated shopping plan"`
	Wishlist []domain.InterestItem `json:"wishlist" jsonschema_description:"The extracted interest items"`
}

// Server wraps the engines as an MCP server.
type Server struct {
	catalog   ports.CatalogSource
	pipeline  *pipeline.Pipeline
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the MCP server over a catalog source and a compiled
// batch pipeline.
func NewServer(source ports.CatalogSource, p *pipeline.Pipeline, version string, opts ...Option) *Server {
	s := &Server{
		catalog:   source,
		pipeline:  p,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("cesta-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	searchTool := mcp.NewTool("catalog_search",
		mcp.WithDescription("Search the marketplace catalog. All supplied criteria are combined with AND; results keep catalog order."),
		mcp.WithString("query", mcp.Description("Text matched against product name, description and tags (case-insensitive)")),
		mcp.WithString("category", mcp.Description("Exact product category (case-insensitive)")),
		mcp.WithString("brand", mcp.Description("Exact product brand (case-insensitive)")),
		mcp.WithNumber("min_price", mcp.Description("Minimum price")),
		mcp.WithNumber("max_price", mcp.Description("Maximum price")),
		mcp.WithNumber("min_rating", mcp.Description("Minimum average rating")),
		mcp.WithBoolean("in_stock", mcp.Description("Filter by availability")),
		mcp.WithOutputSchema[SearchResponse](),
	)
	s.mcpServer.AddTool(searchTool, mcp.NewStructuredToolHandler(s.handleSearch))

	planTool := mcp.NewTool("build_plan",
		mcp.WithDescription("Ingest interest signals, match them against the catalog and build a budget-constrained shopping plan."),
		mcp.WithNumber("budget", mcp.Description("Spending ceiling (optional; omit for no ceiling)")),
		mcp.WithOutputSchema[PlanResponse](),
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handlePlan))
}

func (s *Server) handleSearch(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SearchResponse, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("catalog unavailable: %w", err)
	}

	search := registry.NewCatalogSearch(products)
	results, err := search(ctx, args)
	if err != nil {
		return SearchResponse{}, err
	}
	return SearchResponse{Results: results, Count: len(results)}, nil
}

func (s *Server) handlePlan(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (PlanResponse, error) {
	var budget *float64
	if v, ok := args["budget"].(float64); ok {
		budget = &v
	}

	final, err := s.pipeline.Run(ctx, budget, nil)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("plan build failed: %w", err)
	}
	return PlanResponse{Plan: final.Plan, Wishlist: final.Wishlist}, nil
}
