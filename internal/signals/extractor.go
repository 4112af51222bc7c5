// Package signals turns raw ingestion payloads (social saves, abandoned
// cart lines) into the uniform interest items downstream engines consume.
package signals

import (
	"context"
	"log/slog"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

// Extractor normalizes raw signals. When an analyzer capability is
// configured, social captions are refined into a structured product guess;
// without one, or when a call fails, the raw caption is kept as the
// identified name so the pipeline still produces a usable wishlist.
type Extractor struct {
	analyzer ports.SignalAnalyzer
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAnalyzer installs the optional caption analysis capability.
func WithAnalyzer(a ports.SignalAnalyzer) Option {
	return func(e *Extractor) { e.analyzer = a }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the interest list from social saves and cart lines.
// Social items precede cart items in the output; within each source the
// input order is preserved. Saves with an empty caption are skipped.
func (e *Extractor) Extract(ctx context.Context, saves []ports.RawSave, cartItems []ports.CartItem) []domain.InterestItem {
	items := make([]domain.InterestItem, 0, len(saves)+len(cartItems))

	for _, save := range saves {
		if save.Caption == "" {
			e.logger.Debug("skipping social save with empty caption")
			continue
		}
		items = append(items, e.fromSave(ctx, save))
	}
	for _, line := range cartItems {
		if line.ProductID == "" {
			e.logger.Debug("skipping cart line without product id")
			continue
		}
		items = append(items, domain.InterestItem{
			Source:    domain.SourceAbandonedCart,
			ProductID: line.ProductID,
			Details:   line.Details,
		})
	}

	e.logger.Info("interest signals extracted",
		"social", len(saves), "cart", len(cartItems), "items", len(items))
	return items
}

func (e *Extractor) fromSave(ctx context.Context, save ports.RawSave) domain.InterestItem {
	item := domain.InterestItem{
		Source:         domain.SourceSocial,
		IdentifiedName: save.Caption,
		Details:        save.Details,
	}
	if e.analyzer == nil {
		return item
	}

	analysis, err := e.analyzer.AnalyzeSave(ctx, save.Caption, domain.SourceSocial)
	if err != nil {
		// One-shot degradation: keep the raw caption as the name.
		e.logger.Warn("save analysis failed, keeping raw caption", "err", err)
		return item
	}
	if analysis.IdentifiedName != "" {
		item.IdentifiedName = analysis.IdentifiedName
	}
	item.Category = analysis.Category
	item.KeyFeatures = analysis.KeyFeatures
	item.Sentiment = analysis.Sentiment
	return item
}
