package ports

import (
	"context"

	"github.com/ncardoz/cesta/pkg/domain"
)

// Classifier is the external intent classification capability. It may be
// absent (nil) or fail at call time; the controller must treat both the
// same way and degrade to its keyword fallback. Implementations should
// return domain.ErrCapabilityUnavailable when not configured.
type Classifier interface {
	// Classify maps an utterance, with a short history window for
	// context, to an intent and an optional extracted search query.
	Classify(ctx context.Context, utterance string, history []domain.Turn) (domain.Classification, error)
}

// Advisor is the external text-generation capability producing short
// purchase advisories. Failures are non-fatal by contract: planners log
// and continue without advice.
type Advisor interface {
	Advise(ctx context.Context, req domain.AdviceRequest) (domain.Advice, error)
}

// SignalAnalyzer refines a raw social save into a structured interest
// description. Unavailability degrades to pass-through extraction.
type SignalAnalyzer interface {
	AnalyzeSave(ctx context.Context, caption string, source string) (domain.SignalAnalysis, error)
}
