package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

type stubAnalyzer struct {
	results map[string]domain.SignalAnalysis
	err     error
	calls   int
}

func (s *stubAnalyzer) AnalyzeSave(_ context.Context, caption, _ string) (domain.SignalAnalysis, error) {
	s.calls++
	if s.err != nil {
		return domain.SignalAnalysis{}, s.err
	}
	return s.results[caption], nil
}

func TestExtract_WithoutAnalyzerKeepsCaptions(t *testing.T) {
	e := New()

	items := e.Extract(context.Background(),
		[]ports.RawSave{
			{Caption: "Amo esta laptop para gaming", Details: map[string]any{"post_id": "IG001"}},
			{Caption: ""},
			{Caption: "Zapatillas para correr"},
		},
		[]ports.CartItem{
			{ProductID: "MP003", Quantity: 1},
			{ProductID: ""},
		},
	)

	require.Len(t, items, 3)
	assert.Equal(t, domain.SourceSocial, items[0].Source)
	assert.Equal(t, "Amo esta laptop para gaming", items[0].IdentifiedName)
	assert.Equal(t, "IG001", items[0].Details["post_id"])
	assert.Equal(t, "Zapatillas para correr", items[1].IdentifiedName)
	assert.Equal(t, domain.SourceAbandonedCart, items[2].Source)
	assert.Equal(t, "MP003", items[2].ProductID)
	assert.Empty(t, items[2].IdentifiedName)
}

func TestExtract_AnalyzerRefinesSocialItems(t *testing.T) {
	analyzer := &stubAnalyzer{results: map[string]domain.SignalAnalysis{
		"Amo esta laptop para gaming": {
			IdentifiedName: "Laptop gaming",
			Category:       "Electrónica",
			KeyFeatures:    []string{"laptop", "gaming"},
			Sentiment:      "deseo fuerte",
		},
	}}
	e := New(WithAnalyzer(analyzer))

	items := e.Extract(context.Background(),
		[]ports.RawSave{{Caption: "Amo esta laptop para gaming"}},
		nil,
	)

	require.Len(t, items, 1)
	assert.Equal(t, "Laptop gaming", items[0].IdentifiedName)
	assert.Equal(t, "Electrónica", items[0].Category)
	assert.Equal(t, []string{"laptop", "gaming"}, items[0].KeyFeatures)
	assert.Equal(t, "deseo fuerte", items[0].Sentiment)
	assert.Equal(t, 1, analyzer.calls)
}

func TestExtract_AnalyzerNotCalledForCartItems(t *testing.T) {
	analyzer := &stubAnalyzer{}
	e := New(WithAnalyzer(analyzer))

	items := e.Extract(context.Background(), nil, []ports.CartItem{{ProductID: "MP001"}})

	require.Len(t, items, 1)
	assert.Zero(t, analyzer.calls)
}

func TestExtract_AnalyzerFailureDegradesToCaption(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("capability down")}
	e := New(WithAnalyzer(analyzer))

	items := e.Extract(context.Background(),
		[]ports.RawSave{{Caption: "Cafetera espresso bonita"}},
		nil,
	)

	require.Len(t, items, 1)
	assert.Equal(t, "Cafetera espresso bonita", items[0].IdentifiedName)
	assert.Empty(t, items[0].Category)
}

func TestExtract_EmptyInputs(t *testing.T) {
	items := New().Extract(context.Background(), nil, nil)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}
