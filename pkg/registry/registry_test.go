package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncardoz/cesta/pkg/domain"
)

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r := New()

	_, err := r.Invoke(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestRegistry_InvokeReturnsToolResult(t *testing.T) {
	r := New()
	r.Register("echo", func(_ context.Context, input map[string]any) ([]map[string]any, error) {
		return []map[string]any{{"got": input["q"]}}, nil
	})

	result, err := r.Invoke(context.Background(), "echo", map[string]any{"q": "hola"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "hola", result[0]["got"])
}

func TestRegistry_ToolFailureIsShapedNotPropagated(t *testing.T) {
	r := New()
	r.Register("broken", func(context.Context, map[string]any) ([]map[string]any, error) {
		return nil, errors.New("backend exploded")
	})

	result, err := r.Invoke(context.Background(), "broken", nil)
	require.NoError(t, err)

	msg, isErr := IsErrorPayload(result)
	assert.True(t, isErr)
	assert.Equal(t, "backend exploded", msg)
}

func TestRegistry_Names(t *testing.T) {
	r := New()
	r.Register("zeta", func(context.Context, map[string]any) ([]map[string]any, error) { return nil, nil })
	r.Register("alpha", func(context.Context, map[string]any) ([]map[string]any, error) { return nil, nil })

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestRegistry_HooksFireAroundInvocation(t *testing.T) {
	var calls, returns int
	var lastErr bool
	r := New(WithLifecycleHooks(domain.LifecycleHooks{
		OnToolCall: func(_ context.Context, ev *domain.ToolEvent) {
			calls++
			assert.Equal(t, domain.EventToolCall, ev.Type)
		},
		OnToolReturn: func(_ context.Context, ev *domain.ToolEvent) {
			returns++
			lastErr = ev.IsError
		},
	}))
	r.Register("ok", func(context.Context, map[string]any) ([]map[string]any, error) { return nil, nil })
	r.Register("bad", func(context.Context, map[string]any) ([]map[string]any, error) {
		return nil, errors.New("boom")
	})

	_, err := r.Invoke(context.Background(), "ok", nil)
	require.NoError(t, err)
	assert.False(t, lastErr)

	_, err = r.Invoke(context.Background(), "bad", nil)
	require.NoError(t, err)
	assert.True(t, lastErr)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, returns)
}

func TestIsErrorPayload(t *testing.T) {
	msg, ok := IsErrorPayload([]map[string]any{{"error": "nope"}})
	assert.True(t, ok)
	assert.Equal(t, "nope", msg)

	_, ok = IsErrorPayload([]map[string]any{{"name": "x"}})
	assert.False(t, ok)

	_, ok = IsErrorPayload(nil)
	assert.False(t, ok)
}

func TestCatalogSearchTool(t *testing.T) {
	products := []domain.Product{
		{ID: "MP001", Name: "Laptop Pro", Category: "Electrónica", Price: domain.Float(1200), Stock: 4},
		{ID: "MP002", Name: "Laptop Air", Category: "Electrónica", Price: domain.Float(900), Stock: 0},
		{ID: "MP003", Name: "Cafetera", Category: "Hogar", Price: domain.Float(80), Stock: 9},
	}
	r := New()
	r.Register(CatalogSearchName, NewCatalogSearch(products))

	result, err := r.Invoke(context.Background(), CatalogSearchName, map[string]any{"query": "laptop"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "MP001", result[0]["id"])
	assert.Equal(t, 1200.0, result[0]["price"])
	assert.Equal(t, "MP002", result[1]["id"])

	result, err = r.Invoke(context.Background(), CatalogSearchName, map[string]any{
		"query":    "laptop",
		"in_stock": true,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "MP001", result[0]["id"])

	result, err = r.Invoke(context.Background(), CatalogSearchName, map[string]any{"query": "drone"})
	require.NoError(t, err)
	assert.Empty(t, result)
}
