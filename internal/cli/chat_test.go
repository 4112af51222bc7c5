package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncardoz/cesta/internal/conversation"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/registry"
)

func testController(t *testing.T) *conversation.Controller {
	t.Helper()
	r := registry.New()
	r.Register(registry.CatalogSearchName, registry.NewCatalogSearch([]domain.Product{
		{ID: "MP001", Name: "Cafetera Espresso", Price: domain.Float(299), Currency: "USD", Stock: 5},
	}))
	c, err := conversation.New(r)
	require.NoError(t, err)
	return c
}

func TestChatSession_GreetsThenEndsOnFarewell(t *testing.T) {
	var out strings.Builder
	session := &ChatSession{
		Controller: testController(t),
		In:         strings.NewReader("hola\nadiós\n"),
		Out:        &out,
	}

	require.NoError(t, session.Run(context.Background()))

	transcript := out.String()
	assert.Contains(t, transcript, "asistente de compras personal")
	assert.Contains(t, transcript, "¡Hasta luego!")
	assert.True(t, session.Controller.Ended())
}

func TestChatSession_SearchCommandPrintsResults(t *testing.T) {
	var out strings.Builder
	session := &ChatSession{
		Controller: testController(t),
		In:         strings.NewReader("search cafetera\nsalir\n"),
		Out:        &out,
	}

	require.NoError(t, session.Run(context.Background()))
	assert.Contains(t, out.String(), "Cafetera Espresso")
}

func TestChatSession_EOFTerminatesCleanly(t *testing.T) {
	var out strings.Builder
	session := &ChatSession{
		Controller: testController(t),
		In:         strings.NewReader("hola\n"),
		Out:        &out,
	}

	require.NoError(t, session.Run(context.Background()))
	assert.False(t, session.Controller.Ended())
}

func TestChatSession_CancelledContextSaysGoodbye(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	session := &ChatSession{
		Controller: testController(t),
		In:         strings.NewReader("hola\n"),
		Out:        &out,
	}

	require.NoError(t, session.Run(ctx))
	assert.Contains(t, out.String(), "Sesión interrumpida")
}

func TestChatSession_RenderHookApplies(t *testing.T) {
	var out strings.Builder
	session := &ChatSession{
		Controller: testController(t),
		In:         strings.NewReader("salir\n"),
		Out:        &out,
		Render:     strings.ToUpper,
	}

	require.NoError(t, session.Run(context.Background()))
	assert.Contains(t, out.String(), "ASISTENTE DE COMPRAS PERSONAL")
}
