package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncardoz/cesta/pkg/domain"
)

// fakeCompletions returns an API stub that always answers with content.
func fakeCompletions(t *testing.T, content string) (*httptest.Server, *[]byte) {
	t.Helper()
	var lastBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		lastBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %s}, "finish_reason": "stop"}]
		}`, mustJSON(content))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastBody
}

func mustJSON(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewWithConfig("test-key", srv.URL+"/v1")
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
}

func TestClassify(t *testing.T) {
	srv, body := fakeCompletions(t, `{"intent": "search_product", "extracted_query": "cafetera"}`)
	c := testClient(t, srv)

	result, err := c.Classify(context.Background(), "quiero una cafetera", []domain.Turn{
		{Speaker: domain.SpeakerUser, Text: "hola"},
		{Speaker: domain.SpeakerAgent, Text: "¡Hola!"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSearchProduct, result.Intent)
	assert.Equal(t, "cafetera", result.ExtractedQuery)
	// The history window and the utterance both reach the model.
	assert.Contains(t, string(*body), "Historial reciente")
	assert.Contains(t, string(*body), "quiero una cafetera")
}

func TestClassify_UnknownIntentCoerced(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"intent": "order_pizza"}`)
	c := testClient(t, srv)

	result, err := c.Classify(context.Background(), "hola", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentUnknown, result.Intent)
}

func TestClassify_MalformedResponseFails(t *testing.T) {
	srv, _ := fakeCompletions(t, `this is not json`)
	c := testClient(t, srv)

	_, err := c.Classify(context.Background(), "hola", nil)
	require.Error(t, err)
}

func TestClassify_BackendDownFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := testClient(t, srv)

	_, err := c.Classify(context.Background(), "hola", nil)
	require.Error(t, err)
}

func TestAdvise(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"item_name": "Cafetera Espresso", "advice": "Buen precio para esta gama."}`)
	c := testClient(t, srv)

	advice, err := c.Advise(context.Background(), domain.AdviceRequest{
		ProductName: "Cafetera Espresso",
		Category:    "Hogar",
		Price:       domain.Float(299),
		Currency:    "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "Cafetera Espresso", advice.ItemName)
	assert.Equal(t, "Buen precio para esta gama.", advice.Advice)
}

func TestAdvise_FillsMissingItemName(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"advice": "Considera esperar una oferta."}`)
	c := testClient(t, srv)

	advice, err := c.Advise(context.Background(), domain.AdviceRequest{ProductName: "Smartphone"})
	require.NoError(t, err)
	assert.Equal(t, "Smartphone", advice.ItemName)
}

func TestAnalyzeSave(t *testing.T) {
	srv, _ := fakeCompletions(t, `{
		"identified_product_name": "Auriculares ProSound",
		"category": "Electrónica",
		"key_features": ["auriculares", "ProSound"],
		"user_sentiment": "deseo fuerte"
	}`)
	c := testClient(t, srv)

	analysis, err := c.AnalyzeSave(context.Background(), "¡Me encantan estos auriculares! #ProSound", "social")
	require.NoError(t, err)

	assert.Equal(t, "Auriculares ProSound", analysis.IdentifiedName)
	assert.Equal(t, "Electrónica", analysis.Category)
	assert.Equal(t, "deseo fuerte", analysis.Sentiment)
}

func TestDecodeJSON_ToleratesCodeFences(t *testing.T) {
	var out map[string]string
	err := decodeJSON("```json\n{\"a\": \"b\"}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}
