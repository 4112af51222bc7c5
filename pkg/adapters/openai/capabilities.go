package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ncardoz/cesta/pkg/domain"
)

const classifySystemPrompt = `Eres el clasificador de intenciones de un asistente de compras.
Clasifica el último mensaje del usuario en una de estas intenciones:
greeting, farewell, search_product, create_plan, general_question, unknown.
Si la intención es search_product, extrae el término de búsqueda en "extracted_query".
Responde ÚNICAMENTE con un objeto JSON con las claves "intent" y "extracted_query".`

const adviseSystemPrompt = `Eres un asesor de compras conciso.
Dado un producto que el usuario quiere comprar, escribe un consejo breve (1-2 frases)
sobre la compra: si es buen momento, qué considerar, o una alternativa razonable.
Responde ÚNICAMENTE con un objeto JSON con las claves "item_name" y "advice".`

const analyzeSystemPrompt = `Eres un asistente experto en analizar listas de deseos de redes sociales.
Analiza el texto de un item guardado (proveniente de %s) y extrae:
- "identified_product_name": el producto o servicio que el usuario parece desear.
- "category": una de: Electrónica, Ropa, Hogar, Viajes, Comida, Libros, Belleza, Deporte, Otro.
- "key_features": una lista de 2-4 características o palabras clave mencionadas.
- "user_sentiment": sentimiento o intención (ej: "deseo fuerte", "consideración casual", "buscando oferta").
Responde ÚNICAMENTE con un objeto JSON con esas claves.`

var validIntents = map[domain.Intent]struct{}{
	domain.IntentGreeting:        {},
	domain.IntentFarewell:        {},
	domain.IntentSearchProduct:   {},
	domain.IntentCreatePlan:      {},
	domain.IntentGeneralQuestion: {},
	domain.IntentUnknown:         {},
}

// Classify implements ports.Classifier.
func (c *Client) Classify(ctx context.Context, utterance string, history []domain.Turn) (domain.Classification, error) {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Historial reciente:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Speaker, turn.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Mensaje del usuario: %s", utterance)

	content, err := c.complete(ctx, classifySystemPrompt, b.String())
	if err != nil {
		return domain.Classification{}, err
	}

	var result domain.Classification
	if err := decodeJSON(content, &result); err != nil {
		return domain.Classification{}, err
	}
	if _, ok := validIntents[result.Intent]; !ok {
		c.logger.Warn("classifier returned unknown intent", "intent", result.Intent)
		result.Intent = domain.IntentUnknown
	}
	return result, nil
}

// Advise implements ports.Advisor.
func (c *Client) Advise(ctx context.Context, req domain.AdviceRequest) (domain.Advice, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.Advice{}, fmt.Errorf("encoding advice request: %w", err)
	}

	content, err := c.complete(ctx, adviseSystemPrompt, string(payload))
	if err != nil {
		return domain.Advice{}, err
	}

	var advice domain.Advice
	if err := decodeJSON(content, &advice); err != nil {
		return domain.Advice{}, err
	}
	if advice.ItemName == "" {
		advice.ItemName = req.ProductName
	}
	return advice, nil
}

// AnalyzeSave implements ports.SignalAnalyzer.
func (c *Client) AnalyzeSave(ctx context.Context, caption, source string) (domain.SignalAnalysis, error) {
	system := fmt.Sprintf(analyzeSystemPrompt, source)
	user := fmt.Sprintf("Texto del item:\n---\n%s\n---", caption)

	content, err := c.complete(ctx, system, user)
	if err != nil {
		return domain.SignalAnalysis{}, err
	}

	var analysis domain.SignalAnalysis
	if err := decodeJSON(content, &analysis); err != nil {
		return domain.SignalAnalysis{}, err
	}
	return analysis, nil
}
