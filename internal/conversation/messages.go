package conversation

import (
	"fmt"
	"strings"
)

// maxSummarizedResults caps how many search hits are spelled out in a
// reply; the rest collapse into a count.
const maxSummarizedResults = 3

// Canned agent responses. The assistant speaks Spanish, matching the
// catalog data it serves.
const (
	msgGreetingFirst    = "¡Hola! Soy tu asistente de compras personal. ¿Cómo puedo ayudarte hoy?"
	msgGreetingAgain    = "¡Hola de nuevo! ¿En qué más puedo ayudarte?"
	msgSaySomething     = "No he recibido ningún mensaje. Escríbeme qué necesitas."
	msgFarewell         = "¡Hasta luego! Gracias por usar el asistente de compras."
	msgAskWhatToSearch  = "Claro, puedo buscar en el catálogo. ¿Qué producto te interesa?"
	msgPlanNotAvailable = "La creación de planes de compra desde el chat aún no está disponible. Usa el modo de planificación por lotes."
	msgCapabilities     = "Puedo buscar productos en el catálogo y ayudarte a planificar compras. Prueba con algo como: quiero buscar una cafetera."
	msgReformulate      = "No estoy seguro de haber entendido. ¿Puedes reformular tu mensaje?"
	msgNoMatches        = "No encontré productos que coincidan con tu búsqueda."
	msgFallbackEchoFmt  = "Entendido. Has dicho: '%s'. Aún estoy aprendiendo a procesar esto completamente."
)

// formatToolResult turns a tool result list into user-facing text: the
// error payload is surfaced verbatim, an empty list becomes a no-matches
// message, anything else is summarized row by row up to a cap.
func formatToolResult(rows []map[string]any) string {
	if msg, isErr := errorText(rows); isErr {
		return msg
	}
	if len(rows) == 0 {
		return msgNoMatches
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontré %d producto(s):\n", len(rows))
	for i, row := range rows {
		if i == maxSummarizedResults {
			fmt.Fprintf(&b, "…y %d resultado(s) más.", len(rows)-maxSummarizedResults)
			break
		}
		b.WriteString("- ")
		b.WriteString(rowSummary(row))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func errorText(rows []map[string]any) (string, bool) {
	if len(rows) != 1 {
		return "", false
	}
	msg, ok := rows[0]["error"].(string)
	return msg, ok
}

// rowSummary renders one result row: name, then price and stock when the
// row carries them.
func rowSummary(row map[string]any) string {
	name, _ := row["name"].(string)
	if name == "" {
		if id, ok := row["id"].(string); ok {
			name = id
		} else {
			name = "(sin nombre)"
		}
	}

	parts := []string{name}
	if price, ok := row["price"].(float64); ok {
		currency, _ := row["currency"].(string)
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%.2f %s", price, currency)))
	}
	if stock, ok := stockCount(row["stock"]); ok {
		if stock > 0 {
			parts = append(parts, "en stock")
		} else {
			parts = append(parts, "sin stock")
		}
	}
	return strings.Join(parts, ", ")
}

// stockCount tolerates both in-process ints and JSON-decoded floats.
func stockCount(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
