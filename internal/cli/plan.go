package cli

import (
	"fmt"
	"strings"

	"github.com/ncardoz/cesta/internal/pipeline"
)

// RenderPlanMarkdown formats a finished batch run as markdown for the
// terminal renderer.
func RenderPlanMarkdown(final pipeline.State) string {
	var b strings.Builder
	plan := final.Plan

	b.WriteString("# Plan de compra\n\n")
	fmt.Fprintf(&b, "Señales de interés analizadas: %d\n\n", len(final.Wishlist))

	if plan == nil {
		b.WriteString("No se pudo generar un plan.\n")
		return b.String()
	}

	if len(plan.ItemsToBuy) == 0 {
		b.WriteString("## Para comprar\n\nNingún artículo entra en el plan.\n")
	} else {
		b.WriteString("## Para comprar\n\n")
		for _, item := range plan.ItemsToBuy {
			line := fmt.Sprintf("- **%s**", item.Name())
			if item.Price != nil {
				line += fmt.Sprintf(" — %.2f %s", *item.Price, item.Currency)
			}
			b.WriteString(line + "\n")
			if item.AdvisoryText != "" {
				fmt.Fprintf(&b, "  - _%s_\n", item.AdvisoryText)
			}
		}
		fmt.Fprintf(&b, "\nCoste total estimado: **%.2f %s**", plan.EstimatedTotalCost, plan.Currency)
		if plan.Budget != nil {
			fmt.Fprintf(&b, " (presupuesto: %.2f)", *plan.Budget)
		}
		b.WriteString("\n")
	}

	if len(plan.RecommendationsForLater) > 0 {
		b.WriteString("\n## Para más adelante\n\n")
		for _, rec := range plan.RecommendationsForLater {
			line := fmt.Sprintf("- %s (%s", rec.Name, rec.Reason)
			if rec.Price != nil {
				line += fmt.Sprintf(", %.2f", *rec.Price)
			}
			b.WriteString(line + ")\n")
		}
	}

	if len(final.SearchResults) > 0 {
		b.WriteString("\n## Resultados de búsqueda\n\n")
		for _, row := range final.SearchResults {
			name, _ := row["name"].(string)
			if name == "" {
				name, _ = row["id"].(string)
			}
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}
