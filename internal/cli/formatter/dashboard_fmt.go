package formatter

import (
	"fmt"
	"strings"

	"github.com/teuprojeto/flowrev/internal/service"
)

const dashboardProgressWidth = 10

// FormatDashboard renders the per-edition production overview for one
// product.
func FormatDashboard(productName string, overview []*service.EditionStats) string {
	var b strings.Builder

	headers := []string{"CYCLE", "PHASE", "PROGRESS", "APPROVED", "PENDING", "DELAYED"}
	rows := make([][]string, 0, len(overview))

	totalDelayed := 0
	for _, stats := range overview {
		delayed := Dim("0")
		if stats.Delayed > 0 {
			delayed = StyleRed.Render(fmt.Sprintf("%d", stats.Delayed))
			totalDelayed += stats.Delayed
		}
		rows = append(rows, []string{
			Bold(MonthLabel(stats.Year, stats.Month)),
			PhaseBadge(stats.Phase),
			RenderProgress(stats.CompletionPct, dashboardProgressWidth),
			StyleGreen.Render(fmt.Sprintf("%d", stats.Approved)),
			StyleFg.Render(fmt.Sprintf("%d", stats.Pending)),
			delayed,
		})
	}

	b.WriteString(RenderTable(headers, rows))

	if totalDelayed > 0 {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("%d delayed item(s) need attention", totalDelayed)) + "\n")
	}

	return RenderBox(productName, b.String())
}
