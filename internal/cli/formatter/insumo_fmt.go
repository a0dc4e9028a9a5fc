package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// FormatInsumoList renders the edition's insumos as a table, today being
// the reference day for due-date urgency.
func FormatInsumoList(insumos []*domain.Insumo, today time.Time) string {
	headers := []string{"ID", "TITLE", "STATUS", "DUE", "RESPONSIBLE", "TAGS"}
	rows := make([][]string, 0, len(insumos))

	for _, i := range insumos {
		responsible := Dim("--")
		if len(i.Responsibles) > 0 {
			names := make([]string, 0, len(i.Responsibles))
			for _, r := range i.Responsibles {
				names = append(names, r.Name)
			}
			responsible = StyleFg.Render(strings.Join(names, ", "))
		}

		tags := ""
		for _, tag := range i.Tags {
			tags += StylePurple.Render("#"+tag.Name) + " "
		}

		rows = append(rows, []string{
			TruncID(i.ID),
			Bold(Truncate(i.Title, 32)),
			StatusPill(i.Status),
			DueDateStyled(i.DueDate, i.Status, today),
			responsible,
			strings.TrimRight(tags, " "),
		})
	}

	return RenderTable(headers, rows)
}

// FormatInsumoDetail renders one insumo with its content, workflow history
// and attachments.
func FormatInsumoDetail(i *domain.Insumo, today time.Time) string {
	var b strings.Builder

	b.WriteString(Bold(i.Title) + "  " + StatusPill(i.Status) + "\n")
	b.WriteString(Dim(i.ID) + "\n\n")

	b.WriteString(Dim("Due: ") + DueDateStyled(i.DueDate, i.Status, today) + "\n")
	if i.IsDelayed(today) {
		b.WriteString(StyleRed.Render("DELAYED") + "\n")
	}

	if i.SubmittedAt != nil {
		b.WriteString(Dim("Submitted: ") + StyleFg.Render(i.SubmittedAt.Format("2006-01-02 15:04")) + "\n")
	}
	if i.ReviewedAt != nil {
		b.WriteString(Dim("Reviewed: ") + StyleFg.Render(i.ReviewedAt.Format("2006-01-02 15:04")) + "\n")
	}
	if i.AdjustmentReason != "" {
		b.WriteString(StyleRed.Render("Adjustment: ") + StyleFg.Render(i.AdjustmentReason) + "\n")
	}

	b.WriteString("\n" + Header("Content") + "\n")
	if i.HasContent() {
		b.WriteString(StyleFg.Render(i.Content) + "\n")
	} else {
		b.WriteString(Dim("(empty)") + "\n")
	}
	if i.Notes != "" {
		b.WriteString("\n" + Header("Notes") + "\n")
		b.WriteString(StyleFg.Render(i.Notes) + "\n")
	}

	if len(i.Attachments) > 0 {
		b.WriteString("\n" + Header("Attachments") + "\n")
		for _, a := range i.Attachments {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				StyleBlue.Render(string(a.Kind)),
				StyleFg.Render(a.Filename),
				Dim(a.URL)))
		}
	}

	return b.String()
}
