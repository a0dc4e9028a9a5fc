package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// DueDateFrom returns a human-friendly relative description of a due day,
// compared at day granularity.
func DueDateFrom(due, today time.Time) string {
	days := dayDiff(due, today)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return due.Format("Jan 2")
	case days > -14:
		return fmt.Sprintf("%dd late", -days)
	default:
		return due.Format("Jan 2") + " (late)"
	}
}

// DueDateStyled colors a due day by urgency: late and imminent dates are
// red, this week is yellow. Approved items always render dim.
func DueDateStyled(due *time.Time, status domain.InsumoStatus, today time.Time) string {
	if due == nil {
		return Dim("--")
	}
	text := DueDateFrom(*due, today)
	if status == domain.StatusApproved {
		return Dim(text)
	}
	days := dayDiff(*due, today)
	switch {
	case days < 0:
		return StyleRed.Render(text)
	case days <= 2:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

func dayDiff(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(au.Sub(bu).Hours() / 24)
}

// MonthLabel formats an edition cycle like "April 2026".
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to width visible cells, appending an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return "…"
	}
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
