package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the lipgloss style for a workflow stage.
func StatusColor(s domain.InsumoStatus) lipgloss.Style {
	switch s {
	case domain.StatusNotStarted:
		return StyleDim
	case domain.StatusInProgress:
		return StyleBlue
	case domain.StatusSubmitted:
		return StyleYellow
	case domain.StatusUnderReview:
		return StylePurple
	case domain.StatusAdjustmentRequested:
		return StyleRed
	case domain.StatusApproved:
		return StyleGreen
	default:
		return StyleDim
	}
}

// StatusPill returns a colored stage indicator such as "● In Progress".
func StatusPill(s domain.InsumoStatus) string {
	glyph := "●"
	switch s {
	case domain.StatusNotStarted:
		glyph = "○"
	case domain.StatusApproved:
		glyph = "✔"
	case domain.StatusAdjustmentRequested:
		glyph = "▲"
	}
	return StatusColor(s).Render(glyph + " " + domain.StatusLabels[s])
}

// PhaseBadge returns a styled production phase label.
func PhaseBadge(p domain.ProductionPhase) string {
	label := strings.ToUpper(strings.ReplaceAll(string(p), "_", " "))
	switch p {
	case domain.PhaseDone:
		return StyleDim.Render("✔ " + label)
	case domain.PhaseValidation:
		return StyleYellow.Render("● " + label)
	default:
		return StyleBlue.Render("● " + label)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
