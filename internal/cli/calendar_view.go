package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/reconcile"
)

// calendarView is the due-date calendar: the edition's month laid out as a
// Sunday-first grid, cards rescheduled by carrying them to another day.
type calendarView struct {
	state  *SharedState
	engine *board.Engine

	year  int
	month time.Month

	cursor  int // index into the month grid
	selItem int // which of the cursor day's cards is selected
}

func newCalendarView(state *SharedState) *calendarView {
	v := &calendarView{
		state:  state,
		engine: board.NewEngine(board.DimDate, domain.DefaultColumns()),
		year:   state.Edition.Year,
		month:  time.Month(state.Edition.Month),
	}
	v.cursor = v.indexOf(state.today())
	return v
}

func (v *calendarView) Init() tea.Cmd {
	return refreshCmd(v.state)
}

func (v *calendarView) grid() []time.Time {
	return board.MonthGrid(v.year, v.month)
}

// indexOf places the cursor on the given day, or on the first of the month
// when the day falls outside the grid.
func (v *calendarView) indexOf(day time.Time) int {
	want := domain.DayKey(day)
	for i, d := range v.grid() {
		if domain.DayKey(d) == want {
			return i
		}
	}
	first := time.Date(v.year, v.month, 1, 0, 0, 0, 0, time.UTC)
	return int(first.Weekday())
}

func (v *calendarView) cursorDay() time.Time {
	days := v.grid()
	if v.cursor < 0 || v.cursor >= len(days) {
		return days[0]
	}
	return days[v.cursor]
}

func (v *calendarView) itemsOn(day time.Time) []*domain.Insumo {
	return board.ItemsByDay(v.state.Store.List())[domain.DayKey(day)]
}

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case boardStaleMsg:
		if msg.editionID == v.state.Edition.ID {
			return v, refreshCmd(v.state)
		}
	case moveSettledMsg:
		// Store already holds the settled row.
	}
	return v, nil
}

func (v *calendarView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := v.grid()

	switch msg.String() {
	case "left", "h":
		v.moveCursor(-1, len(days))
	case "right", "l":
		v.moveCursor(+1, len(days))
	case "up", "k":
		v.moveCursor(-7, len(days))
	case "down", "j":
		v.moveCursor(+7, len(days))
	case "tab":
		if n := len(v.itemsOn(v.cursorDay())); n > 0 {
			v.selItem = (v.selItem + 1) % n
		}
	case "[":
		v.shiftMonth(-1)
	case "]":
		v.shiftMonth(+1)
	case "t":
		v.cursor = v.indexOf(v.state.today())
		v.selItem = 0
	case "r":
		return v, refreshCmd(v.state)
	case "v":
		items := v.itemsOn(v.cursorDay())
		if len(items) > 0 {
			return v, pushView(newDetailView(v.state, items[v.clampedSel(len(items))].ID))
		}
	case " ", "enter":
		return v, v.grabOrDrop()
	case "esc":
		if v.engine.Dragging() {
			v.engine.Cancel()
			return v, flash(formatter.Dim("Move cancelled."))
		}
	}

	return v, nil
}

func (v *calendarView) moveCursor(delta, n int) {
	next := v.cursor + delta
	if next >= 0 && next < n {
		v.cursor = next
		v.selItem = 0
	}
}

// shiftMonth pages the grid to an adjacent month. An active drag survives
// the page so a card can be rescheduled across month boundaries.
func (v *calendarView) shiftMonth(delta int) {
	t := time.Date(v.year, v.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	v.year, v.month = t.Year(), t.Month()
	v.cursor = v.indexOf(t)
	v.selItem = 0
}

func (v *calendarView) grabOrDrop() tea.Cmd {
	lookup := v.state.Store.Lookup()
	day := v.cursorDay()

	if !v.engine.Dragging() {
		items := v.itemsOn(day)
		if len(items) == 0 {
			return flash(formatter.Dim("No card due on this day."))
		}
		item := items[v.clampedSel(len(items))]
		if err := v.engine.BeginDrag(item.ID, board.DragItem, lookup); err != nil {
			return flash(formatter.StyleRed.Render(err.Error()))
		}
		return flash(formatter.Dim("Carrying " + item.Title + " (space drops, esc cancels)"))
	}

	intent, err := v.engine.EndDrag(domain.DayKey(day), lookup)
	if err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	if intent == nil {
		return flash("")
	}

	item, ok := v.state.Store.Get(intent.InsumoID)
	if !ok {
		return flash(formatter.StyleRed.Render("card vanished from the board"))
	}
	decision := v.state.App.Policy.Decide(item, intent.Target, v.state.App.Actor)
	if !decision.Allowed {
		return flash(formatter.StyleRed.Render(decision.Reason))
	}

	move, err := reconcile.MoveFromIntent(*intent)
	if err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	return applyMoveCmd(v.state, move)
}

func (v *calendarView) clampedSel(n int) int {
	if n == 0 {
		return 0
	}
	if v.selItem >= n {
		return n - 1
	}
	return v.selItem
}

func (v *calendarView) View() string {
	days := v.grid()
	byDay := board.ItemsByDay(v.state.Store.List())
	today := domain.DayKey(v.state.today())

	cellWidth := 10
	if v.state.Width > 0 {
		if w := v.state.Width/7 - 1; w >= 6 && w < cellWidth {
			cellWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(formatter.Bold(formatter.MonthLabel(v.year, int(v.month))))
	b.WriteString("\n")
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(formatter.Dim(pad(wd, cellWidth+1)))
	}
	b.WriteString("\n")

	for week := 0; week < len(days)/7; week++ {
		cells := make([]string, 0, 7)
		for wd := 0; wd < 7; wd++ {
			i := week*7 + wd
			cells = append(cells, v.renderCell(i, days[i], byDay, today, cellWidth))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString(v.renderDayList(byDay))
	return b.String()
}

func (v *calendarView) renderCell(i int, day time.Time, byDay map[string][]*domain.Insumo, today string, width int) string {
	dayKey := domain.DayKey(day)
	items := byDay[dayKey]
	inMonth := day.Month() == v.month

	num := fmt.Sprintf("%2d", day.Day())
	switch {
	case dayKey == today:
		num = formatter.StyleHeader.Render(num)
	case !inMonth:
		num = formatter.Dim(num)
	default:
		num = formatter.StyleFg.Render(num)
	}

	band := " "
	if inMonth {
		if phase, ok := v.state.App.PhaseCalendar.PhaseForDay(day.Day()); ok {
			band = phaseBandStyle(phase).Render("▎")
		}
	}

	load := strings.Repeat(" ", 3)
	if n := len(items); n > 0 {
		glyph := fmt.Sprintf("%d●", n)
		if hasDelayed(items, v.state.today()) {
			load = formatter.StyleRed.Render(pad(glyph, 3))
		} else {
			load = formatter.StyleBlue.Render(pad(glyph, 3))
		}
	}

	cell := band + num + " " + load

	style := lipgloss.NewStyle().Width(width).Padding(0, 0, 0, 0)
	if i == v.cursor {
		style = style.Border(lipgloss.RoundedBorder()).BorderForeground(formatter.ColorHeader)
	} else {
		style = style.Border(lipgloss.HiddenBorder())
	}
	return style.Render(cell)
}

// renderDayList shows the cursor day's cards under the grid, with the
// tab-selected card highlighted.
func (v *calendarView) renderDayList(byDay map[string][]*domain.Insumo) string {
	day := v.cursorDay()
	items := byDay[domain.DayKey(day)]

	var b strings.Builder
	b.WriteString("\n")
	header := day.Format("Mon, Jan 2")
	if phase, ok := v.state.App.PhaseCalendar.PhaseForDay(day.Day()); ok && day.Month() == v.month {
		header += "  " + formatter.PhaseBadge(phase)
	}
	b.WriteString(formatter.Bold(header))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(formatter.Dim("  nothing due"))
		return b.String()
	}
	sel := v.clampedSel(len(items))
	for i, item := range items {
		prefix := "  "
		switch {
		case v.engine.ActiveID() == item.ID:
			prefix = formatter.StyleHeader.Render("✚ ")
		case i == sel:
			prefix = formatter.StyleHeader.Render("> ")
		}
		b.WriteString(prefix + formatter.StatusPill(item.Status) + " " + item.Title)
		if item.IsDelayed(v.state.today()) {
			b.WriteString(" " + formatter.StyleRed.Render("late"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func phaseBandStyle(p domain.ProductionPhase) lipgloss.Style {
	switch p {
	case domain.PhaseKickoff:
		return formatter.StylePurple
	case domain.PhaseTextInputs:
		return formatter.StyleBlue
	case domain.PhaseFinalData:
		return formatter.StyleYellow
	case domain.PhaseBuild:
		return formatter.StyleGreen
	case domain.PhaseValidation:
		return formatter.StyleRed
	default:
		return formatter.StyleDim
	}
}

func hasDelayed(items []*domain.Insumo, today time.Time) bool {
	for _, item := range items {
		if item.IsDelayed(today) {
			return true
		}
	}
	return false
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return "Calendar" }

func (v *calendarView) ShortHelp() []key.Binding {
	if v.engine.Dragging() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "grab")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next card")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "detail")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "month")),
	}
}
