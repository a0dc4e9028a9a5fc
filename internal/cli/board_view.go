package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/reconcile"
)

// boardView is the kanban board: one lane per workflow stage, items moved
// between lanes with a keyboard pick-up-and-drop session.
type boardView struct {
	state  *SharedState
	engine *board.Engine

	filter    textinput.Model
	filtering bool
	filters   board.Filters

	selCol int
	selRow int
}

func newBoardView(state *SharedState) *boardView {
	ti := textinput.New()
	ti.Placeholder = "filter title or content"
	ti.CharLimit = 64
	ti.Width = 32

	filters := board.Filters{Today: state.today()}
	if state.App.Actor != nil {
		filters.ActingUserID = state.App.Actor.ID
	}

	return &boardView{
		state:   state,
		engine:  board.NewEngine(board.DimStatus, domain.DefaultColumns()),
		filter:  ti,
		filters: filters,
	}
}

func (v *boardView) Init() tea.Cmd {
	return refreshCmd(v.state)
}

// refreshCmd refetches the edition's insumos into the local store.
func refreshCmd(state *SharedState) tea.Cmd {
	return func() tea.Msg {
		if err := state.Reconciler.Refresh(context.Background(), state.Edition.ID); err != nil {
			return flashMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return nil
	}
}

// CapturesInput reports that all keys belong to the filter input while it
// is focused.
func (v *boardView) CapturesInput() bool { return v.filtering }

func (v *boardView) visibleByColumn() ([]domain.Column, map[domain.InsumoStatus][]*domain.Insumo) {
	cols := v.engine.Columns()
	v.filters.Search = v.filter.Value()
	v.filters.Today = v.state.today()
	visible := board.Apply(v.state.Store.List(), v.filters)
	return cols, board.ItemsByColumn(visible, cols)
}

// selectedItem returns the item under the cursor, or nil.
func (v *boardView) selectedItem() *domain.Insumo {
	cols, grouped := v.visibleByColumn()
	if v.selCol >= len(cols) {
		return nil
	}
	items := grouped[cols[v.selCol].ID]
	if len(items) == 0 {
		return nil
	}
	row := v.selRow
	if row >= len(items) {
		row = len(items) - 1
	}
	return items[row]
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case boardStaleMsg:
		if msg.editionID == v.state.Edition.ID {
			return v, refreshCmd(v.state)
		}
		return v, nil

	case moveSettledMsg:
		// The store already reflects the settled write; rendering reads
		// straight from it.
		return v, nil
	}

	if v.filtering {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *boardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.filtering {
		switch msg.Type {
		case tea.KeyEnter:
			v.filtering = false
			v.filter.Blur()
			return v, nil
		case tea.KeyEsc:
			v.filtering = false
			v.filter.Blur()
			v.filter.SetValue("")
			return v, nil
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}

	cols, grouped := v.visibleByColumn()

	switch msg.String() {
	case "left", "h":
		if v.selCol > 0 {
			v.selCol--
			v.selRow = 0
			v.hoverSelected(cols)
		}
	case "right", "l":
		if v.selCol < len(cols)-1 {
			v.selCol++
			v.selRow = 0
			v.hoverSelected(cols)
		}
	case "up", "k":
		if v.selRow > 0 {
			v.selRow--
		}
	case "down", "j":
		if v.selCol < len(cols) {
			if n := len(grouped[cols[v.selCol].ID]); v.selRow < n-1 {
				v.selRow++
			}
		}
	case "[":
		return v, v.shiftColumn(cols, -1)
	case "]":
		return v, v.shiftColumn(cols, +1)
	case "/":
		v.filtering = true
		return v, v.filter.Focus()
	case "m":
		v.filters.OnlyMine = !v.filters.OnlyMine
		v.selRow = 0
	case "d":
		v.filters.OnlyDelayed = !v.filters.OnlyDelayed
		v.selRow = 0
	case "r":
		return v, refreshCmd(v.state)
	case "v":
		if item := v.selectedItem(); item != nil {
			return v, pushView(newDetailView(v.state, item.ID))
		}
	case " ", "enter":
		return v, v.grabOrDrop(cols)
	case "esc":
		if v.engine.Dragging() {
			v.engine.Cancel()
			return v, flash(formatter.Dim("Move cancelled."))
		}
	}

	return v, nil
}

// hoverSelected keeps the drag session's hover target in sync with the
// cursor column while carrying an item.
func (v *boardView) hoverSelected(cols []domain.Column) {
	if v.engine.Dragging() && v.selCol < len(cols) {
		v.engine.UpdateHover(string(cols[v.selCol].ID))
	}
}

// grabOrDrop starts a drag session on the selected item, or drops the
// carried item onto the selected column.
func (v *boardView) grabOrDrop(cols []domain.Column) tea.Cmd {
	lookup := v.state.Store.Lookup()

	if !v.engine.Dragging() {
		item := v.selectedItem()
		if item == nil {
			return nil
		}
		if err := v.engine.BeginDrag(item.ID, board.DragItem, lookup); err != nil {
			return flash(formatter.StyleRed.Render(err.Error()))
		}
		return flash(formatter.Dim("Carrying " + item.Title + " (space drops, esc cancels)"))
	}

	if v.selCol >= len(cols) {
		return nil
	}
	intent, err := v.engine.EndDrag(string(cols[v.selCol].ID), lookup)
	if err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	if intent == nil {
		return flash("")
	}
	return v.dispatchIntent(*intent)
}

// dispatchIntent gates the intent and hands it to the reconciler. An
// adjustment target detours through the reason form first.
func (v *boardView) dispatchIntent(intent board.MoveIntent) tea.Cmd {
	item, ok := v.state.Store.Get(intent.InsumoID)
	if !ok {
		return flash(formatter.StyleRed.Render("item vanished from the board"))
	}

	decision := v.state.App.Policy.Decide(item, intent.Target, v.state.App.Actor)
	if !decision.Allowed {
		return flash(formatter.StyleRed.Render(decision.Reason))
	}

	if intent.Target.Kind == board.TargetColumn && intent.Target.Status == domain.StatusAdjustmentRequested {
		return pushView(newAdjustReasonView(v.state, intent))
	}

	move, err := reconcile.MoveFromIntent(intent)
	if err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	return applyMoveCmd(v.state, move)
}

// applyMoveCmd applies the move optimistically; the settled result arrives
// later through the session listener.
func applyMoveCmd(state *SharedState, move reconcile.Move) tea.Cmd {
	return func() tea.Msg {
		if err := state.Reconciler.ApplyMove(context.Background(), move); err != nil {
			return flashMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return nil
	}
}

// shiftColumn reorders the selected lane one position left or right.
func (v *boardView) shiftColumn(cols []domain.Column, delta int) tea.Cmd {
	to := v.selCol + delta
	if v.engine.Dragging() || v.selCol >= len(cols) || to < 0 || to >= len(cols) {
		return nil
	}
	lookup := v.state.Store.Lookup()
	if err := v.engine.BeginDrag(string(cols[v.selCol].ID), board.DragColumn, lookup); err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	if _, err := v.engine.EndDrag(string(cols[to].ID), lookup); err != nil {
		return flash(formatter.StyleRed.Render(err.Error()))
	}
	v.selCol = to
	return nil
}

func (v *boardView) View() string {
	cols, grouped := v.visibleByColumn()

	colWidth := 24
	if v.state.Width > 0 {
		if w := v.state.Width/len(cols) - 2; w > 12 {
			colWidth = w
		}
	}

	rendered := make([]string, 0, len(cols))
	for ci, col := range cols {
		rendered = append(rendered, v.renderColumn(ci, col, grouped[col.ID], colWidth))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if v.filtering || v.filter.Value() != "" {
		out += "\n" + formatter.Dim("filter: ") + v.filter.View()
	}
	var active []string
	if v.filters.OnlyMine {
		active = append(active, "mine")
	}
	if v.filters.OnlyDelayed {
		active = append(active, "delayed")
	}
	if len(active) > 0 {
		out += "\n" + formatter.StyleYellow.Render("filters: "+strings.Join(active, ", "))
	}

	return out
}

func (v *boardView) renderColumn(ci int, col domain.Column, items []*domain.Insumo, width int) string {
	borderColor := formatter.ColorDim
	if ci == v.selCol {
		borderColor = formatter.ColorHeader
	}

	title := formatter.StatusColor(col.ID).Render(col.Title) +
		formatter.Dim(fmt.Sprintf(" %d", len(items)))

	var lines []string
	lines = append(lines, title)
	for ri, item := range items {
		label := formatter.Truncate(item.Title, width-4)
		prefix := "  "
		switch {
		case v.engine.ActiveID() == item.ID:
			prefix = formatter.StyleHeader.Render("✚ ")
			label = formatter.StyleHeader.Render(label)
		case ci == v.selCol && ri == v.clampedRow(len(items)):
			prefix = formatter.StyleHeader.Render("> ")
			label = formatter.Bold(label)
		default:
			label = formatter.StyleFg.Render(label)
		}
		line := prefix + label
		if item.IsDelayed(v.state.today()) {
			line += " " + formatter.StyleRed.Render("!")
		}
		lines = append(lines, line)
	}
	if len(items) == 0 {
		lines = append(lines, formatter.Dim("  (empty)"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (v *boardView) clampedRow(n int) int {
	if n == 0 {
		return 0
	}
	if v.selRow >= n {
		return n - 1
	}
	return v.selRow
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }

func (v *boardView) ShortHelp() []key.Binding {
	if v.engine.Dragging() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "grab")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "detail")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mine")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delayed")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}
