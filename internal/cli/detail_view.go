package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
)

// detailView shows one insumo in full inside a scrollable viewport. It
// reads from the board store, so settled writes show up without refetching.
type detailView struct {
	state    *SharedState
	insumoID string
	vp       viewport.Model
	ready    bool
}

func newDetailView(state *SharedState, insumoID string) *detailView {
	return &detailView{state: state, insumoID: insumoID}
}

func (v *detailView) Init() tea.Cmd {
	v.resize()
	return nil
}

func (v *detailView) resize() {
	w := v.state.Width
	if w <= 0 {
		w = 80
	}
	if !v.ready {
		v.vp = viewport.New(w, v.state.ContentHeight())
		v.vp.KeyMap = detailViewportKeyMap()
		v.ready = true
	} else {
		v.vp.Width = w
		v.vp.Height = v.state.ContentHeight()
	}
	v.reload()
}

func (v *detailView) reload() {
	item, ok := v.state.Store.Get(v.insumoID)
	if !ok {
		v.vp.SetContent(formatter.Dim("Item no longer on the board."))
		return
	}
	v.vp.SetContent(formatter.FormatInsumoDetail(item, v.state.today()))
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.WindowSizeMsg:
		v.resize()
		return v, nil
	case moveSettledMsg, boardStaleMsg:
		v.reload()
		return v, nil
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *detailView) View() string {
	if !v.ready {
		return ""
	}
	return v.vp.View()
}

func (v *detailView) ID() ViewID    { return ViewDetail }
func (v *detailView) Title() string { return "Detail" }

func (v *detailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// detailViewportKeyMap restricts scrolling to keys the board does not use
// for navigation shortcuts.
func detailViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}
