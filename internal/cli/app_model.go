package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/reconcile"
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack, a transient flash line, and the channel listener that surfaces
// reconciler results inside the tea loop.
type appModel struct {
	state     *SharedState
	viewStack []View
	flash     string
	quitting  bool
}

func newAppModel(state *SharedState, home View) appModel {
	return appModel{
		state:     state,
		viewStack: []View{home},
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// listenSession blocks on the session channels until a write settles or
// the board goes stale.
func listenSession(state *SharedState) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-state.Results:
			return moveSettledMsg{result: r}
		case editionID := <-state.Stales:
			return boardStaleMsg{editionID: editionID}
		}
	}
}

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	cmds = append(cmds, listenSession(m.state))
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.flash = ""
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case formDoneMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case flashMsg:
		m.flash = msg.text
		return m, nil

	case moveSettledMsg:
		m.flash = settledFlash(msg.result)
		// Forward so views can re-render from the store, then re-arm
		// the listener.
		var cmds []tea.Cmd
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, listenSession(m.state))
		return m, tea.Batch(cmds...)

	case boardStaleMsg:
		var cmds []tea.Cmd
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, listenSession(m.state))
		return m, tea.Batch(cmds...)
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		m.state.Reconciler.Wait()
		return m, tea.Quit
	}

	// Form views own every key, including q and esc.
	if v := m.activeView(); v != nil && v.ID() == ViewForm {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	if m.flash != "" {
		m.flash = ""
	}

	switch {
	case msg.String() == "q":
		if v := m.activeView(); v != nil && viewCapturesInput(v) {
			break
		}
		m.quitting = true
		m.state.Reconciler.Wait()
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if v := m.activeView(); v != nil && viewCapturesInput(v) {
			break
		}
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
			return m, nil
		}
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("flowrev")

	var crumbs []string
	if m.state.Product != nil {
		crumbs = append(crumbs, m.state.Product.Name)
	}
	if m.state.Edition != nil {
		crumbs = append(crumbs, formatter.MonthLabel(m.state.Edition.Year, m.state.Edition.Month))
	}
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}

	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if m.state.App.Actor != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(m.state.App.Actor.Name) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string

	if m.flash != "" {
		hints = append(hints, m.flash)
	} else if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if len(m.viewStack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

func settledFlash(r reconcile.Result) string {
	switch {
	case r.Superseded:
		return ""
	case r.Err != nil:
		return formatter.StyleRed.Render(r.Message)
	default:
		return formatter.StyleGreen.Render(r.Message)
	}
}

// viewCapturesInput reports whether the active view owns all key events,
// bypassing the global q/esc handling (the board while its filter input
// is focused).
func viewCapturesInput(v View) bool {
	type inputCapturer interface{ CapturesInput() bool }
	if c, ok := v.(inputCapturer); ok {
		return c.CapturesInput()
	}
	return false
}
