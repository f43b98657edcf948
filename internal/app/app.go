// Package app is the terminal practice client.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screen"
	"github.com/interviewace/interviewace/internal/screens/home"
	"github.com/interviewace/interviewace/internal/ui/layout"
)

// Options wires the client to the interview services.
type Options = home.Deps

// AppModel is the root Bubble Tea model: the screen stack plus the frame
// drawn around it.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	return AppModel{router: router.New(home.New(opts))}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}
	return m, m.router.Update(msg)
}

// handleKey deals with the global keys. Esc belongs to the screen when it
// asks for it (the interview confirms before quitting), otherwise it
// goes back.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "esc":
		if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
			return nil, false
		}
		if m.router.Depth() > 1 {
			return func() tea.Msg { return router.PopScreenMsg{} }, true
		}
		return nil, true
	}
	return nil, false
}

func (m AppModel) footerHints() []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), quit)
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		quit,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var status string
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the client and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	_, err := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx)).Run()
	return err
}
