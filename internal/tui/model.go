package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"queuepanel/internal/dropingest"
	"queuepanel/internal/panel"
)

// FrameMsg carries a freshly published panel frame.
type FrameMsg panel.Frame

// DoneMsg tells the model the panel loop has exited.
type DoneMsg struct {
	Err error
}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model adapts the panel event loop to a terminal. Key presses and bracketed
// pastes become host events; frames published by the panel are drawn as-is.
type Model struct {
	host   chan<- panel.HostEvent
	frames <-chan panel.Frame

	frame  panel.Frame
	keys   keyMap
	help   help.Model
	cursor int
	width  int
	err    error
	done   bool
}

// NewModel connects a model to a running panel. host should be buffered;
// events are dropped rather than blocking the UI when it is full.
func NewModel(host chan<- panel.HostEvent, frames <-chan panel.Frame) Model {
	return Model{
		host:   host,
		frames: frames,
		keys:   newKeyMap(),
		help:   help.New(),
		width:  80,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// waitForFrame blocks until the panel publishes the next frame.
func waitForFrame(frames <-chan panel.Frame) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return DoneMsg{}
		}
		return FrameMsg(frame)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.frame = panel.Frame(msg)
		m.clampCursor()
		return m, waitForFrame(m.frames)

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Paste {
			m.emit(panel.HostEvent{Role: panel.RoleDropZone, Kind: panel.KindPaste, Payload: pastePayload(string(msg.Runes))})
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.start):
		m.click(panel.RoleStart)
	case key.Matches(msg, m.keys.pause):
		m.click(panel.RolePause)
	case key.Matches(msg, m.keys.stop):
		m.click(panel.RoleStop)
	case key.Matches(msg, m.keys.repeat):
		m.click(panel.RoleRepeat)
	case key.Matches(msg, m.keys.clear):
		m.click(panel.RoleClear)
	case key.Matches(msg, m.keys.add):
		m.click(panel.RoleAddFiles)
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		if row, ok := m.selected(); ok {
			m.emit(panel.HostEvent{Role: panel.RoleItem, Kind: panel.KindToggle, ItemID: row.ID})
		}
	case key.Matches(msg, m.keys.remove):
		if row, ok := m.selected(); ok {
			m.emit(panel.HostEvent{Role: panel.RoleItem, Kind: panel.KindRemove, ItemID: row.ID})
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.frame.Render(m.width))
	if row, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(cursorStyle.Render("> " + row.Name))
		b.WriteString(hintStyle.Render("  " + row.Status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("panel stopped: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Err returns the error the panel loop exited with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) click(role panel.Role) {
	m.emit(panel.HostEvent{Role: role, Kind: panel.KindClick})
}

func (m Model) emit(ev panel.HostEvent) {
	if m.done {
		return
	}
	select {
	case m.host <- ev:
	default:
	}
}

// rows lists selectable items in display order.
func (m Model) rows() []panel.ItemRow {
	rows := make([]panel.ItemRow, 0, len(m.frame.View.Active)+len(m.frame.View.Recent))
	rows = append(rows, m.frame.View.Active...)
	return append(rows, m.frame.View.Recent...)
}

func (m Model) selected() (panel.ItemRow, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return panel.ItemRow{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// pastePayload wraps pasted text as a drop. Text made only of file URIs is
// offered as a URI list; anything else as plain text.
func pastePayload(text string) *dropingest.StaticPayload {
	format := dropingest.FormatURIList
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines++
		if !strings.HasPrefix(strings.ToLower(line), "file://") {
			format = dropingest.FormatPlainText
			break
		}
	}
	if lines == 0 {
		format = dropingest.FormatPlainText
	}
	return dropingest.NewPayload(0, format, text)
}
