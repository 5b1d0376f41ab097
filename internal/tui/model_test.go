package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"queuepanel/internal/dropingest"
	"queuepanel/internal/panel"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() (Model, chan panel.HostEvent) {
	host := make(chan panel.HostEvent, 8)
	return NewModel(host, make(chan panel.Frame)), host
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

func drain(host chan panel.HostEvent) []panel.HostEvent {
	var out []panel.HostEvent
	for {
		select {
		case ev := <-host:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestKeysBecomeClicks(t *testing.T) {
	m, host := newTestModel()
	for _, k := range []string{"s", "p", "x", "r", "c", "a"} {
		m, _ = update(t, m, runeKey(k))
	}
	want := []panel.Role{panel.RoleStart, panel.RolePause, panel.RoleStop, panel.RoleRepeat, panel.RoleClear, panel.RoleAddFiles}
	got := drain(host)
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), got)
	}
	for i, ev := range got {
		if ev.Role != want[i] || ev.Kind != panel.KindClick {
			t.Fatalf("event %d = %+v, want click on %s", i, ev, want[i])
		}
	}
}

func TestPasteBecomesDrop(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		format string
	}{
		{"uri list", "file:///tmp/a.txt\nFILE:///tmp/b.txt\n", dropingest.FormatURIList},
		{"plain paths", "/tmp/a.txt", dropingest.FormatPlainText},
		{"mixed", "file:///tmp/a.txt\n/tmp/b.txt", dropingest.FormatPlainText},
		{"blank", "  ", dropingest.FormatPlainText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, host := newTestModel()
			update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.text), Paste: true})
			got := drain(host)
			if len(got) != 1 {
				t.Fatalf("expected one event, got %+v", got)
			}
			ev := got[0]
			if ev.Role != panel.RoleDropZone || ev.Kind != panel.KindPaste {
				t.Fatalf("unexpected event %+v", ev)
			}
			if formats := ev.Payload.Formats(); len(formats) != 1 || formats[0] != tt.format {
				t.Fatalf("formats = %v, want %s", formats, tt.format)
			}
			if ev.Payload.Data(tt.format) != tt.text {
				t.Fatalf("payload data %q", ev.Payload.Data(tt.format))
			}
		})
	}
}

func TestPastedQuitKeyDoesNotQuit(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Paste: true})
	if cmd != nil {
		t.Fatal("pasted text must not trigger key bindings")
	}
}

func TestCursorSelectsItems(t *testing.T) {
	m, host := newTestModel()
	frame := panel.Frame{View: panel.View{
		Active: []panel.ItemRow{{ID: "a", Name: "a.txt", Status: "Pending"}},
		Recent: []panel.ItemRow{{ID: "b", Name: "b.txt", Status: "Completed"}},
	}}
	m, cmd := update(t, m, FrameMsg(frame))
	if cmd == nil {
		t.Fatal("frame handling should keep listening for frames")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, runeKey("d"))

	got := drain(host)
	if len(got) != 2 {
		t.Fatalf("unexpected events %+v", got)
	}
	if got[0].Kind != panel.KindToggle || got[0].ItemID != "b" {
		t.Fatalf("unexpected toggle %+v", got[0])
	}
	if got[1].Kind != panel.KindRemove || got[1].ItemID != "b" {
		t.Fatalf("unexpected remove %+v", got[1])
	}
	if !strings.Contains(m.View(), "> b.txt") {
		t.Fatalf("view should mark the selected item:\n%s", m.View())
	}

	// A shorter frame pulls the cursor back in range.
	m, _ = update(t, m, FrameMsg(panel.Frame{View: panel.View{Active: frame.View.Active}}))
	if row, ok := m.selected(); !ok || row.ID != "a" {
		t.Fatalf("cursor not clamped: %+v %v", row, ok)
	}
}

func TestItemKeysWithoutItemsAreIgnored(t *testing.T) {
	m, host := newTestModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	update(t, m, runeKey("d"))
	if got := drain(host); len(got) != 0 {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestDoneQuitsAndStopsEmitting(t *testing.T) {
	m, host := newTestModel()
	boom := errors.New("controller disconnected")
	m, cmd := update(t, m, DoneMsg{Err: boom})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !errors.Is(m.Err(), boom) || !strings.Contains(m.View(), "panel stopped") {
		t.Fatalf("error not surfaced: %v", m.Err())
	}
	update(t, m, runeKey("s"))
	if got := drain(host); len(got) != 0 {
		t.Fatalf("events emitted after panel exit: %+v", got)
	}
}

func TestFullHostBufferDropsEvents(t *testing.T) {
	host := make(chan panel.HostEvent, 1)
	m := NewModel(host, make(chan panel.Frame))
	m, _ = update(t, m, runeKey("a"))
	update(t, m, runeKey("a"))
	if len(host) != 1 {
		t.Fatalf("expected one buffered event, got %d", len(host))
	}
}

func TestWaitForFrame(t *testing.T) {
	frames := make(chan panel.Frame, 1)
	frames <- panel.Frame{Dragging: true}
	if msg, ok := waitForFrame(frames)().(FrameMsg); !ok || !msg.Dragging {
		t.Fatalf("unexpected message %#v", msg)
	}
	close(frames)
	if _, ok := waitForFrame(frames)().(DoneMsg); !ok {
		t.Fatal("closed frame channel should report done")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := update(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
