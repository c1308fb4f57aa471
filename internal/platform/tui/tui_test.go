package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/registry"
	_ "github.com/vovakirdan/tower-run/internal/vehicle"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPreviewKeyMapAction(t *testing.T) {
	keys := DefaultPreviewKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
	}{
		{"space boosts", tea.KeyMsg{Type: tea.KeySpace}, core.ActionBoost},
		{"up boosts", tea.KeyMsg{Type: tea.KeyUp}, core.ActionBoost},
		{"p pauses", runeKey('p'), core.ActionPause},
		{"r resets", runeKey('r'), core.ActionReset},
		{"q quits", runeKey('q'), core.ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"esc is handled by the model", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionNone},
		{"unbound", runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.expected {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
			}
		})
	}
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "xyz")

	if got := RenderScreen(s); got != "abc\nxyz" {
		t.Errorf("RenderScreen() = %q, expected %q", got, "abc\nxyz")
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		expected string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"toolong", 4, "toolong"},
	}

	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.expected {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.expected)
		}
	}
}

func TestMenuSelectsDriver(t *testing.T) {
	drivers := registry.List()
	if len(drivers) < 2 {
		t.Fatalf("expected at least 2 registered drivers, got %d", len(drivers))
	}

	var m tea.Model = NewMenuModel(core.DefaultConfig())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	menu := m.(MenuModel)
	if menu.Selected() == nil {
		t.Fatal("Selected() = nil after enter")
	}
	if menu.Selected().ID != drivers[1].ID {
		t.Errorf("Selected().ID = %q, expected %q", menu.Selected().ID, drivers[1].ID)
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestMenuCursorStaysInRange(t *testing.T) {
	var m tea.Model = NewMenuModel(core.DefaultConfig())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	for i := 0; i < 10; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	menu := m.(MenuModel)
	if expected := len(registry.List()) - 1; menu.cursor != expected {
		t.Errorf("cursor = %d, expected %d", menu.cursor, expected)
	}
}

func TestAppModelFlow(t *testing.T) {
	var m tea.Model = NewAppModel(nil, config.DefaultTrackConfig(), core.DefaultConfig(), nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app := m.(AppModel)
	if app.screen != screenPreview {
		t.Fatalf("screen = %d after enter, expected preview", app.screen)
	}

	m, _ = m.Update(TickMsg{})
	m, _ = m.Update(TickMsg{})
	app = m.(AppModel)
	if got := app.preview.Session().State().Ticks; got != 2 {
		t.Errorf("Ticks = %d after 2 ticks, expected 2", got)
	}
	if !strings.Contains(app.View(), "cleared") {
		t.Error("preview view is missing the HUD")
	}

	m, _ = m.Update(runeKey('b'))
	app = m.(AppModel)
	if app.screen != screenMenu {
		t.Errorf("screen = %d after back, expected menu", app.screen)
	}
	if app.quitting {
		t.Error("back should not quit the app")
	}
}

func TestAppModelRunsAndBack(t *testing.T) {
	var m tea.Model = NewAppModel(nil, config.DefaultTrackConfig(), core.DefaultConfig(), nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	app := m.(AppModel)
	if app.screen != screenRuns {
		t.Fatalf("screen = %d after tab, expected runs", app.screen)
	}
	if !strings.Contains(app.View(), "No runs recorded yet") {
		t.Error("runs view without a store should show the empty message")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = m.(AppModel)
	if app.screen != screenMenu {
		t.Errorf("screen = %d after esc, expected menu", app.screen)
	}
}

func TestAppModelQuit(t *testing.T) {
	var m tea.Model = NewAppModel(nil, config.DefaultTrackConfig(), core.DefaultConfig(), nil)

	m, cmd := m.Update(runeKey('q'))
	app := m.(AppModel)
	if !app.quitting {
		t.Error("quitting = false after q")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if app.View() != "" {
		t.Errorf("View() = %q after quit, expected empty", app.View())
	}
}
