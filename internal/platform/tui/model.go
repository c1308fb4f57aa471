package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/session"
	"github.com/vovakirdan/tower-run/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// PreviewModel is the Bubble Tea model that drives a session and shows the
// generated track as it streams in.
type PreviewModel struct {
	session    *session.Session
	screen     *core.Screen
	store      *storage.Store
	preset     string
	config     core.RuntimeConfig
	keys       PreviewKeyMap
	help       help.Model
	inputFrame core.InputFrame
	quitting   bool
	backToMenu bool
	exitOnBack bool // Standalone previews have no menu to return to
	runSaved   bool // Whether the current run has been saved
}

// NewPreviewModel creates a preview for sess. A nil store disables run history.
func NewPreviewModel(sess *session.Session, store *storage.Store, preset string, cfg core.RuntimeConfig) PreviewModel {
	return PreviewModel{
		session:    sess,
		screen:     core.NewScreen(cfg.ScreenW, previewHeight(cfg.ScreenH)),
		store:      store,
		preset:     preset,
		config:     cfg,
		keys:       DefaultPreviewKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
}

// previewHeight leaves one row for the help bar.
func previewHeight(h int) int {
	return max(h-1, 1)
}

// Init starts the tick loop.
func (m PreviewModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, previewHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PreviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.saveRun()
		if m.exitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick advances the session by one tick.
func (m PreviewModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionReset) {
		m.saveRun()
		//nolint:errcheck // Configuration was validated when the session was created
		m.session.Reset(time.Now().UnixNano())
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.session.Step(m.inputFrame)
	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the current run once.
func (m *PreviewModel) saveRun() {
	if m.store == nil || m.runSaved {
		return
	}
	sum := m.session.Summary()
	if sum.Ticks == 0 {
		return
	}
	//nolint:errcheck // Best-effort save, the preview continues regardless
	m.store.SaveRun(sum.Record(m.preset, ""))
	m.runSaved = true
}

// saveScreenshot saves the current screen to a file.
func (m *PreviewModel) saveScreenshot() {
	m.session.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".towerrun", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%d_%s.txt", m.session.Driver().ID(), m.session.Seed(), timestamp)

	//nolint:errcheck // Best-effort save, the preview continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m PreviewModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.session.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m PreviewModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the driver picker.
func (m PreviewModel) BackToMenu() bool {
	return m.backToMenu
}

// Session returns the previewed session.
func (m PreviewModel) Session() *session.Session {
	return m.session
}

// RunPreview starts the Bubble Tea program for a single session.
func RunPreview(sess *session.Session, store *storage.Store, preset string, cfg core.RuntimeConfig) error {
	model := NewPreviewModel(sess, store, preset, cfg)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
