package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/logging"
	"github.com/vovakirdan/tower-run/internal/registry"
	"github.com/vovakirdan/tower-run/internal/session"
	"github.com/vovakirdan/tower-run/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.towerrun/host_key.
	HostKeyPath string

	// DBPath is the path to the run history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Track is the generator configuration shared by every session.
	Track config.TrackConfig

	// LogLevel is the server log level ("debug", "info", ...).
	LogLevel string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.towerrun/runs.db",
		IdleTimeout: 30 * time.Minute,
		Track:       config.DefaultTrackConfig(),
		LogLevel:    logging.DefaultLevel,
	}
}

// SSHServer wraps a Wish SSH server that serves track previews.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if err := cfg.Track.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, "towerrun-ssh")
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".towerrun", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
	}

	model := NewAppModel(s.store, s.config.Track, cfg, s.logger.With("user", sshSession.User()))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// appScreen is the screen an AppModel is showing.
type appScreen int

const (
	screenMenu appScreen = iota
	screenPreview
	screenRuns
)

// AppModel manages the full flow of one remote user:
// menu -> preview -> menu, with the run history reachable from the menu.
type AppModel struct {
	store    *storage.Store
	track    config.TrackConfig
	config   core.RuntimeConfig
	logger   *log.Logger
	screen   appScreen
	menu     MenuModel
	preview  PreviewModel
	runs     RunsModel
	quitting bool
	err      error // Last session creation error, shown on the menu
}

// NewAppModel creates the top-level model of a remote session.
func NewAppModel(store *storage.Store, track config.TrackConfig, cfg core.RuntimeConfig, logger *log.Logger) AppModel {
	if logger == nil {
		logger = logging.Discard()
	}
	return AppModel{
		store:  store,
		track:  track,
		config: cfg,
		logger: logger,
		menu:   NewMenuModel(cfg),
	}
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPreview:
		return m.updatePreview(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates while the driver picker is shown.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsRuns():
		m.runs = NewRunsModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenRuns
		return m, m.runs.Init()

	case m.menu.Selected() != nil:
		return m.startPreview(m.menu.Selected().ID)
	}

	return m, cmd
}

// startPreview creates a fresh session for the driver and shows it.
func (m AppModel) startPreview(driverID string) (tea.Model, tea.Cmd) {
	driver, err := registry.Create(driverID)
	if err == nil {
		var sess *session.Session
		seed := time.Now().UnixNano()
		sess, err = session.New(m.track, driver, seed, session.WithLogger(m.logger))
		if err == nil {
			m.logger.Info("preview started", "driver", driverID, "seed", seed)
			m.err = nil
			m.preview = NewPreviewModel(sess, m.store, m.track.Difficulty.Preset, m.config)
			m.screen = screenPreview
			return m, m.preview.Init()
		}
	}

	m.logger.Error("cannot start preview", "driver", driverID, "error", err)
	m.err = err
	m.menu = NewMenuModel(m.config)
	return m, nil
}

// updatePreview handles updates while a track is previewed.
func (m AppModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.preview.Update(msg)
	if previewModel, ok := newModel.(PreviewModel); ok {
		m.preview = previewModel
	}

	if m.preview.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.preview.BackToMenu() {
		sum := m.preview.Session().Summary()
		m.logger.Info("preview ended", "driver", sum.Driver, "cleared", sum.Cleared, "level", sum.MaxLevel)
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateRuns handles updates while the run history is shown.
func (m AppModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.runs.Update(msg)
	if runsModel, ok := newModel.(RunsModel); ok {
		m.runs = runsModel
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.runs.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPreview:
		return m.preview.View()
	case screenRuns:
		return m.runs.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(errorStyle.Render(m.err.Error()), m.config.ScreenW)
	}
	return view
}
