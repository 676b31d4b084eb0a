package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/metrics"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tower/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Metrics receives gameplay counters and the active session gauge.
	// Optional.
	Metrics *metrics.Collector

	// Logger defaults to a stderr logger with timestamps.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tower/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server for the tower game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tower-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tower", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// gameMetrics returns the collector as an interface, nil when unset.
func (s *SSHServer) gameMetrics() registry.Metrics {
	if s.config.Metrics == nil {
		return nil
	}
	return s.config.Metrics
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, cfg, sshSession.User()).
		WithMetrics(s.gameMetrics()).
		WithLogger(s.logger)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		if s.config.Metrics != nil {
			s.config.Metrics.SessionStarted()
			defer s.config.Metrics.SessionEnded()
		}
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

// ListenAndServe starts the SSH server and blocks until ctx is done.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			s.logger.Error("server error", "error", err)
			s.Shutdown()
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
		s.store = nil
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionPhase is the screen an SSH session is on.
type sessionPhase int

const (
	phaseMenu sessionPhase = iota
	phaseLevels
	phaseScores
	phaseGame
)

// SessionModel manages the full session flow: menu -> level picker ->
// game -> menu. This is the top-level model used for SSH sessions.
type SessionModel struct {
	store      *storage.Store
	metrics    registry.Metrics
	logger     *log.Logger
	config     core.RuntimeConfig
	username   string
	sessionID  string
	phase      sessionPhase
	menu       MenuModel
	picker     LevelPickerModel
	scoreboard ScoreboardModel
	game       registry.Game
	gameModel  *GameModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		store:     store,
		logger:    log.Default(),
		config:    cfg,
		username:  username,
		sessionID: uuid.NewString(),
		menu:      NewMenuModel(store, cfg),
	}
}

// WithMetrics returns a copy of the session that reports gameplay counters.
func (m SessionModel) WithMetrics(mt registry.Metrics) SessionModel {
	m.metrics = mt
	return m
}

// WithLogger returns a copy of the session that logs to l.
func (m SessionModel) WithLogger(l *log.Logger) SessionModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// ID returns the unique session identifier.
func (m SessionModel) ID() string {
	return m.sessionID
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.phase {
	case phaseGame:
		return m.updateGame(msg)
	case phaseLevels:
		return m.updateLevels(msg)
	case phaseScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu resets the menu and shows it.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.phase = phaseMenu
	m.game = nil
	m.gameModel = nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

// quit ends the SSH session.
func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()

	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.phase = phaseScores
		return m, nil

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			return m.toMenu()
		}
		m.game = game
		m.config = m.menu.Config() // Get possibly updated config from resize

		if picker, ok := NewLevelPicker(game, m.store, m.config.ScreenW, m.config.ScreenH); ok {
			m.picker = picker
			m.phase = phaseLevels
			return m, nil
		}
		return m.startGame()
	}

	// The menu quits its own program on selection; inside a session that
	// would end the connection, so only pass through other commands.
	return m, cmd
}

// updateLevels handles updates when picking a level.
func (m SessionModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, _ := m.picker.Update(msg)
	if picker, ok := newPicker.(LevelPickerModel); ok {
		m.picker = picker
	}

	switch {
	case m.picker.IsQuitting():
		return m.quit()
	case m.picker.WantsBack():
		return m.toMenu()
	}
	if index, ok := m.picker.Chosen(); ok {
		m.game.(registry.LevelSelectable).SelectLevel(index)
		return m.startGame()
	}
	return m, nil
}

// updateScores handles updates on the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	switch {
	case m.scoreboard.IsQuitting():
		return m.quit()
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// startGame creates the game model for the selected game.
func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	m.config.Seed = time.Now().UnixNano()
	gameModel := NewGameModel(m.game, m.store, m.config).
		WithMetrics(m.metrics).
		WithLogger(m.logger)
	m.gameModel = &gameModel
	m.phase = phaseGame
	m.logger.Info("game started", "session", m.sessionID, "user", m.username, "game", m.game.ID())
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Back to menu: drop the game's quit command, keep the connection
	if m.gameModel.BackToMenu() {
		m.logger.Info("game ended", "session", m.sessionID, "score", m.gameModel.State().Score)
		return m.toMenu()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		return m.quit()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseGame:
		return m.gameModel.View()
	case phaseLevels:
		return m.picker.View()
	case phaseScores:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
