package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

// GameModel is the Bubble Tea model for running a game. It binds storage
// and metrics to games that accept them and records every finished run.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	metrics    registry.Metrics
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	runID      string
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current attempt has been recorded
}

// NewGameModel creates a new game model.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		runID:      uuid.NewString(),
	}
}

// WithMetrics returns a copy of the model that reports gameplay counters.
func (m GameModel) WithMetrics(mt registry.Metrics) GameModel {
	m.metrics = mt
	return m
}

// WithLogger returns a copy of the model that logs to l.
func (m GameModel) WithLogger(l *log.Logger) GameModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// bind attaches storage and metrics to games that accept them.
func (m GameModel) bind() {
	if pa, ok := m.game.(registry.ProgressAware); ok && m.store != nil {
		pa.BindProgress(m.store.Progress(m.game.ID()))
	}
	if in, ok := m.game.(registry.Instrumented); ok && m.metrics != nil {
		in.BindMetrics(m.metrics)
	}
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.bind()
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu from a paused or finished game
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.Paused || m.gameState.LevelComplete) {
		m.saveRun()
		m.backToMenu = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The viewport scrolls, so only a fresh game picks up the new size
	if m.gameState.Blocks == 0 {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	prev := m.gameState

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// A restart or a new level starts a new attempt
	if m.gameState.Blocks < prev.Blocks || m.gameState.Level != prev.Level {
		m.runSaved = false
		m.runID = uuid.NewString()
	}

	// Record the run once per completed level
	if m.gameState.LevelComplete && !m.runSaved {
		m.saveRun()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the current attempt once, if it scored.
func (m *GameModel) saveRun() {
	if m.runSaved || m.store == nil || m.gameState.Score <= 0 {
		return
	}
	m.runSaved = true

	run := storage.Run{
		GameID:    m.game.ID(),
		Level:     m.gameState.Level - 1,
		Score:     m.gameState.Score,
		Blocks:    m.gameState.Blocks,
		MaxHeight: m.gameState.Height,
		RunID:     m.runID,
	}
	if _, err := m.store.SaveRun(run); err != nil {
		// Best-effort save, game continues regardless
		m.logger.Warn("could not save run", "game", run.GameID, "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".tower", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game. It returns true
// when the player asked to go back to the menu rather than quit.
func Run(game registry.Game, store *storage.Store, metrics registry.Metrics, cfg core.RuntimeConfig) (bool, error) {
	model := NewGameModel(game, store, cfg).WithMetrics(metrics)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	gm, ok := final.(GameModel)
	return ok && gm.BackToMenu(), nil
}
