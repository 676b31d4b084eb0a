// Package tower is the block stacking game: blocks are dropped onto a
// platform, freeze once they stay still long enough and build a tower
// towards the level target.
package tower

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tower/internal/config"
	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/level"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/stack"
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Level pack with targets and unlocks
	ModeEndless                  // No target, score until the player quits
)

// Game IDs used by the registry and score storage.
const (
	CampaignID = "tower"
	EndlessID  = "tower_endless"
)

// moveStep is how far one key press moves the held block, in world units.
const moveStep = 0.5

// configPath stores the custom config path set via CLI
var configPath string

// levelsPath stores the custom level pack path set via CLI
var levelsPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// startLevel is the 0-based level a campaign starts on
var startLevel int

// logger receives gameplay logs, discarded unless set
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLevelsPath sets the custom level pack path for loading.
func SetLevelsPath(path string) {
	levelsPath = path
}

// SetDifficultyPreset sets the difficulty preset. Empty and unknown names
// leave the configured values untouched.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetStartLevel sets the 0-based level new campaign games start on.
func SetStartLevel(index int) {
	startLevel = max(index, 0)
}

// SetLogger sets the logger used by new games.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements the tower game on top of a stack.Session.
type Game struct {
	mode GameMode

	runtime core.RuntimeConfig
	cfg     config.TowerConfig
	pack    level.Pack
	session *stack.Session
	fx      *effects
	view    core.Viewport

	levelIndex int
	selected   int // Level chosen in the picker, -1 for none
	paused     bool

	progress registry.Progress
	metrics  registry.Metrics
	log      *log.Logger

	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a new campaign game instance.
func New() *Game {
	return &Game{mode: ModeCampaign, selected: -1}
}

// NewEndless creates a new endless game instance.
func NewEndless() *Game {
	return &Game{mode: ModeEndless, selected: -1}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return EndlessID
	}
	return CampaignID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Tower (Endless)"
	}
	return "Tower"
}

// BindProgress attaches level progress storage. Call before Reset.
func (g *Game) BindProgress(p registry.Progress) {
	g.progress = p
}

// BindMetrics attaches gameplay counters. Call before Reset.
func (g *Game) BindMetrics(m registry.Metrics) {
	g.metrics = m
}

// Levels returns the campaign levels. Endless games have none.
func (g *Game) Levels() []registry.LevelInfo {
	if g.mode == ModeEndless {
		return nil
	}
	g.loadPack()
	infos := make([]registry.LevelInfo, 0, g.pack.Len())
	for _, l := range g.pack {
		infos = append(infos, registry.LevelInfo{Index: l.Index, Name: l.Name, Target: l.TargetHeight})
	}
	return infos
}

// SelectLevel chooses the level the next Reset starts on.
func (g *Game) SelectLevel(index int) {
	g.selected = index
}

func (g *Game) loadPack() {
	if g.pack != nil {
		return
	}
	pack, err := config.LoadLevels(levelsPath)
	if err != nil {
		g.logger().Warn("using default level pack", "err", err)
		pack = level.DefaultPack()
	}
	g.pack = pack
}

func (g *Game) logger() *log.Logger {
	if g.log == nil {
		g.log = logger.With("game", g.ID())
	}
	return g.log
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	lg := g.logger()

	// Load game config
	cfg, err := config.LoadTower(configPath)
	if err != nil {
		lg.Warn("using default tower config", "err", err)
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyTowerPreset(&cfg, difficultyPreset)
	}
	if err := cfg.Validate(); err != nil {
		lg.Error("invalid tower config", "err", err)
	}
	g.cfg = cfg

	g.loadPack()

	// Check screen size
	g.minScreenW = 30
	g.minScreenH = 12
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.view = core.NewViewport(runtime.ScreenW, max(runtime.ScreenH-hudRows, 1))
	g.paused = false

	if g.session != nil {
		g.session.Close()
	}
	g.fx = newEffects()

	lvl := g.resolveLevel()
	g.levelIndex = lvl.Index

	// Interface conversions keep unbound collaborators nil.
	var persistence stack.Persistence
	if g.progress != nil {
		persistence = g.progress
	}
	var observer stack.Observer
	if g.metrics != nil {
		observer = g.metrics
	}

	g.session = stack.NewSession(cfg.Session(), lvl, runtime.Seed, stack.Deps{
		Presenter:   g.fx,
		Persistence: persistence,
		Observer:    observer,
		Logger:      lg,
	})
	lg.Info("game started", "level", lvl.Name, "target", lvl.TargetHeight, "seed", runtime.Seed)
}

// resolveLevel picks the level to play: endless, the picked level or the
// start level, capped at the unlocked levels.
func (g *Game) resolveLevel() level.Config {
	if g.mode == ModeEndless {
		return level.Endless(len(g.cfg.Blocks))
	}

	index := startLevel
	if g.selected >= 0 {
		index = g.selected
	}
	if g.progress != nil {
		if unlocked, err := g.progress.UnlockedLevels(); err == nil {
			index = min(index, unlocked-1)
		} else {
			g.logger().Warn("cannot read unlocked levels", "err", err)
		}
	}
	index = core.Clamp(index, 0, g.pack.Len()-1)

	lvl, ok := g.pack.Get(index)
	if !ok {
		// Empty pack: an invalid level degrades the session instead of panicking.
		return level.Config{Name: "missing"}
	}
	return lvl
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.session.IsLevelComplete() {
		g.paused = !g.paused
	}
	if g.paused || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickSeconds()

	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	if g.session.IsLevelComplete() {
		if in.Has(core.ActionNext) || in.Has(core.ActionConfirm) {
			g.advance()
		}
		g.fx.update(dt)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionLeft) {
		g.session.MoveHeld(-moveStep)
	}
	if in.Has(core.ActionRight) {
		g.session.MoveHeld(moveStep)
	}
	if in.Has(core.ActionDrop) {
		g.session.DropHeld()
	}
	if in.Has(core.ActionUse) {
		if n := g.session.ActivateInstantFreeze(); n > 0 {
			g.fx.announce("Instant freeze!")
		}
	}

	g.session.Tick(dt)
	g.fx.update(dt)

	return core.StepResult{State: g.State()}
}

// restart replays the current level from scratch.
func (g *Game) restart() {
	g.fx.reset()
	g.paused = false
	g.session.Reset(g.session.Level())
}

// advance moves on to the next level once the current one is complete.
func (g *Game) advance() bool {
	next, ok := g.pack.Get(g.levelIndex + 1)
	if !ok || g.mode == ModeEndless {
		return false
	}
	g.levelIndex = next.Index
	g.selected = next.Index
	g.fx.reset()
	g.session.Reset(next)
	g.logger().Info("next level", "level", next.Name, "target", next.TargetHeight)
	return true
}

// hasNextLevel reports whether the campaign continues after this level.
func (g *Game) hasNextLevel() bool {
	_, ok := g.pack.Get(g.levelIndex + 1)
	return g.mode == ModeCampaign && ok
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	complete := g.session.IsLevelComplete()
	return core.GameState{
		Score:         g.session.CurrentScore(),
		Level:         g.session.Level().Number(),
		Blocks:        g.session.BlocksUsed(),
		Height:        g.session.CurrentMaxHeight(),
		LevelComplete: complete,
		GameOver:      complete && !g.hasNextLevel(),
		Paused:        g.paused,
	}
}

// Session returns the running session.
func (g *Game) Session() *stack.Session {
	return g.session
}

// Snapshot returns the session snapshot for determinism checks.
func (g *Game) Snapshot() stack.Snapshot {
	return g.session.Snapshot()
}

// Close releases the physics bodies of the session.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Close()
	}
}

func init() {
	registry.Register(CampaignID, func() registry.Game {
		return New()
	})
	registry.Register(EndlessID, func() registry.Game {
		return NewEndless()
	})
}
