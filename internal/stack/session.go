// Package stack implements the block stacking simulation: held blocks are
// dropped into a physics world, settle, freeze into a permanent tower, and
// raise the score as the tower grows.
package stack

import (
	"errors"
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tower/internal/level"
	"github.com/vovakirdan/tui-tower/internal/physics"
	"github.com/vovakirdan/tui-tower/internal/powerup"
	"github.com/vovakirdan/tui-tower/internal/score"
	"github.com/vovakirdan/tui-tower/internal/weather"
)

// Deps are the collaborators of a session. Every field is optional.
type Deps struct {
	World       physics.World // Defaults to a built-in physics.Space
	Presenter   Presenter
	Persistence Persistence
	Observer    Observer
	Logger      *log.Logger
}

// Session is one play session of one level. All methods are safe for
// concurrent use; a tick and a reset never interleave.
type Session struct {
	mu sync.Mutex

	cfg   Config
	world physics.World
	sim   *Simulator

	presenter   Presenter
	persistence Persistence
	observer    Observer
	log         *log.Logger

	level    level.Config
	keeper   score.Keeper
	weather  *weather.Field
	powerups *powerup.Manager
	seeds    *rand.Rand

	tick       uint64
	elapsed    float64
	complete   bool
	finalScore int
	outcome    *score.Outcome

	configErr error
	reported  bool
}

// NewSession creates a session and resets it to lvl.
func NewSession(cfg Config, lvl level.Config, seed int64, deps Deps) *Session {
	s := &Session{
		cfg:         cfg,
		world:       deps.World,
		presenter:   deps.Presenter,
		persistence: deps.Persistence,
		observer:    deps.Observer,
		log:         deps.Logger,
		keeper:      score.NewKeeper(cfg.PointsPerUnit),
		seeds:       rand.New(rand.NewSource(seed)), //#nosec G404 -- gameplay randomness
	}
	if s.world == nil {
		s.world = physics.NewSpace(cfg.Physics)
	}
	if s.presenter == nil {
		s.presenter = nopPresenter{}
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	s.sim = NewSimulator(cfg, s.world)
	s.weather = weather.NewField(cfg.Weather, lvl.WeatherRules(), 0, lvl.BaseHeight)
	s.powerups = powerup.NewManager(cfg.PowerUps, 0, lvl.BaseHeight)
	s.Reset(lvl)
	return s
}

// Reset destroys every block, including the held one, and restarts on lvl.
// The next tick spawns a new held block.
func (s *Session) Reset(lvl level.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = lvl
	s.tick = 0
	s.elapsed = 0
	s.complete = false
	s.finalScore = 0
	s.outcome = nil
	s.configErr = nil
	s.reported = false

	s.sim.reset(lvl.BaseHeight, s.unlockedTypes(lvl), s.seeds.Int63())
	s.weather.Reset(lvl.WeatherRules(), s.seeds.Int63(), lvl.BaseHeight)
	s.powerups.Reset(s.seeds.Int63(), lvl.BaseHeight)

	if err := lvl.Validate(); err != nil {
		s.reportConfig(&ConfigError{Field: "level", Reason: "invalid level", Err: err})
	} else if len(s.sim.types) == 0 {
		s.reportConfig(&ConfigError{Field: "block_types", Reason: "no block types unlocked"})
	}

	s.log.Debug("session reset", "level", lvl.Name, "base", lvl.BaseHeight, "target", lvl.TargetHeight)
	s.presenter.WeatherChanged(s.weather.Kind(), s.weather.Direction())
}

// Close removes every body from the world. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.clear()
}

func (s *Session) unlockedTypes(lvl level.Config) []BlockType {
	n := min(lvl.BlockTypes, len(s.cfg.BlockTypes))
	if n <= 0 {
		return nil
	}
	return s.cfg.BlockTypes[:n]
}

// reportConfig records a configuration error and logs it once.
func (s *Session) reportConfig(err error) {
	s.configErr = err
	if !s.reported {
		s.reported = true
		s.log.Error("configuration error, spawning disabled", "err", err)
	}
}

// SetBlockTypes replaces the unlocked block types. A non-empty list clears a
// pending block type configuration error.
func (s *Session) SetBlockTypes(types []BlockType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.types = types
	var cerr *ConfigError
	if len(types) > 0 && errors.As(s.configErr, &cerr) && cerr.Field == "block_types" {
		s.configErr = nil
		s.reported = false
	}
}

// RequestSpawn creates a held block immediately. It is a no-op when a block
// is already held, the level is complete or spawning is disabled.
func (s *Session) RequestSpawn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete || s.sim.held != nil {
		return false
	}
	return s.spawnLocked()
}

func (s *Session) spawnLocked() bool {
	if s.configErr != nil {
		return false
	}
	b, err := s.sim.spawn(s.weather.Kind() == weather.Rainy)
	if err != nil {
		s.reportConfig(err)
		return false
	}
	s.log.Debug("block spawned", "id", b.id, "type", b.kind.Name)
	return true
}

// MoveHeld shifts the held block laterally by dx. It is a no-op without a
// held block.
func (s *Session) MoveHeld(dx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return false
	}
	return s.sim.moveHeld(dx)
}

// DropHeld releases the held block into the world. It is a no-op without a
// held block.
func (s *Session) DropHeld() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return false
	}
	b := s.sim.drop(s.powerups.DragMultiplier(), s.powerups.FreezeMultiplier())
	if b == nil {
		return false
	}
	s.observer.BlockDropped()
	s.log.Debug("block dropped", "id", b.id, "x", b.pos.X(), "y", b.pos.Y())
	return true
}

// ForceFreeze freezes a dropped block immediately. It is a no-op once the
// level is complete.
func (s *Session) ForceFreeze(id BlockID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return false
	}
	b := s.sim.find(id)
	if b == nil || !s.sim.freeze(b) {
		return false
	}
	s.frozeLocked(b)
	s.sim.updateHeight()
	s.checkCompleteLocked()
	return true
}

// ActivateInstantFreeze spends a freeze charge to freeze every block in
// motion. Returns how many blocks froze; no charge is spent when nothing is
// in motion.
func (s *Session) ActivateInstantFreeze() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete || len(s.sim.activeHandles()) == 0 || !s.powerups.UseCharge() {
		return 0
	}
	n := 0
	for _, b := range s.sim.blocks {
		if s.sim.freeze(b) {
			s.frozeLocked(b)
			n++
		}
	}
	s.log.Info("instant freeze", "blocks", n)
	s.sim.updateHeight()
	s.checkCompleteLocked()
	return n
}

func (s *Session) frozeLocked(b *Block) {
	s.presenter.FreezeVisual(b.id)
	s.observer.BlockFrozen()
	s.log.Debug("block frozen", "id", b.id, "y", b.pos.Y())
}

// Tick advances the session by dt seconds. Once the level is complete,
// ticks are ignored until the next reset.
func (s *Session) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt <= 0 || s.complete {
		return
	}
	s.tick++
	s.elapsed += dt

	if s.sim.countdown(dt) {
		s.spawnLocked()
	}

	for _, kind := range s.powerups.Update(dt) {
		s.log.Debug("effect expired", "effect", kind)
	}

	if ev := s.weather.Update(dt, s.sim.maxHeight); ev.Any() {
		s.log.Debug("weather changed", "kind", s.weather.Kind(), "direction", s.weather.Direction())
		s.presenter.WeatherChanged(s.weather.Kind(), s.weather.Direction())
	}

	s.weather.Apply(s.world, s.sim.activeHandles())
	s.world.Step(dt)
	s.sim.sync()

	if s.level.Hazards.PowerUps {
		for _, b := range s.sim.blocks {
			if !b.Active() {
				continue
			}
			if kind, ok := s.powerups.Collect(b.Box()); ok {
				s.powerups.Grant(kind)
				s.log.Info("power-up collected", "kind", kind)
			}
		}
	}

	raining := s.weather.Kind() == weather.Rainy
	for _, b := range s.sim.settle(dt, raining, s.weather.RainMultiplier(), s.world.Impacts()) {
		s.frozeLocked(b)
	}

	for _, b := range s.sim.prune(dt) {
		s.observer.BlockDespawned()
		s.log.Debug("block despawned", "id", b.id, "y", b.pos.Y())
	}

	s.sim.updateHeight()
	if s.level.Hazards.PowerUps {
		s.powerups.Populate(s.sim.maxHeight, s.cfg.LateralBound)
	}
	s.checkCompleteLocked()
}

func (s *Session) checkCompleteLocked() {
	if s.complete || !s.isCompleteLocked() {
		return
	}
	s.finalScore = s.keeper.Score(s.sim.maxHeight, s.sim.blocksUsed)
	s.complete = true
	s.log.Info("level complete", "level", s.level.Name, "score", s.finalScore, "blocks", s.sim.blocksUsed)

	if s.persistence != nil && s.level.Index >= 0 {
		out, err := score.Record(s.persistence, s.level.Index, s.finalScore)
		if err != nil {
			s.log.Warn("failed to record progress", "err", err)
		} else {
			s.outcome = &out
		}
	}
	s.observer.LevelCompleted(s.level.Index, s.finalScore)
	s.presenter.LevelComplete(s.finalScore)
}

func (s *Session) isCompleteLocked() bool {
	return score.IsLevelComplete(s.level.LevelMode(), s.sim.maxHeight, s.level.TargetHeight)
}

func (s *Session) scoreLocked() int {
	if s.complete {
		return s.finalScore
	}
	return s.keeper.Score(s.sim.maxHeight, s.sim.blocksUsed)
}

// CurrentScore returns round(maxHeight * pointsPerUnit) - blocksUsed.
func (s *Session) CurrentScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked()
}

// CurrentMaxHeight returns the height of the highest frozen block, or the
// level base when nothing froze yet.
func (s *Session) CurrentMaxHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.maxHeight
}

// IsLevelComplete reports whether the tower reached the target height.
// Endless sessions never complete.
func (s *Session) IsLevelComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCompleteLocked()
}

// BlocksUsed returns how many blocks were dropped.
func (s *Session) BlocksUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.blocksUsed
}

// Level returns the current level.
func (s *Session) Level() level.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Outcome returns the recorded progress once the level completed.
func (s *Session) Outcome() (score.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return score.Outcome{}, false
	}
	return *s.outcome, true
}

// Err returns the pending configuration error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configErr
}

// Elapsed returns the simulated seconds since the last reset.
func (s *Session) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Blocks returns copies of the dropped and frozen blocks.
func (s *Session) Blocks() []Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Block, 0, len(s.sim.blocks))
	for _, b := range s.sim.blocks {
		out = append(out, *b)
	}
	return out
}

// Held returns a copy of the held block.
func (s *Session) Held() (Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim.held == nil {
		return Block{}, false
	}
	return *s.sim.held, true
}

// WeatherView is a read-only view of the weather.
type WeatherView struct {
	Kind      weather.Kind
	Band      int
	Direction int
	Countdown float64
	Force     float64 // Lateral force currently applied
}

// Weather returns the current weather.
func (s *Session) Weather() WeatherView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WeatherView{
		Kind:      s.weather.Kind(),
		Band:      s.weather.Band(),
		Direction: s.weather.Direction(),
		Countdown: s.weather.Countdown(),
		Force:     s.weather.Force().X(),
	}
}

// PowerUpView is a read-only view of pickups and effects.
type PowerUpView struct {
	Pickups       []powerup.Pickup
	GlueRemaining float64
	FreezeCharges int
}

// PowerUps returns the active pickups and effects.
func (s *Session) PowerUps() PowerUpView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := PowerUpView{
		GlueRemaining: s.powerups.Remaining(powerup.Glue),
		FreezeCharges: s.powerups.Charges(),
	}
	for _, p := range s.powerups.Pickups {
		if p.Active {
			v.Pickups = append(v.Pickups, *p)
		}
	}
	return v
}

// Config returns the session tunables.
func (s *Session) Config() Config {
	return s.cfg
}
