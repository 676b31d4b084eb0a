package stack

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

const platformHalfHeight = 0.5

// Simulator owns the blocks of a session and their bodies in the world.
type Simulator struct {
	cfg   Config
	world physics.World

	types    []BlockType
	blocks   []*Block // Dropped and frozen blocks, in drop order
	held     *Block
	platform physics.Handle

	nextID     BlockID
	blocksUsed int
	baseHeight float64
	maxHeight  float64

	spawnPending bool
	spawnTimer   float64
	pruneTimer   float64

	rng *rand.Rand
}

// NewSimulator creates an empty simulator bound to world.
func NewSimulator(cfg Config, world physics.World) *Simulator {
	return &Simulator{cfg: cfg, world: world, rng: rand.New(rand.NewSource(1))} //#nosec G404 -- gameplay randomness
}

// reset destroys every body and rebuilds the platform at base.
func (s *Simulator) reset(base float64, types []BlockType, seed int64) {
	s.clear()
	s.types = types
	s.baseHeight = base
	s.maxHeight = base
	s.blocksUsed = 0
	s.spawnPending = true
	s.spawnTimer = 0
	s.pruneTimer = 0
	s.rng = rand.New(rand.NewSource(seed)) //#nosec G404 -- gameplay randomness
	s.platform = s.world.CreateBody(physics.BodyDef{
		Position: mgl64.Vec2{0, base - platformHalfHeight},
		HalfSize: mgl64.Vec2{s.cfg.PlatformHalfWidth, platformHalfHeight},
		Friction: 1,
		Static:   true,
	})
}

// clear removes every body owned by the simulator. Safe to call repeatedly.
func (s *Simulator) clear() {
	for _, b := range s.blocks {
		s.world.RemoveBody(b.handle)
	}
	s.blocks = nil
	s.held = nil
	if s.platform != physics.NoHandle {
		s.world.RemoveBody(s.platform)
		s.platform = physics.NoHandle
	}
}

// spawnPoint is above the level base and clear of the tower.
func (s *Simulator) spawnPoint() mgl64.Vec2 {
	y := math.Max(s.baseHeight+s.cfg.SpawnHeight, s.maxHeight+s.cfg.SpawnClearance)
	return mgl64.Vec2{0, y}
}

// countdown advances the spawn timer and reports whether a spawn is due.
func (s *Simulator) countdown(dt float64) bool {
	if !s.spawnPending || s.held != nil {
		return false
	}
	s.spawnTimer -= dt
	return s.spawnTimer <= timeEpsilon
}

// spawn creates a held block of a random unlocked type.
func (s *Simulator) spawn(raining bool) (*Block, error) {
	if s.held != nil {
		return s.held, nil
	}
	if len(s.types) == 0 {
		return nil, &ConfigError{Field: "block_types", Reason: "no block types unlocked"}
	}
	idx := s.rng.Intn(len(s.types))
	s.nextID++
	b := &Block{
		id:           s.nextID,
		typeIndex:    idx,
		kind:         s.types[idx],
		state:        Held,
		pos:          s.spawnPoint(),
		baseDelay:    s.cfg.FreezeDelay,
		rainyAtSpawn: raining,
		still:        NewStillnessDetector(s.cfg.PositionEpsilon, s.cfg.VelocityEpsilon),
	}
	s.held = b
	s.spawnPending = false
	return b, nil
}

// moveHeld shifts the held block laterally, clamped to the bounds.
func (s *Simulator) moveHeld(dx float64) bool {
	if s.held == nil {
		return false
	}
	limit := math.Max(0, s.cfg.LateralBound-s.held.HalfSize().X())
	x := mgl64.Clamp(s.held.pos.X()+dx, -limit, limit)
	s.held.pos = mgl64.Vec2{x, s.held.pos.Y()}
	return true
}

// drop hands the held block to the physics world.
func (s *Simulator) drop(dragMultiplier, delayMultiplier float64) *Block {
	b := s.held
	if b == nil {
		return nil
	}
	b.drag = b.kind.Drag * dragMultiplier
	b.baseDelay *= delayMultiplier
	b.handle = s.world.CreateBody(physics.BodyDef{
		Position: b.pos,
		HalfSize: b.HalfSize(),
		Mass:     b.kind.Mass,
		Drag:     b.drag,
		Friction: b.kind.Friction,
	})
	s.world.SetGravity(b.handle, true)
	s.world.SetVelocity(b.handle, mgl64.Vec2{})
	b.vel = mgl64.Vec2{}
	b.state = Dropped
	b.still.Arm(b.pos)

	s.blocks = append(s.blocks, b)
	s.held = nil
	s.blocksUsed++
	s.spawnPending = true
	s.spawnTimer = s.cfg.SpawnDelay
	return b
}

// activeHandles returns the bodies of dropped, unfrozen blocks.
func (s *Simulator) activeHandles() []physics.Handle {
	var hs []physics.Handle
	for _, b := range s.blocks {
		if b.Active() {
			hs = append(hs, b.handle)
		}
	}
	return hs
}

// sync copies positions and velocities of active blocks from the world.
func (s *Simulator) sync() {
	for _, b := range s.blocks {
		if b.Active() {
			b.pos = s.world.Position(b.handle)
			b.vel = s.world.Velocity(b.handle)
		}
	}
}

// settle feeds the stillness detectors and freezes blocks that stayed
// still long enough. Blocks involved in an impact restart their timer.
func (s *Simulator) settle(dt float64, raining bool, rainMultiplier float64, impacts []physics.Impact) []*Block {
	var frozen []*Block
	for _, b := range s.blocks {
		if !b.Active() {
			continue
		}
		b.still.Sample(dt, b.pos, b.vel)
		for _, imp := range impacts {
			if imp.Involves(b.handle) {
				b.still.Reset(b.pos)
				break
			}
		}
		if b.still.ShouldFreeze(b.FreezeDelay(raining, rainMultiplier)) {
			s.freeze(b)
			frozen = append(frozen, b)
		}
	}
	return frozen
}

// freeze pins a dropped block in place. Frozen is terminal.
func (s *Simulator) freeze(b *Block) bool {
	if !b.Active() {
		return false
	}
	s.world.SetVelocity(b.handle, mgl64.Vec2{})
	s.world.SetKinematic(b.handle, true)
	b.pos = s.world.Position(b.handle)
	b.vel = mgl64.Vec2{}
	b.state = Frozen
	return true
}

// prune removes blocks that fell below the despawn depth, at most once per
// prune interval.
func (s *Simulator) prune(dt float64) []*Block {
	s.pruneTimer += dt
	if s.pruneTimer+timeEpsilon < s.cfg.PruneInterval {
		return nil
	}
	s.pruneTimer = 0

	floor := s.baseHeight - s.cfg.DespawnDepth
	var removed []*Block
	kept := s.blocks[:0]
	for _, b := range s.blocks {
		if b.pos.Y() < floor {
			s.world.RemoveBody(b.handle)
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	s.blocks = kept
	return removed
}

// updateHeight raises the max height to the highest frozen block.
func (s *Simulator) updateHeight() bool {
	raised := false
	for _, b := range s.blocks {
		if b.state == Frozen && b.pos.Y() > s.maxHeight {
			s.maxHeight = b.pos.Y()
			raised = true
		}
	}
	return raised
}

// find returns the block with the given id.
func (s *Simulator) find(id BlockID) *Block {
	if s.held != nil && s.held.id == id {
		return s.held
	}
	for _, b := range s.blocks {
		if b.id == id {
			return b
		}
	}
	return nil
}
