package stack

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

// BlockID identifies a block within a session.
type BlockID uint64

// State is the lifecycle state of a block.
type State int

const (
	Held    State = iota // Positioned by the player, not simulated
	Dropped              // Simulated, waiting to settle
	Frozen               // Part of the permanent tower
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Held:
		return "held"
	case Dropped:
		return "dropped"
	case Frozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// BlockType describes one kind of block in the catalog.
type BlockType struct {
	Name     string
	Width    float64
	Height   float64
	Mass     float64
	Drag     float64
	Friction float64
	Glyph    rune // Fill character when rendered
}

// HalfSize returns the half extents of the type.
func (t BlockType) HalfSize() mgl64.Vec2 {
	return mgl64.Vec2{t.Width / 2, t.Height / 2}
}

// Block is a single stackable piece.
type Block struct {
	id        BlockID
	typeIndex int
	kind      BlockType
	state     State
	handle    physics.Handle // Assigned on drop

	pos mgl64.Vec2
	vel mgl64.Vec2

	drag         float64
	baseDelay    float64 // Freeze delay including the glue factor
	rainyAtSpawn bool
	still        StillnessDetector
}

// ID returns the block identifier.
func (b *Block) ID() BlockID { return b.id }

// TypeIndex returns the index of the block type in the catalog.
func (b *Block) TypeIndex() int { return b.typeIndex }

// Kind returns the block type.
func (b *Block) Kind() BlockType { return b.kind }

// State returns the lifecycle state.
func (b *Block) State() State { return b.state }

// Handle returns the physics handle, physics.NoHandle while held.
func (b *Block) Handle() physics.Handle { return b.handle }

// Position returns the centre of the block.
func (b *Block) Position() mgl64.Vec2 { return b.pos }

// Velocity returns the last sampled velocity.
func (b *Block) Velocity() mgl64.Vec2 { return b.vel }

// HalfSize returns the half extents.
func (b *Block) HalfSize() mgl64.Vec2 { return b.kind.HalfSize() }

// Box returns the bounding box.
func (b *Block) Box() physics.AABB {
	return physics.AABB{Center: b.pos, HalfSize: b.HalfSize()}
}

// StillTime returns the accumulated still time.
func (b *Block) StillTime() float64 { return b.still.Elapsed() }

// RainyAtSpawn reports whether the block spawned in the rain.
func (b *Block) RainyAtSpawn() bool { return b.rainyAtSpawn }

// FreezeDelay returns the effective freeze delay. The rain multiplier
// applies when the block spawned in the rain or it is raining now.
func (b *Block) FreezeDelay(rainingNow bool, rainMultiplier float64) float64 {
	if b.rainyAtSpawn || rainingNow {
		return b.baseDelay * rainMultiplier
	}
	return b.baseDelay
}

// Active reports whether the block is dropped and not yet frozen.
func (b *Block) Active() bool {
	return b.state == Dropped
}
