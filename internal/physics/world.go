// Package physics provides the narrow rigid-body capability the stacking
// simulation consumes, plus a built-in axis-aligned box world implementing it.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Handle identifies a body inside a World. Handles are never reused.
type Handle uint64

// NoHandle is the zero handle; no body ever has it.
const NoHandle Handle = 0

// BodyDef describes a body to create.
type BodyDef struct {
	Position mgl64.Vec2 // Centre of the box
	HalfSize mgl64.Vec2 // Half extents
	Mass     float64    // <= 0 is treated as 1
	Drag     float64    // Linear damping per second
	Friction float64    // Tangential friction coefficient on contact
	Static   bool       // Static bodies never move (platforms)
}

// Impact is reported when two bodies meet faster than the world's impact threshold.
type Impact struct {
	A, B  Handle
	Speed float64 // Approach speed along the contact normal
}

// Involves reports whether h is one of the two bodies of the impact.
func (i Impact) Involves(h Handle) bool {
	return i.A == h || i.B == h
}

// World is the physics capability used by the simulation.
// Operations on unknown handles are ignored; RemoveBody is idempotent.
type World interface {
	CreateBody(def BodyDef) Handle
	RemoveBody(h Handle)
	Exists(h Handle) bool

	// SetKinematic makes a body immovable: it ignores gravity and forces
	// but still blocks other bodies.
	SetKinematic(h Handle, kinematic bool)
	SetGravity(h Handle, enabled bool)

	ApplyForce(h Handle, force mgl64.Vec2)
	Velocity(h Handle) mgl64.Vec2
	SetVelocity(h Handle, v mgl64.Vec2)
	Position(h Handle) mgl64.Vec2
	SetPosition(h Handle, p mgl64.Vec2)

	// Step advances the simulation by dt seconds.
	Step(dt float64)

	// Impacts returns the impacts recorded during the last Step.
	Impacts() []Impact
}

// ForceApplier is the subset of World needed to push bodies around.
type ForceApplier interface {
	ApplyForce(h Handle, force mgl64.Vec2)
}

// AABB is an axis-aligned box given by its centre and half extents.
type AABB struct {
	Center   mgl64.Vec2
	HalfSize mgl64.Vec2
}

// Min returns the bottom-left corner.
func (b AABB) Min() mgl64.Vec2 {
	return b.Center.Sub(b.HalfSize)
}

// Max returns the top-right corner.
func (b AABB) Max() mgl64.Vec2 {
	return b.Center.Add(b.HalfSize)
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (b AABB) Overlaps(o AABB) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := o.Min(), o.Max()
	if bMin.X() >= oMax.X() || oMin.X() >= bMax.X() {
		return false
	}
	if bMin.Y() >= oMax.Y() || oMin.Y() >= bMax.Y() {
		return false
	}
	return true
}
