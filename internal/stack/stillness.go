package stack

import "github.com/go-gl/mathgl/mgl64"

// timeEpsilon absorbs float drift from accumulating dt, so thirty 0.1s
// ticks reach a 3s delay.
const timeEpsilon = 1e-6

// StillnessDetector accumulates how long a block has stayed put.
type StillnessDetector struct {
	PositionEpsilon float64
	VelocityEpsilon float64

	ref   mgl64.Vec2
	timer float64
}

// NewStillnessDetector creates a detector with the given thresholds.
func NewStillnessDetector(posEps, velEps float64) StillnessDetector {
	return StillnessDetector{PositionEpsilon: posEps, VelocityEpsilon: velEps}
}

// Arm starts tracking from pos with a zero timer.
func (d *StillnessDetector) Arm(pos mgl64.Vec2) {
	d.ref = pos
	d.timer = 0
}

// Sample feeds one tick. Movement is present when the position drifted more
// than PositionEpsilon from the reference or the speed exceeds
// VelocityEpsilon; it resets the timer and moves the reference. Otherwise the
// timer grows by dt. Returns whether movement was present.
func (d *StillnessDetector) Sample(dt float64, pos, vel mgl64.Vec2) bool {
	if pos.Sub(d.ref).Len() > d.PositionEpsilon || vel.Len() > d.VelocityEpsilon {
		d.ref = pos
		d.timer = 0
		return true
	}
	d.timer += dt
	return false
}

// Reset zeroes the timer, e.g. after a collision impact.
func (d *StillnessDetector) Reset(pos mgl64.Vec2) {
	d.ref = pos
	d.timer = 0
}

// Elapsed returns the accumulated still time.
func (d *StillnessDetector) Elapsed() float64 {
	return d.timer
}

// ShouldFreeze reports whether the still time reached delay.
func (d *StillnessDetector) ShouldFreeze(delay float64) bool {
	return d.timer+timeEpsilon >= delay
}
