package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the tunables of a Space.
type Config struct {
	Gravity         float64 // Vertical acceleration, negative is down
	Iterations      int     // Contact resolution passes per step
	ImpactThreshold float64 // Minimum approach speed reported as an impact
	SleepSpeed      float64 // Speeds below this are snapped to zero after a step
}

// DefaultConfig returns the default world tunables.
func DefaultConfig() Config {
	return Config{
		Gravity:         -9.81,
		Iterations:      8,
		ImpactThreshold: 0.6,
		SleepSpeed:      0.02,
	}
}

type body struct {
	pos       mgl64.Vec2
	vel       mgl64.Vec2
	force     mgl64.Vec2
	half      mgl64.Vec2
	invMass   float64
	drag      float64
	friction  float64
	gravity   bool
	kinematic bool
	static    bool
}

func (b *body) immovable() bool {
	return b.static || b.kinematic
}

func (b *body) inverseMass() float64 {
	if b.immovable() {
		return 0
	}
	return b.invMass
}

// Space is a deterministic 2D world of axis-aligned boxes.
// Bodies are integrated with semi-implicit Euler and contacts are
// resolved along the axis of least penetration with zero restitution.
type Space struct {
	cfg     Config
	bodies  map[Handle]*body
	order   []Handle // Ascending creation order, for deterministic iteration
	next    Handle
	impacts []Impact
}

// NewSpace creates an empty world.
func NewSpace(cfg Config) *Space {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	return &Space{
		cfg:    cfg,
		bodies: make(map[Handle]*body),
		next:   1,
	}
}

// CreateBody adds a body and returns its handle.
func (s *Space) CreateBody(def BodyDef) Handle {
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}
	h := s.next
	s.next++
	s.bodies[h] = &body{
		pos:      def.Position,
		half:     def.HalfSize,
		invMass:  1 / mass,
		drag:     def.Drag,
		friction: def.Friction,
		gravity:  !def.Static,
		static:   def.Static,
	}
	s.order = append(s.order, h)
	return h
}

// RemoveBody deletes a body. Unknown handles are ignored.
func (s *Space) RemoveBody(h Handle) {
	if _, ok := s.bodies[h]; !ok {
		return
	}
	delete(s.bodies, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Exists reports whether the handle refers to a live body.
func (s *Space) Exists(h Handle) bool {
	_, ok := s.bodies[h]
	return ok
}

// Len returns the number of live bodies.
func (s *Space) Len() int {
	return len(s.bodies)
}

// SetKinematic toggles whether a body is immovable.
func (s *Space) SetKinematic(h Handle, kinematic bool) {
	if b, ok := s.bodies[h]; ok {
		b.kinematic = kinematic
		if kinematic {
			b.vel = mgl64.Vec2{}
			b.force = mgl64.Vec2{}
		}
	}
}

// SetGravity toggles gravity for a body.
func (s *Space) SetGravity(h Handle, enabled bool) {
	if b, ok := s.bodies[h]; ok {
		b.gravity = enabled
	}
}

// ApplyForce accumulates a force for the next step. Immovable bodies ignore it.
func (s *Space) ApplyForce(h Handle, force mgl64.Vec2) {
	if b, ok := s.bodies[h]; ok && !b.immovable() {
		b.force = b.force.Add(force)
	}
}

// Velocity returns the current velocity of a body.
func (s *Space) Velocity(h Handle) mgl64.Vec2 {
	if b, ok := s.bodies[h]; ok {
		return b.vel
	}
	return mgl64.Vec2{}
}

// SetVelocity overrides the velocity of a body.
func (s *Space) SetVelocity(h Handle, v mgl64.Vec2) {
	if b, ok := s.bodies[h]; ok && !b.static {
		b.vel = v
	}
}

// Position returns the centre of a body.
func (s *Space) Position(h Handle) mgl64.Vec2 {
	if b, ok := s.bodies[h]; ok {
		return b.pos
	}
	return mgl64.Vec2{}
}

// SetPosition teleports a body.
func (s *Space) SetPosition(h Handle, p mgl64.Vec2) {
	if b, ok := s.bodies[h]; ok {
		b.pos = p
	}
}

// Impacts returns the impacts of the last step.
func (s *Space) Impacts() []Impact {
	return s.impacts
}

// Step advances the world by dt seconds.
func (s *Space) Step(dt float64) {
	s.impacts = s.impacts[:0]
	if dt <= 0 {
		return
	}

	for _, h := range s.order {
		b := s.bodies[h]
		if b.immovable() {
			b.force = mgl64.Vec2{}
			continue
		}
		acc := b.force.Mul(b.invMass)
		if b.gravity {
			acc = acc.Add(mgl64.Vec2{0, s.cfg.Gravity})
		}
		b.vel = b.vel.Add(acc.Mul(dt))
		if b.drag > 0 {
			b.vel = b.vel.Mul(1 / (1 + b.drag*dt))
		}
		b.pos = b.pos.Add(b.vel.Mul(dt))
		b.force = mgl64.Vec2{}
	}

	for iter := 0; iter < s.cfg.Iterations; iter++ {
		for i := 0; i < len(s.order); i++ {
			for j := i + 1; j < len(s.order); j++ {
				s.resolve(s.order[i], s.order[j], iter == 0)
			}
		}
	}

	if s.cfg.SleepSpeed > 0 {
		for _, h := range s.order {
			b := s.bodies[h]
			if !b.immovable() && b.vel.Len() < s.cfg.SleepSpeed {
				b.vel = mgl64.Vec2{}
			}
		}
	}
}

// resolve separates two overlapping bodies and removes their approach velocity.
func (s *Space) resolve(ha, hb Handle, record bool) {
	a, b := s.bodies[ha], s.bodies[hb]
	invA, invB := a.inverseMass(), b.inverseMass()
	total := invA + invB
	if total == 0 {
		return
	}

	d := b.pos.Sub(a.pos)
	px := a.half.X() + b.half.X() - math.Abs(d.X())
	if px <= 0 {
		return
	}
	py := a.half.Y() + b.half.Y() - math.Abs(d.Y())
	if py <= 0 {
		return
	}

	var normal, tangent mgl64.Vec2
	var depth float64
	if px < py {
		depth = px
		normal = mgl64.Vec2{sign(d.X()), 0}
		tangent = mgl64.Vec2{0, 1}
	} else {
		depth = py
		normal = mgl64.Vec2{0, sign(d.Y())}
		tangent = mgl64.Vec2{1, 0}
	}

	a.pos = a.pos.Sub(normal.Mul(depth * invA / total))
	b.pos = b.pos.Add(normal.Mul(depth * invB / total))

	rel := b.vel.Sub(a.vel)
	vn := rel.Dot(normal)
	if vn >= 0 {
		return
	}
	if record && -vn >= s.cfg.ImpactThreshold {
		s.impacts = append(s.impacts, Impact{A: ha, B: hb, Speed: -vn})
	}

	jn := -vn / total
	a.vel = a.vel.Sub(normal.Mul(jn * invA))
	b.vel = b.vel.Add(normal.Mul(jn * invB))

	// Coulomb friction on the tangent, bounded by the normal impulse.
	mu := (a.friction + b.friction) / 2
	if mu <= 0 {
		return
	}
	rel = b.vel.Sub(a.vel)
	vt := rel.Dot(tangent)
	jt := -vt / total
	limit := mu * jn
	if jt > limit {
		jt = limit
	} else if jt < -limit {
		jt = -limit
	}
	a.vel = a.vel.Sub(tangent.Mul(jt * invA))
	b.vel = b.vel.Add(tangent.Mul(jt * invB))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

var _ World = (*Space)(nil)
