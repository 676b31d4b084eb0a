package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60.0

func newTestSpace() *Space {
	return NewSpace(DefaultConfig())
}

func platform(s *Space) Handle {
	return s.CreateBody(BodyDef{
		Position: mgl64.Vec2{0, -0.5},
		HalfSize: mgl64.Vec2{10, 0.5},
		Static:   true,
		Friction: 0.8,
	})
}

func TestSpaceGravityFall(t *testing.T) {
	s := newTestSpace()
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 10}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1})

	for iter := 0; iter < 60; iter++ {
		s.Step(dt)
	}

	pos := s.Position(h)
	assert.Less(t, pos.Y(), 10.0, "body should fall under gravity")
	assert.Less(t, s.Velocity(h).Y(), 0.0)
	assert.InDelta(t, 0.0, pos.X(), 1e-9, "no lateral drift without forces")
}

func TestSpaceBodySettlesOnPlatform(t *testing.T) {
	s := newTestSpace()
	platform(s)
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 3}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1, Friction: 0.8})

	for iter := 0; iter < 300; iter++ {
		s.Step(dt)
	}

	assert.InDelta(t, 0.5, s.Position(h).Y(), 0.01, "box should rest on top of the platform")
	assert.InDelta(t, 0.0, s.Velocity(h).Len(), 0.1, "resting box should be still")
}

func TestSpaceImpactReported(t *testing.T) {
	s := newTestSpace()
	p := platform(s)
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 4}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1})

	var hit bool
	for iter := 0; iter < 120; iter++ {
		s.Step(dt)
		for _, imp := range s.Impacts() {
			if imp.Involves(h) && imp.Involves(p) {
				hit = true
				assert.GreaterOrEqual(t, imp.Speed, DefaultConfig().ImpactThreshold)
			}
		}
	}
	assert.True(t, hit, "landing should be reported as an impact")
}

func TestSpaceKinematicIgnoresForces(t *testing.T) {
	s := newTestSpace()
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 5}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1})
	s.SetVelocity(h, mgl64.Vec2{3, 3})
	s.SetKinematic(h, true)

	s.ApplyForce(h, mgl64.Vec2{100, 0})
	for iter := 0; iter < 30; iter++ {
		s.Step(dt)
	}

	assert.Equal(t, mgl64.Vec2{0, 5}, s.Position(h))
	assert.Equal(t, mgl64.Vec2{}, s.Velocity(h))
}

func TestSpaceKinematicBlocksOthers(t *testing.T) {
	s := newTestSpace()
	base := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 0}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1})
	s.SetKinematic(base, true)
	top := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 2}, HalfSize: mgl64.Vec2{1, 0.5}, Mass: 1})

	for iter := 0; iter < 240; iter++ {
		s.Step(dt)
	}

	assert.Equal(t, mgl64.Vec2{0, 0}, s.Position(base), "kinematic body must not be pushed")
	assert.InDelta(t, 1.0, s.Position(top).Y(), 0.01)
}

func TestSpaceForceMovesLaterally(t *testing.T) {
	s := newTestSpace()
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 0}, HalfSize: mgl64.Vec2{0.5, 0.5}, Mass: 2})
	s.SetGravity(h, false)

	s.ApplyForce(h, mgl64.Vec2{4, 0})
	s.Step(1)

	// a = F/m = 2, v = 2 after one second, x = 2 with semi-implicit Euler
	assert.InDelta(t, 2.0, s.Velocity(h).X(), 1e-9)
	assert.InDelta(t, 2.0, s.Position(h).X(), 1e-9)

	s.Step(1)
	assert.InDelta(t, 2.0, s.Velocity(h).X(), 1e-9, "forces are cleared after each step")
}

func TestSpaceDragDamps(t *testing.T) {
	s := newTestSpace()
	h := s.CreateBody(BodyDef{Position: mgl64.Vec2{0, 0}, HalfSize: mgl64.Vec2{0.5, 0.5}, Mass: 1, Drag: 1})
	s.SetGravity(h, false)
	s.SetVelocity(h, mgl64.Vec2{4, 0})

	s.Step(1)

	assert.InDelta(t, 2.0, s.Velocity(h).X(), 1e-9)
}

func TestSpaceRemoveBodyIdempotent(t *testing.T) {
	s := newTestSpace()
	h := s.CreateBody(BodyDef{HalfSize: mgl64.Vec2{1, 1}})
	require.True(t, s.Exists(h))

	s.RemoveBody(h)
	s.RemoveBody(h)
	s.RemoveBody(Handle(999))

	assert.False(t, s.Exists(h))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, mgl64.Vec2{}, s.Position(h))
}

func TestSpaceHandlesNotReused(t *testing.T) {
	s := newTestSpace()
	a := s.CreateBody(BodyDef{})
	s.RemoveBody(a)
	b := s.CreateBody(BodyDef{})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, NoHandle, b)
}

func TestSpaceDeterminism(t *testing.T) {
	run := func() []mgl64.Vec2 {
		s := newTestSpace()
		platform(s)
		var hs []Handle
		for i := 0; i < 4; i++ {
			hs = append(hs, s.CreateBody(BodyDef{
				Position: mgl64.Vec2{float64(i) * 0.3, 2 + float64(i)*1.2},
				HalfSize: mgl64.Vec2{1, 0.5},
				Mass:     1,
				Friction: 0.6,
			}))
		}
		for step := 0; step < 200; step++ {
			if step%20 == 0 {
				s.ApplyForce(hs[3], mgl64.Vec2{2, 0})
			}
			s.Step(dt)
		}
		out := make([]mgl64.Vec2, len(hs))
		for i, h := range hs {
			out[i] = s.Position(h)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     AABB
		expected bool
	}{
		{"overlapping", AABB{mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}}, AABB{mgl64.Vec2{1, 1}, mgl64.Vec2{1, 1}}, true},
		{"touching edges", AABB{mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}}, AABB{mgl64.Vec2{2, 0}, mgl64.Vec2{1, 1}}, false},
		{"apart vertically", AABB{mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}}, AABB{mgl64.Vec2{0, 5}, mgl64.Vec2{1, 1}}, false},
		{"contained", AABB{mgl64.Vec2{0, 0}, mgl64.Vec2{3, 3}}, AABB{mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{0.1, 0.1}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.expected, tc.b.Overlaps(tc.a))
		})
	}
}
