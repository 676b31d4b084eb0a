package stack

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestStillnessDetector(t *testing.T) {
	tests := []struct {
		name    string
		pos     mgl64.Vec2
		vel     mgl64.Vec2
		moved   bool
		elapsed float64
	}{
		{"at rest", mgl64.Vec2{0, 0}, mgl64.Vec2{}, false, 0.5},
		{"drift within epsilon", mgl64.Vec2{0.005, 0}, mgl64.Vec2{}, false, 0.5},
		{"drift beyond epsilon", mgl64.Vec2{0.02, 0}, mgl64.Vec2{}, true, 0},
		{"slow creep", mgl64.Vec2{0, 0}, mgl64.Vec2{0.05, 0}, false, 0.5},
		{"moving", mgl64.Vec2{0, 0}, mgl64.Vec2{0, -0.2}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewStillnessDetector(0.01, 0.1)
			d.Arm(mgl64.Vec2{})
			d.Sample(0.25, mgl64.Vec2{}, mgl64.Vec2{})

			moved := d.Sample(0.25, tt.pos, tt.vel)
			assert.Equal(t, tt.moved, moved)
			assert.InDelta(t, tt.elapsed, d.Elapsed(), 1e-9)
		})
	}
}

func TestStillnessReferenceFollowsMovement(t *testing.T) {
	d := NewStillnessDetector(0.01, 0.1)
	d.Arm(mgl64.Vec2{0, 5})

	assert.True(t, d.Sample(0.1, mgl64.Vec2{0, 3}, mgl64.Vec2{}))
	assert.False(t, d.Sample(0.1, mgl64.Vec2{0, 3}, mgl64.Vec2{}), "new reference is the moved position")
	assert.InDelta(t, 0.1, d.Elapsed(), 1e-9)
}

func TestShouldFreeze(t *testing.T) {
	d := NewStillnessDetector(0.01, 0.1)
	d.Arm(mgl64.Vec2{})
	for iter := 0; iter < 29; iter++ {
		d.Sample(0.1, mgl64.Vec2{}, mgl64.Vec2{})
	}
	assert.False(t, d.ShouldFreeze(3))
	d.Sample(0.1, mgl64.Vec2{}, mgl64.Vec2{})
	assert.True(t, d.ShouldFreeze(3))

	d.Reset(mgl64.Vec2{})
	assert.Equal(t, 0.0, d.Elapsed())
	assert.False(t, d.ShouldFreeze(3))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "held", Held.String())
	assert.Equal(t, "dropped", Dropped.String())
	assert.Equal(t, "frozen", Frozen.String())
	assert.Equal(t, "unknown", State(9).String())
}
