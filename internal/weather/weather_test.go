package weather

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

type recordingApplier struct {
	forces map[physics.Handle]mgl64.Vec2
}

func (r *recordingApplier) ApplyForce(h physics.Handle, f mgl64.Vec2) {
	if r.forces == nil {
		r.forces = make(map[physics.Handle]mgl64.Vec2)
	}
	r.forces[h] = r.forces[h].Add(f)
}

func windyConfig() Config {
	cfg := DefaultConfig()
	cfg.WindAmplitude = 0
	return cfg
}

func TestFieldForcedWindyIgnoresBands(t *testing.T) {
	f := NewField(DefaultConfig(), Rules{ForceWindy: true}, 1, 0)

	for h := 0.0; h < 200; h += 10 {
		f.Update(0.1, h)
		assert.Equal(t, Windy, f.Kind(), "height %.0f", h)
	}
	assert.Equal(t, 0, f.Visited(), "forced wind never draws bands")
}

func TestFieldNoHazardsIsSunny(t *testing.T) {
	f := NewField(DefaultConfig(), Rules{}, 7, 0)

	for band := 0; band < 20; band++ {
		assert.Equal(t, Sunny, f.KindAt(band))
	}
}

func TestFieldBandsAreCached(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RainChance = 50
	cfg.WindChance = 50
	f := NewField(cfg, Rules{AllowRain: true, AllowWind: true}, 99, 0)

	first := make([]Kind, 10)
	for band := range first {
		first[band] = f.KindAt(band)
	}
	for band := range first {
		assert.Equal(t, first[band], f.KindAt(band), "band %d regenerated", band)
	}
	assert.Equal(t, 10, f.Visited())
}

func TestFieldSameSeedSameBands(t *testing.T) {
	cfg := DefaultConfig()
	rules := Rules{AllowRain: true, AllowWind: true}
	a := NewField(cfg, rules, 1234, 0)
	b := NewField(cfg, rules, 1234, 0)

	for band := 0; band < 30; band++ {
		assert.Equal(t, a.KindAt(band), b.KindAt(band))
	}
}

func TestFieldResetRerolls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RainChance = 100
	f := NewField(cfg, Rules{AllowRain: true}, 1, 0)
	require.Equal(t, Rainy, f.Kind())

	f.Reset(Rules{}, 2, 0)
	assert.Equal(t, Sunny, f.Kind())
	assert.Equal(t, 1, f.Visited())
}

func TestFieldKindFollowsHeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BandHeight = 10
	cfg.RainChance = 100
	f := NewField(cfg, Rules{AllowRain: true}, 3, 0)

	ev := f.Update(0.1, 5)
	assert.False(t, ev.KindChanged)
	assert.Equal(t, 0, f.Band())

	f.Update(0.1, 25)
	assert.Equal(t, 2, f.Band())
	assert.Equal(t, Rainy, f.Kind())
}

func TestFieldRainMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RainChance = 100
	cfg.RainFreezeMultiplier = 1.5
	f := NewField(cfg, Rules{AllowRain: true}, 3, 0)

	assert.Equal(t, Rainy, f.Kind())
	assert.InDelta(t, 1.5, f.RainMultiplier(), 1e-12)
	assert.Equal(t, mgl64.Vec2{}, f.Force(), "rain applies no force")

	cfg.RainFreezeMultiplier = 0.5
	clamped := NewField(cfg, Rules{AllowRain: true}, 3, 0)
	assert.InDelta(t, 1.0, clamped.RainMultiplier(), 1e-12, "never shortens the delay")
}

func TestFieldWindForceDirection(t *testing.T) {
	f := NewField(windyConfig(), Rules{ForceWindy: true}, 5, 0)

	force := f.Force()
	assert.InDelta(t, float64(f.Direction())*6, force.X(), 1e-9)
	assert.Zero(t, force.Y())
}

func TestFieldDirectionFlipsOnInterval(t *testing.T) {
	cfg := windyConfig()
	cfg.ChangeInterval = 1
	f := NewField(cfg, Rules{ForceWindy: true}, 5, 0)
	start := f.Direction()

	flips := 0
	for iter := 0; iter < 12; iter++ { // 3 seconds
		if f.Update(0.25, 0).DirectionChanged {
			flips++
		}
	}

	assert.Equal(t, 3, flips)
	assert.Equal(t, -start, f.Direction())
}

func TestFieldTimerPausesOutsideWindy(t *testing.T) {
	cfg := windyConfig()
	cfg.BandHeight = 10
	cfg.WindChance = 100
	cfg.ChangeInterval = 2
	f := NewField(cfg, Rules{}, 5, 0)
	require.Equal(t, Sunny, f.Kind())

	// Long calm spell: the timer must not run down.
	for iter := 0; iter < 50; iter++ {
		f.Update(0.1, 0)
	}
	assert.InDelta(t, 2.0, f.Countdown(), 1e-9)

	f.Reset(Rules{AllowWind: true}, 5, 0)
	require.Equal(t, Windy, f.Kind())
	dir := f.Direction()
	ev := f.Update(0.1, 0)
	assert.False(t, ev.DirectionChanged, "entering wind must not flip immediately")
	assert.Equal(t, dir, f.Direction())
}

func TestFieldTimerRunsAlwaysFlipsOnEntry(t *testing.T) {
	cfg := windyConfig()
	cfg.BandHeight = 10
	cfg.WindChance = 100
	cfg.ChangeInterval = 1
	cfg.TimerRunsAlways = true

	// Band 0 is calm because wind is only allowed after the reset below,
	// band 1 rolls Windy.
	f := NewField(cfg, Rules{}, 5, 0)
	for iter := 0; iter < 20; iter++ {
		f.Update(0.1, 0)
	}
	require.Less(t, f.Countdown(), 0.0)

	f.rules = Rules{AllowWind: true}
	dir := f.Direction()
	ev := f.Update(0.1, 15)
	assert.True(t, ev.KindChanged)
	assert.True(t, ev.DirectionChanged, "lapsed timer flips the instant wind starts")
	assert.Equal(t, -dir, f.Direction())
}

func TestFieldApplyOnlyWhenWindy(t *testing.T) {
	targets := []physics.Handle{1, 2, 3}

	calm := NewField(windyConfig(), Rules{}, 1, 0)
	rec := &recordingApplier{}
	calm.Apply(rec, targets)
	assert.Empty(t, rec.forces)

	windy := NewField(windyConfig(), Rules{ForceWindy: true}, 1, 0)
	windy.Apply(rec, targets)
	assert.Len(t, rec.forces, 3)
	for _, h := range targets {
		assert.InDelta(t, windy.Force().X(), rec.forces[h].X(), 1e-9)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Sunny", Sunny.String())
	assert.Equal(t, "Rainy", Rainy.String())
	assert.Equal(t, "Windy", Windy.String())
	assert.Equal(t, "Unknown", Kind(42).String())
}
