package powerup

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

func alwaysConfig() Config {
	cfg := DefaultConfig()
	cfg.SpawnChance = 100
	return cfg
}

func TestPopulateFillsSlotsOnce(t *testing.T) {
	m := NewManager(alwaysConfig(), 1, 0)

	n := m.Populate(0, 5) // slots at 8 up to 0+12
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, m.Populate(0, 5), "slots are filled only once")

	n = m.Populate(20, 5) // 16, 24, 32
	assert.Equal(t, 3, n)
	require.Len(t, m.Pickups, 4)
	for _, p := range m.Pickups {
		assert.LessOrEqual(t, p.Pos.X(), 5.0)
		assert.GreaterOrEqual(t, p.Pos.X(), -5.0)
	}
}

func TestPopulateRespectsChance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnChance = 0
	m := NewManager(cfg, 1, 0)

	assert.Equal(t, 0, m.Populate(500, 5))
	assert.Empty(t, m.Pickups)
}

func TestCollect(t *testing.T) {
	m := NewManager(alwaysConfig(), 1, 0)
	m.Pickups = append(m.Pickups, &Pickup{Kind: InstantFreeze, Pos: mgl64.Vec2{2, 8}, Active: true})

	_, ok := m.Collect(physics.AABB{Center: mgl64.Vec2{-2, 8}, HalfSize: mgl64.Vec2{1, 0.5}})
	assert.False(t, ok)

	kind, ok := m.Collect(physics.AABB{Center: mgl64.Vec2{1.5, 8.2}, HalfSize: mgl64.Vec2{1, 0.5}})
	assert.True(t, ok)
	assert.Equal(t, InstantFreeze, kind)

	_, ok = m.Collect(physics.AABB{Center: mgl64.Vec2{1.5, 8.2}, HalfSize: mgl64.Vec2{1, 0.5}})
	assert.False(t, ok, "a pickup is collected once")
}

func TestGlueEffectLifecycle(t *testing.T) {
	m := NewManager(DefaultConfig(), 1, 0)
	assert.Equal(t, 1.0, m.DragMultiplier())
	assert.Equal(t, 1.0, m.FreezeMultiplier())

	m.Grant(Glue)
	assert.True(t, m.HasEffect(Glue))
	assert.Equal(t, 4.0, m.DragMultiplier())
	assert.Equal(t, 0.5, m.FreezeMultiplier())

	assert.Empty(t, m.Update(4))
	m.Grant(Glue) // extends back to full duration
	assert.InDelta(t, 10.0, m.Remaining(Glue), 1e-9)

	expired := m.Update(10)
	assert.Equal(t, []Kind{Glue}, expired)
	assert.False(t, m.HasEffect(Glue))
	assert.Equal(t, 0.0, m.Remaining(Glue))
}

func TestFreezeCharges(t *testing.T) {
	m := NewManager(DefaultConfig(), 1, 0)
	assert.False(t, m.UseCharge())

	for iter := 0; iter < 5; iter++ {
		m.Grant(InstantFreeze)
	}
	assert.Equal(t, 3, m.Charges(), "charges are capped")

	assert.True(t, m.UseCharge())
	assert.Equal(t, 2, m.Charges())
}

func TestResetClearsEverything(t *testing.T) {
	m := NewManager(alwaysConfig(), 1, 0)
	m.Populate(50, 3)
	m.Grant(Glue)
	m.Grant(InstantFreeze)

	m.Reset(2, 40)
	assert.Empty(t, m.Pickups)
	assert.Empty(t, m.Effects)
	assert.Equal(t, 0, m.Charges())
	assert.Equal(t, 0, m.Populate(39-m.Config.Lookahead, 3))
}

func TestUpdateDropsCollectedPickups(t *testing.T) {
	m := NewManager(alwaysConfig(), 1, 0)
	m.Populate(10, 3)
	require.NotEmpty(t, m.Pickups)
	m.Pickups[0].Active = false

	before := len(m.Pickups)
	m.Update(0.1)
	assert.Len(t, m.Pickups, before-1)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, 'G', Glue.Glyph())
	assert.Equal(t, '*', InstantFreeze.Glyph())
	assert.Equal(t, "Glue", Glue.String())
	assert.Equal(t, "Freeze", InstantFreeze.String())
	assert.Equal(t, "?", KindCount.String())
}
