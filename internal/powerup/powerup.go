// Package powerup manages collectible pickups floating above the tower and
// the effects they grant: glue and instant freeze charges.
package powerup

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

// Kind is a pickup type.
type Kind int

const (
	Glue          Kind = iota // Timed: sticky, faster-freezing blocks
	InstantFreeze             // Stored charge: freeze everything in motion
	KindCount                 // Sentinel for counting types
)

// Glyph returns the display character for a pickup.
func (k Kind) Glyph() rune {
	switch k {
	case Glue:
		return 'G'
	case InstantFreeze:
		return '*'
	default:
		return '?'
	}
}

// String returns the name of the pickup.
func (k Kind) String() string {
	switch k {
	case Glue:
		return "Glue"
	case InstantFreeze:
		return "Freeze"
	default:
		return "?"
	}
}

// Pickup is a collectible hovering at a fixed position.
type Pickup struct {
	Kind   Kind
	Pos    mgl64.Vec2
	Active bool
}

// Effect is an active timed effect.
type Effect struct {
	Kind      Kind
	Remaining float64 // Seconds left
}

// Config holds power-up tunables.
type Config struct {
	SpawnChance  int     // Percent chance a slot receives a pickup
	Spacing      float64 // Vertical distance between pickup slots
	Lookahead    float64 // Slots are filled up to this far above the tower
	HalfSize     float64 // Half extent of the pickup box
	WeightGlue   int
	WeightFreeze int
	MaxCharges   int

	GlueDuration         float64 // Seconds
	GlueDragMultiplier   float64 // Drag multiplier for blocks dropped under glue
	GlueFreezeMultiplier float64 // Freeze delay multiplier under glue (< 1)
}

// DefaultConfig returns the default power-up tunables.
func DefaultConfig() Config {
	return Config{
		SpawnChance:          40,
		Spacing:              8,
		Lookahead:            12,
		HalfSize:             0.5,
		WeightGlue:           60,
		WeightFreeze:         40,
		MaxCharges:           3,
		GlueDuration:         10,
		GlueDragMultiplier:   4,
		GlueFreezeMultiplier: 0.5,
	}
}

// Manager handles pickup placement, collection and effects.
type Manager struct {
	Config  Config
	Pickups []*Pickup
	Effects []*Effect

	charges  int
	nextSlot float64 // Height of the next unfilled slot
	rng      *rand.Rand
}

// NewManager creates a manager whose first slot sits one spacing above base.
func NewManager(cfg Config, seed int64, base float64) *Manager {
	m := &Manager{Config: cfg}
	m.Reset(seed, base)
	return m
}

// Reset clears pickups, effects and charges.
func (m *Manager) Reset(seed int64, base float64) {
	m.Pickups = m.Pickups[:0]
	m.Effects = m.Effects[:0]
	m.charges = 0
	m.nextSlot = base + m.Config.Spacing
	m.rng = rand.New(rand.NewSource(seed)) //#nosec G404 -- gameplay randomness
}

// Populate fills pickup slots up to top+lookahead. Pickups are placed at a
// random lateral offset within [-lateral, lateral].
func (m *Manager) Populate(top, lateral float64) int {
	if m.Config.Spacing <= 0 {
		return 0
	}
	spawned := 0
	for m.nextSlot <= top+m.Config.Lookahead {
		if m.rng.Intn(100) < m.Config.SpawnChance {
			x := (m.rng.Float64()*2 - 1) * lateral
			m.Pickups = append(m.Pickups, &Pickup{
				Kind:   m.rollKind(),
				Pos:    mgl64.Vec2{x, m.nextSlot},
				Active: true,
			})
			spawned++
		}
		m.nextSlot += m.Config.Spacing
	}
	return spawned
}

// rollKind selects a pickup type based on weights.
func (m *Manager) rollKind() Kind {
	total := m.Config.WeightGlue + m.Config.WeightFreeze
	if total <= 0 {
		return Glue
	}
	if m.rng.Intn(total) < m.Config.WeightGlue {
		return Glue
	}
	return InstantFreeze
}

// Collect deactivates the first pickup overlapping box and returns its kind.
func (m *Manager) Collect(box physics.AABB) (Kind, bool) {
	half := mgl64.Vec2{m.Config.HalfSize, m.Config.HalfSize}
	for _, p := range m.Pickups {
		if !p.Active {
			continue
		}
		if box.Overlaps(physics.AABB{Center: p.Pos, HalfSize: half}) {
			p.Active = false
			return p.Kind, true
		}
	}
	return 0, false
}

// Grant applies a collected pickup.
func (m *Manager) Grant(kind Kind) {
	switch kind {
	case Glue:
		m.AddEffect(Glue, m.Config.GlueDuration)
	case InstantFreeze:
		if m.Config.MaxCharges <= 0 || m.charges < m.Config.MaxCharges {
			m.charges++
		}
	}
}

// AddEffect adds or extends an effect.
func (m *Manager) AddEffect(kind Kind, duration float64) {
	for _, e := range m.Effects {
		if e.Kind == kind {
			e.Remaining = duration
			return
		}
	}
	m.Effects = append(m.Effects, &Effect{Kind: kind, Remaining: duration})
}

// Update counts effects down by dt, drops spent pickups and returns the
// kinds of effects that expired.
func (m *Manager) Update(dt float64) []Kind {
	var expired []Kind
	active := m.Effects[:0]
	for _, e := range m.Effects {
		e.Remaining -= dt
		if e.Remaining <= 0 {
			expired = append(expired, e.Kind)
		} else {
			active = append(active, e)
		}
	}
	m.Effects = active

	pickups := m.Pickups[:0]
	for _, p := range m.Pickups {
		if p.Active {
			pickups = append(pickups, p)
		}
	}
	m.Pickups = pickups

	return expired
}

// HasEffect returns true if the given effect is active.
func (m *Manager) HasEffect(kind Kind) bool {
	for _, e := range m.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Remaining returns the seconds left on an effect, or 0 if not active.
func (m *Manager) Remaining(kind Kind) float64 {
	for _, e := range m.Effects {
		if e.Kind == kind {
			return e.Remaining
		}
	}
	return 0
}

// Charges returns the stored instant freeze charges.
func (m *Manager) Charges() int {
	return m.charges
}

// UseCharge spends one instant freeze charge.
func (m *Manager) UseCharge() bool {
	if m.charges <= 0 {
		return false
	}
	m.charges--
	return true
}

// DragMultiplier returns the drag multiplier for newly dropped blocks.
func (m *Manager) DragMultiplier() float64 {
	if m.HasEffect(Glue) && m.Config.GlueDragMultiplier > 0 {
		return m.Config.GlueDragMultiplier
	}
	return 1
}

// FreezeMultiplier returns the freeze delay multiplier for newly dropped blocks.
func (m *Manager) FreezeMultiplier() float64 {
	if m.HasEffect(Glue) && m.Config.GlueFreezeMultiplier > 0 {
		return m.Config.GlueFreezeMultiplier
	}
	return 1
}
