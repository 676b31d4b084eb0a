// Package weather implements the height-banded weather field that perturbs
// the tower: cached per-band weather kinds, wind force generation and the
// rain freeze-delay multiplier.
package weather

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-tower/internal/physics"
)

// Kind is the weather of a height band.
type Kind int

const (
	Sunny Kind = iota
	Rainy
	Windy
)

// String returns the display name of the weather kind.
func (k Kind) String() string {
	switch k {
	case Sunny:
		return "Sunny"
	case Rainy:
		return "Rainy"
	case Windy:
		return "Windy"
	default:
		return "Unknown"
	}
}

// Config holds the weather tunables.
type Config struct {
	BandHeight           float64 // Height of one weather band
	RainChance           int     // Percent chance a band is Rainy
	WindChance           int     // Percent chance a band is Windy
	RainFreezeMultiplier float64 // Freeze delay multiplier while Rainy (> 1)

	WindMagnitude   float64 // Constant lateral force while Windy
	WindAmplitude   float64 // Amplitude of the sinusoidal perturbation
	WindFrequency   float64 // Perturbation frequency in Hz
	ChangeInterval  float64 // Seconds between direction flips
	TimerRunsAlways bool    // Keep the flip timer running outside Windy
}

// DefaultConfig returns the default weather tunables.
func DefaultConfig() Config {
	return Config{
		BandHeight:           25,
		RainChance:           30,
		WindChance:           30,
		RainFreezeMultiplier: 1.5,
		WindMagnitude:        6,
		WindAmplitude:        1.5,
		WindFrequency:        0.5,
		ChangeInterval:       4,
	}
}

// Rules tells the field which weather the current level allows.
type Rules struct {
	ForceWindy bool // Whole session is Windy, bands are ignored
	AllowRain  bool
	AllowWind  bool
}

// Event describes what changed during an Update.
type Event struct {
	KindChanged      bool
	DirectionChanged bool
}

// Any reports whether anything changed.
func (e Event) Any() bool {
	return e.KindChanged || e.DirectionChanged
}

// Field tracks the weather of every visited band and the wind state.
type Field struct {
	cfg   Config
	rules Rules
	rng   *rand.Rand

	bands   map[int]Kind
	band    int
	current Kind

	direction int     // +1 or -1 along the lateral axis
	countdown float64 // Seconds until the next direction flip
	elapsed   float64 // Seconds spent Windy, drives the perturbation
}

// NewField creates a field positioned at the given height.
func NewField(cfg Config, rules Rules, seed int64, height float64) *Field {
	f := &Field{cfg: cfg}
	f.Reset(rules, seed, height)
	return f
}

// Reset discards all cached bands and re-seeds the field.
func (f *Field) Reset(rules Rules, seed int64, height float64) {
	f.rules = rules
	f.rng = rand.New(rand.NewSource(seed)) //#nosec G404 -- gameplay randomness
	f.bands = make(map[int]Kind)
	f.direction = 1
	if f.rng.Intn(2) == 0 {
		f.direction = -1
	}
	f.countdown = f.cfg.ChangeInterval
	f.elapsed = 0
	f.band = f.bandOf(height)
	f.current = f.kindAt(f.band)
}

// Update moves the field to the band containing height and advances the
// wind timer by dt.
func (f *Field) Update(dt, height float64) Event {
	var ev Event

	band := f.bandOf(height)
	if band != f.band {
		f.band = band
		if kind := f.kindAt(band); kind != f.current {
			f.current = kind
			ev.KindChanged = true
			if kind == Windy && !f.cfg.TimerRunsAlways {
				f.countdown = f.cfg.ChangeInterval
			}
		}
	}

	if f.current == Windy || f.cfg.TimerRunsAlways {
		f.countdown -= dt
	}
	if f.current != Windy {
		return ev
	}

	f.elapsed += dt
	if f.cfg.ChangeInterval > 0 && f.countdown <= 0 {
		f.direction = -f.direction
		f.countdown += f.cfg.ChangeInterval
		if f.countdown <= 0 {
			f.countdown = f.cfg.ChangeInterval
		}
		ev.DirectionChanged = true
	}
	return ev
}

// Kind returns the weather of the current band.
func (f *Field) Kind() Kind {
	return f.current
}

// Band returns the index of the current band.
func (f *Field) Band() int {
	return f.band
}

// Direction returns the wind direction, +1 or -1.
func (f *Field) Direction() int {
	return f.direction
}

// Countdown returns the seconds left until the next direction flip.
func (f *Field) Countdown() float64 {
	return f.countdown
}

// KindAt returns the weather of a band, generating and caching it on first visit.
func (f *Field) KindAt(band int) Kind {
	return f.kindAt(band)
}

// Visited returns the number of bands generated so far.
func (f *Field) Visited() int {
	return len(f.bands)
}

// Force returns the lateral wind force for this tick, zero unless Windy.
func (f *Field) Force() mgl64.Vec2 {
	if f.current != Windy {
		return mgl64.Vec2{}
	}
	perturb := f.cfg.WindAmplitude * math.Sin(2*math.Pi*f.cfg.WindFrequency*f.elapsed)
	return mgl64.Vec2{float64(f.direction)*f.cfg.WindMagnitude + perturb, 0}
}

// Apply pushes every given body with the current wind force.
func (f *Field) Apply(w physics.ForceApplier, targets []physics.Handle) {
	force := f.Force()
	if force.X() == 0 && force.Y() == 0 {
		return
	}
	for _, h := range targets {
		w.ApplyForce(h, force)
	}
}

// RainMultiplier returns the configured rain multiplier, never below 1.
func (f *Field) RainMultiplier() float64 {
	if f.cfg.RainFreezeMultiplier < 1 {
		return 1
	}
	return f.cfg.RainFreezeMultiplier
}

func (f *Field) bandOf(height float64) int {
	if f.cfg.BandHeight <= 0 {
		return 0
	}
	return int(math.Floor(height / f.cfg.BandHeight))
}

func (f *Field) kindAt(band int) Kind {
	if f.rules.ForceWindy {
		return Windy
	}
	if kind, ok := f.bands[band]; ok {
		return kind
	}
	kind := f.roll()
	f.bands[band] = kind
	return kind
}

// roll draws a weather kind; the probability left over is Sunny.
func (f *Field) roll() Kind {
	rain, wind := 0, 0
	if f.rules.AllowRain {
		rain = f.cfg.RainChance
	}
	if f.rules.AllowWind {
		wind = f.cfg.WindChance
	}
	if rain+wind <= 0 {
		return Sunny
	}

	roll := f.rng.Intn(100)
	switch {
	case roll < rain:
		return Rainy
	case roll < rain+wind:
		return Windy
	default:
		return Sunny
	}
}
