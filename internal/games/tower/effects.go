package tower

import (
	"github.com/vovakirdan/tui-tower/internal/stack"
	"github.com/vovakirdan/tui-tower/internal/weather"
)

// Visual timings in seconds.
const (
	flashDuration  = 0.4
	bannerDuration = 2.5
)

// effects is the presenter of a game session: freeze flashes, weather
// banners and the completion overlay. It is called under the session lock
// and never calls back into the session.
type effects struct {
	flashes    map[stack.BlockID]float64
	banner     string
	bannerTTL  float64
	completed  bool
	finalScore int
}

func newEffects() *effects {
	return &effects{flashes: make(map[stack.BlockID]float64)}
}

// FreezeVisual flashes a block that just froze.
func (e *effects) FreezeVisual(id stack.BlockID) {
	e.flashes[id] = flashDuration
}

// WeatherChanged shows a banner for the new weather.
func (e *effects) WeatherChanged(kind weather.Kind, direction int) {
	switch kind {
	case weather.Windy:
		e.announce("Wind blowing " + windArrow(direction))
	case weather.Rainy:
		e.announce("Rain: blocks freeze slower")
	default:
		e.announce("Clear skies")
	}
}

// LevelComplete shows the completion overlay.
func (e *effects) LevelComplete(finalScore int) {
	e.completed = true
	e.finalScore = finalScore
}

func (e *effects) announce(msg string) {
	e.banner = msg
	e.bannerTTL = bannerDuration
}

func (e *effects) flashing(id stack.BlockID) bool {
	return e.flashes[id] > 0
}

func (e *effects) update(dt float64) {
	for id, left := range e.flashes {
		if left -= dt; left <= 0 {
			delete(e.flashes, id)
		} else {
			e.flashes[id] = left
		}
	}
	if e.bannerTTL > 0 {
		e.bannerTTL -= dt
		if e.bannerTTL <= 0 {
			e.banner = ""
		}
	}
}

func (e *effects) reset() {
	clear(e.flashes)
	e.banner = ""
	e.bannerTTL = 0
	e.completed = false
	e.finalScore = 0
}

func windArrow(direction int) string {
	if direction < 0 {
		return "<<"
	}
	return ">>"
}
