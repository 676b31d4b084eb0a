package stack

import "github.com/vovakirdan/tui-tower/internal/weather"

// Presenter receives the visual events of a session. Calls are made while
// the session lock is held, so implementations must not call back into the
// session.
type Presenter interface {
	FreezeVisual(id BlockID)
	WeatherChanged(kind weather.Kind, direction int)
	LevelComplete(finalScore int)
}

// Persistence stores progress across sessions. Level indices are 0-based.
type Persistence interface {
	HighScore(level int) (int, error)
	SetHighScore(level, score int) error
	UnlockedLevels() (int, error)
	SetUnlockedLevels(n int) error
}

// Observer receives counters for metrics.
type Observer interface {
	BlockDropped()
	BlockFrozen()
	BlockDespawned()
	LevelCompleted(level, score int)
}

type nopPresenter struct{}

func (nopPresenter) FreezeVisual(BlockID)             {}
func (nopPresenter) WeatherChanged(weather.Kind, int) {}
func (nopPresenter) LevelComplete(int)                {}

type nopObserver struct{}

func (nopObserver) BlockDropped()           {}
func (nopObserver) BlockFrozen()            {}
func (nopObserver) BlockDespawned()         {}
func (nopObserver) LevelCompleted(int, int) {}
