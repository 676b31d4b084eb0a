package stack

import (
	"math"

	"github.com/vovakirdan/tui-tower/internal/weather"
)

// SessionState is the coarse state of a session.
type SessionState string

const (
	StatePlaying  SessionState = "playing"
	StateComplete SessionState = "complete"
	StateDegraded SessionState = "degraded" // Configuration error, no spawning
)

// Snapshot captures the session state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Level      int    // 1-indexed for display, 0 in endless
	Mode       string // "campaign" or "endless"
	Score      int
	MaxHeight  float64
	BlocksUsed int
	Dropped    int
	Frozen     int
	Held       bool
	Weather    weather.Kind
	Direction  int
	Charges    int
	State      SessionState
	Hash       uint64 // Mix of every block position
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := StatePlaying
	switch {
	case s.complete:
		state = StateComplete
	case s.configErr != nil:
		state = StateDegraded
	}
	mode := "campaign"
	if s.level.Endless {
		mode = "endless"
	}

	snap := Snapshot{
		Tick:       s.tick,
		Level:      s.level.Number(),
		Mode:       mode,
		Score:      s.scoreLocked(),
		MaxHeight:  s.sim.maxHeight,
		BlocksUsed: s.sim.blocksUsed,
		Held:       s.sim.held != nil,
		Weather:    s.weather.Kind(),
		Direction:  s.weather.Direction(),
		Charges:    s.powerups.Charges(),
		State:      state,
	}

	h := uint64(17)
	for _, b := range s.sim.blocks {
		switch b.state {
		case Dropped:
			snap.Dropped++
		case Frozen:
			snap.Frozen++
		}
		h = h*31 + uint64(b.id)
		h = h*31 + math.Float64bits(b.pos.X())
		h = h*31 + math.Float64bits(b.pos.Y())
		h = h*31 + uint64(b.state)
	}
	if s.sim.held != nil {
		h = h*31 + math.Float64bits(s.sim.held.pos.X())
	}
	snap.Hash = h
	return snap
}
