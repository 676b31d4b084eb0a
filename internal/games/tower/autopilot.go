package tower

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tower/internal/stack"
)

// ErrNoSpawn is returned when the autopilot cannot get a block to drop.
var ErrNoSpawn = errors.New("tower: no block could be spawned")

// AutopilotOptions tune a headless run.
type AutopilotOptions struct {
	MaxBlocks   int     // Stop after this many drops, 0 for no limit
	MaxSettle   int     // Ticks to wait for one block before dropping the next
	TickSeconds float64 // Simulated seconds per tick
	Jitter      float64 // Random lateral offset from the tower centre
	Seed        int64
}

// DefaultAutopilotOptions returns options for a 60 Hz run of 50 blocks.
func DefaultAutopilotOptions() AutopilotOptions {
	return AutopilotOptions{
		MaxBlocks:   50,
		MaxSettle:   60 * 20,
		TickSeconds: 1.0 / 60,
		Jitter:      0.75,
	}
}

// RunResult summarises a headless run.
type RunResult struct {
	RunID      string
	Level      int // 0-based, -1 for endless
	LevelName  string
	Score      int
	Blocks     int
	MaxHeight  float64
	Complete   bool
	Despawned  int
	Ticks      int
	SimSeconds float64
}

// Autopilot plays a session without input: it spawns a block, nudges it
// over the tower top, drops it and ticks until it freezes or falls off,
// until the level completes or the block budget runs out. It returns the
// partial result together with ctx.Err() when cancelled.
func Autopilot(ctx context.Context, s *stack.Session, opts AutopilotOptions) (RunResult, error) {
	if opts.TickSeconds <= 0 {
		opts.TickSeconds = 1.0 / 60
	}
	if opts.MaxSettle <= 0 {
		opts.MaxSettle = int(20 / opts.TickSeconds)
	}
	rng := rand.New(rand.NewSource(opts.Seed)) //#nosec G404 -- gameplay randomness

	lvl := s.Level()
	res := RunResult{RunID: uuid.NewString(), Level: lvl.Index, LevelName: lvl.Name}
	finish := func(err error) (RunResult, error) {
		res.Score = s.CurrentScore()
		res.Blocks = s.BlocksUsed()
		res.MaxHeight = s.CurrentMaxHeight()
		res.Complete = s.IsLevelComplete()
		res.SimSeconds = s.Elapsed()
		return res, err
	}

	for !s.IsLevelComplete() && (opts.MaxBlocks <= 0 || s.BlocksUsed() < opts.MaxBlocks) {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		held, ok := s.Held()
		if !ok {
			s.RequestSpawn()
			if held, ok = s.Held(); !ok {
				if err := s.Err(); err != nil {
					return finish(errors.Join(ErrNoSpawn, err))
				}
				return finish(ErrNoSpawn)
			}
		}

		target := towerCentre(s.Blocks()) + (rng.Float64()*2-1)*opts.Jitter
		s.MoveHeld(target - held.Position().X())
		s.DropHeld()

		for i := 0; i < opts.MaxSettle; i++ {
			if i%256 == 0 && ctx.Err() != nil {
				return finish(ctx.Err())
			}
			s.Tick(opts.TickSeconds)
			res.Ticks++
			state, found := blockState(s.Blocks(), held.ID())
			if !found {
				res.Despawned++
				break
			}
			if state == stack.Frozen || s.IsLevelComplete() {
				break
			}
		}
	}
	return finish(nil)
}

// towerCentre returns the x of the highest frozen block, 0 for an empty
// tower.
func towerCentre(blocks []stack.Block) float64 {
	x, top := 0.0, math.Inf(-1)
	for i := range blocks {
		b := &blocks[i]
		if b.State() != stack.Frozen {
			continue
		}
		if t := b.Box().Max().Y(); t > top {
			x, top = b.Position().X(), t
		}
	}
	return x
}

func blockState(blocks []stack.Block, id stack.BlockID) (stack.State, bool) {
	for i := range blocks {
		if blocks[i].ID() == id {
			return blocks[i].State(), true
		}
	}
	return 0, false
}
