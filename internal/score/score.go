// Package score derives the tower score and the level completion predicate,
// and records finished levels into a progress store.
package score

import (
	"fmt"
	"math"
)

// DefaultPointsPerUnit is the score awarded per unit of tower height.
const DefaultPointsPerUnit = 10

// Keeper computes scores. It holds no per-session state.
type Keeper struct {
	PointsPerUnit float64
}

// NewKeeper creates a keeper. Non-positive rates fall back to the default.
func NewKeeper(pointsPerUnit float64) Keeper {
	if pointsPerUnit <= 0 {
		pointsPerUnit = DefaultPointsPerUnit
	}
	return Keeper{PointsPerUnit: pointsPerUnit}
}

// Score returns round(maxHeight * pointsPerUnit) - blocksUsed. It may be negative.
func (k Keeper) Score(maxHeight float64, blocksUsed int) int {
	return int(math.Round(maxHeight*k.PointsPerUnit)) - blocksUsed
}

// IsLevelComplete reports whether a level-mode run has reached its target.
// Endless runs never complete.
func IsLevelComplete(levelMode bool, maxHeight, targetHeight float64) bool {
	return levelMode && maxHeight >= targetHeight
}

// ProgressStore persists per-level high scores and the number of unlocked levels.
type ProgressStore interface {
	HighScore(level int) (int, error)
	SetHighScore(level, score int) error
	UnlockedLevels() (int, error)
	SetUnlockedLevels(n int) error
}

// Outcome is the result of recording a completed level.
type Outcome struct {
	Level     int
	Score     int
	HighScore int  // Best score after recording
	NewBest   bool // Score beat the previous best
	Unlocked  int  // Unlocked level count after recording
}

// Record stores a completed level: the high score is raised when beaten and
// the level after the completed one is unlocked. level is 0-based.
func Record(store ProgressStore, level, finalScore int) (Outcome, error) {
	out := Outcome{Level: level, Score: finalScore, HighScore: finalScore}

	best, err := store.HighScore(level)
	if err != nil {
		return out, fmt.Errorf("score: read high score: %w", err)
	}
	if finalScore > best {
		if err := store.SetHighScore(level, finalScore); err != nil {
			return out, fmt.Errorf("score: write high score: %w", err)
		}
		out.NewBest = true
	} else {
		out.HighScore = best
	}

	unlocked, err := store.UnlockedLevels()
	if err != nil {
		return out, fmt.Errorf("score: read unlocked levels: %w", err)
	}
	out.Unlocked = unlocked
	if want := level + 2; want > unlocked {
		if err := store.SetUnlockedLevels(want); err != nil {
			return out, fmt.Errorf("score: write unlocked levels: %w", err)
		}
		out.Unlocked = want
	}

	return out, nil
}
