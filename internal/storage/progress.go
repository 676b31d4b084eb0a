package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Progress adapts the store to the per-level progress of one game.
type Progress struct {
	store  *Store
	gameID string
}

// Progress returns the progress view of gameID.
func (s *Store) Progress(gameID string) *Progress {
	return &Progress{store: s, gameID: gameID}
}

// HighScore returns the best completed score of a level, 0 if none.
func (p *Progress) HighScore(level int) (int, error) {
	var score int
	err := p.store.db.QueryRow(
		"SELECT high_score FROM level_progress WHERE game_id = ? AND level = ?",
		p.gameID, level,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query level high score: %w", err)
	}
	return score, nil
}

// SetHighScore stores the best completed score of a level.
func (p *Progress) SetHighScore(level, score int) error {
	_, err := p.store.db.Exec(
		`INSERT INTO level_progress (game_id, level, high_score) VALUES (?, ?, ?)
		 ON CONFLICT(game_id, level) DO UPDATE SET high_score = excluded.high_score, updated_at = CURRENT_TIMESTAMP`,
		p.gameID, level, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level high score: %w", err)
	}
	return nil
}

// UnlockedLevels returns how many levels are playable. The first level is
// always unlocked.
func (p *Progress) UnlockedLevels() (int, error) {
	var n int
	err := p.store.db.QueryRow(
		"SELECT unlocked FROM unlocks WHERE game_id = ?",
		p.gameID,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query unlocked levels: %w", err)
	}
	return max(n, 1), nil
}

// SetUnlockedLevels stores how many levels are playable.
func (p *Progress) SetUnlockedLevels(n int) error {
	_, err := p.store.db.Exec(
		`INSERT INTO unlocks (game_id, unlocked) VALUES (?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET unlocked = excluded.unlocked`,
		p.gameID, n,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save unlocked levels: %w", err)
	}
	return nil
}
