package score

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	best     map[int]int
	unlocked int
	fail     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{best: make(map[int]int), unlocked: 1}
}

func (m *memoryStore) HighScore(level int) (int, error) { return m.best[level], m.fail }
func (m *memoryStore) SetHighScore(level, score int) error {
	m.best[level] = score
	return nil
}
func (m *memoryStore) UnlockedLevels() (int, error) { return m.unlocked, nil }
func (m *memoryStore) SetUnlockedLevels(n int) error {
	m.unlocked = n
	return nil
}

func TestKeeperScore(t *testing.T) {
	k := NewKeeper(10)

	tests := []struct {
		height   float64
		used     int
		expected int
	}{
		{0, 0, 0},
		{11, 3, 107},
		{4.04, 1, 39},
		{2.25, 0, 23}, // round half away from zero
		{0.2, 5, -3},  // may go negative
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, k.Score(tc.height, tc.used), "Score(%v, %d)", tc.height, tc.used)
	}
}

func TestKeeperScoreIsPure(t *testing.T) {
	k := NewKeeper(10)
	first := k.Score(12.34, 7)
	for iter := 0; iter < 5; iter++ {
		k.Score(99, 1)
		assert.Equal(t, first, k.Score(12.34, 7))
	}
}

func TestNewKeeperDefault(t *testing.T) {
	assert.InDelta(t, DefaultPointsPerUnit, NewKeeper(0).PointsPerUnit, 1e-12)
	assert.InDelta(t, DefaultPointsPerUnit, NewKeeper(-3).PointsPerUnit, 1e-12)
}

func TestIsLevelComplete(t *testing.T) {
	assert.False(t, IsLevelComplete(true, 9.99, 10))
	assert.True(t, IsLevelComplete(true, 10, 10))
	assert.True(t, IsLevelComplete(true, 11, 10))
	assert.False(t, IsLevelComplete(false, 100, 10), "endless never completes")
}

func TestRecordRaisesBestAndUnlocks(t *testing.T) {
	store := newMemoryStore()

	out, err := Record(store, 0, 107)
	require.NoError(t, err)
	assert.True(t, out.NewBest)
	assert.Equal(t, 107, out.HighScore)
	assert.Equal(t, 2, out.Unlocked)
	assert.Equal(t, 107, store.best[0])
	assert.Equal(t, 2, store.unlocked)
}

func TestRecordKeepsBetterScore(t *testing.T) {
	store := newMemoryStore()
	store.best[2] = 300
	store.unlocked = 6

	out, err := Record(store, 2, 150)
	require.NoError(t, err)
	assert.False(t, out.NewBest)
	assert.Equal(t, 300, out.HighScore)
	assert.Equal(t, 300, store.best[2])
	assert.Equal(t, 6, store.unlocked, "unlocks never shrink")
}

func TestRecordPropagatesErrors(t *testing.T) {
	store := newMemoryStore()
	store.fail = errors.New("disk gone")

	_, err := Record(store, 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.fail)
}
