package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/games/tower"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

// fakeGame is a scripted game with a small level campaign.
type fakeGame struct {
	state    core.GameState
	selected int
	resets   int
	progress registry.Progress
}

func (g *fakeGame) ID() string                       { return "fake" }
func (g *fakeGame) Title() string                    { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig)         { g.resets++ }
func (g *fakeGame) Render(dst *core.Screen)          { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) State() core.GameState            { return g.state }
func (g *fakeGame) SelectLevel(index int)            { g.selected = index }
func (g *fakeGame) BindProgress(p registry.Progress) { g.progress = p }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Levels() []registry.LevelInfo {
	return []registry.LevelInfo{
		{Index: 0, Name: "One", Target: 10},
		{Index: 1, Name: "Two", Target: 20},
		{Index: 2, Name: "Three", Target: 30},
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey('a'), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runeKey('l'), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionDrop, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDrop, false},
		{runeKey('f'), core.ActionUse, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey('p'), core.ActionPause, false},
		{runeKey('r'), core.ActionRestart, false},
		{runeKey('x'), core.ActionNone, false},
		{runeKey('q'), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
	}

	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.action {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.action)
		}
	}
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(1, 1, "cd")

	got := RenderScreen(s)
	expected := "ab  \n cd "
	if got != expected {
		t.Errorf("RenderScreen() = %q, expected %q", got, expected)
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(3, 1)
	s.DrawTextColor(0, 0, "xyz", core.ColorCyan)

	got := RenderScreen(s)
	if !strings.Contains(got, "xyz") {
		t.Errorf("RenderScreen() = %q, expected it to contain the text", got)
	}
}

func TestLevelPickerWithoutStore(t *testing.T) {
	m, ok := NewLevelPicker(&fakeGame{}, nil, 80, 24)
	if !ok {
		t.Fatal("NewLevelPicker() ok = false, expected true for a campaign game")
	}
	if m.Unlocked() != 3 {
		t.Errorf("Unlocked() = %d, expected every level without a store", m.Unlocked())
	}
}

func TestLevelPickerRespectsUnlocks(t *testing.T) {
	store := openTestStore(t)
	if err := store.Progress("fake").SetUnlockedLevels(2); err != nil {
		t.Fatalf("SetUnlockedLevels() error = %v", err)
	}
	if err := store.Progress("fake").SetHighScore(0, 42); err != nil {
		t.Fatalf("SetHighScore() error = %v", err)
	}

	m, ok := NewLevelPicker(&fakeGame{}, store, 80, 24)
	if !ok {
		t.Fatal("NewLevelPicker() ok = false")
	}
	if m.Unlocked() != 2 {
		t.Fatalf("Unlocked() = %d, expected 2", m.Unlocked())
	}

	view := m.View()
	if !strings.Contains(view, "One") || !strings.Contains(view, "???") {
		t.Errorf("View() should list unlocked levels and hide locked ones:\n%s", view)
	}
	if !strings.Contains(view, "best 42") {
		t.Errorf("View() should show the best score:\n%s", view)
	}

	// Move to the locked level; selecting it does nothing
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(LevelPickerModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(LevelPickerModel)
	if _, chosen := m.Chosen(); chosen {
		t.Error("Chosen() = true for a locked level")
	}

	// Back up to the second level and pick it
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(LevelPickerModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(LevelPickerModel)
	index, chosen := m.Chosen()
	if !chosen || index != 1 {
		t.Errorf("Chosen() = (%d, %v), expected (1, true)", index, chosen)
	}
}

func TestLevelPickerBack(t *testing.T) {
	m, _ := NewLevelPicker(&fakeGame{}, nil, 80, 24)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(LevelPickerModel)
	if !m.WantsBack() || cmd == nil {
		t.Error("Esc should go back and end the picker")
	}
}

func TestGameModelSavesCompletedRun(t *testing.T) {
	store := openTestStore(t)
	game := &fakeGame{}
	m := NewGameModel(game, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1})
	m.Init()

	if game.progress == nil {
		t.Error("Init() should bind level progress")
	}
	if game.resets != 1 {
		t.Errorf("resets = %d, expected 1", game.resets)
	}

	game.state = core.GameState{Score: 57, Level: 2, Blocks: 3, Height: 6, LevelComplete: true}
	next, _ := m.Update(TickMsg{})
	m = next.(GameModel)
	// A second tick must not record the same run again
	next, _ = m.Update(TickMsg{})
	m = next.(GameModel)

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, expected 1", len(scores))
	}
	if scores[0].Score != 57 || scores[0].Level != 1 || scores[0].Blocks != 3 {
		t.Errorf("saved run = %+v, expected score 57 on level index 1 with 3 blocks", scores[0])
	}

	// Back from the completion screen returns to the menu
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(GameModel)
	if !m.BackToMenu() {
		t.Error("BackToMenu() = false after Esc on a completed level")
	}
}

func TestGameModelSavesTowerLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	levels := filepath.Join(t.TempDir(), "levels.yaml")
	yaml := "levels:\n  - name: \"Low\"\n    base_height: 0\n    target_height: 1.5\n    block_types: 1\n" +
		"  - name: \"Next\"\n    target_height: 4\n    block_types: 1\n"
	if err := os.WriteFile(levels, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	tower.SetLevelsPath(levels)
	t.Cleanup(func() { tower.SetLevelsPath("") })

	store := openTestStore(t)
	game := tower.New()
	m := NewGameModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})
	m.Init()

	next, _ := m.Update(TickMsg{})
	m = next.(GameModel)
	held, ok := game.Session().Held()
	if !ok {
		t.Fatal("first tick should spawn a held block")
	}
	if !game.Session().DropHeld() || !game.Session().ForceFreeze(held.ID()) {
		t.Fatal("could not drop and freeze the held block")
	}

	next, _ = m.Update(TickMsg{})
	m = next.(GameModel)
	if !m.gameState.LevelComplete {
		t.Fatal("level should be complete once the block freezes above the target")
	}

	scores, err := store.TopScores(tower.CampaignID, 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, expected the completed level to be saved", len(scores))
	}
	if scores[0].Score != m.gameState.Score || scores[0].Score <= 0 {
		t.Errorf("saved score = %d, expected the positive level score %d", scores[0].Score, m.gameState.Score)
	}
	if scores[0].Level != 0 || scores[0].Blocks != 1 {
		t.Errorf("saved run = %+v, expected level index 0 with 1 block", scores[0])
	}
}

func TestGameModelBackIgnoredWhilePlaying(t *testing.T) {
	game := &fakeGame{}
	m := NewGameModel(game, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1})
	m.Init()

	next, _ := m.Update(TickMsg{})
	m = next.(GameModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(GameModel)
	if m.BackToMenu() {
		t.Error("BackToMenu() = true while the game is running")
	}
	if !strings.Contains(m.View(), "fake") {
		t.Errorf("View() = %q, expected the game render", m.View())
	}
}

func TestSessionModelFlow(t *testing.T) {
	if !registry.Exists("fake") {
		registry.Register("fake", func() registry.Game { return &fakeGame{} })
	}

	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	var model tea.Model = NewSessionModel(nil, cfg, "tester")
	update := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		model, cmd = model.Update(msg)
		return cmd
	}

	if !strings.Contains(model.View(), "Fake") {
		t.Fatalf("menu should list the registered game:\n%s", model.View())
	}

	// Selecting the game opens the level picker instead of ending the session
	if cmd := update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("selecting a game should not quit the session")
	}
	if s := model.(SessionModel); s.phase != phaseLevels {
		t.Fatalf("phase = %d, expected the level picker", s.phase)
	}

	// Picking a level starts the game
	update(tea.KeyMsg{Type: tea.KeyEnter})
	s := model.(SessionModel)
	if s.phase != phaseGame {
		t.Fatalf("phase = %d, expected the game", s.phase)
	}
	if fg := s.game.(*fakeGame); fg.selected != 2 {
		t.Errorf("selected level = %d, expected the last unlocked level 2", fg.selected)
	}

	// Pause, then back to the menu
	update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	update(TickMsg{})
	if cmd := update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("going back to the menu should keep the session open")
	}
	if s := model.(SessionModel); s.phase != phaseMenu {
		t.Errorf("phase = %d, expected the menu", s.phase)
	}

	// Quitting from the menu ends the session
	if cmd := update(runeKey('q')); cmd == nil {
		t.Error("q in the menu should quit the session")
	}
}
