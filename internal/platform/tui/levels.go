package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

// LevelPickerModel lets the player choose one of the unlocked levels.
type LevelPickerModel struct {
	levels    []registry.LevelInfo
	unlocked  int
	bests     map[int]int
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	chosen    int // -1 while choosing
	quitting  bool
	back      bool
}

// NewLevelPicker creates a picker for game. It returns false when the game
// has no levels to choose from.
func NewLevelPicker(game registry.Game, store *storage.Store, width, height int) (LevelPickerModel, bool) {
	ls, ok := game.(registry.LevelSelectable)
	if !ok {
		return LevelPickerModel{}, false
	}
	levels := ls.Levels()
	if len(levels) == 0 {
		return LevelPickerModel{}, false
	}

	m := LevelPickerModel{
		levels:    levels,
		unlocked:  len(levels),
		bests:     map[int]int{},
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		chosen:    -1,
	}
	if store != nil {
		if n, err := store.Progress(game.ID()).UnlockedLevels(); err == nil {
			m.unlocked = core.Clamp(n, 1, len(levels))
		} else {
			m.unlocked = 1
		}
		if bests, err := store.LevelBests(game.ID()); err == nil {
			m.bests = bests
		}
	}
	m.cursor = m.unlocked - 1
	return m, true
}

// Init initializes the model.
func (m LevelPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelPickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if m.cursor < m.unlocked {
			m.chosen = m.levels[m.cursor].Index
			return m, tea.Quit
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the level list.
func (m LevelPickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	for i, l := range m.levels {
		var line string
		if i < m.unlocked {
			line = fmt.Sprintf("%2d. %-14s target %5.1f", i+1, l.Name, l.Target)
			if best, ok := m.bests[l.Index]; ok {
				line += fmt.Sprintf("  best %d", best)
			}
		} else {
			line = lockedStyle.Render(fmt.Sprintf("%2d. %-14s locked", i+1, "???"))
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Enter: Play  |  Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

// Chosen returns the chosen level index.
func (m LevelPickerModel) Chosen() (int, bool) {
	return m.chosen, m.chosen >= 0
}

// IsQuitting returns true if user wants to quit.
func (m LevelPickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelPickerModel) WantsBack() bool {
	return m.back
}

// Unlocked returns how many levels can be played.
func (m LevelPickerModel) Unlocked() int {
	return m.unlocked
}

// RunLevelPicker shows the picker for game and applies the choice. It
// returns false when the player backed out or quit. Games without levels
// are accepted as they are.
func RunLevelPicker(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (bool, error) {
	model, ok := NewLevelPicker(game, store, cfg.ScreenW, cfg.ScreenH)
	if !ok {
		return true, nil
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(LevelPickerModel)
	if !ok {
		return false, nil
	}
	index, ok := m.Chosen()
	if !ok {
		return false, nil
	}
	game.(registry.LevelSelectable).SelectLevel(index)
	return true, nil
}
