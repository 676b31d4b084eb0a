package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/games/tower"
	"github.com/vovakirdan/tui-tower/internal/platform/tui"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play the tower game",
	Long: `Start playing. The mode defaults to the campaign ("tower"); use
"tower_endless" for the endless mode.

Without --level the campaign shows a level picker with your unlocked levels.

Controls:
  A/D, Left/Right   - Move the held block
  Space/S/Down      - Drop the held block
  F                 - Instant freeze power-up
  N/Enter           - Next level (after completing one)
  P                 - Pause
  R                 - Restart the level
  Esc/B             - Back to menu (when paused or complete)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Blocks freeze sooner, wind is weaker
  normal - Values from the config file
  hard   - Blocks freeze later, wind is stronger, rain slows freezing more
  fixed  - Values from the config file

Examples:
  tower play
  tower play tower_endless
  tower play --level 2
  tower play --difficulty hard
  tower play --config ./my-tower.yaml --levels ./my-levels.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start on (1-based, 0 = pick)")
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := tower.CampaignID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tower levels' or 'tower menu' to see what can be played.")
		os.Exit(1)
	}

	cfg := terminalConfig()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	// Pick the level, from the flag or interactively
	if ls, ok := game.(registry.LevelSelectable); ok {
		if flagLevel > 0 {
			ls.SelectLevel(flagLevel - 1)
		} else {
			picked, pickErr := tui.RunLevelPicker(game, store, cfg)
			if pickErr != nil || !picked {
				if store != nil {
					store.Close()
				}
				if pickErr != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", pickErr)
					os.Exit(1)
				}
				return
			}
		}
	}

	// Run the game
	_, runErr := tui.Run(game, store, nil, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
