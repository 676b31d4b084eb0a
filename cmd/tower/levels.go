package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tower/internal/config"
	"github.com/vovakirdan/tui-tower/internal/games/tower"
	"github.com/vovakirdan/tui-tower/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level pack",
	Long: `Shows every level of the pack with its target height, hazards,
whether it is unlocked and your best score on it.

Examples:
  tower levels
  tower levels --levels ./my-levels.yaml`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	pack, err := config.LoadLevels(flagLevels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using the built-in pack\n", err)
		pack = level.DefaultPack()
	}

	unlocked := 1
	bests := map[int]int{}
	if store := openStore(); store != nil {
		if n, err := store.Progress(tower.CampaignID).UnlockedLevels(); err == nil {
			unlocked = n
		}
		if b, err := store.LevelBests(tower.CampaignID); err == nil {
			bests = b
		}
		store.Close()
	}

	fmt.Printf("Levels (%d unlocked of %d):\n", min(unlocked, pack.Len()), pack.Len())
	fmt.Println()

	// Print header
	fmt.Printf("  %-3s  %-14s  %6s  %6s  %-22s  %s\n", "#", "Name", "Base", "Target", "Hazards", "Best")
	fmt.Printf("  %-3s  %-14s  %6s  %6s  %-22s  %s\n", "-", "----", "----", "------", "-------", "----")

	for i, lvl := range pack {
		name := lvl.Name
		best := "-"
		if i >= unlocked {
			name = "??? (locked)"
		} else if b, ok := bests[i]; ok {
			best = fmt.Sprintf("%d", b)
		}
		fmt.Printf("  %-3d  %-14s  %6.1f  %6.1f  %-22s  %s\n",
			i+1, name, lvl.BaseHeight, lvl.TargetHeight, hazardList(lvl.Hazards), best)
	}

	fmt.Println()
	fmt.Println("Run 'tower play --level <n>' to play an unlocked level.")
}

// hazardList formats the enabled hazards of a level.
func hazardList(h level.Hazards) string {
	var names []string
	if h.Wind {
		names = append(names, "wind")
	}
	if h.Rain {
		names = append(names, "rain")
	}
	if h.Snow {
		names = append(names, "snow")
	}
	if h.Boss {
		names = append(names, "boss")
	}
	if h.PowerUps {
		names = append(names, "power-ups")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
