package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tower/internal/games/tower"
	"github.com/vovakirdan/tui-tower/internal/registry"
	"github.com/vovakirdan/tui-tower/internal/storage"
)

var (
	flagScoresLevel int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top 10 runs for a mode (default: the campaign).

Examples:
  tower scores
  tower scores --level 2
  tower scores tower_endless
  tower scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLevel, "level", 0, "Only show runs of this campaign level (1-based)")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all runs and progress of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := tower.CampaignID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		os.Exit(1)
	}

	// Get game title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared all runs of %s.\n", title)
		return
	}

	// Get top scores
	var scores []storage.ScoreEntry
	if flagScoresLevel > 0 {
		scores, err = store.TopLevelScores(gameID, flagScoresLevel-1, 10)
		title = fmt.Sprintf("%s, level %d", title, flagScoresLevel)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tower play %s' to set the first high score!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-5s  %-6s  %-6s  %s\n", "Rank", "Score", "Level", "Height", "Blocks", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-6s  %-6s  %s\n", "----", "-----", "-----", "------", "------", "----")

	// Print scores
	for i, entry := range scores {
		lvl := "-"
		if entry.Level != storage.EndlessLevel {
			lvl = fmt.Sprintf("%d", entry.Level+1)
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-5s  %-6.1f  %-6d  %s\n",
			i+1, entry.Score, lvl, entry.MaxHeight, entry.Blocks, dateStr)
	}

	// Show aggregate stats
	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Best: %d  Runs: %d  Average: %.1f  Best height: %.1f\n",
			stats.HighScore, stats.RunsCount, stats.AvgScore, stats.BestHeight)
	}
}
