// tower is a terminal block stacking game: drop blocks, let them settle
// and freeze, and build a tower up to each level's target height.
//
// Usage:
//
//	tower play [mode]        - Play the campaign or the endless mode
//	tower menu               - Start menu to pick modes interactively
//	tower levels             - List the level pack and your progress
//	tower scores [mode]      - Show high scores
//	tower sim                - Run a headless autopilot game
//	tower serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tower/scores.db)
//	--config <path>       - Custom tower config YAML
//	--levels <path>       - Custom level pack YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tower/internal/games/tower"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tower",
	Short: "Tower - stack falling blocks in your terminal",
	Long: `Tower is a terminal block stacking game. Blocks drop onto a platform,
freeze once they stop moving and build a tower. Reach each level's target
height with as few blocks as possible while rain and wind get in the way.

Available commands:
  play     - Play the campaign or endless mode directly
  menu     - Interactive mode picker menu
  levels   - Show the level pack and unlocked levels
  scores   - View high scores
  sim      - Run a headless autopilot game
  serve    - Start SSH server for remote play

Examples:
  tower play
  tower play tower_endless
  tower play --level 3
  tower menu --difficulty hard
  tower sim --blocks 40 --seed 7
  tower serve --ssh :2222 --metrics :9090`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return configureGame()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tower/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tower config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to custom level pack YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (empty = off)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
}

// configureGame passes the global flags on to the game package.
func configureGame() error {
	tower.SetConfigPath(flagConfig)
	tower.SetLevelsPath(flagLevels)
	tower.SetDifficultyPreset(flagDifficulty)

	logger, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}
	tower.SetLogger(logger)
	return nil
}

// newLogger builds the stderr logger. An empty level disables gameplay logs,
// since they would draw over the alternate screen.
func newLogger(levelName string) (*log.Logger, error) {
	if levelName == "" {
		return nil, nil
	}
	lvl, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "tower",
	}), nil
}
