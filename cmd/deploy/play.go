package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deploy-or-die/internal/platform/tui"
	"github.com/vovakirdan/deploy-or-die/internal/registry"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode directly",
	Long: `Start a Deploy or Die session. The mode defaults to "deploy".

Controls:
  ←/→ or A/D   - Move the platform (the mouse works too)
  Space/Enter  - Start
  P            - Pause
  R            - Restart
  Q            - Quit

Examples:
  deploy play
  deploy play deploy_blocking
  deploy play --seed c0ffee --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	modeID := "deploy"
	if len(args) > 0 {
		modeID = args[0]
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'deploy list' to see available modes.")
		os.Exit(1)
	}

	logger, closer := gameLogger()
	defer closer.Close()

	// Results are optional: play on without them
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
