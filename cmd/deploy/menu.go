package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deploy-or-die/internal/platform/tui"
	"github.com/vovakirdan/deploy-or-die/internal/registry"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode interactively",
	Long: `Opens a menu listing every mode with its best score.

Controls:
  ↑/↓ or W/S   - Navigate
  Enter/Space  - Play the selected mode
  Tab          - Results
  Q/Esc        - Quit`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) {
	logger, closer := gameLogger()
	defer closer.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if result.Quit {
			return
		}
		cfg = result.Config

		if result.WantsScoreboard {
			if store == nil {
				continue
			}
			goBack, err := tui.RunScoreboard(store, cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
				os.Exit(1)
			}
			if !goBack {
				return
			}
			continue
		}

		game, err := registry.Create(result.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("starting mode", "mode", result.GameID)

		backToMenu, err := tui.Run(game, store, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		if !backToMenu {
			return
		}
	}
}
