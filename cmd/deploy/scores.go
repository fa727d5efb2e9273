package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deploy-or-die/internal/registry"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show results for a mode",
	Long: `Display the best results for a mode, or one player's history.

Examples:
  deploy scores
  deploy scores deploy_endless
  deploy scores --player alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show this player's most recent results instead")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresPlayer != "" {
		printHistory(store, flagScoresPlayer)
		return
	}

	modeID := "deploy"
	if len(args) > 0 {
		modeID = args[0]
	}
	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'deploy list' to see available modes.")
		os.Exit(1)
	}
	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	entries, err := store.TopResults(modeID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'deploy play %s' to set the first one!\n", modeID)
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-8s  %s\n", "Rank", "Player", "Score", "Cycles", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-8s  %s\n", "----", "------", "-----", "------", "----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-12s  %-8d  %-6d  %-8s  %s\n",
			i+1, clip(e.Player, 12), e.Score, e.CompletedCycles, seconds(e.DurationMs), e.PlayedAt.Format("2006-01-02 15:04"))
	}

	if st, err := store.Stats(modeID); err == nil && st.Games > 0 {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Wins: %d   Average: %.0f\n", st.HighScore, st.Games, st.Wins, st.AvgScore)
	}
}

func printHistory(store *storage.Store, player string) {
	entries, err := store.PlayerHistory(player, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recent results - %s\n", player)
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-16s  %-8s  %-7s  %-8s  %s\n", "Date", "Mode", "Score", "Outcome", "Time", "Seed")
	fmt.Printf("  %-16s  %-16s  %-8s  %-7s  %-8s  %s\n", "----", "----", "-----", "-------", "----", "----")
	for _, e := range entries {
		outcome := "fail"
		if e.Success {
			outcome = "success"
		}
		fmt.Printf("  %-16s  %-16s  %-8d  %-7s  %-8s  %s\n",
			e.PlayedAt.Format("2006-01-02 15:04"), e.Variant, e.Score, outcome, seconds(e.DurationMs), e.Seed)
	}
}

func seconds(ms int64) string {
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
