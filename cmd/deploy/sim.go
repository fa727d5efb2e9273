package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deploy-or-die/internal/games/deploy"
	"github.com/vovakirdan/deploy-or-die/internal/registry"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

var (
	flagSimRuns     int
	flagSimRealtime bool
	flagSimSave     bool
	flagSimAvoid    bool
	flagSimLimit    time.Duration
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Run a headless autopilot session",
	Long: `Plays a session without a terminal UI: an autopilot steers the
platform and the result payload is printed as JSON. The same seed always
replays the same session.

By default frames are synthetic and the session runs as fast as the CPU
allows. --realtime paces frames with a wall-clock ticker at --fps.

Examples:
  deploy sim --seed c0ffee
  deploy sim deploy_endless --runs 5 --limit 3m
  deploy sim --realtime --debug
  deploy sim --save --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of sessions; seeds after the first are derived from it")
	simCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Pace frames with the wall clock")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store results in the results database")
	simCmd.Flags().BoolVar(&flagSimAvoid, "avoid", true, "Let the autopilot dodge unwanted blocks")
	simCmd.Flags().DurationVar(&flagSimLimit, "limit", 30*time.Minute, "Abandon a session after this much game time")
}

func runSim(cmd *cobra.Command, args []string) {
	modeID := "deploy"
	if len(args) > 0 {
		modeID = args[0]
	}
	game, err := registry.Create(modeID)
	if err != nil {
		fail("%v", err)
	}
	mode, ok := game.(*deploy.Game)
	if !ok {
		fail("mode %q cannot run headless", modeID)
	}
	cfg, err := deploy.LoadConfig(mode.Variant())
	if err != nil {
		fail("%v", err)
	}
	if flagFPS <= 0 {
		fail("--fps must be positive")
	}

	logger := stderrLogger("deploy-sim")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []deploy.Option{
		deploy.WithLogger(logger),
		deploy.WithVariant(modeID),
		deploy.WithPlayer(playerName()),
	}
	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail("opening results database: %v", err)
		}
		defer store.Close()
		opts = append(opts, deploy.WithResultSink(store))
	}

	var engine *deploy.Engine
	pilot := deploy.Autopilot{Avoid: flagSimAvoid}
	opts = append(opts, deploy.WithPresenter(deploy.PresenterFunc(func(s deploy.Snapshot) {
		engine.ApplyInput(pilot.Decide(s))
	})))
	engine = deploy.NewEngine(cfg, opts...)

	seed := uint32(sessionSeed())
	if seed == 0 {
		seed = deploy.SeedFromStrings(playerName(), time.Now().Format(time.RFC3339Nano))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for run := 0; run < flagSimRuns; run++ {
		if run > 0 {
			seed = deploy.SeedFromStrings(deploy.SeedHex(seed), fmt.Sprint(run))
		}
		res, err := simulate(ctx, engine, seed)
		if err != nil {
			logger.Warn("session abandoned", "seed", deploy.SeedHex(seed), "err", err)
			if ctx.Err() != nil {
				os.Exit(130)
			}
			continue
		}
		if err := enc.Encode(res); err != nil {
			fail("writing result: %v", err)
		}
	}
}

// simulate plays one session with seed and returns its result.
func simulate(ctx context.Context, engine *deploy.Engine, seed uint32) (deploy.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frame := time.Second / time.Duration(flagFPS)
	limit := int(flagSimLimit / frame)

	var frames <-chan time.Time
	if flagSimRealtime {
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		frames = limitFrames(ctx, ticker.C, limit)
	} else {
		frames = syntheticFrames(ctx, frame, limit)
	}

	engine.Start(seed)
	if err := engine.Run(ctx, frames); err != nil {
		return deploy.Result{}, err
	}
	res, ok := engine.Result()
	if !ok {
		engine.Stop()
		return deploy.Result{}, fmt.Errorf("no result after %s of game time", flagSimLimit)
	}
	return res, nil
}

// syntheticFrames emits n evenly spaced timestamps, then closes.
func syntheticFrames(ctx context.Context, step time.Duration, n int) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		now := time.Unix(0, 0)
		for i := 0; i <= n; i++ {
			select {
			case out <- now:
				now = now.Add(step)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// limitFrames forwards at most n+1 ticks from src, then closes.
func limitFrames(ctx context.Context, src <-chan time.Time, n int) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		for i := 0; i <= n; i++ {
			select {
			case t := <-src:
				select {
				case out <- t:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
