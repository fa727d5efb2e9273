package deploy

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/deploy-or-die/internal/config"
)

const frame = 16 * time.Millisecond

type resultLog struct{ results []Result }

func (r *resultLog) SaveResult(res Result) error {
	r.results = append(r.results, res)
	return nil
}

func TestEngineStartsIdle(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	snap := e.Tick(frame)
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Zero(t, snap.ElapsedMs)
	assert.Equal(t, 180.0, snap.Platform.X)
	assert.Equal(t, 616.0, snap.Platform.Y)
	_, ok := e.Result()
	assert.False(t, ok)
}

func TestEngineStart(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	snap := e.Start(0xBEEF)
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.Equal(t, uint32(0xBEEF), snap.Seed)
	assert.Equal(t, 120000.0, snap.TimeLeftMs)
	assert.Equal(t, 1.0, snap.Combo)
	assert.Equal(t, StepRequirements, snap.Goal())
	assert.Equal(t, 180.0, snap.FallSpeed)
	assert.Equal(t, 1000.0, snap.SpawnIntervalMs)
}

func TestEngineFirstTickSpawns(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	snap := e.Tick(frame)

	require.Len(t, snap.Blocks, 1)
	b := snap.Blocks[0]
	assert.InDelta(t, -64+180*0.016, b.Y, 1e-9)
	assert.GreaterOrEqual(t, b.X, 30.0)
	assert.LessOrEqual(t, b.X, 330.0)
	assert.LessOrEqual(t, math.Abs(b.VX), 20.0)
	assert.Equal(t, 180.0, b.VY)
	assert.GreaterOrEqual(t, snap.SpawnCooldownMs, 700.0)
	assert.LessOrEqual(t, snap.SpawnCooldownMs, 1300.0)
}

func TestEngineClampsFrameDelta(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	snap := e.Tick(5 * time.Second)
	assert.Equal(t, 50.0, snap.ElapsedMs)
	assert.Equal(t, 120000.0-50, snap.TimeLeftMs)

	snap = e.Tick(-time.Second)
	assert.Equal(t, 50.0, snap.ElapsedMs)
}

func TestEngineTimeout(t *testing.T) {
	log := &resultLog{}
	e := NewEngine(testConfig(config.VariantClassic), WithResultSink(log), WithClock(fixedClock))
	e.Start(7)
	for range 30 {
		e.Tick(frame)
	}

	s := e.State()
	require.NotEmpty(t, s.Blocks)
	s.TimeLeftMs = 10
	e.swap(s)

	snap := e.Tick(20 * time.Millisecond)
	assert.Equal(t, PhaseFail, snap.Phase)
	assert.Equal(t, 0.0, snap.TimeLeftMs)
	assert.Equal(t, s.Blocks, snap.Blocks, "no movement on the timeout tick")
	assert.Equal(t, s.NextBlockID, snap.NextBlockID, "no spawn on the timeout tick")

	for range 5 {
		after := e.Tick(20 * time.Millisecond)
		assert.Equal(t, snap.Blocks, after.Blocks)
		assert.Equal(t, snap.ElapsedMs, after.ElapsedMs)
	}

	require.Len(t, log.results, 1, "result emitted once")
	res := log.results[0]
	assert.False(t, res.Success)
	assert.Equal(t, "classic", res.Variant)
	assert.Equal(t, "7", res.Seed)
	assert.Equal(t, fixedNow.UnixMilli(), res.Timestamp)
	assert.True(t, res.Verify())
	assert.NotEmpty(t, res.SessionID)
}

// landing puts a block just above the catch surface so the next tick lands it.
func landing(e *Engine, kind BlockKind) {
	s := e.State()
	sf := CatchSurface(s)
	s.Blocks = []FallingBlock{{ID: 999, Kind: kind, X: sf.CenterX, Y: sf.Y - 31, W: 60, H: 60, VY: 180}}
	s.SpawnCooldownMs = 1e9
	e.swap(s)
}

func TestEngineCycleEndsSession(t *testing.T) {
	log := &resultLog{}
	var heard []EventType
	e := NewEngine(testConfig(config.VariantClassic),
		WithResultSink(log),
		WithFeedback(FeedbackFunc(func(ev EventType) { heard = append(heard, ev) })),
		WithPlayer("alice"),
		WithVariant("deploy"))
	e.Start(42)

	s := e.State()
	s.GoalIndex = SequenceLen - 1
	e.swap(s)
	landing(e, StepBlock{StepDeploy})

	snap := e.Tick(frame)
	assert.Equal(t, PhaseSuccess, snap.Phase)
	assert.Equal(t, 1, snap.CompletedCycles)
	assert.Empty(t, snap.Blocks)
	assert.Equal(t, []EventType{EventCorrect, EventCycleComplete}, heard)
	require.NotNil(t, snap.Toast)
	assert.Equal(t, EventCycleComplete, snap.Toast.Type)

	res, ok := e.Result()
	require.True(t, ok)
	assert.True(t, res.Success)
	assert.Equal(t, "alice", res.Player)
	assert.Equal(t, "deploy", res.Variant)
	assert.Equal(t, snap.Score, res.Score)
	assert.Equal(t, []Result{res}, log.results)
}

func TestEngineEndlessContinuesAfterCycle(t *testing.T) {
	log := &resultLog{}
	e := NewEngine(testConfig(config.VariantEndless), WithResultSink(log))
	e.Start(42)

	s := e.State()
	s.GoalIndex = SequenceLen - 1
	s.Stack = []StackedBlock{{Step: StepMerge, W: 60, H: 60}}
	e.swap(s)
	landing(e, StepBlock{StepDeploy})

	snap := e.Tick(frame)
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.Equal(t, 1, snap.CompletedCycles)
	assert.Empty(t, snap.Stack)
	assert.Equal(t, 60.0, snap.SpawnCutMs)

	snap = e.Tick(frame)
	assert.Equal(t, 940.0, snap.SpawnIntervalMs)

	s = e.State()
	s.TimeLeftMs = 1
	e.swap(s)
	snap = e.Tick(frame)
	assert.Equal(t, PhaseSuccess, snap.Phase, "timeout after a cycle is a success")
	require.Len(t, log.results, 1)
	assert.True(t, log.results[0].Success)
}

func TestEngineEndlessTimeoutWithoutCycleFails(t *testing.T) {
	e := NewEngine(testConfig(config.VariantEndless))
	e.Start(1)
	s := e.State()
	s.TimeLeftMs = 1
	e.swap(s)
	assert.Equal(t, PhaseFail, e.Tick(frame).Phase)
}

func TestEngineWrongCatchPenaltyEndsNextTick(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(3)
	s := e.State()
	s.TimeLeftMs = 4000
	e.swap(s)
	landing(e, StepBlock{StepDeploy})

	snap := e.Tick(frame)
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.Equal(t, 0.0, snap.TimeLeftMs)

	snap = e.Tick(frame)
	assert.Equal(t, PhaseFail, snap.Phase)
}

func TestEngineRampFollowsElapsed(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	s := e.State()
	s.ElapsedMs = 20000
	e.swap(s)

	snap := e.Tick(frame)
	assert.InDelta(t, 180*1.06, snap.FallSpeed, 1e-9)
	assert.Equal(t, 960.0, snap.SpawnIntervalMs)
}

func TestEngineHardPresetStartsFaster(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	config.ApplyPreset(&cfg, config.DifficultyHard)
	e := NewEngine(cfg)
	snap := e.Start(1)
	assert.Greater(t, snap.FallSpeed, 180.0)
	assert.Less(t, snap.SpawnIntervalMs, 1000.0)
}

func TestEngineRespectsBlockCap(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	cfg.Session.MaxActiveBlocks = 2
	e := NewEngine(cfg)
	e.Start(9)

	spawned := 0
	for range 600 {
		snap := e.Tick(frame)
		require.LessOrEqual(t, len(snap.Blocks), 2)
		spawned = snap.NextBlockID
	}
	assert.Greater(t, spawned, 2)
}

func TestEngineInputIsBuffered(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)

	e.ApplyInput(Input{PointerX: 300, HasPointer: true})
	assert.Equal(t, 180.0, e.State().Platform.TargetX, "input waits for the tick")

	snap := e.Tick(frame)
	assert.Equal(t, 300.0, snap.Platform.TargetX)
	assert.InDelta(t, 210.0, snap.Platform.X, 1e-9)

	snap = e.Tick(frame)
	assert.Equal(t, 300.0, snap.Platform.TargetX, "target persists without new input")
}

func TestEngineIgnoresNaNPointer(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	e.ApplyInput(Input{PointerX: math.NaN(), HasPointer: true})
	snap := e.Tick(frame)
	assert.Equal(t, 180.0, snap.Platform.X)
	assert.Equal(t, 180.0, snap.Platform.TargetX)
}

func TestEngineSinkFailuresDoNotInterruptTicks(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic),
		WithPresenter(PresenterFunc(func(Snapshot) { panic("screen gone") })),
		WithFeedback(FeedbackFunc(func(EventType) { panic("speaker on fire") })),
		WithResultSink(ResultSinkFunc(func(Result) error { return errors.New("db down") })))

	require.NotPanics(t, func() { e.Start(5) })
	landing(e, StepBlock{StepRequirements})

	var snap Snapshot
	require.NotPanics(t, func() { snap = e.Tick(frame) })
	assert.Equal(t, 1, snap.GoalIndex)

	s := e.State()
	s.TimeLeftMs = 1
	e.swap(s)
	require.NotPanics(t, func() { snap = e.Tick(frame) })
	assert.Equal(t, PhaseFail, snap.Phase)

	_, ok := e.Result()
	assert.True(t, ok, "result kept even when the sink fails")
}

func TestEngineResultSinkPanicIsContained(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic),
		WithResultSink(ResultSinkFunc(func(Result) error { panic("boom") })))
	e.Start(5)
	s := e.State()
	s.TimeLeftMs = 1
	e.swap(s)
	assert.NotPanics(t, func() { e.Tick(frame) })
}

func TestEngineStop(t *testing.T) {
	log := &resultLog{}
	e := NewEngine(testConfig(config.VariantClassic), WithResultSink(log))
	e.Start(1)
	e.Tick(frame)
	e.ApplyInput(Input{Nudge: 50})

	e.Stop()
	snap := e.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)

	after := e.Tick(frame)
	assert.Equal(t, snap.ElapsedMs, after.ElapsedMs)
	assert.Empty(t, log.results)

	// A new session does not see input queued before Stop.
	e.Start(2)
	assert.Equal(t, 180.0, e.Tick(frame).Platform.TargetX)
}

func TestEngineStopKeepsFinishedSession(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	s := e.State()
	s.TimeLeftMs = 1
	e.swap(s)
	e.Tick(frame)
	e.Stop()
	assert.Equal(t, PhaseFail, e.Snapshot().Phase)
}

func TestEngineSnapshotIsACopy(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	snap := e.Tick(frame)
	require.NotEmpty(t, snap.Blocks)

	snap.Blocks[0].Y = 9999
	snap.Stack = append(snap.Stack, StackedBlock{H: 1})
	fresh := e.Snapshot()
	assert.NotEqual(t, 9999.0, fresh.Blocks[0].Y)
	assert.Empty(t, fresh.Stack)
}

func TestEngineRunFrames(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)

	frames := make(chan time.Time, 11)
	base := time.Unix(0, 0)
	for i := range 11 {
		frames <- base.Add(time.Duration(i) * frame)
	}
	close(frames)

	require.NoError(t, e.Run(context.Background(), frames))
	assert.InDelta(t, 160.0, e.Snapshot().ElapsedMs, 1e-9, "first frame sets the time base")
}

func TestEngineRunStopsAtTerminalPhase(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)
	s := e.State()
	s.TimeLeftMs = 10
	e.swap(s)

	frames := make(chan time.Time, 10)
	base := time.Unix(0, 0)
	for i := range 10 {
		frames <- base.Add(time.Duration(i) * frame)
	}

	require.NoError(t, e.Run(context.Background(), frames))
	assert.Equal(t, PhaseFail, e.Snapshot().Phase)
	assert.Len(t, frames, 8, "run returned right after the session ended")
}

func TestEngineRunCancel(t *testing.T) {
	e := NewEngine(testConfig(config.VariantClassic))
	e.Start(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)
}

// autoplay runs a whole session with the autopilot and returns every snapshot.
func autoplay(t *testing.T, cfg config.DeployConfig, seed uint32) ([]Snapshot, Result) {
	t.Helper()
	e := NewEngine(cfg, WithClock(fixedClock))
	snap := e.Start(seed)
	pilot := Autopilot{Avoid: true}

	var snaps []Snapshot
	for i := 0; i < 40000 && snap.Phase == PhasePlaying; i++ {
		e.ApplyInput(pilot.Decide(snap))
		snap = e.Tick(frame)
		snaps = append(snaps, snap)
	}
	if snap.Phase == PhasePlaying {
		// A good endless run can outlast the loop; run the clock out.
		s := e.State()
		s.TimeLeftMs = 1
		e.swap(s)
		snap = e.Tick(frame)
		snaps = append(snaps, snap)
	}
	require.True(t, snap.Phase.Terminal(), "session did not end")
	res, ok := e.Result()
	require.True(t, ok)
	return snaps, res
}

func TestEngineDeterministic(t *testing.T) {
	for _, variant := range []string{config.VariantClassic, config.VariantEndless, config.VariantBlocking} {
		t.Run(variant, func(t *testing.T) {
			cfg := testConfig(variant)
			a, resA := autoplay(t, cfg, 0xC0FFEE)
			b, resB := autoplay(t, cfg, 0xC0FFEE)

			require.Equal(t, len(a), len(b))
			assert.Equal(t, a[len(a)-1], b[len(b)-1])
			for i := range a {
				if a[i].Score != b[i].Score || a[i].NextBlockID != b[i].NextBlockID || a[i].Platform != b[i].Platform {
					t.Fatalf("sessions diverged at tick %d", i)
				}
			}

			assert.NotEqual(t, resA.SessionID, resB.SessionID)
			resA.SessionID, resB.SessionID = "", ""
			resA.Checksum, resB.Checksum = "", ""
			assert.Equal(t, resA, resB)
		})
	}
}

func TestEngineInvariantsUnderAutoplay(t *testing.T) {
	cfg := testConfig(config.VariantEndless)
	for _, seed := range []uint32{1, 2, 3} {
		snaps, res := autoplay(t, cfg, seed)
		for i, s := range snaps {
			require.GreaterOrEqual(t, s.TimeLeftMs, 0.0, "seed %d tick %d", seed, i)
			require.LessOrEqual(t, s.TimeLeftMs, cfg.Session.MaxDurationMs, "seed %d tick %d", seed, i)
			require.GreaterOrEqual(t, s.Platform.X, s.Platform.Width/2)
			require.LessOrEqual(t, s.Platform.X, cfg.Field.Width-s.Platform.Width/2)
			require.LessOrEqual(t, len(s.Blocks), cfg.Session.MaxActiveBlocks)
			require.GreaterOrEqual(t, s.GoalIndex, 0)
			require.Less(t, s.GoalIndex, SequenceLen)
			require.GreaterOrEqual(t, s.Combo, 1.0)
			require.LessOrEqual(t, s.Combo, cfg.Scoring.ComboCap)
		}
		assert.True(t, res.Verify())
		assert.Equal(t, int64(math.Round(snaps[len(snaps)-1].ElapsedMs)), res.DurationMs)
	}
}
