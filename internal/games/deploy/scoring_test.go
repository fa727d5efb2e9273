package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/deploy-or-die/internal/config"
)

func countEvents(evs []Event, t EventType) int {
	n := 0
	for _, ev := range evs {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestComboMultiplier(t *testing.T) {
	_, sc := playingState(config.VariantClassic)

	tests := []struct {
		combo float64
		want  float64
	}{
		{0, 1}, {1, 1}, {1.9, 1}, {2, 1.2}, {3, 1.2}, {4, 1.5},
		{5.5, 1.5}, {6, 1.8}, {7, 1.8}, {8, 2.0}, {10, 2.0}, {100, 2.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sc.ComboMultiplier(tt.combo), "combo %v", tt.combo)
	}
}

func TestComboMultiplierMonotonic(t *testing.T) {
	_, sc := playingState(config.VariantClassic)
	prev := sc.ComboMultiplier(0)
	for c := 0.0; c <= 20; c += 0.25 {
		m := sc.ComboMultiplier(c)
		require.GreaterOrEqual(t, m, prev, "combo %v", c)
		prev = m
	}
}

func TestCorrectFullCycle(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	rng := NewMulberry32(1)

	var events []Event
	for _, step := range StepSequence() {
		// Space catches out so the speed bonus does not apply.
		s.ElapsedMs += 2000
		events = append(events, sc.Apply(&s, stepBlock(step, s.Platform.X), rng)...)
	}

	assert.Equal(t, 0, s.GoalIndex)
	assert.Equal(t, 1, s.CompletedCycles)
	assert.Equal(t, 1, countEvents(events, EventCycleComplete), "cycle bonus exactly once")
	assert.Equal(t, 9, countEvents(events, EventCorrect))
	assert.Equal(t, 10.0, s.Combo, "nine increments from 1, capped at 10")
	assert.Equal(t, 10.0, s.MaxCombo)
	assert.Equal(t, 129000.0, s.TimeLeftMs)

	// scored at combo 1..9 -> 100+120+120+150+150+180+180+200+200, then 129s * 5.
	assert.Equal(t, 1400+645, s.Score)
	assert.Len(t, s.Stack, 9, "classic rules keep the stack")
	assert.Zero(t, s.Mistakes)
}

func TestCycleClearsStackInEndless(t *testing.T) {
	s, sc := playingState(config.VariantEndless)
	rng := NewMulberry32(1)
	for _, step := range StepSequence() {
		sc.Apply(&s, stepBlock(step, s.Platform.X), rng)
	}
	assert.Empty(t, s.Stack)
	assert.Equal(t, 1, s.CompletedCycles)
}

func TestGoalWrapsEverySequence(t *testing.T) {
	s, sc := playingState(config.VariantEndless)
	rng := NewMulberry32(3)
	cycles := 0
	for i := range 3 * SequenceLen {
		evs := sc.Apply(&s, stepBlock(s.Goal(), s.Platform.X), rng)
		cycles += countEvents(evs, EventCycleComplete)
		assert.Equal(t, (i+1)%SequenceLen, s.GoalIndex)
	}
	assert.Equal(t, 3, cycles)
	assert.Equal(t, 3, s.CompletedCycles)
}

func TestSpeedBonus(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	rng := NewMulberry32(1)

	s.ElapsedMs = 5000
	evs := sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X), rng)
	assert.Equal(t, 100, evs[0].ScoreDelta, "first catch has no predecessor")

	s.ElapsedMs = 5900
	evs = sc.Apply(&s, stepBlock(StepBranch, s.Platform.X), rng)
	assert.Equal(t, 120+20, evs[0].ScoreDelta)

	s.ElapsedMs = 7000
	evs = sc.Apply(&s, stepBlock(StepCode, s.Platform.X), rng)
	assert.Equal(t, 120, evs[0].ScoreDelta, "outside the window")
}

func TestWrongCatch(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	s.Combo = 5
	s.GoalIndex = 0
	before := s.TimeLeftMs
	score := s.Score

	evs := sc.Apply(&s, stepBlock(StepCode, s.Platform.X), NewMulberry32(1))
	require.Len(t, evs, 1)
	assert.Equal(t, EventWrong, evs[0].Type)
	assert.Equal(t, 1.0, s.Combo)
	assert.Equal(t, before-5000, s.TimeLeftMs)
	assert.Equal(t, -5000.0, evs[0].TimeDeltaMs)
	assert.Equal(t, score, s.Score)
	assert.Equal(t, 0, s.GoalIndex)
	assert.Equal(t, 1, s.Mistakes)
	assert.Empty(t, s.Stack)
}

func TestWrongCatchFloorsTime(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	s.TimeLeftMs = 3000
	evs := sc.Apply(&s, stepBlock(StepDeploy, s.Platform.X), NewMulberry32(1))
	assert.Equal(t, 0.0, s.TimeLeftMs)
	assert.Equal(t, -3000.0, evs[0].TimeDeltaMs)
}

func TestBadAndHealClassic(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	s.Combo = 4

	evs := sc.Apply(&s, FallingBlock{Kind: BadBlock{BadBug}}, nil)
	assert.Equal(t, EventBad, evs[0].Type)
	assert.Equal(t, -10, s.Score)
	assert.Equal(t, 1.0, s.Combo)
	assert.False(t, s.Blocked(), "classic rules never block")

	evs = sc.Apply(&s, FallingBlock{Kind: HealBlock{HealFixInfra}}, nil)
	assert.Equal(t, EventHeal, evs[0].Type)
	assert.Equal(t, 0, s.Score)
}

func TestTimeBonusClampsAtMax(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	s.TimeLeftMs = 179000
	s.Combo = 3
	evs := sc.Apply(&s, FallingBlock{Kind: TimeBonusBlock{}}, nil)
	assert.Equal(t, EventTimeBonus, evs[0].Type)
	assert.Equal(t, 180000.0, s.TimeLeftMs)
	assert.Equal(t, 1000.0, evs[0].TimeDeltaMs)
	assert.Equal(t, 3.0, s.Combo, "no combo effect")
	assert.Equal(t, 0, s.Score)
}

func TestCorrectCatchClampsTime(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	s.TimeLeftMs = 179800
	sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X), NewMulberry32(1))
	assert.Equal(t, 180000.0, s.TimeLeftMs)
}

func TestStackPlacement(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	rng := NewMulberry32(11)
	margin := 4.0

	sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X+100), rng)
	sc.Apply(&s, stepBlock(StepBranch, s.Platform.X-200), rng)
	require.Len(t, s.Stack, 2)

	first, second := s.Stack[0], s.Stack[1]
	assert.LessOrEqual(t, first.DX, s.Platform.Width/2-margin)
	assert.GreaterOrEqual(t, first.DX, s.Platform.Width/2-margin-3, "clamped then jittered inward")

	assert.LessOrEqual(t, absF(second.DX-first.DX), first.W/2-margin)
	assert.Less(t, second.DX, first.DX, "second block leans the way it was caught")
}

func TestStackStaysSupported(t *testing.T) {
	s, sc := playingState(config.VariantEndless)
	rng := NewMulberry32(77)
	for i := range 40 {
		x := between(rng, -200, 560)
		sc.Apply(&s, stepBlock(s.Goal(), x), rng)
		if n := len(s.Stack); n > 1 {
			below, top := s.Stack[n-2], s.Stack[n-1]
			require.LessOrEqual(t, absF(top.DX-below.DX), below.W/2-4, "catch %d", i)
		} else if n == 1 {
			require.LessOrEqual(t, absF(s.Stack[0].DX), s.Platform.Width/2-4, "catch %d", i)
		}
	}
}

func TestBlockingRules(t *testing.T) {
	s, sc := playingState(config.VariantBlocking)
	rng := NewMulberry32(1)
	start := s.TimeLeftMs

	evs := sc.Apply(&s, FallingBlock{Kind: BadBlock{BadBug}}, rng)
	assert.Equal(t, EventBad, evs[0].Type)
	assert.Equal(t, BadBug, s.BlockedBy)
	assert.Equal(t, start-8000, s.TimeLeftMs)
	assert.Equal(t, 0, s.Score, "blocking rules cost time, not points")

	// A correct step while blocked is a single wrong catch; the block stays.
	evs = sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X), rng)
	require.Len(t, evs, 1)
	assert.Equal(t, EventWrong, evs[0].Type)
	assert.Equal(t, start-8000-5000, s.TimeLeftMs)
	assert.Equal(t, BadBug, s.BlockedBy)
	assert.Equal(t, 0, s.GoalIndex)
	assert.Empty(t, s.Stack)

	// The wrong fix is also a wrong catch.
	evs = sc.Apply(&s, FallingBlock{Kind: HealBlock{HealFixInfra}}, rng)
	assert.Equal(t, EventWrong, evs[0].Type)
	assert.Equal(t, BadBug, s.BlockedBy)

	// The matching fix clears the block and refunds some time.
	before := s.TimeLeftMs
	evs = sc.Apply(&s, FallingBlock{Kind: HealBlock{HealFixBug}}, rng)
	assert.Equal(t, EventHeal, evs[0].Type)
	assert.False(t, s.Blocked())
	assert.Equal(t, before+2000, s.TimeLeftMs)
	assert.Equal(t, 3, s.Mistakes)

	// Unblocked again, steps count normally.
	evs = sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X), rng)
	assert.Equal(t, EventCorrect, evs[0].Type)
	assert.Equal(t, 1, s.GoalIndex)
}

func TestHealWhileUnblockedInBlockingRules(t *testing.T) {
	s, sc := playingState(config.VariantBlocking)
	evs := sc.Apply(&s, FallingBlock{Kind: HealBlock{HealFixBug}}, nil)
	assert.Equal(t, EventHeal, evs[0].Type)
	assert.Equal(t, 10, s.Score)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestCorrectScoresAtPreviousCombo(t *testing.T) {
	s, sc := playingState(config.VariantClassic)
	require.Equal(t, 1.0, s.Combo)

	evs := sc.Apply(&s, stepBlock(StepRequirements, s.Platform.X), NewMulberry32(1))
	assert.Equal(t, 100, s.Score, "below the first tier the multiplier is 1")
	assert.Equal(t, 100, evs[0].ScoreDelta)
	assert.Equal(t, 2.0, s.Combo)

	s.ElapsedMs += 5000
	evs = sc.Apply(&s, stepBlock(StepBranch, s.Platform.X), NewMulberry32(1))
	assert.Equal(t, 120, evs[0].ScoreDelta, "combo 2 reaches the first tier")
	assert.Equal(t, 3.0, s.Combo)
}
