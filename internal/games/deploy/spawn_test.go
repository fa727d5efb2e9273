package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/deploy-or-die/internal/config"
)

func weightOf(bag []WeightedKind, k BlockKind) int {
	for _, wk := range bag {
		if wk.Kind == k {
			return wk.Weight
		}
	}
	return 0
}

func TestSpawnWeightsFavorGoal(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)

	bag := sp.Weights(3, 0, 0)
	assert.Equal(t, 50, weightOf(bag, StepBlock{StepAt(3)}))
	assert.Equal(t, 12, weightOf(bag, StepBlock{StepAt(4)}))
	assert.Equal(t, 8, weightOf(bag, StepBlock{StepAt(5)}))
	assert.Equal(t, 4, weightOf(bag, StepBlock{StepAt(0)}))
	assert.Equal(t, 6, weightOf(bag, HealBlock{HealFixInfra}))
	assert.Equal(t, 4, weightOf(bag, TimeBonusBlock{}))
	assert.Equal(t, 5, weightOf(bag, BadBlock{BadBug}))

	// Next steps wrap around the end of the sequence.
	bag = sp.Weights(8, 0, 0)
	assert.Equal(t, 12, weightOf(bag, StepBlock{StepRequirements}))
	assert.Equal(t, 8, weightOf(bag, StepBlock{StepBranch}))
}

func TestSpawnWeightsNoTimeBonusInBlockingRules(t *testing.T) {
	cfg := testConfig(config.VariantBlocking)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)
	assert.Zero(t, weightOf(sp.Weights(0, 0, 0), TimeBonusBlock{}))
}

func TestSpawnStarvationRaisesBadWeight(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)
	baseline := BadWeight(sp.Weights(0, 5000, 0))
	assert.Equal(t, 2*cfg.Spawn.BadWeight, baseline)

	minGap := cfg.Spawn.BadEverySecMin * 1000
	for _, lastBad := range []float64{0, 30000, 55000} {
		starved := BadWeight(sp.Weights(0, lastBad+minGap, lastBad))
		assert.Greater(t, starved, baseline, "lastBad=%v", lastBad)

		recent := BadWeight(sp.Weights(0, lastBad+minGap-1, lastBad))
		assert.Equal(t, baseline, recent, "lastBad=%v", lastBad)
	}
}

func TestSpawnStarvationFrequency(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)
	rng := NewMulberry32(99)

	count := func(elapsed float64) int {
		bad := 0
		for range 20000 {
			s := State{ElapsedMs: elapsed, LastBadAtMs: 0}
			if _, ok := sp.Pick(&s, rng).(BadBlock); ok {
				bad++
			}
		}
		return bad
	}
	recent := count(1000)
	starved := count(20000)
	assert.Greater(t, starved, recent*3/2, "starved=%d recent=%d", starved, recent)
}

func TestSpawnPickWalksBag(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)

	s := State{GoalIndex: 2}
	assert.Equal(t, StepBlock{StepCode}, sp.Pick(&s, constSource(0)))

	s = State{GoalIndex: 2, ElapsedMs: 40000}
	k := sp.Pick(&s, constSource(0.999999))
	assert.Equal(t, BadBlock{BadInfra}, k)
	assert.Equal(t, 40000.0, s.LastBadAtMs, "bad pick records its time")
}

func TestSpawnPickCoversEveryKind(t *testing.T) {
	cfg := testConfig(config.VariantClassic)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)
	rng := NewMulberry32(5)

	seen := map[string]bool{}
	for range 5000 {
		s := State{ElapsedMs: 60000}
		seen[sp.Pick(&s, rng).Key()] = true
	}
	for _, wk := range sp.Weights(0, 60000, 0) {
		assert.True(t, seen[wk.Kind.Key()], "never picked %s", wk.Kind.Key())
	}
}

func TestSpawnHealBiasWhenBlocked(t *testing.T) {
	cfg := testConfig(config.VariantBlocking)
	sp := NewSpawnSelector(cfg.Spawn, cfg.Rules)

	s := State{BlockedBy: BadInfra}
	require.Equal(t, HealBlock{HealFixInfra}, sp.Pick(&s, constSource(0.5)))

	// Above the bias threshold the regular bag is used.
	s = State{BlockedBy: BadInfra}
	_, isHeal := sp.Pick(&s, &seqSource{vals: []float64{0.9, 0}}).(HealBlock)
	assert.False(t, isHeal)

	// Classic rules never bias.
	classic := testConfig(config.VariantClassic)
	sp = NewSpawnSelector(classic.Spawn, classic.Rules)
	s = State{BlockedBy: BadBug}
	assert.Equal(t, StepBlock{StepRequirements}, sp.Pick(&s, constSource(0)))
}
