package deploy

import (
	"time"

	"github.com/vovakirdan/deploy-or-die/internal/config"
)

// seqSource replays fixed values, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func constSource(v float64) *seqSource { return &seqSource{vals: []float64{v}} }

func testConfig(variant string) config.DeployConfig {
	cfg, err := config.WithVariant(config.DefaultDeployConfig(), variant)
	if err != nil {
		panic(err)
	}
	return cfg
}

var fixedNow = time.UnixMilli(1700000000000)

func fixedClock() time.Time { return fixedNow }

// playingState returns a fresh playing state for the variant.
func playingState(variant string) (State, Scorer) {
	cfg := testConfig(variant)
	e := NewEngine(cfg)
	return e.initialState(PhasePlaying), NewScorer(cfg)
}

func stepBlock(step StepID, x float64) FallingBlock {
	return FallingBlock{Kind: StepBlock{step}, X: x, W: 60, H: 60}
}
