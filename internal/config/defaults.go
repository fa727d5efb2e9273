package config

import (
	_ "embed"
)

//go:embed defaults/deploy.yaml
var defaultDeployYAML []byte

// DefaultDeployConfig returns the hard-coded Deploy or Die configuration.
// It mirrors defaults/deploy.yaml and is used when the embedded file cannot be parsed.
func DefaultDeployConfig() DeployConfig {
	rules, _ := RulesForVariant(VariantClassic)
	return DeployConfig{
		Session: SessionConfig{
			DurationMs:      120000,
			MaxDurationMs:   180000,
			MaxFrameMs:      50,
			MaxActiveBlocks: 12,
		},
		Field: FieldConfig{
			Width:          360,
			Height:         640,
			PlatformWidth:  90,
			PlatformOffset: 24,
			BlockWidth:     60,
			BlockHeight:    60,
			SpawnDrift:     20,
			StackMargin:    4,
			StackJitter:    3,
		},
		Ramp: RampConfig{
			FallSpeedStart:       180,
			FallSpeedMax:         300,
			FallRampPct:          0.06,
			RampEverySec:         20,
			SpawnIntervalStartMs: 1000,
			SpawnIntervalMinMs:   600,
			SpawnIntervalStepMs:  40,
			SpawnJitter:          0.3,
		},
		Spawn: SpawnConfig{
			GoalWeight:          50,
			NextWeight:          12,
			AfterNextWeight:     8,
			DecoyWeight:         4,
			HealWeight:          6,
			TimeBonusWeight:     4,
			BadWeight:           5,
			BadStarvedWeight:    12,
			BadEverySecMin:      12,
			HealBiasWhenBlocked: 0.85,
		},
		Scoring: ScoringConfig{
			Base:            100,
			SpeedBonus:      20,
			SpeedWindowMs:   1000,
			FinishPerSec:    5,
			ComboCap:        10,
			ComboTiers:      []float64{2, 4, 6, 8},
			ComboMult:       []float64{1.2, 1.5, 1.8, 2.0},
			CorrectBonusMs:  1000,
			WrongPenaltyMs:  5000,
			BadPenaltyMs:    8000,
			HealBonusMs:     2000,
			TimeBonusMs:     3000,
			BadScorePenalty: 10,
			HealScoreBonus:  10,
		},
		Controls: ControlsConfig{
			Ease:       0.25,
			KeySpeed:   400,
			KeyStep:    36,
			MaxTiltDeg: 30,
		},
		Rules: rules,
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
		},
	}
}
