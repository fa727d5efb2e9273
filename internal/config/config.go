// Package config provides YAML-based game configuration loading and
// difficulty management for Deploy or Die.
//
// All distances are in play-field units (the field is 360x640 by default)
// and all durations are in milliseconds unless a field name says otherwise.
package config

import "fmt"

// DeployConfig contains all tunables of a session.
type DeployConfig struct {
	Session    SessionConfig    `yaml:"session"`
	Field      FieldConfig      `yaml:"field"`
	Ramp       RampConfig       `yaml:"ramp"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Controls   ControlsConfig   `yaml:"controls"`
	Rules      RulesConfig      `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SessionConfig bounds the session timer and the frame loop.
type SessionConfig struct {
	DurationMs      float64 `yaml:"duration_ms"`       // starting time budget
	MaxDurationMs   float64 `yaml:"max_duration_ms"`   // bonuses never push the timer above this
	MaxFrameMs      float64 `yaml:"max_frame_ms"`      // frame delta clamp
	MaxActiveBlocks int     `yaml:"max_active_blocks"` // spawn back-pressure
}

// FieldConfig describes the play field geometry.
type FieldConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	PlatformWidth  float64 `yaml:"platform_width"`
	PlatformOffset float64 `yaml:"platform_offset"` // distance from field bottom to platform top
	BlockWidth     float64 `yaml:"block_width"`
	BlockHeight    float64 `yaml:"block_height"`
	SpawnDrift     float64 `yaml:"spawn_drift"`  // max horizontal drift speed of a new block, units/s
	StackMargin    float64 `yaml:"stack_margin"` // inset from the support edge when placing a stacked block
	StackJitter    float64 `yaml:"stack_jitter"` // max random offset added to a stacked block
}

// SpawnConfig holds the integer weights of the spawn bag.
type SpawnConfig struct {
	GoalWeight          int     `yaml:"goal_weight"`
	NextWeight          int     `yaml:"next_weight"`
	AfterNextWeight     int     `yaml:"after_next_weight"`
	DecoyWeight         int     `yaml:"decoy_weight"`
	HealWeight          int     `yaml:"heal_weight"`
	TimeBonusWeight     int     `yaml:"time_bonus_weight"`
	BadWeight           int     `yaml:"bad_weight"`         // per bad kind, while a bad spawn is recent
	BadStarvedWeight    int     `yaml:"bad_starved_weight"` // per bad kind, once bad spawns have been starved
	BadEverySecMin      float64 `yaml:"bad_every_sec_min"`
	HealBiasWhenBlocked float64 `yaml:"heal_bias_when_blocked"` // blocking rules only
}

// ScoringConfig holds points, combo tiers and the time economy.
type ScoringConfig struct {
	Base            int       `yaml:"base"`
	SpeedBonus      int       `yaml:"speed_bonus"`
	SpeedWindowMs   float64   `yaml:"speed_window_ms"`
	FinishPerSec    float64   `yaml:"finish_per_sec"` // cycle bonus per remaining second
	ComboCap        float64   `yaml:"combo_cap"`
	ComboTiers      []float64 `yaml:"combo_tiers"`
	ComboMult       []float64 `yaml:"combo_mult"`
	CorrectBonusMs  float64   `yaml:"correct_bonus_ms"`
	WrongPenaltyMs  float64   `yaml:"wrong_penalty_ms"`
	BadPenaltyMs    float64   `yaml:"bad_penalty_ms"` // blocking rules only
	HealBonusMs     float64   `yaml:"heal_bonus_ms"`  // blocking rules only
	TimeBonusMs     float64   `yaml:"time_bonus_ms"`
	BadScorePenalty int       `yaml:"bad_score_penalty"`
	HealScoreBonus  int       `yaml:"heal_score_bonus"`
}

// ControlsConfig tunes how input moves the platform.
type ControlsConfig struct {
	Ease       float64 `yaml:"ease"`         // fraction of the remaining distance covered per frame
	KeySpeed   float64 `yaml:"key_speed"`    // units/s while a direction key is held
	KeyStep    float64 `yaml:"key_step"`     // units per discrete key press
	MaxTiltDeg float64 `yaml:"max_tilt_deg"` // tilt angle mapped to the field edge
}

// Rule variants. Each one is a complete, self-consistent rule set.
const (
	VariantClassic  = "classic"
	VariantEndless  = "endless"
	VariantBlocking = "blocking"
)

// RulesConfig selects the behaviors that differ between variants.
type RulesConfig struct {
	Variant                   string  `yaml:"variant"`
	TimeBonusBlocks           bool    `yaml:"time_bonus_blocks"`
	CycleEndsSession          bool    `yaml:"cycle_ends_session"`
	ClearStackOnCycle         bool    `yaml:"clear_stack_on_cycle"`
	CycleSpawnCutMs           float64 `yaml:"cycle_spawn_cut_ms"`
	Blocking                  bool    `yaml:"blocking"`
	TimeoutSucceedsAfterCycle bool    `yaml:"timeout_succeeds_after_cycle"`
}

// RulesForVariant returns the rule set for a named variant.
func RulesForVariant(name string) (RulesConfig, error) {
	switch name {
	case VariantClassic, "":
		return RulesConfig{
			Variant:          VariantClassic,
			TimeBonusBlocks:  true,
			CycleEndsSession: true,
		}, nil
	case VariantEndless:
		return RulesConfig{
			Variant:                   VariantEndless,
			TimeBonusBlocks:           true,
			ClearStackOnCycle:         true,
			CycleSpawnCutMs:           60,
			TimeoutSucceedsAfterCycle: true,
		}, nil
	case VariantBlocking:
		return RulesConfig{
			Variant:                   VariantBlocking,
			ClearStackOnCycle:         true,
			Blocking:                  true,
			TimeoutSucceedsAfterCycle: true,
		}, nil
	default:
		return RulesConfig{}, fmt.Errorf("config: unknown variant %q", name)
	}
}

// DifficultyConfig controls the ramp starting point and progression.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = ramp starts at the beginning, 1.0 = saturated
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DeployConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Field.PlatformWidth = cfg.Field.BlockWidth * 2
	case DifficultyHard:
		cfg.Field.PlatformWidth = cfg.Field.BlockWidth * 1.2
		cfg.Scoring.WrongPenaltyMs *= 1.5
	}
}
