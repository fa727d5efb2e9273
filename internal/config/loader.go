package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "deploy.yaml"

// Load loads the Deploy or Die configuration.
// Search order: customPath -> ~/.deploy/configs/deploy.yaml -> ./configs/deploy.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
func Load(customPath string) (DeployConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DeployConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DeployConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultDeployYAML)
	if err != nil {
		return DefaultDeployConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultDeployConfig and validates the result.
// A rules.variant key selects that variant's rule set before the remaining
// rules keys are applied on top of it.
func Parse(data []byte) (DeployConfig, error) {
	cfg := DefaultDeployConfig()

	var probe struct {
		Rules struct {
			Variant string `yaml:"variant"`
		} `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return DeployConfig{}, fmt.Errorf("parse: %w", err)
	}
	if rules, err := RulesForVariant(probe.Rules.Variant); err == nil {
		cfg.Rules = rules
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DeployConfig{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DeployConfig{}, err
	}
	return cfg, nil
}

// WithVariant returns a copy of cfg using the named variant's rules.
func WithVariant(cfg DeployConfig, variant string) (DeployConfig, error) {
	rules, err := RulesForVariant(variant)
	if err != nil {
		return cfg, err
	}
	cfg.Rules = rules
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".deploy", "configs", filename)
}

// Validate reports every inconsistent value in the config.
func (c DeployConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	s := c.Session
	check(s.DurationMs > 0, "session.duration_ms must be positive, got %v", s.DurationMs)
	check(s.MaxDurationMs >= s.DurationMs, "session.max_duration_ms (%v) must be >= duration_ms (%v)", s.MaxDurationMs, s.DurationMs)
	check(s.MaxFrameMs > 0, "session.max_frame_ms must be positive, got %v", s.MaxFrameMs)
	check(s.MaxActiveBlocks > 0, "session.max_active_blocks must be positive, got %d", s.MaxActiveBlocks)

	f := c.Field
	check(f.Width > 0 && f.Height > 0, "field size must be positive, got %vx%v", f.Width, f.Height)
	check(f.BlockWidth > 0 && f.BlockHeight > 0, "block size must be positive, got %vx%v", f.BlockWidth, f.BlockHeight)
	check(f.PlatformWidth > 0 && f.PlatformWidth <= f.Width, "field.platform_width must be in (0, width], got %v", f.PlatformWidth)
	check(f.BlockWidth <= f.Width, "field.block_width (%v) wider than the field", f.BlockWidth)
	check(f.PlatformOffset >= 0 && f.PlatformOffset < f.Height, "field.platform_offset out of range: %v", f.PlatformOffset)
	check(f.StackMargin >= 0 && f.StackJitter >= 0, "field.stack_margin and stack_jitter must be non-negative")

	if err := c.Ramp.Validate(); err != nil {
		errs = append(errs, err)
	}

	sp := c.Spawn
	for name, w := range map[string]int{
		"goal_weight":        sp.GoalWeight,
		"next_weight":        sp.NextWeight,
		"after_next_weight":  sp.AfterNextWeight,
		"decoy_weight":       sp.DecoyWeight,
		"heal_weight":        sp.HealWeight,
		"time_bonus_weight":  sp.TimeBonusWeight,
		"bad_weight":         sp.BadWeight,
		"bad_starved_weight": sp.BadStarvedWeight,
	} {
		check(w >= 0, "spawn.%s must be non-negative, got %d", name, w)
	}
	check(sp.GoalWeight > 0, "spawn.goal_weight must be positive")
	check(sp.BadStarvedWeight > sp.BadWeight, "spawn.bad_starved_weight (%d) must exceed bad_weight (%d)", sp.BadStarvedWeight, sp.BadWeight)
	check(sp.BadEverySecMin >= 0, "spawn.bad_every_sec_min must be non-negative")
	check(sp.HealBiasWhenBlocked >= 0 && sp.HealBiasWhenBlocked <= 1, "spawn.heal_bias_when_blocked must be in [0, 1], got %v", sp.HealBiasWhenBlocked)

	sc := c.Scoring
	check(sc.ComboCap >= 1, "scoring.combo_cap must be >= 1, got %v", sc.ComboCap)
	check(len(sc.ComboTiers) == len(sc.ComboMult), "scoring.combo_tiers and combo_mult differ in length (%d vs %d)", len(sc.ComboTiers), len(sc.ComboMult))
	for i := 1; i < len(sc.ComboTiers); i++ {
		check(sc.ComboTiers[i] > sc.ComboTiers[i-1], "scoring.combo_tiers must be ascending")
	}
	for i := 1; i < len(sc.ComboMult); i++ {
		check(sc.ComboMult[i] >= sc.ComboMult[i-1], "scoring.combo_mult must be non-decreasing")
	}
	if len(sc.ComboMult) > 0 {
		check(sc.ComboMult[0] >= 1, "scoring.combo_mult must start at >= 1")
	}
	check(sc.CorrectBonusMs >= 0 && sc.WrongPenaltyMs >= 0 && sc.BadPenaltyMs >= 0 &&
		sc.HealBonusMs >= 0 && sc.TimeBonusMs >= 0, "scoring time bonuses and penalties must be non-negative")

	ct := c.Controls
	check(ct.Ease > 0 && ct.Ease <= 1, "controls.ease must be in (0, 1], got %v", ct.Ease)
	check(ct.KeySpeed >= 0 && ct.KeyStep >= 0, "controls key speeds must be non-negative")
	check(ct.MaxTiltDeg > 0, "controls.max_tilt_deg must be positive")

	if _, err := RulesForVariant(c.Rules.Variant); err != nil {
		errs = append(errs, err)
	}
	check(c.Difficulty.InitialLevel >= 0 && c.Difficulty.InitialLevel <= 1, "difficulty.initial_level must be in [0, 1], got %v", c.Difficulty.InitialLevel)

	return errors.Join(errs...)
}
