package config

import (
	"errors"
	"fmt"
)

type RulesConfig struct {
	Loop      LoopConfig      `yaml:"loop"`
	Positions PositionsConfig `yaml:"positions"`
	Interval  IntervalConfig  `yaml:"interval"`
	Synergy   SynergyConfig   `yaml:"synergy"`
	Rarities  []Rarity        `yaml:"rarities"`
	Validator ValidatorConfig `yaml:"validator"`
	Forge     ForgeConfig     `yaml:"forge"`
}

type LoopConfig struct {
	TickMS          int     `yaml:"tick_ms"`
	CapMS           int     `yaml:"cap_ms"`
	DrawMarginPct   float64 `yaml:"draw_margin_pct"`
	ReflectFraction float64 `yaml:"reflect_fraction"`
}

type PositionsConfig struct {
	Front PositionMod `yaml:"front"`
	Back  PositionMod `yaml:"back"`
}

type PositionMod struct {
	Attack float64 `yaml:"attack"`
	Skill  float64 `yaml:"skill"`
}

type IntervalConfig struct {
	BaseMS          int            `yaml:"base_ms"`
	AttackThreshold int            `yaml:"attack_threshold"`
	AttackPenaltyMS float64        `yaml:"attack_penalty_ms"`
	HPThreshold     int            `yaml:"hp_threshold"`
	HPBonusMS       float64        `yaml:"hp_bonus_ms"`
	HPBonusCapMS    int            `yaml:"hp_bonus_cap_ms"`
	FloorMS         int            `yaml:"floor_ms"`
	SkillCutMS      map[string]int `yaml:"skill_cut_ms"`
}

type SynergyConfig struct {
	MinCards      int `yaml:"min_cards"`
	PointsPerCard int `yaml:"points_per_card"`
}

type Rarity struct {
	ID        string  `yaml:"id"`
	GrowthCap float64 `yaml:"growth_cap"`
	Note      string  `yaml:"note"`
}

type ValidatorConfig struct {
	BaseAttack   float64 `yaml:"base_attack"`
	GrowthScale  float64 `yaml:"growth_scale"`
	GrowthMax    float64 `yaml:"growth_max"`
	SafetyMargin float64 `yaml:"safety_margin"`
}

// ForgeConfig scales HP the same way the validator scales attack.
type ForgeConfig struct {
	BaseHP        float64 `yaml:"base_hp"`
	HPGrowthScale float64 `yaml:"hp_growth_scale"`
	HPGrowthMax   float64 `yaml:"hp_growth_max"`
}

var ErrInvalidRules = errors.New("invalid rules")

func (rc *RulesConfig) Validate() error {
	switch {
	case rc.Loop.TickMS <= 0:
		return fmt.Errorf("%w: loop.tick_ms must be positive", ErrInvalidRules)
	case rc.Loop.CapMS < rc.Loop.TickMS:
		return fmt.Errorf("%w: loop.cap_ms must be at least one tick", ErrInvalidRules)
	case rc.Interval.BaseMS <= 0:
		return fmt.Errorf("%w: interval.base_ms must be positive", ErrInvalidRules)
	case rc.Interval.FloorMS <= 0:
		return fmt.Errorf("%w: interval.floor_ms must be positive", ErrInvalidRules)
	case rc.Synergy.MinCards < 1:
		return fmt.Errorf("%w: synergy.min_cards must be at least 1", ErrInvalidRules)
	case rc.Validator.SafetyMargin < 1:
		return fmt.Errorf("%w: validator.safety_margin must be >= 1", ErrInvalidRules)
	case len(rc.Rarities) == 0:
		return fmt.Errorf("%w: rarities are empty", ErrInvalidRules)
	}
	seen := map[string]bool{}
	for _, r := range rc.Rarities {
		if r.ID == "" || r.GrowthCap <= 0 {
			return fmt.Errorf("%w: rarity %q needs an id and a positive growth_cap", ErrInvalidRules, r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate rarity %q", ErrInvalidRules, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// GrowthCap returns the multiplier for a rarity id.
func (rc *RulesConfig) GrowthCap(rarity string) (float64, bool) {
	for _, r := range rc.Rarities {
		if r.ID == rarity {
			return r.GrowthCap, true
		}
	}
	return 0, false
}
