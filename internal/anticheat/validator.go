// Package anticheat rejects cards whose stats the server cannot re-derive
// from data it already trusts.
package anticheat

import (
	"errors"
	"fmt"
	"math"

	"cardclash/internal/combat"
	"cardclash/internal/config"
	"cardclash/internal/ownership"
)

var (
	ErrNotOwned      = errors.New("card is not in the verified library")
	ErrUnknownRarity = errors.New("unknown rarity")
	ErrPlaytimeClaim = errors.New("claimed playtime exceeds verified playtime")
	ErrAttackTooHigh = errors.New("attack exceeds plausible maximum")
)

// Growth is the diminishing, capped stat growth earned by playtime.
func Growth(minutes int, scale, max float64) float64 {
	if minutes <= 0 {
		return 0
	}
	g := scale * math.Log2(1+float64(minutes)/60)
	if g > max {
		g = max
	}
	return g
}

type Validator struct {
	rules *config.RulesConfig
}

func New(rules *config.RulesConfig) *Validator {
	return &Validator{rules: rules}
}

// MaxAttack is the highest attack a card of this rarity can reach after
// the given playtime, including the safety margin.
func (v *Validator) MaxAttack(minutes int, rarity combat.Rarity) (int, error) {
	growthCap, ok := v.rules.GrowthCap(string(rarity))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, rarity)
	}
	vc := v.rules.Validator
	base := vc.BaseAttack + Growth(minutes, vc.GrowthScale, vc.GrowthMax)
	return int(math.Floor(base * growthCap * vc.SafetyMargin)), nil
}

// Check explains why a card fails validation. Playtime comes from the
// library, never from the card.
func (v *Validator) Check(c *combat.Card, lib ownership.Library) error {
	app, ok := lib[c.ID]
	if !ok {
		return fmt.Errorf("card %s: %w", c.ID, ErrNotOwned)
	}
	if c.PlaytimeMinutes > app.PlaytimeMinutes {
		return fmt.Errorf("card %s: %w (%d > %d)", c.ID, ErrPlaytimeClaim, c.PlaytimeMinutes, app.PlaytimeMinutes)
	}
	limit, err := v.MaxAttack(app.PlaytimeMinutes, c.Rarity)
	if err != nil {
		return fmt.Errorf("card %s: %w", c.ID, err)
	}
	if c.Attack > limit {
		return fmt.Errorf("card %s: %w (%d > %d)", c.ID, ErrAttackTooHigh, c.Attack, limit)
	}
	return nil
}

func (v *Validator) Validate(c *combat.Card, lib ownership.Library) bool {
	return v.Check(c, lib) == nil
}
