package combat

import (
	"math"

	"cardclash/internal/config"
)

func positionMod(p config.PositionsConfig, pos Position) config.PositionMod {
	if pos == Back {
		return p.Back
	}
	return p.Front
}

// skillScale is the factor applied to every percentage magnitude a card's
// skills carry: position multiplier times the side's synergy bonus.
func skillScale(p config.PositionsConfig, pos Position, synergy int) float64 {
	return positionMod(p, pos).Skill * (1 + float64(synergy)/100)
}

func floorMul(v int, mul float64) int {
	return int(math.Floor(float64(v) * mul))
}

// AttackInterval returns a card's fixed cooldown in milliseconds.
func AttackInterval(c *Card, ic config.IntervalConfig) int {
	ms := float64(ic.BaseMS)
	if c.Attack > ic.AttackThreshold {
		ms += float64(c.Attack-ic.AttackThreshold) * ic.AttackPenaltyMS
	}
	if c.HP > ic.HPThreshold {
		bonus := float64(c.HP-ic.HPThreshold) * ic.HPBonusMS
		if bonus > float64(ic.HPBonusCapMS) {
			bonus = float64(ic.HPBonusCapMS)
		}
		ms -= bonus
	}
	for id, cut := range ic.SkillCutMS {
		if c.HasSkill(id) {
			ms -= float64(cut)
		}
	}
	v := int(math.Floor(ms))
	if v < ic.FloorMS {
		v = ic.FloorMS
	}
	return v
}

// SynergyBonus returns the skill-strength bonus, in percentage points, a
// roster earns from genres shared by MinCards or more cards.
func SynergyBonus(r Roster, sc config.SynergyConfig) int {
	counts := map[string]int{}
	r.each(func(_ SlotRef, c *Card) {
		seen := map[string]bool{}
		for _, g := range c.Genres {
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			counts[g]++
		}
	})
	bonus := 0
	for _, n := range counts {
		if n >= sc.MinCards {
			bonus += (n - (sc.MinCards - 1)) * sc.PointsPerCard
		}
	}
	return bonus
}
