package combat

import (
	"errors"
	"fmt"
	"math"

	"cardclash/internal/config"
)

// Rand is the random source threaded through one battle.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Exchange is the read-only view an effect handler gets of one attack.
type Exchange struct {
	Attacker      *CardState
	Defender      *CardState
	Base          int
	Damage        int // running damage; set after the attacker pass
	AllyCount     int
	DefenderHPPct float64
	FirstHit      bool
	rng           Rand
}

// EffectDelta is what one skill contributes to an exchange.
type EffectDelta struct {
	Applied      bool
	Bonus        float64
	Flat         int
	Pierce       float64
	Reduction    float64
	ReductionCap float64
	SelfHeal     float64
	AllyHeal     float64
	Critical     bool
	Negate       bool
	Dodge        bool
	Reflect      bool
}

// effectFunc gets the catalog entry and the owning card's skill scale.
type effectFunc func(x *Exchange, p config.Skill, scale float64) EffectDelta

type effect struct {
	id    string
	apply effectFunc
}

// Resolution order. Reordering these changes which skill is reported.
var attackerEffects = []effect{
	{"critical", chanceBonus(true)},
	{"lucky", chanceBonus(false)},
	{"berserk", flatBonus},
	{"combo", comboBonus},
	{"execute", executeBonus},
	{"teamwork", teamworkBonus},
	{"rage", rageBonus},
	{"ambush", ambushBonus},
	{"poison", poisonDamage},
	{"pierce", pierceDefense},
	{"lifesteal", lifesteal},
	{"heal", allyHeal},
}

var defenderEffects = []effect{
	{"guardian", guardFirstHit},
	{"dodge", chanceDodge},
	{"stealth", chanceDodge},
	{"defense", reduce},
	{"armor", reduce},
	{"lastStand", lastStand},
	{"reflect", reflectHit},
	{"thorns", thornsHit},
}

func chanceBonus(critical bool) effectFunc {
	return func(x *Exchange, p config.Skill, scale float64) EffectDelta {
		if x.rng.Float64() >= p.Chance {
			return EffectDelta{}
		}
		return EffectDelta{Applied: true, Bonus: p.Magnitude * scale, Critical: critical}
	}
}

func flatBonus(_ *Exchange, p config.Skill, scale float64) EffectDelta {
	return EffectDelta{Applied: true, Bonus: p.Magnitude * scale}
}

func comboBonus(x *Exchange, p config.Skill, scale float64) EffectDelta {
	every := p.Every
	if every <= 0 {
		every = 3
	}
	if (x.Attacker.Attacks+1)%every != 0 {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Bonus: p.Magnitude * scale}
}

func executeBonus(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if x.DefenderHPPct > p.Threshold {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Bonus: p.Magnitude * scale}
}

func teamworkBonus(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if x.AllyCount <= 0 {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Bonus: p.Magnitude * float64(x.AllyCount) * scale}
}

func rageBonus(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if x.Attacker.Attacks <= 0 {
		return EffectDelta{}
	}
	b := p.Magnitude * float64(x.Attacker.Attacks)
	if p.Cap > 0 && b > p.Cap {
		b = p.Cap
	}
	return EffectDelta{Applied: true, Bonus: b * scale}
}

func ambushBonus(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if !x.FirstHit {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Bonus: p.Magnitude * scale}
}

func poisonDamage(x *Exchange, p config.Skill, scale float64) EffectDelta {
	extra := floorMul(x.Base, p.Magnitude*scale)
	if extra <= 0 {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Flat: extra}
}

func pierceDefense(_ *Exchange, p config.Skill, scale float64) EffectDelta {
	v := p.Magnitude * scale
	if p.Cap > 0 && v > p.Cap {
		v = p.Cap
	}
	return EffectDelta{Applied: true, Pierce: v}
}

func lifesteal(_ *Exchange, p config.Skill, scale float64) EffectDelta {
	return EffectDelta{Applied: true, SelfHeal: p.Magnitude * scale}
}

func allyHeal(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if x.AllyCount <= 0 {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, AllyHeal: p.Magnitude * scale}
}

func guardFirstHit(x *Exchange, _ config.Skill, _ float64) EffectDelta {
	if !x.FirstHit {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Negate: true}
}

func chanceDodge(x *Exchange, p config.Skill, _ float64) EffectDelta {
	if x.rng.Float64() >= p.Chance {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Dodge: true}
}

func reduce(_ *Exchange, p config.Skill, scale float64) EffectDelta {
	return EffectDelta{Applied: true, Reduction: p.Magnitude * scale, ReductionCap: p.Cap}
}

func lastStand(x *Exchange, p config.Skill, scale float64) EffectDelta {
	if x.DefenderHPPct > p.Threshold {
		return EffectDelta{}
	}
	return reduce(x, p, scale)
}

func reflectHit(_ *Exchange, _ config.Skill, _ float64) EffectDelta {
	return EffectDelta{Applied: true, Reflect: true}
}

func thornsHit(x *Exchange, _ config.Skill, _ float64) EffectDelta {
	if x.Damage <= 0 {
		return EffectDelta{}
	}
	return EffectDelta{Applied: true, Reflect: true}
}

type boundEffect struct {
	effect
	params config.Skill
}

// SkillBook binds the handler registry to catalog parameters.
type SkillBook struct {
	attacker []boundEffect
	defender []boundEffect
	catalog  map[string]config.Skill
}

var (
	ErrUnknownSkill  = errors.New("unknown skill")
	ErrMissingEffect = errors.New("skill has no effect handler")
)

func NewSkillBook(sc *config.SkillsConfig) (*SkillBook, error) {
	sb := &SkillBook{catalog: map[string]config.Skill{}}
	if sc == nil {
		return sb, nil
	}
	sb.catalog = sc.Index()
	bind := func(side string, effects []effect) ([]boundEffect, error) {
		var out []boundEffect
		handled := map[string]bool{}
		for _, ef := range effects {
			handled[ef.id] = true
			p, ok := sb.catalog[ef.id]
			if !ok {
				continue
			}
			if p.Side != side {
				return nil, fmt.Errorf("skill %q: catalog side %q, handler side %q", ef.id, p.Side, side)
			}
			out = append(out, boundEffect{effect: ef, params: p})
		}
		for _, s := range sc.Skills {
			if s.Side == side && !handled[s.ID] {
				return nil, fmt.Errorf("%w: %s", ErrMissingEffect, s.ID)
			}
		}
		return out, nil
	}
	var err error
	if sb.attacker, err = bind(config.SideAttacker, attackerEffects); err != nil {
		return nil, err
	}
	if sb.defender, err = bind(config.SideDefender, defenderEffects); err != nil {
		return nil, err
	}
	return sb, nil
}

func (sb *SkillBook) Describe(id string) (config.Skill, bool) {
	s, ok := sb.catalog[id]
	return s, ok
}

// CheckCard reports the first skill on c the catalog does not know.
func (sb *SkillBook) CheckCard(c *Card) error {
	for _, s := range c.Skills {
		if _, ok := sb.catalog[s]; !ok {
			return fmt.Errorf("card %s: %w %q", c.ID, ErrUnknownSkill, s)
		}
	}
	return nil
}

// Resolution is the outcome of one attack.
type Resolution struct {
	Damage       int
	SelfHeal     int
	AllyHeal     int
	Reflected    bool
	ReflectSkill string
	Critical     bool
	Dodged       bool
	Skill        string
}

// Resolve runs the attacker pass then the defender pass. Skill is whichever
// applied skill came last in that order.
func (sb *SkillBook) Resolve(pos config.PositionsConfig, atk, def *CardState, baseDamage, allyCount int, defHPPct float64, rng Rand) Resolution {
	x := &Exchange{
		Attacker:      atk,
		Defender:      def,
		Base:          baseDamage,
		AllyCount:     allyCount,
		DefenderHPPct: defHPPct,
		FirstHit:      def.TimesHit == 0,
		rng:           rng,
	}
	var res Resolution
	damage := floorMul(baseDamage, positionMod(pos, atk.Ref.Line).Attack)

	var bonus, pierce, selfHeal, allyHealFrac float64
	flat := 0
	for _, ef := range sb.attacker {
		if !atk.has(ef.id) {
			continue
		}
		d := ef.apply(x, ef.params, atk.skillScale)
		if !d.Applied {
			continue
		}
		res.Skill = ef.id
		bonus += d.Bonus
		flat += d.Flat
		pierce += d.Pierce
		selfHeal += d.SelfHeal
		allyHealFrac += d.AllyHeal
		if d.Critical {
			res.Critical = true
		}
	}
	if bonus != 0 {
		damage = floorMul(damage, 1+bonus)
	}
	damage += flat
	x.Damage = damage

	var reduction, reductionCap float64
	for _, ef := range sb.defender {
		if !def.has(ef.id) {
			continue
		}
		d := ef.apply(x, ef.params, def.skillScale)
		if !d.Applied {
			continue
		}
		res.Skill = ef.id
		if d.Negate || d.Dodge {
			res.Dodged = d.Dodge
			res.Critical = false
			return res
		}
		reduction += d.Reduction
		if d.ReductionCap > reductionCap {
			reductionCap = d.ReductionCap
		}
		if d.Reflect && !res.Reflected {
			res.Reflected = true
			res.ReflectSkill = ef.id
		}
	}
	if reduction > 0 {
		if reductionCap <= 0 {
			reductionCap = 1
		}
		eff := math.Min(reductionCap, reduction) * (1 - math.Min(1, pierce))
		damage = floorMul(damage, 1-eff)
	}
	if damage < 0 {
		damage = 0
	}
	res.Damage = damage
	res.SelfHeal = floorMul(damage, selfHeal)
	res.AllyHeal = floorMul(damage, allyHealFrac)
	return res
}
