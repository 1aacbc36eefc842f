package combat

import (
	"math"

	"cardclash/internal/util"
)

type team struct {
	side    Side
	cards   []*CardState
	hp      int
	maxHP   int
	synergy int
	lost    int
	healed  int
}

func (t *team) hpPct() float64 {
	if t.maxHP <= 0 {
		return 0
	}
	return float64(t.hp) * 100 / float64(t.maxHP)
}

// damage lowers the pool, clamped at zero, and returns what was removed.
func (t *team) damage(n int) int {
	if n <= 0 || t.hp == 0 {
		return 0
	}
	if n > t.hp {
		n = t.hp
	}
	t.hp -= n
	t.lost += n
	return n
}

// heal raises the pool up to maxHP. A zeroed pool stays down.
func (t *team) heal(n int) int {
	if n <= 0 || t.hp == 0 {
		return 0
	}
	if t.hp+n > t.maxHP {
		n = t.maxHP - t.hp
	}
	t.hp += n
	t.healed += n
	return n
}

type battle struct {
	e        *Engine
	rng      Rand
	now      int
	player   *team
	opponent *team
	log      []LogEntry
	byCard   map[string]int
}

func (e *Engine) newTeam(side Side, r Roster) *team {
	t := &team{side: side, synergy: e.SynergyBonus(r)}
	r.each(func(ref SlotRef, c *Card) {
		ref.Side = side
		t.cards = append(t.cards, e.NewCardState(c, ref, t.synergy))
		t.maxHP += c.HP
	})
	t.hp = t.maxHP
	return t
}

// Simulate runs one battle to completion. Identical input and seed give an
// identical result.
func (e *Engine) Simulate(in SimInput) SimResult {
	var seed int64
	if in.Seed != nil {
		seed = *in.Seed
	} else {
		seed = util.ClockSeed()
	}
	b := &battle{
		e:        e,
		rng:      util.New(seed),
		player:   e.newTeam(PlayerSide, in.Player),
		opponent: e.newTeam(OpponentSide, in.Opponent),
		log:      make([]LogEntry, 0, 256),
		byCard:   map[string]int{},
	}

	loop := e.rules.Loop
	for b.now < loop.CapMS {
		b.now += loop.TickMS
		if b.now > loop.CapMS {
			b.now = loop.CapMS
		}
		b.tick(loop.TickMS)
		if b.player.hp == 0 || b.opponent.hp == 0 {
			break
		}
	}
	return b.finish(seed)
}

func (b *battle) tick(dt int) {
	// every card's timer runs down before anyone fires
	var due []*CardState
	for _, t := range []*team{b.player, b.opponent} {
		for _, cs := range t.cards {
			cs.Timer -= dt
			if cs.Timer <= 0 {
				due = append(due, cs)
			}
		}
	}
	for _, cs := range due {
		cs.Timer = cs.Interval
		b.attack(cs)
	}
}

func (b *battle) teams(s Side) (own, foe *team) {
	if s == PlayerSide {
		return b.player, b.opponent
	}
	return b.opponent, b.player
}

func (b *battle) attack(atk *CardState) {
	own, foe := b.teams(atk.Ref.Side)
	if foe.hp == 0 || len(foe.cards) == 0 {
		return
	}
	def := foe.cards[0]
	if len(foe.cards) > 1 {
		def = foe.cards[b.rng.Intn(len(foe.cards))]
	}

	res := b.e.Resolve(atk, def, atk.Card.Attack, len(own.cards)-1, foe.hpPct(), b.rng)
	atk.Attacks++
	if !res.Dodged {
		def.TimesHit++
	}

	dealt := foe.damage(res.Damage)
	b.byCard[atk.Ref.String()] += dealt
	kind := EventAttack
	switch {
	case res.Dodged:
		kind = EventDodge
	case res.Critical:
		kind = EventCritical
	}
	aRef, dRef := atk.Ref, def.Ref
	b.emit(kind, &aRef, &dRef, dealt, res.Skill)

	if res.Reflected {
		back := own.damage(floorMul(res.Damage, b.e.rules.Loop.ReflectFraction))
		if back > 0 {
			b.byCard[def.Ref.String()] += back
			b.emit(EventReflect, &dRef, &aRef, back, res.ReflectSkill)
		}
	}
	if healed := own.heal(res.SelfHeal); healed > 0 {
		b.emit(EventHeal, &aRef, nil, healed, "lifesteal")
	}
	if healed := own.heal(res.AllyHeal); healed > 0 {
		b.emit(EventHeal, &aRef, nil, healed, "heal")
	}
}

func (b *battle) emit(kind EventKind, atk, def *SlotRef, amount int, skill string) {
	b.log = append(b.log, LogEntry{
		T:          b.now,
		Kind:       kind,
		Attacker:   atk,
		Defender:   def,
		Amount:     amount,
		Skill:      skill,
		PlayerHP:   b.player.hp,
		OpponentHP: b.opponent.hp,
	})
}

func (b *battle) winner() (Winner, EventKind) {
	pDown, oDown := b.player.hp == 0, b.opponent.hp == 0
	switch {
	case pDown && oDown:
		return WinnerDraw, EventDefeat
	case pDown:
		return WinnerOpponent, EventDefeat
	case oDown:
		return WinnerPlayer, EventDefeat
	}
	pp, op := b.player.hpPct(), b.opponent.hpPct()
	switch {
	case math.Abs(pp-op) < b.e.rules.Loop.DrawMarginPct:
		return WinnerDraw, EventTimeout
	case pp > op:
		return WinnerPlayer, EventTimeout
	default:
		return WinnerOpponent, EventTimeout
	}
}

func (b *battle) finish(seed int64) SimResult {
	w, kind := b.winner()
	b.emit(kind, nil, nil, 0, "")
	res := SimResult{
		Winner:          w,
		PlayerHP:        b.player.hp,
		OpponentHP:      b.opponent.hp,
		PlayerMaxHP:     b.player.maxHP,
		OpponentMaxHP:   b.opponent.maxHP,
		DamageDealt:     b.opponent.lost,
		DamageReceived:  b.player.lost,
		PlayerHealed:    b.player.healed,
		OpponentHealed:  b.opponent.healed,
		DurationMS:      b.now,
		Seed:            seed,
		PlayerSynergy:   b.player.synergy,
		OpponentSynergy: b.opponent.synergy,
		Log:             b.log,
	}
	if len(b.byCard) > 0 {
		res.DamageByCard = b.byCard
	}
	return res
}
