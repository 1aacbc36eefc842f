package combat

import (
	"encoding/json"
	"sync"

	"cardclash/internal/config"
)

// Engine holds the rule tables. It is immutable after NewEngine and safe for
// concurrent Simulate calls.
type Engine struct {
	rules *config.RulesConfig
	book  *SkillBook
}

func NewEngine(rules *config.RulesConfig, skills *config.SkillsConfig) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	book, err := NewSkillBook(skills)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules, book: book}, nil
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	rules, skills, err := config.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return NewEngine(rules, skills)
})

// Default returns the engine built from the embedded tables.
func Default() *Engine {
	e, err := defaultEngine()
	if err != nil {
		panic("combat: embedded rules: " + err.Error())
	}
	return e
}

// Simulate runs a battle on the default engine.
func Simulate(in SimInput) SimResult {
	return Default().Simulate(in)
}

func (e *Engine) Rules() *config.RulesConfig { return e.rules }
func (e *Engine) Skills() *SkillBook         { return e.book }

func (e *Engine) AttackInterval(c *Card) int {
	return AttackInterval(c, e.rules.Interval)
}

func (e *Engine) SynergyBonus(r Roster) int {
	return SynergyBonus(r, e.rules.Synergy)
}

// Resolve applies position multipliers and both skill passes to one attack.
func (e *Engine) Resolve(atk, def *CardState, baseDamage, allyCount int, defHPPct float64, rng Rand) Resolution {
	return e.book.Resolve(e.rules.Positions, atk, def, baseDamage, allyCount, defHPPct, rng)
}

// NewCardState prepares a card for battle at the given slot.
func (e *Engine) NewCardState(c *Card, ref SlotRef, synergy int) *CardState {
	iv := e.AttackInterval(c)
	return &CardState{
		Card:       c,
		Ref:        ref,
		Interval:   iv,
		Timer:      iv,
		Synergy:    synergy,
		skillScale: skillScale(e.rules.Positions, ref.Line, synergy),
	}
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
