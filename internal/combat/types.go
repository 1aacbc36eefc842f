package combat

import (
	"errors"
	"fmt"
)

// LineSize is the number of slots on each of a side's two lines.
const LineSize = 5

type Position string

const (
	Front Position = "front"
	Back  Position = "back"
)

type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

type Side string

const (
	PlayerSide   Side = "player"
	OpponentSide Side = "opponent"
)

type Winner string

const (
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

type EventKind string

const (
	EventAttack   EventKind = "attack"
	EventCritical EventKind = "critical"
	EventDodge    EventKind = "dodge"
	EventReflect  EventKind = "reflect"
	EventHeal     EventKind = "heal"
	EventDefeat   EventKind = "defeat"
	EventTimeout  EventKind = "timeout"
)

// Card is read-only for the whole battle.
type Card struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Attack          int      `json:"attack" yaml:"attack"`
	HP              int      `json:"hp" yaml:"hp"`
	MaxHP           int      `json:"max_hp" yaml:"max_hp"`
	Rarity          Rarity   `json:"rarity" yaml:"rarity"`
	Skills          []string `json:"skills,omitempty" yaml:"skills"`
	Genres          []string `json:"genres,omitempty" yaml:"genres"`
	PlaytimeMinutes int      `json:"playtime_minutes" yaml:"playtime_minutes"`
}

func (c *Card) HasSkill(id string) bool {
	for _, s := range c.Skills {
		if s == id {
			return true
		}
	}
	return false
}

// Roster holds one side's slots. A nil entry is an empty slot.
type Roster struct {
	Front [LineSize]*Card `json:"front"`
	Back  [LineSize]*Card `json:"back"`
}

func (r Roster) Count() int {
	n := 0
	r.each(func(SlotRef, *Card) { n++ })
	return n
}

// each walks occupied slots front 0..4 then back 0..4.
func (r Roster) each(fn func(ref SlotRef, c *Card)) {
	for i, c := range r.Front {
		if c != nil {
			fn(SlotRef{Line: Front, Index: i}, c)
		}
	}
	for i, c := range r.Back {
		if c != nil {
			fn(SlotRef{Line: Back, Index: i}, c)
		}
	}
}

type SlotRef struct {
	Side  Side     `json:"side"`
	Line  Position `json:"line"`
	Index int      `json:"index"`
}

func (s SlotRef) String() string {
	return fmt.Sprintf("%s.%s.%d", s.Side, s.Line, s.Index)
}

// LogEntry is appended once and never changed.
type LogEntry struct {
	T          int       `json:"t"`
	Kind       EventKind `json:"kind"`
	Attacker   *SlotRef  `json:"attacker,omitempty"`
	Defender   *SlotRef  `json:"defender,omitempty"`
	Amount     int       `json:"amount"`
	Skill      string    `json:"skill,omitempty"`
	PlayerHP   int       `json:"player_hp"`
	OpponentHP int       `json:"opponent_hp"`
}

// SimInput mirrors the simulate call. A nil Seed asks for a clock seed,
// which is echoed back in SimResult.Seed.
type SimInput struct {
	Player   Roster `json:"player"`
	Opponent Roster `json:"opponent"`
	Seed     *int64 `json:"seed,omitempty"`
}

var ErrEmptyRoster = errors.New("roster needs at least one card with hp")

// Validate is the caller-side guard; Simulate does not check it.
func (in SimInput) Validate() error {
	for _, side := range []struct {
		name string
		r    Roster
	}{{"player", in.Player}, {"opponent", in.Opponent}} {
		hp := 0
		side.r.each(func(_ SlotRef, c *Card) { hp += c.HP })
		if hp <= 0 {
			return fmt.Errorf("%s: %w", side.name, ErrEmptyRoster)
		}
	}
	return nil
}

type SimResult struct {
	Winner          Winner         `json:"winner"`
	PlayerHP        int            `json:"player_hp"`
	OpponentHP      int            `json:"opponent_hp"`
	PlayerMaxHP     int            `json:"player_max_hp"`
	OpponentMaxHP   int            `json:"opponent_max_hp"`
	DamageDealt     int            `json:"damage_dealt"`
	DamageReceived  int            `json:"damage_received"`
	PlayerHealed    int            `json:"player_healed"`
	OpponentHealed  int            `json:"opponent_healed"`
	DurationMS      int            `json:"duration_ms"`
	Seed            int64          `json:"seed"`
	PlayerSynergy   int            `json:"player_synergy"`
	OpponentSynergy int            `json:"opponent_synergy"`
	DamageByCard    map[string]int `json:"damage_by_card,omitempty"`
	Log             []LogEntry     `json:"log"`
}

// CardState wraps a card with the fields that change during a battle.
type CardState struct {
	Card       *Card
	Ref        SlotRef
	Interval   int
	Timer      int
	Attacks    int
	TimesHit   int
	Synergy    int
	skillScale float64
}

func (cs *CardState) has(id string) bool { return cs.Card.HasSkill(id) }
