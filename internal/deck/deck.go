// Package deck reads deck files and turns them into battle rosters.
package deck

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"cardclash/internal/anticheat"
	"cardclash/internal/combat"
	"cardclash/internal/config"
	"cardclash/internal/ownership"
)

// Deck is the on-disk shape: two lines of up to five cards, null for an
// empty slot.
type Deck struct {
	Name  string         `yaml:"name"`
	Front []*combat.Card `yaml:"front"`
	Back  []*combat.Card `yaml:"back"`
}

var (
	ErrDeckTooLarge = errors.New("too many cards on a line")
	ErrBadStats     = errors.New("card stats must be non-negative")
)

func LoadFile(path string) (*Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	var d Deck
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse deck %s: %w", path, err)
	}
	return &d, nil
}

// Cards lists occupied slots, front line first.
func (d *Deck) Cards() []*combat.Card {
	var out []*combat.Card
	for _, line := range [][]*combat.Card{d.Front, d.Back} {
		for _, c := range line {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Roster checks every card against the skill catalog and rarity table and
// copies the deck into fixed slots.
func (d *Deck) Roster(book *combat.SkillBook, rules *config.RulesConfig) (combat.Roster, error) {
	var r combat.Roster
	if len(d.Front) > combat.LineSize || len(d.Back) > combat.LineSize {
		return r, fmt.Errorf("deck %q: %w (front %d, back %d)", d.Name, ErrDeckTooLarge, len(d.Front), len(d.Back))
	}
	fill := func(dst *[combat.LineSize]*combat.Card, src []*combat.Card) error {
		for i, c := range src {
			if c == nil {
				continue
			}
			nc, err := normalize(c, book, rules)
			if err != nil {
				return fmt.Errorf("deck %q: %w", d.Name, err)
			}
			dst[i] = nc
		}
		return nil
	}
	if err := fill(&r.Front, d.Front); err != nil {
		return combat.Roster{}, err
	}
	if err := fill(&r.Back, d.Back); err != nil {
		return combat.Roster{}, err
	}
	return r, nil
}

func normalize(c *combat.Card, book *combat.SkillBook, rules *config.RulesConfig) (*combat.Card, error) {
	if c.Attack < 0 || c.HP < 0 || c.PlaytimeMinutes < 0 {
		return nil, fmt.Errorf("card %s: %w", c.ID, ErrBadStats)
	}
	if _, ok := rules.GrowthCap(string(c.Rarity)); !ok {
		return nil, fmt.Errorf("card %s: %w %q", c.ID, anticheat.ErrUnknownRarity, c.Rarity)
	}
	nc := *c
	nc.Skills = dedupe(c.Skills)
	nc.Genres = append([]string(nil), c.Genres...)
	if nc.MaxHP < nc.HP {
		nc.MaxHP = nc.HP
	}
	if err := book.CheckCard(&nc); err != nil {
		return nil, err
	}
	return &nc, nil
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Forge builds a card's stats from an owned app the same way the validator
// bounds them, minus the safety margin.
func Forge(app ownership.App, rarity combat.Rarity, skills []string, rules *config.RulesConfig) (combat.Card, error) {
	growthCap, ok := rules.GrowthCap(string(rarity))
	if !ok {
		return combat.Card{}, fmt.Errorf("forge %s: %w %q", app.ID, anticheat.ErrUnknownRarity, rarity)
	}
	vc, fc := rules.Validator, rules.Forge
	atk := (vc.BaseAttack + anticheat.Growth(app.PlaytimeMinutes, vc.GrowthScale, vc.GrowthMax)) * growthCap
	hp := (fc.BaseHP + anticheat.Growth(app.PlaytimeMinutes, fc.HPGrowthScale, fc.HPGrowthMax)) * growthCap
	c := combat.Card{
		ID:              app.ID,
		Name:            app.Name,
		Attack:          int(math.Floor(atk)),
		HP:              int(math.Floor(hp)),
		Rarity:          rarity,
		Skills:          dedupe(skills),
		Genres:          append([]string(nil), app.Genres...),
		PlaytimeMinutes: app.PlaytimeMinutes,
	}
	c.MaxHP = c.HP
	return c, nil
}

// ForgeMissing fills in stats for entries that list neither attack nor hp.
func (d *Deck) ForgeMissing(lib ownership.Library, rules *config.RulesConfig) error {
	for _, line := range [][]*combat.Card{d.Front, d.Back} {
		for i, c := range line {
			if c == nil || c.Attack != 0 || c.HP != 0 {
				continue
			}
			app, ok := lib[c.ID]
			if !ok {
				return fmt.Errorf("forge %s: %w", c.ID, anticheat.ErrNotOwned)
			}
			forged, err := Forge(app, c.Rarity, c.Skills, rules)
			if err != nil {
				return err
			}
			if c.Name != "" {
				forged.Name = c.Name
			}
			if len(c.Genres) > 0 {
				forged.Genres = append([]string(nil), c.Genres...)
			}
			line[i] = &forged
		}
	}
	return nil
}
