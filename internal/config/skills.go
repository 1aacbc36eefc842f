package config

import (
	"errors"
	"fmt"
)

const (
	SideAttacker = "attacker"
	SideDefender = "defender"
	SideInterval = "interval"
	SideNone     = "none"
)

type SkillsConfig struct {
	Skills []Skill `yaml:"skills"`
}

type Skill struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Side        string  `yaml:"side"`
	Magnitude   float64 `yaml:"magnitude"`
	Chance      float64 `yaml:"chance"`
	Cap         float64 `yaml:"cap"`
	Every       int     `yaml:"every"`
	Threshold   float64 `yaml:"threshold"`
	Description string  `yaml:"description"`
}

var ErrInvalidSkills = errors.New("invalid skill catalog")

func (sc *SkillsConfig) Validate() error {
	seen := map[string]bool{}
	for _, s := range sc.Skills {
		if s.ID == "" {
			return fmt.Errorf("%w: skill without id", ErrInvalidSkills)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate skill %q", ErrInvalidSkills, s.ID)
		}
		seen[s.ID] = true
		switch s.Side {
		case SideAttacker, SideDefender, SideInterval, SideNone:
		default:
			return fmt.Errorf("%w: skill %q has unknown side %q", ErrInvalidSkills, s.ID, s.Side)
		}
		if s.Chance < 0 || s.Chance > 1 {
			return fmt.Errorf("%w: skill %q chance out of [0,1]", ErrInvalidSkills, s.ID)
		}
	}
	return nil
}

// Index returns the catalog keyed by skill id.
func (sc *SkillsConfig) Index() map[string]Skill {
	out := make(map[string]Skill, len(sc.Skills))
	for _, s := range sc.Skills {
		out[s.ID] = s
	}
	return out
}
