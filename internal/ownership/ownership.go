// Package ownership is the boundary to the verified library data (owned apps
// and playtime) the server trusts for each player.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type App struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	PlaytimeMinutes int      `yaml:"playtime_minutes"`
	Genres          []string `yaml:"genres"`
}

// Library is one player's verified apps keyed by app id.
type Library map[string]App

func (l Library) Owns(appID string) bool {
	_, ok := l[appID]
	return ok
}

type Source interface {
	Library(ctx context.Context, playerID string) (Library, error)
}

var ErrUnknownPlayer = errors.New("unknown player")

// StaticSource serves libraries held in memory.
type StaticSource map[string]Library

func (s StaticSource) Library(ctx context.Context, playerID string) (Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib, ok := s[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return lib, nil
}

type fileDoc struct {
	Players []struct {
		ID   string `yaml:"id"`
		Apps []App  `yaml:"apps"`
	} `yaml:"players"`
}

// LoadFile reads a YAML export of player libraries.
func LoadFile(path string) (StaticSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ownership file: %w", err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse ownership file %s: %w", path, err)
	}
	out := StaticSource{}
	for _, p := range doc.Players {
		if p.ID == "" {
			return nil, fmt.Errorf("ownership file %s: player without id", path)
		}
		lib := Library{}
		for _, a := range p.Apps {
			if a.ID == "" {
				return nil, fmt.Errorf("ownership file %s: player %s has an app without id", path, p.ID)
			}
			if a.PlaytimeMinutes < 0 {
				return nil, fmt.Errorf("ownership file %s: app %s has negative playtime", path, a.ID)
			}
			lib[a.ID] = a
		}
		out[p.ID] = lib
	}
	return out, nil
}
