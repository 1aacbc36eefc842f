package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assets embed.FS

func loadYAML(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func loadFrom(fsys fs.FS) (*RulesConfig, *SkillsConfig, error) {
	var rc RulesConfig
	var sc SkillsConfig
	if err := loadYAML(fsys, "rules.yaml", &rc); err != nil {
		return nil, nil, err
	}
	if err := loadYAML(fsys, "skills.yaml", &sc); err != nil {
		return nil, nil, err
	}
	if err := rc.Validate(); err != nil {
		return nil, nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	return &rc, &sc, nil
}

// LoadAll reads rules.yaml and skills.yaml from dir.
func LoadAll(dir string) (*RulesConfig, *SkillsConfig, error) {
	return loadFrom(os.DirFS(dir))
}

// LoadEmbedded reads the tables compiled into the binary.
func LoadEmbedded() (*RulesConfig, *SkillsConfig, error) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, nil, err
	}
	return loadFrom(sub)
}
