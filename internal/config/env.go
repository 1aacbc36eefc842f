package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// SimsvcEnv carries runtime settings for cmd/simsvc.
type SimsvcEnv struct {
	ConfigDir     string `env:"SIMSVC_CONFIG_DIR"`
	OwnershipPath string `env:"SIMSVC_OWNERSHIP"`
	LedgerPath    string `env:"SIMSVC_LEDGER"`
	PlayerID      string `env:"SIMSVC_PLAYER_ID" envDefault:"local"`
	Workers       int    `env:"SIMSVC_WORKERS" envDefault:"8"`
	LogDev        bool   `env:"SIMSVC_LOG_DEV" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
