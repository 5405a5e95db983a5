package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
)

const (
	defaultPort       = 3000
	defaultMaxRetries = 3
)

type Config struct {
	Database pg.Options
	App      struct {
		Host       string
		Port       int
		LogQueries bool
	}
}

// Load decodes the TOML file at path. A non-empty databaseURL replaces the
// [Database] section.
func Load(path, databaseURL string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if databaseURL != "" {
		opt, err := pg.ParseURL(databaseURL)
		if err != nil {
			return cfg, fmt.Errorf("parse database url: %w", err)
		}
		cfg.Database = *opt
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = defaultPort
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = defaultMaxRetries
	}

	return cfg, nil
}
