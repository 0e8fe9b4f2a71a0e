package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds settings read from the environment. Command-line flags
// override these values.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath    string `env:"SYLLABUS_DB"`
	Addr      string `env:"SYLLABUS_ADDR" envDefault:":8080"`
	// LogLevel and LogFormat are checked by logging.New, after flags apply.
	LogLevel  string `env:"SYLLABUS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SYLLABUS_LOG_FORMAT" envDefault:"text"`
	NoColor   bool   `env:"NO_COLOR"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
