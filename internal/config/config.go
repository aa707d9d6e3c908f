package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Store kinds.
const (
	StoreFile = "file"
	StoreSQL  = "sql"
)

// Settings holds process-level options. Environment values are read first,
// command-line flags override them.
type Settings struct {
	StatePath string `env:"CLIENT_MANAGER_STATE"`
	Store     string `env:"CLIENT_MANAGER_STORE" envDefault:"file"`
	DBDriver  string `env:"CLIENT_MANAGER_DB_DRIVER" envDefault:"sqlite3"`
	DBDSN     string `env:"CLIENT_MANAGER_DB_DSN"`
	Addr      string `env:"CLIENT_MANAGER_ADDR" envDefault:"127.0.0.1:7070"`
	LogLevel  string `env:"CLIENT_MANAGER_LOG_LEVEL"`
	Autosave  bool   `env:"CLIENT_MANAGER_AUTOSAVE" envDefault:"true"`
}

// Load reads settings from the environment and fills the state path default.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if s.StatePath == "" {
		s.StatePath = DefaultPath()
	}
	return s, nil
}
