package config

import "fmt"

// Validate checks that the selected store has what it needs.
func (s Settings) Validate() error {
	switch s.Store {
	case StoreFile:
		if s.StatePath == "" {
			return fmt.Errorf("state path is required for the file store")
		}
	case StoreSQL:
		switch s.DBDriver {
		case "sqlite3", "postgres":
		default:
			return fmt.Errorf("unsupported database driver %q (want sqlite3 or postgres)", s.DBDriver)
		}
		if s.DBDSN == "" {
			return fmt.Errorf("CLIENT_MANAGER_DB_DSN is required for the sql store")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", s.Store, StoreFile, StoreSQL)
	}
	if s.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}
