package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/client-manager/state.json (or a CWD fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "client-manager", "state.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "client-manager-state.json")
}
